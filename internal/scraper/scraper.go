package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"go.uber.org/zap"

	"salary-stats-go/internal/config"
	"salary-stats-go/internal/models"
	"salary-stats-go/internal/salary"
	"salary-stats-go/internal/scraper/sources"
	"salary-stats-go/internal/storage"
	"salary-stats-go/pkg/httpclient"
)

// Options holds the search settings shared by every source.
type Options struct {
	QueryPrefix string
	PeriodDays  int
}

// Scraper collects salary statistics for each language from every enabled source.
type Scraper struct {
	sourceManager *sources.SourceManager
	storage       storage.Store
	deduplicator  *Deduplicator
	progress      *pb.ProgressBar
	opts          Options
	metrics       *ScraperMetrics
	now           func() time.Time

	// Metrics is nil when Prometheus collection is disabled.
	Metrics *Metrics
}

// ScraperMetrics summarises a run
type ScraperMetrics struct {
	TotalVacanciesFetched   int64
	TotalVacanciesProcessed int64
	TotalDuplicates         int64
	TotalErrors             int64
	ScrapingDuration        time.Duration
	SourcePerformance       map[string]SourceMetrics
	mu                      sync.RWMutex
}

// SourceMetrics tracks performance per source
type SourceMetrics struct {
	VacanciesFetched   int64
	VacanciesProcessed int64
	Duplicates         int64
	Errors             int64
	Pages              int64
	ResponseTime       time.Duration
	LastScraped        time.Time
}

// NewScraper creates a scraper writing its results to store
func NewScraper(store storage.Store, opts Options) *Scraper {
	return &Scraper{
		sourceManager: sources.NewSourceManager(),
		storage:       store,
		opts:          opts,
		metrics: &ScraperMetrics{
			SourcePerformance: make(map[string]SourceMetrics),
		},
		now: time.Now,
	}
}

// WithMetrics enables Prometheus collection. Call before InitializeSources so
// request observers are installed on the source clients.
func (s *Scraper) WithMetrics(m *Metrics) *Scraper {
	s.Metrics = m
	return s
}

// WithDeduplicator drops repeated vacancies within each (language, source) fetch.
func (s *Scraper) WithDeduplicator(d *Deduplicator) *Scraper {
	s.deduplicator = d
	return s
}

// WithProgress ticks bar once per (language, source) pair.
func (s *Scraper) WithProgress(bar *pb.ProgressBar) *Scraper {
	s.progress = bar
	return s
}

// RegisterSource adds a source; sources run and report in registration order.
func (s *Scraper) RegisterSource(source sources.JobSource, enabled bool) {
	s.sourceManager.RegisterSource(source, sources.JobSourceConfig{Enabled: enabled})
}

// EnabledSources returns the sources a run will query
func (s *Scraper) EnabledSources() []sources.JobSource {
	return s.sourceManager.GetEnabledSources()
}

// InitializeSources sets up SuperJob and HeadHunter, each with its own paced client.
func (s *Scraper) InitializeSources(cfg *config.Config) error {
	superJobClient, err := s.newClient(cfg.SuperJob.BaseURL, cfg.HTTP, "SuperJob")
	if err != nil {
		return fmt.Errorf("superjob client: %w", err)
	}
	s.RegisterSource(sources.NewSuperJobSource(superJobClient, cfg.SuperJob), cfg.SuperJob.Enabled)

	headHunterClient, err := s.newClient(cfg.HeadHunter.BaseURL, cfg.HTTP, "HeadHunter")
	if err != nil {
		return fmt.Errorf("headhunter client: %w", err)
	}
	s.RegisterSource(sources.NewHeadHunterSource(headHunterClient, cfg.HeadHunter), cfg.HeadHunter.Enabled)

	zap.S().Named("scraper").Infof("Initialized %d job sources", len(s.EnabledSources()))
	return nil
}

func (s *Scraper) newClient(baseURL string, cfg config.HTTPConfig, source string) (*httpclient.HttpClient, error) {
	client, err := httpclient.NewHttpClient(httpclient.Options{
		BaseURL:   baseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
		Delay:     cfg.RequestDelay,
	})
	if err != nil {
		return nil, err
	}
	if s.Metrics != nil {
		client.SetObserver(s.Metrics.ObserverFor(source))
	}
	return client, nil
}

// Run fetches every language from every enabled source, languages outermost.
// The first failure aborts the run.
func (s *Scraper) Run(ctx context.Context, languages []string) error {
	logger := zap.S().Named("scraper")

	startTime := time.Now()
	defer func() {
		s.metrics.mu.Lock()
		s.metrics.ScrapingDuration = time.Since(startTime)
		s.metrics.mu.Unlock()
	}()

	enabledSources := s.EnabledSources()
	if len(enabledSources) == 0 {
		return fmt.Errorf("no enabled sources found")
	}

	dateFrom := s.now().AddDate(0, 0, -s.opts.PeriodDays)

	for _, language := range languages {
		for _, source := range enabledSources {
			if err := s.scrapeLanguage(ctx, source, language, dateFrom); err != nil {
				s.recordError(source.GetName())
				return fmt.Errorf("%s: %s: %w", source.GetName(), language, err)
			}
			if s.progress != nil {
				s.progress.Increment()
			}
		}
	}

	logger.Infow("scraping completed",
		"languages", len(languages),
		"sources", len(enabledSources),
		"duration", time.Since(startTime))

	return nil
}

func (s *Scraper) scrapeLanguage(ctx context.Context, source sources.JobSource, language string, dateFrom time.Time) error {
	logger := zap.S().Named("scraper")
	name := source.GetName()

	query := sources.Query{
		Language: language,
		Text:     s.opts.QueryPrefix + " " + language,
		DateFrom: dateFrom,
	}

	startTime := time.Now()
	result, err := source.FetchVacancies(ctx, query)
	if err != nil {
		return err
	}
	elapsed := time.Since(startTime)

	vacancies := result.Vacancies
	duplicates := 0
	if s.deduplicator != nil {
		s.deduplicator.Reset()
		vacancies = s.deduplicator.RemoveDuplicates(vacancies)
		duplicates = len(result.Vacancies) - len(vacancies)
	}

	stats := salary.Aggregate(vacancies, result.Found, source.SalaryPolicy())
	if err := s.storage.SaveStats(name, language, stats); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}

	s.recordSuccess(name, result, stats, duplicates, elapsed)
	s.Metrics.AddVacancies(name, language, len(vacancies), stats.VacanciesProcessed)
	s.Metrics.AddDuplicates(name, duplicates)

	logger.Infow("language processed",
		"source", name,
		"language", language,
		"found", stats.VacanciesFound,
		"fetched", len(result.Vacancies),
		"processed", stats.VacanciesProcessed,
		"average_salary", stats.AverageSalary,
		"duration", elapsed)

	return nil
}

func (s *Scraper) recordSuccess(source string, result *sources.FetchResult, stats models.LanguageStats, duplicates int, elapsed time.Duration) {
	s.metrics.mu.Lock()
	defer s.metrics.mu.Unlock()

	s.metrics.TotalVacanciesFetched += int64(len(result.Vacancies))
	s.metrics.TotalVacanciesProcessed += int64(stats.VacanciesProcessed)
	s.metrics.TotalDuplicates += int64(duplicates)

	sourceMetric := s.metrics.SourcePerformance[source]
	sourceMetric.VacanciesFetched += int64(len(result.Vacancies))
	sourceMetric.VacanciesProcessed += int64(stats.VacanciesProcessed)
	sourceMetric.Duplicates += int64(duplicates)
	sourceMetric.Pages += int64(result.Pages)
	sourceMetric.ResponseTime += elapsed
	sourceMetric.LastScraped = s.now()
	s.metrics.SourcePerformance[source] = sourceMetric
}

func (s *Scraper) recordError(source string) {
	s.metrics.mu.Lock()
	defer s.metrics.mu.Unlock()

	s.metrics.TotalErrors++
	sourceMetric := s.metrics.SourcePerformance[source]
	sourceMetric.Errors++
	s.metrics.SourcePerformance[source] = sourceMetric
}

// Reports returns the statistics collected so far, one report per source.
func (s *Scraper) Reports() ([]models.Report, error) {
	return s.storage.Reports()
}

// GetMetrics returns current scraper metrics
func (s *Scraper) GetMetrics() ScraperMetrics {
	s.metrics.mu.RLock()
	defer s.metrics.mu.RUnlock()

	// Copy without the mutex
	sourcePerformance := make(map[string]SourceMetrics)
	for k, v := range s.metrics.SourcePerformance {
		sourcePerformance[k] = v
	}

	return ScraperMetrics{
		TotalVacanciesFetched:   s.metrics.TotalVacanciesFetched,
		TotalVacanciesProcessed: s.metrics.TotalVacanciesProcessed,
		TotalDuplicates:         s.metrics.TotalDuplicates,
		TotalErrors:             s.metrics.TotalErrors,
		ScrapingDuration:        s.metrics.ScrapingDuration,
		SourcePerformance:       sourcePerformance,
	}
}
