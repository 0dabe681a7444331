package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"salary-stats-go/internal/config"
	"salary-stats-go/internal/report"
	"salary-stats-go/internal/scraper"
	"salary-stats-go/internal/storage"
	"salary-stats-go/pkg/log"
)

func main() {
	if err := run(); err != nil {
		zap.S().Errorw("salary stats failed", "error", err)
		_ = zap.L().Sync()
		os.Exit(1)
	}
	_ = zap.L().Sync()
}

func run() error {
	// Info until the configured level is known
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	zap.ReplaceGlobals(log.InitLog(level))

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	level.SetLevel(log.ParseLevel(cfg.Monitoring.LogLevel).Level())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := scraper.NewScraper(storage.NewMemoryStore(), scraper.Options{
		QueryPrefix: cfg.Search.QueryPrefix,
		PeriodDays:  cfg.Search.PeriodDays,
	})

	if cfg.Monitoring.MetricsAddr != "" {
		metrics := scraper.NewMetrics()
		s.WithMetrics(metrics)

		metricsServer := &http.Server{
			Addr:              cfg.Monitoring.MetricsAddr,
			Handler:           promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zap.S().Errorw("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
		zap.S().Infow("metrics server enabled", "addr", cfg.Monitoring.MetricsAddr)
	}

	if cfg.Monitoring.Deduplicate {
		dedupe, err := scraper.NewDeduplicator(cfg.Monitoring.DedupeMaxSize)
		if err != nil {
			return err
		}
		s.WithDeduplicator(dedupe)
	}

	if err := s.InitializeSources(cfg); err != nil {
		return fmt.Errorf("failed to initialize sources: %w", err)
	}

	var bar *pb.ProgressBar
	if cfg.Monitoring.ShowProgress {
		bar = pb.New(len(cfg.Search.Languages) * len(s.EnabledSources()))
		bar.SetWriter(os.Stderr)
		bar.Start()
		s.WithProgress(bar)
	}

	runErr := s.Run(ctx, cfg.Search.Languages)
	if bar != nil {
		bar.Finish()
	}
	printMetrics(s)
	if runErr != nil {
		return runErr
	}

	reports, err := s.Reports()
	if err != nil {
		return fmt.Errorf("failed to read results: %w", err)
	}

	return report.NewTablePrinter(os.Stdout).PrintAll(reports)
}

// printMetrics logs the per-source summary of the run
func printMetrics(s *scraper.Scraper) {
	metrics := s.GetMetrics()
	logger := zap.S().Named("metrics")

	logger.Infow("run summary",
		"fetched", metrics.TotalVacanciesFetched,
		"processed", metrics.TotalVacanciesProcessed,
		"duplicates", metrics.TotalDuplicates,
		"errors", metrics.TotalErrors,
		"duration", metrics.ScrapingDuration)

	for source, perf := range metrics.SourcePerformance {
		logger.Infow("source summary",
			"source", source,
			"fetched", perf.VacanciesFetched,
			"processed", perf.VacanciesProcessed,
			"pages", perf.Pages,
			"duplicates", perf.Duplicates,
			"errors", perf.Errors,
			"response_time", perf.ResponseTime)
	}
}
