package storage

import (
	"fmt"
	"sync"

	"salary-stats-go/internal/models"
)

// MemoryStore is a Store that lives for the duration of a single run.
type MemoryStore struct {
	order   []string
	reports map[string]*models.Report
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[string]*models.Report),
	}
}

func (s *MemoryStore) SaveStats(source, language string, stats models.LanguageStats) error {
	if source == "" {
		return fmt.Errorf("source name is required")
	}
	if language == "" {
		return fmt.Errorf("language is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report, exists := s.reports[source]
	if !exists {
		report = models.NewReport(source)
		s.reports[source] = report
		s.order = append(s.order, source)
	}
	report.Set(language, stats)

	return nil
}

// Reports returns copies of the stored reports, so callers may not mutate the store.
func (s *MemoryStore) Reports() ([]models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Report, 0, len(s.order))
	for _, source := range s.order {
		report := s.reports[source]

		stats := make(map[string]models.LanguageStats, len(report.Stats))
		for lang, st := range report.Stats {
			stats[lang] = st
		}

		out = append(out, models.Report{
			Source:    report.Source,
			Languages: append([]string(nil), report.Languages...),
			Stats:     stats,
		})
	}

	return out, nil
}
