package storage

import "salary-stats-go/internal/models"

// Store keeps the per-source statistics produced during a run.
type Store interface {
	SaveStats(source, language string, stats models.LanguageStats) error
	Reports() ([]models.Report, error) // one report per source, in first-save order
}
