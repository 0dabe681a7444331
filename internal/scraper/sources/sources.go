package sources

import (
	"context"
	"time"

	"salary-stats-go/internal/models"
	"salary-stats-go/internal/salary"
)

// Query describes one vacancy search for a single language.
type Query struct {
	Language string
	Text     string    // free-text search, e.g. "Программист Python"
	DateFrom time.Time // only vacancies published after this moment
}

// FetchResult holds every vacancy paged in for a query plus the source-reported total.
// Found may exceed len(Vacancies) when the source caps the number of pages.
type FetchResult struct {
	Vacancies []models.Vacancy
	Found     int
	Pages     int
}

// JobSource represents a job board API
type JobSource interface {
	GetName() string
	GetBaseURL() string
	SalaryPolicy() salary.Policy
	FetchVacancies(ctx context.Context, query Query) (*FetchResult, error)
}

// JobSourceConfig holds runtime settings for a registered source
type JobSourceConfig struct {
	Enabled bool `json:"enabled"`
}

// SourceManager manages all job sources in registration order
type SourceManager struct {
	order   []string
	sources map[string]JobSource
	configs map[string]JobSourceConfig
}

// NewSourceManager creates a new source manager
func NewSourceManager() *SourceManager {
	return &SourceManager{
		sources: make(map[string]JobSource),
		configs: make(map[string]JobSourceConfig),
	}
}

// RegisterSource registers a new job source. Re-registering a name replaces
// the source but keeps its position.
func (sm *SourceManager) RegisterSource(source JobSource, config JobSourceConfig) {
	name := source.GetName()
	if _, exists := sm.sources[name]; !exists {
		sm.order = append(sm.order, name)
	}
	sm.sources[name] = source
	sm.configs[name] = config
}

// GetSources returns all registered sources in registration order
func (sm *SourceManager) GetSources() []JobSource {
	out := make([]JobSource, 0, len(sm.order))
	for _, name := range sm.order {
		out = append(out, sm.sources[name])
	}
	return out
}

// GetEnabledSources returns only enabled sources, in registration order
func (sm *SourceManager) GetEnabledSources() []JobSource {
	var enabled []JobSource
	for _, name := range sm.order {
		if config, exists := sm.configs[name]; exists && config.Enabled {
			enabled = append(enabled, sm.sources[name])
		}
	}
	return enabled
}

// GetSourceConfig returns configuration for a source
func (sm *SourceManager) GetSourceConfig(name string) (JobSourceConfig, bool) {
	config, exists := sm.configs[name]
	return config, exists
}
