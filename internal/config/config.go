package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration
type Config struct {
	Search     SearchConfig
	HTTP       HTTPConfig
	HeadHunter HeadHunterConfig
	SuperJob   SuperJobConfig
	Monitoring MonitoringConfig
}

// SearchConfig holds the query terms shared by all sources
type SearchConfig struct {
	Languages   []string `envconfig:"LANGUAGES" default:"Python,Java,JavaScript,C#,Ruby"`
	QueryPrefix string   `envconfig:"QUERY_PREFIX" default:"Программист"`
	PeriodDays  int      `envconfig:"PERIOD_DAYS" default:"30"`
}

// HTTPConfig holds request pacing and transport settings
type HTTPConfig struct {
	RequestDelay   time.Duration `envconfig:"REQUEST_DELAY" default:"500ms"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	UserAgent      string        `envconfig:"USER_AGENT" default:"salary-stats-go/1.0"`
}

// HeadHunterConfig holds configuration for the hh.ru source
type HeadHunterConfig struct {
	Enabled  bool   `envconfig:"HH_ENABLED" default:"true"`
	BaseURL  string `envconfig:"HH_BASE_URL" default:"https://api.hh.ru/vacancies"`
	AreaID   string `envconfig:"HH_AREA_ID" default:"1"`
	Currency string `envconfig:"HH_CURRENCY" default:"RUR"`
}

// SuperJobConfig holds configuration for the superjob.ru source
type SuperJobConfig struct {
	Enabled  bool   `envconfig:"SUPERJOB_ENABLED" default:"true"`
	BaseURL  string `envconfig:"SUPERJOB_BASE_URL" default:"https://api.superjob.ru/2.0/vacancies/"`
	APIKey   string `envconfig:"SUPJOB_KEY"`
	Town     string `envconfig:"SUPERJOB_TOWN" default:"Москва"`
	PageSize int    `envconfig:"SUPERJOB_PAGE_SIZE" default:"100"`
}

// MonitoringConfig holds logging, metrics and progress settings
type MonitoringConfig struct {
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	MetricsAddr   string `envconfig:"METRICS_ADDR"`
	ShowProgress  bool   `envconfig:"SHOW_PROGRESS" default:"true"`
	Deduplicate   bool   `envconfig:"DEDUPLICATE" default:"false"`
	DedupeMaxSize int    `envconfig:"DEDUPE_MAX_SIZE" default:"10000"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Languages:   []string{"Python", "Java", "JavaScript", "C#", "Ruby"},
			QueryPrefix: "Программист",
			PeriodDays:  30,
		},
		HTTP: HTTPConfig{
			RequestDelay:   500 * time.Millisecond,
			RequestTimeout: 30 * time.Second,
			UserAgent:      "salary-stats-go/1.0",
		},
		HeadHunter: HeadHunterConfig{
			Enabled:  true,
			BaseURL:  "https://api.hh.ru/vacancies",
			AreaID:   "1",
			Currency: "RUR",
		},
		SuperJob: SuperJobConfig{
			Enabled:  true,
			BaseURL:  "https://api.superjob.ru/2.0/vacancies/",
			Town:     "Москва",
			PageSize: 100,
		},
		Monitoring: MonitoringConfig{
			LogLevel:      "info",
			ShowProgress:  true,
			DedupeMaxSize: 10000,
		},
	}
}

// LoadConfig reads the optional .env files and then the process environment.
// A missing .env file is not an error.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	languages := cfg.Search.Languages[:0]
	for _, lang := range cfg.Search.Languages {
		if lang = strings.TrimSpace(lang); lang != "" {
			languages = append(languages, lang)
		}
	}
	cfg.Search.Languages = languages

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Search.Languages) == 0 {
		return fmt.Errorf("at least one language is required")
	}

	if c.Search.PeriodDays <= 0 {
		return fmt.Errorf("period days must be positive")
	}

	if c.HTTP.RequestDelay < 0 {
		return fmt.Errorf("request delay cannot be negative")
	}

	if c.HTTP.RequestTimeout < 0 {
		return fmt.Errorf("request timeout cannot be negative")
	}

	if !c.HeadHunter.Enabled && !c.SuperJob.Enabled {
		return fmt.Errorf("at least one job source must be enabled")
	}

	if c.HeadHunter.Enabled {
		if err := validateURL("headhunter", c.HeadHunter.BaseURL); err != nil {
			return err
		}
		if c.HeadHunter.AreaID == "" {
			return fmt.Errorf("headhunter area id is required")
		}
	}

	if c.SuperJob.Enabled {
		if err := validateURL("superjob", c.SuperJob.BaseURL); err != nil {
			return err
		}
		if c.SuperJob.APIKey == "" {
			return fmt.Errorf("superjob api key is required (SUPJOB_KEY)")
		}
		if c.SuperJob.PageSize <= 0 {
			return fmt.Errorf("superjob page size must be positive")
		}
	}

	if c.Monitoring.Deduplicate && c.Monitoring.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}

	return nil
}

func validateURL(source, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s base URL cannot be empty", source)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s base URL: %w", source, err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s base URL must include a host", source)
	}
	return nil
}
