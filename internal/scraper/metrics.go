package scraper

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"salary-stats-go/pkg/httpclient"
)

// Metrics bundles Prometheus collectors for a run.
type Metrics struct {
	Registry                *prometheus.Registry
	RequestsTotal           *prometheus.CounterVec
	RequestDuration         *prometheus.HistogramVec
	ErrorsTotal             *prometheus.CounterVec
	VacanciesFetchedTotal   *prometheus.CounterVec
	VacanciesProcessedTotal *prometheus.CounterVec
	DuplicatesTotal         *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salary_stats_requests_total",
			Help: "Total API requests issued, by source and response status.",
		},
		[]string{"source", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salary_stats_request_duration_seconds",
			Help:    "API request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salary_stats_errors_total",
			Help: "Total number of request errors by type.",
		},
		[]string{"source", "error_type"},
	)
	fetched := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salary_stats_vacancies_fetched_total",
			Help: "Vacancies paged in from the source APIs.",
		},
		[]string{"source", "language"},
	)
	processed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salary_stats_vacancies_processed_total",
			Help: "Vacancies that contributed a salary estimate.",
		},
		[]string{"source", "language"},
	)
	duplicates := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salary_stats_duplicates_total",
			Help: "Vacancies dropped as duplicates.",
		},
		[]string{"source"},
	)

	registry.MustRegister(requests, requestDuration, errorsTotal, fetched, processed, duplicates)

	return &Metrics{
		Registry:                registry,
		RequestsTotal:           requests,
		RequestDuration:         requestDuration,
		ErrorsTotal:             errorsTotal,
		VacanciesFetchedTotal:   fetched,
		VacanciesProcessedTotal: processed,
		DuplicatesTotal:         duplicates,
	}
}

// ObserverFor returns an httpclient.Observer recording requests for source.
func (m *Metrics) ObserverFor(source string) httpclient.Observer {
	return func(status int, elapsed time.Duration, err error) {
		m.ObserveRequest(source, status, elapsed)
		if err != nil {
			m.IncError(source, httpclient.ErrorTypeLabel(err))
		}
	}
}

// ObserveRequest counts one request and records its latency.
func (m *Metrics) ObserveRequest(source string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(source, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(source).Observe(d.Seconds())
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(source, errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(source, errorType).Inc()
}

// AddVacancies records fetched and processed counts for one language.
func (m *Metrics) AddVacancies(source, language string, fetched, processed int) {
	if m == nil {
		return
	}
	m.VacanciesFetchedTotal.WithLabelValues(source, language).Add(float64(fetched))
	m.VacanciesProcessedTotal.WithLabelValues(source, language).Add(float64(processed))
}

// AddDuplicates records dropped duplicates.
func (m *Metrics) AddDuplicates(source string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.DuplicatesTotal.WithLabelValues(source).Add(float64(n))
}
