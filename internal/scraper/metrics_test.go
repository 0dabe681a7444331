package scraper

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, m *Metrics, name string) float64 {
	t.Helper()

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	total := 0.0
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("SuperJob", 200, time.Second)
		m.IncError("SuperJob", "timeout")
		m.AddVacancies("SuperJob", "Python", 10, 5)
		m.AddDuplicates("SuperJob", 1)
	})
}

func TestObserverForCountsRequestsAndErrors(t *testing.T) {
	m := NewMetrics()
	observe := m.ObserverFor("HeadHunter")

	observe(200, 10*time.Millisecond, nil)
	observe(0, time.Millisecond, errors.New("dial tcp: refused"))

	assert.Equal(t, 2.0, counterValue(t, m, "salary_stats_requests_total"))
	assert.Equal(t, 1.0, counterValue(t, m, "salary_stats_errors_total"))
}
