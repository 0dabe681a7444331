// Package salary turns reported pay ranges into a single expected figure and
// folds those figures into per-language statistics.
package salary

import "salary-stats-go/internal/models"

// Expected returns the representative salary for a reported range: the
// midpoint when both bounds are present, the single bound when only one is,
// and false when neither is. A bound is present when it is positive.
func Expected(from, to float64) (float64, bool) {
	switch {
	case from > 0 && to > 0:
		return (from + to) / 2, true
	case from > 0:
		return from, true
	case to > 0:
		return to, true
	default:
		return 0, false
	}
}

// Policy decides which listings of a source are eligible for estimation.
// An empty Currency accepts every listing that carries a salary block.
type Policy struct {
	Currency string
}

// Estimate returns the expected salary of s under the policy.
func (p Policy) Estimate(s *models.Salary) (float64, bool) {
	if s == nil {
		return 0, false
	}
	if p.Currency != "" && s.Currency != p.Currency {
		return 0, false
	}
	return Expected(s.From, s.To)
}

// Aggregate folds the estimates of vacancies into LanguageStats. found is the
// source-reported total and is passed through unchanged, even when it exceeds
// len(vacancies).
func Aggregate(vacancies []models.Vacancy, found int, p Policy) models.LanguageStats {
	var (
		sum       float64
		processed int
	)
	for _, v := range vacancies {
		expected, ok := p.Estimate(v.Salary)
		if !ok {
			continue
		}
		sum += expected
		processed++
	}

	stats := models.LanguageStats{
		VacanciesFound:     found,
		VacanciesProcessed: processed,
	}
	if processed > 0 {
		stats.AverageSalary = int(sum / float64(processed))
	}
	return stats
}
