package models

// LanguageStats holds the aggregated salary figures for one language from one source.
type LanguageStats struct {
	VacanciesFound     int `json:"vacancies_found"`
	VacanciesProcessed int `json:"vacancies_processed"`
	AverageSalary      int `json:"average_salary"`
}

// Report maps language names to their stats for a single source.
// Languages keeps insertion order so the table rows follow the configured order.
type Report struct {
	Source    string                   `json:"source"`
	Languages []string                 `json:"languages"`
	Stats     map[string]LanguageStats `json:"stats"`
}

// NewReport creates an empty report for source.
func NewReport(source string) *Report {
	return &Report{
		Source: source,
		Stats:  make(map[string]LanguageStats),
	}
}

// Set stores stats for language, keeping the original position on overwrite.
func (r *Report) Set(language string, stats LanguageStats) {
	if _, exists := r.Stats[language]; !exists {
		r.Languages = append(r.Languages, language)
	}
	r.Stats[language] = stats
}
