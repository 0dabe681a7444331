package scraper

import (
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"salary-stats-go/internal/models"
)

// Deduplicator drops vacancies that were already seen, remembering at most
// maxSize keys.
type Deduplicator struct {
	seen *lru.Cache[string, struct{}]
	mu   sync.Mutex
}

// NewDeduplicator creates a new deduplicator
func NewDeduplicator(maxSize int) (*Deduplicator, error) {
	cache, err := lru.New[string, struct{}](maxSize)
	if err != nil {
		return nil, fmt.Errorf("create dedupe cache: %w", err)
	}
	return &Deduplicator{seen: cache}, nil
}

// RemoveDuplicates returns vacancies with repeats removed, keeping first occurrences.
func (d *Deduplicator) RemoveDuplicates(vacancies []models.Vacancy) []models.Vacancy {
	d.mu.Lock()
	defer d.mu.Unlock()

	unique := make([]models.Vacancy, 0, len(vacancies))
	for _, vacancy := range vacancies {
		key := vacancyKey(vacancy)
		if d.seen.Contains(key) {
			continue
		}
		d.seen.Add(key, struct{}{})
		unique = append(unique, vacancy)
	}

	return unique
}

// Reset forgets every key seen so far
func (d *Deduplicator) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen.Purge()
}

// GetSeenCount returns the number of keys currently remembered
func (d *Deduplicator) GetSeenCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.seen.Len()
}

// vacancyKey identifies a vacancy by source ID, falling back to title and employer.
func vacancyKey(v models.Vacancy) string {
	if v.ID != "" {
		return v.Source + "|id|" + v.ID
	}
	title := strings.ToLower(strings.TrimSpace(v.Title))
	employer := strings.ToLower(strings.TrimSpace(v.Employer))
	return fmt.Sprintf("%s|%s|%s", v.Source, title, employer)
}
