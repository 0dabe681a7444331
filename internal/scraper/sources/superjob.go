package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"salary-stats-go/internal/config"
	"salary-stats-go/internal/models"
	"salary-stats-go/internal/salary"
	"salary-stats-go/pkg/httpclient"
)

// SuperJobSource implements JobSource for the superjob.ru API
type SuperJobSource struct {
	client *httpclient.HttpClient
	cfg    config.SuperJobConfig
}

// NewSuperJobSource creates a new SuperJob source
func NewSuperJobSource(client *httpclient.HttpClient, cfg config.SuperJobConfig) *SuperJobSource {
	return &SuperJobSource{
		client: client,
		cfg:    cfg,
	}
}

func (s *SuperJobSource) GetName() string {
	return "SuperJob"
}

func (s *SuperJobSource) GetBaseURL() string {
	return s.cfg.BaseURL
}

// SalaryPolicy has no currency filter: SuperJob reports salaries in roubles only.
func (s *SuperJobSource) SalaryPolicy() salary.Policy {
	return salary.Policy{}
}

// SuperJobResponse represents one page of the SuperJob vacancy search
type SuperJobResponse struct {
	Objects []SuperJobVacancy `json:"objects"`
	Total   int               `json:"total"`
	More    bool              `json:"more"`
}

// SuperJobVacancy represents a vacancy from the SuperJob API.
// Unreported payment bounds arrive as 0 or null.
type SuperJobVacancy struct {
	ID          int     `json:"id"`
	Profession  string  `json:"profession"`
	FirmName    string  `json:"firm_name"`
	Link        string  `json:"link"`
	PaymentFrom float64 `json:"payment_from"`
	PaymentTo   float64 `json:"payment_to"`
	Currency    string  `json:"currency"`
}

// FetchVacancies pages through the search while the API reports more pages.
func (s *SuperJobSource) FetchVacancies(ctx context.Context, query Query) (*FetchResult, error) {
	logger := zap.S().Named("superjob")

	header := http.Header{}
	header.Set("X-Api-App-Id", s.cfg.APIKey)

	result := &FetchResult{}
	page, more := 0, true
	for more {
		params := url.Values{}
		params.Set("keyword", query.Text)
		params.Set("town", s.cfg.Town)
		params.Set("date_published_from", strconv.FormatInt(query.DateFrom.Unix(), 10))
		params.Set("count", strconv.Itoa(s.cfg.PageSize))
		params.Set("page", strconv.Itoa(page))

		var response SuperJobResponse
		if err := s.client.GetJSON(ctx, s.cfg.BaseURL, params, header, &response); err != nil {
			return nil, fmt.Errorf("failed to fetch page %d from SuperJob: %w", page, err)
		}

		for _, object := range response.Objects {
			result.Vacancies = append(result.Vacancies, s.toVacancy(object))
		}
		result.Found = response.Total
		more = response.More

		logger.Debugw("fetched page", "language", query.Language, "page", page, "items", len(response.Objects), "more", more)
		page++
	}
	result.Pages = page

	return result, nil
}

func (s *SuperJobSource) toVacancy(object SuperJobVacancy) models.Vacancy {
	return models.Vacancy{
		ID:       strconv.Itoa(object.ID),
		Title:    object.Profession,
		Employer: object.FirmName,
		URL:      object.Link,
		Source:   s.GetName(),
		Salary: &models.Salary{
			From:     object.PaymentFrom,
			To:       object.PaymentTo,
			Currency: object.Currency,
		},
	}
}
