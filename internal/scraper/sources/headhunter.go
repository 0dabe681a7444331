package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"salary-stats-go/internal/config"
	"salary-stats-go/internal/models"
	"salary-stats-go/internal/salary"
	"salary-stats-go/pkg/httpclient"
)

// hh.ru accepts ISO 8601 without a zone offset for date_from.
const headHunterDateLayout = "2006-01-02T15:04:05"

// HeadHunterSource implements JobSource for the hh.ru API
type HeadHunterSource struct {
	client *httpclient.HttpClient
	cfg    config.HeadHunterConfig
}

// NewHeadHunterSource creates a new HeadHunter source
func NewHeadHunterSource(client *httpclient.HttpClient, cfg config.HeadHunterConfig) *HeadHunterSource {
	return &HeadHunterSource{
		client: client,
		cfg:    cfg,
	}
}

func (h *HeadHunterSource) GetName() string {
	return "HeadHunter"
}

func (h *HeadHunterSource) GetBaseURL() string {
	return h.cfg.BaseURL
}

// SalaryPolicy accepts only salaries in the configured domestic currency.
func (h *HeadHunterSource) SalaryPolicy() salary.Policy {
	return salary.Policy{Currency: h.cfg.Currency}
}

// HeadHunterResponse represents one page of the hh.ru vacancy search
type HeadHunterResponse struct {
	Items   []HeadHunterVacancy `json:"items"`
	Found   int                 `json:"found"`
	Pages   int                 `json:"pages"`
	Page    int                 `json:"page"`
	PerPage int                 `json:"per_page"`
}

// HeadHunterVacancy represents a vacancy from the hh.ru API
type HeadHunterVacancy struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	AlternateURL string            `json:"alternate_url"`
	Salary       *HeadHunterSalary `json:"salary"`
	Employer     struct {
		Name string `json:"name"`
	} `json:"employer"`
}

// HeadHunterSalary is the optional salary block; bounds are null when unreported.
type HeadHunterSalary struct {
	From     *float64 `json:"from"`
	To       *float64 `json:"to"`
	Currency string   `json:"currency"`
	Gross    *bool    `json:"gross"`
}

// FetchVacancies pages through the search until the reported page count is reached.
func (h *HeadHunterSource) FetchVacancies(ctx context.Context, query Query) (*FetchResult, error) {
	logger := zap.S().Named("headhunter")

	result := &FetchResult{}
	page, pages := 0, 1
	for page < pages {
		params := url.Values{}
		params.Set("text", query.Text)
		params.Set("area", h.cfg.AreaID)
		params.Set("date_from", query.DateFrom.Format(headHunterDateLayout))
		params.Set("page", strconv.Itoa(page))

		var response HeadHunterResponse
		if err := h.client.GetJSON(ctx, h.cfg.BaseURL, params, nil, &response); err != nil {
			return nil, fmt.Errorf("failed to fetch page %d from HeadHunter: %w", page, err)
		}

		for _, item := range response.Items {
			result.Vacancies = append(result.Vacancies, h.toVacancy(item))
		}
		result.Found = response.Found
		pages = response.Pages

		logger.Debugw("fetched page", "language", query.Language, "page", page, "pages", pages, "items", len(response.Items))
		page++
	}
	result.Pages = page

	return result, nil
}

func (h *HeadHunterSource) toVacancy(item HeadHunterVacancy) models.Vacancy {
	vacancy := models.Vacancy{
		ID:       item.ID,
		Title:    item.Name,
		Employer: item.Employer.Name,
		URL:      item.AlternateURL,
		Source:   h.GetName(),
	}
	if item.Salary != nil {
		vacancy.Salary = &models.Salary{
			From:     valueOrZero(item.Salary.From),
			To:       valueOrZero(item.Salary.To),
			Currency: item.Salary.Currency,
		}
	}
	return vacancy
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
