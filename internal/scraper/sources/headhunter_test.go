package sources

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salary-stats-go/internal/config"
	"salary-stats-go/internal/models"
	"salary-stats-go/internal/salary"
	"salary-stats-go/pkg/httpclient"
)

func newMockedClient(t *testing.T, baseURL string) (*httpclient.HttpClient, *httpmock.MockTransport) {
	t.Helper()

	client, err := httpclient.NewHttpClient(httpclient.Options{BaseURL: baseURL, UserAgent: "salary-stats-test"})
	require.NoError(t, err)

	transport := httpmock.NewMockTransport()
	client.WithTransport(transport)
	return client, transport
}

func newHeadHunter(t *testing.T) (*HeadHunterSource, *httpmock.MockTransport) {
	cfg := config.DefaultConfig().HeadHunter
	cfg.BaseURL = "https://api.hh.test/vacancies"

	client, transport := newMockedClient(t, cfg.BaseURL)
	return NewHeadHunterSource(client, cfg), transport
}

func ptr(v float64) *float64 { return &v }

func TestHeadHunterFetchVacanciesPaginates(t *testing.T) {
	source, transport := newHeadHunter(t)

	dateFrom := time.Date(2026, 9, 19, 10, 30, 0, 0, time.UTC)
	pages := map[string]HeadHunterResponse{
		"0": {
			Found: 2500,
			Pages: 2,
			Items: []HeadHunterVacancy{
				{ID: "1", Name: "Python developer", Salary: &HeadHunterSalary{From: ptr(100), To: ptr(200), Currency: "RUR"}},
				{ID: "2", Name: "Backend engineer"},
			},
		},
		"1": {
			Found: 2500,
			Pages: 2,
			Items: []HeadHunterVacancy{
				{ID: "3", Name: "Data engineer", Salary: &HeadHunterSalary{To: ptr(50), Currency: "RUR"}},
			},
		},
	}

	var seenPages []string
	transport.RegisterResponder(http.MethodGet, "https://api.hh.test/vacancies", func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		assert.Equal(t, "Программист Python", q.Get("text"))
		assert.Equal(t, "1", q.Get("area"))
		assert.Equal(t, "2026-09-19T10:30:00", q.Get("date_from"))

		page := q.Get("page")
		seenPages = append(seenPages, page)
		return httpmock.NewJsonResponse(http.StatusOK, pages[page])
	})

	result, err := source.FetchVacancies(context.Background(), Query{
		Language: "Python",
		Text:     "Программист Python",
		DateFrom: dateFrom,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "1"}, seenPages)
	assert.Equal(t, 2500, result.Found)
	assert.Equal(t, 2, result.Pages)
	require.Len(t, result.Vacancies, 3)

	assert.Equal(t, &models.Salary{From: 100, To: 200, Currency: "RUR"}, result.Vacancies[0].Salary)
	assert.Nil(t, result.Vacancies[1].Salary)
	assert.Equal(t, &models.Salary{To: 50, Currency: "RUR"}, result.Vacancies[2].Salary)
	assert.Equal(t, "HeadHunter", result.Vacancies[2].Source)
}

func TestHeadHunterSinglePageWhenPagesMissing(t *testing.T) {
	source, transport := newHeadHunter(t)
	transport.RegisterResponder(http.MethodGet, "https://api.hh.test/vacancies",
		httpmock.NewStringResponder(http.StatusOK, `{"items": [], "found": 0}`))

	result, err := source.FetchVacancies(context.Background(), Query{Text: "Программист Ruby"})
	require.NoError(t, err)

	assert.Equal(t, 1, transport.GetTotalCallCount())
	assert.Empty(t, result.Vacancies)
	assert.Zero(t, result.Found)
}

func TestHeadHunterNullSalaryBounds(t *testing.T) {
	source, transport := newHeadHunter(t)
	transport.RegisterResponder(http.MethodGet, "https://api.hh.test/vacancies", httpmock.NewStringResponder(http.StatusOK, `{
		"found": 3, "pages": 1,
		"items": [
			{"id": "10", "name": "a", "salary": {"from": null, "to": 90000, "currency": "RUR"}},
			{"id": "11", "name": "b", "salary": {"from": 3000, "to": null, "currency": "USD"}},
			{"id": "12", "name": "c", "salary": null}
		]}`))

	result, err := source.FetchVacancies(context.Background(), Query{Text: "Программист Java"})
	require.NoError(t, err)

	stats := salary.Aggregate(result.Vacancies, result.Found, source.SalaryPolicy())
	assert.Equal(t, models.LanguageStats{VacanciesFound: 3, VacanciesProcessed: 1, AverageSalary: 90000}, stats)
}

func TestHeadHunterFetchFailsOnErrorStatus(t *testing.T) {
	source, transport := newHeadHunter(t)

	transport.RegisterResponder(http.MethodGet, "https://api.hh.test/vacancies", func(req *http.Request) (*http.Response, error) {
		page, _ := strconv.Atoi(req.URL.Query().Get("page"))
		if page == 0 {
			return httpmock.NewJsonResponse(http.StatusOK, HeadHunterResponse{Found: 40, Pages: 3})
		}
		return httpmock.NewStringResponse(http.StatusBadGateway, "bad gateway"), nil
	})

	result, err := source.FetchVacancies(context.Background(), Query{Text: "Программист Java"})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "page 1")
	assert.Equal(t, "status", httpclient.ErrorTypeLabel(err))
	assert.Equal(t, 2, transport.GetTotalCallCount())
}

func TestHeadHunterSalaryPolicy(t *testing.T) {
	source, _ := newHeadHunter(t)
	assert.Equal(t, salary.Policy{Currency: "RUR"}, source.SalaryPolicy())
}
