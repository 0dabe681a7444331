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

const superJobTestURL = "https://api.superjob.test/2.0/vacancies/"

func newSuperJob(t *testing.T) (*SuperJobSource, *httpmock.MockTransport) {
	cfg := config.DefaultConfig().SuperJob
	cfg.BaseURL = superJobTestURL
	cfg.APIKey = "v3.r.test-key"

	client, transport := newMockedClient(t, cfg.BaseURL)
	return NewSuperJobSource(client, cfg), transport
}

func TestSuperJobFetchVacanciesPaginates(t *testing.T) {
	source, transport := newSuperJob(t)

	dateFrom := time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC)
	transport.RegisterResponder(http.MethodGet, superJobTestURL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "v3.r.test-key", req.Header.Get("X-Api-App-Id"))

		q := req.URL.Query()
		assert.Equal(t, "Программист C#", q.Get("keyword"))
		assert.Equal(t, "Москва", q.Get("town"))
		assert.Equal(t, strconv.FormatInt(dateFrom.Unix(), 10), q.Get("date_published_from"))
		assert.Equal(t, "100", q.Get("count"))

		page, _ := strconv.Atoi(q.Get("page"))
		response := SuperJobResponse{
			Total: 250,
			More:  page < 2,
			Objects: []SuperJobVacancy{
				{ID: 1000 + page, Profession: "C# developer", PaymentFrom: float64(1000 * (page + 1)), Currency: "rub"},
			},
		}
		return httpmock.NewJsonResponse(http.StatusOK, response)
	})

	result, err := source.FetchVacancies(context.Background(), Query{
		Language: "C#",
		Text:     "Программист C#",
		DateFrom: dateFrom,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, transport.GetTotalCallCount())
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, 250, result.Found)
	require.Len(t, result.Vacancies, 3)
	assert.Equal(t, "1002", result.Vacancies[2].ID)
	assert.Equal(t, "SuperJob", result.Vacancies[2].Source)
}

func TestSuperJobNoCurrencyFilter(t *testing.T) {
	source, transport := newSuperJob(t)
	transport.RegisterResponder(http.MethodGet, superJobTestURL, httpmock.NewStringResponder(http.StatusOK, `{
		"total": 2, "more": false,
		"objects": [
			{"id": 1, "profession": "a", "payment_from": 1000, "payment_to": 2000, "currency": "rub"},
			{"id": 2, "profession": "b", "payment_from": 0, "payment_to": null, "currency": "rub"}
		]}`))

	result, err := source.FetchVacancies(context.Background(), Query{Text: "Программист Ruby"})
	require.NoError(t, err)

	stats := salary.Aggregate(result.Vacancies, result.Found, source.SalaryPolicy())
	assert.Equal(t, models.LanguageStats{VacanciesFound: 2, VacanciesProcessed: 1, AverageSalary: 1500}, stats)
}

func TestSuperJobEmptyResponse(t *testing.T) {
	source, transport := newSuperJob(t)
	transport.RegisterResponder(http.MethodGet, superJobTestURL, httpmock.NewStringResponder(http.StatusOK, `{}`))

	result, err := source.FetchVacancies(context.Background(), Query{Text: "Программист Ruby"})
	require.NoError(t, err)

	assert.Equal(t, 1, transport.GetTotalCallCount())
	assert.Empty(t, result.Vacancies)
	assert.Zero(t, result.Found)
}

func TestSuperJobForbiddenIsFatal(t *testing.T) {
	source, transport := newSuperJob(t)
	transport.RegisterResponder(http.MethodGet, superJobTestURL,
		httpmock.NewStringResponder(http.StatusForbidden, `{"error": {"code": 403, "message": "Invalid app_key"}}`))

	_, err := source.FetchVacancies(context.Background(), Query{Text: "Программист Python"})
	require.Error(t, err)

	var forbidden httpclient.ErrForbidden
	assert.ErrorAs(t, err, &forbidden)
}
