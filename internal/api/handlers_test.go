package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/vacation-pay-calculator/internal/calendar"
	"github.com/username/vacation-pay-calculator/internal/vacationpay"
)

// weekendSource marks Saturdays and Sundays as non-working
type weekendSource struct {
	err error
}

func (s *weekendSource) FetchYear(ctx context.Context, year int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	var b strings.Builder
	for d := (civil.Date{Year: year, Month: time.January, Day: 1}); d.Year == year; d = d.AddDays(1) {
		switch d.In(time.UTC).Weekday() {
		case time.Saturday, time.Sunday:
			b.WriteByte('1')
		default:
			b.WriteByte('0')
		}
	}
	return b.String(), nil
}

func newTestServer(t *testing.T, source calendar.Source) *httptest.Server {
	t.Helper()
	srv, _ := newTestServerWithHandler(t, source)
	return srv
}

func newTestServerWithHandler(t *testing.T, source calendar.Source) (*httptest.Server, *Handler) {
	t.Helper()
	oracle := calendar.NewOracle(source, 0, zap.NewNop())
	h := NewHandler(vacationpay.NewCalculator(oracle, zap.NewNop()), oracle, zap.NewNop())
	srv := httptest.NewServer(NewRouter(h, []string{"*"}, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv, h
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string, http.Header) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header
}

func decodeError(t *testing.T, body string) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return resp
}

func TestCalculate_Success(t *testing.T) {
	srv := newTestServer(t, &weekendSource{})

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"fixed days", "averageSalary=29300.0&vacationDays=3", "3000.00"},
		{"fixed days rounding", "averageSalary=60000&vacationDays=10", "20477.82"},
		{"date range full week", "averageSalary=100000.0&startDate=2025-04-14&endDate=2025-04-20", "17064.85"},
		{"date range single weekend day", "averageSalary=29300.0&startDate=2025-04-19&endDate=2025-04-19", "0.00"},
		{"dates take precedence", "averageSalary=29300.0&vacationDays=10&startDate=2025-04-14&endDate=2025-04-14", "1000.00"},
		{"empty dates are ignored", "averageSalary=29300.0&vacationDays=3&startDate=&endDate=", "3000.00"},
		{"lone start date is ignored", "averageSalary=29300.0&vacationDays=40&startDate=2025-04-14", "40000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, header := get(t, srv, "/calculate?"+tt.query)
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.want, body)
			assert.True(t, strings.HasPrefix(header.Get("Content-Type"), "text/plain"))
		})
	}
}

func TestCalculate_BadRequest(t *testing.T) {
	srv := newTestServer(t, &weekendSource{})

	tests := []struct {
		name      string
		query     string
		wantError string
	}{
		{"salary not a number", "averageSalary=abc&vacationDays=3", "invalid parameter format: averageSalary"},
		{"days not a number", "averageSalary=29300&vacationDays=3.5", "invalid parameter format: vacationDays"},
		{"start date format", "averageSalary=29300&startDate=14.04.2025&endDate=2025-04-20", "invalid parameter format: startDate"},
		{"end date impossible", "averageSalary=29300&startDate=2025-04-14&endDate=2025-02-30", "invalid parameter format: endDate"},
		{"missing salary", "vacationDays=3", "average salary is required"},
		{"zero salary", "averageSalary=0&vacationDays=3", "average salary must be positive"},
		{"zero days", "averageSalary=29300&vacationDays=0", "vacation days must be positive"},
		{"end before start", "averageSalary=29300&startDate=2025-04-20&endDate=2025-04-14", "end date before start date"},
		{"nothing to compute", "averageSalary=29300", "insufficient data for calculation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, header := get(t, srv, "/calculate?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "application/json", header.Get("Content-Type"))
			assert.Equal(t, tt.wantError, decodeError(t, body).Error)
		})
	}
}

func TestCalculate_UpstreamFailure(t *testing.T) {
	srv := newTestServer(t, &weekendSource{err: errors.New("connection refused")})

	status, body, _ := get(t, srv, "/calculate?averageSalary=29300&startDate=2025-04-14&endDate=2025-04-20")
	assert.Equal(t, http.StatusBadGateway, status)
	resp := decodeError(t, body)
	assert.Equal(t, "calendar service error", resp.Error)
	assert.Contains(t, resp.Details, "connection refused")

	// Fixed-day requests never touch the calendar
	status, body, _ = get(t, srv, "/calculate?averageSalary=29300&vacationDays=3")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "3000.00", body)
}

func TestCalculate_MissingOracle(t *testing.T) {
	h := NewHandler(vacationpay.NewCalculator(nil, zap.NewNop()), nil, zap.NewNop())
	srv := httptest.NewServer(NewRouter(h, []string{"*"}, zap.NewNop()))
	defer srv.Close()

	status, body, _ := get(t, srv, "/calculate?averageSalary=29300&startDate=2025-04-14&endDate=2025-04-20")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "server configuration error", decodeError(t, body).Error)
}

func TestCalendarYear(t *testing.T) {
	srv := newTestServer(t, &weekendSource{})

	status, body, _ := get(t, srv, "/calendar/2025")
	require.Equal(t, http.StatusOK, status)

	var resp CalendarYearResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, CalendarYearResponse{Year: 2025, Days: 365, WorkingDays: 261, NonWorkingDays: 104}, resp)

	status, _, _ = get(t, srv, "/calendar/twenty")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCalendarYear_UpstreamFailure(t *testing.T) {
	srv := newTestServer(t, &weekendSource{err: errors.New("timeout")})

	status, _, _ := get(t, srv, "/calendar/2025")
	assert.Equal(t, http.StatusBadGateway, status)
}

func TestHealth(t *testing.T) {
	srv, h := newTestServerWithHandler(t, &weekendSource{})
	warmedAt := time.Date(2025, 4, 14, 3, 0, 0, 0, time.UTC)
	h.SetWarmUpStatus(func() time.Time { return warmedAt })

	// A date-range calculation loads its year into the cache
	status, _, _ := get(t, srv, "/calculate?averageSalary=29300&startDate=2025-04-14&endDate=2025-04-14")
	require.Equal(t, http.StatusOK, status)

	status, body, _ := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, status)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []int{2025}, resp.CachedYears)
	require.NotNil(t, resp.LastWarmUp)
	assert.True(t, resp.LastWarmUp.Equal(warmedAt))
}

func TestHealth_NoWarmUpYet(t *testing.T) {
	srv, h := newTestServerWithHandler(t, &weekendSource{})
	h.SetWarmUpStatus(func() time.Time { return time.Time{} })

	status, body, _ := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","cached_years":[]}`, body)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, &weekendSource{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
