/*
handlers.go - HTTP handlers for the vacation pay calculator

ENDPOINTS:
  GET /calculate?averageSalary=&vacationDays=&startDate=&endDate=
      200 text/plain amount with two decimals, e.g. "20477.82".
      startDate and endDate together take precedence over vacationDays.

  GET /calendar/{year}
      200 JSON working-day summary of the year.

  GET /healthz
      200 JSON status, cached calendar years and the last warm-up time.

ERROR HANDLING:
  Errors are returned as JSON {"error": "...", "details": "..."}:
  - 400: Unparseable parameters, invalid input
  - 500: Configuration errors and anything unexpected
  - 502: Calendar service failures
*/
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/username/vacation-pay-calculator/internal/calendar"
	"github.com/username/vacation-pay-calculator/internal/vacationpay"
	"github.com/username/vacation-pay-calculator/pkg/dateutil"
)

// Calculator computes vacation pay for a request
type Calculator interface {
	Calculate(ctx context.Context, req vacationpay.Request) (decimal.Decimal, error)
}

// YearProvider returns the working-day calendar of a year
type YearProvider interface {
	Year(ctx context.Context, year int) (*calendar.YearCalendar, error)
	CachedYears() []int
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	calculator Calculator
	years      YearProvider
	lastWarmUp func() time.Time
	logger     *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(calculator Calculator, years YearProvider, logger *zap.Logger) *Handler {
	return &Handler{
		calculator: calculator,
		years:      years,
		logger:     logger,
	}
}

// SetWarmUpStatus reports the last successful cache warm-up in /healthz
func (h *Handler) SetWarmUpStatus(lastWarmUp func() time.Time) {
	h.lastWarmUp = lastWarmUp
}

// HealthResponse is the body of /healthz
type HealthResponse struct {
	Status      string     `json:"status"`
	CachedYears []int      `json:"cached_years"`
	LastWarmUp  *time.Time `json:"last_warm_up,omitempty"`
}

// ErrorResponse is the JSON body of every error
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CalendarYearResponse summarises a year of the working-day calendar
type CalendarYearResponse struct {
	Year           int `json:"year"`
	Days           int `json:"days"`
	WorkingDays    int `json:"working_days"`
	NonWorkingDays int `json:"non_working_days"`
}

// paramError reports a query parameter that could not be parsed
type paramError struct {
	name string
	err  error
}

func (e *paramError) Error() string {
	return "invalid parameter format: " + e.name
}

func (e *paramError) Unwrap() error {
	return e.err
}

// Calculate handles GET /calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	req, err := parseCalculateRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), errors.Unwrap(err))
		return
	}

	amount, err := h.calculator.Calculate(r.Context(), req)
	if err != nil {
		h.writeCalculationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(amount.StringFixed(2)))
}

// CalendarYear handles GET /calendar/{year}
func (h *Handler) CalendarYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		writeError(w, http.StatusBadRequest, "invalid parameter format: year", err)
		return
	}

	yc, err := h.years.Year(r.Context(), year)
	if err != nil {
		h.writeCalculationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CalendarYearResponse{
		Year:           yc.Year,
		Days:           yc.Days(),
		WorkingDays:    yc.WorkingDays(),
		NonWorkingDays: yc.Days() - yc.WorkingDays(),
	})
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", CachedYears: []int{}}
	if h.years != nil {
		resp.CachedYears = h.years.CachedYears()
	}
	if h.lastWarmUp != nil {
		if at := h.lastWarmUp(); !at.IsZero() {
			resp.LastWarmUp = &at
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeCalculationError(w http.ResponseWriter, err error) {
	var (
		invalid     *vacationpay.InvalidInputError
		configErr   *vacationpay.ConfigurationError
		upstreamErr *calendar.UpstreamDataError
	)

	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, invalid.Reason, nil)
	case errors.As(err, &configErr):
		h.logger.Error("Server misconfigured", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server configuration error", err)
	case errors.As(err, &upstreamErr):
		writeError(w, http.StatusBadGateway, "calendar service error", err)
	default:
		h.logger.Error("Unexpected error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error", err)
	}
}

// parseCalculateRequest reads the query parameters; empty values count as absent
func parseCalculateRequest(r *http.Request) (vacationpay.Request, error) {
	q := r.URL.Query()
	var req vacationpay.Request

	if v := strings.TrimSpace(q.Get("averageSalary")); v != "" {
		salary, err := decimal.NewFromString(v)
		if err != nil {
			return req, &paramError{name: "averageSalary", err: err}
		}
		req.AverageSalary = &salary
	}

	if v := strings.TrimSpace(q.Get("vacationDays")); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return req, &paramError{name: "vacationDays", err: err}
		}
		req.VacationDays = &days
	}

	for _, p := range []struct {
		name string
		dst  **civil.Date
	}{
		{"startDate", &req.StartDate},
		{"endDate", &req.EndDate},
	} {
		v := strings.TrimSpace(q.Get(p.name))
		if v == "" {
			continue
		}
		d, err := dateutil.ParseISODate(v)
		if err != nil {
			return req, &paramError{name: p.name, err: err}
		}
		*p.dst = &d
	}

	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
