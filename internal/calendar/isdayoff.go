package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	isdayoffBaseURL    = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
	maxResponseBytes   = 4096
)

// IsDayOffSource implements Source using the isdayoff.ru bulk API
type IsDayOffSource struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewIsDayOffSource creates a new IsDayOffSource instance.
// Empty baseURL and zero timeout fall back to the public API and 10s.
func NewIsDayOffSource(baseURL string, timeout time.Duration, logger *zap.Logger) *IsDayOffSource {
	if baseURL == "" {
		baseURL = isdayoffBaseURL
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &IsDayOffSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchYear fetches the whole year from the bulk API.
// Response format: "11111111001100000110..." where
// 0 = working day, 1 = non-working day, 2 = shortened pre-holiday day
func (s *IsDayOffSource) FetchYear(ctx context.Context, year int) (string, error) {
	// Build URL: https://isdayoff.ru/api/getdata?year=2025&pre=1
	url := fmt.Sprintf("%s/api/getdata?year=%d&pre=1", s.baseURL, year)

	s.logger.Debug("Fetching year from isdayoff.ru",
		zap.String("url", url),
		zap.Int("year", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", newUpstreamError(year, "failed to build request", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", newUpstreamError(year, "failed to fetch calendar data", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", newUpstreamError(year, fmt.Sprintf("API returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", newUpstreamError(year, "failed to read response", err)
	}

	data := strings.TrimSpace(string(body))
	if data == "" {
		return "", newUpstreamError(year, "empty response", nil)
	}

	s.logger.Debug("Received bulk data",
		zap.Int("year", year),
		zap.Int("length", len(data)))

	return data, nil
}
