package calendar

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CompositeSource implements Source with fallback strategy
// Primary: IsDayOffSource (API)
// Fallback: BusinessCalendarSource (offline)
type CompositeSource struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(primary, fallback Source, logger *zap.Logger) *CompositeSource {
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// FetchYear tries the primary source first and the fallback on any error,
// including a malformed primary payload
func (cs *CompositeSource) FetchYear(ctx context.Context, year int) (string, error) {
	data, err := cs.primary.FetchYear(ctx, year)
	if err == nil {
		if _, err = ParseYear(year, data); err == nil {
			return data, nil
		}
	}

	cs.logger.Warn("Primary calendar failed, falling back",
		zap.Int("year", year),
		zap.Error(err))

	data, fallbackErr := cs.fallback.FetchYear(ctx, year)
	if fallbackErr != nil {
		return "", newUpstreamError(year,
			fmt.Sprintf("primary and fallback both failed: fallback=%v", fallbackErr), err)
	}

	cs.logger.Info("Using fallback calendar data", zap.Int("year", year))
	return data, nil
}
