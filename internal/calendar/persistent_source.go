package calendar

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// YearStore persists fetched year strings between process restarts
type YearStore interface {
	LoadYear(ctx context.Context, year int) (days string, fetchedAt time.Time, found bool, err error)
	SaveYear(ctx context.Context, year int, days string, fetchedAt time.Time) error
}

// PersistentSource is a read-through Source: years found in the store are
// served from it, others are fetched from upstream and saved.
// Store failures are logged and never fail a fetch.
type PersistentSource struct {
	store    YearStore
	upstream Source
	maxAge   time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewPersistentSource creates a new PersistentSource.
// Stored years older than maxAge are refetched; zero keeps them forever.
func NewPersistentSource(store YearStore, upstream Source, maxAge time.Duration, logger *zap.Logger) *PersistentSource {
	return &PersistentSource{
		store:    store,
		upstream: upstream,
		maxAge:   maxAge,
		logger:   logger,
		now:      time.Now,
	}
}

// FetchYear returns the stored year or fetches it from upstream
func (ps *PersistentSource) FetchYear(ctx context.Context, year int) (string, error) {
	days, fetchedAt, found, err := ps.store.LoadYear(ctx, year)
	switch {
	case err != nil:
		ps.logger.Warn("Failed to load stored calendar year",
			zap.Int("year", year),
			zap.Error(err))
	case found && ps.fresh(fetchedAt) && len(days) == DaysIn(year):
		ps.logger.Debug("Using stored calendar year", zap.Int("year", year))
		return days, nil
	}

	days, err = ps.upstream.FetchYear(ctx, year)
	if err != nil {
		return "", err
	}

	// Never persist a payload the oracle would reject
	if _, err := ParseYear(year, days); err != nil {
		return "", err
	}

	if err := ps.store.SaveYear(ctx, year, days, ps.now()); err != nil {
		ps.logger.Warn("Failed to store calendar year",
			zap.Int("year", year),
			zap.Error(err))
	}

	return days, nil
}

func (ps *PersistentSource) fresh(fetchedAt time.Time) bool {
	return ps.maxAge <= 0 || ps.now().Sub(fetchedAt) < ps.maxAge
}
