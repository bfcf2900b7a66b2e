package calendar

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Oracle answers working-day questions from a per-year cache over a Source.
// Each year is fetched at most once at a time; failed fetches are not cached.
type Oracle struct {
	source   Source
	logger   *zap.Logger
	cacheTTL time.Duration
	now      func() time.Time

	cache   map[int]*YearCalendar
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewOracle creates a new Oracle.
// A zero cacheTTL keeps every year for the lifetime of the Oracle.
func NewOracle(source Source, cacheTTL time.Duration, logger *zap.Logger) *Oracle {
	return &Oracle{
		source:   source,
		logger:   logger,
		cacheTTL: cacheTTL,
		now:      time.Now,
		cache:    make(map[int]*YearCalendar),
	}
}

// IsWorkingDay checks if the given date is a working day
func (o *Oracle) IsWorkingDay(ctx context.Context, date civil.Date) (bool, error) {
	yc, err := o.Year(ctx, date.Year)
	if err != nil {
		return false, err
	}
	return yc.IsWorkingDay(date), nil
}

// Year returns the calendar of a whole year, fetching it on first use
func (o *Oracle) Year(ctx context.Context, year int) (*YearCalendar, error) {
	if yc, ok := o.cached(year); ok {
		return yc, nil
	}
	return o.fetch(ctx, year, false)
}

// fetch loads a year through the singleflight group. Unless force is set a
// year cached by a concurrent caller is returned without another fetch.
func (o *Oracle) fetch(ctx context.Context, year int, force bool) (*YearCalendar, error) {
	key := strconv.Itoa(year)
	if force {
		key = "refresh:" + key
	}

	// The fetch outlives a cancelled caller so that coalesced waiters
	// still get the result; the source's own timeout bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := o.group.DoChan(key, func() (any, error) {
		if !force {
			if yc, ok := o.cached(year); ok {
				return yc, nil
			}
		}
		return o.load(fetchCtx, year)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			o.logger.Debug("Shared calendar fetch", zap.Int("year", year))
		}
		return res.Val.(*YearCalendar), nil
	}
}

// Warm fetches the given years into the cache
func (o *Oracle) Warm(ctx context.Context, years ...int) error {
	var errs []error
	for _, year := range years {
		if _, err := o.Year(ctx, year); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CachedYears returns the years currently held in the cache
func (o *Oracle) CachedYears() []int {
	o.cacheMu.RLock()
	defer o.cacheMu.RUnlock()

	years := make([]int, 0, len(o.cache))
	for year := range o.cache {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// Refresh refetches the given years even if they are cached.
// A year that fails to refresh keeps its previously cached calendar.
func (o *Oracle) Refresh(ctx context.Context, years ...int) error {
	var errs []error
	for _, year := range years {
		if _, err := o.fetch(ctx, year, true); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (o *Oracle) cached(year int) (*YearCalendar, bool) {
	o.cacheMu.RLock()
	defer o.cacheMu.RUnlock()

	yc, ok := o.cache[year]
	if !ok {
		return nil, false
	}
	if o.cacheTTL > 0 && o.now().Sub(yc.FetchedAt) >= o.cacheTTL {
		return nil, false
	}
	return yc, true
}

func (o *Oracle) load(ctx context.Context, year int) (*YearCalendar, error) {
	data, err := o.source.FetchYear(ctx, year)
	if err != nil {
		o.logger.Warn("Failed to fetch calendar year",
			zap.Int("year", year),
			zap.Error(err))

		var upstreamErr *UpstreamDataError
		if errors.As(err, &upstreamErr) {
			return nil, err
		}
		return nil, newUpstreamError(year, "failed to fetch calendar data", err)
	}

	yc, err := ParseYear(year, data)
	if err != nil {
		o.logger.Warn("Malformed calendar data",
			zap.Int("year", year),
			zap.Error(err))
		return nil, err
	}
	yc.FetchedAt = o.now()

	o.cacheMu.Lock()
	o.cache[year] = yc
	o.cacheMu.Unlock()

	o.logger.Info("Calendar year fetched and cached",
		zap.Int("year", year),
		zap.Int("working_days", yc.WorkingDays()))

	return yc, nil
}
