package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/username/vacation-pay-calculator/pkg/dateutil"
	"github.com/username/vacation-pay-calculator/pkg/random"
)

var mskLocation = time.FixedZone("MSK", 3*60*60)

// Warmer preloads working-day calendars. Warm skips cached years,
// Refresh refetches them.
type Warmer interface {
	Warm(ctx context.Context, years ...int) error
	Refresh(ctx context.Context, years ...int) error
}

// Daemon serves the HTTP API and refreshes the calendar cache once a day
type Daemon struct {
	server          *http.Server
	warmer          Warmer
	dailyHour       int // Hour to warm the cache (0-23, MSK)
	dailyMinute     int // Minute to warm the cache (0-59)
	jitter          time.Duration
	shutdownTimeout time.Duration
	logger          *zap.Logger
	now             func() time.Time

	mu          sync.Mutex // Protect against concurrent warm-ups
	warmRunning bool
	lastRunTime time.Time
}

// New creates a new daemon instance with daily schedule
func New(server *http.Server, warmer Warmer, dailyHour, dailyMinute int, shutdownTimeout time.Duration, logger *zap.Logger) *Daemon {
	return &Daemon{
		server:          server,
		warmer:          warmer,
		dailyHour:       dailyHour,
		dailyMinute:     dailyMinute,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
		now:             time.Now,
	}
}

// SetJitter spreads each daily warm-up by a random delay below max
func (d *Daemon) SetJitter(max time.Duration) {
	d.jitter = max
}

// Run serves until ctx is cancelled, SIGINT/SIGTERM arrives or the listener fails
func (d *Daemon) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		d.logger.Info("HTTP server listening", zap.String("addr", d.server.Addr))
		if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	// Cancelled before wg.Wait so that a listener failure is reported
	// without waiting for an in-flight warm-up
	warmCtx, cancelWarm := context.WithCancel(ctx)
	defer cancelWarm()

	warm := func(refresh bool) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.runWarm(warmCtx, refresh)
		}()
	}

	// Warm on start so the first requests do not pay for the fetch
	warm(false)

	nextRun := d.calculateNextRun()
	d.logger.Info("Next cache warm-up scheduled",
		zap.Time("next_run", nextRun),
		zap.String("timezone", "MSK (UTC+3)"))

	timer := time.NewTimer(d.untilNextRun(nextRun))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Shutting down")
			return d.shutdown()

		case err, ok := <-serveErr:
			if ok {
				return fmt.Errorf("http server failed: %w", err)
			}
			serveErr = nil

		case <-timer.C:
			warm(true)
			nextRun = d.calculateNextRun()
			d.logger.Info("Next cache warm-up scheduled", zap.Time("next_run", nextRun))
			timer.Reset(d.untilNextRun(nextRun))
		}
	}
}

// LastRunTime returns when the cache was last warmed successfully
func (d *Daemon) LastRunTime() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastRunTime
}

func (d *Daemon) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), d.shutdownTimeout)
	defer cancel()

	if err := d.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	d.logger.Info("Daemon stopped")
	return nil
}

// runWarm loads the current and next year into the cache.
// With refresh set, cached years are fetched again.
func (d *Daemon) runWarm(ctx context.Context, refresh bool) {
	d.mu.Lock()
	if d.warmRunning {
		d.mu.Unlock()
		d.logger.Warn("Cache warm-up already running, skipping")
		return
	}
	d.warmRunning = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.warmRunning = false
		d.mu.Unlock()
	}()

	today := dateutil.Today(mskLocation)
	nextNewYear := civil.Date{Year: today.Year + 1, Month: time.January, Day: 1}
	years := dateutil.YearsBetween(today, nextNewYear)

	d.logger.Info("Warming calendar cache",
		zap.Ints("years", years),
		zap.Bool("refresh", refresh))

	warm := d.warmer.Warm
	if refresh {
		warm = d.warmer.Refresh
	}
	if err := warm(ctx, years...); err != nil {
		d.logger.Error("Cache warm-up failed", zap.Error(err))
		return
	}

	d.mu.Lock()
	d.lastRunTime = d.now()
	d.mu.Unlock()
	d.logger.Info("Cache warm-up completed", zap.Ints("years", years))
}

func (d *Daemon) untilNextRun(nextRun time.Time) time.Duration {
	return nextRun.Sub(d.now()) + random.Jitter(d.jitter)
}

// calculateNextRun calculates the next scheduled run time (MSK timezone)
func (d *Daemon) calculateNextRun() time.Time {
	now := d.now().In(mskLocation)

	today := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, mskLocation)

	// If target time already passed today, schedule for tomorrow
	if !now.Before(today) {
		return today.AddDate(0, 0, 1)
	}

	return today
}
