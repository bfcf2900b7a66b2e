package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/username/vacation-pay-calculator/internal/calendar"
	"github.com/username/vacation-pay-calculator/internal/config"
	"github.com/username/vacation-pay-calculator/internal/store/sqlite"
)

// buildOracle assembles the calendar source chain described by cfg:
// remote or offline source, optional offline fallback, optional SQLite store.
// The returned close function releases the store.
func buildOracle(cfg *config.Config, logger *zap.Logger) (*calendar.Oracle, func() error, error) {
	var source calendar.Source

	switch cfg.Calendar.Type {
	case "offline":
		source = calendar.NewBusinessCalendarSource()
	default:
		source = calendar.NewIsDayOffSource(cfg.Calendar.BaseURL, cfg.Calendar.GetTimeout(), logger)
		if cfg.Calendar.UseOfflineFallback() {
			source = calendar.NewCompositeSource(source, calendar.NewBusinessCalendarSource(), logger)
		}
	}

	closeFn := func() error { return nil }
	if cfg.Calendar.StorePath != "" {
		store, err := sqlite.New(cfg.Calendar.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open calendar store: %w", err)
		}
		source = calendar.NewPersistentSource(store, source, cfg.Calendar.GetCacheTTL(), logger)
		closeFn = store.Close
	}

	logger.Info("Calendar configured",
		zap.String("type", cfg.Calendar.Type),
		zap.Bool("offline_fallback", cfg.Calendar.UseOfflineFallback()),
		zap.String("store_path", cfg.Calendar.StorePath),
		zap.Duration("cache_ttl", cfg.Calendar.GetCacheTTL()))

	return calendar.NewOracle(source, cfg.Calendar.GetCacheTTL(), logger), closeFn, nil
}

func openStore(cfg *config.Config) (*sqlite.Store, error) {
	if cfg.Calendar.StorePath == "" {
		return nil, fmt.Errorf("calendar.store_path is not configured")
	}
	return sqlite.New(cfg.Calendar.StorePath)
}
