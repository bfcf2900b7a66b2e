package main

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/vacation-pay-calculator/internal/api"
	"github.com/username/vacation-pay-calculator/internal/daemon"
	"github.com/username/vacation-pay-calculator/internal/vacationpay"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and refresh the calendar cache daily",
		Long: `Run the HTTP API. The current and next year are loaded on start and
refetched every day at daemon.daily_time (MSK), so calendar changes reach
the cache even with calendar.cache_ttl: 0.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			oracle, closeStore, err := buildOracle(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			handler := api.NewHandler(vacationpay.NewCalculator(oracle, logger), oracle, logger)
			server := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      api.NewRouter(handler, cfg.Server.AllowedOrigins, logger),
				ReadTimeout:  cfg.Server.GetReadTimeout(),
				WriteTimeout: cfg.Server.GetWriteTimeout(),
			}

			dailyHour, dailyMinute := cfg.Daemon.GetDailyTime()
			logger.Info("Starting vacation pay service",
				zap.String("addr", cfg.Server.Addr),
				zap.Int("daily_hour", dailyHour),
				zap.Int("daily_minute", dailyMinute))

			d := daemon.New(server, oracle, dailyHour, dailyMinute, cfg.Server.GetShutdownTimeout(), logger)
			d.SetJitter(cfg.Daemon.GetJitter())
			handler.SetWarmUpStatus(d.LastRunTime)
			return d.Run(cmd.Context())
		},
	}
}
