package vacationpay

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Calculator is the long-lived entry point: it owns a reference to the
// shared oracle and builds a fresh strategy for every request
type Calculator struct {
	oracle WorkingDayOracle
	logger *zap.Logger
}

// NewCalculator creates a new Calculator. oracle may be nil, in which case
// date-range requests fail with *ConfigurationError.
func NewCalculator(oracle WorkingDayOracle, logger *zap.Logger) *Calculator {
	return &Calculator{
		oracle: oracle,
		logger: logger,
	}
}

// Calculate validates req and computes the vacation pay
func (c *Calculator) Calculate(ctx context.Context, req Request) (decimal.Decimal, error) {
	strategy, err := Select(req, c.oracle)
	if err != nil {
		c.logger.Warn("Rejected vacation pay request", zap.Error(err))
		return decimal.Zero, err
	}

	amount, err := strategy.Compute(ctx)
	if err != nil {
		c.logger.Warn("Vacation pay calculation failed",
			zap.Stringer("strategy", strategy.Kind),
			zap.Error(err))
		return decimal.Zero, err
	}

	c.logger.Debug("Vacation pay calculated",
		zap.Stringer("strategy", strategy.Kind),
		zap.String("average_salary", strategy.AverageSalary.String()),
		zap.String("amount", amount.StringFixed(2)))

	return amount, nil
}
