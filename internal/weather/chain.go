package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Chain is a Provider that asks its providers in priority order and returns
// the first non-empty answer.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain creates a new Chain.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		providers: providers,
		logger:    logger,
	}
}

func (c *Chain) Name() string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

func (c *Chain) Lookup(ctx context.Context, lat, lon float64, date time.Time) ([]Reading, error) {
	if len(c.providers) == 0 {
		return nil, fmt.Errorf("no weather providers configured")
	}

	var errs []error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		readings, err := p.Lookup(ctx, lat, lon, date)
		if err != nil {
			c.logger.Warn("weather provider lookup failed",
				"provider", p.Name(),
				"lat", lat,
				"lon", lon,
				"date", date.Format("2006-01-02"),
				"error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if len(readings) == 0 {
			c.logger.Debug("weather provider returned no conditions", "provider", p.Name())
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), ErrNoConditions))
			continue
		}
		return readings, nil
	}

	return nil, errors.Join(errs...)
}
