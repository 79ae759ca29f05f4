package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rgehrsitz/wtp/internal/calculation"
	"github.com/shopspring/decimal"
)

// Chain tries providers in order and returns the first usable price.
type Chain struct {
	Providers []Provider
	// Delay is waited between providers after a failed attempt.
	Delay  time.Duration
	Logger calculation.Logger
}

// NewChain creates a chain over providers.
func NewChain(providers ...Provider) *Chain {
	return &Chain{Providers: providers, Logger: calculation.NopLogger{}}
}

// Lookup returns the price and the name of the provider that supplied it.
func (c *Chain) Lookup(ctx context.Context, symbol string) (decimal.Decimal, string, error) {
	logger := calculation.OrNop(c.Logger)
	var errs []error
	for i, p := range c.Providers {
		if i > 0 && c.Delay > 0 {
			if err := sleep(ctx, c.Delay); err != nil {
				return decimal.Zero, "", err
			}
		}
		price, err := p.Lookup(ctx, symbol)
		if err == nil {
			logger.Debugf("%s: %s from %s", symbol, price, p.Name())
			return price, p.Name(), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return decimal.Zero, "", ctxErr
		}
		logger.Debugf("%s: %s failed: %v", symbol, p.Name(), err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return decimal.Zero, "", fmt.Errorf("%s: %w: no providers configured", symbol, ErrUnavailable)
	}
	return decimal.Zero, "", fmt.Errorf("%s: %w", symbol, errors.Join(errs...))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
