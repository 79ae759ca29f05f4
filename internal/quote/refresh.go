package quote

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rgehrsitz/wtp/internal/calculation"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultDelay spaces lookups to stay under free-tier rate limits.
const DefaultDelay = 1200 * time.Millisecond

var tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// Symbol returns the ticker for a holding name, or false when the name does
// not look like a ticker.
func Symbol(name string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(name))
	return s, tickerPattern.MatchString(s)
}

// PriceSource is satisfied by *Chain.
type PriceSource interface {
	Lookup(ctx context.Context, symbol string) (decimal.Decimal, string, error)
}

// Status is the outcome of refreshing one holding.
type Status string

const (
	StatusUpdated Status = "updated"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome records what happened to one holding.
type Outcome struct {
	Asset    string
	Symbol   string
	Status   Status
	Price    decimal.Decimal
	Provider string
	Err      error
}

// Report summarizes a refresh run.
type Report struct {
	Outcomes []Outcome
	Updated  int
	Failed   int
	Skipped  int
}

// Summary is a one-line status for the run.
func (r Report) Summary() string {
	tickers := r.Updated + r.Failed
	switch {
	case tickers == 0:
		return "No holdings with ticker symbols to update"
	case r.Updated > 0:
		return fmt.Sprintf("Updated %d of %d prices", r.Updated, tickers)
	default:
		return "Failed to fetch prices"
	}
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case StatusUpdated:
		r.Updated++
	case StatusFailed:
		r.Failed++
	case StatusSkipped:
		r.Skipped++
	}
}

// Refresher updates holding prices one at a time.
type Refresher struct {
	Source PriceSource
	Delay  time.Duration
	Logger calculation.Logger
}

// NewRefresher creates a refresher with the default delay.
func NewRefresher(source PriceSource) *Refresher {
	return &Refresher{Source: source, Delay: DefaultDelay, Logger: calculation.NopLogger{}}
}

// Refresh looks up every holding whose name is a ticker and hands each price
// to commit as soon as it arrives, so an interrupted run keeps the prices
// already fetched. Prices are rounded to cents. The report covers every
// holding processed before ctx was cancelled.
func (r *Refresher) Refresh(ctx context.Context, holdings domain.HoldingSet, commit func(name string, price decimal.Decimal) error) (Report, error) {
	logger := calculation.OrNop(r.Logger)
	var report Report
	fetched := 0
	for _, h := range holdings {
		symbol, ok := Symbol(h.Name)
		if !ok {
			logger.Debugf("%q is not a ticker symbol, skipping", h.Name)
			report.add(Outcome{Asset: h.Name, Status: StatusSkipped})
			continue
		}

		if fetched > 0 && r.Delay > 0 {
			if err := sleep(ctx, r.Delay); err != nil {
				return report, err
			}
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		fetched++

		logger.Infof("fetching price for %s", symbol)
		price, provider, err := r.Source.Lookup(ctx, symbol)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			logger.Warnf("%s: %v", symbol, err)
			report.add(Outcome{Asset: h.Name, Symbol: symbol, Status: StatusFailed, Err: err})
			continue
		}

		price = price.Round(2)
		if !price.IsPositive() {
			report.add(Outcome{Asset: h.Name, Symbol: symbol, Status: StatusFailed, Err: ErrUnavailable})
			continue
		}
		if err := commit(h.Name, price); err != nil {
			report.add(Outcome{Asset: h.Name, Symbol: symbol, Status: StatusFailed, Err: err})
			continue
		}
		logger.Infof("%s: %s via %s", symbol, price.StringFixed(2), provider)
		report.add(Outcome{Asset: h.Name, Symbol: symbol, Status: StatusUpdated, Price: price, Provider: provider})
	}
	return report, nil
}
