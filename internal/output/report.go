package output

import (
	"time"

	"github.com/Rhymond/go-money"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
)

// Report is everything a formatter needs to describe a plan: the inputs,
// one result per scenario and any balance warnings.
type Report struct {
	Title       string                  `json:"title"`
	GeneratedAt time.Time               `json:"generatedAt"`
	TaxYear     int                     `json:"taxYear"`
	Inputs      domain.Inputs           `json:"inputs"`
	ActiveID    int                     `json:"activeScenarioId"`
	Results     []domain.ScenarioResult `json:"results"`
	Warnings    []string                `json:"warnings,omitempty"`
	Assumptions []string                `json:"assumptions,omitempty"`
}

// NewReport builds a report over results. The tax year is taken from the
// first result.
func NewReport(in domain.Inputs, results []domain.ScenarioResult, activeID int, now time.Time) *Report {
	r := &Report{
		Title:       "Withdrawal Tax Plan",
		GeneratedAt: now,
		Inputs:      in,
		ActiveID:    activeID,
		Results:     results,
		Assumptions: DefaultAssumptions,
	}
	if len(results) > 0 {
		r.TaxYear = results[0].TaxYear
	}
	return r
}

// Active returns the result for the active scenario, falling back to the
// first one. Nil when the report is empty.
func (r *Report) Active() *domain.ScenarioResult {
	for i := range r.Results {
		if r.Results[i].ScenarioID == r.ActiveID {
			return &r.Results[i]
		}
	}
	if len(r.Results) > 0 {
		return &r.Results[0]
	}
	return nil
}

var hundred = decimal.NewFromInt(100)

// FormatCurrency formats a dollar amount with thousands separators and cents.
func FormatCurrency(amount decimal.Decimal) string {
	cents := amount.Mul(hundred).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// FormatWholeCurrency formats a dollar amount rounded to whole dollars.
func FormatWholeCurrency(amount decimal.Decimal) string {
	s := FormatCurrency(amount.Round(0))
	return s[:len(s)-3]
}

// FormatPercentage formats a value already expressed in percent.
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// FormatRate formats a fractional rate (0.22) as a percentage (22%).
func FormatRate(rate decimal.Decimal) string {
	return rate.Mul(hundred).Round(2).String() + "%"
}

// FormatQuantity trims trailing zeros from a share or unit count.
func FormatQuantity(q decimal.Decimal) string {
	return q.String()
}
