package calculation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX TABLE ASSUMPTIONS:
//
// 1. Ordinary brackets and standard deductions are the 2026 single and
//    married-filing-jointly figures. No inflation indexing.
//
// 2. Every capital gain (stocks, crypto, metals) and qualified dividends are
//    taxed at one flat preferential rate of 15%, regardless of income level.
//
// 3. State tax is Utah's flat 4.55%, applied to taxable ordinary income and
//    to positive preferential income.
//
// 4. IRMAA tiers use MAGI = ordinary income before the standard deduction and
//    report the per-person Part B and Part D monthly add-ons.

// ErrUnknownTaxYear is returned when no built-in tables exist for a year.
var ErrUnknownTaxYear = errors.New("no tax tables for year")

// DefaultIRMAAWarningDistance flags MAGI within this distance of the first
// IRMAA threshold.
const DefaultIRMAAWarningDistance = 10000

var builtinRules = map[int]func() domain.TaxYearRules{
	2026: Rules2026,
}

// RulesForYear returns the built-in tables for year.
func RulesForYear(year int) (domain.TaxYearRules, error) {
	build, ok := builtinRules[year]
	if !ok {
		return domain.TaxYearRules{}, fmt.Errorf("%w %d", ErrUnknownTaxYear, year)
	}
	return build(), nil
}

// AvailableYears lists the years with built-in tables, ascending.
func AvailableYears() []int {
	years := make([]int, 0, len(builtinRules))
	for y := range builtinRules {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// DefaultRules returns the tables of the most recent built-in year.
func DefaultRules() domain.TaxYearRules {
	years := AvailableYears()
	rules, _ := RulesForYear(years[len(years)-1])
	return rules
}

func bracket(rate float64, min, max int64) domain.BracketTier {
	return domain.BracketTier{Rate: decimal.NewFromFloat(rate), Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max)}
}

func surcharge(min, max int64, partB, partD, label string) domain.SurchargeTier {
	return domain.SurchargeTier{
		Min:   decimal.NewFromInt(min),
		Max:   decimal.NewFromInt(max),
		PartB: decimal.RequireFromString(partB),
		PartD: decimal.RequireFromString(partD),
		Label: label,
	}
}

// Rules2026 returns the 2026 tables. A zero max marks the top tier.
func Rules2026() domain.TaxYearRules {
	return domain.TaxYearRules{
		Year: 2026,
		OrdinarySingle: []domain.BracketTier{
			bracket(0.10, 0, 12400),
			bracket(0.12, 12400, 50400),
			bracket(0.22, 50400, 105700),
			bracket(0.24, 105700, 201800),
			bracket(0.32, 201800, 256350),
			bracket(0.35, 256350, 640600),
			bracket(0.37, 640600, 0),
		},
		OrdinaryJoint: []domain.BracketTier{
			bracket(0.10, 0, 24800),
			bracket(0.12, 24800, 100800),
			bracket(0.22, 100800, 211400),
			bracket(0.24, 211400, 403600),
			bracket(0.32, 403600, 512700),
			bracket(0.35, 512700, 768600),
			bracket(0.37, 768600, 0),
		},
		SurchargeSingle: []domain.SurchargeTier{
			surcharge(0, 109000, "0", "0", "No IRMAA"),
			surcharge(109000, 137000, "81.20", "14.50", "Bracket 1"),
			surcharge(137000, 171000, "202.90", "37.60", "Bracket 2"),
			surcharge(171000, 205000, "324.70", "60.60", "Bracket 3"),
			surcharge(205000, 500000, "446.40", "83.70", "Bracket 4"),
			surcharge(500000, 0, "487.00", "91.00", "Bracket 5 (Top)"),
		},
		SurchargeJoint: []domain.SurchargeTier{
			surcharge(0, 218000, "0", "0", "No IRMAA"),
			surcharge(218000, 274000, "81.20", "14.50", "Bracket 1"),
			surcharge(274000, 342000, "202.90", "37.60", "Bracket 2"),
			surcharge(342000, 410000, "324.70", "60.60", "Bracket 3"),
			surcharge(410000, 750000, "446.40", "83.70", "Bracket 4"),
			surcharge(750000, 0, "487.00", "91.00", "Bracket 5 (Top)"),
		},
		StandardDeduction: domain.StandardDeductions{
			Single:          decimal.NewFromInt(16100),
			Joint:           decimal.NewFromInt(32200),
			HeadOfHousehold: decimal.NewFromInt(24250),
		},
		PreferentialRate: decimal.NewFromFloat(0.15),
		StateName:        "Utah",
		StateRate:        decimal.NewFromFloat(0.0455),
		WarningDistance:  decimal.NewFromInt(DefaultIRMAAWarningDistance),
	}
}
