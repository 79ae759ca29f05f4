package compare

import (
	"testing"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateMetrics(t *testing.T) {
	r := &domain.ScenarioResult{
		ScenarioID:             3,
		ScenarioName:           "Roth first",
		TotalWithdrawals:       dec("50000"),
		MAGI:                   dec("42000"),
		OrdinaryBracket:        domain.BracketTier{Rate: dec("0.12")},
		TotalTax:               dec("2860"),
		StateTax:               dec("1178.45"),
		AnnualSurcharge:        decimal.Zero,
		TotalCost:              dec("4038.45"),
		EffectiveRateWithState: dec("8.0769"),
		SurchargeTier:          domain.SurchargeTier{Label: "No IRMAA"},
		SurchargeStatus:        domain.SurchargeSafe,
		Headroom:               domain.Headroom{Limit: dec("24500")},
	}

	m := NewMetricsCalculator().CalculateMetrics(r)

	assert.Equal(t, 3, m.ScenarioID)
	assert.Equal(t, "Roth first", m.ScenarioName)
	assert.Same(t, r, m.Result)
	assert.True(t, m.MarginalRate.Equal(dec("0.12")))
	assert.True(t, m.FederalTax.Equal(dec("2860")))
	assert.True(t, m.TotalCost.Equal(dec("4038.45")))
	assert.True(t, m.EffectiveRate.Equal(dec("8.0769")))
	assert.Equal(t, "No IRMAA", m.SurchargeLabel)
	assert.True(t, m.Headroom.Equal(dec("24500")))
}

func TestCalculateComparison(t *testing.T) {
	mc := NewMetricsCalculator()
	base := ComparisonResult{
		TotalWithdrawals: dec("10000"),
		FederalTax:       dec("1000"),
		StateTax:         dec("200"),
		AnnualSurcharge:  decimal.Zero,
		TotalCost:        dec("1200"),
		EffectiveRate:    dec("12"),
	}
	alt := ComparisonResult{
		TotalWithdrawals: dec("30000"),
		FederalTax:       dec("3000"),
		StateTax:         dec("600"),
		AnnualSurcharge:  dec("1148.40"),
		TotalCost:        dec("4748.40"),
		EffectiveRate:    dec("15.83"),
	}

	got := mc.CalculateComparison(alt, base)

	assert.True(t, got.WithdrawalDiffFromBase.Equal(dec("20000")))
	assert.True(t, got.TaxDiffFromBase.Equal(dec("2400")))
	assert.True(t, got.SurchargeDiffFromBase.Equal(dec("1148.40")))
	assert.True(t, got.CostDiffFromBase.Equal(dec("3548.40")))
	assert.True(t, got.CostPctFromBase.Equal(dec("295.7")), "got %s", got.CostPctFromBase)
	assert.True(t, got.RateDiffFromBase.Equal(dec("3.83")))

	zeroBase := mc.CalculateComparison(alt, ComparisonResult{})
	assert.True(t, zeroBase.CostPctFromBase.IsZero(), "no percentage against a zero base")
}

func TestGenerateRecommendations(t *testing.T) {
	base := ComparisonResult{ScenarioID: 1, ScenarioName: "Base", TotalWithdrawals: dec("20000"), TotalCost: dec("5000"), EffectiveRate: dec("25"), SurchargeStatus: domain.SurchargeSafe}
	cheap := ComparisonResult{ScenarioID: 2, ScenarioName: "Cheap", TotalWithdrawals: dec("40000"), TotalCost: dec("4000"), EffectiveRate: dec("10"), SurchargeStatus: domain.SurchargeWarning}
	big := ComparisonResult{ScenarioID: 3, ScenarioName: "Big", TotalWithdrawals: dec("250000"), TotalCost: dec("70000"), EffectiveRate: dec("28"),
		SurchargeStatus: domain.SurchargeBreach, SurchargeLabel: "Bracket 4", AnnualSurcharge: dec("6361.20")}

	recs := GenerateRecommendations(&ComparisonSet{BaseResult: &base, AlternativeResults: []ComparisonResult{cheap, big}})

	assert.Equal(t, []string{
		"IRMAA: Big lands in Bracket 4 and adds $6,361.20 in Medicare premiums",
		"Lowest Cost: Cheap costs $1,000.00 less in tax and IRMAA than Base",
		"Lowest Effective Rate: Cheap at 10.00%",
		"Most Withdrawn Without IRMAA: Cheap withdraws $40,000.00",
	}, recs)
}

func TestGenerateRecommendations_Edges(t *testing.T) {
	assert.Empty(t, GenerateRecommendations(&ComparisonSet{}))

	only := ComparisonResult{ScenarioID: 1, ScenarioName: "Only", SurchargeStatus: domain.SurchargeBreach, SurchargeLabel: "Bracket 1", AnnualSurcharge: dec("1148.40")}
	recs := GenerateRecommendations(&ComparisonSet{BaseResult: &only})
	assert.Equal(t, []string{"IRMAA: Only lands in Bracket 1 and adds $1,148.40 in Medicare premiums"}, recs)

	// nothing withdrawn anywhere: no rate or withdrawal recommendation
	a := ComparisonResult{ScenarioID: 1, ScenarioName: "A", TotalCost: dec("100")}
	b := ComparisonResult{ScenarioID: 2, ScenarioName: "B", TotalCost: dec("100")}
	assert.Empty(t, GenerateRecommendations(&ComparisonSet{BaseResult: &a, AlternativeResults: []ComparisonResult{b}}))
}

func TestComparisonSet_All(t *testing.T) {
	base := ComparisonResult{ScenarioID: 1}
	cs := &ComparisonSet{BaseResult: &base, AlternativeResults: []ComparisonResult{{ScenarioID: 2}, {ScenarioID: 3}}}
	all := cs.All()
	assert.Len(t, all, 3)
	assert.Equal(t, 1, all[0].ScenarioID)
	assert.Equal(t, 3, all[2].ScenarioID)
}
