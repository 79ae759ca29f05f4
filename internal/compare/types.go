package compare

import (
	"fmt"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/output"
	"github.com/shopspring/decimal"
)

// ComparisonResult holds the headline metrics of one scenario and, for
// alternatives, its deltas against the base.
type ComparisonResult struct {
	ScenarioID   int                    `json:"scenarioId"`
	ScenarioName string                 `json:"scenarioName"`
	Active       bool                   `json:"active"`
	Result       *domain.ScenarioResult `json:"-"`

	TotalWithdrawals decimal.Decimal        `json:"totalWithdrawals"`
	MAGI             decimal.Decimal        `json:"magi"`
	MarginalRate     decimal.Decimal        `json:"marginalRate"`
	FederalTax       decimal.Decimal        `json:"federalTax"`
	StateTax         decimal.Decimal        `json:"stateTax"`
	AnnualSurcharge  decimal.Decimal        `json:"irmaaAnnual"`
	TotalCost        decimal.Decimal        `json:"totalCost"`
	EffectiveRate    decimal.Decimal        `json:"effectiveRate"`
	SurchargeLabel   string                 `json:"irmaaTier"`
	SurchargeStatus  domain.SurchargeStatus `json:"irmaaStatus"`
	Headroom         decimal.Decimal        `json:"headroom"`

	// Comparison to base
	WithdrawalDiffFromBase decimal.Decimal `json:"withdrawalDiffFromBase"`
	TaxDiffFromBase        decimal.Decimal `json:"taxDiffFromBase"`
	SurchargeDiffFromBase  decimal.Decimal `json:"irmaaDiffFromBase"`
	CostDiffFromBase       decimal.Decimal `json:"costDiffFromBase"`
	CostPctFromBase        decimal.Decimal `json:"costPctFromBase"`
	RateDiffFromBase       decimal.Decimal `json:"rateDiffFromBase"`
}

// ComparisonSet is a base scenario plus the alternatives measured against it.
type ComparisonSet struct {
	TaxYear            int                `json:"taxYear"`
	StateName          string             `json:"stateName"`
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	Source             string             `json:"source,omitempty"`
}

// All returns the base followed by the alternatives.
func (cs *ComparisonSet) All() []ComparisonResult {
	out := make([]ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		out = append(out, *cs.BaseResult)
	}
	return append(out, cs.AlternativeResults...)
}

// ToReport converts the set into an output.Report so the single-report
// formatters can render it.
func (cs *ComparisonSet) ToReport(in domain.Inputs) *output.Report {
	var results []domain.ScenarioResult
	activeID := 0
	for _, c := range cs.All() {
		if c.Result != nil {
			results = append(results, *c.Result)
		}
		if c.Active {
			activeID = c.ScenarioID
		}
	}
	r := output.NewReport(in, results, activeID, nowFunc())
	r.Title = "Scenario Comparison"
	return r
}

// MetricsCalculator extracts comparison metrics from scenario results.
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the headline figures for one result.
func (mc *MetricsCalculator) CalculateMetrics(r *domain.ScenarioResult) ComparisonResult {
	return ComparisonResult{
		ScenarioID:       r.ScenarioID,
		ScenarioName:     r.ScenarioName,
		Result:           r,
		TotalWithdrawals: r.TotalWithdrawals,
		MAGI:             r.MAGI,
		MarginalRate:     r.MarginalRate(),
		FederalTax:       r.TotalTax,
		StateTax:         r.StateTax,
		AnnualSurcharge:  r.AnnualSurcharge,
		TotalCost:        r.TotalCost,
		EffectiveRate:    r.EffectiveRateWithState,
		SurchargeLabel:   r.SurchargeTier.Label,
		SurchargeStatus:  r.SurchargeStatus,
		Headroom:         r.Headroom.Limit,
	}
}

// CalculateComparison fills scenario's deltas against base.
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.WithdrawalDiffFromBase = scenario.TotalWithdrawals.Sub(base.TotalWithdrawals)
	scenario.TaxDiffFromBase = scenario.FederalTax.Add(scenario.StateTax).Sub(base.FederalTax.Add(base.StateTax))
	scenario.SurchargeDiffFromBase = scenario.AnnualSurcharge.Sub(base.AnnualSurcharge)
	scenario.CostDiffFromBase = scenario.TotalCost.Sub(base.TotalCost)
	if !base.TotalCost.IsZero() {
		scenario.CostPctFromBase = scenario.CostDiffFromBase.
			Div(base.TotalCost).
			Mul(decimal.NewFromInt(100))
	}
	scenario.RateDiffFromBase = scenario.EffectiveRate.Sub(base.EffectiveRate)
	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}
	all := compSet.All()
	if len(all) == 0 {
		return recommendations
	}

	for _, r := range all {
		if r.SurchargeStatus == domain.SurchargeBreach {
			recommendations = append(recommendations,
				fmt.Sprintf("IRMAA: %s lands in %s and adds %s in Medicare premiums",
					r.ScenarioName, r.SurchargeLabel, output.FormatCurrency(r.AnnualSurcharge)))
		}
	}

	if len(all) < 2 {
		return recommendations
	}

	lowestCost := all[0]
	for _, r := range all[1:] {
		if r.TotalCost.LessThan(lowestCost.TotalCost) {
			lowestCost = r
		}
	}
	if lowestCost.ScenarioID != all[0].ScenarioID {
		savings := all[0].TotalCost.Sub(lowestCost.TotalCost)
		recommendations = append(recommendations,
			"Lowest Cost: "+lowestCost.ScenarioName+" costs "+output.FormatCurrency(savings)+
				" less in tax and IRMAA than "+all[0].ScenarioName)
	}

	// the rate is zero without withdrawals, so only scenarios that withdraw compete
	var lowestRate *ComparisonResult
	withdrawing := 0
	for i := range all {
		r := &all[i]
		if !r.TotalWithdrawals.IsPositive() {
			continue
		}
		withdrawing++
		if lowestRate == nil || r.EffectiveRate.LessThan(lowestRate.EffectiveRate) {
			lowestRate = r
		}
	}
	if withdrawing > 1 {
		recommendations = append(recommendations,
			"Lowest Effective Rate: "+lowestRate.ScenarioName+" at "+output.FormatPercentage(lowestRate.EffectiveRate))
	}

	// largest withdrawal that still avoids any surcharge
	var mostWithdrawn *ComparisonResult
	for i := range all {
		r := &all[i]
		if r.SurchargeStatus == domain.SurchargeBreach {
			continue
		}
		if mostWithdrawn == nil || r.TotalWithdrawals.GreaterThan(mostWithdrawn.TotalWithdrawals) {
			mostWithdrawn = r
		}
	}
	if mostWithdrawn != nil && mostWithdrawn.TotalWithdrawals.IsPositive() {
		recommendations = append(recommendations,
			"Most Withdrawn Without IRMAA: "+mostWithdrawn.ScenarioName+" withdraws "+
				output.FormatCurrency(mostWithdrawn.TotalWithdrawals))
	}

	return recommendations
}
