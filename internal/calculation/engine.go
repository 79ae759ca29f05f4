package calculation

import (
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Evaluator computes a ScenarioResult from a scenario and the plan inputs
// using one tax year's tables. It holds no per-evaluation state, so a single
// Evaluator can score any number of scenarios.
type Evaluator struct {
	Rules  domain.TaxYearRules
	Logger Logger
}

// NewEvaluator creates an evaluator bound to rules.
func NewEvaluator(rules domain.TaxYearRules) *Evaluator {
	return &Evaluator{Rules: rules, Logger: NopLogger{}}
}

// NewDefaultEvaluator creates an evaluator with the latest built-in tables.
func NewDefaultEvaluator() *Evaluator {
	return NewEvaluator(DefaultRules())
}

// SetLogger sets the logger; nil restores the no-op logger.
func (e *Evaluator) SetLogger(l Logger) {
	e.Logger = OrNop(l)
}

// PensionMonths is the number of pension payments received when payments
// start in startMonth, counting through December.
func PensionMonths(startMonth int) int {
	months := 12 - startMonth + 1
	if months < 0 {
		return 0
	}
	if months > 12 {
		return 12
	}
	return months
}

// Evaluate scores one scenario. It never fails: unresolved sale references
// and non-positive quantities contribute nothing.
func (e *Evaluator) Evaluate(s domain.Scenario, in domain.Inputs) domain.ScenarioResult {
	rules := e.Rules
	info := in.PersonalInfo
	status := info.FilingStatus
	if status == "" {
		status = domain.FilingSingle
	}

	r := domain.ScenarioResult{
		ScenarioID:   s.ID,
		ScenarioName: s.Name,
		TaxYear:      rules.Year,
		FilingStatus: status,
		StateName:    rules.StateName,
		StateRate:    rules.StateRate,
	}

	// Ordinary income
	r.EmploymentIncome = decimal.NewFromInt(int64(info.WorkMonths)).Mul(info.MonthlyWorkIncome)
	r.PensionMonths = PensionMonths(info.PensionStartMonth)
	r.PensionIncome = decimal.NewFromInt(int64(r.PensionMonths)).Mul(info.MonthlyPension)
	r.TraditionalWithdrawals = s.Withdrawals.Taxable()
	r.InterestIncome = info.InterestIncome
	r.OrdinaryDividends = info.OrdinaryDividends
	r.OrdinaryIncome = r.EmploymentIncome.
		Add(r.PensionIncome).
		Add(r.TraditionalWithdrawals).
		Add(r.InterestIncome).
		Add(r.OrdinaryDividends)
	r.TaxFreeWithdrawals = s.Withdrawals.TaxFree()

	// Realized gains per class
	r.Sales = []domain.SaleDetail{}
	for _, class := range domain.AssetClasses() {
		totals, details := e.realize(s, class, in.Holdings.Class(class))
		switch class {
		case domain.ClassStock:
			r.Stocks = totals
		case domain.ClassCrypto:
			r.Crypto = totals
		case domain.ClassMetal:
			r.Metals = totals
		}
		r.Sales = append(r.Sales, details...)
	}
	r.QualifiedDividends = info.QualifiedDividends
	r.PreferentialIncome = r.TotalGains().Add(r.QualifiedDividends)

	// Federal
	ordinaryTiers := rules.OrdinaryTiers(status)
	r.StandardDeduction = rules.Deduction(status)
	r.TaxableOrdinaryIncome = decimal.Max(decimal.Zero, r.OrdinaryIncome.Sub(r.StandardDeduction))
	r.OrdinaryTax = ComputeProgressiveTax(r.TaxableOrdinaryIncome, ordinaryTiers)
	r.PreferentialTax = decimal.Zero
	if r.PreferentialIncome.IsPositive() {
		r.PreferentialTax = r.PreferentialIncome.Mul(rules.PreferentialRate)
	}
	r.TotalTax = r.OrdinaryTax.Add(r.PreferentialTax)

	// State
	r.StateOrdinaryTax = r.TaxableOrdinaryIncome.Mul(rules.StateRate)
	r.StatePreferentialTax = decimal.Zero
	if r.PreferentialIncome.IsPositive() {
		r.StatePreferentialTax = r.PreferentialIncome.Mul(rules.StateRate)
	}
	r.StateTax = r.StateOrdinaryTax.Add(r.StatePreferentialTax)
	r.CombinedTax = r.TotalTax.Add(r.StateTax)

	// Rates
	r.TotalWithdrawals = s.Withdrawals.Total().Add(r.TotalProceeds())
	r.EffectiveRate = decimal.Zero
	r.EffectiveRateWithState = decimal.Zero
	if r.TotalWithdrawals.IsPositive() {
		r.EffectiveRate = r.TotalTax.Div(r.TotalWithdrawals).Mul(hundred)
		r.EffectiveRateWithState = r.CombinedTax.Div(r.TotalWithdrawals).Mul(hundred)
	}

	// Bracket position
	r.OrdinaryPlacement = LocateTier(r.TaxableOrdinaryIncome, ordinaryTiers)
	if r.OrdinaryPlacement.Found() {
		r.OrdinaryBracket = ordinaryTiers[r.OrdinaryPlacement.Index]
	}
	r.BracketFill = FillTiers(r.TaxableOrdinaryIncome, ordinaryTiers)

	// IRMAA
	surchargeTiers := rules.SurchargeTiers(status)
	r.MAGI = r.OrdinaryIncome
	r.SurchargePlacement = LocateTier(r.MAGI, surchargeTiers)
	r.AnnualSurcharge = decimal.Zero
	if r.SurchargePlacement.Found() {
		r.SurchargeTier = surchargeTiers[r.SurchargePlacement.Index]
		r.AnnualSurcharge = r.SurchargeTier.MonthlyTotal().Mul(twelve)
	}
	r.SurchargeStatus = ClassifySurcharge(r.SurchargePlacement, rules.WarningDistance)

	r.TotalCost = r.CombinedTax.Add(r.AnnualSurcharge)
	r.Headroom = ComputeHeadroom(r)

	e.Logger.Debugf("scenario %d (%s): ordinary=%s taxable=%s federal=%s state=%s irmaa=%s",
		s.ID, s.Name, r.OrdinaryIncome, r.TaxableOrdinaryIncome, r.TotalTax, r.StateTax, r.AnnualSurcharge)
	return r
}

// realize resolves the sale entries of one class against its holdings.
func (e *Evaluator) realize(s domain.Scenario, class domain.AssetClass, holdings domain.HoldingSet) (domain.ClassTotals, []domain.SaleDetail) {
	totals := domain.ClassTotals{Proceeds: decimal.Zero, Gains: decimal.Zero}
	var details []domain.SaleDetail
	for _, sale := range s.Sales(class) {
		if !sale.Quantity.IsPositive() {
			continue
		}
		h, ok := holdings.Find(sale.Asset)
		if !ok {
			e.Logger.Debugf("scenario %d: skipping %s sale of %q, no such holding", s.ID, class, sale.Asset)
			continue
		}
		d := domain.SaleDetail{
			Class:     class,
			Asset:     h.Name,
			Quantity:  sale.Quantity,
			Proceeds:  sale.Quantity.Mul(h.CurrentPrice),
			CostBasis: sale.Quantity.Mul(h.CostBasis),
		}
		d.Gain = d.Proceeds.Sub(d.CostBasis)
		totals.Proceeds = totals.Proceeds.Add(d.Proceeds)
		totals.Gains = totals.Gains.Add(d.Gain)
		details = append(details, d)
	}
	return totals, details
}

// EvaluateAll scores each scenario independently, preserving order.
func (e *Evaluator) EvaluateAll(scenarios []domain.Scenario, in domain.Inputs) []domain.ScenarioResult {
	results := make([]domain.ScenarioResult, 0, len(scenarios))
	for _, s := range scenarios {
		results = append(results, e.Evaluate(s, in))
	}
	return results
}
