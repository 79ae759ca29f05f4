package domain

import "github.com/shopspring/decimal"

// Placement locates an amount within a tier table.
type Placement struct {
	// Index of the selected tier, -1 when the table is empty.
	Index int `json:"index"`
	// RoomToNext is the distance to the tier's upper bound, zero at the top.
	RoomToNext decimal.Decimal `json:"roomToNext"`
	// RoomBelow is how far the amount sits above the previous tier's bound.
	RoomBelow decimal.Decimal `json:"roomBelow"`
	// AtTop is set for the open-ended tier or when the amount is past the
	// last bounded tier.
	AtTop bool `json:"atTop"`
}

// Found reports whether a tier was selected.
func (p Placement) Found() bool { return p.Index >= 0 }

// TierFill is the portion of an amount taxed inside one bracket.
type TierFill struct {
	Tier   BracketTier     `json:"tier"`
	Filled decimal.Decimal `json:"filled"`
	Tax    decimal.Decimal `json:"tax"`
}

// SaleDetail is the realized outcome of one resolved sale entry.
type SaleDetail struct {
	Class     AssetClass      `json:"class"`
	Asset     string          `json:"asset"`
	Quantity  decimal.Decimal `json:"quantity"`
	Proceeds  decimal.Decimal `json:"proceeds"`
	CostBasis decimal.Decimal `json:"costBasis"`
	Gain      decimal.Decimal `json:"gain"`
}

// ClassTotals sums the sales of one asset class.
type ClassTotals struct {
	Proceeds decimal.Decimal `json:"proceeds"`
	Gains    decimal.Decimal `json:"gains"`
}

// SurchargeStatus classifies how close MAGI is to an IRMAA tier.
type SurchargeStatus string

const (
	SurchargeSafe    SurchargeStatus = "safe"
	SurchargeWarning SurchargeStatus = "warning"
	SurchargeBreach  SurchargeStatus = "breach"
)

// Headroom is the extra traditional-account withdrawal the scenario can take
// before crossing a threshold. Unbounded limits are reported with the flag
// set and a zero amount.
type Headroom struct {
	OrdinaryBracket    decimal.Decimal `json:"ordinaryBracket"`
	BracketUnbounded   bool            `json:"bracketUnbounded"`
	Surcharge          decimal.Decimal `json:"irmaa"`
	SurchargeUnbounded bool            `json:"irmaaUnbounded"`
	Limit              decimal.Decimal `json:"limit"`
	Binding            string          `json:"binding"`
}

// Binding values for Headroom.
const (
	BindingOrdinary  = "ordinary_bracket"
	BindingSurcharge = "irmaa_tier"
	BindingNone      = "none"
)

// ScenarioResult is the full evaluation of one scenario.
type ScenarioResult struct {
	ScenarioID   int          `json:"scenarioId"`
	ScenarioName string       `json:"scenarioName"`
	TaxYear      int          `json:"taxYear"`
	FilingStatus FilingStatus `json:"filingStatus"`

	EmploymentIncome       decimal.Decimal `json:"employmentIncome"`
	PensionIncome          decimal.Decimal `json:"pensionIncome"`
	PensionMonths          int             `json:"pensionMonths"`
	TraditionalWithdrawals decimal.Decimal `json:"traditionalWithdrawals"`
	InterestIncome         decimal.Decimal `json:"interestIncome"`
	OrdinaryDividends      decimal.Decimal `json:"ordinaryDividends"`
	OrdinaryIncome         decimal.Decimal `json:"ordinaryIncome"`
	TaxFreeWithdrawals     decimal.Decimal `json:"taxFreeWithdrawals"`

	Stocks ClassTotals  `json:"stocks"`
	Crypto ClassTotals  `json:"crypto"`
	Metals ClassTotals  `json:"metals"`
	Sales  []SaleDetail `json:"sales"`

	QualifiedDividends decimal.Decimal `json:"qualifiedDividends"`
	PreferentialIncome decimal.Decimal `json:"preferentialIncome"`

	StandardDeduction     decimal.Decimal `json:"standardDeduction"`
	TaxableOrdinaryIncome decimal.Decimal `json:"taxableOrdinaryIncome"`
	OrdinaryTax           decimal.Decimal `json:"ordinaryTax"`
	PreferentialTax       decimal.Decimal `json:"preferentialTax"`
	TotalTax              decimal.Decimal `json:"totalTax"`

	StateName            string          `json:"stateName"`
	StateRate            decimal.Decimal `json:"stateRate"`
	StateOrdinaryTax     decimal.Decimal `json:"stateOrdinaryTax"`
	StatePreferentialTax decimal.Decimal `json:"statePreferentialTax"`
	StateTax             decimal.Decimal `json:"stateTax"`
	CombinedTax          decimal.Decimal `json:"combinedTax"`

	TotalWithdrawals       decimal.Decimal `json:"totalWithdrawals"`
	EffectiveRate          decimal.Decimal `json:"effectiveRate"`
	EffectiveRateWithState decimal.Decimal `json:"effectiveRateWithState"`

	OrdinaryBracket   BracketTier `json:"ordinaryBracket"`
	OrdinaryPlacement Placement   `json:"ordinaryPlacement"`
	BracketFill       []TierFill  `json:"bracketFill"`

	MAGI               decimal.Decimal `json:"magi"`
	SurchargeTier      SurchargeTier   `json:"irmaaTier"`
	SurchargePlacement Placement       `json:"irmaaPlacement"`
	AnnualSurcharge    decimal.Decimal `json:"irmaaAnnual"`
	SurchargeStatus    SurchargeStatus `json:"irmaaStatus"`

	TotalCost decimal.Decimal `json:"totalCost"`
	Headroom  Headroom        `json:"headroom"`
}

// ClassTotals returns the sale totals for class c.
func (r ScenarioResult) ClassTotals(c AssetClass) ClassTotals {
	switch c {
	case ClassStock:
		return r.Stocks
	case ClassCrypto:
		return r.Crypto
	case ClassMetal:
		return r.Metals
	default:
		return ClassTotals{}
	}
}

// TotalProceeds sums proceeds across the three classes.
func (r ScenarioResult) TotalProceeds() decimal.Decimal {
	return r.Stocks.Proceeds.Add(r.Crypto.Proceeds).Add(r.Metals.Proceeds)
}

// TotalGains sums realized gains across the three classes.
func (r ScenarioResult) TotalGains() decimal.Decimal {
	return r.Stocks.Gains.Add(r.Crypto.Gains).Add(r.Metals.Gains)
}

// MarginalRate is the rate of the bracket the taxable ordinary income sits in.
func (r ScenarioResult) MarginalRate() decimal.Decimal {
	return r.OrdinaryBracket.Rate
}
