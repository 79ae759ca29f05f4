package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FilingStatus selects the ordinary bracket table, the standard deduction and
// the Medicare surcharge table used for a plan.
type FilingStatus string

const (
	FilingSingle          FilingStatus = "single"
	FilingJoint           FilingStatus = "joint"
	FilingHeadOfHousehold FilingStatus = "head_of_household"
)

// ParseFilingStatus accepts the canonical names plus the aliases found in
// older saved plans ("married", "mfj"). An empty string means single.
func ParseFilingStatus(s string) (FilingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single":
		return FilingSingle, nil
	case "joint", "married", "mfj", "married_filing_jointly":
		return FilingJoint, nil
	case "hoh", "head_of_household":
		return FilingHeadOfHousehold, nil
	default:
		return "", fmt.Errorf("unknown filing status %q", s)
	}
}

// IsJoint reports whether the joint tables apply. Every other status is
// evaluated with the single tables.
func (f FilingStatus) IsJoint() bool {
	return f == FilingJoint
}

// UnmarshalText implements encoding.TextUnmarshaler so YAML and JSON decoding
// normalize aliases.
func (f *FilingStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseFilingStatus(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Label returns a human readable name.
func (f FilingStatus) Label() string {
	switch f {
	case FilingJoint:
		return "Married Filing Jointly"
	case FilingHeadOfHousehold:
		return "Head of Household"
	default:
		return "Single"
	}
}

// PersonalInfo holds the income facts of the tax year that do not depend on
// the withdrawal scenario.
type PersonalInfo struct {
	Age                int             `yaml:"age" json:"age"`
	FilingStatus       FilingStatus    `yaml:"filing_status" json:"filingStatus"`
	WorkMonths         int             `yaml:"work_months" json:"workMonths"`
	MonthlyWorkIncome  decimal.Decimal `yaml:"monthly_work_income" json:"monthlyWorkIncome"`
	MonthlyPension     decimal.Decimal `yaml:"monthly_pension" json:"monthlyPension"`
	PensionStartMonth  int             `yaml:"pension_start_month" json:"pensionStartMonth"`
	InterestIncome     decimal.Decimal `yaml:"interest_income" json:"interestIncome"`
	QualifiedDividends decimal.Decimal `yaml:"qualified_dividends" json:"qualifiedDividends"`
	OrdinaryDividends  decimal.Decimal `yaml:"ordinary_dividends" json:"ordinaryDividends"`
}

// DefaultPersonalInfo returns the starting values of a fresh workspace.
func DefaultPersonalInfo() PersonalInfo {
	return PersonalInfo{
		Age:               65,
		FilingStatus:      FilingSingle,
		WorkMonths:        3,
		MonthlyWorkIncome: decimal.NewFromInt(5000),
		MonthlyPension:    decimal.NewFromInt(3000),
		PensionStartMonth: 4,
	}
}

// AccountKey names one of the five account kinds a withdrawal can come from.
type AccountKey string

const (
	AccountSavings         AccountKey = "savings"
	AccountTraditionalIRA  AccountKey = "traditionalIRA"
	AccountRothIRA         AccountKey = "rothIRA"
	AccountTraditional401k AccountKey = "traditional401k"
	AccountRoth401k        AccountKey = "roth401k"
)

var accountKeys = []AccountKey{
	AccountSavings,
	AccountTraditionalIRA,
	AccountRothIRA,
	AccountTraditional401k,
	AccountRoth401k,
}

// AccountKeys returns every account key in display order.
func AccountKeys() []AccountKey {
	out := make([]AccountKey, len(accountKeys))
	copy(out, accountKeys)
	return out
}

// ParseAccountKey accepts the wire names as well as snake_case and a few
// short forms used on the command line.
func ParseAccountKey(s string) (AccountKey, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.TrimSpace(s)))
	switch norm {
	case "savings":
		return AccountSavings, nil
	case "traditionalira", "tradira", "ira":
		return AccountTraditionalIRA, nil
	case "rothira", "roth":
		return AccountRothIRA, nil
	case "traditional401k", "trad401k", "401k":
		return AccountTraditional401k, nil
	case "roth401k":
		return AccountRoth401k, nil
	default:
		return "", fmt.Errorf("unknown account %q", s)
	}
}

// Label returns a human readable account name.
func (k AccountKey) Label() string {
	switch k {
	case AccountSavings:
		return "Savings"
	case AccountTraditionalIRA:
		return "Traditional IRA"
	case AccountRothIRA:
		return "Roth IRA"
	case AccountTraditional401k:
		return "Traditional 401(k)"
	case AccountRoth401k:
		return "Roth 401(k)"
	default:
		return string(k)
	}
}

// IsTaxable reports whether withdrawals from the account count as ordinary
// income.
func (k AccountKey) IsTaxable() bool {
	return k == AccountTraditionalIRA || k == AccountTraditional401k
}

// AccountBalances is used both for account balances and for the withdrawal
// amounts of a scenario.
type AccountBalances struct {
	Savings         decimal.Decimal `yaml:"savings" json:"savings"`
	TraditionalIRA  decimal.Decimal `yaml:"traditional_ira" json:"traditionalIRA"`
	RothIRA         decimal.Decimal `yaml:"roth_ira" json:"rothIRA"`
	Traditional401k decimal.Decimal `yaml:"traditional_401k" json:"traditional401k"`
	Roth401k        decimal.Decimal `yaml:"roth_401k" json:"roth401k"`
}

// DefaultAccountBalances returns the starting balances of a fresh workspace.
func DefaultAccountBalances() AccountBalances {
	return AccountBalances{
		Savings:         decimal.NewFromInt(50000),
		TraditionalIRA:  decimal.NewFromInt(300000),
		RothIRA:         decimal.NewFromInt(100000),
		Traditional401k: decimal.NewFromInt(400000),
		Roth401k:        decimal.NewFromInt(50000),
	}
}

// Keys returns the account keys in display order.
func (a AccountBalances) Keys() []AccountKey {
	return AccountKeys()
}

// Get returns the amount stored for key, zero for an unknown key.
func (a AccountBalances) Get(key AccountKey) decimal.Decimal {
	switch key {
	case AccountSavings:
		return a.Savings
	case AccountTraditionalIRA:
		return a.TraditionalIRA
	case AccountRothIRA:
		return a.RothIRA
	case AccountTraditional401k:
		return a.Traditional401k
	case AccountRoth401k:
		return a.Roth401k
	default:
		return decimal.Zero
	}
}

// Set stores amount under key.
func (a *AccountBalances) Set(key AccountKey, amount decimal.Decimal) error {
	switch key {
	case AccountSavings:
		a.Savings = amount
	case AccountTraditionalIRA:
		a.TraditionalIRA = amount
	case AccountRothIRA:
		a.RothIRA = amount
	case AccountTraditional401k:
		a.Traditional401k = amount
	case AccountRoth401k:
		a.Roth401k = amount
	default:
		return fmt.Errorf("unknown account %q", key)
	}
	return nil
}

// Total sums all five amounts.
func (a AccountBalances) Total() decimal.Decimal {
	return a.Savings.Add(a.TraditionalIRA).Add(a.RothIRA).Add(a.Traditional401k).Add(a.Roth401k)
}

// Taxable sums the traditional IRA and traditional 401(k) amounts.
func (a AccountBalances) Taxable() decimal.Decimal {
	return a.TraditionalIRA.Add(a.Traditional401k)
}

// TaxFree sums the Roth and savings amounts.
func (a AccountBalances) TaxFree() decimal.Decimal {
	return a.RothIRA.Add(a.Roth401k).Add(a.Savings)
}
