package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidTable = errors.New("invalid tier table")

// Band is the [Min, Max) interval covered by a tier. A zero Max marks the
// open-ended top tier.
type Band struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Unbounded reports whether the band has no upper limit.
func (b Band) Unbounded() bool {
	return b.Max.IsZero()
}

// Contains reports whether Min <= amount < Max.
func (b Band) Contains(amount decimal.Decimal) bool {
	if amount.LessThan(b.Min) {
		return false
	}
	return b.Unbounded() || amount.LessThan(b.Max)
}

// Banded is implemented by every tier type so one lookup serves both tables.
type Banded interface {
	Band() Band
}

// BracketTier is one marginal rate of a progressive table.
type BracketTier struct {
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
	Min  decimal.Decimal `yaml:"min" json:"min"`
	Max  decimal.Decimal `yaml:"max" json:"max"`
}

func (t BracketTier) Band() Band { return Band{Min: t.Min, Max: t.Max} }

// SurchargeTier is one Medicare income-related monthly adjustment level.
type SurchargeTier struct {
	Min   decimal.Decimal `yaml:"min" json:"min"`
	Max   decimal.Decimal `yaml:"max" json:"max"`
	PartB decimal.Decimal `yaml:"part_b" json:"partB"`
	PartD decimal.Decimal `yaml:"part_d" json:"partD"`
	Label string          `yaml:"label" json:"label"`
}

func (t SurchargeTier) Band() Band { return Band{Min: t.Min, Max: t.Max} }

// MonthlyTotal is the Part B plus Part D add-on per person.
func (t SurchargeTier) MonthlyTotal() decimal.Decimal {
	return t.PartB.Add(t.PartD)
}

// AnnualTotal is twelve months of MonthlyTotal.
func (t SurchargeTier) AnnualTotal() decimal.Decimal {
	return t.MonthlyTotal().Mul(decimal.NewFromInt(12))
}

// ValidateBands checks that tiers start at zero, are contiguous, and end with
// a single unbounded tier.
func ValidateBands[T Banded](tiers []T) error {
	if len(tiers) == 0 {
		return fmt.Errorf("%w: no tiers", ErrInvalidTable)
	}
	if !tiers[0].Band().Min.IsZero() {
		return fmt.Errorf("%w: first tier must start at 0", ErrInvalidTable)
	}
	last := len(tiers) - 1
	for i, t := range tiers {
		b := t.Band()
		if b.Min.IsNegative() || b.Max.IsNegative() {
			return fmt.Errorf("%w: tier %d has a negative bound", ErrInvalidTable, i+1)
		}
		if i == last {
			if !b.Unbounded() {
				return fmt.Errorf("%w: last tier must be unbounded", ErrInvalidTable)
			}
			break
		}
		if b.Unbounded() {
			return fmt.Errorf("%w: only the last tier may be unbounded", ErrInvalidTable)
		}
		if !b.Max.GreaterThan(b.Min) {
			return fmt.Errorf("%w: tier %d max %s is not above min %s", ErrInvalidTable, i+1, b.Max, b.Min)
		}
		if next := tiers[i+1].Band(); !next.Min.Equal(b.Max) {
			return fmt.Errorf("%w: gap or overlap between tier %d and %d", ErrInvalidTable, i+1, i+2)
		}
	}
	return nil
}

// StandardDeductions contains standard deduction amounts by filing status.
type StandardDeductions struct {
	Single          decimal.Decimal `yaml:"single" json:"single"`
	Joint           decimal.Decimal `yaml:"married_filing_jointly" json:"marriedFilingJointly"`
	HeadOfHousehold decimal.Decimal `yaml:"head_of_household" json:"headOfHousehold"`
}

// TaxYearRules is the complete set of tables for one tax year.
type TaxYearRules struct {
	Year              int                `yaml:"year" json:"year"`
	OrdinarySingle    []BracketTier      `yaml:"ordinary_single" json:"ordinarySingle"`
	OrdinaryJoint     []BracketTier      `yaml:"ordinary_joint" json:"ordinaryJoint"`
	SurchargeSingle   []SurchargeTier    `yaml:"irmaa_single" json:"irmaaSingle"`
	SurchargeJoint    []SurchargeTier    `yaml:"irmaa_joint" json:"irmaaJoint"`
	StandardDeduction StandardDeductions `yaml:"standard_deduction" json:"standardDeduction"`
	PreferentialRate  decimal.Decimal    `yaml:"preferential_rate" json:"preferentialRate"`
	StateName         string             `yaml:"state_name" json:"stateName"`
	StateRate         decimal.Decimal    `yaml:"state_rate" json:"stateRate"`
	WarningDistance   decimal.Decimal    `yaml:"irmaa_warning_distance" json:"irmaaWarningDistance"`
}

// OrdinaryTiers selects the bracket table for status.
func (r TaxYearRules) OrdinaryTiers(status FilingStatus) []BracketTier {
	if status.IsJoint() {
		return r.OrdinaryJoint
	}
	return r.OrdinarySingle
}

// SurchargeTiers selects the IRMAA table for status.
func (r TaxYearRules) SurchargeTiers(status FilingStatus) []SurchargeTier {
	if status.IsJoint() {
		return r.SurchargeJoint
	}
	return r.SurchargeSingle
}

// Deduction selects the standard deduction applied for status.
func (r TaxYearRules) Deduction(status FilingStatus) decimal.Decimal {
	if status.IsJoint() {
		return r.StandardDeduction.Joint
	}
	return r.StandardDeduction.Single
}

// Validate checks every table and rate.
func (r TaxYearRules) Validate() error {
	if err := ValidateBands(r.OrdinarySingle); err != nil {
		return fmt.Errorf("ordinary_single: %w", err)
	}
	if err := ValidateBands(r.OrdinaryJoint); err != nil {
		return fmt.Errorf("ordinary_joint: %w", err)
	}
	if err := ValidateBands(r.SurchargeSingle); err != nil {
		return fmt.Errorf("irmaa_single: %w", err)
	}
	if err := ValidateBands(r.SurchargeJoint); err != nil {
		return fmt.Errorf("irmaa_joint: %w", err)
	}
	one := decimal.NewFromInt(1)
	for name, rate := range map[string]decimal.Decimal{
		"preferential_rate": r.PreferentialRate,
		"state_rate":        r.StateRate,
	} {
		if rate.IsNegative() || rate.GreaterThan(one) {
			return fmt.Errorf("%s must be between 0 and 1, got %s", name, rate)
		}
	}
	if r.StandardDeduction.Single.IsNegative() || r.StandardDeduction.Joint.IsNegative() {
		return fmt.Errorf("standard deduction cannot be negative")
	}
	return nil
}
