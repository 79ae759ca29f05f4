package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/scenario"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, normalizes and validates a YAML plan
func (ip *InputParser) Parse(data []byte) (*domain.Plan, error) {
	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.normalize(&plan)

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &plan, nil
}

// normalize fills defaults that a hand-written plan may leave out
func (ip *InputParser) normalize(plan *domain.Plan) {
	if plan.PersonalInfo.FilingStatus == "" {
		plan.PersonalInfo.FilingStatus = domain.FilingSingle
	}
	if len(plan.Scenarios) == 0 {
		plan.Scenarios = []domain.Scenario{domain.NewScenario(1)}
	}

	next := 1
	for _, s := range plan.Scenarios {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	for i := range plan.Scenarios {
		s := &plan.Scenarios[i]
		if s.ID == 0 {
			s.ID = next
			next++
		}
		if s.Name == "" {
			s.Name = fmt.Sprintf("Scenario %d", s.ID)
		}
	}
	if plan.ActiveScenario == 0 {
		plan.ActiveScenario = plan.Scenarios[0].ID
	}
}

// ValidatePlan validates a plan
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if err := ip.validatePersonalInfo(&plan.PersonalInfo); err != nil {
		return fmt.Errorf("personal_info: %w", err)
	}
	if err := ip.validateBalances(plan.Accounts); err != nil {
		return fmt.Errorf("accounts: %w", err)
	}
	for _, class := range domain.AssetClasses() {
		if err := ip.validateHoldings(plan.Holdings.Class(class)); err != nil {
			return fmt.Errorf("holdings.%s: %w", class, err)
		}
	}

	if len(plan.Scenarios) > scenario.MaxScenarios {
		return fmt.Errorf("at most %d scenarios are allowed, got %d", scenario.MaxScenarios, len(plan.Scenarios))
	}
	seen := make(map[int]bool)
	active := false
	for i := range plan.Scenarios {
		s := &plan.Scenarios[i]
		if seen[s.ID] {
			return fmt.Errorf("scenario %d: duplicate id %d", i, s.ID)
		}
		seen[s.ID] = true
		active = active || s.ID == plan.ActiveScenario
		if err := ip.validateScenario(s); err != nil {
			return fmt.Errorf("scenario %d (%s) validation failed: %w", i, s.Name, err)
		}
	}
	if !active {
		return fmt.Errorf("active_scenario %d does not name a scenario", plan.ActiveScenario)
	}
	return nil
}

func (ip *InputParser) validatePersonalInfo(info *domain.PersonalInfo) error {
	if info.Age < 0 || info.Age > 120 {
		return fmt.Errorf("age must be between 0 and 120")
	}
	if info.WorkMonths < 0 || info.WorkMonths > 12 {
		return fmt.Errorf("work_months must be between 0 and 12")
	}
	if info.PensionStartMonth < 0 || info.PensionStartMonth > 13 {
		return fmt.Errorf("pension_start_month must be between 1 and 12, or 13 for no pension this year")
	}
	if info.MonthlyPension.IsPositive() && info.PensionStartMonth == 0 {
		return fmt.Errorf("pension_start_month is required when monthly_pension is set")
	}
	for name, v := range map[string]decimal.Decimal{
		"monthly_work_income": info.MonthlyWorkIncome,
		"monthly_pension":     info.MonthlyPension,
		"interest_income":     info.InterestIncome,
		"qualified_dividends": info.QualifiedDividends,
		"ordinary_dividends":  info.OrdinaryDividends,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	return nil
}

func (ip *InputParser) validateBalances(b domain.AccountBalances) error {
	for _, key := range b.Keys() {
		if b.Get(key).IsNegative() {
			return fmt.Errorf("%s cannot be negative", key)
		}
	}
	return nil
}

func (ip *InputParser) validateHoldings(set domain.HoldingSet) error {
	if len(set) > domain.MaxHoldingsPerClass {
		return fmt.Errorf("at most %d holdings per class, got %d", domain.MaxHoldingsPerClass, len(set))
	}
	seen := make(map[string]bool)
	for _, h := range set {
		if h.Name == "" {
			return fmt.Errorf("holding name is required")
		}
		if seen[h.Name] {
			return fmt.Errorf("duplicate holding %q", h.Name)
		}
		seen[h.Name] = true
		if h.Quantity.IsNegative() || h.CostBasis.IsNegative() || h.CurrentPrice.IsNegative() {
			return fmt.Errorf("holding %q has a negative value", h.Name)
		}
	}
	return nil
}

func (ip *InputParser) validateScenario(s *domain.Scenario) error {
	if s.ID <= 0 {
		return fmt.Errorf("id must be positive")
	}
	if err := ip.validateBalances(s.Withdrawals); err != nil {
		return fmt.Errorf("withdrawals: %w", err)
	}
	for _, class := range domain.AssetClasses() {
		seen := make(map[string]bool)
		for _, sale := range s.Sales(class) {
			if sale.Asset == "" {
				return fmt.Errorf("%s sale without an asset name", class)
			}
			if seen[sale.Asset] {
				return fmt.Errorf("more than one %s sale of %q", class, sale.Asset)
			}
			seen[sale.Asset] = true
			if sale.Quantity.IsNegative() {
				return fmt.Errorf("%s sale of %q has a negative quantity", class, sale.Asset)
			}
		}
	}
	return nil
}
