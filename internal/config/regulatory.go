package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rgehrsitz/wtp/internal/calculation"
	"github.com/rgehrsitz/wtp/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadRulesFile reads a tax-year tables file. Fields the file leaves out keep
// the built-in values for its year, or for the latest built-in year when the
// file names a year without built-in tables.
func LoadRulesFile(filename string) (domain.TaxYearRules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.TaxYearRules{}, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}
	return ParseRules(data)
}

// ParseRules decodes a tax-year tables document over the built-in defaults.
func ParseRules(data []byte) (domain.TaxYearRules, error) {
	var header struct {
		Year int `yaml:"year"`
	}
	if err := yaml.Unmarshal(data, &header); err != nil {
		return domain.TaxYearRules{}, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	rules := calculation.DefaultRules()
	if header.Year != 0 {
		base, err := calculation.RulesForYear(header.Year)
		switch {
		case err == nil:
			rules = base
		case !errors.Is(err, calculation.ErrUnknownTaxYear):
			return domain.TaxYearRules{}, err
		}
	}

	if err := yaml.Unmarshal(data, &rules); err != nil {
		return domain.TaxYearRules{}, fmt.Errorf("failed to parse rules YAML: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return domain.TaxYearRules{}, fmt.Errorf("rules validation failed: %w", err)
	}
	return rules, nil
}

// ResolveRules picks the tables for a run: an explicit rules file wins, then
// the plan's tax year, then the latest built-in year.
func ResolveRules(rulesFile string, taxYear int) (domain.TaxYearRules, error) {
	if rulesFile != "" {
		return LoadRulesFile(rulesFile)
	}
	if taxYear != 0 {
		return calculation.RulesForYear(taxYear)
	}
	return calculation.DefaultRules(), nil
}
