package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario ID",
		"Scenario",
		"Type",
		"Active",
		"Total Withdrawals",
		"MAGI",
		"Marginal Rate",
		"Federal Tax",
		"State Tax",
		"IRMAA Annual",
		"Total Cost",
		"Effective Rate",
		"IRMAA Status",
		"Cost Diff from Base",
		"Cost % Change",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}
	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		strconv.Itoa(result.ScenarioID),
		result.ScenarioName,
		scenarioType,
		strconv.FormatBool(result.Active),
		result.TotalWithdrawals.StringFixed(2),
		result.MAGI.StringFixed(2),
		result.MarginalRate.StringFixed(4),
		result.FederalTax.StringFixed(2),
		result.StateTax.StringFixed(2),
		result.AnnualSurcharge.StringFixed(2),
		result.TotalCost.StringFixed(2),
		result.EffectiveRate.StringFixed(2),
		string(result.SurchargeStatus),
		result.CostDiffFromBase.StringFixed(2),
		result.CostPctFromBase.StringFixed(2),
	}
}
