package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/wtp/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format renders one column per scenario, like the planner's comparison grid.
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder
	all := compSet.All()

	labelWidth := 24
	colWidth := 16
	width := labelWidth + (colWidth+1)*len(all)
	if width < 60 {
		width = 60
	}

	sb.WriteString("SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", width) + "\n")
	sb.WriteString(fmt.Sprintf("Tax Year: %d   Base Scenario: %s\n", compSet.TaxYear, compSet.BaseScenarioName))
	if compSet.Source != "" {
		sb.WriteString(fmt.Sprintf("Source: %s\n", compSet.Source))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%-*s", labelWidth, "Metric"))
	for _, r := range all {
		name := r.ScenarioName
		if r.Active {
			name += "*"
		}
		sb.WriteString(fmt.Sprintf(" %*s", colWidth, tf.truncate(name, colWidth)))
	}
	sb.WriteString("\n" + strings.Repeat("-", width) + "\n")

	state := compSet.StateName
	if state == "" {
		state = "State"
	}
	rows := []struct {
		label string
		value func(ComparisonResult) string
	}{
		{"Total Withdrawals", func(r ComparisonResult) string { return output.FormatWholeCurrency(r.TotalWithdrawals) }},
		{"MAGI (for IRMAA)", func(r ComparisonResult) string { return output.FormatWholeCurrency(r.MAGI) }},
		{"Tax Bracket", func(r ComparisonResult) string { return output.FormatRate(r.MarginalRate) }},
		{"Federal Tax", func(r ComparisonResult) string { return output.FormatWholeCurrency(r.FederalTax) }},
		{state + " State Tax", func(r ComparisonResult) string { return output.FormatWholeCurrency(r.StateTax) }},
		{"Annual IRMAA Cost", func(r ComparisonResult) string { return output.FormatWholeCurrency(r.AnnualSurcharge) }},
		{"Total Cost", func(r ComparisonResult) string { return output.FormatWholeCurrency(r.TotalCost) }},
		{"Effective Rate", func(r ComparisonResult) string { return output.FormatPercentage(r.EffectiveRate) }},
		{"IRMAA Status", func(r ComparisonResult) string { return string(r.SurchargeStatus) }},
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%-*s", labelWidth, row.label))
		for _, r := range all {
			sb.WriteString(fmt.Sprintf(" %*s", colWidth, row.value(r)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat("=", width) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", width) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			sb.WriteString(fmt.Sprintf("  Withdrawals:      %s$%s\n",
				tf.deltaSymbol(alt.WithdrawalDiffFromBase), tf.formatDecimal(alt.WithdrawalDiffFromBase)))
			sb.WriteString(fmt.Sprintf("  Tax (fed+state):  %s$%s\n",
				tf.deltaSymbol(alt.TaxDiffFromBase), tf.formatDecimal(alt.TaxDiffFromBase)))
			if !alt.SurchargeDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  IRMAA:            %s$%s\n",
					tf.deltaSymbol(alt.SurchargeDiffFromBase), tf.formatDecimal(alt.SurchargeDiffFromBase)))
			}
			sb.WriteString(fmt.Sprintf("  Total Cost:       %s$%s (%s%%)\n",
				tf.deltaSymbol(alt.CostDiffFromBase), tf.formatDecimal(alt.CostDiffFromBase), alt.CostPctFromBase.StringFixed(1)))
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", width) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatDecimal formats the magnitude of d in thousands or millions.
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	d = d.Abs()
	if d.GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary of cost deltas.
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		costChange := "="
		if !alt.CostDiffFromBase.IsZero() {
			costChange = fmt.Sprintf("%s$%s", tf.deltaSymbol(alt.CostDiffFromBase), tf.formatDecimal(alt.CostDiffFromBase))
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, costChange))
	}

	return sb.String()
}
