package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/wtp/internal/domain"
)

// MarkdownFormatter renders the report as GitHub-flavored markdown.
type MarkdownFormatter struct{}

func (m MarkdownFormatter) Name() string { return "markdown" }

func (m MarkdownFormatter) Format(r *Report) ([]byte, error) {
	return []byte(Markdown(r)), nil
}

// Markdown renders the report body shared by the markdown, HTML and terminal
// formatters.
func Markdown(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s: %d\n\n", r.Title, r.TaxYear)
	info := r.Inputs.PersonalInfo
	fmt.Fprintf(&b, "Filing **%s**, age %d. Generated %s.\n\n", info.FilingStatus.Label(), info.Age, r.GeneratedAt.Format("2006-01-02 15:04"))

	if len(r.Warnings) > 0 {
		b.WriteString("> **Warnings**\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "> - %s\n", w)
		}
		b.WriteString("\n")
	}

	if len(r.Results) > 1 {
		b.WriteString("## Scenario comparison\n\n")
		writeComparisonTable(&b, r)
	}

	for i := range r.Results {
		res := &r.Results[i]
		heading := res.ScenarioName
		if res.ScenarioID == r.ActiveID {
			heading += " (active)"
		}
		fmt.Fprintf(&b, "## %s\n\n", heading)

		b.WriteString("| Item | Amount |\n|---|---:|\n")
		row := func(label, value string) { fmt.Fprintf(&b, "| %s | %s |\n", label, value) }
		row("Ordinary income", FormatCurrency(res.OrdinaryIncome))
		row("Preferential income", FormatCurrency(res.PreferentialIncome))
		row("Standard deduction", FormatCurrency(res.StandardDeduction))
		row("Taxable ordinary income", FormatCurrency(res.TaxableOrdinaryIncome))
		row("Federal tax", FormatCurrency(res.TotalTax))
		row(res.StateName+" tax", FormatCurrency(res.StateTax))
		row("IRMAA (annual)", FormatCurrency(res.AnnualSurcharge))
		row("**Total cost**", "**"+FormatCurrency(res.TotalCost)+"**")
		row("Marginal bracket", FormatRate(res.MarginalRate()))
		row("Effective rate (fed + state)", FormatPercentage(res.EffectiveRateWithState))
		b.WriteString("\n")

		if len(res.Sales) > 0 {
			b.WriteString("| Sale | Class | Quantity | Proceeds | Gain |\n|---|---|---:|---:|---:|\n")
			for _, s := range res.Sales {
				fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", s.Asset, s.Class.Label(), FormatQuantity(s.Quantity), FormatCurrency(s.Proceeds), FormatCurrency(s.Gain))
			}
			b.WriteString("\n")
		}

		fmt.Fprintf(&b, "IRMAA status: **%s** (%s, MAGI %s).", res.SurchargeStatus, res.SurchargeTier.Label, FormatCurrency(res.MAGI))
		switch res.Headroom.Binding {
		case domain.BindingOrdinary:
			fmt.Fprintf(&b, " %s more traditional withdrawal fits before the next bracket.", FormatCurrency(res.Headroom.Limit))
		case domain.BindingSurcharge:
			fmt.Fprintf(&b, " %s more traditional withdrawal fits before the next IRMAA tier.", FormatCurrency(res.Headroom.Limit))
		}
		b.WriteString("\n\n")
	}

	if len(r.Assumptions) > 0 {
		b.WriteString("## Assumptions\n\n")
		for _, a := range r.Assumptions {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}
	return b.String()
}

func writeComparisonTable(b *strings.Builder, r *Report) {
	b.WriteString("| Metric |")
	for _, res := range r.Results {
		name := res.ScenarioName
		if res.ScenarioID == r.ActiveID {
			name += " *"
		}
		fmt.Fprintf(b, " %s |", name)
	}
	b.WriteString("\n|---|")
	for range r.Results {
		b.WriteString("---:|")
	}
	b.WriteString("\n")

	metrics := []struct {
		label string
		value func(domain.ScenarioResult) string
	}{
		{"Total withdrawals", func(x domain.ScenarioResult) string { return FormatWholeCurrency(x.TotalWithdrawals) }},
		{"MAGI", func(x domain.ScenarioResult) string { return FormatWholeCurrency(x.MAGI) }},
		{"Tax bracket", func(x domain.ScenarioResult) string { return FormatRate(x.MarginalRate()) }},
		{"Federal tax", func(x domain.ScenarioResult) string { return FormatWholeCurrency(x.TotalTax) }},
		{"State tax", func(x domain.ScenarioResult) string { return FormatWholeCurrency(x.StateTax) }},
		{"Annual IRMAA", func(x domain.ScenarioResult) string { return FormatWholeCurrency(x.AnnualSurcharge) }},
		{"Total cost", func(x domain.ScenarioResult) string { return FormatWholeCurrency(x.TotalCost) }},
		{"Effective rate", func(x domain.ScenarioResult) string { return FormatPercentage(x.EffectiveRateWithState) }},
	}
	for _, m := range metrics {
		fmt.Fprintf(b, "| %s |", m.label)
		for _, res := range r.Results {
			fmt.Fprintf(b, " %s |", m.value(res))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
