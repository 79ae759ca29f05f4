package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders the detailed plain-text report.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintf(&buf, "%s (TAX YEAR %d)\n", strings.ToUpper(r.Title), r.TaxYear)
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf)

	info := r.Inputs.PersonalInfo
	fmt.Fprintln(&buf, "PERSONAL INFORMATION:")
	fmt.Fprintf(&buf, "  Age:                    %d\n", info.Age)
	fmt.Fprintf(&buf, "  Filing Status:          %s\n", info.FilingStatus.Label())
	fmt.Fprintf(&buf, "  Work Income:            %s x %d months\n", FormatCurrency(info.MonthlyWorkIncome), info.WorkMonths)
	if info.MonthlyPension.IsPositive() {
		fmt.Fprintf(&buf, "  Pension:                %s/month from month %d\n", FormatCurrency(info.MonthlyPension), info.PensionStartMonth)
	}
	fmt.Fprintln(&buf)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(&buf, "WARNINGS:")
		for _, w := range r.Warnings {
			fmt.Fprintf(&buf, "  ! %s\n", w)
		}
		fmt.Fprintln(&buf)
	}

	for i := range r.Results {
		res := &r.Results[i]
		title := res.ScenarioName
		if res.ScenarioID == r.ActiveID {
			title += " (active)"
		}
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", res.ScenarioID, title)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		writeIncome(&buf, res)
		writeTaxes(&buf, res)
		writeBracketFill(&buf, res)
		writeSurchargeAnalysis(&buf, res)
		writeHeadroom(&buf, res)
		fmt.Fprintln(&buf)
	}

	if len(r.Assumptions) > 0 {
		fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
		for _, a := range r.Assumptions {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
	}
	return buf.Bytes(), nil
}

func line(buf *bytes.Buffer, label string, amount decimal.Decimal) {
	fmt.Fprintf(buf, "  %-28s %15s\n", label+":", FormatCurrency(amount))
}

func writeIncome(buf *bytes.Buffer, res *domain.ScenarioResult) {
	fmt.Fprintln(buf, "ORDINARY INCOME:")
	line(buf, "Work income", res.EmploymentIncome)
	if res.PensionMonths > 0 {
		line(buf, fmt.Sprintf("Pension (%d months)", res.PensionMonths), res.PensionIncome)
	}
	line(buf, "Traditional withdrawals", res.TraditionalWithdrawals)
	line(buf, "Interest", res.InterestIncome)
	line(buf, "Ordinary dividends", res.OrdinaryDividends)
	line(buf, "Total ordinary income", res.OrdinaryIncome)
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "PREFERENTIAL INCOME:")
	for _, c := range domain.AssetClasses() {
		t := res.ClassTotals(c)
		if t.Proceeds.IsZero() && t.Gains.IsZero() {
			continue
		}
		fmt.Fprintf(buf, "  %-28s %15s  (proceeds %s)\n", c.Label()+" gains:", FormatCurrency(t.Gains), FormatCurrency(t.Proceeds))
	}
	line(buf, "Qualified dividends", res.QualifiedDividends)
	line(buf, "Total preferential income", res.PreferentialIncome)
	if res.TaxFreeWithdrawals.IsPositive() {
		line(buf, "Tax-free withdrawals", res.TaxFreeWithdrawals)
	}
	if len(res.Sales) > 0 {
		fmt.Fprintln(buf)
		fmt.Fprintf(buf, "  %-20s %10s %14s %14s\n", "Sale", "Qty", "Proceeds", "Gain")
		for _, s := range res.Sales {
			fmt.Fprintf(buf, "  %-20s %10s %14s %14s\n", truncate(s.Asset, 20), FormatQuantity(s.Quantity), FormatCurrency(s.Proceeds), FormatCurrency(s.Gain))
		}
	}
	fmt.Fprintln(buf)
}

func writeTaxes(buf *bytes.Buffer, res *domain.ScenarioResult) {
	fmt.Fprintln(buf, "TAXES:")
	line(buf, "Standard deduction", res.StandardDeduction)
	line(buf, "Taxable ordinary income", res.TaxableOrdinaryIncome)
	line(buf, "Federal ordinary tax", res.OrdinaryTax)
	line(buf, "Federal preferential tax", res.PreferentialTax)
	line(buf, "Total federal tax", res.TotalTax)
	line(buf, fmt.Sprintf("%s tax (%s)", res.StateName, FormatRate(res.StateRate)), res.StateTax)
	line(buf, "Federal + state", res.CombinedTax)
	fmt.Fprintf(buf, "  %-28s %15s\n", "Effective rate:", FormatPercentage(res.EffectiveRate))
	fmt.Fprintf(buf, "  %-28s %15s\n", "Effective rate with state:", FormatPercentage(res.EffectiveRateWithState))
	fmt.Fprintf(buf, "  %-28s %15s\n", "Marginal bracket:", FormatRate(res.MarginalRate()))
	fmt.Fprintln(buf)
}

func writeBracketFill(buf *bytes.Buffer, res *domain.ScenarioResult) {
	if len(res.BracketFill) == 0 {
		return
	}
	fmt.Fprintln(buf, "BRACKET FILL:")
	for _, f := range res.BracketFill {
		if f.Filled.IsZero() {
			continue
		}
		fmt.Fprintf(buf, "  %6s  %15s  tax %s\n", FormatRate(f.Tier.Rate), FormatCurrency(f.Filled), FormatCurrency(f.Tax))
	}
	if !res.OrdinaryPlacement.AtTop {
		line(buf, "Room left in bracket", res.OrdinaryPlacement.RoomToNext)
	}
	fmt.Fprintln(buf)
}

func writeSurchargeAnalysis(buf *bytes.Buffer, res *domain.ScenarioResult) {
	fmt.Fprintln(buf, "IRMAA (Medicare premium surcharge):")
	line(buf, "MAGI", res.MAGI)
	fmt.Fprintf(buf, "  %-28s %15s\n", "Tier:", res.SurchargeTier.Label)
	line(buf, "Annual surcharge", res.AnnualSurcharge)
	switch res.SurchargeStatus {
	case domain.SurchargeBreach:
		fmt.Fprintln(buf, "  ✗ MAGI is inside a surcharge tier")
	case domain.SurchargeWarning:
		fmt.Fprintf(buf, "  ⚠ within %s of the next tier\n", FormatCurrency(res.SurchargePlacement.RoomToNext))
	default:
		fmt.Fprintln(buf, "  ✓ no surcharge concerns")
	}
	line(buf, "Total cost (tax + IRMAA)", res.TotalCost)
	fmt.Fprintln(buf)
}

func writeHeadroom(buf *bytes.Buffer, res *domain.ScenarioResult) {
	h := res.Headroom
	if h.Binding == domain.BindingNone {
		fmt.Fprintln(buf, "Headroom: no bracket or tier limit above this income")
		return
	}
	what := "the next ordinary bracket"
	if h.Binding == domain.BindingSurcharge {
		what = "the next IRMAA tier"
	}
	fmt.Fprintf(buf, "Headroom: %s more in traditional withdrawals before %s\n", FormatCurrency(h.Limit), what)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
