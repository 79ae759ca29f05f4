package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/output"
	"github.com/rgehrsitz/wtp/internal/tui/tuistyles"
)

// HomeModel is the dashboard: inputs, balances and the active scenario.
type HomeModel struct {
	inputs   *domain.Inputs
	active   *domain.ScenarioResult
	count    int
	warnings []string
	status   string
	width    int
	height   int
}

// NewHomeModel creates a new home scene model
func NewHomeModel() *HomeModel {
	return &HomeModel{}
}

// SetData updates what the dashboard shows.
func (m *HomeModel) SetData(in domain.Inputs, active *domain.ScenarioResult, scenarioCount int, warnings []string) {
	m.inputs = &in
	m.active = active
	m.count = scenarioCount
	m.warnings = warnings
}

// SetStatus sets the one-line status shown under the overview, such as the
// result of a price refresh.
func (m *HomeModel) SetStatus(s string) {
	m.status = s
}

// SetSize updates the model dimensions
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the home scene
func (m *HomeModel) Update(msg tea.Msg) (*HomeModel, tea.Cmd) {
	return m, nil
}

// View renders the home dashboard
func (m *HomeModel) View() string {
	if m.inputs == nil {
		return tuistyles.BorderStyle.Render(tuistyles.SubtitleStyle.Render("Loading planner data..."))
	}

	var content strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	content.WriteString(titleStyle.Render("Withdrawal Tax Planner"))
	content.WriteString("\n\n")

	left := m.renderPersonal() + "\n" + m.renderAccounts()
	right := m.renderHoldings() + "\n" + m.renderActive()
	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))

	if len(m.warnings) > 0 {
		content.WriteString("\n\n")
		warn := lipgloss.NewStyle().Foreground(tuistyles.ColorWarning)
		for _, w := range m.warnings {
			content.WriteString(warn.Render("! " + w))
			content.WriteString("\n")
		}
	}
	if m.status != "" {
		content.WriteString("\n")
		content.WriteString(tuistyles.InfoStyle.Render(m.status))
	}

	return tuistyles.BorderStyle.Render(strings.TrimRight(content.String(), "\n"))
}

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorSecondary)
	labelStyle   = lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	valueStyle   = lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)
)

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("  %-20s", label)) + valueStyle.Render(value) + "\n"
}

func (m *HomeModel) renderPersonal() string {
	p := m.inputs.PersonalInfo
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Personal"))
	b.WriteString("\n")
	b.WriteString(row("Age", fmt.Sprintf("%d", p.Age)))
	b.WriteString(row("Filing status", p.FilingStatus.Label()))
	b.WriteString(row("Work income", fmt.Sprintf("%s x %d mo", output.FormatWholeCurrency(p.MonthlyWorkIncome), p.WorkMonths)))
	if p.MonthlyPension.IsPositive() {
		b.WriteString(row("Pension", fmt.Sprintf("%s/mo from month %d", output.FormatWholeCurrency(p.MonthlyPension), p.PensionStartMonth)))
	}
	return b.String()
}

func (m *HomeModel) renderAccounts() string {
	a := m.inputs.Accounts
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Accounts"))
	b.WriteString("\n")
	for _, k := range a.Keys() {
		b.WriteString(row(k.Label(), output.FormatWholeCurrency(a.Get(k))))
	}
	b.WriteString(row("Total", output.FormatWholeCurrency(a.Total())))
	return b.String()
}

func (m *HomeModel) renderHoldings() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Holdings"))
	b.WriteString("\n")
	for _, c := range domain.AssetClasses() {
		set := m.inputs.Holdings.Class(c)
		b.WriteString(row(fmt.Sprintf("%s (%d)", c.Label(), len(set)), output.FormatWholeCurrency(set.TotalValue())))
	}
	return b.String()
}

func (m *HomeModel) renderActive() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Active scenario (%d total)", m.count)))
	b.WriteString("\n")
	if m.active == nil {
		b.WriteString(labelStyle.Render("  none"))
		return b.String()
	}
	r := m.active
	b.WriteString(row("Name", r.ScenarioName))
	b.WriteString(row("Withdrawals", output.FormatWholeCurrency(r.TotalWithdrawals)))
	b.WriteString(row("Tax + IRMAA", output.FormatWholeCurrency(r.TotalCost)))
	status := tuistyles.StatusStyle(r.SurchargeStatus == domain.SurchargeBreach, r.SurchargeStatus == domain.SurchargeWarning)
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %-20s", "IRMAA")) + status.Render(r.SurchargeTier.Label) + "\n")
	return b.String()
}
