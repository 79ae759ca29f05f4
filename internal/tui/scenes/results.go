package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/output"
	"github.com/rgehrsitz/wtp/internal/tui/components"
	"github.com/rgehrsitz/wtp/internal/tui/tuistyles"
)

// ResultsModel shows the evaluation of the active scenario.
type ResultsModel struct {
	result *domain.ScenarioResult
	width  int
	height int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	return &ResultsModel{}
}

// SetResult updates the result to display
func (m *ResultsModel) SetResult(r *domain.ScenarioResult) {
	m.result = r
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	return m, nil
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.result == nil {
		return tuistyles.InfoStyle.Render("No results to display.")
	}
	r := m.result

	header := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("Tax Year "+fmt.Sprint(r.TaxYear)),
		tuistyles.SubtitleStyle.Render("Scenario: "+r.ScenarioName+" • "+r.FilingStatus.Label()),
	)

	columns := 4
	if m.width > 0 && m.width < 100 {
		columns = 2
	}
	cards := components.MetricGrid(components.ResultCards(r, 22), columns)

	income := renderIncome(r)
	brackets := sectionStyle.Render("Bracket fill") + "\n" + components.BracketBars(r.BracketFill, 30)

	return lipgloss.JoinVertical(lipgloss.Left,
		header, "", cards, "",
		lipgloss.JoinHorizontal(lipgloss.Top, income, "    ", brackets),
	)
}

func renderIncome(r *domain.ScenarioResult) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Income"))
	b.WriteString("\n")
	b.WriteString(row("Ordinary", output.FormatWholeCurrency(r.OrdinaryIncome)))
	b.WriteString(row("Preferential", output.FormatWholeCurrency(r.PreferentialIncome)))
	b.WriteString(row("Tax-free", output.FormatWholeCurrency(r.TaxFreeWithdrawals)))
	b.WriteString(row("Std deduction", output.FormatWholeCurrency(r.StandardDeduction)))
	b.WriteString(row("Taxable ordinary", output.FormatWholeCurrency(r.TaxableOrdinaryIncome)))
	return b.String()
}
