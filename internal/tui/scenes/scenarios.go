package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/output"
	"github.com/rgehrsitz/wtp/internal/scenario"
	"github.com/rgehrsitz/wtp/internal/tui/components"
	"github.com/rgehrsitz/wtp/internal/tui/tuimsg"
	"github.com/rgehrsitz/wtp/internal/tui/tuistyles"
)

// ScenariosModel lists the scenarios and manages add, remove and activate.
type ScenariosModel struct {
	scenarios     []domain.Scenario
	results       map[int]*domain.ScenarioResult
	activeID      int
	selectedIndex int
	cards         []*components.ScenarioCard
	width         int
	height        int
}

// NewScenariosModel creates a new scenarios scene model
func NewScenariosModel() *ScenariosModel {
	return &ScenariosModel{results: map[int]*domain.ScenarioResult{}}
}

// SetScenarios updates the list along with each scenario's result.
func (m *ScenariosModel) SetScenarios(scenarios []domain.Scenario, results []domain.ScenarioResult, activeID int) {
	m.scenarios = scenarios
	m.activeID = activeID
	m.results = make(map[int]*domain.ScenarioResult, len(results))
	for i := range results {
		m.results[results[i].ScenarioID] = &results[i]
	}

	m.cards = m.cards[:0]
	for _, s := range scenarios {
		m.cards = append(m.cards, components.CardFor(s, m.results[s.ID], s.ID == activeID).WithWidth(40))
	}

	if m.selectedIndex >= len(m.scenarios) {
		m.selectedIndex = max(0, len(m.scenarios)-1)
	}
}

// SetSize updates the scene dimensions
func (m *ScenariosModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SelectedID returns the id under the cursor, or 0 for an empty list.
func (m *ScenariosModel) SelectedID() int {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.scenarios) {
		return m.scenarios[m.selectedIndex].ID
	}
	return 0
}

// Update handles messages for the scenarios scene
func (m *ScenariosModel) Update(msg tea.Msg) (*ScenariosModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m *ScenariosModel) handleKeyPress(msg tea.KeyMsg) (*ScenariosModel, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.selectedIndex < len(m.scenarios)-1 {
			m.selectedIndex++
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		if id := m.SelectedID(); id != 0 {
			return m, send(tuimsg.ScenarioActivateMsg{ID: id})
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("a", "+"))):
		return m, send(tuimsg.ScenarioAddMsg{})
	case key.Matches(msg, key.NewBinding(key.WithKeys("d", "x", "delete"))):
		if id := m.SelectedID(); id != 0 {
			return m, send(tuimsg.ScenarioRemoveMsg{ID: id})
		}
	}
	return m, nil
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders the scenarios scene
func (m *ScenariosModel) View() string {
	if len(m.scenarios) == 0 {
		return tuistyles.InfoStyle.Render("No scenarios. Press a to add one.")
	}

	for i, card := range m.cards {
		card.SetSelected(i == m.selectedIndex)
	}

	listStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2).
		Width(44)
	title := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("Scenarios")
	left := listStyle.Render(title + "\n\n" + components.ScenarioListCompact(m.cards, m.selectedIndex))

	s := m.scenarios[m.selectedIndex]
	right := renderScenarioDetails(s, m.results[s.ID], s.ID == m.activeID)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right) +
		"\n\n" + tuistyles.SubtitleStyle.Render(fmt.Sprintf("↑/k up • ↓/j down • Enter activate • a add • d delete • %d of %d", len(m.scenarios), scenario.MaxScenarios))
}

func renderScenarioDetails(s domain.Scenario, r *domain.ScenarioResult, active bool) string {
	detailStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorPrimary).
		Padding(1, 2).
		Width(56)

	var b strings.Builder
	name := s.Name
	if active {
		name += " (active)"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(name))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Withdrawals"))
	b.WriteString("\n")
	listed := false
	for _, k := range s.Withdrawals.Keys() {
		if amt := s.Withdrawals.Get(k); amt.IsPositive() {
			b.WriteString(row(k.Label(), output.FormatWholeCurrency(amt)))
			listed = true
		}
	}
	if !listed {
		b.WriteString(labelStyle.Render("  none") + "\n")
	}

	for _, c := range domain.AssetClasses() {
		sales := s.Sales(c)
		if len(sales) == 0 {
			continue
		}
		b.WriteString(sectionStyle.Render(c.Label() + " sales"))
		b.WriteString("\n")
		for _, sale := range sales {
			b.WriteString(row(sale.Asset, output.FormatQuantity(sale.Quantity)+" "+c.UnitName()))
		}
	}

	if r != nil {
		b.WriteString("\n")
		b.WriteString(row("Total cost", output.FormatWholeCurrency(r.TotalCost)))
		b.WriteString(row("Effective rate", output.FormatPercentage(r.EffectiveRateWithState)))
	}
	return detailStyle.Render(strings.TrimRight(b.String(), "\n"))
}
