package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/wtp/internal/compare"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/tui/tuimsg"
	"github.com/rgehrsitz/wtp/internal/tui/tuistyles"
)

// CompareModel selects scenarios and shows the comparison table.
type CompareModel struct {
	scenarios         []domain.Scenario
	selectedScenarios map[int]bool // by scenario id
	order             []int        // ids in the order they were selected
	cursorIndex       int
	set               *compare.ComparisonSet
	comparing         bool
	width             int
	height            int
}

// NewCompareModel creates a new compare scene model
func NewCompareModel() *CompareModel {
	return &CompareModel{selectedScenarios: make(map[int]bool)}
}

// SetScenarios updates the scenarios list. Selections of scenarios that no
// longer exist are dropped.
func (m *CompareModel) SetScenarios(scenarios []domain.Scenario) {
	m.scenarios = scenarios
	exists := make(map[int]bool, len(scenarios))
	for _, s := range scenarios {
		exists[s.ID] = true
	}
	kept := m.order[:0]
	for _, id := range m.order {
		if exists[id] {
			kept = append(kept, id)
		} else {
			delete(m.selectedScenarios, id)
		}
	}
	m.order = kept
	if m.cursorIndex >= len(scenarios) {
		m.cursorIndex = max(0, len(scenarios)-1)
	}
}

// SetResults stores a finished comparison.
func (m *CompareModel) SetResults(set *compare.ComparisonSet) {
	m.set = set
	m.comparing = false
}

// Selected returns the chosen ids, base first.
func (m *CompareModel) Selected() []int {
	return append([]int(nil), m.order...)
}

// SetSize updates the model dimensions
func (m *CompareModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the compare scene
func (m *CompareModel) Update(msg tea.Msg) (*CompareModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.cursorIndex > 0 {
			m.cursorIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.cursorIndex < len(m.scenarios)-1 {
			m.cursorIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys(" ", "x"))):
		if len(m.scenarios) > 0 {
			m.toggle(m.scenarios[m.cursorIndex].ID)
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		if len(m.order) < 2 {
			return m, nil
		}
		m.comparing = true
		return m, send(tuimsg.ComparisonStartedMsg{ScenarioIDs: m.Selected()})
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("backspace"))):
		m.selectedScenarios = make(map[int]bool)
		m.order = nil
		m.set = nil
	}
	return m, nil
}

func (m *CompareModel) toggle(id int) {
	if m.selectedScenarios[id] {
		delete(m.selectedScenarios, id)
		for i, v := range m.order {
			if v == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
		return
	}
	m.selectedScenarios[id] = true
	m.order = append(m.order, id)
}

// View renders the compare scene
func (m *CompareModel) View() string {
	if m.comparing {
		return tuistyles.InfoStyle.Render("Comparing scenarios...")
	}

	selection := m.renderSelection()
	if m.set == nil {
		return selection
	}
	table := (&compare.TableFormatter{}).Format(m.set)
	return lipgloss.JoinVertical(lipgloss.Left, selection, "", tuistyles.BorderStyle.Render(strings.TrimRight(table, "\n")))
}

func (m *CompareModel) renderSelection() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("Select scenarios to compare"))
	b.WriteString("\n\n")

	for i, s := range m.scenarios {
		check := "[ ]"
		if m.selectedScenarios[s.ID] {
			check = "[x]"
			if len(m.order) > 0 && m.order[0] == s.ID {
				check = "[b]"
			}
		}
		line := fmt.Sprintf("%s %d. %s", check, s.ID, s.Name)
		if i == m.cursorIndex {
			b.WriteString(tuistyles.SelectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString(tuistyles.UnselectedItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(tuistyles.SubtitleStyle.Render("space toggle (first pick is the base) • Enter compare • backspace clear"))
	return b.String()
}
