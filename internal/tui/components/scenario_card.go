package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/output"
	"github.com/rgehrsitz/wtp/internal/tui/tuistyles"
)

// ScenarioCard displays a compact scenario overview
type ScenarioCard struct {
	ID         int
	Name       string
	Active     bool
	Highlights []string
	IsSelected bool
	Width      int
}

// NewScenarioCard creates a new scenario card
func NewScenarioCard(id int, name string) *ScenarioCard {
	return &ScenarioCard{
		ID:         id,
		Name:       name,
		Highlights: []string{},
		Width:      50,
	}
}

// CardFor builds a card from a scenario and, when available, its result.
func CardFor(s domain.Scenario, r *domain.ScenarioResult, active bool) *ScenarioCard {
	card := NewScenarioCard(s.ID, s.Name)
	card.Active = active
	if r == nil {
		return card
	}
	card.AddHighlight("cost " + output.FormatWholeCurrency(r.TotalCost))
	card.AddHighlight(fmt.Sprintf("%s withdrawn", output.FormatWholeCurrency(r.TotalWithdrawals)))
	card.AddHighlight(r.SurchargeTier.Label)
	return card
}

// AddHighlight adds a key metric or parameter
func (s *ScenarioCard) AddHighlight(highlight string) *ScenarioCard {
	s.Highlights = append(s.Highlights, highlight)
	return s
}

// SetSelected marks the card as selected
func (s *ScenarioCard) SetSelected(selected bool) *ScenarioCard {
	s.IsSelected = selected
	return s
}

// WithWidth sets the card width
func (s *ScenarioCard) WithWidth(width int) *ScenarioCard {
	s.Width = width
	return s
}

func (s *ScenarioCard) title() string {
	t := s.Name
	if s.Active {
		t += " ★"
	}
	return t
}

// Render returns the styled scenario card
func (s *ScenarioCard) Render() string {
	var content strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorPrimary)
	content.WriteString(titleStyle.Render(s.title()))
	content.WriteString("\n")

	if len(s.Highlights) > 0 {
		content.WriteString("\n")
		highlightStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
		for _, h := range s.Highlights {
			content.WriteString(highlightStyle.Render("• " + h))
			content.WriteString("\n")
		}
	}

	border := tuistyles.ColorBorder
	if s.IsSelected {
		border = tuistyles.ColorPrimary
	}
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(s.Width)

	return cardStyle.Render(strings.TrimRight(content.String(), "\n"))
}

// RenderCompact returns a compact single-line version
func (s *ScenarioCard) RenderCompact() string {
	parts := []string{fmt.Sprintf("%d.", s.ID)}

	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	parts = append(parts, nameStyle.Render(s.title()))

	if len(s.Highlights) > 0 {
		highlightStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
		parts = append(parts, highlightStyle.Render("• "+s.Highlights[0]))
	}

	return strings.Join(parts, " ")
}

// ScenarioListCompact renders a compact list for selection menus
func ScenarioListCompact(cards []*ScenarioCard, selectedIndex int) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No scenarios available")
	}

	rendered := make([]string, len(cards))
	for i, card := range cards {
		prefix := "  "
		style := tuistyles.UnselectedItemStyle

		if i == selectedIndex {
			prefix = "▸ "
			style = tuistyles.SelectedItemStyle
		}

		rendered[i] = style.Render(prefix + card.RenderCompact())
	}

	return strings.Join(rendered, "\n")
}
