package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/wtp/internal/tui/components"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderApp(BorderStyle.Render(components.NewSpinner().WithMessage(m.loadingMessage).Render()))
	}
	if m.err != nil {
		return m.renderApp(ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err)))
	}

	var content string
	switch m.currentScene {
	case SceneHome:
		content = m.homeModel.View()
	case SceneScenarios:
		content = m.scenariosModel.View()
	case SceneWithdrawals:
		content = m.withdrawalsModel.View()
	case SceneCompare:
		content = m.compareModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneHelp:
		content = renderHelp(m.refresher != nil)
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar, status bar, and main container
func (m Model) renderApp(content string) string {
	contentHeight := max(0, m.height-4) // title (2) + status (1) + padding (1)
	container := lipgloss.NewStyle().Height(contentHeight).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitleBar(),
		container,
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("WTP - Withdrawal Tax Planner")

	crumb := m.currentScene.String()
	if m.ws != nil {
		crumb += " / " + m.ws.Scenarios.Active().Name
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(crumb))
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("h", "home"),
		formatShortcut("s", "scenarios"),
		formatShortcut("w", "withdrawals"),
		formatShortcut("c", "compare"),
		formatShortcut("r", "results"),
	}
	if m.refresher != nil {
		shortcuts = append(shortcuts, formatShortcut("u", "update prices"))
	}
	shortcuts = append(shortcuts, formatShortcut("?", "help"), formatShortcut("q", "quit"))
	statusText := strings.Join(shortcuts, " • ")

	if m.status != "" {
		status := SubtitleStyle.Render(m.status)
		spacer := strings.Repeat(" ", max(0, m.width-lipgloss.Width(statusText)-lipgloss.Width(status)-4))
		statusText += spacer + status
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func renderHelp(prices bool) string {
	var b strings.Builder
	b.WriteString(`WTP - Withdrawal Tax Planner

Plan one tax year of retirement withdrawals and asset sales and see
federal and state tax, bracket fill, and Medicare IRMAA exposure.

KEYBOARD SHORTCUTS:
  h        Home dashboard
  s        Scenarios (Enter activate, a add, d delete)
  w        Withdrawals of the active scenario (←/→ adjust)
  c        Compare (space select, Enter compare)
  r        Results of the active scenario
`)
	if prices {
		b.WriteString("  u        Update stock prices\n")
	}
	b.WriteString(`  ?        Show this help
  ESC      Go back
  q/Ctrl+C Quit

Every change is saved as soon as it is made.`)
	return BorderStyle.Render(b.String())
}
