package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/wtp/internal/tui/tuimsg"
)

// ErrPricesDisabled is shown when a refresh is asked for without a price
// source configured.
var ErrPricesDisabled = errors.New("price refresh is not configured")

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.setSizes()
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case WorkspaceLoadedMsg:
		m.loading = false
		m.ws = msg.Workspace
		m.recalculate()
		return m, nil

	case SaveCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
		}
		return m, nil

	case tuimsg.ScenarioActivateMsg:
		return m.mutate(m.ws.Scenarios.SetActive(msg.ID), "")

	case tuimsg.ScenarioAddMsg:
		s, err := m.ws.Scenarios.Add()
		return m.mutate(err, "Added "+s.Name)

	case tuimsg.ScenarioRemoveMsg:
		return m.mutate(m.ws.Scenarios.Remove(msg.ID), "")

	case tuimsg.WithdrawalChangedMsg:
		return m.mutate(m.ws.Scenarios.SetWithdrawal(msg.ScenarioID, msg.Account, msg.Amount), "")

	case tuimsg.ComparisonStartedMsg:
		m.loading = true
		m.loadingMessage = "Comparing scenarios..."
		return m, compareCmd(m.compareEngine, m.ws.Plan(), msg.ScenarioIDs)

	case ComparisonCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			m.compareModel.SetResults(nil)
			return m, nil
		}
		m.compareModel.SetResults(msg.Set)
		return m, nil

	case tuimsg.RefreshPricesMsg:
		if m.refresher == nil {
			m.err = ErrPricesDisabled
			return m, nil
		}
		m.loading = true
		m.loadingMessage = "Fetching current prices..."
		return m, refreshCmd(m.refresher, m.ws.Inputs.Holdings.Stocks.Clone())

	case PricesRefreshedMsg:
		m.loading = false
		applied := 0
		for class, prices := range msg.Prices {
			for name, price := range prices {
				// the holding may have been removed while the fetch ran
				if err := m.ws.SetPrice(class, name, price); err == nil {
					applied++
				}
			}
		}
		m.status = msg.Report.Summary()
		if msg.Err != nil {
			m.err = msg.Err
		}
		m.homeModel.SetStatus(m.status)
		if applied == 0 {
			return m, nil
		}
		m.recalculate()
		return m, saveCmd(m.manager, m.ws)
	}

	return m.updateCurrentScene(msg)
}

// mutate finishes a workspace edit: on success it recalculates and saves,
// on failure it shows the error and leaves everything as it was.
func (m Model) mutate(err error, status string) (tea.Model, tea.Cmd) {
	if err != nil {
		m.err = err
		return m, nil
	}
	if status != "" {
		m.status = status
		m.homeModel.SetStatus(status)
	}
	m.recalculate()
	return m, saveCmd(m.manager, m.ws)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// any key dismisses an error
	if m.err != nil {
		m.err = nil
		return m, nil
	}
	if m.loading {
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		return m.navigate(SceneHelp)
	case "esc":
		if m.currentScene != SceneHome {
			if m.previousScene != m.currentScene {
				return m.navigate(m.previousScene)
			}
			return m.navigate(SceneHome)
		}
	case "h":
		return m.navigate(SceneHome)
	case "s":
		return m.navigate(SceneScenarios)
	case "w":
		return m.navigate(SceneWithdrawals)
	case "c":
		return m.navigate(SceneCompare)
	case "r":
		return m.navigate(SceneResults)
	case "u":
		return m, func() tea.Msg { return tuimsg.RefreshPricesMsg{} }
	}

	return m.updateCurrentScene(msg)
}

func (m Model) navigate(s Scene) (tea.Model, tea.Cmd) {
	if s == m.currentScene {
		return m, nil
	}
	return m, func() tea.Msg { return NavigateMsg{Scene: s} }
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.ws == nil {
		return m, nil
	}
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneHome:
		m.homeModel, cmd = m.homeModel.Update(msg)
	case SceneScenarios:
		m.scenariosModel, cmd = m.scenariosModel.Update(msg)
	case SceneWithdrawals:
		m.withdrawalsModel, cmd = m.withdrawalsModel.Update(msg)
	case SceneCompare:
		m.compareModel, cmd = m.compareModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	}
	return m, cmd
}
