package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/wtp/internal/calculation"
	"github.com/rgehrsitz/wtp/internal/compare"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/quote"
	"github.com/rgehrsitz/wtp/internal/state"
	"github.com/rgehrsitz/wtp/internal/tui/scenes"
)

// Options wires the model to its collaborators.
type Options struct {
	Manager   *state.Manager
	Evaluator *calculation.Evaluator
	// Refresher enables price refresh; nil disables it.
	Refresher *quote.Refresher
}

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	manager       *state.Manager
	evaluator     *calculation.Evaluator
	compareEngine *compare.CompareEngine
	refresher     *quote.Refresher

	// ws is owned by Update; commands only ever see snapshots of it.
	ws      *state.Workspace
	results []domain.ScenarioResult

	homeModel        *scenes.HomeModel
	scenariosModel   *scenes.ScenariosModel
	withdrawalsModel *scenes.WithdrawalsModel
	compareModel     *scenes.CompareModel
	resultsModel     *scenes.ResultsModel

	err    error
	status string

	loading        bool
	loadingMessage string
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	ev := opts.Evaluator
	if ev == nil {
		ev = calculation.NewDefaultEvaluator()
	}
	return Model{
		currentScene:     SceneHome,
		manager:          opts.Manager,
		evaluator:        ev,
		compareEngine:    compare.NewCompareEngine(ev),
		refresher:        opts.Refresher,
		homeModel:        scenes.NewHomeModel(),
		scenariosModel:   scenes.NewScenariosModel(),
		withdrawalsModel: scenes.NewWithdrawalsModel(),
		compareModel:     scenes.NewCompareModel(),
		resultsModel:     scenes.NewResultsModel(),
		loading:          true,
		loadingMessage:   "Loading planner data...",
		width:            80,
		height:           24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadWorkspaceCmd(m.manager)
}

func loadWorkspaceCmd(mgr *state.Manager) tea.Cmd {
	return func() tea.Msg {
		ws, err := mgr.Load(context.Background())
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return WorkspaceLoadedMsg{Workspace: ws}
	}
}

// saveCmd encodes the workspace before returning, so later edits in Update
// cannot race with the write.
func saveCmd(mgr *state.Manager, ws *state.Workspace) tea.Cmd {
	snapshot := &state.Workspace{
		Inputs:    ws.Snapshot(),
		Scenarios: ws.Scenarios.Clone(),
		APIKey:    ws.APIKey,
	}
	return func() tea.Msg {
		return SaveCompleteMsg{Err: mgr.Save(context.Background(), snapshot)}
	}
}

func compareCmd(ce *compare.CompareEngine, plan domain.Plan, ids []int) tea.Cmd {
	return func() tea.Msg {
		set, err := ce.Compare(context.Background(), &plan, compare.CompareOptions{
			BaseScenarioID: ids[0],
			ScenarioIDs:    ids[1:],
		})
		return ComparisonCompleteMsg{Set: set, Err: err}
	}
}

// refreshCmd fetches stock prices against a copy of the holdings. The
// prices are applied to the workspace when the message arrives in Update.
func refreshCmd(r *quote.Refresher, stocks domain.HoldingSet) tea.Cmd {
	return func() tea.Msg {
		prices := map[string]decimal.Decimal{}
		report, err := r.Refresh(context.Background(), stocks, func(name string, price decimal.Decimal) error {
			prices[name] = price
			return nil
		})
		return PricesRefreshedMsg{
			Prices: map[domain.AssetClass]map[string]decimal.Decimal{domain.ClassStock: prices},
			Report: report,
			Err:    err,
		}
	}
}

// recalculate re-evaluates every scenario and pushes the results into the
// scenes.
func (m *Model) recalculate() {
	if m.ws == nil {
		return
	}
	plan := m.ws.Plan()
	m.results = m.evaluator.EvaluateAll(plan.Scenarios, plan.Inputs)

	var active *domain.ScenarioResult
	for i := range m.results {
		if m.results[i].ScenarioID == plan.ActiveScenario {
			active = &m.results[i]
		}
	}

	var warnings []string
	for _, w := range m.ws.Warnings() {
		warnings = append(warnings, w.String())
	}

	m.homeModel.SetData(plan.Inputs, active, len(plan.Scenarios), warnings)
	m.scenariosModel.SetScenarios(plan.Scenarios, m.results, plan.ActiveScenario)
	m.withdrawalsModel.SetScenario(m.ws.Scenarios.Active(), plan.Inputs.Accounts)
	m.compareModel.SetScenarios(plan.Scenarios)
	m.resultsModel.SetResult(active)
}

func (m *Model) setSizes() {
	m.homeModel.SetSize(m.width, m.height)
	m.scenariosModel.SetSize(m.width, m.height)
	m.withdrawalsModel.SetSize(m.width, m.height)
	m.compareModel.SetSize(m.width, m.height)
	m.resultsModel.SetSize(m.width, m.height)
}

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneHome:
		return "Home"
	case SceneScenarios:
		return "Scenarios"
	case SceneWithdrawals:
		return "Withdrawals"
	case SceneCompare:
		return "Compare"
	case SceneResults:
		return "Results"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}
