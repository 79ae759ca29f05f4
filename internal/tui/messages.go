package tui

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/wtp/internal/compare"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/quote"
	"github.com/rgehrsitz/wtp/internal/state"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneHome Scene = iota
	SceneScenarios
	SceneWithdrawals
	SceneCompare
	SceneResults
	SceneHelp
)

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// WorkspaceLoadedMsg carries the workspace read from the store.
type WorkspaceLoadedMsg struct {
	Workspace *state.Workspace
}

// SaveCompleteMsg reports the outcome of a save.
type SaveCompleteMsg struct {
	Err error
}

// ComparisonCompleteMsg signals a comparison has finished
type ComparisonCompleteMsg struct {
	Set *compare.ComparisonSet
	Err error
}

// PricesRefreshedMsg carries fetched prices keyed by class and holding name.
// They are applied to the workspace in Update, never from the fetching
// goroutine.
type PricesRefreshedMsg struct {
	Prices map[domain.AssetClass]map[string]decimal.Decimal
	Report quote.Report
	Err    error
}
