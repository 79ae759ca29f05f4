// Package tuimsg holds the messages scenes send up to the root model. It is
// separate from package tui so scenes can import it without a cycle.
package tuimsg

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/wtp/internal/domain"
)

// ScenarioActivateMsg asks for a scenario to become active.
type ScenarioActivateMsg struct {
	ID int
}

// ScenarioAddMsg asks for a new empty scenario.
type ScenarioAddMsg struct{}

// ScenarioRemoveMsg asks for a scenario to be deleted.
type ScenarioRemoveMsg struct {
	ID int
}

// WithdrawalChangedMsg carries an edited withdrawal amount.
type WithdrawalChangedMsg struct {
	ScenarioID int
	Account    domain.AccountKey
	Amount     decimal.Decimal
}

// ComparisonStartedMsg asks for the selected scenarios to be compared. The
// first id is the base.
type ComparisonStartedMsg struct {
	ScenarioIDs []int
}

// RefreshPricesMsg asks for a holding price refresh.
type RefreshPricesMsg struct{}
