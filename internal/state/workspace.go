package state

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/scenario"
	"github.com/shopspring/decimal"
)

// Workspace is the caller-owned mutable state of the planner: the inputs and
// the scenario collection. The evaluator only ever sees snapshots of it.
type Workspace struct {
	Inputs    domain.Inputs
	Scenarios *scenario.Collection
	// APIKey is only populated when a loaded record carried one.
	APIKey    string
	UpdatedAt time.Time
}

// Defaults returns a fresh workspace with the sample data.
func Defaults() *Workspace {
	return &Workspace{
		Inputs:    domain.DefaultInputs(),
		Scenarios: scenario.New(),
	}
}

// Snapshot returns a copy of the inputs safe to hand to the evaluator.
func (w *Workspace) Snapshot() domain.Inputs {
	return w.Inputs.Clone()
}

// Plan returns the workspace as a plan with copies of every scenario.
func (w *Workspace) Plan() domain.Plan {
	return domain.Plan{
		Inputs:         w.Snapshot(),
		Scenarios:      w.Scenarios.List(),
		ActiveScenario: w.Scenarios.ActiveID(),
	}
}

// FromPlan builds a workspace from a validated plan.
func FromPlan(p *domain.Plan) (*Workspace, error) {
	coll, err := scenario.Restore(p.Scenarios, p.ActiveScenario, 0)
	if err != nil {
		return nil, err
	}
	return &Workspace{Inputs: p.Inputs.Clone(), Scenarios: coll}, nil
}

// AddHolding adds a holding to a class.
func (w *Workspace) AddHolding(class domain.AssetClass, h domain.Holding) error {
	set := w.Inputs.Holdings.Set(class)
	if set == nil {
		return fmt.Errorf("unknown asset class %q", class)
	}
	return set.Add(h)
}

// RemoveHolding deletes a holding and every sale entry that names it.
func (w *Workspace) RemoveHolding(class domain.AssetClass, name string) error {
	set := w.Inputs.Holdings.Set(class)
	if set == nil {
		return fmt.Errorf("unknown asset class %q", class)
	}
	if err := set.Remove(name); err != nil {
		return err
	}
	w.Scenarios.PruneAsset(class, name)
	return nil
}

// UpdateHolding edits a holding in place. A rename carries the scenario sale
// entries along to the new name; stale entries already under the new name
// are dropped.
func (w *Workspace) UpdateHolding(class domain.AssetClass, name string, fn func(*domain.Holding)) error {
	set := w.Inputs.Holdings.Set(class)
	if set == nil {
		return fmt.Errorf("unknown asset class %q", class)
	}
	var renamed string
	err := set.Update(name, func(h *domain.Holding) {
		fn(h)
		renamed = h.Name
	})
	if err != nil {
		return err
	}
	if renamed != name {
		w.Scenarios.RenameAsset(class, name, renamed)
	}
	return nil
}

// SetPrice replaces the current price of a holding.
func (w *Workspace) SetPrice(class domain.AssetClass, name string, price decimal.Decimal) error {
	set := w.Inputs.Holdings.Set(class)
	if set == nil {
		return fmt.Errorf("unknown asset class %q", class)
	}
	return set.SetPrice(name, price)
}

// Warnings lists withdrawals and sales that exceed what is available.
func (w *Workspace) Warnings() []scenario.Warning {
	return w.Scenarios.Check(w.Inputs.Accounts, w.Inputs.Holdings)
}
