package sequencing

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/wtp/internal/calculation"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrUnknownStrategy is returned for a strategy name CreateStrategy does not
// know.
var ErrUnknownStrategy = errors.New("unknown withdrawal strategy")

// StrategyNames lists the names CreateStrategy accepts.
func StrategyNames() []string {
	return []string{"standard", "tax_efficient", "bracket_fill", "custom"}
}

// CreateStrategy creates a strategy by name. An empty name is standard;
// custom is only meaningful with a sequence.
func CreateStrategy(name string, sequence []domain.AccountKey) (Strategy, error) {
	switch name {
	case "", "standard":
		return NewStandardStrategy(), nil
	case "tax_efficient":
		return NewTaxEfficientStrategy(), nil
	case "bracket_fill":
		return NewBracketFillStrategy(), nil
	case "custom":
		return NewCustomStrategy(sequence), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Sources turns account balances into withdrawal sources, skipping empty
// accounts.
func Sources(balances domain.AccountBalances) []Source {
	var sources []Source
	for _, key := range domain.AccountKeys() {
		if b := balances.Get(key); b.IsPositive() {
			sources = append(sources, Source{Account: key, Balance: b, Treatment: TreatmentOf(key)})
		}
	}
	return sources
}

// ContextFor evaluates s without its account withdrawals (sales are kept) and
// reports the room left for ordinary income.
func ContextFor(ev *calculation.Evaluator, s domain.Scenario, in domain.Inputs, need decimal.Decimal) Context {
	bare := s.Clone()
	bare.Withdrawals = domain.AccountBalances{}
	r := ev.Evaluate(bare, in)

	ctx := Context{Need: need, Room: r.Headroom.Limit}
	if r.Headroom.Binding == domain.BindingNone {
		ctx.RoomUnbounded = true
	}
	return ctx
}

// Fill sources need from the scenario's accounts with strategy and returns
// the plan. The scenario itself is not changed.
func Fill(ev *calculation.Evaluator, strategy Strategy, s domain.Scenario, in domain.Inputs, need decimal.Decimal) Plan {
	return strategy.Plan(Sources(in.Accounts), ContextFor(ev, s, in, need))
}
