package sequencing

import (
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
)

const noteShortfall = "insufficient balances to meet request"

// drawer tracks the balances left while a plan is built.
type drawer struct {
	plan      Plan
	remaining decimal.Decimal
	balances  map[domain.AccountKey]*Source
}

func newDrawer(name string, sources []Source, need decimal.Decimal) *drawer {
	d := &drawer{
		plan:      Plan{Requested: need, Strategy: name, Allocations: []Allocation{}},
		remaining: need,
		balances:  make(map[domain.AccountKey]*Source, len(sources)),
	}
	for i := range sources {
		src := sources[i]
		d.balances[src.Account] = &src
	}
	return d
}

// draw takes up to limit from key, never more than the balance or the
// remaining need, and returns the amount taken.
func (d *drawer) draw(key domain.AccountKey, limit decimal.Decimal) decimal.Decimal {
	src, ok := d.balances[key]
	if !ok || !src.Balance.IsPositive() || !d.remaining.IsPositive() || !limit.IsPositive() {
		return decimal.Zero
	}
	amount := decimal.Min(src.Balance, d.remaining, limit)

	src.Balance = src.Balance.Sub(amount)
	d.remaining = d.remaining.Sub(amount)
	d.plan.Allocations = append(d.plan.Allocations, Allocation{Account: key, Amount: amount, Treatment: src.Treatment})
	d.plan.TotalSourced = d.plan.TotalSourced.Add(amount)
	if src.Treatment == OrdinaryIncome {
		d.plan.OrdinaryIncome = d.plan.OrdinaryIncome.Add(amount)
	} else {
		d.plan.TaxFree = d.plan.TaxFree.Add(amount)
	}
	return amount
}

// drawAll takes everything it can from each account in order.
func (d *drawer) drawAll(order []domain.AccountKey) {
	for _, key := range order {
		if !d.remaining.IsPositive() {
			return
		}
		if src, ok := d.balances[key]; ok {
			d.draw(key, src.Balance)
		}
	}
}

func (d *drawer) finish() Plan {
	d.plan.Remaining = d.remaining
	if d.remaining.IsPositive() {
		d.plan.Notes = append(d.plan.Notes, noteShortfall)
	}
	return d.plan
}

var (
	traditionalAccounts = []domain.AccountKey{domain.AccountTraditionalIRA, domain.AccountTraditional401k}
	rothAccounts        = []domain.AccountKey{domain.AccountRothIRA, domain.AccountRoth401k}
)

func concat(lists ...[]domain.AccountKey) []domain.AccountKey {
	var out []domain.AccountKey
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// StandardStrategy: savings -> traditional -> roth
// Spends cash first and preserves Roth money for last.
type StandardStrategy struct{}

func NewStandardStrategy() *StandardStrategy { return &StandardStrategy{} }

func (s *StandardStrategy) Name() string { return "standard" }

func (s *StandardStrategy) Plan(sources []Source, ctx Context) Plan {
	d := newDrawer(s.Name(), sources, ctx.Need)
	d.drawAll(concat([]domain.AccountKey{domain.AccountSavings}, traditionalAccounts, rothAccounts))
	return d.finish()
}

// TaxEfficientStrategy: savings -> roth -> traditional
// Keeps this year's ordinary income as low as the balances allow.
type TaxEfficientStrategy struct{}

func NewTaxEfficientStrategy() *TaxEfficientStrategy { return &TaxEfficientStrategy{} }

func (s *TaxEfficientStrategy) Name() string { return "tax_efficient" }

func (s *TaxEfficientStrategy) Plan(sources []Source, ctx Context) Plan {
	d := newDrawer(s.Name(), sources, ctx.Need)
	d.drawAll(concat([]domain.AccountKey{domain.AccountSavings}, rothAccounts, traditionalAccounts))
	return d.finish()
}

// BracketFillStrategy draws traditional money up to the room left in the
// current bracket (or below the next IRMAA tier), then tax-free money, and
// only then traditional money beyond the room.
type BracketFillStrategy struct{}

func NewBracketFillStrategy() *BracketFillStrategy { return &BracketFillStrategy{} }

func (s *BracketFillStrategy) Name() string { return "bracket_fill" }

func (s *BracketFillStrategy) Plan(sources []Source, ctx Context) Plan {
	d := newDrawer(s.Name(), sources, ctx.Need)

	room := ctx.Room
	if ctx.RoomUnbounded {
		room = ctx.Need
	}
	left := room
	for _, key := range traditionalAccounts {
		left = left.Sub(d.draw(key, left))
	}
	d.plan.BracketFilled = !ctx.RoomUnbounded && !left.IsPositive()

	d.drawAll(concat([]domain.AccountKey{domain.AccountSavings}, rothAccounts, traditionalAccounts))
	if d.plan.OrdinaryIncome.GreaterThan(room) {
		d.plan.Notes = append(d.plan.Notes, "tax-free balances ran out; traditional withdrawals exceed the bracket room")
	}
	return d.finish()
}

// CustomStrategy draws accounts in a caller-given order. An invalid order
// falls back to the standard strategy.
type CustomStrategy struct {
	Sequence []domain.AccountKey
}

func NewCustomStrategy(sequence []domain.AccountKey) *CustomStrategy {
	return &CustomStrategy{Sequence: sequence}
}

func (s *CustomStrategy) Name() string { return "custom" }

func (s *CustomStrategy) Plan(sources []Source, ctx Context) Plan {
	seen := map[domain.AccountKey]bool{}
	valid := len(s.Sequence) > 0
	for _, key := range s.Sequence {
		if !knownAccount(key) || seen[key] {
			valid = false
			break
		}
		seen[key] = true
	}
	if !valid {
		std := NewStandardStrategy().Plan(sources, ctx)
		std.Strategy = "custom->standard_fallback"
		std.Notes = append([]string{"invalid or empty custom sequence - falling back to standard"}, std.Notes...)
		return std
	}

	d := newDrawer(s.Name(), sources, ctx.Need)
	d.drawAll(s.Sequence)
	return d.finish()
}

func knownAccount(key domain.AccountKey) bool {
	for _, k := range domain.AccountKeys() {
		if k == key {
			return true
		}
	}
	return false
}
