package sequencing

import (
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxTreatment is how a withdrawal from an account is taxed.
// OrdinaryIncome: fully taxable and counted in MAGI (traditional accounts)
// TaxFree: no current year tax impact (savings principal, qualified Roth)
type TaxTreatment int

const (
	TaxFree TaxTreatment = iota
	OrdinaryIncome
)

func (tt TaxTreatment) String() string {
	switch tt {
	case TaxFree:
		return "tax_free"
	case OrdinaryIncome:
		return "ordinary"
	default:
		return "unknown"
	}
}

// TreatmentOf returns the tax treatment of withdrawals from key.
func TreatmentOf(key domain.AccountKey) TaxTreatment {
	switch key {
	case domain.AccountTraditionalIRA, domain.AccountTraditional401k:
		return OrdinaryIncome
	default:
		return TaxFree
	}
}

// Source is an account a withdrawal can be drawn from.
type Source struct {
	Account   domain.AccountKey
	Balance   decimal.Decimal
	Treatment TaxTreatment
}

// Allocation is the amount drawn from one account.
type Allocation struct {
	Account   domain.AccountKey
	Amount    decimal.Decimal
	Treatment TaxTreatment
}

// Plan is the result of sourcing a requested amount.
// Remaining is the part of the request the balances could not cover.
// OrdinaryIncome is the part of TotalSourced taxed as ordinary income.
// BracketFilled reports that bracket_fill used all of the available room.
type Plan struct {
	Requested      decimal.Decimal
	Strategy       string
	Allocations    []Allocation
	TotalSourced   decimal.Decimal
	Remaining      decimal.Decimal
	OrdinaryIncome decimal.Decimal
	TaxFree        decimal.Decimal
	BracketFilled  bool
	Notes          []string
}

// Withdrawals folds the allocations into per-account amounts.
func (p Plan) Withdrawals() domain.AccountBalances {
	var out domain.AccountBalances
	for _, a := range p.Allocations {
		_ = out.Set(a.Account, out.Get(a.Account).Add(a.Amount))
	}
	return out
}

// Context carries what a strategy needs besides the balances.
// Need: total amount to withdraw
// Room: ordinary income that can be added before the next bracket or IRMAA
// tier, ignored when RoomUnbounded is set
type Context struct {
	Need          decimal.Decimal
	Room          decimal.Decimal
	RoomUnbounded bool
}

// Strategy decides the order accounts are drawn from.
type Strategy interface {
	Name() string
	Plan(sources []Source, ctx Context) Plan
}
