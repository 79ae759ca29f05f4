package calculation

import (
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
)

// ComputeProgressiveTax applies a marginal bracket table to amount. Each tier
// taxes only the slice of amount that falls inside it; amounts at or below
// zero owe nothing.
func ComputeProgressiveTax(amount decimal.Decimal, tiers []domain.BracketTier) decimal.Decimal {
	tax := decimal.Zero
	if !amount.IsPositive() {
		return tax
	}
	for _, tier := range tiers {
		if !amount.GreaterThan(tier.Min) {
			continue
		}
		tax = tax.Add(sliceIn(amount, tier).Mul(tier.Rate))
	}
	return tax
}

// FillTiers reports how much of amount lands in each tier and the tax owed
// on that slice. Tiers above amount are returned with zero fill.
func FillTiers(amount decimal.Decimal, tiers []domain.BracketTier) []domain.TierFill {
	fills := make([]domain.TierFill, 0, len(tiers))
	for _, tier := range tiers {
		fill := domain.TierFill{Tier: tier, Filled: decimal.Zero, Tax: decimal.Zero}
		if amount.GreaterThan(tier.Min) {
			fill.Filled = sliceIn(amount, tier)
			fill.Tax = fill.Filled.Mul(tier.Rate)
		}
		fills = append(fills, fill)
	}
	return fills
}

// sliceIn returns min(amount, Max) - Min; the caller guarantees amount > Min.
func sliceIn(amount decimal.Decimal, tier domain.BracketTier) decimal.Decimal {
	upper := amount
	if !tier.Band().Unbounded() && tier.Max.LessThan(amount) {
		upper = tier.Max
	}
	return upper.Sub(tier.Min)
}

// LocateTier finds the tier containing amount. The first tier with
// Min <= amount < Max wins. Past the last bounded tier, the last tier is
// selected with no room to grow.
func LocateTier[T domain.Banded](amount decimal.Decimal, tiers []T) domain.Placement {
	p := domain.Placement{Index: -1, RoomToNext: decimal.Zero, RoomBelow: decimal.Zero}
	for i, tier := range tiers {
		band := tier.Band()
		if !band.Contains(amount) {
			continue
		}
		p.Index = i
		if band.Unbounded() {
			p.AtTop = true
		} else {
			p.RoomToNext = band.Max.Sub(amount)
		}
		if i > 0 {
			p.RoomBelow = amount.Sub(tiers[i-1].Band().Max)
		}
		return p
	}

	if n := len(tiers); n > 0 {
		last := tiers[n-1].Band()
		if !last.Unbounded() && amount.GreaterThanOrEqual(last.Max) {
			p.Index = n - 1
			p.AtTop = true
			p.RoomBelow = amount.Sub(last.Min)
		}
	}
	return p
}
