package calculation

import (
	"testing"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeProgressiveTax(t *testing.T) {
	single := Rules2026().OrdinarySingle

	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"zero", "0", "0"},
		{"negative", "-5000", "0"},
		{"inside first tier", "10000", "1000"},
		{"exactly first bound", "12400", "1240"},
		{"worked example", "60000", "7912"},
		{"end to end example", "25900", "2860"},
		{"top tier", "700000", "214951.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeProgressiveTax(dec(tt.amount), single)
			assert.True(t, got.Equal(dec(tt.want)), "tax on %s: want %s, got %s", tt.amount, tt.want, got)
		})
	}
}

func TestComputeProgressiveTax_MonotoneAndBelowTopRate(t *testing.T) {
	for _, tiers := range [][]domain.BracketTier{Rules2026().OrdinarySingle, Rules2026().OrdinaryJoint} {
		topRate := tiers[len(tiers)-1].Rate
		prev := decimal.Zero
		for a := int64(1000); a <= 1_000_000; a += 7919 {
			amount := decimal.NewFromInt(a)
			tax := ComputeProgressiveTax(amount, tiers)
			assert.True(t, tax.GreaterThanOrEqual(prev), "tax must not decrease at %d", a)
			assert.True(t, tax.LessThan(amount.Mul(topRate)), "tax must stay below amount x top rate at %d", a)
			prev = tax
		}
	}
}

func TestComputeProgressiveTax_ContinuousAtBounds(t *testing.T) {
	tiers := Rules2026().OrdinarySingle
	cent := dec("0.01")
	for _, tier := range tiers[:len(tiers)-1] {
		below := ComputeProgressiveTax(tier.Max.Sub(cent), tiers)
		at := ComputeProgressiveTax(tier.Max, tiers)
		assert.True(t, at.Sub(below).LessThanOrEqual(cent), "no jump at %s", tier.Max)
	}
}

func TestFillTiers(t *testing.T) {
	tiers := Rules2026().OrdinarySingle
	fills := FillTiers(dec("60000"), tiers)
	require.Len(t, fills, len(tiers))

	assert.True(t, fills[0].Filled.Equal(dec("12400")))
	assert.True(t, fills[1].Filled.Equal(dec("38000")))
	assert.True(t, fills[2].Filled.Equal(dec("9600")))
	assert.True(t, fills[3].Filled.IsZero())

	total := decimal.Zero
	for _, f := range fills {
		total = total.Add(f.Tax)
	}
	assert.True(t, total.Equal(ComputeProgressiveTax(dec("60000"), tiers)), "fills add up to the progressive tax")
}

func TestLocateTier(t *testing.T) {
	ordinary := Rules2026().OrdinarySingle
	irmaa := Rules2026().SurchargeSingle

	t.Run("zero selects first tier", func(t *testing.T) {
		p := LocateTier(decimal.Zero, ordinary)
		assert.Equal(t, 0, p.Index)
		assert.True(t, p.RoomBelow.IsZero())
		assert.True(t, p.RoomToNext.Equal(dec("12400")))
	})

	t.Run("lower bound is inclusive", func(t *testing.T) {
		p := LocateTier(dec("50400"), ordinary)
		assert.Equal(t, 2, p.Index)
		assert.True(t, p.RoomBelow.IsZero())
		assert.True(t, p.RoomToNext.Equal(dec("55300")))
	})

	t.Run("middle tier room", func(t *testing.T) {
		p := LocateTier(dec("150000"), irmaa)
		assert.Equal(t, 2, p.Index)
		assert.True(t, p.RoomToNext.Equal(dec("21000")))
		assert.True(t, p.RoomBelow.Equal(dec("13000")))
	})

	t.Run("open ended top tier", func(t *testing.T) {
		p := LocateTier(dec("900000"), irmaa)
		assert.Equal(t, len(irmaa)-1, p.Index)
		assert.True(t, p.AtTop)
		assert.True(t, p.RoomToNext.IsZero())
		assert.True(t, p.RoomBelow.Equal(dec("400000")))
	})

	t.Run("past a bounded last tier", func(t *testing.T) {
		bounded := []domain.BracketTier{
			{Rate: dec("0.1"), Min: dec("0"), Max: dec("100")},
			{Rate: dec("0.2"), Min: dec("100"), Max: dec("200")},
		}
		p := LocateTier(dec("250"), bounded)
		assert.Equal(t, 1, p.Index)
		assert.True(t, p.AtTop)
		assert.True(t, p.RoomToNext.IsZero())
		assert.True(t, p.RoomBelow.Equal(dec("150")))
	})

	t.Run("empty table", func(t *testing.T) {
		p := LocateTier(dec("10"), []domain.SurchargeTier{})
		assert.False(t, p.Found())
	})
}

func TestRules2026_Valid(t *testing.T) {
	rules, err := RulesForYear(2026)
	require.NoError(t, err)
	require.NoError(t, rules.Validate())
	assert.Equal(t, []int{2026}, AvailableYears())
	assert.Equal(t, 2026, DefaultRules().Year)

	_, err = RulesForYear(1999)
	assert.ErrorIs(t, err, ErrUnknownTaxYear)
}
