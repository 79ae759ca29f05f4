package components

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rgehrsitz/wtp/internal/domain"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestAmountSlider(t *testing.T) {
	s := NewAmountSlider("Savings", d(2500), d(3000), d(1000))
	s.Increment()
	assert.True(t, s.Value.Equal(d(3000)), "clamped to the maximum")
	s.Decrement()
	s.Decrement()
	s.Decrement()
	s.Decrement()
	assert.True(t, s.Value.IsZero(), "never below zero")
	assert.Zero(t, s.Percentage())

	open := NewAmountSlider("Empty", d(5000), decimal.Zero, d(1000))
	assert.True(t, open.Value.Equal(d(5000)), "a zero maximum leaves the top open")
	assert.Contains(t, open.Render(), "$5,000")
}

func TestFillBar(t *testing.T) {
	tests := []struct {
		name     string
		filled   decimal.Decimal
		capacity decimal.Decimal
		ratio    float64
	}{
		{"half", d(50), d(100), 0.5},
		{"over", d(150), d(100), 1},
		{"open-ended", d(150), decimal.Zero, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.ratio, NewFillBar("x", tt.filled, tt.capacity).Ratio(), 1e-9, tt.name)
	}
	assert.Contains(t, NewFillBar("12%", d(25000), d(50000)).Render(), "$25,000 / $50,000")
}

func TestBracketBars(t *testing.T) {
	fills := []domain.TierFill{
		{Tier: domain.BracketTier{Rate: decimal.RequireFromString("0.10"), Max: d(24800)}, Filled: d(24800)},
		{Tier: domain.BracketTier{Rate: decimal.RequireFromString("0.12"), Min: d(24800), Max: d(100800)}, Filled: d(1000)},
		{Tier: domain.BracketTier{Rate: decimal.RequireFromString("0.22"), Min: d(100800)}},
	}
	out := BracketBars(fills, 10)
	assert.Contains(t, out, "10%")
	assert.Contains(t, out, "$1,000 / $76,000")
	assert.NotContains(t, out, "22%")
	assert.Contains(t, BracketBars(nil, 10), "No taxable ordinary income")
}

func TestCardFor(t *testing.T) {
	s := domain.NewScenario(4)
	card := CardFor(s, nil, true)
	assert.Empty(t, card.Highlights)
	assert.Contains(t, card.RenderCompact(), "4. Scenario 4 ★")

	r := &domain.ScenarioResult{TotalCost: d(1234), TotalWithdrawals: d(10000), SurchargeTier: domain.SurchargeTier{Label: "No IRMAA"}}
	card = CardFor(s, r, false)
	assert.Equal(t, []string{"cost $1,234", "$10,000 withdrawn", "No IRMAA"}, card.Highlights)
}

func TestResultCards(t *testing.T) {
	r := &domain.ScenarioResult{
		StateName:       "Utah",
		SurchargeStatus: domain.SurchargeBreach,
		SurchargeTier:   domain.SurchargeTier{Label: "Bracket 1"},
		Headroom:        domain.Headroom{Binding: domain.BindingNone},
	}
	cards := ResultCards(r, 20)
	assert.Len(t, cards, 8)
	assert.Equal(t, "Utah Tax", cards[2].Label)
	assert.NotNil(t, cards[5].Trend)
	assert.False(t, cards[5].Trend.Good)
	assert.Equal(t, "unlimited", cards[7].Value)
}
