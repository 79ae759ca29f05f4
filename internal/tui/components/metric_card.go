package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/output"
	"github.com/rgehrsitz/wtp/internal/tui/tuistyles"
)

// MetricCard displays a single metric with label, value, and optional trend
type MetricCard struct {
	Label       string
	Value       string
	Trend       *Trend
	Description string
	Width       int
}

// Trend is a change against a reference value.
type Trend struct {
	Good   bool
	Change string // e.g. "+$5,234"
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 30,
	}
}

// WithTrend adds a trend indicator to the metric card
func (m *MetricCard) WithTrend(good bool, change string) *MetricCard {
	m.Trend = &Trend{Good: good, Change: change}
	return m
}

// WithDescription adds a description/subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	label := tuistyles.MetricLabelStyle.Render(m.Label)
	value := tuistyles.MetricValueStyle.Render(m.Value)

	var trend string
	if m.Trend != nil {
		arrow := tuistyles.TrendIndicator(m.Trend.Good)
		trend = "\n" + tuistyles.MetricTrendStyle(m.Trend.Good).Render(fmt.Sprintf("%s %s", arrow, m.Trend.Change))
	}

	var desc string
	if m.Description != "" {
		desc = "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width)

	return cardStyle.Render(label + "\n" + value + trend + desc)
}

// RenderCompact returns a compact inline version without border
func (m *MetricCard) RenderCompact() string {
	label := tuistyles.MetricLabelStyle.Render(m.Label + ":")
	value := tuistyles.MetricValueStyle.Render(m.Value)

	var trend string
	if m.Trend != nil {
		arrow := tuistyles.TrendIndicator(m.Trend.Good)
		trend = " " + tuistyles.MetricTrendStyle(m.Trend.Good).Render(fmt.Sprintf("%s %s", arrow, m.Trend.Change))
	}

	return label + " " + value + trend
}

// ResultCards builds the headline cards for one evaluated scenario.
func ResultCards(r *domain.ScenarioResult, width int) []*MetricCard {
	irmaa := NewMetricCard("IRMAA", r.SurchargeTier.Label).
		WithDescription(output.FormatWholeCurrency(r.AnnualSurcharge) + " per year").
		WithWidth(width)
	switch r.SurchargeStatus {
	case domain.SurchargeBreach:
		irmaa.WithTrend(false, "inside a surcharge tier")
	case domain.SurchargeWarning:
		irmaa.WithTrend(false, output.FormatWholeCurrency(r.SurchargePlacement.RoomToNext)+" to next tier")
	}

	return []*MetricCard{
		NewMetricCard("Total Withdrawals", output.FormatWholeCurrency(r.TotalWithdrawals)).WithWidth(width),
		NewMetricCard("Federal Tax", output.FormatWholeCurrency(r.TotalTax)).
			WithDescription("marginal " + output.FormatRate(r.MarginalRate())).WithWidth(width),
		NewMetricCard(r.StateName+" Tax", output.FormatWholeCurrency(r.StateTax)).WithWidth(width),
		NewMetricCard("Effective Rate", output.FormatPercentage(r.EffectiveRateWithState)).
			WithDescription("federal + state").WithWidth(width),
		NewMetricCard("MAGI", output.FormatWholeCurrency(r.MAGI)).WithWidth(width),
		irmaa,
		NewMetricCard("Total Cost", output.FormatWholeCurrency(r.TotalCost)).
			WithDescription("tax + IRMAA").WithWidth(width),
		NewMetricCard("Headroom", headroomValue(r.Headroom)).
			WithDescription(headroomNote(r.Headroom)).WithWidth(width),
	}
}

func headroomValue(h domain.Headroom) string {
	if h.Binding == domain.BindingNone {
		return "unlimited"
	}
	return output.FormatWholeCurrency(h.Limit)
}

func headroomNote(h domain.Headroom) string {
	switch h.Binding {
	case domain.BindingOrdinary:
		return "before next bracket"
	case domain.BindingSurcharge:
		return "before next IRMAA tier"
	}
	return ""
}

// MetricGrid renders multiple metric cards in a grid layout
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}

	rows := []string{}
	currentRow := []string{}

	for i, card := range cards {
		currentRow = append(currentRow, card.Render())

		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, currentRow...))
			currentRow = []string{}
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
