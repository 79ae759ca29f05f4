package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/wtp/internal/output"
	"github.com/rgehrsitz/wtp/internal/tui/tuistyles"
)

// AmountSlider adjusts a dollar amount between zero and a maximum in fixed
// steps.
type AmountSlider struct {
	Label       string
	Value       decimal.Decimal
	Max         decimal.Decimal
	Step        decimal.Decimal
	Width       int
	IsFocused   bool
	Description string
}

// NewAmountSlider creates a slider over [0, max].
func NewAmountSlider(label string, value, max, step decimal.Decimal) *AmountSlider {
	s := &AmountSlider{Label: label, Max: max, Step: step, Width: 30}
	s.SetValue(value)
	return s
}

// WithWidth sets the slider width
func (p *AmountSlider) WithWidth(width int) *AmountSlider {
	p.Width = width
	return p
}

// SetFocused sets the focus state
func (p *AmountSlider) SetFocused(focused bool) *AmountSlider {
	p.IsFocused = focused
	return p
}

// WithDescription adds a description/help text
func (p *AmountSlider) WithDescription(desc string) *AmountSlider {
	p.Description = desc
	return p
}

// Increment raises the value by one step, stopping at the maximum.
func (p *AmountSlider) Increment() {
	p.SetValue(p.Value.Add(p.Step))
}

// Decrement lowers the value by one step, stopping at zero.
func (p *AmountSlider) Decrement() {
	p.SetValue(p.Value.Sub(p.Step))
}

// SetValue sets the value, clamped to [0, Max]. A zero Max leaves the
// upper end open.
func (p *AmountSlider) SetValue(v decimal.Decimal) {
	if v.IsNegative() {
		v = decimal.Zero
	}
	if p.Max.IsPositive() && v.GreaterThan(p.Max) {
		v = p.Max
	}
	p.Value = v
}

// Percentage returns the value as a share of the range
func (p *AmountSlider) Percentage() float64 {
	if !p.Max.IsPositive() {
		return 0
	}
	return p.Value.Div(p.Max).InexactFloat64()
}

// Render returns the styled slider
func (p *AmountSlider) Render() string {
	var content strings.Builder

	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}
	content.WriteString(labelStyle.Render(p.Label))
	content.WriteString("  ")
	content.WriteString(valueStyle.Render(output.FormatWholeCurrency(p.Value)))
	content.WriteString("\n")
	content.WriteString(p.renderBar())

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	content.WriteString(" ")
	content.WriteString(rangeStyle.Render("of " + output.FormatWholeCurrency(p.Max)))

	if p.Description != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorWarning).Italic(true).Render(p.Description))
	}
	return content.String()
}

func (p *AmountSlider) renderBar() string {
	filled := int(math.Round(float64(p.Width) * p.Percentage()))
	if filled < 0 {
		filled = 0
	}
	if filled > p.Width {
		filled = p.Width
	}

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	if filled > 1 {
		bar.WriteString(thumbStyle.Render(strings.Repeat("━", filled-1)))
	}
	bar.WriteString(thumbStyle.Render("●"))
	if rest := p.Width - max(filled, 1); rest > 0 {
		bar.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", rest)))
	}
	bar.WriteString("]")
	return bar.String()
}
