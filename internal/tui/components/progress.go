package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/output"
	"github.com/rgehrsitz/wtp/internal/tui/tuistyles"
)

// FillBar shows how much of a bounded band an amount occupies.
type FillBar struct {
	Label    string
	Filled   decimal.Decimal
	Capacity decimal.Decimal // zero for an open-ended band
	Width    int
}

// NewFillBar creates a bar with the default width.
func NewFillBar(label string, filled, capacity decimal.Decimal) *FillBar {
	return &FillBar{Label: label, Filled: filled, Capacity: capacity, Width: 30}
}

// WithWidth sets the bar width
func (p *FillBar) WithWidth(width int) *FillBar {
	p.Width = width
	return p
}

// Ratio is the filled share in [0, 1]. Open-ended bands report 0.
func (p *FillBar) Ratio() float64 {
	if !p.Capacity.IsPositive() {
		return 0
	}
	r := p.Filled.Div(p.Capacity).InexactFloat64()
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// Render returns the styled bar
func (p *FillBar) Render() string {
	filled := int(float64(p.Width) * p.Ratio())
	if !p.Capacity.IsPositive() && p.Filled.IsPositive() {
		filled = p.Width
	}

	barStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary)
	trackStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(8).Render(p.Label))
	b.WriteString(barStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(trackStyle.Render(strings.Repeat("░", p.Width-filled)))
	b.WriteString(" ")
	b.WriteString(output.FormatWholeCurrency(p.Filled))
	if p.Capacity.IsPositive() {
		b.WriteString(" / " + output.FormatWholeCurrency(p.Capacity))
	}
	return b.String()
}

// BracketBars renders one bar per ordinary bracket the income reached.
func BracketBars(fills []domain.TierFill, width int) string {
	var lines []string
	for _, f := range fills {
		if f.Filled.IsZero() {
			continue
		}
		capacity := decimal.Zero
		if !f.Tier.Max.IsZero() {
			capacity = f.Tier.Max.Sub(f.Tier.Min)
		}
		lines = append(lines, NewFillBar(output.FormatRate(f.Tier.Rate), f.Filled, capacity).WithWidth(width).Render())
	}
	if len(lines) == 0 {
		return tuistyles.InfoStyle.Render("No taxable ordinary income")
	}
	return strings.Join(lines, "\n")
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows an animated loading indicator
type Spinner struct {
	frame   int
	Message string
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{}
}

// WithMessage sets the spinner message
func (s *Spinner) WithMessage(message string) *Spinner {
	s.Message = message
	return s
}

// Next advances to the next frame
func (s *Spinner) Next() {
	s.frame = (s.frame + 1) % len(spinnerFrames)
}

// Render returns the current frame and message
func (s *Spinner) Render() string {
	style := lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary)
	return style.Render(spinnerFrames[s.frame]) + " " + s.Message
}
