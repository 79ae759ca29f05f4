package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/tui/components"
	"github.com/rgehrsitz/wtp/internal/tui/tuimsg"
	"github.com/rgehrsitz/wtp/internal/tui/tuistyles"
)

// WithdrawalStep is the slider increment for withdrawal amounts.
var WithdrawalStep = decimal.NewFromInt(1000)

// WithdrawalsModel edits the active scenario's per-account withdrawals.
type WithdrawalsModel struct {
	scenarioID    int
	scenarioName  string
	keys          []domain.AccountKey
	sliders       []*components.AmountSlider
	focusedSlider int
	width         int
	height        int
}

// NewWithdrawalsModel creates a new withdrawals scene model
func NewWithdrawalsModel() *WithdrawalsModel {
	return &WithdrawalsModel{}
}

// SetScenario rebuilds the sliders for s, each capped at the account
// balance. Amounts already above the balance are shown at the cap with a
// warning; the stored amount is only changed when the user adjusts it.
func (m *WithdrawalsModel) SetScenario(s domain.Scenario, balances domain.AccountBalances) {
	focused := m.focusedSlider
	if s.ID != m.scenarioID {
		focused = 0
	}
	m.scenarioID = s.ID
	m.scenarioName = s.Name
	m.keys = domain.AccountKeys()
	m.sliders = m.sliders[:0]

	for _, k := range m.keys {
		amount := s.Withdrawals.Get(k)
		balance := balances.Get(k)
		slider := components.NewAmountSlider(k.Label(), amount, balance, WithdrawalStep).WithWidth(40)
		if amount.GreaterThan(balance) {
			slider.WithDescription("exceeds the " + tuistyles.FormatCurrency(balance) + " balance")
		}
		m.sliders = append(m.sliders, slider)
	}

	if focused >= len(m.sliders) {
		focused = 0
	}
	m.focusedSlider = focused
	for i, s := range m.sliders {
		s.SetFocused(i == focused)
	}
}

// SetSize updates the scene dimensions
func (m *WithdrawalsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the withdrawals scene
func (m *WithdrawalsModel) Update(msg tea.Msg) (*WithdrawalsModel, tea.Cmd) {
	msgKey, ok := msg.(tea.KeyMsg)
	if !ok || len(m.sliders) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msgKey, key.NewBinding(key.WithKeys("up", "k", "shift+tab"))):
		m.focus(m.focusedSlider - 1)
	case key.Matches(msgKey, key.NewBinding(key.WithKeys("down", "j", "tab"))):
		m.focus(m.focusedSlider + 1)
	case key.Matches(msgKey, key.NewBinding(key.WithKeys("right", "l", "+"))):
		m.sliders[m.focusedSlider].Increment()
		return m, m.changed()
	case key.Matches(msgKey, key.NewBinding(key.WithKeys("left", "-"))):
		m.sliders[m.focusedSlider].Decrement()
		return m, m.changed()
	case key.Matches(msgKey, key.NewBinding(key.WithKeys("0"))):
		m.sliders[m.focusedSlider].SetValue(decimal.Zero)
		return m, m.changed()
	}
	return m, nil
}

func (m *WithdrawalsModel) focus(i int) {
	if i < 0 || i >= len(m.sliders) {
		return
	}
	m.sliders[m.focusedSlider].SetFocused(false)
	m.focusedSlider = i
	m.sliders[i].SetFocused(true)
}

func (m *WithdrawalsModel) changed() tea.Cmd {
	return send(tuimsg.WithdrawalChangedMsg{
		ScenarioID: m.scenarioID,
		Account:    m.keys[m.focusedSlider],
		Amount:     m.sliders[m.focusedSlider].Value,
	})
}

// View renders the withdrawals scene
func (m *WithdrawalsModel) View() string {
	if len(m.sliders) == 0 {
		return tuistyles.InfoStyle.Render("No active scenario.")
	}

	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	b.WriteString(title.Render("Withdrawals: " + m.scenarioName))
	b.WriteString("\n\n")
	for _, s := range m.sliders {
		b.WriteString(s.Render())
		b.WriteString("\n\n")
	}
	b.WriteString(tuistyles.SubtitleStyle.Render("↑/↓ account • ←/→ adjust by $1,000 • 0 clear"))
	return tuistyles.BorderStyle.Render(b.String())
}
