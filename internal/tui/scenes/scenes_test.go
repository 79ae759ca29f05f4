package scenes

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/wtp/internal/calculation"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/tui/tuimsg"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func twoScenarios() []domain.Scenario {
	a := domain.NewScenario(1)
	b := domain.NewScenario(3)
	b.Name = "Roth first"
	b.Withdrawals.RothIRA = decimal.NewFromInt(20000)
	return []domain.Scenario{a, b}
}

func TestScenariosModel_Keys(t *testing.T) {
	list := twoScenarios()
	results := calculation.NewDefaultEvaluator().EvaluateAll(list, domain.DefaultInputs())
	m := NewScenariosModel()
	m.SetScenarios(list, results, 1)

	tests := []struct {
		name string
		keys []tea.KeyMsg
		want tea.Msg
	}{
		{"activate", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEnter}}, tuimsg.ScenarioActivateMsg{ID: 3}},
		{"add", []tea.KeyMsg{keyMsg("a")}, tuimsg.ScenarioAddMsg{}},
		{"delete", []tea.KeyMsg{keyMsg("k"), keyMsg("d")}, tuimsg.ScenarioRemoveMsg{ID: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cmd tea.Cmd
			for _, k := range tt.keys {
				m, cmd = m.Update(k)
			}
			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
		})
	}
}

func TestScenariosModel_View(t *testing.T) {
	list := twoScenarios()
	results := calculation.NewDefaultEvaluator().EvaluateAll(list, domain.DefaultInputs())
	m := NewScenariosModel()
	m.SetScenarios(list, results, 3)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})

	view := m.View()
	assert.Contains(t, view, "Roth first (active)")
	assert.Contains(t, view, "Roth IRA")
	assert.Contains(t, view, "$20,000")

	// shrinking the list keeps the cursor in range
	m.SetScenarios(list[:1], results[:1], 1)
	assert.Equal(t, 1, m.SelectedID())
}

func TestWithdrawalsModel(t *testing.T) {
	s := domain.NewScenario(2)
	s.Withdrawals.Savings = decimal.NewFromInt(60000)
	m := NewWithdrawalsModel()
	m.SetScenario(s, domain.DefaultAccountBalances())

	assert.Contains(t, m.View(), "exceeds the $50,000 balance")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.NotNil(t, cmd)
	assert.Equal(t, tuimsg.WithdrawalChangedMsg{
		ScenarioID: 2,
		Account:    domain.AccountSavings,
		Amount:     decimal.NewFromInt(49000),
	}, cmd())

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	msg := cmd().(tuimsg.WithdrawalChangedMsg)
	assert.Equal(t, domain.AccountTraditionalIRA, msg.Account)
	assert.True(t, msg.Amount.Equal(WithdrawalStep))

	_, cmd = m.Update(keyMsg("0"))
	assert.True(t, cmd().(tuimsg.WithdrawalChangedMsg).Amount.IsZero())

	// the focus survives a refresh of the same scenario
	m.SetScenario(s, domain.DefaultAccountBalances())
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, domain.AccountTraditionalIRA, cmd().(tuimsg.WithdrawalChangedMsg).Account)
}

func TestCompareModel_Selection(t *testing.T) {
	m := NewCompareModel()
	m.SetScenarios(twoScenarios())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "needs two scenarios")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(keyMsg("x"))
	assert.Equal(t, []int{3, 1}, m.Selected(), "the first pick is the base")
	assert.Contains(t, m.View(), "[b] 3. Roth first")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tuimsg.ComparisonStartedMsg{ScenarioIDs: []int{3, 1}}, cmd())
	assert.Contains(t, m.View(), "Comparing")

	m.SetScenarios(twoScenarios()[:1])
	assert.Equal(t, []int{1}, m.Selected(), "removed scenarios drop out")
}

func TestHomeAndResults(t *testing.T) {
	in := domain.DefaultInputs()
	s := domain.NewScenario(1)
	s.Withdrawals.TraditionalIRA = decimal.NewFromInt(40000)
	r := calculation.NewDefaultEvaluator().Evaluate(s, in)

	home := NewHomeModel()
	assert.Contains(t, home.View(), "Loading")
	home.SetData(in, &r, 1, []string{"too much"})
	home.SetStatus("Updated 1 of 2 prices")
	view := home.View()
	assert.Contains(t, view, "Scenario 1")
	assert.Contains(t, view, "! too much")
	assert.Contains(t, view, "Updated 1 of 2 prices")

	res := NewResultsModel()
	assert.Contains(t, res.View(), "No results")
	res.SetResult(&r)
	res.SetSize(120, 40)
	view = res.View()
	assert.Contains(t, view, "Tax Year 2026")
	assert.Contains(t, view, "Bracket fill")
	assert.Contains(t, view, "$40,000")
}
