package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/wtp/internal/compare"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/quote"
	"github.com/rgehrsitz/wtp/internal/scenario"
	"github.com/rgehrsitz/wtp/internal/secret"
	"github.com/rgehrsitz/wtp/internal/state"
)

// resetFlags puts every flag back to its default; the command tree is
// package level and keeps values between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append([]string{"--state-dir", dir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := execute(t, dir, args...)
	require.NoError(t, err, out)
	return out
}

func loadSaved(t *testing.T, dir string) *state.Workspace {
	t.Helper()
	ws, err := state.NewManager(state.NewFileKV(dir)).Load(context.Background())
	require.NoError(t, err)
	return ws
}

const testPlan = `tax_year: 2026
personal_info:
  age: 66
  filing_status: single
  monthly_pension: 3000
  pension_start_month: 1
accounts:
  savings: 10000
  traditional_ira: 300000
holdings:
  stocks:
    - name: VTI
      quantity: 100
      cost_basis: 50
      current_price: 75
scenarios:
  - name: Baseline
  - name: Fill the 12% bracket
    withdrawals:
      traditional_ira: 24500
  - name: Too much savings
    withdrawals:
      savings: 20000
active_scenario: 2
`

func writePlan(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testPlan), 0o600))
	return path
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "wtp", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)

	out := mustExecute(t, t.TempDir(), "--help")
	assert.Contains(t, out, "scenario")
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{
		"calculate", "compare", "validate", "inputs", "scenario", "holding",
		"prices", "apikey", "export", "import", "reset", "version",
	}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "command %q not registered", name)
	}
}

func TestInvalidCommand(t *testing.T) {
	_, err := execute(t, t.TempDir(), "optimize")
	assert.Error(t, err)
}

func TestCalculate(t *testing.T) {
	plan := writePlan(t)

	tests := []struct {
		name   string
		args   []string
		want   []string
		errMsg string
	}{
		{
			name: "json from plan file",
			args: []string{"calculate", plan, "--format", "json"},
			want: []string{`"scenarioName"`, "Fill the 12% bracket", "Too much savings"},
		},
		{
			name: "csv from plan file",
			args: []string{"calculate", plan, "-f", "csv"},
			want: []string{"Baseline"},
		},
		{
			name: "saved workspace by default",
			args: []string{"calculate", "--format", "json"},
			want: []string{"Scenario 1"},
		},
		{
			name:   "unknown format",
			args:   []string{"calculate", plan, "--format", "pdf"},
			errMsg: `unknown output format "pdf"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, t.TempDir(), tt.args...)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err, out)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	plan := writePlan(t)
	dir := t.TempDir()

	out := mustExecute(t, dir, "compare", plan)
	assert.Contains(t, out, "SCENARIO COMPARISON")
	assert.Contains(t, out, "Base Scenario: Fill the 12% bracket", "the active scenario is the default base")

	out = mustExecute(t, dir, "compare", plan, "--base", "1", "--with", "3", "--format", "csv")
	assert.Contains(t, out, "Too much savings")
	assert.NotContains(t, out, "Fill the 12% bracket")

	out = mustExecute(t, dir, "compare", plan, "--format", "markdown")
	assert.Contains(t, out, "Baseline")

	_, err := execute(t, dir, "compare", plan, "--base", "9")
	assert.ErrorIs(t, err, compare.ErrScenarioNotFound)
}

func TestValidate(t *testing.T) {
	plan := writePlan(t)
	out := mustExecute(t, t.TempDir(), "validate", plan)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "Warning: scenario 3: Savings requests 20000.00 but only 10000.00 is available")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("personal_info:\n  filing_status: widowed\n"), 0o600))
	_, err := execute(t, t.TempDir(), "validate", bad)
	assert.Error(t, err)
}

func TestScenarioCommands(t *testing.T) {
	dir := t.TempDir()

	out := mustExecute(t, dir, "scenario", "add", "--name", "Roth first")
	assert.Contains(t, out, "Added scenario 2 (Roth first)")

	mustExecute(t, dir, "scenario", "withdraw", "2", "roth_ira", "$20,000")
	out = mustExecute(t, dir, "scenario", "list")
	assert.Contains(t, out, "* 2. Roth first")
	assert.Contains(t, out, "Roth IRA")
	assert.Contains(t, out, "$20,000.00")

	mustExecute(t, dir, "scenario", "rename", "1", "Baseline")
	mustExecute(t, dir, "scenario", "activate", "1")
	ws := loadSaved(t, dir)
	assert.Equal(t, 1, ws.Scenarios.ActiveID())
	s, ok := ws.Scenarios.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Baseline", s.Name)

	mustExecute(t, dir, "scenario", "remove", "1")
	_, err := execute(t, dir, "scenario", "remove", "2")
	assert.ErrorIs(t, err, scenario.ErrLastScenario)

	_, err = execute(t, dir, "scenario", "withdraw", "2", "hsa", "100")
	assert.Error(t, err)
	_, err = execute(t, dir, "scenario", "activate", "abc")
	assert.Error(t, err)

	ws = loadSaved(t, dir)
	assert.Equal(t, 1, ws.Scenarios.Len())
	assert.Equal(t, 2, ws.Scenarios.ActiveID())
}

func TestScenarioCapacity(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i < scenario.MaxScenarios; i++ {
		mustExecute(t, dir, "scenario", "add")
	}
	_, err := execute(t, dir, "scenario", "add")
	assert.ErrorIs(t, err, scenario.ErrCapacity)
}

func TestScenarioFill(t *testing.T) {
	dir := t.TempDir()
	mustExecute(t, dir, "scenario", "withdraw", "1", "roth_401k", "1000")

	out := mustExecute(t, dir, "scenario", "fill", "1", "70,000", "--strategy", "tax_efficient")
	assert.Contains(t, out, "$70,000.00 sourced with tax_efficient")

	w := loadSaved(t, dir).Scenarios.Active().Withdrawals
	assert.True(t, w.Savings.Equal(decimal.NewFromInt(50000)))
	assert.True(t, w.RothIRA.Equal(decimal.NewFromInt(20000)))
	assert.True(t, w.Roth401k.IsZero(), "earlier withdrawals are replaced")

	mustExecute(t, dir, "scenario", "fill", "1", "5000", "--strategy", "custom", "--order", "roth_401k")
	assert.True(t, loadSaved(t, dir).Scenarios.Active().Withdrawals.Roth401k.Equal(decimal.NewFromInt(5000)))

	_, err := execute(t, dir, "scenario", "fill", "1", "5000", "--strategy", "yolo")
	assert.Error(t, err)
	_, err = execute(t, dir, "scenario", "fill", "7", "5000")
	assert.ErrorIs(t, err, scenario.ErrNotFound)
}

func TestHoldingCommands(t *testing.T) {
	dir := t.TempDir()

	mustExecute(t, dir, "holding", "add", "stock", "VTI", "10", "200", "240")
	mustExecute(t, dir, "scenario", "sell", "1", "stock", "VTI", "5")
	out := mustExecute(t, dir, "scenario", "sell", "1", "crypto", "DOGE", "5")
	assert.Contains(t, out, `no crypto holding named "DOGE"`)

	mustExecute(t, dir, "holding", "set", "stock", "VTI", "--name", "VXUS", "--price", "250")
	ws := loadSaved(t, dir)
	h, ok := ws.Inputs.Holdings.Stocks.Find("VXUS")
	require.True(t, ok)
	assert.True(t, h.CurrentPrice.Equal(decimal.NewFromInt(250)))
	assert.True(t, ws.Scenarios.Active().SaleQuantity(domain.ClassStock, "VXUS").Equal(decimal.NewFromInt(5)), "the sale follows the rename")

	out = mustExecute(t, dir, "holding", "list", "stocks")
	assert.Contains(t, out, "VXUS")
	assert.Contains(t, out, "$2,500.00")

	_, err := execute(t, dir, "holding", "add", "stock", "VXUS", "1", "1", "1")
	assert.ErrorIs(t, err, domain.ErrDuplicateHolding)

	mustExecute(t, dir, "holding", "remove", "stock", "VXUS")
	ws = loadSaved(t, dir)
	assert.Empty(t, ws.Scenarios.Active().Sales(domain.ClassStock), "removing a holding prunes its sales")
}

func TestInputsSet(t *testing.T) {
	dir := t.TempDir()

	out := mustExecute(t, dir, "inputs", "set", "--age", "67", "--filing-status", "mfj", "--pension", "2,500", "--account", "savings=40000")
	assert.Contains(t, out, "Married Filing Jointly")

	ws := loadSaved(t, dir)
	assert.Equal(t, 67, ws.Inputs.PersonalInfo.Age)
	assert.Equal(t, domain.FilingJoint, ws.Inputs.PersonalInfo.FilingStatus)
	assert.True(t, ws.Inputs.PersonalInfo.MonthlyPension.Equal(decimal.NewFromInt(2500)))
	assert.True(t, ws.Inputs.Accounts.Savings.Equal(decimal.NewFromInt(40000)))

	_, err := execute(t, dir, "inputs", "set", "--pension-start", "14")
	assert.Error(t, err, "validation rejects the change")
	assert.Equal(t, loadSaved(t, dir).Inputs.PersonalInfo.PensionStartMonth, ws.Inputs.PersonalInfo.PensionStartMonth)
}

type staticSource map[string]string

func (s staticSource) Lookup(_ context.Context, symbol string) (decimal.Decimal, string, error) {
	p, ok := s[symbol]
	if !ok {
		return decimal.Zero, "", quote.ErrUnavailable
	}
	return decimal.RequireFromString(p), "static", nil
}

func TestPricesRefresh(t *testing.T) {
	var gotKey string
	orig := newPriceSource
	newPriceSource = func(apiKey string) quote.PriceSource {
		gotKey = apiKey
		return staticSource{"VTI": "251.234"}
	}
	t.Cleanup(func() { newPriceSource = orig })

	dir := t.TempDir()
	mustExecute(t, dir, "holding", "add", "stock", "VTI", "10", "200", "240")
	mustExecute(t, dir, "holding", "add", "stock", "QQQQQQ", "1", "1", "1")
	mustExecute(t, dir, "holding", "add", "stock", "IAU", "1", "1", "1")

	out := mustExecute(t, dir, "prices", "refresh", "--delay", "0s", "--api-key", "demo")
	assert.Contains(t, out, "Updated 1 of 2 prices")
	assert.Contains(t, out, "251.23")
	assert.Equal(t, "demo", gotKey)

	h, ok := loadSaved(t, dir).Inputs.Holdings.Stocks.Find("VTI")
	require.True(t, ok)
	assert.True(t, h.CurrentPrice.Equal(decimal.RequireFromString("251.23")))
}

func TestAPIKeyLifecycle(t *testing.T) {
	dir := t.TempDir()

	t.Setenv(secret.PassphraseEnv, "")
	_, err := execute(t, dir, "apikey", "set", "ABC123")
	assert.ErrorIs(t, err, secret.ErrEmptyPassphrase)

	t.Setenv(secret.PassphraseEnv, "correct horse")
	mustExecute(t, dir, "apikey", "set", "ABC123")
	assert.Contains(t, mustExecute(t, dir, "apikey", "status"), "unlocked")

	// the key never reaches the planner data or a default export
	mustExecute(t, dir, "scenario", "add")
	data, err := os.ReadFile(filepath.Join(dir, state.StorageKey+".json"))
	if err == nil {
		assert.NotContains(t, string(data), "ABC123")
	}
	assert.NotContains(t, mustExecute(t, dir, "export", "-"), "ABC123")
	assert.Contains(t, mustExecute(t, dir, "export", "-", "--include-api-key"), `"apiKey": "ABC123"`)

	mustExecute(t, dir, "apikey", "clear")
	assert.Contains(t, mustExecute(t, dir, "apikey", "status"), "No API key stored")
}

func TestExportImport(t *testing.T) {
	src := t.TempDir()
	mustExecute(t, src, "scenario", "add", "--name", "Exported")
	file := filepath.Join(t.TempDir(), "plan.json")
	out := mustExecute(t, src, "export", file)
	assert.Contains(t, out, "Exported to "+file)

	dst := t.TempDir()
	out = mustExecute(t, dst, "import", file)
	assert.Contains(t, out, "Imported 2 scenarios")
	s, ok := loadSaved(t, dst).Scenarios.Get(2)
	require.True(t, ok)
	assert.Equal(t, "Exported", s.Name)

	legacy := filepath.Join(t.TempDir(), "legacy.json")
	require.NoError(t, os.WriteFile(legacy, []byte(`{"withdrawals":{"rothIRA":"5000"},"apiKey":"LEAKED"}`), 0o600))
	out = mustExecute(t, dst, "import", legacy)
	assert.Contains(t, out, "Imported 1 scenarios")
	assert.Contains(t, out, "carries an API key")
	ws := loadSaved(t, dst)
	assert.Empty(t, ws.APIKey)
	assert.True(t, ws.Scenarios.Active().Withdrawals.RothIRA.Equal(decimal.NewFromInt(5000)))

	_, err := execute(t, dst, "import", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReset(t *testing.T) {
	dir := t.TempDir()
	mustExecute(t, dir, "scenario", "add")

	_, err := execute(t, dir, "reset")
	assert.Error(t, err, "needs --yes")
	assert.Equal(t, 2, loadSaved(t, dir).Scenarios.Len())

	mustExecute(t, dir, "reset", "--yes")
	assert.Equal(t, 1, loadSaved(t, dir).Scenarios.Len())
}

func TestVersion(t *testing.T) {
	out := mustExecute(t, t.TempDir(), "version")
	assert.Contains(t, out, "wtp dev")
}
