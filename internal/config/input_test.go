package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile_ExamplePlan(t *testing.T) {
	plan, err := NewInputParser().LoadFromFile(filepath.Join("testdata", "plan.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 2026, plan.TaxYear)
	assert.Equal(t, domain.FilingSingle, plan.PersonalInfo.FilingStatus)
	assert.Equal(t, 4, plan.PersonalInfo.PensionStartMonth)
	assert.True(t, plan.Accounts.Traditional401k.Equal(decimal.NewFromInt(400000)))

	btc, ok := plan.Holdings.Crypto.Find("BTC")
	require.True(t, ok)
	assert.True(t, btc.Quantity.Equal(decimal.RequireFromString("0.5")))

	require.Len(t, plan.Scenarios, 3)
	for i, s := range plan.Scenarios {
		assert.Equal(t, i+1, s.ID, "ids are assigned in order")
	}
	assert.Equal(t, "Fill the 12% bracket", plan.Scenarios[1].Name)
	assert.True(t, plan.Scenarios[1].Withdrawals.TraditionalIRA.Equal(decimal.NewFromInt(24500)))
	assert.True(t, plan.Scenarios[2].SaleQuantity(domain.ClassStock, "VTI").Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 2, plan.ActiveScenario)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := NewInputParser().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Defaults(t *testing.T) {
	plan, err := NewInputParser().Parse([]byte("personal_info:\n  work_months: 2\n  monthly_work_income: 4000\n"))
	require.NoError(t, err)

	assert.Equal(t, domain.FilingSingle, plan.PersonalInfo.FilingStatus)
	require.Len(t, plan.Scenarios, 1, "a plan without scenarios gets one empty scenario")
	assert.Equal(t, "Scenario 1", plan.Scenarios[0].Name)
	assert.Equal(t, 1, plan.ActiveScenario)
}

func TestParse_LegacyFilingStatus(t *testing.T) {
	plan, err := NewInputParser().Parse([]byte("personal_info:\n  filing_status: married\n"))
	require.NoError(t, err)
	assert.Equal(t, domain.FilingJoint, plan.PersonalInfo.FilingStatus)
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "bad filing status",
			yaml: "personal_info:\n  filing_status: widowed\n",
			want: "unknown filing status",
		},
		{
			name: "work months out of range",
			yaml: "personal_info:\n  work_months: 13\n",
			want: "work_months",
		},
		{
			name: "pension without start month",
			yaml: "personal_info:\n  monthly_pension: 1000\n",
			want: "pension_start_month is required",
		},
		{
			name: "negative balance",
			yaml: "accounts:\n  roth_ira: -5\n",
			want: "rothIRA cannot be negative",
		},
		{
			name: "duplicate holding",
			yaml: "holdings:\n  stocks:\n    - name: A\n    - name: A\n",
			want: "duplicate holding",
		},
		{
			name: "duplicate sale",
			yaml: "scenarios:\n  - stock_sales:\n      - asset: A\n        quantity: 1\n      - asset: A\n        quantity: 2\n",
			want: "more than one stock sale",
		},
		{
			name: "too many scenarios",
			yaml: "scenarios:\n  - name: a\n  - name: b\n  - name: c\n  - name: d\n  - name: e\n  - name: f\n",
			want: "at most 5 scenarios",
		},
		{
			name: "duplicate scenario id",
			yaml: "scenarios:\n  - id: 2\n  - id: 2\n",
			want: "duplicate id",
		},
		{
			name: "unknown active scenario",
			yaml: "scenarios:\n  - name: a\nactive_scenario: 9\n",
			want: "active_scenario 9",
		},
		{
			name: "malformed yaml",
			yaml: "personal_info: [",
			want: "failed to parse YAML",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputParser().Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := map[string]string{
		"1234.56":    "1234.56",
		"$1,234.56":  "1234.56",
		" 20 000 ":   "20000",
		"":           "0",
		"abc":        "0",
		"12abc":      "0",
		"-50":        "-50",
		"1_000_000":  "1000000",
		"$ 3,000.10": "3000.1",
	}
	for in, want := range tests {
		assert.True(t, ParseAmount(in).Equal(decimal.RequireFromString(want)), "ParseAmount(%q)", in)
	}

	assert.True(t, ParseNonNegative("-50").IsZero())
	assert.Equal(t, 4, ParseCount("4"))
	assert.Equal(t, 3, ParseCount("3.9"))
	assert.Equal(t, 0, ParseCount("soon"))
}
