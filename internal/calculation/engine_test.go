package calculation

import (
	"fmt"
	"testing"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLogger records debug lines for assertions.
type TestLogger struct {
	lines []string
}

func (l *TestLogger) Debugf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}
func (l *TestLogger) Infof(format string, args ...any)  {}
func (l *TestLogger) Warnf(format string, args ...any)  {}
func (l *TestLogger) Errorf(format string, args ...any) {}

// workedInputs is three months of work at 5000 and a 3000 pension from April.
func workedInputs() domain.Inputs {
	return domain.Inputs{
		PersonalInfo: domain.PersonalInfo{
			Age:               65,
			FilingStatus:      domain.FilingSingle,
			WorkMonths:        3,
			MonthlyWorkIncome: decimal.NewFromInt(5000),
			MonthlyPension:    decimal.NewFromInt(3000),
			PensionStartMonth: 4,
		},
		Accounts: domain.DefaultAccountBalances(),
		Holdings: domain.DefaultHoldings(),
	}
}

func TestNewEvaluator(t *testing.T) {
	e := NewDefaultEvaluator()

	assert.NotNil(t, e.Logger, "Should initialize logger")
	assert.Equal(t, 2026, e.Rules.Year)

	custom := &TestLogger{}
	e.SetLogger(custom)
	assert.Equal(t, custom, e.Logger, "Should set custom logger")

	e.SetLogger(nil)
	assert.IsType(t, NopLogger{}, e.Logger, "Should be no-op logger")
}

func TestPensionMonths(t *testing.T) {
	tests := map[int]int{1: 12, 4: 9, 12: 1, 13: 0, 20: 0, 0: 12, -3: 12}
	for start, want := range tests {
		assert.Equal(t, want, PensionMonths(start), "start month %d", start)
	}
}

func TestEvaluate_EndToEndExample(t *testing.T) {
	e := NewDefaultEvaluator()
	r := e.Evaluate(domain.NewScenario(1), workedInputs())

	assert.True(t, r.EmploymentIncome.Equal(dec("15000")))
	assert.Equal(t, 9, r.PensionMonths)
	assert.True(t, r.PensionIncome.Equal(dec("27000")))
	assert.True(t, r.OrdinaryIncome.Equal(dec("42000")))
	assert.True(t, r.TaxableOrdinaryIncome.Equal(dec("25900")))
	assert.True(t, r.OrdinaryTax.Equal(dec("2860")), "got %s", r.OrdinaryTax)
	assert.True(t, r.PreferentialTax.IsZero())
	assert.True(t, r.StateTax.Equal(dec("1178.45")), "got %s", r.StateTax)
	assert.True(t, r.CombinedTax.Equal(dec("4038.45")))

	assert.True(t, r.TotalWithdrawals.IsZero())
	assert.True(t, r.EffectiveRate.IsZero(), "no withdrawals means a zero rate")
	assert.True(t, r.EffectiveRateWithState.IsZero())

	assert.True(t, r.MarginalRate().Equal(dec("0.12")))
	assert.True(t, r.OrdinaryPlacement.RoomToNext.Equal(dec("24500")))

	assert.True(t, r.MAGI.Equal(dec("42000")))
	assert.Equal(t, "No IRMAA", r.SurchargeTier.Label)
	assert.True(t, r.AnnualSurcharge.IsZero())
	assert.Equal(t, domain.SurchargeSafe, r.SurchargeStatus)
	assert.True(t, r.TotalCost.Equal(r.CombinedTax))

	assert.Equal(t, domain.BindingOrdinary, r.Headroom.Binding)
	assert.True(t, r.Headroom.Limit.Equal(dec("24500")))
}

func TestEvaluate_StockSale(t *testing.T) {
	e := NewDefaultEvaluator()
	s := domain.NewScenario(1)
	require.NoError(t, s.UpsertSale(domain.ClassStock, "Stock 1", decimal.NewFromInt(100)))

	r := e.Evaluate(s, workedInputs())

	assert.True(t, r.Stocks.Proceeds.Equal(dec("7500")))
	assert.True(t, r.Stocks.Gains.Equal(dec("2500")))
	assert.True(t, r.PreferentialIncome.Equal(dec("2500")))
	assert.True(t, r.PreferentialTax.Equal(dec("375")))
	assert.True(t, r.StatePreferentialTax.Equal(dec("113.75")))
	assert.True(t, r.TotalWithdrawals.Equal(dec("7500")))
	assert.True(t, r.EffectiveRate.IsPositive())
	require.Len(t, r.Sales, 1)
	assert.Equal(t, "Stock 1", r.Sales[0].Asset)
	assert.True(t, r.OrdinaryIncome.Equal(dec("42000")), "sales never touch ordinary income")
}

func TestEvaluate_LossesOffsetAcrossClasses(t *testing.T) {
	in := workedInputs()
	require.NoError(t, in.Holdings.Set(domain.ClassCrypto).Add(domain.Holding{
		Name: "BTC", Quantity: dec("2"), CostBasis: dec("60000"), CurrentPrice: dec("40000"),
	}))
	s := domain.NewScenario(1)
	require.NoError(t, s.UpsertSale(domain.ClassStock, "Stock 1", dec("100")))
	require.NoError(t, s.UpsertSale(domain.ClassCrypto, "BTC", dec("1")))

	r := NewDefaultEvaluator().Evaluate(s, in)

	assert.True(t, r.Crypto.Gains.Equal(dec("-20000")), "per-class loss is unclamped")
	assert.True(t, r.PreferentialIncome.Equal(dec("-17500")))
	assert.True(t, r.PreferentialTax.IsZero(), "net losses do not refund")
	assert.True(t, r.StatePreferentialTax.IsZero())
	assert.True(t, r.TotalWithdrawals.Equal(dec("47500")))
}

func TestEvaluate_UnresolvedAndZeroSalesContributeNothing(t *testing.T) {
	logger := &TestLogger{}
	e := NewDefaultEvaluator()
	e.SetLogger(logger)

	s := domain.NewScenario(1)
	require.NoError(t, s.UpsertSale(domain.ClassStock, "Stock 1", decimal.Zero))
	require.NoError(t, s.UpsertSale(domain.ClassStock, "Stock 2", dec("-5")))
	require.NoError(t, s.UpsertSale(domain.ClassMetal, "Gold", dec("10")))

	r := e.Evaluate(s, workedInputs())

	for _, c := range domain.AssetClasses() {
		assert.True(t, r.ClassTotals(c).Proceeds.IsZero(), "%s proceeds", c)
		assert.True(t, r.ClassTotals(c).Gains.IsZero(), "%s gains", c)
	}
	assert.Empty(t, r.Sales)
	assert.Contains(t, fmt.Sprint(logger.lines), `"Gold"`, "unresolved sale is logged at debug")
}

func TestEvaluate_Withdrawals(t *testing.T) {
	s := domain.NewScenario(2)
	s.Withdrawals = domain.AccountBalances{
		Savings:         dec("5000"),
		TraditionalIRA:  dec("20000"),
		RothIRA:         dec("3000"),
		Traditional401k: dec("10000"),
		Roth401k:        dec("2000"),
	}

	r := NewDefaultEvaluator().Evaluate(s, workedInputs())

	assert.True(t, r.TraditionalWithdrawals.Equal(dec("30000")))
	assert.True(t, r.TaxFreeWithdrawals.Equal(dec("10000")))
	assert.True(t, r.OrdinaryIncome.Equal(dec("72000")))
	assert.True(t, r.TotalWithdrawals.Equal(dec("40000")))
	assert.Equal(t, "Scenario 2", r.ScenarioName)
}

func TestEvaluate_JointTables(t *testing.T) {
	in := workedInputs()
	in.PersonalInfo.FilingStatus = domain.FilingJoint

	r := NewDefaultEvaluator().Evaluate(domain.NewScenario(1), in)

	assert.True(t, r.StandardDeduction.Equal(dec("32200")))
	assert.True(t, r.TaxableOrdinaryIncome.Equal(dec("9800")))
	assert.True(t, r.OrdinaryTax.Equal(dec("980")))
	assert.True(t, r.SurchargePlacement.RoomToNext.Equal(dec("176000")))
}

func TestEvaluate_HeadOfHouseholdUsesSingleTables(t *testing.T) {
	in := workedInputs()
	in.PersonalInfo.FilingStatus = domain.FilingHeadOfHousehold

	r := NewDefaultEvaluator().Evaluate(domain.NewScenario(1), in)
	assert.True(t, r.OrdinaryTax.Equal(dec("2860")))
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	e := NewDefaultEvaluator()
	s := domain.NewScenario(1)
	s.Withdrawals.TraditionalIRA = dec("12345.67")
	require.NoError(t, s.UpsertSale(domain.ClassStock, "Stock 2", dec("13")))
	in := workedInputs()

	assert.Equal(t, e.Evaluate(s, in), e.Evaluate(s, in))
}

func TestEvaluate_DoesNotMutateInputs(t *testing.T) {
	in := workedInputs()
	before := in.Clone()
	s := domain.NewScenario(1)
	require.NoError(t, s.UpsertSale(domain.ClassStock, "Stock 1", dec("10")))

	NewDefaultEvaluator().Evaluate(s, in)
	assert.Equal(t, before, in)
}

func TestEvaluateAll(t *testing.T) {
	a := domain.NewScenario(1)
	b := domain.NewScenario(2)
	b.Withdrawals.TraditionalIRA = dec("100000")

	results := NewDefaultEvaluator().EvaluateAll([]domain.Scenario{a, b}, workedInputs())
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].ScenarioID)
	assert.Equal(t, 2, results[1].ScenarioID)
	assert.True(t, results[1].TotalTax.GreaterThan(results[0].TotalTax))
	assert.Equal(t, domain.SurchargeBreach, results[1].SurchargeStatus)
}
