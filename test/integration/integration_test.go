package integration

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/wtp/internal/calculation"
	"github.com/rgehrsitz/wtp/internal/compare"
	"github.com/rgehrsitz/wtp/internal/config"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/output"
	"github.com/rgehrsitz/wtp/internal/sequencing"
	"github.com/rgehrsitz/wtp/internal/state"
)

const planFile = "../../internal/config/testdata/plan.yaml"

func loadPlan(t *testing.T) *domain.Plan {
	t.Helper()
	plan, err := config.NewInputParser().LoadFromFile(planFile)
	require.NoError(t, err)
	return plan
}

func TestPlanToReport(t *testing.T) {
	plan := loadPlan(t)
	ev := calculation.NewDefaultEvaluator()

	results := ev.EvaluateAll(plan.Scenarios, plan.Inputs)
	require.Len(t, results, len(plan.Scenarios))
	for _, r := range results {
		assert.True(t, r.TotalCost.Equal(r.TotalTax.Add(r.StateTax).Add(r.AnnualSurcharge)),
			"%s: cost is federal plus state plus IRMAA", r.ScenarioName)
		assert.False(t, r.MAGI.IsNegative())
	}

	report := output.NewReport(plan.Inputs, results, plan.ActiveScenario, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			data, err := output.GetFormatterByName(name).Format(report)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestCompareRanksScenarios(t *testing.T) {
	plan := loadPlan(t)
	engine := compare.NewCompareEngine(calculation.NewDefaultEvaluator())

	set, err := engine.Compare(context.Background(), plan, compare.CompareOptions{BaseScenarioID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Baseline", set.BaseScenarioName)
	assert.Len(t, set.AlternativeResults, len(plan.Scenarios)-1)
	for _, alt := range set.AlternativeResults {
		assert.True(t, alt.CostDiffFromBase.Equal(alt.TotalCost.Sub(set.BaseResult.TotalCost)))
	}

	csv, err := (&compare.CSVFormatter{}).Format(set)
	require.NoError(t, err)
	assert.Contains(t, csv, "Baseline")
}

func TestFillThenSaveAndReload(t *testing.T) {
	ctx := context.Background()
	plan := loadPlan(t)
	ws, err := state.FromPlan(plan)
	require.NoError(t, err)

	ev := calculation.NewDefaultEvaluator()
	s, ok := ws.Scenarios.Get(1)
	require.True(t, ok)
	filled := sequencing.Fill(ev, sequencing.NewBracketFillStrategy(), s, ws.Snapshot(), decimal.NewFromInt(20000))
	withdrawals := filled.Withdrawals()
	for _, key := range domain.AccountKeys() {
		require.NoError(t, ws.Scenarios.SetWithdrawal(1, key, withdrawals.Get(key)))
	}

	mgr := state.NewManager(state.NewFileKV(t.TempDir()))
	require.NoError(t, mgr.Save(ctx, ws))
	loaded, err := mgr.Load(ctx)
	require.NoError(t, err)

	got, ok := loaded.Scenarios.Get(1)
	require.True(t, ok)
	assert.True(t, got.Withdrawals.Total().Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, ws.Scenarios.ActiveID(), loaded.Scenarios.ActiveID())

	before := ev.Evaluate(s, ws.Snapshot())
	after := ev.Evaluate(got, loaded.Snapshot())
	assert.True(t, after.MAGI.GreaterThanOrEqual(before.MAGI))
}

func TestExportImportKeepsScenarios(t *testing.T) {
	plan := loadPlan(t)
	ws, err := state.FromPlan(plan)
	require.NoError(t, err)
	ws.APIKey = "secret"

	var buf bytes.Buffer
	require.NoError(t, state.Export(&buf, ws, false, time.Now()))
	assert.NotContains(t, buf.String(), "secret")

	imported, err := state.Import(&buf, state.Defaults())
	require.NoError(t, err)
	assert.Equal(t, len(plan.Scenarios), imported.Scenarios.Len())
	assert.Empty(t, imported.APIKey)
}
