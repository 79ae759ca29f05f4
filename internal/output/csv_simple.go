package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVSummarizer writes one row per scenario.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"ScenarioID", "Scenario", "Active", "TotalWithdrawals", "OrdinaryIncome", "PreferentialIncome",
		"TaxableOrdinaryIncome", "FederalTax", "StateTax", "CombinedTax", "MarginalRate",
		"EffectiveRateWithState", "MAGI", "IRMAATier", "IRMAAAnnual", "TotalCost", "Headroom",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, res := range r.Results {
		row := []string{
			strconv.Itoa(res.ScenarioID),
			res.ScenarioName,
			strconv.FormatBool(res.ScenarioID == r.ActiveID),
			res.TotalWithdrawals.StringFixed(2),
			res.OrdinaryIncome.StringFixed(2),
			res.PreferentialIncome.StringFixed(2),
			res.TaxableOrdinaryIncome.StringFixed(2),
			res.TotalTax.StringFixed(2),
			res.StateTax.StringFixed(2),
			res.CombinedTax.StringFixed(2),
			res.MarginalRate().StringFixed(4),
			res.EffectiveRateWithState.StringFixed(2),
			res.MAGI.StringFixed(2),
			res.SurchargeTier.Label,
			res.AnnualSurcharge.StringFixed(2),
			res.TotalCost.StringFixed(2),
			res.Headroom.Limit.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
