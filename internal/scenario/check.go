package scenario

import (
	"fmt"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
)

// Warning flags a planned withdrawal or sale that exceeds what is available.
// Warnings are advisory; evaluation still uses the requested amounts.
type Warning struct {
	ScenarioID int
	Subject    string
	Requested  decimal.Decimal
	Available  decimal.Decimal
}

func (w Warning) String() string {
	return fmt.Sprintf("scenario %d: %s requests %s but only %s is available",
		w.ScenarioID, w.Subject, w.Requested.StringFixed(2), w.Available.StringFixed(2))
}

// Check compares every scenario against the account balances and holdings.
func (c *Collection) Check(accounts domain.AccountBalances, holdings domain.Holdings) []Warning {
	var warnings []Warning
	for _, s := range c.scenarios {
		for _, key := range domain.AccountKeys() {
			want, have := s.Withdrawals.Get(key), accounts.Get(key)
			if want.GreaterThan(have) {
				warnings = append(warnings, Warning{ScenarioID: s.ID, Subject: key.Label(), Requested: want, Available: have})
			}
		}
		for _, class := range domain.AssetClasses() {
			set := holdings.Class(class)
			for _, sale := range s.Sales(class) {
				h, ok := set.Find(sale.Asset)
				if ok && sale.Quantity.GreaterThan(h.Quantity) {
					warnings = append(warnings, Warning{
						ScenarioID: s.ID,
						Subject:    fmt.Sprintf("%s %s", sale.Asset, class.UnitName()),
						Requested:  sale.Quantity,
						Available:  h.Quantity,
					})
				}
			}
		}
	}
	return warnings
}
