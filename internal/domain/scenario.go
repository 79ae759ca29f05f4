package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Sale is a proposed sale of part of a holding, referenced by name.
type Sale struct {
	Asset    string          `yaml:"asset" json:"asset"`
	Quantity decimal.Decimal `yaml:"quantity" json:"quantity"`
}

// Scenario is one what-if set of withdrawals and asset sales for the year.
// Each scenario carries at most one sale entry per asset name and class.
type Scenario struct {
	ID          int             `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Withdrawals AccountBalances `yaml:"withdrawals" json:"withdrawals"`
	StockSales  []Sale          `yaml:"stock_sales,omitempty" json:"stockSales"`
	CryptoSales []Sale          `yaml:"crypto_sales,omitempty" json:"cryptoSales"`
	MetalSales  []Sale          `yaml:"metal_sales,omitempty" json:"metalSales"`
}

// NewScenario returns an empty scenario named after its id.
func NewScenario(id int) Scenario {
	return Scenario{
		ID:          id,
		Name:        fmt.Sprintf("Scenario %d", id),
		StockSales:  []Sale{},
		CryptoSales: []Sale{},
		MetalSales:  []Sale{},
	}
}

// Sales returns the sale entries for class c.
func (s Scenario) Sales(c AssetClass) []Sale {
	switch c {
	case ClassStock:
		return s.StockSales
	case ClassCrypto:
		return s.CryptoSales
	case ClassMetal:
		return s.MetalSales
	default:
		return nil
	}
}

func (s *Scenario) salesRef(c AssetClass) *[]Sale {
	switch c {
	case ClassStock:
		return &s.StockSales
	case ClassCrypto:
		return &s.CryptoSales
	case ClassMetal:
		return &s.MetalSales
	default:
		return nil
	}
}

// SaleQuantity returns the quantity planned for asset, zero if none.
func (s Scenario) SaleQuantity(c AssetClass, asset string) decimal.Decimal {
	for _, sale := range s.Sales(c) {
		if sale.Asset == asset {
			return sale.Quantity
		}
	}
	return decimal.Zero
}

// UpsertSale updates the entry naming asset or appends a new one.
func (s *Scenario) UpsertSale(c AssetClass, asset string, qty decimal.Decimal) error {
	asset = strings.TrimSpace(asset)
	if asset == "" {
		return ErrEmptyHoldingName
	}
	ref := s.salesRef(c)
	if ref == nil {
		return fmt.Errorf("unknown asset class %q", c)
	}
	for i := range *ref {
		if (*ref)[i].Asset == asset {
			(*ref)[i].Quantity = qty
			return nil
		}
	}
	*ref = append(*ref, Sale{Asset: asset, Quantity: qty})
	return nil
}

// RemoveSale drops the entry naming asset and reports whether one existed.
func (s *Scenario) RemoveSale(c AssetClass, asset string) bool {
	ref := s.salesRef(c)
	if ref == nil {
		return false
	}
	for i := range *ref {
		if (*ref)[i].Asset == asset {
			*ref = append((*ref)[:i:i], (*ref)[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with the receiver.
func (s Scenario) Clone() Scenario {
	out := s
	out.StockSales = cloneSales(s.StockSales)
	out.CryptoSales = cloneSales(s.CryptoSales)
	out.MetalSales = cloneSales(s.MetalSales)
	return out
}

func cloneSales(in []Sale) []Sale {
	out := make([]Sale, len(in))
	copy(out, in)
	return out
}

// Plan is the YAML document accepted by the command line: inputs plus the
// scenarios to evaluate against them.
type Plan struct {
	TaxYear        int        `yaml:"tax_year,omitempty" json:"taxYear,omitempty"`
	Inputs         `yaml:",inline"`
	Scenarios      []Scenario `yaml:"scenarios" json:"scenarios"`
	ActiveScenario int        `yaml:"active_scenario,omitempty" json:"activeScenario,omitempty"`
}
