package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxHoldingsPerClass caps the number of holdings tracked per asset class.
const MaxHoldingsPerClass = 12

var (
	ErrDuplicateHolding = errors.New("holding already exists")
	ErrHoldingLimit     = errors.New("holding limit reached")
	ErrHoldingNotFound  = errors.New("holding not found")
	ErrEmptyHoldingName = errors.New("holding name is required")
)

// AssetClass groups holdings whose sales are taxed at the preferential rate.
type AssetClass string

const (
	ClassStock  AssetClass = "stock"
	ClassCrypto AssetClass = "crypto"
	ClassMetal  AssetClass = "metal"
)

var assetClasses = []AssetClass{ClassStock, ClassCrypto, ClassMetal}

// AssetClasses returns the classes in display order.
func AssetClasses() []AssetClass {
	out := make([]AssetClass, len(assetClasses))
	copy(out, assetClasses)
	return out
}

// ParseAssetClass accepts singular and plural names.
func ParseAssetClass(s string) (AssetClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stock", "stocks":
		return ClassStock, nil
	case "crypto", "cryptos", "cryptocurrency":
		return ClassCrypto, nil
	case "metal", "metals", "precious_metals":
		return ClassMetal, nil
	default:
		return "", fmt.Errorf("unknown asset class %q", s)
	}
}

// Label returns the plural display name.
func (c AssetClass) Label() string {
	switch c {
	case ClassStock:
		return "Stocks"
	case ClassCrypto:
		return "Crypto"
	case ClassMetal:
		return "Precious Metals"
	default:
		return string(c)
	}
}

// UnitName is "shares" for stocks and "units" otherwise.
func (c AssetClass) UnitName() string {
	if c == ClassStock {
		return "shares"
	}
	return "units"
}

// Holding is a position in one asset. CostBasis and CurrentPrice are per unit.
type Holding struct {
	Name         string          `yaml:"name" json:"name"`
	Quantity     decimal.Decimal `yaml:"quantity" json:"quantity"`
	CostBasis    decimal.Decimal `yaml:"cost_basis" json:"costBasis"`
	CurrentPrice decimal.Decimal `yaml:"current_price" json:"currentPrice"`
}

// TotalValue is quantity times current price.
func (h Holding) TotalValue() decimal.Decimal {
	return h.Quantity.Mul(h.CurrentPrice)
}

// TotalCost is quantity times cost basis.
func (h Holding) TotalCost() decimal.Decimal {
	return h.Quantity.Mul(h.CostBasis)
}

// TotalGain is the unrealized gain (negative for a loss).
func (h Holding) TotalGain() decimal.Decimal {
	return h.TotalValue().Sub(h.TotalCost())
}

// GainPercent is the unrealized gain relative to cost, 0 when cost is zero.
func (h Holding) GainPercent() decimal.Decimal {
	cost := h.TotalCost()
	if cost.IsZero() {
		return decimal.Zero
	}
	return h.TotalGain().Div(cost).Mul(decimal.NewFromInt(100))
}

// HoldingSet is an ordered list of holdings keyed by name.
type HoldingSet []Holding

func (s HoldingSet) index(name string) int {
	for i, h := range s {
		if h.Name == name {
			return i
		}
	}
	return -1
}

// Find returns the holding with the given name.
func (s HoldingSet) Find(name string) (Holding, bool) {
	if i := s.index(name); i >= 0 {
		return s[i], true
	}
	return Holding{}, false
}

// Names returns the holding names in order.
func (s HoldingSet) Names() []string {
	names := make([]string, len(s))
	for i, h := range s {
		names[i] = h.Name
	}
	return names
}

// TotalValue sums the market value of every holding.
func (s HoldingSet) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, h := range s {
		total = total.Add(h.TotalValue())
	}
	return total
}

// Add appends h. Names must be unique and the set is capped at
// MaxHoldingsPerClass.
func (s *HoldingSet) Add(h Holding) error {
	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" {
		return ErrEmptyHoldingName
	}
	if s.index(h.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateHolding, h.Name)
	}
	if len(*s) >= MaxHoldingsPerClass {
		return fmt.Errorf("%w: at most %d per class", ErrHoldingLimit, MaxHoldingsPerClass)
	}
	*s = append(*s, h)
	return nil
}

// Remove deletes the named holding.
func (s *HoldingSet) Remove(name string) error {
	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrHoldingNotFound, name)
	}
	*s = append((*s)[:i:i], (*s)[i+1:]...)
	return nil
}

// Update applies fn to the named holding in place. A rename that collides
// with another holding is rejected and the holding is left unchanged.
func (s HoldingSet) Update(name string, fn func(*Holding)) error {
	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrHoldingNotFound, name)
	}
	updated := s[i]
	fn(&updated)
	updated.Name = strings.TrimSpace(updated.Name)
	if updated.Name == "" {
		return ErrEmptyHoldingName
	}
	if updated.Name != name && s.index(updated.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateHolding, updated.Name)
	}
	s[i] = updated
	return nil
}

// SetPrice replaces the current price of the named holding.
func (s HoldingSet) SetPrice(name string, price decimal.Decimal) error {
	return s.Update(name, func(h *Holding) { h.CurrentPrice = price })
}

// Clone returns an independent copy.
func (s HoldingSet) Clone() HoldingSet {
	if s == nil {
		return nil
	}
	out := make(HoldingSet, len(s))
	copy(out, s)
	return out
}

// Holdings carries one HoldingSet per asset class.
type Holdings struct {
	Stocks HoldingSet `yaml:"stocks" json:"stocks"`
	Crypto HoldingSet `yaml:"crypto" json:"crypto"`
	Metals HoldingSet `yaml:"metals" json:"metals"`
}

// DefaultHoldings returns the sample stocks of a fresh workspace.
func DefaultHoldings() Holdings {
	return Holdings{
		Stocks: HoldingSet{
			{Name: "Stock 1", Quantity: decimal.NewFromInt(100), CostBasis: decimal.NewFromInt(50), CurrentPrice: decimal.NewFromInt(75)},
			{Name: "Stock 2", Quantity: decimal.NewFromInt(50), CostBasis: decimal.NewFromInt(100), CurrentPrice: decimal.NewFromInt(120)},
		},
		Crypto: HoldingSet{},
		Metals: HoldingSet{},
	}
}

// Class returns the set for c.
func (h Holdings) Class(c AssetClass) HoldingSet {
	switch c {
	case ClassStock:
		return h.Stocks
	case ClassCrypto:
		return h.Crypto
	case ClassMetal:
		return h.Metals
	default:
		return nil
	}
}

// Set returns a pointer to the set for c so callers can add and remove.
func (h *Holdings) Set(c AssetClass) *HoldingSet {
	switch c {
	case ClassStock:
		return &h.Stocks
	case ClassCrypto:
		return &h.Crypto
	case ClassMetal:
		return &h.Metals
	default:
		return nil
	}
}

// Clone returns an independent copy.
func (h Holdings) Clone() Holdings {
	return Holdings{
		Stocks: h.Stocks.Clone(),
		Crypto: h.Crypto.Clone(),
		Metals: h.Metals.Clone(),
	}
}

// Inputs bundles everything a scenario is evaluated against. The evaluator
// only reads it.
type Inputs struct {
	PersonalInfo PersonalInfo    `yaml:"personal_info" json:"personalInfo"`
	Accounts     AccountBalances `yaml:"accounts" json:"accounts"`
	Holdings     Holdings        `yaml:"holdings" json:"holdings"`
}

// DefaultInputs returns the inputs of a fresh workspace.
func DefaultInputs() Inputs {
	return Inputs{
		PersonalInfo: DefaultPersonalInfo(),
		Accounts:     DefaultAccountBalances(),
		Holdings:     DefaultHoldings(),
	}
}

// Clone returns a copy whose holdings do not alias the receiver's.
func (in Inputs) Clone() Inputs {
	out := in
	out.Holdings = in.Holdings.Clone()
	return out
}
