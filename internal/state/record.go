package state

import (
	"strings"
	"time"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
)

// Record is the persisted and exported document. Field names match the
// browser planner's saved data so files move freely between the two.
type Record struct {
	PersonalInfo     *personalRecord  `json:"personalInfo,omitempty"`
	Accounts         *balancesRecord  `json:"accounts,omitempty"`
	Stocks           []stockRecord    `json:"stocks"`
	Crypto           []unitRecord     `json:"crypto"`
	Metals           []unitRecord     `json:"metals"`
	Scenarios        []scenarioRecord `json:"scenarios,omitempty"`
	ActiveScenarioID int              `json:"activeScenarioId,omitempty"`
	ScenarioCounter  int              `json:"scenarioCounter,omitempty"`
	APIKey           string           `json:"apiKey,omitempty"`
	SavedAt          *time.Time       `json:"savedAt,omitempty"`
	ExportedAt       *time.Time       `json:"exportedAt,omitempty"`

	// Single-scenario layout written before scenarios existed.
	Withdrawals      *balancesRecord    `json:"withdrawals,omitempty"`
	StockWithdrawals []stockSaleRecord  `json:"stockWithdrawals,omitempty"`
	CryptoSales      []cryptoSaleRecord `json:"cryptoSales,omitempty"`
	MetalSales       []metalSaleRecord  `json:"metalSales,omitempty"`
}

// amount is a decimal written as a bare JSON number, the form the browser
// planner reads and writes. Quoted numbers from older files still decode.
type amount decimal.Decimal

func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).String()), nil
}

func (a *amount) UnmarshalJSON(data []byte) error {
	return (*decimal.Decimal)(a).UnmarshalJSON(data)
}

func (a amount) dec() decimal.Decimal { return decimal.Decimal(a) }

// Age and months are whole numbers in the browser planner; a fractional
// value from a hand-edited file is truncated on load.
type personalRecord struct {
	Age                amount              `json:"age"`
	FilingStatus       domain.FilingStatus `json:"filingStatus"`
	WorkMonths         amount              `json:"workMonths"`
	MonthlyWorkIncome  amount              `json:"monthlyWorkIncome"`
	MonthlyPension     amount              `json:"monthlyPension"`
	PensionStartMonth  amount              `json:"pensionStartMonth"`
	InterestIncome     amount              `json:"interestIncome"`
	QualifiedDividends amount              `json:"qualifiedDividends"`
	OrdinaryDividends  amount              `json:"ordinaryDividends"`
}

type balancesRecord struct {
	Savings         amount `json:"savings"`
	TraditionalIRA  amount `json:"traditionalIRA"`
	RothIRA         amount `json:"rothIRA"`
	Traditional401k amount `json:"traditional401k"`
	Roth401k        amount `json:"roth401k"`
}

type stockRecord struct {
	Name         string `json:"name"`
	Shares       amount `json:"shares"`
	CostBasis    amount `json:"costBasis"`
	CurrentPrice amount `json:"currentPrice"`
}

type unitRecord struct {
	Name         string `json:"name"`
	Units        amount `json:"units"`
	CostBasis    amount `json:"costBasis"`
	CurrentPrice amount `json:"currentPrice"`
}

type stockSaleRecord struct {
	StockName    string `json:"stockName"`
	SharesToSell amount `json:"sharesToSell"`
}

type cryptoSaleRecord struct {
	CryptoName  string `json:"cryptoName"`
	UnitsToSell amount `json:"unitsToSell"`
}

type metalSaleRecord struct {
	MetalName   string `json:"metalName"`
	UnitsToSell amount `json:"unitsToSell"`
}

type scenarioRecord struct {
	ID               int                `json:"id"`
	Name             string             `json:"name"`
	Withdrawals      balancesRecord     `json:"withdrawals"`
	StockWithdrawals []stockSaleRecord  `json:"stockWithdrawals"`
	CryptoSales      []cryptoSaleRecord `json:"cryptoSales"`
	MetalSales       []metalSaleRecord  `json:"metalSales"`
}

func fromPersonal(p domain.PersonalInfo) *personalRecord {
	return &personalRecord{
		Age:                count(p.Age),
		FilingStatus:       p.FilingStatus,
		WorkMonths:         count(p.WorkMonths),
		MonthlyWorkIncome:  amount(p.MonthlyWorkIncome),
		MonthlyPension:     amount(p.MonthlyPension),
		PensionStartMonth:  count(p.PensionStartMonth),
		InterestIncome:     amount(p.InterestIncome),
		QualifiedDividends: amount(p.QualifiedDividends),
		OrdinaryDividends:  amount(p.OrdinaryDividends),
	}
}

func (r personalRecord) toDomain() domain.PersonalInfo {
	status := r.FilingStatus
	if status == "" {
		status = domain.FilingSingle
	}
	return domain.PersonalInfo{
		Age:                int(r.Age.dec().IntPart()),
		FilingStatus:       status,
		WorkMonths:         int(r.WorkMonths.dec().IntPart()),
		MonthlyWorkIncome:  r.MonthlyWorkIncome.dec(),
		MonthlyPension:     r.MonthlyPension.dec(),
		PensionStartMonth:  int(r.PensionStartMonth.dec().IntPart()),
		InterestIncome:     r.InterestIncome.dec(),
		QualifiedDividends: r.QualifiedDividends.dec(),
		OrdinaryDividends:  r.OrdinaryDividends.dec(),
	}
}

func count(n int) amount { return amount(decimal.NewFromInt(int64(n))) }

func fromBalances(b domain.AccountBalances) balancesRecord {
	return balancesRecord{
		Savings:         amount(b.Savings),
		TraditionalIRA:  amount(b.TraditionalIRA),
		RothIRA:         amount(b.RothIRA),
		Traditional401k: amount(b.Traditional401k),
		Roth401k:        amount(b.Roth401k),
	}
}

func (r balancesRecord) toDomain() domain.AccountBalances {
	return domain.AccountBalances{
		Savings:         r.Savings.dec(),
		TraditionalIRA:  r.TraditionalIRA.dec(),
		RothIRA:         r.RothIRA.dec(),
		Traditional401k: r.Traditional401k.dec(),
		Roth401k:        r.Roth401k.dec(),
	}
}

func fromStocks(set domain.HoldingSet) []stockRecord {
	out := make([]stockRecord, 0, len(set))
	for _, h := range set {
		out = append(out, stockRecord{Name: h.Name, Shares: amount(h.Quantity), CostBasis: amount(h.CostBasis), CurrentPrice: amount(h.CurrentPrice)})
	}
	return out
}

// Holding names are trimmed on load the same way sale references are, so a
// name typed with stray spaces still resolves.
func toStocks(in []stockRecord) domain.HoldingSet {
	out := make(domain.HoldingSet, 0, len(in))
	for _, r := range in {
		out = append(out, domain.Holding{Name: strings.TrimSpace(r.Name), Quantity: r.Shares.dec(), CostBasis: r.CostBasis.dec(), CurrentPrice: r.CurrentPrice.dec()})
	}
	return out
}

func fromUnits(set domain.HoldingSet) []unitRecord {
	out := make([]unitRecord, 0, len(set))
	for _, h := range set {
		out = append(out, unitRecord{Name: h.Name, Units: amount(h.Quantity), CostBasis: amount(h.CostBasis), CurrentPrice: amount(h.CurrentPrice)})
	}
	return out
}

func toUnits(in []unitRecord) domain.HoldingSet {
	out := make(domain.HoldingSet, 0, len(in))
	for _, r := range in {
		out = append(out, domain.Holding{Name: strings.TrimSpace(r.Name), Quantity: r.Units.dec(), CostBasis: r.CostBasis.dec(), CurrentPrice: r.CurrentPrice.dec()})
	}
	return out
}

func fromScenario(s domain.Scenario) scenarioRecord {
	r := scenarioRecord{
		ID:               s.ID,
		Name:             s.Name,
		Withdrawals:      fromBalances(s.Withdrawals),
		StockWithdrawals: make([]stockSaleRecord, 0, len(s.StockSales)),
		CryptoSales:      make([]cryptoSaleRecord, 0, len(s.CryptoSales)),
		MetalSales:       make([]metalSaleRecord, 0, len(s.MetalSales)),
	}
	for _, sale := range s.StockSales {
		r.StockWithdrawals = append(r.StockWithdrawals, stockSaleRecord{StockName: sale.Asset, SharesToSell: amount(sale.Quantity)})
	}
	for _, sale := range s.CryptoSales {
		r.CryptoSales = append(r.CryptoSales, cryptoSaleRecord{CryptoName: sale.Asset, UnitsToSell: amount(sale.Quantity)})
	}
	for _, sale := range s.MetalSales {
		r.MetalSales = append(r.MetalSales, metalSaleRecord{MetalName: sale.Asset, UnitsToSell: amount(sale.Quantity)})
	}
	return r
}

// toDomain converts a saved scenario. Repeated entries for one asset collapse
// into the last one so the one-sale-per-asset rule holds after loading.
func (r scenarioRecord) toDomain() domain.Scenario {
	s := domain.NewScenario(r.ID)
	if r.Name != "" {
		s.Name = r.Name
	}
	s.Withdrawals = r.Withdrawals.toDomain()
	addSales(&s, r.StockWithdrawals, r.CryptoSales, r.MetalSales)
	return s
}

func addSales(s *domain.Scenario, stocks []stockSaleRecord, crypto []cryptoSaleRecord, metals []metalSaleRecord) {
	for _, sale := range stocks {
		_ = s.UpsertSale(domain.ClassStock, sale.StockName, sale.SharesToSell.dec())
	}
	for _, sale := range crypto {
		_ = s.UpsertSale(domain.ClassCrypto, sale.CryptoName, sale.UnitsToSell.dec())
	}
	for _, sale := range metals {
		_ = s.UpsertSale(domain.ClassMetal, sale.MetalName, sale.UnitsToSell.dec())
	}
}
