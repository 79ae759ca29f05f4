package scenario

import (
	"testing"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c := New()
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.ActiveID())
	assert.Equal(t, 1, c.Counter())
	assert.Equal(t, "Scenario 1", c.Active().Name)
}

func TestAdd_CapacityAndIDs(t *testing.T) {
	c := New()
	for i := 2; i <= MaxScenarios; i++ {
		s, err := c.Add()
		require.NoError(t, err)
		assert.Equal(t, i, s.ID)
		assert.Equal(t, i, c.ActiveID(), "new scenario becomes active")
	}

	_, err := c.Add()
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, MaxScenarios, c.Len())
	assert.Equal(t, MaxScenarios, c.Counter(), "rejected add does not consume an id")
}

func TestRemove(t *testing.T) {
	t.Run("only scenario is kept", func(t *testing.T) {
		c := New()
		assert.ErrorIs(t, c.Remove(1), ErrLastScenario)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("active falls back to first remaining", func(t *testing.T) {
		c := New()
		_, _ = c.Add()
		_, _ = c.Add()
		require.NoError(t, c.SetActive(2))

		require.NoError(t, c.Remove(2))
		assert.Equal(t, 1, c.ActiveID())

		require.NoError(t, c.Remove(1))
		assert.Equal(t, 3, c.ActiveID())
	})

	t.Run("ids are never reused", func(t *testing.T) {
		c := New()
		_, _ = c.Add()
		require.NoError(t, c.Remove(2))
		s, err := c.Add()
		require.NoError(t, err)
		assert.Equal(t, 3, s.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		c := New()
		_, _ = c.Add()
		assert.ErrorIs(t, c.Remove(42), ErrNotFound)
		assert.Equal(t, 2, c.Len())
	})
}

func TestSetActiveAndRename(t *testing.T) {
	c := New()
	_, _ = c.Add()

	assert.ErrorIs(t, c.SetActive(9), ErrNotFound)
	assert.Equal(t, 2, c.ActiveID(), "failed switch keeps the active scenario")

	require.NoError(t, c.Rename(1, "Fill the 12% bracket"))
	s, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Fill the 12% bracket", s.Name)
	assert.ErrorIs(t, c.Rename(7, "x"), ErrNotFound)
}

func TestSetWithdrawal(t *testing.T) {
	c := New()
	require.NoError(t, c.SetWithdrawal(1, domain.AccountTraditionalIRA, decimal.NewFromInt(20000)))
	assert.True(t, c.Active().Withdrawals.TraditionalIRA.Equal(decimal.NewFromInt(20000)))

	assert.ErrorIs(t, c.SetWithdrawal(1, domain.AccountRothIRA, decimal.NewFromInt(-1)), ErrNegativeAmount)
	assert.ErrorIs(t, c.SetWithdrawal(5, domain.AccountRothIRA, decimal.NewFromInt(1)), ErrNotFound)
	assert.Error(t, c.SetWithdrawal(1, domain.AccountKey("hsa"), decimal.NewFromInt(1)))
}

func TestSales(t *testing.T) {
	c := New()
	_, _ = c.Add()

	require.NoError(t, c.UpsertSale(1, domain.ClassStock, "Stock 1", decimal.NewFromInt(10)))
	require.NoError(t, c.UpsertSale(1, domain.ClassStock, "Stock 1", decimal.NewFromInt(30)))
	require.NoError(t, c.UpsertSale(2, domain.ClassStock, "Stock 1", decimal.NewFromInt(5)))

	s, _ := c.Get(1)
	require.Len(t, s.StockSales, 1, "upsert keeps one entry per asset")
	assert.True(t, s.StockSales[0].Quantity.Equal(decimal.NewFromInt(30)))

	assert.ErrorIs(t, c.UpsertSale(1, domain.ClassStock, "Stock 1", decimal.NewFromInt(-3)), ErrNegativeAmount)

	assert.Equal(t, 2, c.PruneAsset(domain.ClassStock, "Stock 1"))
	for _, s := range c.List() {
		assert.Empty(t, s.StockSales)
	}

	require.NoError(t, c.UpsertSale(1, domain.ClassMetal, "Gold", decimal.NewFromInt(2)))
	c.RenameAsset(domain.ClassMetal, "Gold", "Gold Eagle")
	s, _ = c.Get(1)
	assert.True(t, s.SaleQuantity(domain.ClassMetal, "Gold Eagle").Equal(decimal.NewFromInt(2)))

	require.NoError(t, c.RemoveSale(1, domain.ClassMetal, "Gold Eagle"))
	s, _ = c.Get(1)
	assert.Empty(t, s.MetalSales)
}

func TestRenameAsset_DropsStaleTarget(t *testing.T) {
	c := New()
	_, err := c.Add()
	require.NoError(t, err)

	require.NoError(t, c.UpsertSale(1, domain.ClassStock, "VTI", decimal.NewFromInt(5)))
	require.NoError(t, c.UpsertSale(1, domain.ClassStock, "VOO", decimal.NewFromInt(99)))
	require.NoError(t, c.UpsertSale(2, domain.ClassStock, "VOO", decimal.NewFromInt(7)))

	assert.Equal(t, 2, c.RenameAsset(domain.ClassStock, "VTI", "VOO"))

	s, _ := c.Get(1)
	require.Len(t, s.StockSales, 1)
	assert.Equal(t, "VOO", s.StockSales[0].Asset)
	assert.True(t, s.StockSales[0].Quantity.Equal(decimal.NewFromInt(5)), "quantity comes from the renamed holding's entry")

	s, _ = c.Get(2)
	assert.Empty(t, s.StockSales, "a stale entry is not revived by the rename")

	assert.Zero(t, c.RenameAsset(domain.ClassStock, "VOO", "VXUS"))
}

func TestListReturnsCopies(t *testing.T) {
	c := New()
	require.NoError(t, c.UpsertSale(1, domain.ClassStock, "Stock 1", decimal.NewFromInt(1)))

	list := c.List()
	list[0].Name = "mutated"
	list[0].StockSales[0].Quantity = decimal.NewFromInt(99)

	s := c.Active()
	assert.Equal(t, "Scenario 1", s.Name)
	assert.True(t, s.StockSales[0].Quantity.Equal(decimal.NewFromInt(1)))
}

func TestClone(t *testing.T) {
	c := New()
	_, err := c.Add()
	require.NoError(t, err)

	cp := c.Clone()
	require.NoError(t, cp.Rename(1, "copy"))
	_, err = cp.Add()
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 3, cp.Len())
	assert.Equal(t, 2, c.Counter())
	s, _ := c.Get(1)
	assert.Equal(t, "Scenario 1", s.Name)
}

func TestRestore(t *testing.T) {
	list := []domain.Scenario{domain.NewScenario(2), domain.NewScenario(4)}

	c, err := Restore(list, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, c.ActiveID())
	assert.Equal(t, 4, c.Counter(), "counter raised to the largest id")

	c, err = Restore(list, 99, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, c.ActiveID(), "unknown active id falls back to the first")
	assert.Equal(t, 10, c.Counter())

	_, err = Restore(nil, 1, 1)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Restore([]domain.Scenario{domain.NewScenario(1), domain.NewScenario(1)}, 1, 1)
	assert.ErrorIs(t, err, ErrInvalid)

	six := make([]domain.Scenario, MaxScenarios+1)
	for i := range six {
		six[i] = domain.NewScenario(i + 1)
	}
	_, err = Restore(six, 1, 6)
	assert.ErrorIs(t, err, ErrInvalid)

	unnamed := domain.Scenario{ID: 3}
	c, err = Restore([]domain.Scenario{unnamed}, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, "Scenario 3", c.Active().Name)
}

func TestCheck(t *testing.T) {
	c := New()
	require.NoError(t, c.SetWithdrawal(1, domain.AccountSavings, decimal.NewFromInt(60000)))
	require.NoError(t, c.UpsertSale(1, domain.ClassStock, "Stock 2", decimal.NewFromInt(80)))
	require.NoError(t, c.UpsertSale(1, domain.ClassStock, "Missing", decimal.NewFromInt(80)))

	warnings := c.Check(domain.DefaultAccountBalances(), domain.DefaultHoldings())
	require.Len(t, warnings, 2)
	assert.Equal(t, "Savings", warnings[0].Subject)
	assert.Contains(t, warnings[1].String(), "Stock 2 shares")
}
