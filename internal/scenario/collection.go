package scenario

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxScenarios is the most scenarios a workspace may hold.
const MaxScenarios = 5

var (
	ErrCapacity       = errors.New("scenario limit reached")
	ErrLastScenario   = errors.New("cannot remove the only scenario")
	ErrNotFound       = errors.New("scenario not found")
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrInvalid        = errors.New("invalid scenario set")
)

// Collection owns the scenarios of a workspace. It always holds between one
// and MaxScenarios scenarios, the active id always names one of them, and ids
// are never reused. A failed operation leaves the collection unchanged.
type Collection struct {
	scenarios []domain.Scenario
	activeID  int
	counter   int
}

// New returns a collection holding a single empty scenario with id 1.
func New() *Collection {
	return &Collection{
		scenarios: []domain.Scenario{domain.NewScenario(1)},
		activeID:  1,
		counter:   1,
	}
}

// Restore rebuilds a collection from saved data. An unknown active id falls
// back to the first scenario and the counter is raised to the largest id.
func Restore(list []domain.Scenario, activeID, counter int) (*Collection, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no scenarios", ErrInvalid)
	}
	if len(list) > MaxScenarios {
		return nil, fmt.Errorf("%w: %d scenarios, at most %d allowed", ErrInvalid, len(list), MaxScenarios)
	}
	c := &Collection{scenarios: make([]domain.Scenario, 0, len(list)), counter: counter}
	seen := make(map[int]bool, len(list))
	for _, s := range list {
		if s.ID <= 0 {
			return nil, fmt.Errorf("%w: scenario id %d must be positive", ErrInvalid, s.ID)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("%w: duplicate scenario id %d", ErrInvalid, s.ID)
		}
		seen[s.ID] = true
		if s.ID > c.counter {
			c.counter = s.ID
		}
		c.scenarios = append(c.scenarios, normalize(s))
	}
	c.activeID = activeID
	if !seen[activeID] {
		c.activeID = c.scenarios[0].ID
	}
	return c, nil
}

func normalize(s domain.Scenario) domain.Scenario {
	s = s.Clone()
	if s.Name == "" {
		s.Name = fmt.Sprintf("Scenario %d", s.ID)
	}
	return s
}

func (c *Collection) index(id int) int {
	for i, s := range c.scenarios {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (c *Collection) find(id int) (*domain.Scenario, error) {
	i := c.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return &c.scenarios[i], nil
}

// Len returns the number of scenarios.
func (c *Collection) Len() int { return len(c.scenarios) }

// ActiveID returns the id of the active scenario.
func (c *Collection) ActiveID() int { return c.activeID }

// Counter returns the highest id ever issued.
func (c *Collection) Counter() int { return c.counter }

// Active returns a copy of the active scenario.
func (c *Collection) Active() domain.Scenario {
	s, _ := c.Get(c.activeID)
	return s
}

// Get returns a copy of the scenario with the given id.
func (c *Collection) Get(id int) (domain.Scenario, bool) {
	i := c.index(id)
	if i < 0 {
		return domain.Scenario{}, false
	}
	return c.scenarios[i].Clone(), true
}

// List returns copies of every scenario in order.
func (c *Collection) List() []domain.Scenario {
	out := make([]domain.Scenario, len(c.scenarios))
	for i, s := range c.scenarios {
		out[i] = s.Clone()
	}
	return out
}

// Clone returns an independent copy of the collection.
func (c *Collection) Clone() *Collection {
	return &Collection{scenarios: c.List(), activeID: c.activeID, counter: c.counter}
}

// Add appends a new empty scenario and makes it active.
func (c *Collection) Add() (domain.Scenario, error) {
	if len(c.scenarios) >= MaxScenarios {
		return domain.Scenario{}, fmt.Errorf("%w: at most %d scenarios", ErrCapacity, MaxScenarios)
	}
	c.counter++
	s := domain.NewScenario(c.counter)
	c.scenarios = append(c.scenarios, s)
	c.activeID = s.ID
	return s.Clone(), nil
}

// Remove deletes a scenario. Removing the active scenario activates the
// first remaining one.
func (c *Collection) Remove(id int) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if len(c.scenarios) == 1 {
		return ErrLastScenario
	}
	c.scenarios = append(c.scenarios[:i:i], c.scenarios[i+1:]...)
	if c.activeID == id {
		c.activeID = c.scenarios[0].ID
	}
	return nil
}

// Rename sets the display name of a scenario.
func (c *Collection) Rename(id int, name string) error {
	s, err := c.find(id)
	if err != nil {
		return err
	}
	s.Name = name
	return nil
}

// SetActive switches the active scenario.
func (c *Collection) SetActive(id int) error {
	if _, err := c.find(id); err != nil {
		return err
	}
	c.activeID = id
	return nil
}

// SetWithdrawal sets one account's withdrawal amount in a scenario.
func (c *Collection) SetWithdrawal(id int, key domain.AccountKey, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeAmount, amount)
	}
	s, err := c.find(id)
	if err != nil {
		return err
	}
	return s.Withdrawals.Set(key, amount)
}

// UpsertSale sets the quantity to sell of an asset, adding the entry if the
// scenario has none for it yet.
func (c *Collection) UpsertSale(id int, class domain.AssetClass, asset string, qty decimal.Decimal) error {
	if qty.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeAmount, qty)
	}
	s, err := c.find(id)
	if err != nil {
		return err
	}
	return s.UpsertSale(class, asset, qty)
}

// RemoveSale drops the sale entry for asset from a scenario.
func (c *Collection) RemoveSale(id int, class domain.AssetClass, asset string) error {
	s, err := c.find(id)
	if err != nil {
		return err
	}
	s.RemoveSale(class, asset)
	return nil
}

// PruneAsset drops every sale entry naming asset from all scenarios and
// returns how many entries were removed.
func (c *Collection) PruneAsset(class domain.AssetClass, asset string) int {
	removed := 0
	for i := range c.scenarios {
		if c.scenarios[i].RemoveSale(class, asset) {
			removed++
		}
	}
	return removed
}

// RenameAsset repoints sale entries after a holding is renamed. An entry
// already naming to referred to no holding before the rename; it is dropped
// from every scenario rather than merged, and the number dropped is returned.
func (c *Collection) RenameAsset(class domain.AssetClass, from, to string) int {
	stale := 0
	for i := range c.scenarios {
		s := &c.scenarios[i]
		if s.RemoveSale(class, to) {
			stale++
		}
		qty := s.SaleQuantity(class, from)
		if s.RemoveSale(class, from) {
			_ = s.UpsertSale(class, to, qty)
		}
	}
	return stale
}
