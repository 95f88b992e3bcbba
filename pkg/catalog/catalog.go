package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// ErrUnknownItem is returned when an item id is not registered.
var ErrUnknownItem = errors.New("catalog: unknown item")

// Catalog stores item definitions by id and remembers the order in which they
// were registered. Items are copied on the way in and out so registered
// definitions stay immutable.
type Catalog struct {
	mu    sync.RWMutex
	items map[string]model.Item
	order []string
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		items: make(map[string]model.Item),
	}
}

// Register adds an item. Duplicate ids return an error.
func (c *Catalog) Register(item model.Item) error {
	if item.ID == "" {
		return errors.New("catalog: item id is required")
	}
	if item.Render == nil {
		return fmt.Errorf("catalog: item %q has no render function", item.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[item.ID]; exists {
		return fmt.Errorf("catalog: item %q already registered", item.ID)
	}

	c.items[item.ID] = item.Clone()
	c.order = append(c.order, item.ID)
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (c *Catalog) MustRegister(item model.Item) {
	if err := c.Register(item); err != nil {
		panic(err)
	}
}

// Get retrieves an item by id.
func (c *Catalog) Get(id string) (model.Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		return model.Item{}, fmt.Errorf("%w %q", ErrUnknownItem, id)
	}
	return item.Clone(), nil
}

// MustGet panics if the item is missing.
func (c *Catalog) MustGet(id string) model.Item {
	item, err := c.Get(id)
	if err != nil {
		panic(err)
	}
	return item
}

// List returns every item in registration order.
func (c *Catalog) List() []model.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Item, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id].Clone())
	}
	return out
}

// IDs returns the registered item ids in registration order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]string(nil), c.order...)
}

// Has reports whether an item is registered.
func (c *Catalog) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.items[id]
	return ok
}

// Len reports how many items are registered.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.order)
}

// Summaries returns the transportable form of every item in registration
// order.
func (c *Catalog) Summaries() []model.ItemSummary {
	items := c.List()
	out := make([]model.ItemSummary, 0, len(items))
	for _, item := range items {
		out = append(out, item.Summary())
	}
	return out
}
