// Package menu holds the kitchen's menu catalogue: the reference data the
// order generator prices and times items against.
package menu

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/kiwari-pos/kds/internal/enum"
	"github.com/kiwari-pos/kds/internal/order"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Errors returned by the catalogue.
var (
	ErrEmptyName       = errors.New("name is required")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidPrice    = errors.New("price must be >= 0")
	ErrInvalidPrepTime = errors.New("prep_time must be > 0")
	ErrNotFound        = errors.New("menu item not found")
)

// Item is one dish on the menu.
type Item struct {
	Name        string
	Price       decimal.Decimal
	Category    order.Category
	PrepTime    int
	Available   bool
	Description string
	Image       string
}

// Validate checks the fields required to price and time an order line.
func (it Item) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return ErrEmptyName
	}
	if !it.Category.Valid() {
		return ErrInvalidCategory
	}
	if it.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if it.PrepTime <= 0 {
		return ErrInvalidPrepTime
	}
	return nil
}

// Catalog is the live, concurrently readable menu.
type Catalog struct {
	mu    sync.RWMutex
	items []Item
}

// NewCatalog builds a catalogue from items, keeping their order.
func NewCatalog(items []Item) (*Catalog, error) {
	c := &Catalog{}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("menu item %q: %w", it.Name, err)
		}
		if c.index(it.Name) >= 0 {
			return nil, fmt.Errorf("menu item %q: duplicate name", it.Name)
		}
		c.items = append(c.items, it)
	}
	return c, nil
}

// Default returns the house menu.
func Default() *Catalog {
	c, err := NewCatalog(defaultItems())
	if err != nil {
		panic(err)
	}
	return c
}

// index returns the position of name or -1. Callers hold mu.
func (c *Catalog) index(name string) int {
	return slices.IndexFunc(c.items, func(it Item) bool {
		return strings.EqualFold(it.Name, name)
	})
}

// Get looks up a dish by name, case-insensitively.
func (c *Catalog) Get(name string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.index(name)
	if i < 0 {
		return Item{}, false
	}
	return c.items[i], true
}

// List returns dishes in the given category ("all" or "" for every
// category) whose name or description contains search.
func (c *Catalog) List(category, search string) []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if category != "" && category != enum.CategoryAll && string(it.Category) != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(it.Name), q) &&
			!strings.Contains(strings.ToLower(it.Description), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Available returns the dishes of category that can currently be ordered.
func (c *Catalog) Available(category order.Category) []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Item
	for _, it := range c.items {
		if it.Category == category && it.Available {
			out = append(out, it)
		}
	}
	return out
}

// Upsert replaces the dish with the same name or appends a new one.
// It reports whether the dish was created.
func (c *Catalog) Upsert(it Item) (bool, error) {
	if err := it.Validate(); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(it.Name); i >= 0 {
		c.items[i] = it
		return false, nil
	}
	c.items = append(c.items, it)
	return true, nil
}

// Delete removes a dish by name.
func (c *Catalog) Delete(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(name)
	if i < 0 {
		return ErrNotFound
	}
	c.items = slices.Delete(c.items, i, i+1)
	return nil
}

// Len returns the number of dishes.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// fileItem mirrors Item for YAML; prices are decoded as strings so that
// "14.00" keeps exact decimal precision.
type fileItem struct {
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Category    string `yaml:"category"`
	PrepTime    int    `yaml:"prep_time"`
	Available   *bool  `yaml:"available"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

type file struct {
	Items []fileItem `yaml:"items"`
}

// LoadFile reads a YAML menu file:
//
//	items:
//	  - name: Ribeye Steak
//	    price: "38.00"
//	    category: grill
//	    prep_time: 18
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML menu document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}

	items := make([]Item, 0, len(f.Items))
	for _, fi := range f.Items {
		price, err := decimal.NewFromString(fi.Price)
		if err != nil {
			return nil, fmt.Errorf("menu item %q: invalid price %q", fi.Name, fi.Price)
		}
		available := true
		if fi.Available != nil {
			available = *fi.Available
		}
		items = append(items, Item{
			Name:        fi.Name,
			Price:       price,
			Category:    order.Category(fi.Category),
			PrepTime:    fi.PrepTime,
			Available:   available,
			Description: fi.Description,
			Image:       fi.Image,
		})
	}
	return NewCatalog(items)
}
