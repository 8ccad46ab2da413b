// Package order defines the kitchen order model and its status machine.
package order

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/kds/internal/enum"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle stage of an order.
type Status string

const (
	StatusNew       Status = enum.OrderStatusNew
	StatusDelayed   Status = enum.OrderStatusDelayed
	StatusPreparing Status = enum.OrderStatusPreparing
	StatusReady     Status = enum.OrderStatusReady
	StatusCompleted Status = enum.OrderStatusCompleted
)

// Category is the kitchen station an order was drawn from.
type Category string

const (
	CategoryGrill    Category = enum.CategoryGrill
	CategoryDrinks   Category = enum.CategoryDrinks
	CategoryDesserts Category = enum.CategoryDesserts
	CategorySalads   Category = enum.CategorySalads
)

// Categories lists every station in display order.
var Categories = []Category{CategoryGrill, CategoryDrinks, CategoryDesserts, CategorySalads}

// advanceTransitions is the single-step pipeline. Delayed shares the outgoing
// edge of new; completed is terminal and absent.
var advanceTransitions = map[Status]Status{
	StatusNew:       StatusPreparing,
	StatusDelayed:   StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusCompleted,
}

// Next returns the status reached by advancing s one step.
// Completed (and any unknown status) advances to itself.
func (s Status) Next() Status {
	if next, ok := advanceTransitions[s]; ok {
		return next
	}
	return s
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusDelayed, StatusPreparing, StatusReady, StatusCompleted:
		return true
	}
	return false
}

// Active reports whether an order in status s still belongs on the board.
func (s Status) Active() bool { return s != StatusCompleted }

// Valid reports whether c is one of the four stations.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Item is one line of an order.
type Item struct {
	ID        string
	Name      string
	Quantity  int
	PrepTime  int
	UnitPrice decimal.Decimal
	Notes     []string
	Completed bool
}

// Subtotal is UnitPrice × Quantity.
func (it Item) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Order is one ticket on the kitchen board.
type Order struct {
	ID             uuid.UUID
	OrderNumber    int
	Origin         Origin
	Status         Status
	IsRush         bool
	Category       Category
	Items          []Item
	CreatedAt      time.Time
	ElapsedMinutes int
	TotalPrice     decimal.Decimal
}

// Clone returns a deep copy so callers outside the store cannot mutate
// shared item slices.
func (o Order) Clone() Order {
	c := o
	c.Items = make([]Item, len(o.Items))
	for i, it := range o.Items {
		it.Notes = slices.Clone(it.Notes)
		c.Items[i] = it
	}
	return c
}

// Item returns a pointer to the item with the given ID, or nil.
func (o *Order) Item(id string) *Item {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i]
		}
	}
	return nil
}

// TotalOf sums item subtotals rounded to cents.
func TotalOf(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total.Round(2)
}

// ByCategory keeps the orders drawn from station c. "all" or "" keeps
// everything.
func ByCategory(orders []Order, c string) []Order {
	if c == "" || c == enum.CategoryAll {
		return orders
	}
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if string(o.Category) == c {
			out = append(out, o)
		}
	}
	return out
}

// ValidFilter reports whether c may be used as a station filter.
func ValidFilter(c string) bool {
	return c == "" || c == enum.CategoryAll || Category(c).Valid()
}
