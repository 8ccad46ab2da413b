package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/kds/internal/enum"
	"github.com/kiwari-pos/kds/internal/order"
	"github.com/shopspring/decimal"
)

// Event describes one store mutation.
type Event struct {
	Type   string       `json:"type"`
	Order  *order.Order `json:"order,omitempty"`
	Ticked int          `json:"ticked,omitempty"`
	At     time.Time    `json:"at"`
}

// Stats is the header-bar summary.
type Stats struct {
	TotalIncome decimal.Decimal
	Completed   int
	Active      int
	Delayed     int

	// Placeholders, see PlaceholderAvgPrep.
	AvgPrep    string
	Peak       string
	Efficiency int
}

// MarshalJSON renders income with two decimals.
func (st Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalIncome string `json:"total_income"`
		AvgPrep     string `json:"avg_prep"`
		Completed   int    `json:"completed"`
		Active      int    `json:"active"`
		Delayed     int    `json:"delayed"`
		Peak        string `json:"peak"`
		Efficiency  int    `json:"efficiency"`
	}{
		TotalIncome: st.TotalIncome.StringFixed(2),
		AvgPrep:     st.AvgPrep,
		Completed:   st.Completed,
		Active:      st.Active,
		Delayed:     st.Delayed,
		Peak:        st.Peak,
		Efficiency:  st.Efficiency,
	})
}

// Snapshot is the full read contract taken under one lock.
type Snapshot struct {
	ActiveOrders    []order.Order  `json:"active_orders"`
	CompletedOrders []order.Order  `json:"completed_orders"`
	CategoryCounts  map[string]int `json:"category_counts"`
	Stats           Stats          `json:"stats"`
}

// --- Read contract ---

// Order returns a copy of one order.
func (s *OrderStore) Order(id uuid.UUID) (order.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return order.Order{}, false
	}
	return o.Clone(), true
}

// Orders returns every order in creation order.
func (s *OrderStore) Orders() []order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterLocked(func(*order.Order) bool { return true })
}

// ActiveOrders returns every order whose status is not completed.
func (s *OrderStore) ActiveOrders() []order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked()
}

// CompletedOrders returns every completed order.
func (s *OrderStore) CompletedOrders() []order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedLocked()
}

// DelayedCount counts orders in the delayed status.
func (s *OrderStore) DelayedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delayedLocked()
}

// CategoryCounts counts active orders per station, plus "all".
func (s *OrderStore) CategoryCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return categoryCounts(s.activeLocked())
}

// Stats returns the running totals and board counts.
func (s *OrderStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked(len(s.activeLocked()))
}

// Snapshot returns every derived view from one consistent state.
func (s *OrderStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.activeLocked()
	return Snapshot{
		ActiveOrders:    active,
		CompletedOrders: s.completedLocked(),
		CategoryCounts:  categoryCounts(active),
		Stats:           s.statsLocked(len(active)),
	}
}

func (s *OrderStore) filterLocked(keep func(*order.Order) bool) []order.Order {
	out := make([]order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o.Clone())
		}
	}
	return out
}

func (s *OrderStore) activeLocked() []order.Order {
	return s.filterLocked(func(o *order.Order) bool { return o.Status.Active() })
}

func (s *OrderStore) completedLocked() []order.Order {
	return s.filterLocked(func(o *order.Order) bool { return !o.Status.Active() })
}

func (s *OrderStore) delayedLocked() int {
	n := 0
	for _, o := range s.orders {
		if o.Status == order.StatusDelayed {
			n++
		}
	}
	return n
}

func (s *OrderStore) statsLocked(active int) Stats {
	return Stats{
		TotalIncome: s.income,
		Completed:   s.completed,
		Active:      active,
		Delayed:     s.delayedLocked(),
		AvgPrep:     PlaceholderAvgPrep,
		Peak:        PlaceholderPeak,
		Efficiency:  PlaceholderEfficiency,
	}
}

func categoryCounts(active []order.Order) map[string]int {
	counts := map[string]int{enum.CategoryAll: len(active)}
	for _, c := range order.Categories {
		counts[string(c)] = 0
	}
	for _, o := range active {
		counts[string(o.Category)]++
	}
	return counts
}
