package service

import (
	"fmt"
	"time"

	"github.com/kiwari-pos/kds/internal/enum"
	"github.com/kiwari-pos/kds/internal/menu"
	"github.com/kiwari-pos/kds/internal/order"
)

const (
	maxGeneratedItems = 3
	maxGeneratedQty   = 4
	tableCount        = 15
	noteChance        = 0.40
	rushChance        = 0.25
)

var customerNames = []string{
	"Sarah M.", "Mike D.", "Lisa K.", "Tom R.", "Anna P.",
	"James W.", "Emma L.", "Carlos G.", "Priya S.", "Noah B.",
}

var deliveryProviders = []string{"DoorDash", "UberEats", "Grubhub"}

// GenerateOrder synthesizes one random order from the live menu and
// appends it to the board.
func (s *OrderStore) GenerateOrder() (order.Order, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return order.Order{}, ErrStopped
	}
	o, err := s.generateLocked()
	if err != nil {
		s.mu.Unlock()
		return order.Order{}, err
	}
	added, err := s.addLocked(o, false)
	if err != nil {
		s.mu.Unlock()
		return order.Order{}, fmt.Errorf("add generated order: %w", err)
	}
	out := added.Clone()
	s.unlockAndEmit(s.event(enum.EventOrderCreated, added))

	s.log.Info("order generated",
		"order_number", out.OrderNumber,
		"category", out.Category,
		"origin", order.LabelOf(out.Origin),
		"rush", out.IsRush,
		"total", out.TotalPrice.StringFixed(2),
	)
	return out, nil
}

// generateLocked builds the order; addLocked assigns IDs. Callers hold mu
// since the RNG is not safe for concurrent use.
func (s *OrderStore) generateLocked() (order.Order, error) {
	// Only stations that currently offer something can be picked. With the
	// house menu this is all four.
	type station struct {
		category order.Category
		dishes   []menu.Item
	}
	var stations []station
	for _, c := range order.Categories {
		if dishes := s.menu.Available(c); len(dishes) > 0 {
			stations = append(stations, station{c, dishes})
		}
	}
	if len(stations) == 0 {
		return order.Order{}, ErrEmptyMenu
	}
	st := stations[s.rng.IntN(len(stations))]

	n := s.rng.IntN(maxGeneratedItems) + 1
	items := make([]order.Item, 0, n)
	for range n {
		dish := st.dishes[s.rng.IntN(len(st.dishes))]
		it := order.Item{
			Name:      dish.Name,
			Quantity:  s.rng.IntN(maxGeneratedQty) + 1,
			PrepTime:  dish.PrepTime,
			UnitPrice: dish.Price,
		}
		if notes := menu.Notes[st.category]; len(notes) > 0 && s.rng.Float64() < noteChance {
			it.Notes = []string{notes[s.rng.IntN(len(notes))]}
		}
		items = append(items, it)
	}

	return order.Order{
		OrderNumber: s.newOrderNumberLocked(),
		Origin:      s.randomOriginLocked(),
		Status:      order.StatusNew,
		IsRush:      s.rng.Float64() < rushChance,
		Category:    st.category,
		Items:       items,
		CreatedAt:   s.now(),
		TotalPrice:  order.TotalOf(items),
	}, nil
}

func (s *OrderStore) randomOriginLocked() order.Origin {
	switch s.rng.IntN(3) {
	case 0:
		return order.Table(s.rng.IntN(tableCount) + 1)
	case 1:
		return order.CustomerOrigin{Name: customerNames[s.rng.IntN(len(customerNames))]}
	default:
		provider := deliveryProviders[s.rng.IntN(len(deliveryProviders))]
		return order.DeliveryOrigin{Source: fmt.Sprintf("%s #%d", provider, 100+s.rng.IntN(900))}
	}
}

// nextDelay picks the wait before the next generated order, uniform in
// [minDelay, maxDelay].
func (s *OrderStore) nextDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	span := s.maxDelay - s.minDelay
	if span <= 0 {
		return s.minDelay
	}
	return s.minDelay + time.Duration(s.rng.Int64N(int64(span)+1))
}
