package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/kds/internal/enum"
	"github.com/kiwari-pos/kds/internal/menu"
	"github.com/kiwari-pos/kds/internal/order"
	"github.com/shopspring/decimal"
)

const (
	// DefaultFirstOrderNumber sits above the seed tickets (1042-1066).
	DefaultFirstOrderNumber = 1067

	DefaultGenerateMinDelay = 5 * time.Second
	DefaultGenerateMaxDelay = 10 * time.Second
	DefaultTickInterval     = time.Minute
)

// Display placeholders. These are not derived from order data.
const (
	PlaceholderAvgPrep    = "11.4m"
	PlaceholderPeak       = "12:00 PM"
	PlaceholderEfficiency = 92
)

// Errors returned by the order store.
var (
	ErrNoOrigin           = errors.New("origin is required")
	ErrNoItems            = errors.New("items are required")
	ErrInvalidQuantity    = errors.New("quantity must be > 0")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidOrderNumber = errors.New("order_number must be > 0")
	ErrInvalidElapsed     = errors.New("elapsed_minutes must be >= 0")
	ErrDuplicateOrderNum  = errors.New("order_number already in use")
	ErrStaleOrderNumber   = errors.New("order_number is below the current sequence")
	ErrDuplicateItemID    = errors.New("duplicate item id")
	ErrUnknownMenuItem    = errors.New("item is not on the menu and has no unit price")
	ErrEmptyMenu          = errors.New("no available menu items to generate from")
	ErrStopped            = errors.New("order store stopped")
	ErrAlreadyStarted     = errors.New("order store already started")
	ErrInvalidSchedule    = errors.New("invalid generation schedule")
)

// Notifier receives store events after the mutation has been applied.
// Implementations must not call back into the store synchronously.
type Notifier interface {
	Notify(ev Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ev Event)

// Notify calls f(ev).
func (f NotifierFunc) Notify(ev Event) { f(ev) }

// Options configures an OrderStore. Zero values pick the defaults.
type Options struct {
	Menu             *menu.Catalog
	Rand             *rand.Rand
	Now              func() time.Time
	Logger           *slog.Logger
	FirstOrderNumber int
	GenerateMinDelay time.Duration
	GenerateMaxDelay time.Duration
	TickInterval     time.Duration
	Notifiers        []Notifier
}

// OrderStore is the authoritative in-memory order board. It owns the
// order collection, the completion counters and the background generation
// and minute-tick tasks. All methods are safe for concurrent use.
type OrderStore struct {
	mu sync.Mutex
	// emitMu serializes notifier delivery in mutation order.
	emitMu sync.Mutex

	orders    []*order.Order
	byID      map[uuid.UUID]*order.Order
	numbers   map[int]struct{}
	completed int
	income    decimal.Decimal

	nextOrderNumber int
	nextItemID      int

	menu      *menu.Catalog
	rng       *rand.Rand
	now       func() time.Time
	log       *slog.Logger
	notifiers []Notifier

	minDelay time.Duration
	maxDelay time.Duration
	tick     time.Duration

	closed bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrderStore creates an empty store. Call Seed to load the opening
// tickets and Start to launch the background tasks.
func NewOrderStore(opts Options) (*OrderStore, error) {
	if opts.Menu == nil {
		opts.Menu = menu.Default()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.FirstOrderNumber == 0 {
		opts.FirstOrderNumber = DefaultFirstOrderNumber
	}
	if opts.GenerateMinDelay == 0 {
		opts.GenerateMinDelay = DefaultGenerateMinDelay
	}
	if opts.GenerateMaxDelay == 0 {
		opts.GenerateMaxDelay = DefaultGenerateMaxDelay
	}
	if opts.TickInterval == 0 {
		opts.TickInterval = DefaultTickInterval
	}

	if opts.FirstOrderNumber < 0 {
		return nil, ErrInvalidOrderNumber
	}
	if opts.GenerateMinDelay < 0 || opts.GenerateMaxDelay < opts.GenerateMinDelay || opts.TickInterval < 0 {
		return nil, fmt.Errorf("%w: delay [%s, %s], tick %s", ErrInvalidSchedule,
			opts.GenerateMinDelay, opts.GenerateMaxDelay, opts.TickInterval)
	}

	return &OrderStore{
		byID:            make(map[uuid.UUID]*order.Order),
		numbers:         make(map[int]struct{}),
		income:          decimal.Zero,
		nextOrderNumber: opts.FirstOrderNumber,
		nextItemID:      1,
		menu:            opts.Menu,
		rng:             opts.Rand,
		now:             opts.Now,
		log:             opts.Logger,
		notifiers:       opts.Notifiers,
		minDelay:        opts.GenerateMinDelay,
		maxDelay:        opts.GenerateMaxDelay,
		tick:            opts.TickInterval,
	}, nil
}

// Subscribe registers n for all subsequent events.
func (s *OrderStore) Subscribe(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifiers = append(s.notifiers, n)
}

// Menu returns the catalogue the generator draws from.
func (s *OrderStore) Menu() *menu.Catalog { return s.menu }

// unlockAndEmit releases mu and delivers events to the notifiers. emitMu
// is taken before mu is released, so deliveries happen in the same order
// as the mutations that produced them. Callers hold mu; lock order is
// always mu then emitMu.
func (s *OrderStore) unlockAndEmit(events ...Event) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	notifiers := slices.Clone(s.notifiers)
	s.mu.Unlock()

	for _, ev := range events {
		for _, n := range notifiers {
			n.Notify(ev)
		}
	}
}

func (s *OrderStore) event(typ string, o *order.Order) Event {
	ev := Event{Type: typ, At: s.now()}
	if o != nil {
		c := o.Clone()
		ev.Order = &c
	}
	return ev
}

// --- Write contract ---

// AdvanceOrder moves the order one step along the pipeline. Unknown IDs
// and completed orders are ignored.
func (s *OrderStore) AdvanceOrder(id uuid.UUID) {
	s.mu.Lock()
	o, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		s.log.Debug("advance: order not found", "order_id", id)
		return
	}
	ev, changed := s.transitionLocked(o, o.Status.Next())
	if !changed {
		s.mu.Unlock()
		return
	}
	s.unlockAndEmit(ev)
}

// CompleteOrder jumps the order straight to completed from any active
// status. Unknown IDs and completed orders are ignored.
func (s *OrderStore) CompleteOrder(id uuid.UUID) {
	s.mu.Lock()
	o, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		s.log.Debug("complete: order not found", "order_id", id)
		return
	}
	ev, changed := s.transitionLocked(o, order.StatusCompleted)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.unlockAndEmit(ev)
}

// transitionLocked applies next to o. The completion event (counter and
// income) fires only when o was not already completed. Callers hold mu.
func (s *OrderStore) transitionLocked(o *order.Order, next order.Status) (Event, bool) {
	prev := o.Status
	if prev == order.StatusCompleted || prev == next {
		return Event{}, false
	}
	o.Status = next

	if next == order.StatusCompleted {
		s.completed++
		s.income = s.income.Add(o.TotalPrice)
		s.log.Info("order completed",
			"order_number", o.OrderNumber,
			"from", prev,
			"total", o.TotalPrice.StringFixed(2),
		)
		return s.event(enum.EventOrderCompleted, o), true
	}
	return s.event(enum.EventOrderUpdated, o), true
}

// ToggleItemComplete flips the completion flag of one line. It never
// changes the order's status or total. Unknown IDs and completed orders
// are ignored.
func (s *OrderStore) ToggleItemComplete(orderID uuid.UUID, itemID string) {
	s.mu.Lock()
	o, ok := s.byID[orderID]
	if !ok || o.Status == order.StatusCompleted {
		s.mu.Unlock()
		return
	}
	it := o.Item(itemID)
	if it == nil {
		s.mu.Unlock()
		return
	}
	it.Completed = !it.Completed
	s.unlockAndEmit(s.event(enum.EventOrderUpdated, o))
}

// AddOrder validates and appends an externally constructed order. The ID
// is always freshly assigned. A zero OrderNumber takes the next sequence
// value; a caller number must not be below it. A zero TotalPrice is
// computed from the items.
func (s *OrderStore) AddOrder(o order.Order) (order.Order, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return order.Order{}, ErrStopped
	}
	added, err := s.addLocked(o, false)
	if err != nil {
		s.mu.Unlock()
		return order.Order{}, err
	}
	out := added.Clone()
	s.unlockAndEmit(s.event(enum.EventOrderCreated, added))
	return out, nil
}

// Seed loads opening tickets without emitting events. Seed numbers may
// sit below the live sequence. Either every order is added or none is.
func (s *OrderStore) Seed(orders []order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mark := s.markLocked()
	for _, o := range orders {
		if _, err := s.addLocked(o, true); err != nil {
			s.rollbackLocked(mark)
			return fmt.Errorf("seed order #%d: %w", o.OrderNumber, err)
		}
	}
	return nil
}

// storeMark is the rollback point for a batch of adds.
type storeMark struct {
	orders          int
	nextOrderNumber int
	nextItemID      int
}

func (s *OrderStore) markLocked() storeMark {
	return storeMark{
		orders:          len(s.orders),
		nextOrderNumber: s.nextOrderNumber,
		nextItemID:      s.nextItemID,
	}
}

func (s *OrderStore) rollbackLocked(m storeMark) {
	for _, o := range s.orders[m.orders:] {
		delete(s.byID, o.ID)
		delete(s.numbers, o.OrderNumber)
	}
	s.orders = s.orders[:m.orders]
	s.nextOrderNumber = m.nextOrderNumber
	s.nextItemID = m.nextItemID
}

// addLocked validates in completely before touching any counter, so a
// rejected order leaves the store unchanged. Outside seeding, a caller
// number must lie at or above the sequence so numbers keep increasing in
// creation order.
func (s *OrderStore) addLocked(in order.Order, seeding bool) (*order.Order, error) {
	o := in.Clone()

	if o.Origin == nil {
		return nil, ErrNoOrigin
	}
	if len(o.Items) == 0 {
		return nil, ErrNoItems
	}
	if !o.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if o.Status == "" {
		o.Status = order.StatusNew
	}
	if !o.Status.Valid() || o.Status == order.StatusCompleted {
		return nil, ErrInvalidStatus
	}
	if o.ElapsedMinutes < 0 {
		return nil, ErrInvalidElapsed
	}

	seen := make(map[string]struct{}, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if m, ok := s.menu.Get(it.Name); ok {
			if it.UnitPrice.IsZero() {
				it.UnitPrice = m.Price
			}
			if it.PrepTime == 0 {
				it.PrepTime = m.PrepTime
			}
		} else if it.UnitPrice.IsZero() && in.TotalPrice.IsZero() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMenuItem, it.Name)
		}
		if it.ID == "" {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItemID, it.ID)
		}
		seen[it.ID] = struct{}{}
	}

	if o.OrderNumber < 0 {
		return nil, ErrInvalidOrderNumber
	}
	if o.OrderNumber > 0 {
		if _, used := s.numbers[o.OrderNumber]; used {
			return nil, ErrDuplicateOrderNum
		}
		if !seeding && o.OrderNumber < s.nextOrderNumber {
			return nil, fmt.Errorf("%w: %d, next is %d", ErrStaleOrderNumber, o.OrderNumber, s.nextOrderNumber)
		}
	}

	// Valid from here on; counters move.
	for i := range o.Items {
		if o.Items[i].ID != "" {
			s.reserveItemIDLocked(o.Items[i].ID)
		}
	}
	for i := range o.Items {
		if o.Items[i].ID == "" {
			o.Items[i].ID = s.newItemIDLocked()
		}
	}

	if o.OrderNumber == 0 {
		o.OrderNumber = s.newOrderNumberLocked()
	} else if o.OrderNumber >= s.nextOrderNumber {
		s.nextOrderNumber = o.OrderNumber + 1
	}

	if o.TotalPrice.IsZero() {
		o.TotalPrice = order.TotalOf(o.Items)
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	o.ID = uuid.New()

	s.numbers[o.OrderNumber] = struct{}{}
	s.orders = append(s.orders, &o)
	s.byID[o.ID] = &o
	return &o, nil
}

// newOrderNumberLocked returns the next unused sequence number.
func (s *OrderStore) newOrderNumberLocked() int {
	for {
		n := s.nextOrderNumber
		s.nextOrderNumber++
		if _, used := s.numbers[n]; !used {
			return n
		}
	}
}

// reserveItemIDLocked moves the item counter past a caller-supplied
// "i<N>" ID so generated lines never reuse it.
func (s *OrderStore) reserveItemIDLocked(id string) {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "i"))
	if err == nil && strings.HasPrefix(id, "i") && n >= s.nextItemID {
		s.nextItemID = n + 1
	}
}

func (s *OrderStore) newItemIDLocked() string {
	id := fmt.Sprintf("i%d", s.nextItemID)
	s.nextItemID++
	return id
}

// Tick adds one elapsed minute to every active order and returns how many
// orders were touched. Completed orders stay frozen.
func (s *OrderStore) Tick() int {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0
	}
	n := 0
	for _, o := range s.orders {
		if o.Status.Active() {
			o.ElapsedMinutes++
			n++
		}
	}
	if n == 0 {
		s.mu.Unlock()
		return 0
	}
	s.unlockAndEmit(Event{Type: enum.EventOrdersTicked, Ticked: n, At: s.now()})
	return n
}
