package handler_test

import (
	"fmt"
	"net/http"
	"slices"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/kds/internal/handler"
	"github.com/kiwari-pos/kds/internal/order"
	"github.com/kiwari-pos/kds/internal/service"
	"github.com/shopspring/decimal"
)

// --- Mock board ---

type mockBoard struct {
	orders  []order.Order
	addErr  error
	added   []order.Order
	advance []uuid.UUID
	done    []uuid.UUID
	toggled []string
}

func newMockBoard() *mockBoard {
	return &mockBoard{orders: []order.Order{
		{ID: uuid.New(), OrderNumber: 1042, Origin: order.Table(7), Status: order.StatusNew, Category: order.CategoryGrill, TotalPrice: decimal.NewFromInt(78)},
		{ID: uuid.New(), OrderNumber: 1043, Origin: order.CustomerOrigin{Name: "Sarah M."}, Status: order.StatusPreparing, Category: order.CategoryDrinks},
		{ID: uuid.New(), OrderNumber: 1044, Origin: order.Table(2), Status: order.StatusCompleted, Category: order.CategoryGrill},
	}}
}

func (m *mockBoard) Order(id uuid.UUID) (order.Order, bool) {
	for _, o := range m.orders {
		if o.ID == id {
			return o, true
		}
	}
	return order.Order{}, false
}

func (m *mockBoard) Orders() []order.Order { return m.orders }

func (m *mockBoard) ActiveOrders() []order.Order {
	var out []order.Order
	for _, o := range m.orders {
		if o.Status.Active() {
			out = append(out, o)
		}
	}
	return out
}

func (m *mockBoard) CompletedOrders() []order.Order {
	var out []order.Order
	for _, o := range m.orders {
		if !o.Status.Active() {
			out = append(out, o)
		}
	}
	return out
}

func (m *mockBoard) AddOrder(o order.Order) (order.Order, error) {
	if m.addErr != nil {
		return order.Order{}, m.addErr
	}
	m.added = append(m.added, o)
	o.ID = uuid.New()
	o.OrderNumber = 1067
	if o.Status == "" {
		o.Status = order.StatusNew
	}
	return o, nil
}

func (m *mockBoard) AdvanceOrder(id uuid.UUID)  { m.advance = append(m.advance, id) }
func (m *mockBoard) CompleteOrder(id uuid.UUID) { m.done = append(m.done, id) }

func (m *mockBoard) ToggleItemComplete(orderID uuid.UUID, itemID string) {
	m.toggled = append(m.toggled, orderID.String()+"/"+itemID)
}

func setupOrderRouter(board *mockBoard) *chi.Mux {
	h := handler.NewOrderHandler(board)
	r := chi.NewRouter()
	r.Route("/orders", func(r chi.Router) {
		h.RegisterRoutes(r)
		h.RegisterActions(r)
	})
	return r
}

// --- List / Get ---

func TestOrderList_Views(t *testing.T) {
	router := setupOrderRouter(newMockBoard())

	tests := []struct {
		query string
		want  []int
	}{
		{"", []int{1042, 1043}},
		{"?view=active", []int{1042, 1043}},
		{"?view=completed", []int{1044}},
		{"?view=all", []int{1042, 1043, 1044}},
		{"?view=all&category=grill", []int{1042, 1044}},
		{"?category=drinks", []int{1043}},
		{"?category=salads", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := doRequest(t, router, "GET", "/orders"+tt.query, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
			}
			if got := orderNumbers(t, rr); !slices.Equal(got, tt.want) {
				t.Errorf("orders: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrderList_BadFilters(t *testing.T) {
	router := setupOrderRouter(newMockBoard())

	for _, q := range []string{"?view=archived", "?category=pizza"} {
		rr := doRequest(t, router, "GET", "/orders"+q, nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status got %d, want %d", q, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestOrderGet(t *testing.T) {
	board := newMockBoard()
	router := setupOrderRouter(board)

	rr := doRequest(t, router, "GET", "/orders/"+board.orders[0].ID.String(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeResponse(t, rr)
	if resp["origin_label"] != "Table 7" {
		t.Errorf("origin_label: got %v, want Table 7", resp["origin_label"])
	}
	if resp["total_price"] != "78.00" {
		t.Errorf("total_price: got %v, want 78.00", resp["total_price"])
	}

	rr = doRequest(t, router, "GET", "/orders/"+uuid.New().String(), nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown id: got %d, want %d", rr.Code, http.StatusNotFound)
	}

	rr = doRequest(t, router, "GET", "/orders/not-a-uuid", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed id: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Create ---

func TestOrderCreate_Table(t *testing.T) {
	board := newMockBoard()
	router := setupOrderRouter(board)

	rr := doRequest(t, router, "POST", "/orders", map[string]interface{}{
		"origin_kind":  "table",
		"table_number": 4,
		"category":     "grill",
		"is_rush":      true,
		"items": []map[string]interface{}{
			{"name": "Wagyu Burger", "quantity": 2, "notes": []string{"No onions"}},
			{"name": "Chef Special", "quantity": 1, "unit_price": "19.5", "prep_time": 20},
		},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["order_number"] != float64(1067) {
		t.Errorf("order_number: got %v, want 1067", resp["order_number"])
	}
	if resp["table"] != "Table 4" {
		t.Errorf("table: got %v, want Table 4", resp["table"])
	}

	if len(board.added) != 1 {
		t.Fatalf("expected 1 AddOrder call, got %d", len(board.added))
	}
	got := board.added[0]
	if !got.IsRush || got.Category != order.CategoryGrill {
		t.Errorf("order: got rush=%v category=%v", got.IsRush, got.Category)
	}
	if !got.Items[0].UnitPrice.IsZero() {
		t.Errorf("menu dish price should be left for the store, got %s", got.Items[0].UnitPrice)
	}
	if !got.Items[1].UnitPrice.Equal(decimal.RequireFromString("19.50")) || got.Items[1].PrepTime != 20 {
		t.Errorf("custom line: got price=%s prep=%d", got.Items[1].UnitPrice, got.Items[1].PrepTime)
	}
}

func TestOrderCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"no origin", map[string]interface{}{"category": "grill"}},
		{"unknown origin", map[string]interface{}{"origin_kind": "drone"}},
		{"table without number", map[string]interface{}{"origin_kind": "table"}},
		{"customer without name", map[string]interface{}{"origin_kind": "customer"}},
		{"delivery without source", map[string]interface{}{"origin_kind": "delivery"}},
		{"bad price", map[string]interface{}{
			"origin_kind": "customer", "customer_name": "Ana",
			"items": []map[string]interface{}{{"name": "X", "quantity": 1, "unit_price": "-1"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := newMockBoard()
			rr := doRequest(t, setupOrderRouter(board), "POST", "/orders", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
			}
			if len(board.added) != 0 {
				t.Error("store should not be called")
			}
		})
	}
}

func TestOrderCreate_StoreErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrNoItems, http.StatusBadRequest},
		{fmt.Errorf("%w: %q", service.ErrUnknownMenuItem, "Pizza"), http.StatusBadRequest},
		{service.ErrDuplicateOrderNum, http.StatusBadRequest},
		{fmt.Errorf("%w: %d, next is %d", service.ErrStaleOrderNumber, 5, 1067), http.StatusBadRequest},
		{service.ErrStopped, http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			board := newMockBoard()
			board.addErr = tt.err
			rr := doRequest(t, setupOrderRouter(board), "POST", "/orders", map[string]interface{}{
				"origin_kind": "delivery",
				"source":      "UberEats #445",
				"category":    "grill",
			})
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

// --- Actions ---

func TestOrderActions(t *testing.T) {
	board := newMockBoard()
	router := setupOrderRouter(board)
	id := board.orders[0].ID.String()

	for _, path := range []string{
		"/orders/" + id + "/advance",
		"/orders/" + id + "/complete",
		"/orders/" + id + "/items/i3/toggle",
	} {
		rr := doRequest(t, router, "POST", path, nil)
		if rr.Code != http.StatusNoContent {
			t.Errorf("%s: status got %d, want %d", path, rr.Code, http.StatusNoContent)
		}
	}

	if len(board.advance) != 1 || board.advance[0].String() != id {
		t.Errorf("advance calls: got %v", board.advance)
	}
	if len(board.done) != 1 || board.done[0].String() != id {
		t.Errorf("complete calls: got %v", board.done)
	}
	if len(board.toggled) != 1 || board.toggled[0] != id+"/i3" {
		t.Errorf("toggle calls: got %v", board.toggled)
	}
}

func TestOrderActions_UnknownIDIsNoContent(t *testing.T) {
	board := newMockBoard()
	rr := doRequest(t, setupOrderRouter(board), "POST", "/orders/"+uuid.New().String()+"/advance", nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestOrderActions_MalformedID(t *testing.T) {
	board := newMockBoard()
	router := setupOrderRouter(board)

	for _, path := range []string{"/orders/x/advance", "/orders/x/complete", "/orders/x/items/i1/toggle"} {
		rr := doRequest(t, router, "POST", path, nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status got %d, want %d", path, rr.Code, http.StatusBadRequest)
		}
	}
	if len(board.advance)+len(board.done)+len(board.toggled) != 0 {
		t.Error("store should not be called for malformed ids")
	}
}
