package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/kds/internal/enum"
	"github.com/kiwari-pos/kds/internal/middleware"
	"github.com/kiwari-pos/kds/internal/order"
	"github.com/kiwari-pos/kds/internal/service"
	"github.com/shopspring/decimal"
)

// OrderBoard is the slice of the order store used by the order endpoints.
// Satisfied by *service.OrderStore; narrow interface for testability.
type OrderBoard interface {
	Order(id uuid.UUID) (order.Order, bool)
	Orders() []order.Order
	ActiveOrders() []order.Order
	CompletedOrders() []order.Order
	AddOrder(o order.Order) (order.Order, error)
	AdvanceOrder(id uuid.UUID)
	CompleteOrder(id uuid.UUID)
	ToggleItemComplete(orderID uuid.UUID, itemID string)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	board OrderBoard
}

func NewOrderHandler(board OrderBoard) *OrderHandler {
	return &OrderHandler{board: board}
}

// RegisterRoutes registers the read endpoints under /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// RegisterActions registers the mutating endpoints under /orders. The
// router decides whether these sit behind station auth.
func (h *OrderHandler) RegisterActions(r chi.Router) {
	r.Post("/", h.Create)
	r.Post("/{id}/advance", h.Advance)
	r.Post("/{id}/complete", h.Complete)
	r.Post("/{id}/items/{itemID}/toggle", h.ToggleItem)
}

// --- Request / Response types ---

type createOrderRequest struct {
	OriginKind     string                   `json:"origin_kind"`
	TableNumber    int                      `json:"table_number"`
	CustomerName   string                   `json:"customer_name"`
	Source         string                   `json:"source"`
	Category       string                   `json:"category"`
	Status         string                   `json:"status"`
	IsRush         bool                     `json:"is_rush"`
	OrderNumber    int                      `json:"order_number"`
	ElapsedMinutes int                      `json:"elapsed_minutes"`
	Items          []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	Notes     []string `json:"notes"`
	UnitPrice string   `json:"unit_price"`
	PrepTime  int      `json:"prep_time"`
}

type orderListResponse struct {
	Orders []order.Order `json:"orders"`
	Count  int           `json:"count"`
}

func listResponse(orders []order.Order) orderListResponse {
	if orders == nil {
		orders = []order.Order{}
	}
	return orderListResponse{Orders: orders, Count: len(orders)}
}

// --- Handlers ---

// List handles GET /orders?view=active|completed|all&category=grill.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if !order.ValidFilter(category) {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}

	var orders []order.Order
	switch view := r.URL.Query().Get("view"); view {
	case "", "active":
		orders = h.board.ActiveOrders()
	case "completed":
		orders = h.board.CompletedOrders()
	case "all":
		orders = h.board.Orders()
	default:
		writeError(w, http.StatusBadRequest, "view must be active, completed or all")
		return
	}

	writeJSON(w, http.StatusOK, listResponse(order.ByCategory(orders, category)))
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	o, found := h.board.Order(id)
	if !found {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	origin, err := req.origin()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]order.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.Item{
			Name:     it.Name,
			Quantity: it.Quantity,
			Notes:    it.Notes,
			PrepTime: it.PrepTime,
		}
		if it.UnitPrice != "" {
			price, err := decimal.NewFromString(it.UnitPrice)
			if err != nil || price.IsNegative() {
				writeError(w, http.StatusBadRequest, "items["+it.Name+"]: invalid unit_price")
				return
			}
			items[i].UnitPrice = price
		}
	}

	created, err := h.board.AddOrder(order.Order{
		OrderNumber:    req.OrderNumber,
		Origin:         origin,
		Status:         order.Status(req.Status),
		IsRush:         req.IsRush,
		Category:       order.Category(req.Category),
		Items:          items,
		ElapsedMinutes: req.ElapsedMinutes,
	})
	if err != nil {
		switch {
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStopped):
			writeError(w, http.StatusServiceUnavailable, "kitchen is closed")
		default:
			slog.Error("create order", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (req createOrderRequest) origin() (order.Origin, error) {
	switch req.OriginKind {
	case enum.OriginTable:
		if req.TableNumber <= 0 {
			return nil, errors.New("table_number must be > 0")
		}
		return order.Table(req.TableNumber), nil
	case enum.OriginCustomer:
		if req.CustomerName == "" {
			return nil, errors.New("customer_name is required")
		}
		return order.CustomerOrigin{Name: req.CustomerName}, nil
	case enum.OriginDelivery:
		if req.Source == "" {
			return nil, errors.New("source is required")
		}
		return order.DeliveryOrigin{Source: req.Source}, nil
	case "":
		return nil, service.ErrNoOrigin
	}
	return nil, errors.New("origin_kind must be table, customer or delivery")
}

func isValidationError(err error) bool {
	for _, target := range []error{
		service.ErrNoOrigin,
		service.ErrNoItems,
		service.ErrInvalidQuantity,
		service.ErrInvalidCategory,
		service.ErrInvalidStatus,
		service.ErrInvalidOrderNumber,
		service.ErrInvalidElapsed,
		service.ErrDuplicateOrderNum,
		service.ErrStaleOrderNumber,
		service.ErrDuplicateItemID,
		service.ErrUnknownMenuItem,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Advance handles POST /orders/{id}/advance. Unknown orders are a no-op.
func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	h.board.AdvanceOrder(id)
	slog.Debug("order advanced", "order_id", id, "station", middleware.StationFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// Complete handles POST /orders/{id}/complete.
func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	h.board.CompleteOrder(id)
	slog.Debug("order bumped", "order_id", id, "station", middleware.StationFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// ToggleItem handles POST /orders/{id}/items/{itemID}/toggle.
func (h *OrderHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	h.board.ToggleItemComplete(id, chi.URLParam(r, "itemID"))
	w.WriteHeader(http.StatusNoContent)
}
