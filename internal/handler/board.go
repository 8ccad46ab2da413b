package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/kds/internal/enum"
	"github.com/kiwari-pos/kds/internal/order"
	"github.com/kiwari-pos/kds/internal/service"
)

// BoardReader exposes the board-wide views.
type BoardReader interface {
	Snapshot() service.Snapshot
	Stats() service.Stats
	CategoryCounts() map[string]int
}

// BoardHandler serves the header bar and the station tabs.
type BoardHandler struct {
	board BoardReader
}

func NewBoardHandler(board BoardReader) *BoardHandler {
	return &BoardHandler{board: board}
}

func (h *BoardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/snapshot", h.Snapshot)
	r.Get("/stats", h.Stats)
	r.Get("/categories", h.Categories)
}

type categoryCountResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Snapshot handles GET /snapshot?category=. The category narrows the order
// lists only; counts and stats always cover the whole board.
func (h *BoardHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if !order.ValidFilter(category) {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}

	snap := h.board.Snapshot()
	snap.ActiveOrders = nonNil(order.ByCategory(snap.ActiveOrders, category))
	snap.CompletedOrders = nonNil(order.ByCategory(snap.CompletedOrders, category))
	writeJSON(w, http.StatusOK, snap)
}

func (h *BoardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.board.Stats())
}

// Categories handles GET /categories, in tab order starting with "all".
func (h *BoardHandler) Categories(w http.ResponseWriter, r *http.Request) {
	counts := h.board.CategoryCounts()

	resp := make([]categoryCountResponse, 0, len(order.Categories)+1)
	resp = append(resp, categoryCountResponse{Category: enum.CategoryAll, Count: counts[enum.CategoryAll]})
	for _, c := range order.Categories {
		resp = append(resp, categoryCountResponse{Category: string(c), Count: counts[string(c)]})
	}
	writeJSON(w, http.StatusOK, resp)
}

func nonNil(orders []order.Order) []order.Order {
	if orders == nil {
		return []order.Order{}
	}
	return orders
}
