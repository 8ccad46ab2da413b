package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/kds/internal/history"
	"github.com/kiwari-pos/kds/internal/order"
)

// CompletedSource supplies the orders shown in the history view.
type CompletedSource interface {
	CompletedOrders() []order.Order
}

// HistoryHandler serves search and CSV export over completed orders.
type HistoryHandler struct {
	source CompletedSource
	now    func() time.Time
	loc    *time.Location
}

// NewHistoryHandler creates a HistoryHandler. Export times are rendered in
// loc (time.Local when nil).
func NewHistoryHandler(source CompletedSource, now func() time.Time, loc *time.Location) *HistoryHandler {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &HistoryHandler{source: source, now: now, loc: loc}
}

func (h *HistoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/export.csv", h.Export)
}

// List handles GET /history?q=.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	orders := history.Search(h.source.CompletedOrders(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, listResponse(orders))
}

// Export handles GET /history/export.csv?q=.
func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	orders := history.Search(h.source.CompletedOrders(), r.URL.Query().Get("q"))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+history.Filename(h.now().In(h.loc))+`"`)
	if err := history.WriteCSV(w, orders, h.loc); err != nil {
		// Headers are already out; all we can do is log.
		slog.Error("export history", "orders", len(orders), "error", err)
	}
}
