package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/kds/internal/menu"
	"github.com/kiwari-pos/kds/internal/order"
	"github.com/shopspring/decimal"
)

// MenuStore defines the catalogue operations needed by menu handlers.
// Satisfied by *menu.Catalog.
type MenuStore interface {
	List(category, search string) []menu.Item
	Get(name string) (menu.Item, bool)
	Upsert(it menu.Item) (bool, error)
	Delete(name string) error
}

// MenuHandler handles menu endpoints.
type MenuHandler struct {
	store MenuStore
}

func NewMenuHandler(store MenuStore) *MenuHandler {
	return &MenuHandler{store: store}
}

func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterActions registers the catalogue edits.
func (h *MenuHandler) RegisterActions(r chi.Router) {
	r.Put("/{name}", h.Upsert)
	r.Delete("/{name}", h.Delete)
}

type menuItemResponse struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	PrepTime    int    `json:"prep_time"`
	Available   bool   `json:"available"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

type upsertMenuItemRequest struct {
	Price       string `json:"price"`
	Category    string `json:"category"`
	PrepTime    int    `json:"prep_time"`
	Available   *bool  `json:"available"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func toMenuItemResponse(it menu.Item) menuItemResponse {
	return menuItemResponse{
		Name:        it.Name,
		Price:       it.Price.StringFixed(2),
		Category:    string(it.Category),
		PrepTime:    it.PrepTime,
		Available:   it.Available,
		Description: it.Description,
		Image:       it.Image,
	}
}

// List handles GET /menu?category=&q=.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if !order.ValidFilter(category) {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}

	items := h.store.List(category, r.URL.Query().Get("q"))
	resp := make([]menuItemResponse, len(items))
	for i, it := range items {
		resp[i] = toMenuItemResponse(it)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Upsert handles PUT /menu/{name}. Returns 201 for a new dish, 200 for an
// update.
func (h *MenuHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price")
		return
	}

	it := menu.Item{
		Name:        chi.URLParam(r, "name"),
		Price:       price,
		Category:    order.Category(req.Category),
		PrepTime:    req.PrepTime,
		Available:   true,
		Description: req.Description,
		Image:       req.Image,
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	created, err := h.store.Upsert(it)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		slog.Info("menu item added", "name", it.Name, "category", it.Category)
	}
	stored, _ := h.store.Get(it.Name)
	writeJSON(w, status, toMenuItemResponse(stored))
}

// Delete handles DELETE /menu/{name}.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(chi.URLParam(r, "name")); err != nil {
		if errors.Is(err, menu.ErrNotFound) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		slog.Error("delete menu item", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
