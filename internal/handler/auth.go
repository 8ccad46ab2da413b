package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/kds/internal/auth"
	"github.com/kiwari-pos/kds/internal/enum"
)

// AuthHandler exchanges the station PIN for a bearer token.
type AuthHandler struct {
	pinHash   string
	jwtSecret string
}

func NewAuthHandler(pinHash, jwtSecret string) *AuthHandler {
	return &AuthHandler{pinHash: pinHash, jwtSecret: jwtSecret}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/pin", h.PinLogin)
}

type pinLoginRequest struct {
	Station string `json:"station"`
	Role    string `json:"role"`
	Pin     string `json:"pin"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Station   string    `json:"station"`
	Role      string    `json:"role"`
}

// PinLogin handles POST /auth/pin. Every station shares one PIN; the role
// defaults to KITCHEN.
func (h *AuthHandler) PinLogin(w http.ResponseWriter, r *http.Request) {
	var req pinLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Station == "" || req.Pin == "" {
		writeError(w, http.StatusBadRequest, "station and pin are required")
		return
	}
	if req.Role == "" {
		req.Role = enum.RoleKitchen
	}
	if req.Role != enum.RoleKitchen && req.Role != enum.RoleExpo {
		writeError(w, http.StatusBadRequest, "role must be KITCHEN or EXPO")
		return
	}

	if !auth.CheckPIN(h.pinHash, req.Pin) {
		slog.Warn("pin login rejected", "station", req.Station)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, req.Station, req.Role)
	if err != nil {
		slog.Error("generate token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(auth.TokenTTL),
		Station:   req.Station,
		Role:      req.Role,
	})
}
