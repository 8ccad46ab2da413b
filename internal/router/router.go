package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kiwari-pos/kds/internal/config"
	"github.com/kiwari-pos/kds/internal/enum"
	"github.com/kiwari-pos/kds/internal/handler"
	mw "github.com/kiwari-pos/kds/internal/middleware"
	"github.com/kiwari-pos/kds/internal/service"
	"github.com/kiwari-pos/kds/internal/ws"
)

// New creates a Chi router with all board routes wired up. When the config
// carries a PIN hash, mutations and the websocket require a station token
// and menu edits are limited to EXPO.
func New(cfg *config.Config, store *service.OrderStore, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	authenticate, expoOnly := mw.Passthrough, mw.Passthrough
	wsSecret := ""
	if cfg.AuthEnabled() {
		authenticate = mw.Authenticate(cfg.JWTSecret)
		expoOnly = mw.RequireRole(enum.RoleExpo)
		wsSecret = cfg.JWTSecret

		authHandler := handler.NewAuthHandler(cfg.PINHash, cfg.JWTSecret)
		r.Route("/auth", authHandler.RegisterRoutes)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Warn("falling back to local time for exports", "error", err)
		loc = time.Local
	}

	orderHandler := handler.NewOrderHandler(store)
	boardHandler := handler.NewBoardHandler(store)
	historyHandler := handler.NewHistoryHandler(store, time.Now, loc)
	menuHandler := handler.NewMenuHandler(store.Menu())

	// Reads are open so wall displays need no login.
	boardHandler.RegisterRoutes(r)
	r.Route("/history", historyHandler.RegisterRoutes)
	r.Route("/orders", func(r chi.Router) {
		orderHandler.RegisterRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			orderHandler.RegisterActions(r)
		})
	})
	r.Route("/menu", func(r chi.Router) {
		menuHandler.RegisterRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(authenticate, expoOnly)
			menuHandler.RegisterActions(r)
		})
	})

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, store, wsSecret, w, r)
	})

	slog.Info("router initialized", "auth", cfg.AuthEnabled())
	return r
}
