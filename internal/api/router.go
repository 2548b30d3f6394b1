package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pointsync/internal/api/handler"
	"github.com/mcoot/pointsync/internal/api/middleware"
	"github.com/mcoot/pointsync/internal/auth"
	"github.com/mcoot/pointsync/internal/content"
	"github.com/mcoot/pointsync/internal/points"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Engine      *points.Engine
	AuthService *auth.Service
	Content     *content.Cache
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	pointsHandler := handler.NewPointsHandler(cfg.Engine)
	playsHandler := handler.NewPlaysHandler(cfg.Engine)
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Engine)
	brandsHandler := handler.NewBrandsHandler(cfg.Content)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Points routes
	api.HandleFunc("/points", pointsHandler.GetBalance).Methods(http.MethodGet)
	api.HandleFunc("/points/history", pointsHandler.GetHistory).Methods(http.MethodGet)
	api.HandleFunc("/points/add", pointsHandler.AddPoints).Methods(http.MethodPost)

	// Daily quota routes
	api.HandleFunc("/plays", playsHandler.Record).Methods(http.MethodPost)
	api.HandleFunc("/plays/today", playsHandler.GetToday).Methods(http.MethodGet)
	api.HandleFunc("/plays/allowance", playsHandler.GetAllowance).Methods(http.MethodGet)

	// Auth routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/session", authHandler.GetSession).Methods(http.MethodGet)

	// Brand catalog routes
	api.HandleFunc("/brands", brandsHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/brands/invalidate", brandsHandler.Invalidate).Methods(http.MethodPost)
	api.HandleFunc("/brands/{id}", brandsHandler.Get).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
