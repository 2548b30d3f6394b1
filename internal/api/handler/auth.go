package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mcoot/pointsync/internal/api/request"
	"github.com/mcoot/pointsync/internal/api/response"
	"github.com/mcoot/pointsync/internal/auth"
	"github.com/mcoot/pointsync/internal/points"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *auth.Service
	engine      *points.Engine
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, engine *points.Engine) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		engine:      engine,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("username and password are required"))
		return
	}

	session, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	// The sign-in event has been handled synchronously by now, so any guest
	// balance migration outcome is ready for notification
	migration := response.MigrationFromResult(h.engine.TakeMigrationNotice())
	response.JSON(w, http.StatusCreated, response.AuthFromSession(session, migration))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	migration := response.MigrationFromResult(h.engine.TakeMigrationNotice())
	response.JSON(w, http.StatusOK, response.AuthFromSession(session, migration))
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r)
	if token == "" {
		WriteError(w, NewUnauthorizedError())
		return
	}

	if err := h.authService.Logout(token); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// GetSession handles GET /api/v1/auth/session
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r)
	if token == "" {
		WriteError(w, NewUnauthorizedError())
		return
	}

	session, err := h.authService.ValidateSession(token)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AuthFromSession(session, nil))
}

// extractToken extracts the session token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
