package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mcoot/pointsync/internal/api/request"
	"github.com/mcoot/pointsync/internal/api/response"
	"github.com/mcoot/pointsync/internal/points"
)

// PointsHandler handles balance and ledger endpoints
type PointsHandler struct {
	engine *points.Engine
}

// NewPointsHandler creates a new points handler
func NewPointsHandler(engine *points.Engine) *PointsHandler {
	return &PointsHandler{
		engine: engine,
	}
}

// GetBalance handles GET /api/v1/points
func (h *PointsHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Balance{
		Balance: h.engine.Balance(),
		Actor:   response.ActorFromModel(h.engine.CurrentActor()),
	})
}

// GetHistory handles GET /api/v1/points/history
func (h *PointsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	history := h.engine.History()
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	response.JSON(w, http.StatusOK, response.HistoryFromModel(history))
}

// AddPoints handles POST /api/v1/points/add
func (h *PointsHandler) AddPoints(w http.ResponseWriter, r *http.Request) {
	var req request.AddPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Reason == "" {
		WriteError(w, NewInvalidRequestError("reason is required"))
		return
	}

	balance, err := h.engine.AddPoints(r.Context(), req.Amount, req.Reason)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Balance{
		Balance: balance,
		Actor:   response.ActorFromModel(h.engine.CurrentActor()),
	})
}
