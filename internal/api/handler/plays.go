package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/pointsync/internal/api/request"
	"github.com/mcoot/pointsync/internal/api/response"
	"github.com/mcoot/pointsync/internal/model"
	"github.com/mcoot/pointsync/internal/points"
)

// PlaysHandler handles daily quota endpoints
type PlaysHandler struct {
	engine *points.Engine
}

// NewPlaysHandler creates a new plays handler
func NewPlaysHandler(engine *points.Engine) *PlaysHandler {
	return &PlaysHandler{
		engine: engine,
	}
}

// GetToday handles GET /api/v1/plays/today
func (h *PlaysHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	quota, records := h.engine.TodayPlays()
	response.JSON(w, http.StatusOK, response.TodayPlaysFromModel(quota, records))
}

// GetAllowance handles GET /api/v1/plays/allowance
func (h *PlaysHandler) GetAllowance(w http.ResponseWriter, r *http.Request) {
	used, limit := h.engine.Allowance()
	response.JSON(w, http.StatusOK, response.Allowance{
		CanPlay:    h.engine.CanPlay(),
		PlaysUsed:  used,
		DailyLimit: limit,
	})
}

// Record handles POST /api/v1/plays.
// Game flows call this once per session, at game start, so an abandoned
// game still consumes a play.
func (h *PlaysHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req request.RecordPlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	gameType := model.GameType(req.GameType)
	if !gameType.Valid() {
		WriteError(w, NewInvalidRequestError("unknown game_type"))
		return
	}

	if err := h.engine.RecordGamePlay(r.Context(), gameType, req.BrandID); err != nil {
		WriteError(w, err)
		return
	}

	quota, records := h.engine.TodayPlays()
	response.JSON(w, http.StatusOK, response.TodayPlaysFromModel(quota, records))
}
