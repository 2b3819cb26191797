package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewware/tally/internal/engine"
	"github.com/crewware/tally/internal/scoring"
)

type WeightsHandler struct {
	svc *engine.Service
}

func NewWeightsHandler(svc *engine.Service) *WeightsHandler {
	return &WeightsHandler{svc: svc}
}

// Get returns the resolved weights for a team. Teams without a config resolve
// to the system default, so this never 404s.
// GET /api/v1/teams/{team_id}/weights
func (h *WeightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "team_id")

	weights, err := h.svc.ResolveWeights(r.Context(), teamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"team_id": teamID,
		"weights": weights,
	})
}

// Put replaces a team's weight config wholesale.
// PUT /api/v1/teams/{team_id}/weights
func (h *WeightsHandler) Put(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "team_id")

	var req scoring.WeightSet
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	actorID := r.Header.Get("X-Actor-ID")
	if err := h.svc.SaveWeights(r.Context(), actorID, teamID, req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"team_id": teamID,
		"weights": req,
	})
}
