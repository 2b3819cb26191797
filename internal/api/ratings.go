package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewware/tally/internal/engine"
)

type RatingsHandler struct {
	svc *engine.Service
}

func NewRatingsHandler(svc *engine.Service) *RatingsHandler {
	return &RatingsHandler{svc: svc}
}

// Get returns the resolved multiplier. Unrated users resolve to 1.0.
// GET /api/v1/users/{user_id}/rating
func (h *RatingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	multiplier, err := h.svc.ResolveMultiplier(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":    userID,
		"multiplier": multiplier,
	})
}

type SaveRatingRequest struct {
	Multiplier float64 `json:"multiplier"`
	Notes      string  `json:"notes,omitempty"`
}

// Put replaces a user's performance rating.
// PUT /api/v1/users/{user_id}/rating
func (h *RatingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req SaveRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	actorID := r.Header.Get("X-Actor-ID")
	if err := h.svc.SaveRating(r.Context(), actorID, userID, req.Multiplier, req.Notes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":    userID,
		"multiplier": req.Multiplier,
	})
}
