package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/crewware/tally/internal/engine"
	"github.com/crewware/tally/internal/scoring"
	"github.com/crewware/tally/internal/store"
)

type ScoresHandler struct {
	svc *engine.Service
}

func NewScoresHandler(svc *engine.Service) *ScoresHandler {
	return &ScoresHandler{svc: svc}
}

type SubmitScoreRequest struct {
	WeekID        string              `json:"week_id"`
	HoursWorked   float64             `json:"hours_worked"`
	KeyResults    []scoring.KeyResult `json:"key_results"`
	Collaboration float64             `json:"collaboration"`
}

// Submit enters raw weekly numbers for a user and upserts the composed score.
// POST /api/v1/users/{user_id}/scores
func (h *ScoresHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.WeekID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week_id required"})
		return
	}

	actorID := r.Header.Get("X-Actor-ID")
	rec, err := h.svc.SubmitWeek(r.Context(), actorID, engine.SubmitWeekInput{
		UserID:        userID,
		WeekID:        req.WeekID,
		HoursWorked:   req.HoursWorked,
		KeyResults:    req.KeyResults,
		Collaboration: req.Collaboration,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// List returns the user's score history, most recent week first.
// GET /api/v1/users/{user_id}/scores
func (h *ScoresHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	records, err := h.svc.ListScores(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []*store.WeeklyScoreRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Get returns one week's record.
// GET /api/v1/users/{user_id}/scores/{week_id}
func (h *ScoresHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	weekID := chi.URLParam(r, "week_id")

	rec, err := h.svc.GetScore(r.Context(), userID, weekID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete removes one score record. Owner-level only; the deletion is audited.
// DELETE /api/v1/users/{user_id}/scores/{week_id}
func (h *ScoresHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	weekID := chi.URLParam(r, "week_id")

	actorID := r.Header.Get("X-Actor-ID")
	if err := h.svc.DeleteScore(r.Context(), actorID, userID, weekID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Summary returns the trailing-window quarter summary for dashboards.
// GET /api/v1/users/{user_id}/summary?window=13
func (h *ScoresHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	window := 0
	if v := r.URL.Query().Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid window"})
			return
		}
		window = n
	}

	summary, err := h.svc.QuarterSummary(r.Context(), userID, window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Audit lists recent deletion audit entries.
// GET /api/v1/audit?limit=100
func (h *ScoresHandler) Audit(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	entries, err := h.svc.ListAuditEntries(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []*store.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
