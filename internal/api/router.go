package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crewware/tally/internal/engine"
	"github.com/crewware/tally/internal/scoring"
)

func NewRouter(svc *engine.Service, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	weights := NewWeightsHandler(svc)
	ratings := NewRatingsHandler(svc)
	scores := NewScoresHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ActorIDMiddleware)

		r.Get("/teams/{team_id}/weights", weights.Get)
		r.Put("/teams/{team_id}/weights", weights.Put)

		r.Get("/users/{user_id}/rating", ratings.Get)
		r.Put("/users/{user_id}/rating", ratings.Put)

		r.Post("/users/{user_id}/scores", scores.Submit)
		r.Get("/users/{user_id}/scores", scores.List)
		r.Get("/users/{user_id}/scores/{week_id}", scores.Get)
		r.Delete("/users/{user_id}/scores/{week_id}", scores.Delete)
		r.Get("/users/{user_id}/summary", scores.Summary)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/audit", scores.Audit)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the engine's error taxonomy onto status codes so the UI can
// tell "numbers don't add up" from "not allowed" from "nothing to delete".
func writeError(w http.ResponseWriter, err error) {
	var validationErr *scoring.ValidationError
	var permissionErr *engine.PermissionError
	var notFoundErr *engine.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": validationErr.Msg})
	case errors.As(err, &permissionErr):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": permissionErr.Msg})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": notFoundErr.Msg})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
