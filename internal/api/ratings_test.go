package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRatingDefaultsToOne(t *testing.T) {
	router, _ := setupTestRouter()

	w := doRequest(router, "GET", "/api/v1/users/alice/rating", "member", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		UserID     string  `json:"user_id"`
		Multiplier float64 `json:"multiplier"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "alice", resp.UserID)
	assert.Equal(t, 1.0, resp.Multiplier)
}

func TestPutRatingRoundTrip(t *testing.T) {
	router, ms := setupTestRouter()

	w := doRequest(router, "PUT", "/api/v1/users/alice/rating", "lead",
		`{"multiplier":1.5,"notes":"strong quarter"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rating, ok := ms.ratings["alice"]
	require.True(t, ok)
	assert.Equal(t, 1.5, rating.Multiplier)
	assert.Equal(t, "strong quarter", rating.Notes)
	assert.Equal(t, "lead", rating.UpdatedBy)

	w = doRequest(router, "GET", "/api/v1/users/alice/rating", "member", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Multiplier float64 `json:"multiplier"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1.5, resp.Multiplier)
}

func TestPutRatingOutOfBounds(t *testing.T) {
	router, ms := setupTestRouter()

	for _, body := range []string{`{"multiplier":0.4}`, `{"multiplier":2.1}`, `{"multiplier":0}`} {
		w := doRequest(router, "PUT", "/api/v1/users/alice/rating", "lead", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
	}
	assert.Empty(t, ms.ratings)
}

func TestPutRatingPermissions(t *testing.T) {
	router, _ := setupTestRouter()

	// Plain members cannot rate other users.
	w := doRequest(router, "PUT", "/api/v1/users/alice/rating", "member", `{"multiplier":1.2}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Unknown actors are rejected outright.
	w = doRequest(router, "PUT", "/api/v1/users/alice/rating", "ghost", `{"multiplier":1.2}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
