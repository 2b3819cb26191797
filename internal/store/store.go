package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WeightConfig is a team's active credit weighting. At most one per team;
// absence means the system default applies.
type WeightConfig struct {
	TeamID        string    `json:"team_id"`
	Execution     int       `json:"execution"`
	Objective     int       `json:"objective"`
	Collaboration int       `json:"collaboration"`
	UpdatedBy     string    `json:"updated_by"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PerformanceRating is a user's active performance multiplier. At most one per
// user; absence means multiplier 1.0.
type PerformanceRating struct {
	UserID     string    `json:"user_id"`
	Multiplier float64   `json:"multiplier"`
	Notes      string    `json:"notes,omitempty"`
	UpdatedBy  string    `json:"updated_by"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// WeeklyScoreRecord is one composed weekly credit score, keyed by
// (user, ISO week). Exactly one record per key; resubmission replaces.
type WeeklyScoreRecord struct {
	UserID        string    `json:"user_id"`
	WeekID        string    `json:"week_id"`
	Execution     float64   `json:"execution"`
	Objective     float64   `json:"objective"`
	Collaboration float64   `json:"collaboration"`
	BaseScore     float64   `json:"base_score"`
	Multiplier    float64   `json:"multiplier"`
	FinalScore    float64   `json:"final_score"`
	CheckMark     bool      `json:"check_mark"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuditEntry records a score deletion: who deleted what, with the full
// deleted record. Deletions are never silent.
type AuditEntry struct {
	ID        uuid.UUID          `json:"id"`
	Actor     string             `json:"actor"`
	Action    string             `json:"action"`
	UserID    string             `json:"user_id"`
	WeekID    string             `json:"week_id"`
	Record    *WeeklyScoreRecord `json:"record,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

const ActionScoreDeleted = "score_deleted"

type Store interface {
	// Weight configs, keyed by team. Get returns nil when the team has none.
	GetWeightConfig(ctx context.Context, teamID string) (*WeightConfig, error)
	SaveWeightConfig(ctx context.Context, cfg *WeightConfig) error

	// Performance ratings, keyed by user. Get returns nil for unrated users.
	GetRating(ctx context.Context, userID string) (*PerformanceRating, error)
	SaveRating(ctx context.Context, rating *PerformanceRating) error

	// Weekly score records, keyed by (user, week).
	UpsertScore(ctx context.Context, rec *WeeklyScoreRecord) error
	GetScore(ctx context.Context, userID, weekID string) (*WeeklyScoreRecord, error)
	ListScores(ctx context.Context, userID string) ([]*WeeklyScoreRecord, error)

	// DeleteScoreWithAudit removes a record and writes its audit entry in the
	// same transaction, returning the deleted record. Returns nil when no
	// record exists for the key; nothing is written in that case.
	DeleteScoreWithAudit(ctx context.Context, userID, weekID, actor string) (*WeeklyScoreRecord, error)

	ListAuditEntries(ctx context.Context, limit int) ([]*AuditEntry, error)

	Close() error
}
