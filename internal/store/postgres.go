package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS credit_weight_configs (
			team_id       TEXT PRIMARY KEY,
			execution     INT NOT NULL,
			objective     INT NOT NULL,
			collaboration INT NOT NULL,
			updated_by    TEXT NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS performance_ratings (
			user_id    TEXT PRIMARY KEY,
			multiplier DOUBLE PRECISION NOT NULL,
			notes      TEXT NOT NULL DEFAULT '',
			updated_by TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS weekly_scores (
			user_id       TEXT NOT NULL,
			week_id       TEXT NOT NULL,
			execution     DOUBLE PRECISION NOT NULL,
			objective     DOUBLE PRECISION NOT NULL,
			collaboration DOUBLE PRECISION NOT NULL,
			base_score    DOUBLE PRECISION NOT NULL,
			multiplier    DOUBLE PRECISION NOT NULL,
			final_score   DOUBLE PRECISION NOT NULL,
			check_mark    BOOLEAN NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (user_id, week_id)
		);
		CREATE TABLE IF NOT EXISTS credit_audit_log (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			actor      TEXT NOT NULL,
			action     TEXT NOT NULL,
			user_id    TEXT NOT NULL,
			week_id    TEXT NOT NULL,
			record     JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	return err
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetWeightConfig(ctx context.Context, teamID string) (*WeightConfig, error) {
	cfg := &WeightConfig{}
	err := s.pool.QueryRow(ctx, `
		SELECT team_id, execution, objective, collaboration, updated_by, updated_at
		FROM credit_weight_configs WHERE team_id = $1`, teamID,
	).Scan(&cfg.TeamID, &cfg.Execution, &cfg.Objective, &cfg.Collaboration, &cfg.UpdatedBy, &cfg.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *PostgresStore) SaveWeightConfig(ctx context.Context, cfg *WeightConfig) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO credit_weight_configs (team_id, execution, objective, collaboration, updated_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (team_id) DO UPDATE SET
			execution = EXCLUDED.execution,
			objective = EXCLUDED.objective,
			collaboration = EXCLUDED.collaboration,
			updated_by = EXCLUDED.updated_by,
			updated_at = now()
		RETURNING updated_at`,
		cfg.TeamID, cfg.Execution, cfg.Objective, cfg.Collaboration, cfg.UpdatedBy,
	).Scan(&cfg.UpdatedAt)
}

func (s *PostgresStore) GetRating(ctx context.Context, userID string) (*PerformanceRating, error) {
	r := &PerformanceRating{}
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, multiplier, notes, updated_by, updated_at
		FROM performance_ratings WHERE user_id = $1`, userID,
	).Scan(&r.UserID, &r.Multiplier, &r.Notes, &r.UpdatedBy, &r.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) SaveRating(ctx context.Context, rating *PerformanceRating) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO performance_ratings (user_id, multiplier, notes, updated_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			multiplier = EXCLUDED.multiplier,
			notes = EXCLUDED.notes,
			updated_by = EXCLUDED.updated_by,
			updated_at = now()
		RETURNING updated_at`,
		rating.UserID, rating.Multiplier, rating.Notes, rating.UpdatedBy,
	).Scan(&rating.UpdatedAt)
}

const scoreColumns = `user_id, week_id, execution, objective, collaboration,
	base_score, multiplier, final_score, check_mark, created_at`

func (s *PostgresStore) UpsertScore(ctx context.Context, rec *WeeklyScoreRecord) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO weekly_scores (user_id, week_id, execution, objective, collaboration,
			base_score, multiplier, final_score, check_mark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, week_id) DO UPDATE SET
			execution = EXCLUDED.execution,
			objective = EXCLUDED.objective,
			collaboration = EXCLUDED.collaboration,
			base_score = EXCLUDED.base_score,
			multiplier = EXCLUDED.multiplier,
			final_score = EXCLUDED.final_score,
			check_mark = EXCLUDED.check_mark,
			created_at = now()
		RETURNING created_at`,
		rec.UserID, rec.WeekID, rec.Execution, rec.Objective, rec.Collaboration,
		rec.BaseScore, rec.Multiplier, rec.FinalScore, rec.CheckMark,
	).Scan(&rec.CreatedAt)
}

func (s *PostgresStore) GetScore(ctx context.Context, userID, weekID string) (*WeeklyScoreRecord, error) {
	rec := &WeeklyScoreRecord{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+scoreColumns+`
		FROM weekly_scores WHERE user_id = $1 AND week_id = $2`, userID, weekID,
	).Scan(
		&rec.UserID, &rec.WeekID, &rec.Execution, &rec.Objective, &rec.Collaboration,
		&rec.BaseScore, &rec.Multiplier, &rec.FinalScore, &rec.CheckMark, &rec.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *PostgresStore) ListScores(ctx context.Context, userID string) ([]*WeeklyScoreRecord, error) {
	// Week ids are zero-padded, so lexicographic DESC is chronological DESC.
	rows, err := s.pool.Query(ctx, `
		SELECT `+scoreColumns+`
		FROM weekly_scores WHERE user_id = $1
		ORDER BY week_id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScores(rows)
}

func (s *PostgresStore) DeleteScoreWithAudit(ctx context.Context, userID, weekID, actor string) (*WeeklyScoreRecord, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rec := &WeeklyScoreRecord{}
	err = tx.QueryRow(ctx, `
		DELETE FROM weekly_scores WHERE user_id = $1 AND week_id = $2
		RETURNING `+scoreColumns, userID, weekID,
	).Scan(
		&rec.UserID, &rec.WeekID, &rec.Execution, &rec.Objective, &rec.Collaboration,
		&rec.BaseScore, &rec.Multiplier, &rec.FinalScore, &rec.CheckMark, &rec.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO credit_audit_log (actor, action, user_id, week_id, record)
		VALUES ($1, $2, $3, $4, $5)`,
		actor, ActionScoreDeleted, userID, weekID, recordJSON,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *PostgresStore) ListAuditEntries(ctx context.Context, limit int) ([]*AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, actor, action, user_id, week_id, record, created_at
		FROM credit_audit_log
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*AuditEntry
	for rows.Next() {
		e := &AuditEntry{}
		var recordJSON []byte
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.UserID, &e.WeekID, &recordJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		if recordJSON != nil {
			if err := json.Unmarshal(recordJSON, &e.Record); err != nil {
				slog.Warn("audit entry has corrupt record payload",
					"audit_id", e.ID, "user_id", e.UserID, "week_id", e.WeekID, "error", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanScores(rows pgx.Rows) ([]*WeeklyScoreRecord, error) {
	var records []*WeeklyScoreRecord
	for rows.Next() {
		rec := &WeeklyScoreRecord{}
		if err := rows.Scan(
			&rec.UserID, &rec.WeekID, &rec.Execution, &rec.Objective, &rec.Collaboration,
			&rec.BaseScore, &rec.Multiplier, &rec.FinalScore, &rec.CheckMark, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
