package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/crewware/tally/internal/beacon"
	"github.com/crewware/tally/internal/roster"
	"github.com/crewware/tally/internal/scoring"
	"github.com/crewware/tally/internal/store"
)

// Options carries the engine's tunables. Defaults are injected here rather
// than read from a package-level singleton so tests can substitute them.
type Options struct {
	DefaultWeights    scoring.WeightSet
	FullTimeHours     float64
	CheckMarkMinHours float64
	QuarterWindow     int
}

// DefaultOptions returns the production tunables.
func DefaultOptions() Options {
	return Options{
		DefaultWeights:    scoring.DefaultWeights(),
		FullTimeHours:     40,
		CheckMarkMinHours: 20,
		QuarterWindow:     13,
	}
}

// Service runs the weekly credit scoring engine: it resolves per-team weights
// and per-user multipliers, composes scores, and owns every write path.
// Each operation is one synchronous administrative action.
type Service struct {
	store    store.Store
	roster   roster.Client
	bus      beacon.Client // nil when events are disabled
	composer *scoring.Composer
	opts     Options
	logger   *slog.Logger

	// Configs and ratings are read on every score composition and written
	// rarely; both are cached and invalidated on write.
	weightMu    sync.RWMutex
	weightCache map[string]scoring.WeightSet
	ratingMu    sync.RWMutex
	ratingCache map[string]float64

	// One lock per (user, week) so racing upserts serialize instead of
	// interleaving last-write-wins.
	keyMu    sync.Mutex
	keyLocks map[string]*sync.Mutex
}

func New(s store.Store, r roster.Client, bus beacon.Client, opts Options, logger *slog.Logger) *Service {
	svc := &Service{
		store:       s,
		roster:      r,
		bus:         bus,
		opts:        opts,
		logger:      logger,
		weightCache: make(map[string]scoring.WeightSet),
		ratingCache: make(map[string]float64),
		keyLocks:    make(map[string]*sync.Mutex),
	}
	svc.composer = scoring.NewComposer(svc, svc, opts.CheckMarkMinHours, logger)
	return svc
}

// ResolveWeights returns the team's stored weights verbatim, or the injected
// default when the team is unknown or has no config. Absence is not an error.
func (s *Service) ResolveWeights(ctx context.Context, teamID string) (scoring.WeightSet, error) {
	if teamID == "" {
		return s.opts.DefaultWeights, nil
	}

	s.weightMu.RLock()
	cached, ok := s.weightCache[teamID]
	s.weightMu.RUnlock()
	if ok {
		return cached, nil
	}

	cfg, err := s.store.GetWeightConfig(ctx, teamID)
	if err != nil {
		return scoring.WeightSet{}, fmt.Errorf("get weight config: %w", err)
	}
	weights := s.opts.DefaultWeights
	if cfg != nil {
		weights = scoring.WeightSet{
			Execution:     cfg.Execution,
			Objective:     cfg.Objective,
			Collaboration: cfg.Collaboration,
		}
	}

	s.weightMu.Lock()
	s.weightCache[teamID] = weights
	s.weightMu.Unlock()
	return weights, nil
}

// ResolveMultiplier returns the user's performance multiplier, 1.0 when unrated.
func (s *Service) ResolveMultiplier(ctx context.Context, userID string) (float64, error) {
	s.ratingMu.RLock()
	cached, ok := s.ratingCache[userID]
	s.ratingMu.RUnlock()
	if ok {
		return cached, nil
	}

	rating, err := s.store.GetRating(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get rating: %w", err)
	}
	multiplier := 1.0
	if rating != nil {
		multiplier = rating.Multiplier
	}

	s.ratingMu.Lock()
	s.ratingCache[userID] = multiplier
	s.ratingMu.Unlock()
	return multiplier, nil
}

// SaveWeights replaces a team's weight config wholesale. Only an owner or the
// team's lead may write; weights must sum to exactly 100.
func (s *Service) SaveWeights(ctx context.Context, actorID, teamID string, weights scoring.WeightSet) error {
	if err := weights.Validate(); err != nil {
		return err
	}

	actor, err := s.roster.GetActor(ctx, actorID)
	if err != nil {
		return fmt.Errorf("look up actor: %w", err)
	}
	if actor == nil {
		return &PermissionError{Msg: fmt.Sprintf("unknown actor %q", actorID)}
	}
	if actor.Role != roster.RoleOwner {
		team, err := s.roster.GetTeam(ctx, teamID)
		if err != nil {
			return fmt.Errorf("look up team: %w", err)
		}
		if team == nil || team.LeadID != actor.ID {
			return &PermissionError{Msg: fmt.Sprintf("actor %q is not an owner or the lead of team %q", actorID, teamID)}
		}
	}

	cfg := &store.WeightConfig{
		TeamID:        teamID,
		Execution:     weights.Execution,
		Objective:     weights.Objective,
		Collaboration: weights.Collaboration,
		UpdatedBy:     actorID,
	}
	if err := s.store.SaveWeightConfig(ctx, cfg); err != nil {
		return fmt.Errorf("save weight config: %w", err)
	}

	s.weightMu.Lock()
	delete(s.weightCache, teamID)
	s.weightMu.Unlock()

	s.logger.Info("weight config saved",
		"team_id", teamID,
		"execution", weights.Execution,
		"objective", weights.Objective,
		"collaboration", weights.Collaboration,
		"actor", actorID,
	)
	if s.bus != nil {
		_ = s.bus.Publish(beacon.SubjectWeightsUpdated(teamID), beacon.WeightsUpdatedEvent{
			TeamID:        teamID,
			Execution:     weights.Execution,
			Objective:     weights.Objective,
			Collaboration: weights.Collaboration,
			UpdatedBy:     actorID,
		})
	}
	return nil
}

// SaveRating replaces a user's performance rating. Owners may rate anyone;
// admins only users on their own team.
func (s *Service) SaveRating(ctx context.Context, actorID, userID string, multiplier float64, notes string) error {
	if multiplier < 0.5 || multiplier > 2.0 {
		return &scoring.ValidationError{Msg: fmt.Sprintf("multiplier %g out of range [0.5, 2.0]", multiplier)}
	}

	actor, err := s.roster.GetActor(ctx, actorID)
	if err != nil {
		return fmt.Errorf("look up actor: %w", err)
	}
	if actor == nil {
		return &PermissionError{Msg: fmt.Sprintf("unknown actor %q", actorID)}
	}
	if actor.Role != roster.RoleOwner {
		subject, err := s.roster.GetActor(ctx, userID)
		if err != nil {
			return fmt.Errorf("look up rated user: %w", err)
		}
		if subject == nil {
			return &NotFoundError{Msg: fmt.Sprintf("unknown user %q", userID)}
		}
		if actor.Role != roster.RoleAdmin || actor.TeamID == "" || actor.TeamID != subject.TeamID {
			return &PermissionError{Msg: fmt.Sprintf("actor %q may not rate user %q outside their own team", actorID, userID)}
		}
	}

	rating := &store.PerformanceRating{
		UserID:     userID,
		Multiplier: multiplier,
		Notes:      notes,
		UpdatedBy:  actorID,
	}
	if err := s.store.SaveRating(ctx, rating); err != nil {
		return fmt.Errorf("save rating: %w", err)
	}

	s.ratingMu.Lock()
	delete(s.ratingCache, userID)
	s.ratingMu.Unlock()

	s.logger.Info("performance rating saved", "user_id", userID, "multiplier", multiplier, "actor", actorID)
	if s.bus != nil {
		_ = s.bus.Publish(beacon.SubjectRatingUpdated(userID), beacon.RatingUpdatedEvent{
			UserID:     userID,
			Multiplier: multiplier,
			UpdatedBy:  actorID,
		})
	}
	return nil
}

// SubmitWeekInput carries the raw weekly numbers as an admin enters them.
type SubmitWeekInput struct {
	UserID        string              `json:"user_id"`
	WeekID        string              `json:"week_id"`
	HoursWorked   float64             `json:"hours_worked"`
	KeyResults    []scoring.KeyResult `json:"key_results"`
	Collaboration float64             `json:"collaboration"`
}

// SubmitWeek normalizes raw inputs, composes the weekly credit score, and
// upserts the (user, week) record, replacing any prior submission.
func (s *Service) SubmitWeek(ctx context.Context, actorID string, in SubmitWeekInput) (*store.WeeklyScoreRecord, error) {
	if _, _, err := scoring.ParseWeekID(in.WeekID); err != nil {
		return nil, err
	}
	for _, kr := range in.KeyResults {
		if err := kr.Validate(); err != nil {
			return nil, err
		}
	}

	actor, err := s.roster.GetActor(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("look up actor: %w", err)
	}
	if actor == nil {
		return nil, &PermissionError{Msg: fmt.Sprintf("unknown actor %q", actorID)}
	}
	subject, err := s.roster.GetActor(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if subject == nil {
		return nil, &NotFoundError{Msg: fmt.Sprintf("unknown user %q", in.UserID)}
	}
	if actor.Role != roster.RoleOwner {
		if actor.Role != roster.RoleAdmin || actor.TeamID == "" || actor.TeamID != subject.TeamID {
			return nil, &PermissionError{Msg: fmt.Sprintf("actor %q may not enter scores for user %q", actorID, in.UserID)}
		}
	}

	result, err := s.composer.Compose(ctx, scoring.Input{
		UserID:        in.UserID,
		TeamID:        subject.TeamID,
		HoursWorked:   in.HoursWorked,
		Execution:     scoring.ExecutionCredit(in.HoursWorked, s.opts.FullTimeHours),
		Objective:     scoring.ObjectiveCredit(in.KeyResults),
		Collaboration: scoring.CollaborationCredit(in.Collaboration),
	})
	if err != nil {
		return nil, err
	}

	rec := &store.WeeklyScoreRecord{
		UserID:        in.UserID,
		WeekID:        in.WeekID,
		Execution:     result.Execution,
		Objective:     result.Objective,
		Collaboration: result.Collaboration,
		BaseScore:     result.BaseScore,
		Multiplier:    result.Multiplier,
		FinalScore:    result.FinalScore,
		CheckMark:     result.CheckMark,
	}

	unlock := s.lockKey(in.UserID + "/" + in.WeekID)
	err = s.store.UpsertScore(ctx, rec)
	unlock()
	if err != nil {
		return nil, fmt.Errorf("upsert score: %w", err)
	}

	s.logger.Info("weekly score upserted",
		"user_id", in.UserID,
		"week_id", in.WeekID,
		"final_score", result.FinalScore,
		"check_mark", result.CheckMark,
		"actor", actorID,
	)
	if s.bus != nil {
		_ = s.bus.Publish(beacon.SubjectScoreUpserted(in.UserID), beacon.ScoreUpsertedEvent{
			UserID:     in.UserID,
			WeekID:     in.WeekID,
			FinalScore: result.FinalScore,
			CheckMark:  result.CheckMark,
			EnteredBy:  actorID,
		})
	}
	return rec, nil
}

// GetScore returns one (user, week) record.
func (s *Service) GetScore(ctx context.Context, userID, weekID string) (*store.WeeklyScoreRecord, error) {
	if _, _, err := scoring.ParseWeekID(weekID); err != nil {
		return nil, err
	}
	rec, err := s.store.GetScore(ctx, userID, weekID)
	if err != nil {
		return nil, fmt.Errorf("get score: %w", err)
	}
	if rec == nil {
		return nil, &NotFoundError{Msg: fmt.Sprintf("no score for user %q week %q", userID, weekID)}
	}
	return rec, nil
}

// ListScores returns a user's score history, most recent week first. Empty
// history is an empty slice, not an error.
func (s *Service) ListScores(ctx context.Context, userID string) ([]*store.WeeklyScoreRecord, error) {
	records, err := s.store.ListScores(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return records, nil
}

// DeleteScore removes a score record. Owner-only, and the deletion commits
// together with its audit entry or not at all.
func (s *Service) DeleteScore(ctx context.Context, actorID, userID, weekID string) error {
	actor, err := s.roster.GetActor(ctx, actorID)
	if err != nil {
		return fmt.Errorf("look up actor: %w", err)
	}
	if actor == nil || actor.Role != roster.RoleOwner {
		return &PermissionError{Msg: fmt.Sprintf("actor %q is not an owner", actorID)}
	}

	unlock := s.lockKey(userID + "/" + weekID)
	rec, err := s.store.DeleteScoreWithAudit(ctx, userID, weekID, actorID)
	unlock()
	if err != nil {
		return fmt.Errorf("delete score: %w", err)
	}
	if rec == nil {
		return &NotFoundError{Msg: fmt.Sprintf("no score for user %q week %q", userID, weekID)}
	}

	s.logger.Info("weekly score deleted", "user_id", userID, "week_id", weekID, "actor", actorID)
	if s.bus != nil {
		_ = s.bus.Publish(beacon.SubjectScoreDeleted(userID), beacon.ScoreDeletedEvent{
			UserID:    userID,
			WeekID:    weekID,
			DeletedBy: actorID,
		})
	}
	return nil
}

// QuarterSummary computes the trailing-window dashboard summary. A window of
// 0 uses the configured quarter window.
func (s *Service) QuarterSummary(ctx context.Context, userID string, window int) (scoring.Summary, error) {
	if window <= 0 {
		window = s.opts.QuarterWindow
	}
	records, err := s.store.ListScores(ctx, userID)
	if err != nil {
		return scoring.Summary{}, fmt.Errorf("list scores: %w", err)
	}
	return scoring.Aggregate(records, window), nil
}

// ListAuditEntries exposes the deletion audit trail for the admin screen.
func (s *Service) ListAuditEntries(ctx context.Context, limit int) ([]*store.AuditEntry, error) {
	entries, err := s.store.ListAuditEntries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

func (s *Service) lockKey(key string) func() {
	s.keyMu.Lock()
	mu, ok := s.keyLocks[key]
	if !ok {
		mu = &sync.Mutex{}
		s.keyLocks[key] = mu
	}
	s.keyMu.Unlock()
	mu.Lock()
	return mu.Unlock
}
