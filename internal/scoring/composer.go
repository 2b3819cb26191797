package scoring

import (
	"context"
	"log/slog"
)

// WeightResolver returns the weight configuration to apply for a team,
// falling back to the system default when the team has none.
type WeightResolver interface {
	ResolveWeights(ctx context.Context, teamID string) (WeightSet, error)
}

// MultiplierResolver returns a user's performance multiplier, 1.0 when unrated.
type MultiplierResolver interface {
	ResolveMultiplier(ctx context.Context, userID string) (float64, error)
}

// Input bundles the normalized component credits plus the raw hours for one
// (user, week) scoring pass.
type Input struct {
	UserID        string
	TeamID        string
	HoursWorked   float64
	Execution     float64
	Objective     float64
	Collaboration float64
}

// Result is the full decomposition of a weekly credit score, returned whole so
// callers can show the breakdown and not just the final number.
type Result struct {
	Execution     float64   `json:"execution"`
	Objective     float64   `json:"objective"`
	Collaboration float64   `json:"collaboration"`
	BaseScore     float64   `json:"base_score"`
	FinalScore    float64   `json:"final_score"`
	Multiplier    float64   `json:"multiplier"`
	Weights       WeightSet `json:"weights"`
	CheckMark     bool      `json:"check_mark"`
}

// Composer blends component credits into the weekly credit score using the
// team's weights and the user's performance multiplier.
type Composer struct {
	weights           WeightResolver
	ratings           MultiplierResolver
	checkMarkMinHours float64
	logger            *slog.Logger
}

// NewComposer creates a Composer with the given resolvers and check-mark
// hours threshold.
func NewComposer(weights WeightResolver, ratings MultiplierResolver, checkMarkMinHours float64, logger *slog.Logger) *Composer {
	return &Composer{
		weights:           weights,
		ratings:           ratings,
		checkMarkMinHours: checkMarkMinHours,
		logger:            logger,
	}
}

// Compose runs the full composition for one week:
//
//	base  = (EC*wE + OC*wO + CC*wC) / 100
//	final = clamp(base * multiplier, 0, 1)
//	check = hours >= threshold && raw OC == 1
//
// The stored weight invariant (sum == 100) is asserted here as well as at
// write time; a skewed blend is worse than a loud failure.
func (c *Composer) Compose(ctx context.Context, in Input) (Result, error) {
	weights, err := c.weights.ResolveWeights(ctx, in.TeamID)
	if err != nil {
		return Result{}, err
	}
	if err := weights.Validate(); err != nil {
		c.logger.Error("stored weights violate sum invariant",
			"team_id", in.TeamID,
			"execution", weights.Execution,
			"objective", weights.Objective,
			"collaboration", weights.Collaboration,
		)
		return Result{}, err
	}

	multiplier, err := c.ratings.ResolveMultiplier(ctx, in.UserID)
	if err != nil {
		return Result{}, err
	}

	base := (in.Execution*float64(weights.Execution) +
		in.Objective*float64(weights.Objective) +
		in.Collaboration*float64(weights.Collaboration)) / 100

	// Check mark uses the raw objective credit, not its weighted contribution.
	checkMark := in.HoursWorked >= c.checkMarkMinHours && in.Objective == 1

	return Result{
		Execution:     in.Execution,
		Objective:     in.Objective,
		Collaboration: in.Collaboration,
		BaseScore:     base,
		FinalScore:    clamp(base*multiplier, 0, 1),
		Multiplier:    multiplier,
		Weights:       weights,
		CheckMark:     checkMark,
	}, nil
}
