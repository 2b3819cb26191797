package scoring

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubWeights struct {
	weights WeightSet
}

func (s stubWeights) ResolveWeights(_ context.Context, _ string) (WeightSet, error) {
	return s.weights, nil
}

type stubRatings struct {
	multiplier float64
}

func (s stubRatings) ResolveMultiplier(_ context.Context, _ string) (float64, error) {
	return s.multiplier, nil
}

func newTestComposer(weights WeightSet, multiplier float64) *Composer {
	return NewComposer(stubWeights{weights}, stubRatings{multiplier}, 20, discardLogger())
}

func TestComposeDefaultScenario(t *testing.T) {
	// Default team, no rating, hours=40, one perfect key result, CC=0.8.
	c := newTestComposer(DefaultWeights(), 1.0)

	result, err := c.Compose(context.Background(), Input{
		UserID:        "u1",
		TeamID:        "t1",
		HoursWorked:   40,
		Execution:     ExecutionCredit(40, 40),
		Objective:     ObjectiveCredit([]KeyResult{{Score: 1, Weight: 1}}),
		Collaboration: CollaborationCredit(0.8),
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if result.Execution != 1 || result.Objective != 1 || result.Collaboration != 0.8 {
		t.Errorf("unexpected components: %+v", result)
	}
	if math.Abs(result.BaseScore-0.98) > 1e-9 {
		t.Errorf("expected base 0.98, got %g", result.BaseScore)
	}
	if result.Multiplier != 1.0 {
		t.Errorf("expected multiplier 1.0, got %g", result.Multiplier)
	}
	if math.Abs(result.FinalScore-0.98) > 1e-9 {
		t.Errorf("expected final 0.98, got %g", result.FinalScore)
	}
	if !result.CheckMark {
		t.Error("expected check mark for 40h and perfect objective credit")
	}
}

func TestComposeCustomWeightsAndMultiplier(t *testing.T) {
	// Objective-only weighting with a 1.5x multiplier: 0.6 -> 0.9.
	c := newTestComposer(WeightSet{Execution: 0, Objective: 100, Collaboration: 0}, 1.5)

	result, err := c.Compose(context.Background(), Input{
		UserID:    "u1",
		TeamID:    "t1",
		Objective: 0.6,
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if math.Abs(result.BaseScore-0.6) > 1e-9 {
		t.Errorf("expected base 0.6, got %g", result.BaseScore)
	}
	if math.Abs(result.FinalScore-0.9) > 1e-9 {
		t.Errorf("expected final 0.9, got %g", result.FinalScore)
	}
}

func TestComposeMultiplierClampsAtOne(t *testing.T) {
	c := newTestComposer(DefaultWeights(), 2.0)

	result, err := c.Compose(context.Background(), Input{
		UserID:        "u1",
		HoursWorked:   40,
		Execution:     1,
		Objective:     1,
		Collaboration: 1,
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	// base 1.0 * 2.0 would be 2.0; the display range caps it.
	if result.FinalScore != 1.0 {
		t.Errorf("expected final clamped to 1.0, got %g", result.FinalScore)
	}
}

func TestComposeFinalScoreAlwaysInRange(t *testing.T) {
	weights := []WeightSet{
		DefaultWeights(),
		{Execution: 100, Objective: 0, Collaboration: 0},
		{Execution: 0, Objective: 0, Collaboration: 100},
		{Execution: 25, Objective: 25, Collaboration: 50},
	}
	multipliers := []float64{0.5, 1.0, 1.5, 2.0}
	components := []float64{0, 0.25, 0.5, 0.75, 1}

	for _, w := range weights {
		for _, m := range multipliers {
			c := newTestComposer(w, m)
			for _, ec := range components {
				for _, oc := range components {
					for _, cc := range components {
						result, err := c.Compose(context.Background(), Input{
							Execution: ec, Objective: oc, Collaboration: cc,
						})
						if err != nil {
							t.Fatalf("Compose failed: %v", err)
						}
						if result.FinalScore < 0 || result.FinalScore > 1 {
							t.Fatalf("final score %g out of [0,1] for w=%+v m=%g ec=%g oc=%g cc=%g",
								result.FinalScore, w, m, ec, oc, cc)
						}
					}
				}
			}
		}
	}
}

func TestComposeCheckMarkUsesRawObjective(t *testing.T) {
	// Zero objective weight must not affect the check mark.
	c := newTestComposer(WeightSet{Execution: 100, Objective: 0, Collaboration: 0}, 1.0)

	result, err := c.Compose(context.Background(), Input{
		HoursWorked: 25,
		Execution:   0.625,
		Objective:   1,
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !result.CheckMark {
		t.Error("expected check mark from raw objective credit despite zero weight")
	}

	result, err = c.Compose(context.Background(), Input{
		HoursWorked: 19.9,
		Execution:   0.5,
		Objective:   1,
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if result.CheckMark {
		t.Error("expected no check mark below the hours threshold")
	}

	result, err = c.Compose(context.Background(), Input{
		HoursWorked: 40,
		Execution:   1,
		Objective:   0.8,
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if result.CheckMark {
		t.Error("expected no check mark for imperfect objective credit")
	}
}

func TestComposeRejectsSkewedWeights(t *testing.T) {
	c := newTestComposer(WeightSet{Execution: 50, Objective: 50, Collaboration: 10}, 1.0)

	_, err := c.Compose(context.Background(), Input{Execution: 1, Objective: 1, Collaboration: 1})
	if err == nil {
		t.Fatal("expected error for weights summing to 110")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestComposeDeterministic(t *testing.T) {
	c := newTestComposer(DefaultWeights(), 1.3)
	in := Input{UserID: "u1", TeamID: "t1", HoursWorked: 30, Execution: 0.75, Objective: 0.8, Collaboration: 0.5}

	first, err := c.Compose(context.Background(), in)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	second, err := c.Compose(context.Background(), in)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if first != second {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
}
