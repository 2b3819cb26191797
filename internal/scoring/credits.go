package scoring

import "fmt"

// KeyResultScale is the discrete scale admins pick per-key-result scores from.
var KeyResultScale = []float64{0, 0.4, 0.6, 0.8, 1.0}

// KeyResult is one objective/key-result entry for a week.
type KeyResult struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// Validate checks the score sits on the discrete scale and the weight is positive.
func (kr KeyResult) Validate() error {
	onScale := false
	for _, s := range KeyResultScale {
		if kr.Score == s {
			onScale = true
			break
		}
	}
	if !onScale {
		return &ValidationError{Msg: fmt.Sprintf("key result score %g not on scale {0, 0.4, 0.6, 0.8, 1}", kr.Score)}
	}
	if kr.Weight <= 0 {
		return &ValidationError{Msg: fmt.Sprintf("key result weight %g must be positive", kr.Weight)}
	}
	return nil
}

// ExecutionCredit normalizes hours worked against the full-time threshold.
// 0 at 0 hours, linear up to the threshold, saturates at 1.0 beyond it.
func ExecutionCredit(hours, fullTimeHours float64) float64 {
	if fullTimeHours <= 0 {
		return 0
	}
	return clamp(hours, 0, fullTimeHours) / fullTimeHours
}

// ObjectiveCredit is the weighted average of key-result scores.
// An empty list (or zero total weight) yields 0: no credit without outcomes.
func ObjectiveCredit(results []KeyResult) float64 {
	var sum, totalWeight float64
	for _, kr := range results {
		sum += kr.Score * kr.Weight
		totalWeight += kr.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return sum / totalWeight
}

// CollaborationCredit clamps the manually-entered collaboration value into [0,1].
// Out-of-range values are clamped, not rejected; the entry screen is trusted.
func CollaborationCredit(raw float64) float64 {
	return clamp(raw, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
