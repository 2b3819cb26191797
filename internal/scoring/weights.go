package scoring

import "fmt"

// WeightSet defines the per-team percentage allocation across the three credit
// components. All weights are whole percentages and must sum to exactly 100.
type WeightSet struct {
	Execution     int `json:"execution"`
	Objective     int `json:"objective"`
	Collaboration int `json:"collaboration"`
}

// DefaultWeights returns the system-wide weight distribution applied when a
// team has no stored configuration.
func DefaultWeights() WeightSet {
	return WeightSet{
		Execution:     40,
		Objective:     50,
		Collaboration: 10,
	}
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() int {
	return w.Execution + w.Objective + w.Collaboration
}

// Validate checks that weights sum to exactly 100 and each is in [0, 100].
func (w WeightSet) Validate() error {
	for _, v := range []int{w.Execution, w.Objective, w.Collaboration} {
		if v < 0 || v > 100 {
			return &ValidationError{Msg: fmt.Sprintf("weight %d out of range [0,100]", v)}
		}
	}
	if w.Sum() != 100 {
		return &ValidationError{Msg: fmt.Sprintf("weights sum to %d, must sum to 100", w.Sum())}
	}
	return nil
}
