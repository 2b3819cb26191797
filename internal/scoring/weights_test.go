package scoring

import (
	"errors"
	"testing"
)

func TestDefaultWeightsSumToHundred(t *testing.T) {
	w := DefaultWeights()
	if err := w.Validate(); err != nil {
		t.Errorf("default weights invalid: %v", err)
	}
	if w.Sum() != 100 {
		t.Errorf("default weights sum to %d, expected 100", w.Sum())
	}
	if w.Execution != 40 || w.Objective != 50 || w.Collaboration != 10 {
		t.Errorf("unexpected defaults: %+v", w)
	}
}

func TestWeightSetValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights WeightSet
		wantErr bool
	}{
		{"defaults", WeightSet{40, 50, 10}, false},
		{"objective only", WeightSet{0, 100, 0}, false},
		{"even split fails", WeightSet{33, 33, 33}, true},
		{"sums to 110", WeightSet{50, 50, 10}, true},
		{"negative component", WeightSet{-10, 100, 10}, true},
		{"component over 100", WeightSet{110, -5, -5}, true},
		{"zero", WeightSet{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error for %+v", tt.weights)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for %+v: %v", tt.weights, err)
			}
			if err != nil {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			}
		})
	}
}
