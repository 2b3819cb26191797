package scoring

import (
	"github.com/crewware/tally/internal/store"
)

// Summary is the rolling dashboard view over a user's score history.
type Summary struct {
	// AverageWCS is the mean final score over the most recent window.
	AverageWCS float64 `json:"average_wcs"`
	// CheckMarkCount counts check marks over the full history, not the
	// window. It is a lifetime achievement counter.
	CheckMarkCount int `json:"check_mark_count"`
	// WeeksCounted is how many records fed the average.
	WeeksCounted int `json:"weeks_counted"`
}

// Aggregate computes the trailing-window summary over score records ordered
// most-recent week first (the order ListScores returns). An empty history
// yields a zero Summary, never NaN.
func Aggregate(records []*store.WeeklyScoreRecord, windowSize int) Summary {
	var s Summary
	for _, rec := range records {
		if rec.CheckMark {
			s.CheckMarkCount++
		}
	}

	window := records
	if windowSize > 0 && len(records) > windowSize {
		window = records[:windowSize]
	}
	if len(window) == 0 {
		return s
	}

	var sum float64
	for _, rec := range window {
		sum += rec.FinalScore
	}
	s.AverageWCS = sum / float64(len(window))
	s.WeeksCounted = len(window)
	return s
}
