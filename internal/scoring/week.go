package scoring

import (
	"fmt"
	"strconv"
	"time"
)

// Week IDs are ISO week labels of the form "2026-W09". Zero-padded so that
// lexicographic order matches chronological order.

// ParseWeekID validates a week label and returns its year and ISO week number.
// Every digit position must hold a digit; stored keys sort lexicographically,
// so nothing looser may get through.
func ParseWeekID(id string) (year, week int, err error) {
	if len(id) != 8 || id[4] != '-' || id[5] != 'W' {
		return 0, 0, &ValidationError{Msg: fmt.Sprintf("week id %q must look like 2026-W09", id)}
	}
	for _, i := range []int{0, 1, 2, 3, 6, 7} {
		if id[i] < '0' || id[i] > '9' {
			return 0, 0, &ValidationError{Msg: fmt.Sprintf("week id %q must look like 2026-W09", id)}
		}
	}
	year, _ = strconv.Atoi(id[:4])
	week, _ = strconv.Atoi(id[6:])
	if week < 1 || week > 53 {
		return 0, 0, &ValidationError{Msg: fmt.Sprintf("week id %q: week %d out of range [1,53]", id, week)}
	}
	return year, week, nil
}

// FormatWeekID returns the ISO week label for a point in time.
func FormatWeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
