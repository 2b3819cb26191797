package scoring

import (
	"testing"
	"time"
)

func TestParseWeekID(t *testing.T) {
	year, week, err := ParseWeekID("2026-W09")
	if err != nil {
		t.Fatalf("ParseWeekID failed: %v", err)
	}
	if year != 2026 || week != 9 {
		t.Errorf("expected 2026/9, got %d/%d", year, week)
	}
}

func TestParseWeekIDInvalid(t *testing.T) {
	bad := []string{
		"", "2026", "2026-09", "2026-W9", "2026W09", "2026-W00", "2026-W54",
		"26-W09", "abcd-Wxy",
		// Right shape, non-digit positions. These must not become store keys.
		"2026-W1a", "2026-W 9", "+026-W09", "202x-W09", "-026-W09",
	}
	for _, id := range bad {
		if _, _, err := ParseWeekID(id); err == nil {
			t.Errorf("expected error for %q", id)
		}
	}
}

func TestFormatWeekID(t *testing.T) {
	// 2026-01-01 is a Thursday, ISO week 1.
	got := FormatWeekID(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if got != "2026-W01" {
		t.Errorf("expected 2026-W01, got %s", got)
	}

	if _, _, err := ParseWeekID(got); err != nil {
		t.Errorf("formatted id should parse: %v", err)
	}
}
