package export

import (
	"fmt"
	"strings"
	"time"

	"channelog/internal/domain"
)

// The two acquisition paths use deliberately different cutoff semantics,
// inherited behavior that is documented rather than unified: the API path
// compares UTC-aware instants with strict less-than during pagination, while
// the DOM post-pass compares local wall-clock days and falls back to the
// "Today"/"Yesterday" tokens the UI renders.

// ParseSinceUTC resolves a since spec ("today" or YYYY-MM-DD) to the UTC
// midnight instant used by the API path. Empty means no cutoff.
func ParseSinceUTC(since string, now time.Time) (*time.Time, error) {
	return parseSince(since, now, time.UTC)
}

// ParseSinceLocal resolves a since spec to the local midnight used by the
// DOM post-pass. Empty means no cutoff.
func ParseSinceLocal(since string, now time.Time) (*time.Time, error) {
	return parseSince(since, now, now.Location())
}

func parseSince(since string, now time.Time, loc *time.Location) (*time.Time, error) {
	since = strings.TrimSpace(since)
	if since == "" {
		return nil, nil
	}
	if strings.EqualFold(since, "today") {
		cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		return &cutoff, nil
	}
	day, err := time.Parse("2006-01-02", since)
	if err != nil {
		return nil, fmt.Errorf("invalid since %q (want YYYY-MM-DD or 'today'): %w", since, err)
	}
	cutoff := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return &cutoff, nil
}

// FilterSince is the DOM-path post-pass: it keeps records at or after the
// cutoff. ISO timestamps are compared directly; heuristic UI tokens fall
// back to day arithmetic ("Today" always keeps, "Yesterday" keeps when the
// previous day is still at or after the cutoff). Records whose timestamp
// resolves to nothing are dropped.
func FilterSince(records []domain.MessageRecord, cutoff time.Time, now time.Time) []domain.MessageRecord {
	kept := make([]domain.MessageRecord, 0, len(records))
	for _, rec := range records {
		if keepSince(rec.Timestamp, cutoff, now) {
			kept = append(kept, rec)
		}
	}
	return kept
}

func keepSince(timestamp string, cutoff, now time.Time) bool {
	if ts, err := time.Parse(time.RFC3339, timestamp); err == nil {
		local := ts.In(cutoff.Location())
		return !local.Before(cutoff)
	}
	if strings.Contains(timestamp, "Today") {
		return true
	}
	if strings.Contains(timestamp, "Yesterday") {
		return !now.Add(-24 * time.Hour).Before(cutoff)
	}
	return false
}
