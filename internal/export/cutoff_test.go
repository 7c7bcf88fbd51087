package export

import (
	"testing"
	"time"

	"channelog/internal/domain"
)

func TestParseSinceUTC_Today(t *testing.T) {
	now := time.Date(2025, 6, 2, 15, 30, 0, 0, time.Local)
	cutoff, err := ParseSinceUTC("today", now)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if !cutoff.Equal(want) {
		t.Fatalf("got %v, want %v", cutoff, want)
	}
}

func TestParseSinceUTC_Date(t *testing.T) {
	cutoff, err := ParseSinceUTC("2025-03-04", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	if !cutoff.Equal(want) {
		t.Fatalf("got %v, want %v", cutoff, want)
	}
}

func TestParseSinceUTC_Empty(t *testing.T) {
	cutoff, err := ParseSinceUTC("", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if cutoff != nil {
		t.Fatalf("got %v, want nil", cutoff)
	}
}

func TestParseSinceUTC_Invalid(t *testing.T) {
	if _, err := ParseSinceUTC("03/04/2025", time.Now()); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseSinceLocal_Today(t *testing.T) {
	now := time.Date(2025, 6, 2, 15, 30, 0, 0, time.Local)
	cutoff, err := ParseSinceLocal("today", now)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	if !cutoff.Equal(want) {
		t.Fatalf("got %v, want %v", cutoff, want)
	}
}

func recordsWithTimestamps(stamps ...string) []domain.MessageRecord {
	records := make([]domain.MessageRecord, len(stamps))
	for i, ts := range stamps {
		records[i] = domain.MessageRecord{Timestamp: ts, Text: "x"}
	}
	return records
}

func TestFilterSince_ISOComparison(t *testing.T) {
	now := time.Date(2025, 6, 2, 15, 0, 0, 0, time.Local)
	cutoff := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)

	records := recordsWithTimestamps(
		time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local).Format(time.RFC3339),  // today, keep
		time.Date(2025, 6, 1, 23, 0, 0, 0, time.Local).Format(time.RFC3339), // yesterday, drop
	)
	kept := FilterSince(records, cutoff, now)
	if len(kept) != 1 {
		t.Fatalf("got %d records, want 1", len(kept))
	}
}

func TestFilterSince_TodayTokenKept(t *testing.T) {
	now := time.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	kept := FilterSince(recordsWithTimestamps("Today at 1:23 PM"), cutoff, now)
	if len(kept) != 1 {
		t.Fatal("Today token must keep the record")
	}
}

func TestFilterSince_YesterdayAgainstTodayCutoff(t *testing.T) {
	now := time.Date(2025, 6, 2, 15, 0, 0, 0, time.Local)
	cutoff := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	kept := FilterSince(recordsWithTimestamps("Yesterday at 9:00 AM"), cutoff, now)
	if len(kept) != 0 {
		t.Fatal("Yesterday is before a today-midnight cutoff")
	}
}

func TestFilterSince_YesterdayAgainstOlderCutoff(t *testing.T) {
	now := time.Date(2025, 6, 2, 15, 0, 0, 0, time.Local)
	cutoff := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	kept := FilterSince(recordsWithTimestamps("Yesterday at 9:00 AM"), cutoff, now)
	if len(kept) != 1 {
		t.Fatal("Yesterday is within a yesterday-midnight cutoff")
	}
}

func TestFilterSince_UnparseableDropped(t *testing.T) {
	now := time.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	kept := FilterSince(recordsWithTimestamps("last Tuesday", ""), cutoff, now)
	if len(kept) != 0 {
		t.Fatalf("got %d records, want 0", len(kept))
	}
}
