package archive

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"channelog/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewStore(filepath.Join(t.TempDir(), "archive.db"), logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordRun_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	records := []domain.MessageRecord{
		{MessageID: "2", Author: "alice", AuthorDisplayName: "Alice A",
			Timestamp: "2025-06-02T10:00:00Z", Text: "newest",
			Attachments: []string{"https://cdn.example.com/a.png"}},
		{MessageID: "1", Author: "bob", Timestamp: "2025-06-02T09:00:00Z", Text: "older"},
	}

	runID, err := store.RecordRun(ctx, Run{ChannelID: "chan", Source: "api", Since: "today"}, records)
	if err != nil {
		t.Fatal(err)
	}
	if runID == 0 {
		t.Fatal("expected non-zero run id")
	}

	loaded, err := store.RunMessages(ctx, runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("got %d messages", len(loaded))
	}
	if loaded[0].MessageID != "2" || loaded[1].MessageID != "1" {
		t.Fatal("stored order not preserved")
	}
	if len(loaded[0].Attachments) != 1 || loaded[0].Attachments[0] != "https://cdn.example.com/a.png" {
		t.Fatalf("attachments: %v", loaded[0].Attachments)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.RecordRun(ctx, Run{ChannelID: "a", Source: "api"}, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordRun(ctx, Run{ChannelID: "b", Source: "dom"}, []domain.MessageRecord{{Text: "x"}}); err != nil {
		t.Fatal(err)
	}

	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs", len(runs))
	}
	if runs[0].ChannelID != "b" {
		t.Fatal("expected newest run first")
	}
	if runs[0].MessageCount != 1 || runs[1].MessageCount != 0 {
		t.Fatalf("message counts: %d, %d", runs[0].MessageCount, runs[1].MessageCount)
	}
}

func TestRunMessages_UnknownRun(t *testing.T) {
	store := newTestStore(t)
	records, err := store.RunMessages(context.Background(), 999)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records", len(records))
	}
}
