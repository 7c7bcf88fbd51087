package browser

import (
	"strings"
	"testing"
)

func TestBuildMessage_HeaderSplit(t *testing.T) {
	snap := itemSnapshot{
		ListItemID: "chat-messages-111",
		HeaderText: "Alice — Today at 1:23 PM",
		TextBlocks: [][]string{{"hello"}},
	}
	msg, ok := buildMessage(snap, DefaultProfile())
	if !ok {
		t.Fatal("expected message")
	}
	if msg.ID != "chat-messages-111" {
		t.Fatalf("id: %q", msg.ID)
	}
	if msg.Author != "Alice" {
		t.Fatalf("author: %q", msg.Author)
	}
	if msg.Timestamp != "Today at 1:23 PM" {
		t.Fatalf("timestamp: %q", msg.Timestamp)
	}
	if msg.Text != "hello" {
		t.Fatalf("text: %q", msg.Text)
	}
}

func TestBuildMessage_HeaderWithoutSeparator(t *testing.T) {
	snap := itemSnapshot{
		HeaderText: "Alice",
		TextBlocks: [][]string{{"hi"}},
	}
	msg, _ := buildMessage(snap, DefaultProfile())
	if msg.Author != "Alice" || msg.Timestamp != "" {
		t.Fatalf("author %q timestamp %q", msg.Author, msg.Timestamp)
	}
}

func TestBuildMessage_ISOTimestampOverridesHeuristic(t *testing.T) {
	snap := itemSnapshot{
		HeaderText: "Alice — Today at 1:23 PM",
		TimeISO:    "2025-06-02T13:23:00.000Z",
		TextBlocks: [][]string{{"hi"}},
	}
	msg, _ := buildMessage(snap, DefaultProfile())
	if msg.Timestamp != "2025-06-02T13:23:00.000Z" {
		t.Fatalf("timestamp: %q", msg.Timestamp)
	}
}

func TestBuildMessage_UsernameFallback(t *testing.T) {
	snap := itemSnapshot{
		Username:   "bob",
		TextBlocks: [][]string{{"hi"}},
	}
	msg, _ := buildMessage(snap, DefaultProfile())
	if msg.Author != "bob" {
		t.Fatalf("author: %q", msg.Author)
	}
}

func TestBuildMessage_AuthorBadgeStripped(t *testing.T) {
	snap := itemSnapshot{
		HeaderText: "Bob\nBOT — Yesterday at 9:00 AM",
		TextBlocks: [][]string{{"hi"}},
	}
	msg, _ := buildMessage(snap, DefaultProfile())
	if msg.Author != "Bob" {
		t.Fatalf("author: %q", msg.Author)
	}
}

func TestBuildMessage_TextSelectorFallback(t *testing.T) {
	// First selector matched nothing useful; second wins and blocks join
	// with newlines.
	snap := itemSnapshot{
		TextBlocks: [][]string{{"", "  "}, {"hello", "world"}},
	}
	msg, ok := buildMessage(snap, DefaultProfile())
	if !ok {
		t.Fatal("expected message")
	}
	if msg.Text != "hello\nworld" {
		t.Fatalf("text: %q", msg.Text)
	}
}

func TestBuildMessage_TextBlockCap(t *testing.T) {
	blocks := make([]string, 30)
	for i := range blocks {
		blocks[i] = "line"
	}
	snap := itemSnapshot{TextBlocks: [][]string{blocks}}
	msg, _ := buildMessage(snap, DefaultProfile())
	if got := strings.Count(msg.Text, "\n") + 1; got != 10 {
		t.Fatalf("got %d blocks, want 10", got)
	}
}

func TestBuildMessage_AttachmentFiltering(t *testing.T) {
	snap := itemSnapshot{
		Links: []string{
			"https://cdn.example.com/a.png",
			"/relative/path",
			"mailto:x@example.com",
			"http://example.com/b",
		},
	}
	msg, ok := buildMessage(snap, DefaultProfile())
	if !ok {
		t.Fatal("attachments alone should make a valid message")
	}
	want := []string{"https://cdn.example.com/a.png", "http://example.com/b"}
	if len(msg.Attachments) != len(want) {
		t.Fatalf("got %v", msg.Attachments)
	}
	for i := range want {
		if msg.Attachments[i] != want[i] {
			t.Fatalf("got %v, want %v", msg.Attachments, want)
		}
	}
}

func TestBuildMessage_AttachmentCap(t *testing.T) {
	var links []string
	for i := 0; i < 40; i++ {
		links = append(links, "https://example.com/x")
	}
	snap := itemSnapshot{Links: links}
	msg, _ := buildMessage(snap, DefaultProfile())
	if len(msg.Attachments) != 25 {
		t.Fatalf("got %d attachments, want 25", len(msg.Attachments))
	}
}

func TestBuildMessage_EmptyItemSkipped(t *testing.T) {
	snap := itemSnapshot{
		ListItemID: "chat-messages-1",
		HeaderText: "Alice — Today at 1:23 PM",
	}
	if _, ok := buildMessage(snap, DefaultProfile()); ok {
		t.Fatal("empty item must be skipped")
	}
}

func TestPickID_RequiresNamespacePrefix(t *testing.T) {
	snap := itemSnapshot{ListItemID: "members-1", ElementID: "chat-messages-7"}
	if got := pickID(snap, "chat-messages"); got != "chat-messages-7" {
		t.Fatalf("got %q", got)
	}

	snap = itemSnapshot{ListItemID: "members-1", ElementID: "other-7"}
	if got := pickID(snap, "chat-messages"); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
