package export

import (
	"testing"

	"channelog/internal/browser"
	"channelog/internal/discord"
)

func TestFromAPI_DisplayNamePreference(t *testing.T) {
	records := FromAPI([]discord.Message{
		{ID: "1", Content: "hi", Author: discord.Author{Username: "alice", GlobalName: "Alice A"}},
		{ID: "2", Content: "yo", Author: discord.Author{Username: "bob"}},
	})
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}
	if records[0].AuthorDisplayName != "Alice A" {
		t.Fatalf("display name: %q", records[0].AuthorDisplayName)
	}
	if records[1].AuthorDisplayName != "bob" {
		t.Fatalf("display name fallback: %q", records[1].AuthorDisplayName)
	}
}

func TestFromAPI_AvatarFallsBackToSprite(t *testing.T) {
	records := FromAPI([]discord.Message{
		{ID: "1", Content: "hi", Author: discord.Author{ID: "123", Discriminator: "7"}},
	})
	want := "https://cdn.discordapp.com/embed/avatars/2.png"
	if records[0].AuthorAvatarURL != want {
		t.Fatalf("avatar: %q", records[0].AuthorAvatarURL)
	}
}

func TestFromAPI_EmptyMessageDropped(t *testing.T) {
	records := FromAPI([]discord.Message{
		{ID: "1", Author: discord.Author{Username: "alice"}},
		{ID: "2", Content: "kept", Author: discord.Author{Username: "alice"}},
	})
	if len(records) != 1 || records[0].MessageID != "2" {
		t.Fatalf("got %+v", records)
	}
}

func TestFromAPI_AttachmentOnlyMessageKept(t *testing.T) {
	records := FromAPI([]discord.Message{
		{ID: "1", Attachments: []discord.Attachment{{URL: "https://cdn.example.com/a.png"}, {URL: ""}}},
	})
	if len(records) != 1 {
		t.Fatal("attachment-only message must survive")
	}
	if len(records[0].Attachments) != 1 {
		t.Fatalf("attachments: %v", records[0].Attachments)
	}
}

func TestFromAPI_MissingAuthorDoesNotCrash(t *testing.T) {
	records := FromAPI([]discord.Message{{ID: "1", Content: "hi"}})
	if len(records) != 1 {
		t.Fatal("message with no author must survive")
	}
	if records[0].AuthorAvatarURL == "" {
		t.Fatal("even an unknown author gets the default sprite")
	}
}

func TestFromDOM_EmptyDroppedAndAuthorMapped(t *testing.T) {
	records := FromDOM([]browser.Message{
		{ID: "chat-messages-1", Author: "Alice", Timestamp: "Today at 1:23 PM", Text: "hi"},
		{ID: "chat-messages-2"},
	})
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	rec := records[0]
	if rec.Author != "Alice" || rec.AuthorDisplayName != "Alice" {
		t.Fatalf("author mapping: %+v", rec)
	}
	if rec.AuthorAvatarURL != "" {
		t.Fatal("DOM path must not resolve avatars")
	}
}
