package discord

import (
	"errors"
	"testing"

	"channelog/internal/domain"
)

func TestAuthorizationHeader_AddsBotPrefix(t *testing.T) {
	got, err := AuthorizationHeader("abc123")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Bot abc123" {
		t.Fatalf("got %q", got)
	}
}

func TestAuthorizationHeader_PassthroughBot(t *testing.T) {
	got, err := AuthorizationHeader("Bot abc123")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Bot abc123" {
		t.Fatalf("got %q", got)
	}
}

func TestAuthorizationHeader_PassthroughBearerCaseInsensitive(t *testing.T) {
	got, err := AuthorizationHeader("bearer tok")
	if err != nil {
		t.Fatal(err)
	}
	if got != "bearer tok" {
		t.Fatalf("got %q", got)
	}
}

func TestAuthorizationHeader_TrimsWhitespace(t *testing.T) {
	got, err := AuthorizationHeader("  abc  ")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Bot abc" {
		t.Fatalf("got %q", got)
	}
}

func TestAuthorizationHeader_EmptyToken(t *testing.T) {
	if _, err := AuthorizationHeader("  "); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestResolveToken_EnvWins(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	if got := ResolveToken("config-token"); got != "env-token" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveToken_FallsBackToConfig(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	if got := ResolveToken(" config-token "); got != "config-token" {
		t.Fatalf("got %q", got)
	}
}
