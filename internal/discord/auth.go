package discord

import (
	"os"
	"strings"

	"channelog/internal/domain"
)

// ResolveToken picks the credential for the REST path: the DISCORD_TOKEN
// environment variable wins over the configured value.
func ResolveToken(configured string) string {
	if env := strings.TrimSpace(os.Getenv("DISCORD_TOKEN")); env != "" {
		return env
	}
	return strings.TrimSpace(configured)
}

// AuthorizationHeader builds the Authorization header value for a token.
// Bot tokens need the "Bot " prefix; tokens that already carry a "Bot " or
// "Bearer " scheme are passed through unchanged.
func AuthorizationHeader(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrNoToken
	}
	lower := strings.ToLower(token)
	if strings.HasPrefix(lower, "bot ") || strings.HasPrefix(lower, "bearer ") {
		return token, nil
	}
	return "Bot " + token, nil
}
