package discord

import (
	"fmt"
	"strconv"
	"strings"
)

const cdnBase = "https://cdn.discordapp.com"

// AvatarURL returns the best-effort avatar URL for a user. Users with an
// uploaded avatar get a CDN URL keyed by user id and hash (animated avatars
// carry an "a_" hash prefix and use gif); everyone else gets one of the five
// default sprites, indexed by discriminator mod 5.
func AvatarURL(userID, avatarHash, discriminator string) string {
	if userID != "" && avatarHash != "" {
		ext := "png"
		if strings.HasPrefix(avatarHash, "a_") {
			ext = "gif"
		}
		return fmt.Sprintf("%s/avatars/%s/%s.%s?size=80", cdnBase, userID, avatarHash, ext)
	}
	idx := 0
	if discriminator != "" {
		if n, err := strconv.Atoi(discriminator); err == nil {
			idx = n % 5
			if idx < 0 {
				idx = -idx
			}
		}
	}
	return fmt.Sprintf("%s/embed/avatars/%d.png", cdnBase, idx)
}
