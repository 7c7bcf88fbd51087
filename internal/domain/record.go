package domain

// MessageRecord is the normalized form of a single chat message, produced by
// either acquisition path and consumed by the renderer and the archive.
// Records are never mutated after construction; pipeline stages build new
// records or drop items.
type MessageRecord struct {
	MessageID         string   `json:"message_id,omitempty"`
	AuthorID          string   `json:"author_id,omitempty"`
	Author            string   `json:"author,omitempty"`
	AuthorDisplayName string   `json:"author_display_name,omitempty"`
	AuthorAvatarURL   string   `json:"author_avatar_url,omitempty"`
	// Timestamp is an ISO-8601 instant when the source provides one (API
	// path), or a human-readable token like "Today at 1:23 PM" (DOM path).
	Timestamp   string   `json:"timestamp,omitempty"`
	Text        string   `json:"text"`
	Attachments []string `json:"attachments,omitempty"`
}

// Empty reports whether the record carries no content at all. Empty records
// are not valid output and must be dropped before emission.
func (r MessageRecord) Empty() bool {
	return r.Text == "" && len(r.Attachments) == 0
}
