// Package export turns raw items from either acquisition path into the
// common MessageRecord schema and applies the time cutoff.
package export

import (
	"channelog/internal/browser"
	"channelog/internal/discord"
	"channelog/internal/domain"
	"channelog/internal/metrics"
)

// FromAPI normalizes raw REST messages. Every input field is optional; the
// display name prefers the global name over the username, and a missing
// avatar hash resolves to the default sprite.
func FromAPI(msgs []discord.Message) []domain.MessageRecord {
	dropped := metrics.Collector.Counter("channelog_records_dropped_total", "records dropped as empty during normalization")

	records := make([]domain.MessageRecord, 0, len(msgs))
	for _, m := range msgs {
		display := m.Author.GlobalName
		if display == "" {
			display = m.Author.Username
		}

		var attachments []string
		for _, a := range m.Attachments {
			if a.URL != "" {
				attachments = append(attachments, a.URL)
			}
		}

		rec := domain.MessageRecord{
			MessageID:         m.ID,
			AuthorID:          m.Author.ID,
			Author:            m.Author.Username,
			AuthorDisplayName: display,
			AuthorAvatarURL:   discord.AvatarURL(m.Author.ID, m.Author.Avatar, m.Author.Discriminator),
			Timestamp:         m.Timestamp,
			Text:              m.Content,
			Attachments:       attachments,
		}
		if rec.Empty() {
			dropped.Inc()
			continue
		}
		records = append(records, rec)
	}
	return records
}

// FromDOM normalizes scraped DOM items. The web client already rendered any
// avatar, so none is resolved here and the author fields collapse to the one
// name the header showed.
func FromDOM(msgs []browser.Message) []domain.MessageRecord {
	dropped := metrics.Collector.Counter("channelog_records_dropped_total", "records dropped as empty during normalization")

	records := make([]domain.MessageRecord, 0, len(msgs))
	for _, m := range msgs {
		rec := domain.MessageRecord{
			MessageID:         m.ID,
			Author:            m.Author,
			AuthorDisplayName: m.Author,
			Timestamp:         m.Timestamp,
			Text:              m.Text,
			Attachments:       m.Attachments,
		}
		if rec.Empty() {
			dropped.Inc()
			continue
		}
		records = append(records, rec)
	}
	return records
}
