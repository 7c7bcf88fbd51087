package browser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Message is one raw item scraped from the rendered DOM, before
// normalization. Timestamp is whatever the UI showed ("Today at 1:23 PM")
// unless a machine-readable time attribute was present, in which case it is
// an ISO instant.
type Message struct {
	ID          string
	Author      string
	Timestamp   string
	Text        string
	Attachments []string
}

// itemSnapshot is the per-item raw capture produced in the page by the
// snapshot script. Field extraction logic stays on the Go side so the
// fallback chains are testable without a browser.
type itemSnapshot struct {
	ListItemID string     `json:"listItemId"`
	ElementID  string     `json:"elementId"`
	HeaderText string     `json:"headerText"`
	Username   string     `json:"username"`
	TimeISO    string     `json:"timeIso"`
	TextBlocks [][]string `json:"textBlocks"` // one slice per Text selector, profile order
	Links      []string   `json:"links"`
}

// headerSeparator splits "Author — Today at 1:23 PM" headers.
const headerSeparator = "—"

// buildMessage applies the fallback chains to one snapshot. ok is false when
// the item has neither text nor attachments and must be skipped.
func buildMessage(snap itemSnapshot, p SelectorProfile) (Message, bool) {
	var msg Message

	msg.ID = pickID(snap, p.ItemIDPrefix)
	msg.Author, msg.Timestamp = splitHeader(snap.HeaderText)
	if msg.Author == "" {
		msg.Author = normalizeAuthor(snap.Username)
	}
	// A machine-readable timestamp beats the heuristic header text.
	if snap.TimeISO != "" {
		msg.Timestamp = snap.TimeISO
	}

	msg.Text = pickText(snap.TextBlocks, p.MaxTextBlocks)
	msg.Attachments = pickAttachments(snap.Links, p.MaxAttachments)

	if msg.Text == "" && len(msg.Attachments) == 0 {
		return Message{}, false
	}
	return msg, true
}

// pickID returns the first identifier attribute carrying the chat-message
// namespace prefix.
func pickID(snap itemSnapshot, prefix string) string {
	for _, id := range []string{snap.ListItemID, snap.ElementID} {
		if id != "" && strings.HasPrefix(id, prefix) {
			return id
		}
	}
	return ""
}

// splitHeader splits a header like "Author — Today at 1:23 PM" once on the
// first em-dash. Without a separator the whole text is the author.
func splitHeader(header string) (author, timestamp string) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ""
	}
	if left, right, found := strings.Cut(header, headerSeparator); found {
		return normalizeAuthor(left), strings.TrimSpace(right)
	}
	return normalizeAuthor(header), ""
}

// normalizeAuthor keeps the first line and collapses runs of whitespace, so
// role badges and bot tags rendered on their own lines do not leak in.
func normalizeAuthor(s string) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	return strings.Join(strings.Fields(s), " ")
}

// pickText returns the first selector's blocks that join to something
// non-empty. Blocks are joined with newlines, capped at maxBlocks.
func pickText(blocksPerSelector [][]string, maxBlocks int) string {
	if maxBlocks <= 0 {
		maxBlocks = 10
	}
	for _, blocks := range blocksPerSelector {
		var parts []string
		for _, b := range blocks {
			if len(parts) == maxBlocks {
				break
			}
			if b = strings.TrimSpace(b); b != "" {
				parts = append(parts, b)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n")
		}
	}
	return ""
}

// pickAttachments keeps hrefs with a network scheme, capped at maxLinks.
// Duplicates are permitted and order is preserved.
func pickAttachments(links []string, maxLinks int) []string {
	if maxLinks <= 0 {
		maxLinks = 25
	}
	var out []string
	for _, href := range links {
		if len(out) == maxLinks {
			break
		}
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			out = append(out, href)
		}
	}
	return out
}

// snapshotScript builds the in-page capture script for a profile. The script
// wraps each item in try/catch so one broken item never poisons the whole
// collection.
func (p SelectorProfile) snapshotScript() string {
	profileJSON, _ := json.Marshal(map[string]any{
		"list":     p.List,
		"items":    p.itemSelector(),
		"header":   strings.Join(p.Header, ", "),
		"username": strings.Join(p.Username, ", "),
		"time":     strings.Join(p.Time, ", "),
		"text":     p.Text,
		"maxLinks": p.MaxAttachments,
	})

	return fmt.Sprintf(`(function(profile) {
	const parent = profile.list ? document.querySelector(profile.list) : null;
	let items = parent ? Array.from(parent.querySelectorAll(profile.items)) : [];
	if (items.length === 0) {
		items = Array.from(document.querySelectorAll(profile.items));
	}
	const text = el => ((el.innerText || el.textContent || "")).trim();
	const out = [];
	for (const item of items) {
		try {
			const snap = {listItemId: "", elementId: "", headerText: "", username: "", timeIso: "", textBlocks: [], links: []};
			const idEl = item.matches("[id], [data-list-item-id]") ? item : item.querySelector("[id^='chat-messages-'], [data-list-item-id^='chat-messages']");
			if (idEl) {
				snap.listItemId = idEl.getAttribute("data-list-item-id") || "";
				snap.elementId = idEl.getAttribute("id") || "";
			}
			const header = item.querySelector(profile.header);
			if (header) snap.headerText = text(header);
			const user = item.querySelector(profile.username);
			if (user) snap.username = text(user);
			const t = item.querySelector(profile.time);
			if (t) snap.timeIso = t.getAttribute("datetime") || "";
			for (const sel of profile.text) {
				snap.textBlocks.push(Array.from(item.querySelectorAll(sel), text));
			}
			const links = item.querySelectorAll("a[href]");
			for (let i = 0; i < Math.min(links.length, profile.maxLinks); i++) {
				const href = links[i].getAttribute("href");
				if (href) snap.links.push(href);
			}
			out.push(snap);
		} catch (e) {
			// skip this item
		}
	}
	return out;
})(%s)`, profileJSON)
}
