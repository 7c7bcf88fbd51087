// Package render writes a record sequence as a standalone HTML page. The
// renderer degrades gracefully: missing avatars, display names or
// attachments produce no image, label or link rather than an error.
package render

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"channelog/internal/domain"
)

var pageTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<style>
body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 0; padding: 0; background: #0b0f19; color: #eef1f6; }
.wrap { max-width: 980px; margin: 0 auto; padding: 24px; }
.msg { display: grid; grid-template-columns: 44px 1fr; gap: 8px 12px; padding: 12px 8px; border-bottom: 1px solid #1a2335; }
.avatar { width: 44px; height: 44px; border-radius: 50%; background: #111827; }
.meta { display: flex; align-items: baseline; gap: 12px; }
.author { font-weight: 600; }
.ts { font-size: 12px; color: #93a3b8; }
.text { grid-column: 2; white-space: pre-wrap; word-wrap: break-word; }
.atts { grid-column: 2; margin-top: 6px; }
.att a { color: #60a5fa; text-decoration: none; }
.att a:hover { text-decoration: underline; }
</style>
<title>Discord Export</title></head><body><div class="wrap">
{{- range . }}
<div class="msg">
{{- if .AuthorAvatarURL }}<img class="avatar" src="{{ .AuthorAvatarURL }}" alt="avatar" loading="lazy" />{{ end }}
<div class="meta"><div class="author">{{ .DisplayName }}</div><div class="ts">{{ .Timestamp }}</div></div>
<div class="text">{{ .Text }}</div>
{{- if .Attachments }}
<div class="atts">
{{- range .Attachments }}
<div class="att"><a href="{{ . }}" target="_blank" rel="noreferrer">{{ . }}</a></div>
{{- end }}
</div>
{{- end }}
</div>
{{- end }}
</div></body></html>
`))

// view adds the name-preference fallback on top of a MessageRecord.
type view struct {
	domain.MessageRecord
}

func (v view) DisplayName() string {
	if v.AuthorDisplayName != "" {
		return v.AuthorDisplayName
	}
	return v.Author
}

// HTML renders the record sequence to w.
func HTML(w io.Writer, records []domain.MessageRecord) error {
	views := make([]view, len(records))
	for i, rec := range records {
		views[i] = view{rec}
	}
	if err := pageTemplate.Execute(w, views); err != nil {
		return fmt.Errorf("render HTML: %w", err)
	}
	return nil
}

// HTMLFile renders the record sequence to a file, creating parent
// directories.
func HTMLFile(path string, records []domain.MessageRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create HTML file: %w", err)
	}
	defer f.Close()
	return HTML(f, records)
}
