package browser

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SelectorProfile bundles every CSS selector the extractor depends on.
// Each field that holds a list is an ordered fallback chain: the first
// selector that yields something wins. Profiles can be overridden from YAML
// files so a Discord markup change does not require a rebuild.
type SelectorProfile struct {
	Name string `yaml:"name"`

	// Mount are the marker elements whose presence signals the chat UI has
	// finished mounting.
	Mount []string `yaml:"mount"`

	// List is the message-list container; Items match individual messages,
	// inside List when present, anywhere in the document otherwise.
	List  string   `yaml:"list"`
	Items []string `yaml:"items"`

	// ItemIDPrefix is the namespace a message identifier attribute must carry.
	ItemIDPrefix string `yaml:"itemIdPrefix"`

	// Header elements hold "Author — Today at 1:23 PM" style text.
	Header   []string `yaml:"header"`
	Username []string `yaml:"username"`
	Time     []string `yaml:"time"`

	// Text are the message body container candidates, tried in order.
	Text []string `yaml:"text"`

	MaxTextBlocks  int `yaml:"maxTextBlocks"`
	MaxAttachments int `yaml:"maxAttachments"`
}

// DefaultProfile returns the selector set known to work against the current
// Discord web client.
func DefaultProfile() SelectorProfile {
	return SelectorProfile{
		Name: "discord",
		Mount: []string{
			"ol[data-list-id='chat-messages']",
			"[data-list-id='chat-messages']",
			"div[role='textbox']",
			"nav[aria-label*='Servers']",
		},
		List: "ol[data-list-id='chat-messages']",
		Items: []string{
			"li[data-list-item-id^='chat-messages']",
			"li[id^='chat-messages-']",
			"article[class*='message-']",
		},
		ItemIDPrefix: "chat-messages",
		Header: []string{
			"h3",
			"header h3",
			"header time",
			"[class*='headerText']",
		},
		Username: []string{
			"a[role='button'][href*='/users/']",
			"span[class*='username']",
		},
		Time: []string{
			"time[datetime]",
		},
		Text: []string{
			"div[id^='message-content-']",
			"div[class*='messageContent']",
			"div[data-slate-node='element']",
			"[class*='markup']",
		},
		MaxTextBlocks:  10,
		MaxAttachments: 25,
	}
}

// LoadProfiles loads selector profiles from YAML files in dir, keyed by
// profile name (file basename when unnamed). Empty fields fall back to the
// defaults, so an override file only needs to list what changed. A missing
// directory is not an error.
func LoadProfiles(dir string, logger *slog.Logger) (map[string]SelectorProfile, error) {
	profiles := map[string]SelectorProfile{"discord": DefaultProfile()}

	if dir == "" {
		return profiles, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Debug("selector profile directory does not exist, skipping", "dir", dir)
		return profiles, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read selector profile dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("cannot read selector profile", "path", path, "err", err)
			continue
		}

		profile := DefaultProfile()
		if err := yaml.Unmarshal(data, &profile); err != nil {
			logger.Warn("cannot parse selector profile", "path", path, "err", err)
			continue
		}
		if profile.Name == "" {
			profile.Name = strings.TrimSuffix(name, filepath.Ext(name))
		}

		logger.Info("loaded selector profile", "name", profile.Name, "path", path)
		profiles[profile.Name] = profile
	}

	return profiles, nil
}

// itemSelector joins the item fallback chain into one query.
func (p SelectorProfile) itemSelector() string {
	return strings.Join(p.Items, ", ")
}
