// Package config holds channelog's JSON configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Config is the root configuration for channelog.
type Config struct {
	General GeneralConfig `json:"general"`
	Discord DiscordConfig `json:"discord"`
	Browser BrowserConfig `json:"browser"`
	Archive ArchiveConfig `json:"archive"`
	Notify  NotifyConfig  `json:"notify"`
}

type GeneralConfig struct {
	LogLevel  string `json:"logLevel"`
	OutputDir string `json:"outputDir"`
}

// DiscordConfig configures the REST acquisition path.
type DiscordConfig struct {
	Token    string `json:"token,omitempty"` // DISCORD_TOKEN env wins over this
	APIBase  string `json:"apiBase,omitempty"`
	PageSize int    `json:"pageSize"` // messages per page, 1..100
	MaxPages int    `json:"maxPages"` // page budget per run
}

// BrowserConfig configures the DOM acquisition path.
type BrowserConfig struct {
	ProfileDir          string `json:"profileDir"`
	Headless            bool   `json:"headless"`
	MaxScrolls          int    `json:"maxScrolls"`
	MountTimeoutSeconds int    `json:"mountTimeoutSeconds"`
	SelectorDir         string `json:"selectorDir,omitempty"`     // YAML selector-profile overrides
	SelectorProfile     string `json:"selectorProfile,omitempty"` // profile name, default "discord"
}

type ArchiveConfig struct {
	Enabled bool   `json:"enabled"`
	DBPath  string `json:"dbPath"`
}

type NotifyConfig struct {
	TelegramEnabled bool   `json:"telegramEnabled"`
	TelegramToken   string `json:"telegramToken,omitempty"`
	TelegramChatID  int64  `json:"telegramChatId,omitempty"`
}

// DefaultConfigDir returns the default config directory (~/.channelog).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".channelog"
	}
	return filepath.Join(home, ".channelog")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

func Load(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.General.OutputDir = ExpandPath(cfg.General.OutputDir)
	cfg.Browser.ProfileDir = ExpandPath(cfg.Browser.ProfileDir)
	cfg.Browser.SelectorDir = ExpandPath(cfg.Browser.SelectorDir)
	cfg.Archive.DBPath = ExpandPath(cfg.Archive.DBPath)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // Keep original if no env var and no default
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.General.LogLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}

	if cfg.Discord.PageSize < 1 || cfg.Discord.PageSize > 100 {
		errs = append(errs, "discord.pageSize must be between 1 and 100")
	}
	if cfg.Discord.MaxPages < 1 {
		errs = append(errs, "discord.maxPages must be >= 1")
	}

	if cfg.Browser.MaxScrolls < 1 {
		errs = append(errs, "browser.maxScrolls must be >= 1")
	}
	if cfg.Browser.MountTimeoutSeconds < 1 {
		errs = append(errs, "browser.mountTimeoutSeconds must be >= 1")
	}

	if cfg.Archive.Enabled && cfg.Archive.DBPath == "" {
		errs = append(errs, "archive.dbPath is required when archive is enabled")
	}

	if cfg.Notify.TelegramEnabled {
		if cfg.Notify.TelegramToken == "" {
			errs = append(errs, "notify.telegramToken is required when telegram notify is enabled")
		}
		if cfg.Notify.TelegramChatID == 0 {
			errs = append(errs, "notify.telegramChatId is required when telegram notify is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
