package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"channelog/internal/archive"
	"channelog/internal/config"
	"channelog/internal/domain"
	"channelog/internal/export"
	"channelog/internal/metrics"
	"channelog/internal/notify"
	"channelog/internal/render"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	version    = "0.3.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	// Optional convenience for local runs; DISCORD_TOKEN usually lives here.
	_ = godotenv.Load()

	logger = newLogger(slog.LevelInfo)
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:   "channelog",
		Short: "channelog: export Discord channel history",
		Long: "channelog exports the message history of a Discord channel, either\n" +
			"through the REST API (fetch) or by scraping the rendered web client\n" +
			"(scrape), and writes normalized JSON and HTML output.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.channelog/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(fetchCmd())
	root.AddCommand(scrapeCmd())
	root.AddCommand(renderCmd())
	root.AddCommand(loginCmd())
	root.AddCommand(runsCmd())
	root.AddCommand(doctorCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize config and output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg := config.Defaults()
			if err := config.Save(cfgPath, cfg); err != nil {
				return err
			}
			outDir := config.ExpandPath(cfg.General.OutputDir)
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath, "exports", outDir)
			return nil
		},
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the config, falling back to defaults, and applies the
// configured log level.
func loadConfig() *config.Config {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("config not found, using defaults", "path", cfgPath, "err", err)
		cfg = config.Defaults()
		cfg.General.OutputDir = config.ExpandPath(cfg.General.OutputDir)
		cfg.Browser.ProfileDir = config.ExpandPath(cfg.Browser.ProfileDir)
		cfg.Archive.DBPath = config.ExpandPath(cfg.Archive.DBPath)
	}

	level := slog.LevelInfo
	switch cfg.General.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger = newLogger(level)
	slog.SetDefault(logger)

	return cfg
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// finishRun is the shared tail of both acquisition paths: write outputs,
// archive the run, send the optional notification, dump metrics at debug.
func finishRun(ctx context.Context, cfg *config.Config, source, channelID, since string, records []domain.MessageRecord, outJSON, outHTML string) error {
	if outJSON == "" {
		outJSON = filepath.Join(cfg.General.OutputDir, fmt.Sprintf("discord-%s.json", channelID))
	}
	if err := export.WriteJSON(outJSON, records); err != nil {
		return err
	}
	logger.Info("wrote JSON", "path", outJSON, "messages", len(records))

	if outHTML != "" {
		if err := render.HTMLFile(outHTML, records); err != nil {
			return err
		}
		logger.Info("wrote HTML", "path", outHTML)
	}

	if cfg.Archive.Enabled {
		store, err := archive.NewStore(cfg.Archive.DBPath, logger)
		if err != nil {
			logger.Warn("archive unavailable", "err", err)
		} else {
			defer store.Close()
			run := archive.Run{ChannelID: channelID, Source: source, Since: since}
			if runID, err := store.RecordRun(ctx, run, records); err != nil {
				logger.Warn("archiving run failed", "err", err)
			} else {
				logger.Info("run archived", "run", runID)
			}
		}
	}

	if cfg.Notify.TelegramEnabled {
		tg, err := notify.NewTelegram(notify.TelegramConfig{
			Token:  cfg.Notify.TelegramToken,
			ChatID: cfg.Notify.TelegramChatID,
			Logger: logger,
		})
		if err != nil {
			logger.Warn("telegram notifier unavailable", "err", err)
		} else {
			tg.ExportFinished(channelID, source, len(records), outJSON)
		}
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		var buf strings.Builder
		metrics.Collector.WriteTo(&buf)
		logger.Debug("run metrics\n" + buf.String())
	}

	return nil
}
