package main

import (
	"fmt"
	"time"

	"channelog/internal/browser"
	"channelog/internal/export"

	"github.com/spf13/cobra"
)

func scrapeCmd() *cobra.Command {
	var (
		channelID   string
		guildID     string
		guessURL    bool
		since       string
		outJSON     string
		outHTML     string
		maxScrolls  int
		profileName string
		headed      bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Export channel history by scraping the web client",
		Long: "Opens the channel in a Chrome session (reusing the saved login),\n" +
			"scrolls history into view and extracts messages from the rendered\n" +
			"DOM. Best-effort: Discord may change its markup at any time.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if maxScrolls > 0 {
				cfg.Browser.MaxScrolls = maxScrolls
			}
			if profileName == "" {
				profileName = cfg.Browser.SelectorProfile
			}
			if headed {
				cfg.Browser.Headless = false
			}

			profiles, err := browser.LoadProfiles(cfg.Browser.SelectorDir, logger)
			if err != nil {
				return err
			}
			profile, ok := profiles[profileName]
			if !ok {
				return fmt.Errorf("unknown selector profile %q", profileName)
			}

			session := browser.NewSession(browser.SessionConfig{
				ProfileDir: cfg.Browser.ProfileDir,
				Headless:   cfg.Browser.Headless,
				Logger:     logger,
			})

			extractor := browser.NewExtractor(browser.ExtractorConfig{
				Session:      session,
				Profile:      profile,
				MaxScrolls:   cfg.Browser.MaxScrolls,
				MountTimeout: time.Duration(cfg.Browser.MountTimeoutSeconds) * time.Second,
				Logger:       logger,
			})

			ctx, cancel := signalContext()
			defer cancel()

			// Guessing defaults on when the guild is unknown, like the URL
			// bar would.
			guess := guessURL || guildID == ""

			scraped, err := extractor.Extract(ctx, channelID, guildID, guess)
			if err != nil {
				return err
			}

			records := export.FromDOM(scraped)

			now := time.Now()
			cutoff, err := export.ParseSinceLocal(since, now)
			if err != nil {
				return err
			}
			if cutoff != nil {
				records = export.FilterSince(records, *cutoff, now)
			}

			return finishRun(ctx, cfg, "dom", channelID, since, records, outJSON, outHTML)
		},
	}

	cmd.Flags().StringVar(&channelID, "channel-id", "", "Discord channel ID to scrape (required)")
	cmd.Flags().StringVar(&guildID, "guild-id", "", "guild ID when known; builds the precise channel URL")
	cmd.Flags().BoolVar(&guessURL, "guess-url", false, "also try placeholder-guild and DM URL shapes")
	cmd.Flags().StringVar(&since, "since", "today", "earliest local date to keep (YYYY-MM-DD or 'today'; empty for all)")
	cmd.Flags().StringVar(&outJSON, "out-json", "", "JSON output path (default: <outputDir>/discord-<channel>.json)")
	cmd.Flags().StringVar(&outHTML, "out-html", "", "optional HTML output path")
	cmd.Flags().IntVar(&maxScrolls, "max-scrolls", 0, "PageUp presses toward the top (default from config)")
	cmd.Flags().StringVar(&profileName, "selector-profile", "", "selector profile name (default from config)")
	cmd.Flags().BoolVar(&headed, "headed", false, "run with a visible browser window")
	cmd.MarkFlagRequired("channel-id")

	return cmd
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Open a visible browser to log in to Discord",
		Long: "Opens discord.com/login in a visible Chrome window. Cookies are\n" +
			"saved in the profile directory so later scrapes can run headless.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			session := browser.NewSession(browser.SessionConfig{
				ProfileDir: cfg.Browser.ProfileDir,
				Logger:     logger,
			})

			ctx, cancel := signalContext()
			defer cancel()

			return session.Login(ctx, browser.DefaultProfile())
		},
	}
}
