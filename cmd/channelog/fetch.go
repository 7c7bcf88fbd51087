package main

import (
	"errors"
	"time"

	"channelog/internal/discord"
	"channelog/internal/domain"
	"channelog/internal/export"

	"github.com/spf13/cobra"
)

func fetchCmd() *cobra.Command {
	var (
		channelID string
		since     string
		outJSON   string
		outHTML   string
		pageSize  int
		maxPages  int
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Export channel history via the REST API",
		Long: "Pages backward through the channel's message history with a bot\n" +
			"token, stopping at the cutoff date, and writes normalized records.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if pageSize > 0 {
				cfg.Discord.PageSize = pageSize
			}
			if maxPages > 0 {
				cfg.Discord.MaxPages = maxPages
			}

			cutoff, err := export.ParseSinceUTC(since, time.Now())
			if err != nil {
				return err
			}

			paginator, err := discord.NewPaginator(discord.PaginatorConfig{
				Token:    discord.ResolveToken(cfg.Discord.Token),
				APIBase:  cfg.Discord.APIBase,
				PageSize: cfg.Discord.PageSize,
				MaxPages: cfg.Discord.MaxPages,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			raw, err := paginator.FetchSince(ctx, channelID, cutoff)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrForbidden) {
					logger.Error("token rejected", "err", err)
				}
				return err
			}

			records := export.FromAPI(raw)
			return finishRun(ctx, cfg, "api", channelID, since, records, outJSON, outHTML)
		},
	}

	cmd.Flags().StringVar(&channelID, "channel-id", "", "Discord channel ID to export (required)")
	cmd.Flags().StringVar(&since, "since", "today", "earliest date to keep (YYYY-MM-DD or 'today'; empty for all)")
	cmd.Flags().StringVar(&outJSON, "out-json", "", "JSON output path (default: <outputDir>/discord-<channel>.json)")
	cmd.Flags().StringVar(&outHTML, "out-html", "", "optional HTML output path")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "messages per page, 1..100 (default from config)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "page budget (default from config)")
	cmd.MarkFlagRequired("channel-id")

	return cmd
}
