package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"channelog/internal/archive"
	"channelog/internal/export"
	"channelog/internal/render"

	"github.com/spf13/cobra"
)

func renderCmd() *cobra.Command {
	var inPath, outPath string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an exported JSON file to HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := export.ReadJSON(inPath)
			if err != nil {
				return err
			}
			if err := render.HTMLFile(outPath, records); err != nil {
				return err
			}
			logger.Info("wrote HTML", "path", outPath, "messages", len(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "input JSON path (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "output HTML path (required)")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")

	return cmd
}

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect archived export runs",
	}
	cmd.AddCommand(runsListCmd())
	cmd.AddCommand(runsExportCmd())
	return cmd
}

func runsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			store, err := archive.NewStore(cfg.Archive.DBPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := signalContext()
			defer cancel()

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCHANNEL\tSOURCE\tSINCE\tMESSAGES\tCREATED")
			for _, r := range runs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
					r.ID, r.ChannelID, r.Source, r.Since, r.MessageCount,
					r.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")
	return cmd
}

func runsExportCmd() *cobra.Command {
	var outJSON, outHTML string

	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Re-export an archived run to JSON or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q: %w", args[0], err)
			}
			if outJSON == "" && outHTML == "" {
				return fmt.Errorf("need --out-json and/or --out-html")
			}

			cfg := loadConfig()
			store, err := archive.NewStore(cfg.Archive.DBPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := signalContext()
			defer cancel()

			records, err := store.RunMessages(ctx, runID)
			if err != nil {
				return err
			}

			if outJSON != "" {
				if err := export.WriteJSON(outJSON, records); err != nil {
					return err
				}
				logger.Info("wrote JSON", "path", outJSON, "messages", len(records))
			}
			if outHTML != "" {
				if err := render.HTMLFile(outHTML, records); err != nil {
					return err
				}
				logger.Info("wrote HTML", "path", outHTML)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outJSON, "out-json", "", "JSON output path")
	cmd.Flags().StringVar(&outHTML, "out-html", "", "HTML output path")
	return cmd
}
