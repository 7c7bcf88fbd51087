package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/exec"
	"time"

	"channelog/internal/config"
	"channelog/internal/discord"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostic checks on your channelog installation",
		Long: `Verifies that channelog's configuration, credentials, archive database
and browser profile are correctly set up. Reports pass/fail per check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			fmt.Printf("channelog doctor v%s\n", version)
			fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

			passed := 0
			failed := 0
			warned := 0

			// 1. Config file exists
			if _, err := os.Stat(cfgPath); err != nil {
				printFail("Config file", fmt.Sprintf("not found at %s", cfgPath))
				failed++
				fmt.Printf("\nRun 'channelog init' to create a default configuration.\n")
				return nil
			}
			printPass("Config file", cfgPath)
			passed++

			// 2. Config loads and validates
			cfg, err := config.Load(cfgPath)
			if err != nil {
				printFail("Config validation", err.Error())
				failed++
				fmt.Printf("\n%d passed, %d failed\n", passed, failed)
				return nil
			}
			printPass("Config validation", "valid")
			passed++

			// 3. API token
			if token := discord.ResolveToken(cfg.Discord.Token); token == "" {
				printWarn("API token", "not set; 'fetch' will not work (set DISCORD_TOKEN)")
				warned++
			} else if _, err := discord.AuthorizationHeader(token); err != nil {
				printFail("API token", err.Error())
				failed++
			} else {
				printPass("API token", "present")
				passed++
			}

			// 4. Archive database
			if cfg.Archive.Enabled {
				if err := checkDatabase(cfg.Archive.DBPath); err != nil {
					printFail("Archive database", err.Error())
					failed++
				} else {
					printPass("Archive database", cfg.Archive.DBPath)
					passed++
				}
			} else {
				printWarn("Archive database", "disabled")
				warned++
			}

			// 5. Chrome binary for the scrape path
			if path, err := findChrome(); err != nil {
				printWarn("Chrome binary", "not found; 'scrape' and 'login' will not work")
				warned++
			} else {
				printPass("Chrome binary", path)
				passed++
			}

			// 6. Browser profile (saved login session)
			if _, err := os.Stat(cfg.Browser.ProfileDir); err != nil {
				printWarn("Browser profile", "no saved session; run 'channelog login' first")
				warned++
			} else {
				printPass("Browser profile", cfg.Browser.ProfileDir)
				passed++
			}

			fmt.Printf("\n%d passed, %d failed, %d warnings\n", passed, failed, warned)
			return nil
		},
	}
}

func checkDatabase(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("cannot open: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("cannot ping: %w", err)
	}

	// Try a write.
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS _doctor_test (id INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	db.ExecContext(ctx, "DROP TABLE IF EXISTS _doctor_test")

	return nil
}

func findChrome() (string, error) {
	candidates := []string{
		"google-chrome", "google-chrome-stable", "chromium", "chromium-browser",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no chrome binary found")
}

func printPass(check, detail string) {
	fmt.Printf("  [PASS] %-20s %s\n", check, detail)
}

func printFail(check, detail string) {
	fmt.Printf("  [FAIL] %-20s %s\n", check, detail)
}

func printWarn(check, detail string) {
	fmt.Printf("  [WARN] %-20s %s\n", check, detail)
}
