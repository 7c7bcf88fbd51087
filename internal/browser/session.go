// Package browser implements the DOM acquisition path: it drives a real
// Chrome session against the Discord web client and extracts messages from
// the rendered message list. The markup it reads is an implicit, versionless
// contract with the upstream client; everything selector-shaped lives in a
// SelectorProfile so breakage stays localized.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chromedp/chromedp"
)

const loginURL = "https://discord.com/login"

// Session manages the headless Chrome instance and its persistent profile
// directory. The profile dir carries cookies across runs, so one interactive
// login is enough for subsequent headless scrapes.
type Session struct {
	profileDir string
	headless   bool
	logger     *slog.Logger
}

// SessionConfig holds configuration for the browser session.
type SessionConfig struct {
	ProfileDir string // Chrome user data directory (persists cookies/sessions)
	Headless   bool   // Run headless (true) or with visible UI (false)
	Logger     *slog.Logger
}

func NewSession(cfg SessionConfig) *Session {
	if cfg.ProfileDir == "" {
		home, _ := os.UserHomeDir()
		cfg.ProfileDir = filepath.Join(home, ".channelog", "chrome-profile")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Session{
		profileDir: cfg.ProfileDir,
		headless:   cfg.Headless,
		logger:     cfg.Logger,
	}
}

// ProfileDir returns the Chrome user data directory in use.
func (s *Session) ProfileDir() string { return s.profileDir }

// NewContext creates a chromedp context backed by the session's profile.
// The caller MUST call cancel() when done.
func (s *Session) NewContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	if err := os.MkdirAll(s.profileDir, 0o755); err != nil {
		s.logger.Error("failed to create profile dir", "dir", s.profileDir, "err", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(s.profileDir),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"),
	)

	if s.headless {
		opts = append(opts, chromedp.Headless)
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx, opts...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)

	cancelAll := func() {
		taskCancel()
		allocCancel()
	}

	return taskCtx, cancelAll
}

// Login opens a visible browser on the Discord login page so the user can
// authenticate manually. Cookies land in the profile directory, which is the
// whole point; the function returns once the app UI mounts or ctx is
// cancelled.
func (s *Session) Login(ctx context.Context, profile SelectorProfile) error {
	s.logger.Info("opening browser for login", "url", loginURL)

	// Force a visible browser regardless of the configured headless mode.
	visible := &Session{profileDir: s.profileDir, headless: false, logger: s.logger}
	taskCtx, cancel := visible.NewContext(ctx)
	defer cancel()

	if err := chromedp.Run(taskCtx, chromedp.Navigate(loginURL)); err != nil {
		return fmt.Errorf("navigate to login page: %w", err)
	}

	s.logger.Info("browser opened, please log in. Press Ctrl+C when done.")

	if err := waitMounted(taskCtx, profile.Mount, loginMountTimeout); err != nil {
		// The user may still be typing a 2FA code; wait for Ctrl+C instead
		// of giving up.
		s.logger.Warn("app UI not detected yet, waiting for interrupt", "err", err)
		<-ctx.Done()
	}

	s.logger.Info("login session saved", "profile", s.profileDir)
	return nil
}
