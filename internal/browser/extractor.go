package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"channelog/internal/domain"
	"channelog/internal/metrics"
)

const (
	defaultMountTimeout = 45 * time.Second
	loginMountTimeout   = 120 * time.Second
	mountPollInterval   = 500 * time.Millisecond
	settleDelay         = 200 * time.Millisecond
	visibleTries        = 8
)

// Extractor scrapes a channel from the live web client: navigate the URL
// candidates, wait for the UI to mount, scroll history into the DOM, then
// capture and extract every rendered item.
type Extractor struct {
	session      *Session
	profile      SelectorProfile
	maxScrolls   int
	mountTimeout time.Duration
	logger       *slog.Logger
}

// ExtractorConfig configures an Extractor.
type ExtractorConfig struct {
	Session      *Session
	Profile      SelectorProfile
	MaxScrolls   int // PageUp presses; the full budget always runs
	MountTimeout time.Duration
	Logger       *slog.Logger
}

func NewExtractor(cfg ExtractorConfig) *Extractor {
	if cfg.MaxScrolls <= 0 {
		cfg.MaxScrolls = 80
	}
	if cfg.MountTimeout <= 0 {
		cfg.MountTimeout = defaultMountTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Extractor{
		session:      cfg.Session,
		profile:      cfg.Profile,
		maxScrolls:   cfg.MaxScrolls,
		mountTimeout: cfg.MountTimeout,
		logger:       cfg.Logger,
	}
}

// Extract runs the whole DOM path for one channel. Failure to mount any URL
// candidate is fatal; failures on individual items are absorbed.
func (e *Extractor) Extract(ctx context.Context, channelID, guildID string, guess bool) ([]Message, error) {
	taskCtx, cancel := e.session.NewContext(ctx)
	defer cancel()

	urls := ChannelURLCandidates(channelID, guildID, guess)
	if len(urls) == 0 {
		return nil, fmt.Errorf("no URL candidates for channel %s", channelID)
	}

	mounted := false
	for _, u := range urls {
		if err := chromedp.Run(taskCtx, chromedp.Navigate(u)); err != nil {
			return nil, fmt.Errorf("navigate %s: %w", u, err)
		}
		if err := waitMounted(taskCtx, e.profile.Mount, e.mountTimeout); err == nil {
			e.logger.Info("channel UI mounted", "url", u)
			mounted = true
			break
		}
		e.logger.Warn("candidate did not mount", "url", u)
	}
	if !mounted {
		return nil, domain.ErrMountTimeout
	}

	e.ensureMessagesVisible(taskCtx)
	e.scrollUpFromBottom(taskCtx)

	return e.collect(taskCtx)
}

// waitMounted polls until any marker element is present or the timeout
// elapses.
func waitMounted(ctx context.Context, markers []string, timeout time.Duration) error {
	script := anyPresentScript(markers)
	deadline := time.Now().Add(timeout)
	for {
		var present bool
		if err := chromedp.Run(ctx, chromedp.Evaluate(script, &present)); err != nil {
			return fmt.Errorf("probe markers: %w", err)
		}
		if present {
			return nil
		}
		if time.Now().After(deadline) {
			return domain.ErrMountTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(mountPollInterval):
		}
	}
}

// ensureMessagesVisible nudges the UI to render some messages by jumping to
// the bottom and forcing the scroller down, stopping early once any item
// shows up.
func (e *Extractor) ensureMessagesVisible(ctx context.Context) {
	itemScript := anyPresentScript(e.profile.Items)
	for i := 0; i < visibleTries; i++ {
		_ = chromedp.Run(ctx,
			chromedp.KeyEvent(kb.End),
			chromedp.Sleep(settleDelay),
			chromedp.Evaluate(e.scrollToBottomScript(), nil),
			chromedp.Sleep(settleDelay),
		)
		var present bool
		if err := chromedp.Run(ctx, chromedp.Evaluate(itemScript, &present)); err == nil && present {
			return
		}
	}
}

// scrollUpFromBottom jumps to the latest message, then pages upward the full
// configured budget to pull older history into the DOM. There is no
// convergence check; callers trade scroll budget against depth.
func (e *Extractor) scrollUpFromBottom(ctx context.Context) {
	_ = chromedp.Run(ctx,
		chromedp.KeyEvent(kb.End),
		chromedp.Sleep(250*time.Millisecond),
	)

	e.logger.Info("loading history", "scrolls", e.maxScrolls)
	for i := 0; i < e.maxScrolls; i++ {
		_ = chromedp.Run(ctx,
			chromedp.KeyEvent(kb.PageUp),
			chromedp.Sleep(settleDelay),
		)
	}
}

// collect snapshots every rendered item and extracts messages from the
// snapshots. Items that fail extraction or carry no content are skipped.
func (e *Extractor) collect(ctx context.Context) ([]Message, error) {
	extracted := metrics.Collector.Counter("channelog_dom_messages_total", "messages extracted from the DOM path")
	skipped := metrics.Collector.Counter("channelog_dom_items_skipped_total", "DOM items skipped as empty or broken")
	rendered := metrics.Collector.Gauge("channelog_dom_items_rendered", "items present in the DOM at capture time")

	var snaps []itemSnapshot
	if err := chromedp.Run(ctx, chromedp.Evaluate(e.profile.snapshotScript(), &snaps)); err != nil {
		return nil, fmt.Errorf("snapshot message list: %w", err)
	}
	rendered.Set(int64(len(snaps)))

	messages := make([]Message, 0, len(snaps))
	for _, snap := range snaps {
		msg, ok := buildMessage(snap, e.profile)
		if !ok {
			skipped.Inc()
			continue
		}
		messages = append(messages, msg)
		extracted.Inc()
	}

	e.logger.Info("extraction finished", "items", len(snaps), "messages", len(messages))
	return messages, nil
}

// anyPresentScript returns a JS expression that is true when any of the
// selectors matches.
func anyPresentScript(selectors []string) string {
	quoted, _ := json.Marshal(strings.Join(selectors, ", "))
	return fmt.Sprintf("document.querySelector(%s) !== null", quoted)
}

// scrollToBottomScript forces the message-list scroller to its bottom.
func (e *Extractor) scrollToBottomScript() string {
	listSel, _ := json.Marshal(e.profile.List)
	return fmt.Sprintf(`(function() {
	const list = document.querySelector(%s);
	if (list && list.parentElement) {
		list.parentElement.scrollTop = list.parentElement.scrollHeight;
	}
})()`, listSel)
}
