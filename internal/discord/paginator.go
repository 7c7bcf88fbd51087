// Package discord implements the REST acquisition path: backward pagination
// through a channel's message history with rate-limit recovery and
// cutoff-aware early termination.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"channelog/internal/domain"
	"channelog/internal/metrics"
)

const (
	defaultAPIBase = "https://discord.com/api/v9"
	userAgent      = "channelog/0.3"

	// Courtesy delay between successfully fetched pages.
	pageDelay = 200 * time.Millisecond

	// Fixed margin added on top of the server-supplied retry_after.
	retryMargin = 100 * time.Millisecond
)

// Message is a raw API message as returned by the messages endpoint.
type Message struct {
	ID          string       `json:"id"`
	Author      Author       `json:"author"`
	Timestamp   string       `json:"timestamp"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments"`
}

// Author is the message author object.
type Author struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	GlobalName    string `json:"global_name"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
}

// Attachment carries the attachment URL; everything else is ignored.
type Attachment struct {
	URL string `json:"url"`
}

// Paginator drives the messages endpoint backward through history.
type Paginator struct {
	client     *http.Client
	apiBase    string
	authHeader string
	pageSize   int
	maxPages   int
	logger     *slog.Logger
}

// PaginatorConfig configures a Paginator.
type PaginatorConfig struct {
	Token    string
	APIBase  string // defaults to the v9 API base
	PageSize int    // clamped to [1,100]
	MaxPages int    // page budget; <=0 means 1000
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewPaginator builds a Paginator. It fails only when no token is available.
func NewPaginator(cfg PaginatorConfig) (*Paginator, error) {
	header, err := AuthorizationHeader(cfg.Token)
	if err != nil {
		return nil, err
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 100
	}
	if cfg.PageSize > 100 {
		cfg.PageSize = 100
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1000
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Paginator{
		client:     newHTTPClient(cfg.Timeout),
		apiBase:    cfg.APIBase,
		authHeader: header,
		pageSize:   cfg.PageSize,
		maxPages:   cfg.MaxPages,
		logger:     cfg.Logger,
	}, nil
}

// FetchSince pages backward (newest first) through the channel's history and
// returns every message at or after cutoff. A nil cutoff fetches until the
// page budget or the start of history is reached. Within a page, the first
// message strictly older than cutoff stops both the page and the run; the
// cursor always advances to the oldest id of the page just fetched.
func (p *Paginator) FetchSince(ctx context.Context, channelID string, cutoff *time.Time) ([]Message, error) {
	pagesFetched := metrics.Collector.Counter("channelog_pages_fetched_total", "REST pages fetched")
	accepted := metrics.Collector.Counter("channelog_api_messages_total", "messages accepted from the REST path")

	var collected []Message
	var before string

	for page := 0; page < p.maxPages; page++ {
		batch, err := p.fetchPage(ctx, channelID, before)
		if err != nil {
			return nil, err
		}
		pagesFetched.Inc()
		if len(batch) == 0 {
			break
		}

		stop := false
		for _, msg := range batch {
			if cutoff != nil {
				if ts, ok := parseTimestamp(msg.Timestamp); ok && ts.Before(*cutoff) {
					stop = true
					break
				}
			}
			collected = append(collected, msg)
			accepted.Inc()
		}

		before = batch[len(batch)-1].ID
		if stop {
			break
		}

		p.logger.Debug("page fetched", "channel", channelID, "page", page+1, "messages", len(batch), "before", before)

		// Gentle pacing to be nice to the upstream.
		if err := sleepCtx(ctx, pageDelay); err != nil {
			return nil, err
		}
	}

	return collected, nil
}

// fetchPage requests a single page, looping in place on rate limits. The
// retry loop deliberately has no backoff growth and no attempt cap of its
// own; a server that always answers 429 stalls the run here.
func (p *Paginator) fetchPage(ctx context.Context, channelID, before string) ([]Message, error) {
	rateLimited := metrics.Collector.Counter("channelog_rate_limit_waits_total", "429 responses waited out")

	endpoint := fmt.Sprintf("%s/channels/%s/messages", p.apiBase, channelID)

	for {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(p.pageSize))
		if before != "" {
			q.Set("before", before)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", p.authHeader)
		req.Header.Set("User-Agent", userAgent)

		resp, err := p.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch page: %w", err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			var batch []Message
			err := json.NewDecoder(resp.Body).Decode(&batch)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("decode page: %w", err)
			}
			return batch, nil

		case http.StatusTooManyRequests:
			wait := retryAfter(resp.Body)
			resp.Body.Close()
			rateLimited.Inc()
			p.logger.Warn("rate limited, retrying same page", "wait", wait)
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}

		case http.StatusUnauthorized:
			resp.Body.Close()
			return nil, domain.ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return nil, domain.ErrForbidden

		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return nil, &domain.StatusError{Code: resp.StatusCode, Body: string(body)}
		}
	}
}

// retryAfter reads the retry_after hint (seconds, float) from a 429 body,
// defaulting to 1s, and adds the fixed margin.
func retryAfter(body io.Reader) time.Duration {
	var payload struct {
		RetryAfter float64 `json:"retry_after"`
	}
	seconds := 1.0
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.RetryAfter > 0 {
		seconds = payload.RetryAfter
	}
	return time.Duration(seconds*float64(time.Second)) + retryMargin
}

// parseTimestamp parses an ISO-8601 instant as returned by the API.
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
