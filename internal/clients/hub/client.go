// Package hub provides the client for the remote engagement hub
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	perr "signtrack/internal/platform/errors"
	"signtrack/internal/platform/logger"
)

const (
	defaultTimeout = 5 * time.Second
	defaultUA      = "signtrack-agent"
	maxBodyBytes   = 64 << 10
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// User is sent as X-User so the hub can scope rows; empty uses the
	// hub's default user
	User string
}

// Client talks to the hub's detection log and progress sync endpoints
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		panic("hub client: empty base URL")
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("hub"),
	}
}

// SaveDetection implements tracker/domain.SinkPort
func (c *Client) SaveDetection(ctx context.Context, label string, confidence float64) error {
	return c.post(ctx, "/save_detection", map[string]any{
		"sign":       label,
		"confidence": confidence,
	})
}

// SyncProgress implements syncer/service.PusherPort
func (c *Client) SyncProgress(ctx context.Context, xp, level, streak int) error {
	return c.post(ctx, "/sync_progress", map[string]any{
		"xp":     xp,
		"level":  level,
		"streak": streak,
	})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "hub payload marshal failed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "hub new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.opts.User != "" {
		req.Header.Set("X-User", c.opts.User)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "hub post %s failed", path)
	}
	defer func() { _, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes)); _ = resp.Body.Close() }()

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("hub http response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return perr.Newf(perr.ErrorCodeUnavailable, "hub post %s status %d", path, resp.StatusCode)
	}
	return nil
}
