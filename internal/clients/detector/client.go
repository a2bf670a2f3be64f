// Package detector provides the recognizer client for the tracker poll loop
package detector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	perr "signtrack/internal/platform/errors"
	"signtrack/internal/platform/logger"
	str "signtrack/internal/platform/strings"
	dom "signtrack/internal/services/tracker/domain"
)

const (
	defaultTimeout = 2 * time.Second
	defaultUA      = "signtrack-agent"
	maxBodyBytes   = 64 << 10
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client polls the recognizer's latest-sample endpoint
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		panic("detector client: empty base URL")
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
		log:  *logger.Named("detector"),
	}
}

// latestWire is the recognizer's response shape; every field is optional
type latestWire struct {
	Sign     *string  `json:"sign"`
	Conf     *float64 `json:"conf"`
	Filipino *string  `json:"filipino"`
}

// Latest implements tracker/domain.DetectorPort
// transport errors and malformed payloads both surface as errors; the
// caller maps them to the no-detection branch
func (c *Client) Latest(ctx context.Context) (dom.Sample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"/latest", nil)
	if err != nil {
		return dom.Sample{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "detector new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return dom.Sample{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "detector query failed")
	}
	defer func() { _, _ = io.Copy(io.Discard, resp.Body); _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return dom.Sample{}, perr.Newf(perr.ErrorCodeUnavailable, "detector status %d", resp.StatusCode)
	}

	var wire latestWire
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&wire); err != nil {
		return dom.Sample{}, perr.Wrapf(err, perr.ErrorCodeJSON, "detector payload malformed")
	}

	s := dom.Sample{
		Label:    strings.TrimSpace(str.Deref(wire.Sign)),
		Filipino: str.Deref(wire.Filipino),
	}
	if wire.Conf != nil {
		s.Confidence = *wire.Conf
	}
	return s, nil
}
