package challenge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kotoba-lab/questcore/internal/schemas"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Client talks to the remote challenge service. Failures never reach the
// caller of ListPending, AppSettings or NotifyAsync: they are logged and
// replaced with empty or default values.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
	wg     sync.WaitGroup
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client. A client with an empty BaseURL is disabled and makes
// no requests.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("challenge")
	return c
}

// Enabled reports whether a service endpoint is configured.
func (c *Client) Enabled() bool { return c.cfg.BaseURL != "" }

// ListPending returns the challenges waiting for learner. Entries the
// service sends with an unknown mode are skipped.
func (c *Client) ListPending(ctx context.Context, learner Learner) []Entry {
	if !c.Enabled() {
		return nil
	}
	entries, err := c.listPending(ctx, learner)
	if err != nil {
		c.logger.Warn("list challenges failed", zap.Error(err))
		return nil
	}
	return entries
}

func (c *Client) listPending(ctx context.Context, learner Learner) ([]Entry, error) {
	who, err := json.Marshal(learner)
	if err != nil {
		return nil, fmt.Errorf("encode learner: %w", err)
	}

	var resp listResponse
	q := url.Values{"action": {"getChallenges"}, "userInfo": {string(who)}}
	if err := c.getJSON(ctx, q, listSchema, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ErrRejected{Message: resp.Message}
	}

	out := make([]Entry, 0, len(resp.Challenges))
	for _, w := range resp.Challenges {
		e := w.entry()
		if !e.Mode.Valid() {
			c.logger.Debug("skip challenge with unknown mode",
				zap.String("challenge_id", e.ID), zap.String("mode", w.Mode))
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// AppSettings fetches the remote UI switches. Any failure yields the zero
// Settings, which hides every optional button.
func (c *Client) AppSettings(ctx context.Context) Settings {
	if !c.Enabled() {
		return Settings{}
	}
	var resp settingsResponse
	q := url.Values{"action": {"getAppSettings"}}
	if err := c.getJSON(ctx, q, settingsSchema, &resp); err != nil {
		c.logger.Warn("fetch app settings failed", zap.Error(err))
		return Settings{}
	}
	if !resp.Success {
		c.logger.Warn("fetch app settings failed", zap.Error(&ErrRejected{Message: resp.Message}))
		return Settings{}
	}
	return Settings{
		ShowLogoutButton: resp.Settings.ShowLogoutButton,
		ShowResetButton:  resp.Settings.ShowResetButton,
	}
}

// Notify reports the outcome of a challenge and waits for the service to
// accept it. score is omitted from the request when nil.
func (c *Client) Notify(ctx context.Context, id string, status Status, score *int) error {
	if !c.Enabled() {
		return nil
	}
	body, err := json.Marshal(updateRequest{
		Action:      "updateChallenge",
		ChallengeID: id,
		Status:      status,
		ResultScore: score,
	})
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	return retry(ctx, c.cfg.Retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		// The service only accepts simple requests.
		req.Header.Set("Content-Type", "text/plain;charset=utf-8")
		_, err = c.do(req)
		return err
	})
}

// NotifyAsync reports the outcome in the background. The request outlives
// ctx's cancellation but not the configured timeout. Failures are logged.
func (c *Client) NotifyAsync(ctx context.Context, id string, status Status, score *int) {
	if !c.Enabled() {
		return
	}
	ctx = context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		start := time.Now()
		if err := c.Notify(ctx, id, status, score); err != nil {
			c.logger.Warn("notify challenge failed",
				zap.String("challenge_id", id),
				zap.String("status", string(status)),
				zap.Error(err))
			return
		}
		c.logger.Debug("challenge notified",
			zap.String("challenge_id", id),
			zap.String("status", string(status)),
			zap.Duration("latency", time.Since(start)))
	}()
}

// Wait blocks until every NotifyAsync call has finished.
func (c *Client) Wait() { c.wg.Wait() }

func (c *Client) getJSON(ctx context.Context, q url.Values, schema *schemas.Schema, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	return retry(ctx, c.cfg.Retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(q), nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		raw, err := c.do(req)
		if err != nil {
			return err
		}
		if err := schemas.Validate(schema, raw); err != nil {
			return &ErrInvalidResponse{Content: raw, Err: err}
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("decode: %w", err)}
		}
		return nil
	})
}

// do sends req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrUnavailable{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, &ErrUnavailable{StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	case resp.StatusCode >= 400:
		return nil, &ErrRejected{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(raw))}
	}
	return raw, nil
}

func (c *Client) endpoint(q url.Values) string {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return c.cfg.BaseURL + "?" + q.Encode()
	}
	merged := u.Query()
	for k, vs := range q {
		merged[k] = vs
	}
	u.RawQuery = merged.Encode()
	return u.String()
}
