// Package cloud synchronizes the shortcut store with a jsonbin.io style bin:
// GET returns {"record": <store>, ...} and PUT replaces the bin with the
// request body. Both calls authenticate with an X-Master-Key header.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Iron-Ham/shortcuts/internal/config"
	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/logging"
	"github.com/Iron-Ham/shortcuts/internal/store"
)

// MasterKeyHeader carries the bin's access key.
const MasterKeyHeader = "X-Master-Key"

const (
	directionPull = "pull"
	directionPush = "push"
)

// Client talks to one bin.
type Client struct {
	binURL     string
	masterKey  string
	httpClient *http.Client
	attempts   int
	backoff    time.Duration
	logger     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client, e.g. for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAttempts sets how many times a retryable request is tried.
func WithAttempts(n int) Option {
	return func(c *Client) {
		if n < 1 {
			n = 1
		}
		c.attempts = n
	}
}

// WithBackoff sets the delay before the first retry. Later retries double it.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// WithLogger attaches a logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.WithComponent("cloud")
		}
	}
}

// New creates a client for binURL. Both binURL and masterKey are required.
func New(binURL, masterKey string, opts ...Option) (*Client, error) {
	if binURL == "" || masterKey == "" {
		return nil, errors.NewSyncError("bin URL and master key are required", errors.ErrNotConfigured)
	}
	c := &Client{
		binURL:     binURL,
		masterKey:  masterKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		attempts:   3,
		backoff:    time.Second,
		logger:     logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig builds a client from the cloud section of the config.
func NewFromConfig(cfg *config.CloudConfig, logger *logging.Logger) (*Client, error) {
	opts := []Option{WithLogger(logger), WithAttempts(cfg.MaxRetries)}
	if t := cfg.Timeout(); t > 0 {
		opts = append(opts, WithHTTPClient(&http.Client{Timeout: t}))
	}
	return New(cfg.BinURL, cfg.MasterKey, opts...)
}

// Fetch downloads the bin and returns its record as a store.
// An absent, null or empty record is ErrNoRecord.
func (c *Client) Fetch(ctx context.Context) (*store.Store, error) {
	body, err := c.do(ctx, http.MethodGet, nil, directionPull)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Record json.RawMessage `json:"record"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.NewSyncError("cannot decode cloud response", err).WithDirection(directionPull)
	}
	if emptyRecord(envelope.Record) {
		return nil, errors.NewSyncError("cloud bin is empty", errors.ErrNoRecord).WithDirection(directionPull)
	}

	s, err := store.Parse(envelope.Record)
	if err != nil {
		return nil, errors.NewSyncError("cloud record is not a shortcut store", errors.Join(errors.ErrStoreMalformed, err)).
			WithDirection(directionPull)
	}
	return s, nil
}

func emptyRecord(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "{}", "[]", `""`, "false", "0":
		return true
	}
	return false
}

// Pull overwrites the local store at path with the cloud record. The local
// file is left untouched when the download fails.
func (c *Client) Pull(ctx context.Context, path string) (*store.Store, error) {
	s, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	data, err := store.Marshal(s)
	if err != nil {
		return nil, err
	}
	if err := store.WriteAtomic(path, data); err != nil {
		return nil, err
	}
	c.logger.Info("pulled store from cloud", "path", path, "categories", s.Len(), "entries", s.EntryCount())
	return s, nil
}

// Upload replaces the bin's content with s.
func (c *Client) Upload(ctx context.Context, s *store.Store) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return errors.NewSyncError("cannot encode store", err).WithDirection(directionPush)
	}
	_, err = c.do(ctx, http.MethodPut, data, directionPush)
	return err
}

// Push uploads the local store at path. A missing or malformed local file
// is reported without contacting the bin.
func (c *Client) Push(ctx context.Context, path string) error {
	s, err := store.Load(path)
	if err != nil {
		return err
	}
	if err := c.Upload(ctx, s); err != nil {
		return err
	}
	c.logger.Info("pushed store to cloud", "path", path, "categories", s.Len(), "entries", s.EntryCount())
	return nil
}

// do sends one request, retrying 429 and 5xx responses and transport errors
// with exponential backoff.
func (c *Client) do(ctx context.Context, method string, payload []byte, direction string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			delay := c.backoff << uint(attempt-1)
			c.logger.Warn("retrying cloud request",
				"direction", direction,
				"attempt", attempt+1,
				"delay_ms", delay.Milliseconds(),
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return nil, errors.NewSyncError("request cancelled", ctx.Err()).WithDirection(direction)
			case <-time.After(delay):
			}
		}

		body, err := c.send(ctx, method, payload, direction)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !errors.IsRetryable(err) || ctx.Err() != nil {
			break
		}
	}
	c.logger.Error("cloud request failed", "direction", direction, "error", lastErr)
	return nil, lastErr
}

func (c *Client) send(ctx context.Context, method string, payload []byte, direction string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.binURL, reader)
	if err != nil {
		return nil, errors.NewSyncError("cannot build request", err).WithDirection(direction)
	}
	req.Header.Set(MasterKeyHeader, c.masterKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewSyncError("request failed", errors.Join(errors.ErrSyncFailed, err)).
			WithDirection(direction).WithRetryable(ctx.Err() == nil)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewSyncError("cannot read response", err).WithDirection(direction).WithRetryable(true)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewSyncError(
			fmt.Sprintf("bin answered %s: %s", resp.Status, strings.TrimSpace(string(body))),
			errors.ErrSyncFailed,
		).WithDirection(direction).WithStatusCode(resp.StatusCode)
	}
	return body, nil
}
