// Package airtable implements the record store client: paginated listing,
// chunked batch mutation with bounded retry, and unknown-field recovery.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"go.uber.org/zap"

	"github.com/seedlist/enricher/internal/metrics"
)

// Record is one row of a table: an identifier plus a raw field map.
type Record struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

// Config controls client behavior.
type Config struct {
	APIRoot       string
	Token         string
	BaseID        string
	Timeout       time.Duration
	RetryAttempts uint
	BackoffBase   time.Duration
	ChunkSize     int
	ChunkPause    time.Duration
}

// Client talks to the record store API. All mutations go through chunked
// batches; throttling and server errors are retried with backoff, honoring
// a server-supplied wait hint when present.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// New builds a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.APIRoot == "" {
		cfg.APIRoot = "https://api.airtable.com/v0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 6
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 600 * time.Millisecond
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 10
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s/%s/%s", c.cfg.APIRoot, c.cfg.BaseID, url.PathEscape(table))
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// ListAll fetches every record of a table, following pagination. fields
// limits the projection; unknown field names are a no-op server side.
func (c *Client) ListAll(ctx context.Context, table string, fields []string) ([]Record, error) {
	var out []Record
	offset := ""
	for {
		query := url.Values{}
		for _, f := range fields {
			query.Add("fields[]", f)
		}
		if offset != "" {
			query.Set("offset", offset)
		}
		body, err := c.send(ctx, http.MethodGet, c.tableURL(table), query, nil)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", table, err)
		}
		var page listResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode list %s: %w", table, err)
		}
		out = append(out, page.Records...)
		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

// BatchUpdate patches records in bounded chunks.
func (c *Client) BatchUpdate(ctx context.Context, table string, records []Record) error {
	return c.batchSend(ctx, http.MethodPatch, table, records)
}

// BatchCreate inserts records in bounded chunks.
func (c *Client) BatchCreate(ctx context.Context, table string, records []Record) error {
	return c.batchSend(ctx, http.MethodPost, table, records)
}

// batchSend writes records chunk by chunk. A chunk failing on an unknown
// destination field has that field stripped from every pending record and
// is re-sent; there is no partial-batch rollback, so a hard failure leaves
// earlier chunks committed and is reported for this chunk only.
func (c *Client) batchSend(ctx context.Context, method, table string, records []Record) error {
	idx := 0
	for idx < len(records) {
		end := min(idx+c.cfg.ChunkSize, len(records))
		payload := map[string]any{"records": records[idx:end]}
		_, err := c.send(ctx, method, c.tableURL(table), nil, payload)
		if err != nil {
			if field := unknownField(err); field != "" {
				c.logger.Warn("dropping unknown destination field from batch",
					zap.String("table", table), zap.String("field", field))
				metrics.ObserveUnknownFieldDropped()
				dropField(records, field)
				continue
			}
			return fmt.Errorf("%s %s chunk at %d: %w", method, table, idx, err)
		}
		idx = end
		sleep(ctx, c.cfg.ChunkPause)
	}
	return nil
}

// BatchDelete removes records by ID in bounded chunks.
func (c *Client) BatchDelete(ctx context.Context, table string, ids []string) error {
	idx := 0
	for idx < len(ids) {
		end := min(idx+c.cfg.ChunkSize, len(ids))
		query := url.Values{}
		for _, id := range ids[idx:end] {
			query.Add("records[]", id)
		}
		if _, err := c.send(ctx, http.MethodDelete, c.tableURL(table), query, nil); err != nil {
			return fmt.Errorf("delete %s chunk at %d: %w", table, idx, err)
		}
		idx = end
		sleep(ctx, c.cfg.ChunkPause)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, rawURL string, query url.Values, payload any) ([]byte, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
	}
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	return retry.DoWithData(
		func() ([]byte, error) {
			return c.roundTrip(ctx, method, rawURL, body)
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.RetryAttempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
		retry.DelayType(c.retryDelay),
		retry.OnRetry(func(n uint, err error) {
			metrics.ObserveStoreRetry()
			c.logger.Warn("record store request retried",
				zap.Uint("attempt", n+1), zap.String("url", rawURL), zap.Error(err))
		}),
	)
}

func (c *Client) roundTrip(ctx context.Context, method, rawURL string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug("failed to close response body", zap.Error(cerr))
		}
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		if hint := resp.Header.Get("Retry-After"); hint != "" {
			if secs, perr := strconv.ParseFloat(hint, 64); perr == nil && secs > 0 {
				apiErr.RetryAfter = time.Duration(secs * float64(time.Second))
			}
		}
	}
	// Non-transient statuses fall out of the retry loop via RetryIf; the
	// caller still needs the typed error for unknown-field recovery.
	return nil, apiErr
}

// retryDelay backs off linearly on the base wait, except when the server
// supplied an explicit Retry-After hint, which wins.
func (c *Client) retryDelay(n uint, err error, _ *retry.Config) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter
	}
	return c.cfg.BackoffBase * time.Duration(n+1)
}

func isTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	// Transport-level failures (timeouts, resets) are worth another try.
	return true
}

func dropField(records []Record, field string) {
	for _, rec := range records {
		delete(rec.Fields, field)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
