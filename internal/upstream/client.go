package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/telvana/fleet-console/internal/core/port"
)

const (
	defaultTimeout  = 15 * time.Second
	fetchAllPageCap = 200
)

// Config carries the settings required to reach the fleet API. The token is
// injected explicitly; the client never consults ambient session state.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client is the authenticated HTTP client for the upstream fleet API. It
// normalizes response envelopes, categorizes failures, and never retries.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient constructs a fleet API client.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("upstream base url is required")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: base,
		token:   strings.TrimSpace(cfg.Token),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// WithToken returns a client bound to a different bearer token, sharing the
// underlying transport. Used to act on behalf of the calling session.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = strings.TrimSpace(token)
	return &clone
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if c.token == "" {
		return nil, ErrAuthMissing
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call fleet api: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Category:   categorize(resp.StatusCode),
			Message:    errorMessage(payload),
		}
		c.logger.Warn("fleet api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("category", string(apiErr.Category)),
		)
		return nil, apiErr
	}

	return payload, nil
}

// errorMessage digs a human-readable message out of an error body, if any.
func errorMessage(payload []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func listQueryValues(q port.ListQuery) url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.UserID != "" {
		values.Set("userId", q.UserID)
	}
	return values
}

var _ port.FleetAPI = (*Client)(nil)
