package workflow

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/submission"
)

// DefaultEndpoint is the workflow-creation URL used when none is configured.
const DefaultEndpoint = "http://localhost:8000/create-workflow"

// Client posts intake payloads to the workflow service.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ submission.Transport = (*Client)(nil)

// NewClient constructs a Client. The default HTTP client has no timeout, so a
// hung request keeps the caller waiting until the transport resolves.
func NewClient(options ...Option) (*Client, error) {
	c := &Client{
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	endpoint, err := ValidateEndpoint(c.endpoint)
	if err != nil {
		return nil, err
	}
	c.endpoint = endpoint
	return c, nil
}

// Endpoint reports the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Post sends body as application/json and returns the response status code.
// Errors are returned as produced by the HTTP client so their message reaches
// the error banner unchanged.
func (c *Client) Post(ctx context.Context, body []byte) (int, error) {
	if len(body) == 0 {
		return 0, ErrEmptyBody
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("workflow request failed", zap.String("endpoint", c.endpoint), zap.Error(err))
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug("workflow request completed",
		zap.String("endpoint", c.endpoint),
		zap.Int("status_code", resp.StatusCode),
	)
	return resp.StatusCode, nil
}

// ValidateEndpoint trims raw and checks it is an absolute http(s) URL without
// a query string.
func ValidateEndpoint(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: endpoint is empty", ErrInvalidEndpoint)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidEndpoint, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}
	if parsed.RawQuery != "" {
		return "", fmt.Errorf("%w: query parameters are not supported", ErrInvalidEndpoint)
	}
	return trimmed, nil
}
