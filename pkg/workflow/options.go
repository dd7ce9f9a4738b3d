package workflow

import (
	"net/http"

	"go.uber.org/zap"
)

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides DefaultEndpoint. The value is validated by NewClient.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client, e.g. to add a timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger used for request lines.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}
