package pokeapi

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithCacheSize sets how many detail payloads are kept in memory.
// Zero disables caching.
func WithCacheSize(size int) Option {
	return func(c *Client) {
		if size <= 0 {
			c.cache = nil
			return
		}
		c.cache = newDetailsCache(size)
	}
}

// WithSpriteTemplate sets the image url pattern used for list items.
func WithSpriteTemplate(template string) Option {
	return func(c *Client) {
		if template != "" {
			c.spriteTemplate = template
		}
	}
}
