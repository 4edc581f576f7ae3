package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is the public PokéAPI v2 endpoint
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Client represents a PokéAPI client
type Client struct {
	baseURL        string
	userAgent      string
	spriteTemplate string
	httpClient     *http.Client
	cache          *detailsCache
	group          singleflight.Group
	logger         zerolog.Logger
}

// NewClient creates a new PokéAPI client
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", ErrInvalidConfig, baseURL)
	}

	client := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		userAgent:      "pokedex",
		spriteTemplate: DefaultSpriteTemplate,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:  newDetailsCache(256),
		logger: logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SpriteTemplate returns the image url pattern for list items
func (c *Client) SpriteTemplate() string {
	return c.spriteTemplate
}

// doRequest performs a GET request and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().
		Str("url", reqURL).
		Msg("Making PokéAPI request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, NewAPIError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// Ping checks that the API is reachable
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListPokemon(ctx, 0, 1)
	return err
}

// ListPokemon fetches a page of the catalog
func (c *Client) ListPokemon(ctx context.Context, offset, limit int) (*ListResponse, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.doRequest(ctx, "/pokemon", params)
	if err != nil {
		return nil, err
	}

	var response ListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	c.logger.Debug().
		Int("offset", offset).
		Int("count", len(response.Results)).
		Int("total", response.Count).
		Msg("Retrieved pokemon page")

	return &response, nil
}

// GetPokemon fetches the full details of a pokemon. Concurrent calls for the
// same key share a single request and successful payloads are cached.
func (c *Client) GetPokemon(ctx context.Context, nameOrID string) (*Details, error) {
	key := strings.ToLower(strings.TrimSpace(nameOrID))
	if key == "" {
		return nil, ErrEmptyName
	}

	if c.cache != nil {
		if details, ok := c.cache.Get(key); ok {
			return details, nil
		}
	}

	// The shared request outlives any single caller and is bounded by the
	// client timeout. Each caller still stops waiting on its own ctx.
	sharedCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		body, err := c.doRequest(sharedCtx, "/pokemon/"+url.PathEscape(key), nil)
		if err != nil {
			return nil, err
		}

		var details Details
		if err := json.Unmarshal(body, &details); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}

		if c.cache != nil {
			c.cache.Put(key, &details)
			c.cache.Put(strconv.Itoa(details.ID), &details)
		}
		return &details, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	if res.Shared {
		c.logger.Debug().Str("pokemon", key).Msg("Shared in-flight details request")
	}

	return res.Val.(*Details), nil
}
