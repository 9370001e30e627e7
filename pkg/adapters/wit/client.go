// Package wit implements the Understander port against the wit.ai
// message and speech endpoints.
package wit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mintaka-labs/pennywise/internal/logging"
	"github.com/mintaka-labs/pennywise/pkg/nlu"
	gocache "github.com/patrickmn/go-cache"
)

const (
	defaultBaseURL  = "https://api.wit.ai"
	defaultVersion  = "20240304"
	defaultCacheTTL = 30 * time.Second
)

// Client calls the wit.ai API. Responses to repeated text utterances
// are cached briefly, which absorbs chat-surface retries without
// implementing a retry policy here.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	version    string
	cache      *gocache.Cache
	cacheTTL   time.Duration
	observe    func(time.Duration)
	logger     *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (timeouts, transports).
func WithHTTPClient(c *http.Client) Option {
	return func(w *Client) {
		w.httpClient = c
	}
}

// WithBaseURL overrides the API endpoint. Intended for tests.
func WithBaseURL(baseURL string) Option {
	return func(w *Client) {
		w.baseURL = baseURL
	}
}

// WithVersion pins the wit.ai API version date.
func WithVersion(version string) Option {
	return func(w *Client) {
		w.version = version
	}
}

// WithCacheTTL sets how long identical utterances are answered from cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(w *Client) {
		w.cacheTTL = ttl
	}
}

// WithLatencyObserver registers a callback receiving the duration of
// each upstream call (used to feed metrics).
func WithLatencyObserver(observe func(time.Duration)) Option {
	return func(w *Client) {
		w.observe = observe
	}
}

// WithLogger sets a structured logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Client) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a wit.ai client with the given server access token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
		version:    defaultVersion,
		cacheTTL:   defaultCacheTTL,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = gocache.New(c.cacheTTL, 2*c.cacheTTL)
	return c
}

// Message analyzes a text utterance via GET /message.
func (c *Client) Message(ctx context.Context, text string) (*nlu.Payload, error) {
	if cached, ok := c.cache.Get(text); ok {
		c.logger.Debug("nlu cache hit", "text", text)
		return cached.(*nlu.Payload), nil
	}

	endpoint := fmt.Sprintf("%s/message?v=%s&q=%s", c.baseURL, c.version, url.QueryEscape(text))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build message request: %w", err)
	}

	payload, err := c.do(req)
	if err != nil {
		return nil, err
	}

	c.cache.Set(text, payload, gocache.DefaultExpiration)
	return payload, nil
}

// Speech analyzes a voice recording via POST /speech. Audio is never cached.
func (c *Client) Speech(ctx context.Context, audio io.Reader, contentType string) (*nlu.Payload, error) {
	endpoint := fmt.Sprintf("%s/speech?v=%s", c.baseURL, c.version)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, audio)
	if err != nil {
		return nil, fmt.Errorf("build speech request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*nlu.Payload, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.observe != nil {
		c.observe(time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("nlu request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read nlu response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nlu returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return nlu.Decode(body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
