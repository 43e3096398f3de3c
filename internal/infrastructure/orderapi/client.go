// Package orderapi is the HTTP client for the order backend that owns
// orders and the product catalog.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prodsheet/backend/internal/domain/order"
	"github.com/prodsheet/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	defaultTimeout         = 15 * time.Second
	defaultMaxResponseSize = 32 << 20
)

// Config configures the order backend client.
type Config struct {
	// BaseURL is the API root, e.g. https://orders.example.com/api
	BaseURL string
	// PublicURL is the API root as seen by people opening shared links.
	// Defaults to BaseURL.
	PublicURL string
	// AuthToken is sent as a bearer token when set
	AuthToken       string
	Timeout         time.Duration
	MaxResponseSize int64
	UserAgent       string
}

// Client reads orders and products from the order backend.
type Client struct {
	base       *url.URL
	public     *url.URL
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient validates cfg and builds a client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("orderapi: base URL is required")
	}
	base, err := parseRoot(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("orderapi: invalid base URL: %w", err)
	}
	public := base
	if cfg.PublicURL != "" {
		if public, err = parseRoot(cfg.PublicURL); err != nil {
			return nil, fmt.Errorf("orderapi: invalid public URL: %w", err)
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxResponseSize <= 0 {
		cfg.MaxResponseSize = defaultMaxResponseSize
	}

	c := &Client{
		base:       base,
		public:     public,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("orderapi")
	return c, nil
}

func parseRoot(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("missing host")
	}
	return u, nil
}

// GetOrder fetches one order by ID.
func (c *Client) GetOrder(ctx context.Context, id order.ID) (*order.Order, error) {
	body, err := c.get(ctx, "orders", id.String())
	if err != nil {
		return nil, err
	}
	var o order.Order
	if err := decode(body, &o); err != nil {
		return nil, fmt.Errorf("%w: malformed order %s: %w", shared.ErrUpstreamUnavailable, id, err)
	}
	if o.ID == "" {
		o.ID = id
	}
	return &o, nil
}

// ListProducts fetches the whole product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]order.CatalogProduct, error) {
	body, err := c.get(ctx, "products")
	if err != nil {
		return nil, err
	}
	var products []order.CatalogProduct
	if err := decode(body, &products); err != nil {
		return nil, fmt.Errorf("%w: malformed product list: %w", shared.ErrUpstreamUnavailable, err)
	}
	return products, nil
}

// ExportPDFURL is the backend link that serves the order as a PDF.
func (c *Client) ExportPDFURL(id order.ID) string {
	return c.public.JoinPath("orders", id.String(), "export-pdf").String()
}

// Ping checks the backend answers at all.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "products")
	return err
}

func (c *Client) get(ctx context.Context, segments ...string) ([]byte, error) {
	endpoint := c.base.JoinPath(segments...).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("orderapi: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("orderapi: GET %s: %w", endpoint, ctxErr)
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrUpstreamUnavailable, err)
	}

	c.logger.Debug("backend request",
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, shared.ErrNotFound.WithMessage("order backend: " + strings.Join(segments, "/") + " not found")
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("%w: GET %s returned HTTP %d", shared.ErrUpstreamUnavailable, endpoint, resp.StatusCode)
	}
	return body, nil
}

// decode accepts both bare payloads and {"data": ...} envelopes.
func decode(body []byte, v any) error {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
			body = env.Data
		}
	}
	return json.Unmarshal(body, v)
}

var _ order.Source = (*Client)(nil)
