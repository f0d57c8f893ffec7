// Package eodhd provides a client for the EODHD API
package eodhd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/interfaces"
	"github.com/tomhartley/ledgerd/internal/models"
)

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the MarketDataClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// IsRateLimited reports whether err is an API rate-limit response.
// EODHD signals exhausted quota with 429 (throttle) or 402 (daily limit).
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests ||
			apiErr.StatusCode == http.StatusPaymentRequired
	}
	return false
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	// Add API key
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// realTimeResponse represents the API response for real-time quotes
type realTimeResponse struct {
	Code      string  `json:"code"`
	Close     float64 `json:"close"`
	Currency  string  `json:"currency"`
	Timestamp int64   `json:"timestamp"`
}

// GetQuote retrieves the current quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	path := fmt.Sprintf("/real-time/%s", symbol)

	var resp realTimeResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	currency := resp.Currency
	if currency == "" {
		currency = inferCurrency(symbol)
	}

	ts := time.Now()
	if resp.Timestamp > 0 {
		ts = time.Unix(resp.Timestamp, 0)
	}

	return &models.Quote{
		Symbol:    symbol,
		Price:     resp.Close,
		Currency:  currency,
		Timestamp: ts,
	}, nil
}

// eodBarResponse represents the API response for EOD data
type eodBarResponse struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	Close float64 `json:"close"`
}

// GetDailyCloses retrieves daily close bars for [from, to], ascending.
func (c *Client) GetDailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error) {
	params := url.Values{}
	params.Set("period", "d")
	params.Set("order", "a")

	if !from.IsZero() {
		params.Set("from", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		params.Set("to", to.Format("2006-01-02"))
	}

	path := fmt.Sprintf("/eod/%s", symbol)

	var rows []eodBarResponse
	if err := c.get(ctx, path, params, &rows); err != nil {
		return nil, err
	}

	bars := make([]models.PriceBar, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			continue
		}
		bars = append(bars, models.PriceBar{
			Symbol: symbol,
			Date:   date,
			Close:  row.Close,
			Open:   row.Open,
		})
	}

	return bars, nil
}

// GetForexRate retrieves the current rate for a forex pair (e.g. "GBPUSD").
func (c *Client) GetForexRate(ctx context.Context, pair string) (float64, error) {
	path := fmt.Sprintf("/real-time/%s.FOREX", pair)

	var resp realTimeResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return 0, err
	}
	if resp.Close <= 0 {
		return 0, fmt.Errorf("forex rate for %s not available", pair)
	}
	return resp.Close, nil
}

// inferCurrency guesses the quoting currency from the exchange suffix when
// the source omits it. LSE equities quote in pence (GBX).
func inferCurrency(symbol string) string {
	upper := strings.ToUpper(symbol)
	switch {
	case strings.HasSuffix(upper, ".LSE"), strings.HasSuffix(upper, ".L"):
		return "GBX"
	default:
		return "USD"
	}
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
