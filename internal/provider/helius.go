package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.helius.xyz"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
	DefaultPageLimit   = 100
)

// HeliusClient fetches enhanced transaction history pages for a wallet.
type HeliusClient struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	pageLimit   int
	maxPages    int
	logger      *zap.Logger
}

// HeliusOption configures HeliusClient.
type HeliusOption func(*HeliusClient)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) HeliusOption {
	return func(c *HeliusClient) {
		c.baseURL = u
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) HeliusOption {
	return func(c *HeliusClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts per page.
func WithMaxRetries(n int) HeliusOption {
	return func(c *HeliusClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) HeliusOption {
	return func(c *HeliusClient) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) HeliusOption {
	return func(c *HeliusClient) {
		c.client = client
	}
}

// WithPageLimit sets transactions requested per page (provider max 100).
func WithPageLimit(n int) HeliusOption {
	return func(c *HeliusClient) {
		c.pageLimit = n
	}
}

// WithMaxPages caps pagination depth; 0 means unbounded.
func WithMaxPages(n int) HeliusOption {
	return func(c *HeliusClient) {
		c.maxPages = n
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) HeliusOption {
	return func(c *HeliusClient) {
		c.logger = logger
	}
}

// NewHeliusClient creates an enhanced-transactions API client.
func NewHeliusClient(apiKey string, opts ...HeliusOption) *HeliusClient {
	c := &HeliusClient{
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
		pageLimit:   DefaultPageLimit,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTransactions pages backwards through the wallet's transaction history
// using the `before` signature cursor until an empty page (or maxPages).
// Pages arrive newest first; the concatenated result preserves that order,
// downstream sorting handles chronology.
func (c *HeliusClient) FetchTransactions(ctx context.Context, wallet string) ([]json.RawMessage, error) {
	var (
		all    []json.RawMessage
		before string
	)

	for page := 0; c.maxPages == 0 || page < c.maxPages; page++ {
		batch, err := c.fetchPage(ctx, wallet, before)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d for %s: %w", page, wallet, err)
		}
		if len(batch) == 0 {
			break
		}

		all = append(all, batch...)
		c.logger.Debug("fetched transaction page",
			zap.String("wallet", wallet),
			zap.Int("page", page),
			zap.Int("transactions", len(batch)))

		if len(batch) < c.pageLimit {
			break
		}
		before, err = lastSignature(batch)
		if err != nil {
			return nil, fmt.Errorf("page %d for %s: %w", page, wallet, err)
		}
	}

	c.logger.Info("fetched transaction history",
		zap.String("wallet", wallet),
		zap.Int("transactions", len(all)))
	return all, nil
}

// fetchPage retrieves one page with retries and exponential backoff.
func (c *HeliusClient) fetchPage(ctx context.Context, wallet, before string) ([]json.RawMessage, error) {
	u := fmt.Sprintf("%s/v0/addresses/%s/transactions", c.baseURL, url.PathEscape(wallet))
	q := url.Values{}
	q.Set("api-key", c.apiKey)
	q.Set("limit", fmt.Sprintf("%d", c.pageLimit))
	if before != "" {
		q.Set("before", before)
	}
	u += "?" + q.Encode()

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			// Client errors are not retried
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
		}

		var batch []json.RawMessage
		if err := json.Unmarshal(body, &batch); err != nil {
			lastErr = fmt.Errorf("unmarshal page: %w", err)
			continue
		}
		return batch, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// lastSignature extracts the pagination cursor from the oldest transaction
// of a page.
func lastSignature(batch []json.RawMessage) (string, error) {
	var tx struct {
		Signature string `json:"signature"`
	}
	if err := json.Unmarshal(batch[len(batch)-1], &tx); err != nil {
		return "", fmt.Errorf("extract cursor: %w", err)
	}
	if tx.Signature == "" {
		return "", fmt.Errorf("extract cursor: transaction without signature")
	}
	return tx.Signature, nil
}
