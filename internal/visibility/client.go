package visibility

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ZanzyTHEbar/aeo-meter/internal/errors"
	"github.com/ZanzyTHEbar/aeo-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/aeo-meter/internal/resilience"
)

// Client queries a citation-visibility HTTP endpoint. Calls run under retry
// and a circuit breaker so a flapping provider fails fast instead of stalling
// every analysis.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	breaker  *resilience.CircuitBreaker
	retry    resilience.RetryConfig
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
}

// NewClient creates a visibility client for the given endpoint. An empty
// endpoint yields a nil client, which callers treat as "no checker
// configured".
func NewClient(endpoint, token string) *Client {
	if endpoint == "" {
		return nil
	}
	return &Client{
		endpoint: endpoint,
		token:    token,
		http:     &http.Client{Timeout: 10 * time.Second},
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			FailureThreshold: 5,
			RecoveryTimeout:  30 * time.Second,
			SuccessThreshold: 3,
		}),
		retry: resilience.DefaultRetryConfig(),
	}
}

// WithMonitoring attaches call metrics and logging. Both are optional; a
// bare client stays silent.
func (c *Client) WithMonitoring(metrics *monitoring.Metrics, logger *monitoring.Logger) *Client {
	c.metrics = metrics
	c.logger = logger
	return c
}

func (c *Client) record(statusCode int, elapsed time.Duration, success bool) {
	if c.metrics != nil {
		c.metrics.RecordVisibilityCall(success)
	}
	if c.logger != nil {
		c.logger.ExternalAPILogger("visibility", "/v1/citations", statusCode, elapsed, success)
	}
}

type citationResponse struct {
	Results []CitationRecord `json:"results"`
}

// Check queries the endpoint for citation records. Network, auth, and
// provider failures surface as external-API errors for the caller to degrade
// on, never as partial records.
func (c *Client) Check(ctx context.Context, pageURL, query string) ([]CitationRecord, error) {
	var records []CitationRecord

	err := resilience.Retry(ctx, c.retry, func() error {
		return c.breaker.Call(func() error {
			result, err := c.fetch(ctx, pageURL, query)
			if err != nil {
				return err
			}
			records = result
			return nil
		})
	})
	if err != nil {
		return nil, errors.NewExternalAPIError("visibility", err)
	}

	return records, nil
}

func (c *Client) fetch(ctx context.Context, pageURL, query string) ([]CitationRecord, error) {
	reqURL := fmt.Sprintf("%s/v1/citations?url=%s&query=%s",
		c.endpoint, url.QueryEscape(pageURL), url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build citation request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.record(0, time.Since(start), false)
		return nil, fmt.Errorf("citation request failed: %w", err)
	}
	defer resp.Body.Close()
	c.record(resp.StatusCode, time.Since(start), resp.StatusCode == http.StatusOK)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("citation API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload citationResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode citation response: %w", err)
	}

	return payload.Results, nil
}
