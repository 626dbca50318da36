// Package backend is the HTTP client for the news aggregation backend.
// It exposes exactly two calls: the liveness check and news collection.
// Retry policy belongs to the caller; the client performs one request.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/user/newsradio/internal/types"
)

const (
	// Health checks stay short so a dead backend does not stall the
	// periodic liveness poll.
	defaultHealthTimeout = 5 * time.Second

	// Collection is slow by nature: the backend fans out to RSS, Reddit
	// and X before answering.
	defaultCollectTimeout = 60 * time.Second
)

// Client calls the news aggregation backend.
type Client struct {
	baseURL        string
	http           *http.Client
	healthTimeout  time.Duration
	collectTimeout time.Duration
}

// NewClient creates a backend client for the given base URL
// (e.g. "http://localhost:8000").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		http:           &http.Client{},
		healthTimeout:  defaultHealthTimeout,
		collectTimeout: defaultCollectTimeout,
	}
}

var _ types.NewsGateway = (*Client)(nil)

// CheckHealth polls /api/health. Any failure (network, timeout, non-200)
// collapses to nil so callers can treat the backend as offline without
// error handling.
func (c *Client) CheckHealth(ctx context.Context) *types.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var status types.HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil
	}
	return &status
}

// CollectNews fetches items for the given topics from the given sources via
// /api/collect. On failure it returns a *GatewayError classifying the cause:
// HTTP status with optional server detail, 408 for a timed-out request, or
// 0 when the backend is unreachable.
func (c *Client) CollectNews(ctx context.Context, topics, sources []string) (types.NewsResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.collectTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("topics", strings.Join(topics, ","))
	if len(sources) > 0 {
		params.Set("sources", strings.Join(sources, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/collect?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readErrorResponse(resp)
	}

	var result types.NewsResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode collect response: %w", err)
	}
	return result, nil
}

// classifyTransportError distinguishes a timed-out request from an
// unreachable backend.
func classifyTransportError(err error) *GatewayError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return newGatewayError(StatusTimeout, "",
			"Request timed out. The backend may be busy collecting news.")
	}
	return newGatewayError(StatusUnreachable, "",
		"Cannot reach the news backend. Check your connection and ensure the backend is running.")
}

// readErrorResponse extracts the optional JSON {"detail": ...} message from a
// failed response, falling back to a generic message built from the status.
func readErrorResponse(resp *http.Response) *GatewayError {
	var body struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	message := body.Detail
	if message == "" {
		message = fmt.Sprintf("Failed to collect news (status %d).", resp.StatusCode)
	}
	return newGatewayError(resp.StatusCode, body.Detail, message)
}
