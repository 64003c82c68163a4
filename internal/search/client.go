// Package search wraps the Tavily web search API with credential failover.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second
	// maxErrorBody bounds how much of a failed response is kept in the error.
	maxErrorBody = 512
)

// Depth is the Tavily search_depth parameter.
type Depth string

// DepthBasic is the only depth the agent tools request.
const DepthBasic Depth = "basic"

// Request is a single search call.
type Request struct {
	Query      string `json:"query"`
	Depth      Depth  `json:"search_depth"`
	MaxResults int    `json:"max_results"`
}

// Result is one search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Response is the decoded search response.
type Response struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
}

// APIError is returned for non-2xx responses from the search service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search API status %d: %s", e.StatusCode, e.Body)
}

// Searcher performs one search call with one credential.
type Searcher interface {
	Search(ctx context.Context, apiKey string, req Request) (*Response, error)
}

// NewHTTPClient creates an HTTP client tuned for search calls.
// It does not follow redirects.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: timeout,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   5,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Client calls the Tavily REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client against baseURL (e.g. https://api.tavily.com).
func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type tavilyRequest struct {
	APIKey string `json:"api_key"`
	Request
}

// Search performs one POST /search call authenticated with apiKey.
func (c *Client) Search(ctx context.Context, apiKey string, req Request) (*Response, error) {
	if req.Depth == "" {
		req.Depth = DepthBasic
	}

	payload, err := json.Marshal(tavilyRequest{APIKey: apiKey, Request: req})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("User-Agent", "Minutes-Search/1.0")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &parsed, nil
}
