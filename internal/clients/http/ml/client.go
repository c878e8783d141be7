// Package ml talks to the recommendation and forecasting service over plain HTTP.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxErrorBody = 4 << 10

// Product is a catalog entry as returned by the ML service.
type Product struct {
	ID                string  `json:"_id"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	Image             string  `json:"image"`
	PredictedQuantity *int    `json:"predicted_quantity,omitempty"`
	BoughtCount       *int    `json:"bought_count,omitempty"`
}

type chatRequest struct {
	Prompt string `json:"prompt"`
}

// ChatReply is the chatbot answer.
type ChatReply struct {
	Reply string `json:"reply"`
}

// StatusError reports a non-2xx answer from the ML service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ml service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("ml service returned %d: %s", e.StatusCode, e.Message)
}

// Client wraps an http.Client bound to the ML service base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient instantiates the ML client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("ml base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse ml base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("ml base URL %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: parsed, http: httpClient}, nil
}

func (c *Client) Recommend(ctx context.Context, userID string) ([]Product, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/recommend/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Popular(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/popular", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Forecast(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/forecast", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BusinessStrategy returns the strategy document verbatim.
func (c *Client) BusinessStrategy(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/business-strategy", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PredictedLeads returns one page of scored customers verbatim.
func (c *Client) PredictedLeads(ctx context.Context, page, limit int) (json.RawMessage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/predicted-leads", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Chat(ctx context.Context, prompt string) (*ChatReply, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("prompt is required")
	}
	var out ChatReply
	if err := c.do(ctx, http.MethodPost, "/chatbot", nil, chatRequest{Prompt: prompt}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do treats path as already escaped.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c == nil || c.http == nil || c.baseURL == nil {
		return errors.New("ml client not configured")
	}
	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode ml request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("build ml request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call ml service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode ml response: %w", err)
	}
	return nil
}

// errorMessage prefers the "message" or "error" field of a JSON error body.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if msg := strings.TrimSpace(body.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(body.Error); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(raw))
}
