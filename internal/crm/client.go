// Package crm delivers completed assessments to the mailing list and the
// sales pipeline.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"
)

// ErrNotConfigured is returned by clients constructed without credentials.
var ErrNotConfigured = errors.New("crm client not configured")

// APIError is a non-2xx response from an upstream service.
type APIError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Service, e.StatusCode, e.Message)
}

// ClientOption configures the HTTP behaviour shared by the CRM clients.
type ClientOption func(*httpClient)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *httpClient) { h.client = c }
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) ClientOption {
	return func(h *httpClient) { h.baseURL = u }
}

// WithRetries sets the number of attempts and the base backoff between
// rate-limited or failed attempts.
func WithRetries(attempts int, backoff time.Duration) ClientOption {
	return func(h *httpClient) {
		h.maxRetries = attempts
		h.backoff = backoff
	}
}

type httpClient struct {
	service    string
	baseURL    string
	token      string
	client     *http.Client
	maxRetries int
	backoff    time.Duration
}

func newHTTPClient(service, baseURL, token string, opts []ClientOption) httpClient {
	h := httpClient{
		service:    service,
		baseURL:    baseURL,
		token:      token,
		client:     &http.Client{Timeout: 15 * time.Second},
		maxRetries: 3,
		backoff:    time.Second,
	}
	for _, o := range opts {
		o(&h)
	}
	if h.maxRetries < 1 {
		h.maxRetries = 1
	}
	return h
}

// postJSON sends body to path and decodes a JSON response into out (which
// may be nil). 429 and 5xx responses are retried with exponential backoff;
// other non-2xx responses return an *APIError immediately.
func (h *httpClient) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	url := h.baseURL + path

	var lastErr error
	for attempt := 0; attempt < h.maxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(math.Pow(2, float64(attempt-1))) * h.backoff
			log.Printf("[crm] %s: retry %d/%d in %v", h.service, attempt, h.maxRetries-1, wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+h.token)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := h.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			continue
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = &APIError{Service: h.service, StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
			continue
		}
		if resp.StatusCode >= 400 {
			return &APIError{Service: h.service, StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
		}

		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("decode %s response: %w", h.service, err)
			}
		}
		return nil
	}
	return fmt.Errorf("%s: max retries exceeded: %w", h.service, lastErr)
}

// errorMessage extracts a human-readable message from an error body.
// MailerLite returns {"message":...}; Salesforce returns
// [{"message":...,"errorCode":...}].
func errorMessage(body []byte) string {
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &obj) == nil && obj.Message != "" {
		return obj.Message
	}
	var list []struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	}
	if json.Unmarshal(body, &list) == nil && len(list) > 0 {
		if list[0].ErrorCode != "" {
			return list[0].ErrorCode + ": " + list[0].Message
		}
		return list[0].Message
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}
