// Package threecommas is a minimal client for the 3Commas REST API,
// covering the calls the dispatch core needs. Requests are signed with
// HMAC-SHA256 over path, query and body. The client never retries; retry
// policy belongs to the caller.
package threecommas

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.3commas.io"

type Client struct {
	// BaseURL can be overridden for tests.
	BaseURL string

	http   *http.Client
	key    string
	secret string
	paper  bool
}

// New creates a client. With paper enabled every trading request carries
// the Forced-Mode: paper header and hits the paper trading account.
func New(key, secret string, paper bool) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		key:     key,
		secret:  secret,
		paper:   paper,
	}
}

// APIError is the structured error payload returned by 3Commas. Msg is the
// optional human-readable message; it may be empty.
type APIError struct {
	Status int    `json:"-"`
	Type   string `json:"error"`
	Msg    string `json:"msg"`
}

func (e *APIError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("threecommas: %s", e.Msg)
	}
	if e.Type != "" {
		return fmt.Sprintf("threecommas: %s", e.Type)
	}
	return fmt.Sprintf("threecommas: request failed with status %d", e.Status)
}

// Message returns the provider's message when present, or a generic one.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Msg != "" {
		return apiErr.Msg
	}
	return err.Error()
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("threecommas: couldn't encode payload: %w", err)
		}
	}
	uri := path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+uri, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("threecommas: couldn't create request: %w", err)
	}
	req.Header.Set("Apikey", c.key)
	req.Header.Set("Signature", c.sign(uri, body))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.paper {
		req.Header.Set("Forced-Mode", "paper")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("threecommas: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("threecommas: couldn't read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("threecommas: couldn't decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) sign(uri string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(uri))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
