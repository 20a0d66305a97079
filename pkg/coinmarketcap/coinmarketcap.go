// Package coinmarketcap fetches ranked coin listings used by the batch
// pairlist refresher.
package coinmarketcap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://pro-api.coinmarketcap.com"

type Client struct {
	// BaseURL can be overridden for tests.
	BaseURL string

	http *http.Client
	key  string
}

func New(key string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		key:     key,
	}
}

// TopCoins returns coin symbols ranked by market cap, starting at the
// 1-based start position.
func (c *Client) TopCoins(ctx context.Context, start, limit int) ([]string, error) {
	query := url.Values{
		"start":   {strconv.Itoa(start)},
		"limit":   {strconv.Itoa(limit)},
		"convert": {"BTC"},
		"aux":     {"cmc_rank"},
	}
	uri := c.BaseURL + "/v1/cryptocurrency/listings/latest?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("coinmarketcap: couldn't create request: %w", err)
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coinmarketcap: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coinmarketcap: request failed with status %d", resp.StatusCode)
	}

	var out struct {
		Data []struct {
			Symbol string `json:"symbol"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("coinmarketcap: couldn't decode response: %w", err)
	}
	coins := make([]string, 0, len(out.Data))
	for _, entry := range out.Data {
		coins = append(coins, entry.Symbol)
	}
	return coins, nil
}
