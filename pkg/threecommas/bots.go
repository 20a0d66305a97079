package threecommas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Bot is the read-only snapshot of a trading bot, fetched fresh for every
// dispatch cycle.
type Bot struct {
	ID               int64       `json:"id"`
	AccountID        int64       `json:"account_id"`
	AccountName      string      `json:"account_name"`
	Name             string      `json:"name"`
	Pairs            []string    `json:"pairs"`
	ActiveDealsCount int         `json:"active_deals_count"`
	MaxActiveDeals   int         `json:"max_active_deals"`
	ActiveDeals      []Deal      `json:"active_deals"`
	MinVolumeBTC24h  json.Number `json:"min_volume_btc_24h"`
}

type Deal struct {
	ID   int64  `json:"id"`
	Pair string `json:"pair"`
}

// Bot fetches the live state of a bot.
func (c *Client) Bot(ctx context.Context, id int64) (*Bot, error) {
	var bot Bot
	path := fmt.Sprintf("/public/api/ver1/bots/%d/show", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &bot); err != nil {
		return nil, err
	}
	return &bot, nil
}

// AccountMarketCode returns the exchange market code of a trading account.
func (c *Client) AccountMarketCode(ctx context.Context, accountID int64) (string, error) {
	var account struct {
		MarketCode string `json:"market_code"`
	}
	path := fmt.Sprintf("/public/api/ver1/accounts/%d", accountID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &account); err != nil {
		return "", err
	}
	return account.MarketCode, nil
}

// MarketPairs lists the pairs the exchange behind a market code actually
// trades.
func (c *Client) MarketPairs(ctx context.Context, marketCode string) ([]string, error) {
	query := url.Values{"market_code": {marketCode}}
	var pairs []string
	if err := c.do(ctx, http.MethodGet, "/public/api/ver1/accounts/market_pairs", query, nil, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

// CurrencyRate returns the last traded price for a pair on a market.
func (c *Client) CurrencyRate(ctx context.Context, marketCode, pair string) (float64, error) {
	query := url.Values{
		"market_code": {marketCode},
		"pair":        {pair},
	}
	var rate struct {
		Last json.Number `json:"last"`
	}
	if err := c.do(ctx, http.MethodGet, "/public/api/ver1/accounts/currency_rates", query, nil, &rate); err != nil {
		return 0, err
	}
	last, err := rate.Last.Float64()
	if err != nil {
		return 0, fmt.Errorf("threecommas: couldn't parse rate %q: %w", rate.Last, err)
	}
	return last, nil
}

// StartDeal asks the bot to open a deal for the pair.
func (c *Client) StartDeal(ctx context.Context, botID int64, pair string) error {
	path := fmt.Sprintf("/public/api/ver1/bots/%d/start_new_deal", botID)
	payload := map[string]string{"pair": pair}
	return c.do(ctx, http.MethodPost, path, nil, payload, nil)
}

// CloseDeal panic-sells an open deal.
func (c *Client) CloseDeal(ctx context.Context, dealID int64) error {
	path := fmt.Sprintf("/public/api/ver1/deals/%d/panic_sell", dealID)
	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}

// Blacklist fetches the account-wide pair blacklist.
func (c *Client) Blacklist(ctx context.Context) ([]string, error) {
	var out struct {
		Pairs []string `json:"pairs"`
	}
	if err := c.do(ctx, http.MethodGet, "/public/api/ver1/bots/pairs_black_list", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Pairs, nil
}

// UpdateBotPairs replaces the bot's configured pair list, keeping its other
// settings untouched.
func (c *Client) UpdateBotPairs(ctx context.Context, bot *Bot, pairs []string) error {
	path := fmt.Sprintf("/public/api/ver1/bots/%d/update", bot.ID)
	payload := map[string]interface{}{
		"name":             bot.Name,
		"pairs":            pairs,
		"max_active_deals": bot.MaxActiveDeals,
	}
	return c.do(ctx, http.MethodPatch, path, nil, payload, nil)
}
