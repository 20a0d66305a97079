package threecommas

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Wire types for the smart_trades_v2 endpoint. Decimal values marshal as
// quoted strings, which is what the API expects.

type Position struct {
	Type      string `json:"type"`
	OrderType string `json:"order_type"`
	Units     Units  `json:"units"`
}

type Units struct {
	Value decimal.Decimal `json:"value"`
}

type Price struct {
	Value decimal.Decimal `json:"value"`
	Type  string          `json:"type"`
}

type TakeProfit struct {
	Enabled bool             `json:"enabled"`
	Steps   []TakeProfitStep `json:"steps"`
}

type TakeProfitStep struct {
	OrderType string          `json:"order_type"`
	Price     Price           `json:"price"`
	Volume    decimal.Decimal `json:"volume"`
}

type StopLoss struct {
	Enabled     bool         `json:"enabled"`
	OrderType   string       `json:"order_type,omitempty"`
	Conditional *Conditional `json:"conditional,omitempty"`
}

type Conditional struct {
	Price Price `json:"price"`
}

type Leverage struct {
	Enabled bool `json:"enabled"`
}

// SmartTradeRequest is the full open payload. Note is the caller-supplied
// idempotency key; resubmitting the same note replaces nothing on the
// remote side but lets the trade be found again.
type SmartTradeRequest struct {
	AccountID  int64      `json:"account_id"`
	Pair       string     `json:"pair"`
	Note       string     `json:"note"`
	Leverage   Leverage   `json:"leverage"`
	Position   Position   `json:"position"`
	TakeProfit TakeProfit `json:"take_profit"`
	StopLoss   StopLoss   `json:"stop_loss"`
}

type SmartTrade struct {
	ID int64 `json:"id"`
}

// OpenSmartTrade submits a new smarttrade and returns its remote id.
func (c *Client) OpenSmartTrade(ctx context.Context, req *SmartTradeRequest) (*SmartTrade, error) {
	var st SmartTrade
	if err := c.do(ctx, http.MethodPost, "/public/api/v2/smart_trades", nil, req, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// CloseSmartTrade closes a smarttrade by market, unconditionally.
func (c *Client) CloseSmartTrade(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/public/api/v2/smart_trades/%d/close_by_market", id)
	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}
