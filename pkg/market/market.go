// Package market abstracts where current prices and listed pairs come
// from: the 3Commas proxy endpoints by default, or an exchange directly.
package market

import (
	"context"

	"github.com/jvanloo/tradewatch/pkg/threecommas"
)

type Source interface {
	// Rate returns the last traded price for a pair on a market.
	Rate(ctx context.Context, marketCode, pair string) (float64, error)
	// Pairs lists the pairs the market actually trades.
	Pairs(ctx context.Context, marketCode string) ([]string, error)
}

// ThreeCommas serves market data through the 3Commas proxy endpoints and
// works for every market code 3Commas knows.
type ThreeCommas struct {
	Client *threecommas.Client
}

func (s ThreeCommas) Rate(ctx context.Context, marketCode, pair string) (float64, error) {
	return s.Client.CurrencyRate(ctx, marketCode, pair)
}

func (s ThreeCommas) Pairs(ctx context.Context, marketCode string) ([]string, error) {
	return s.Client.MarketPairs(ctx, marketCode)
}
