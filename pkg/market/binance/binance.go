// Package binance serves market data straight from the Binance public API,
// skipping the 3Commas round-trip for binance market codes. Other markets
// fall through to a fallback source.
package binance

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/adshao/go-binance/v2"

	"github.com/jvanloo/tradewatch/pkg/market"
)

type source struct {
	client   *binance.Client
	fallback market.Source
}

// New creates a binance-backed source. Only public endpoints are used, so
// no credentials are needed. fallback may be nil.
func New(fallback market.Source) market.Source {
	return &source{
		client:   binance.NewClient("", ""),
		fallback: fallback,
	}
}

func (s *source) Rate(ctx context.Context, marketCode, pair string) (float64, error) {
	if !strings.HasPrefix(marketCode, "binance") {
		if s.fallback == nil {
			return 0, fmt.Errorf("binance: unsupported market code %s", marketCode)
		}
		return s.fallback.Rate(ctx, marketCode, pair)
	}
	symbol, err := symbol(pair)
	if err != nil {
		return 0, err
	}
	prices, err := s.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("binance: couldn't fetch price for %s: %w", symbol, err)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("binance: no price for %s", symbol)
	}
	last, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, fmt.Errorf("binance: couldn't parse price %q: %w", prices[0].Price, err)
	}
	return last, nil
}

func (s *source) Pairs(ctx context.Context, marketCode string) ([]string, error) {
	if !strings.HasPrefix(marketCode, "binance") {
		if s.fallback == nil {
			return nil, fmt.Errorf("binance: unsupported market code %s", marketCode)
		}
		return s.fallback.Pairs(ctx, marketCode)
	}
	info, err := s.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance: couldn't fetch exchange info: %w", err)
	}
	var pairs []string
	for _, sym := range info.Symbols {
		if sym.Status != "TRADING" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s_%s", sym.QuoteAsset, sym.BaseAsset))
	}
	return pairs, nil
}

// symbol converts a BASE_COIN pair into binance's COINBASE spelling.
func symbol(pair string) (string, error) {
	parts := strings.SplitN(pair, "_", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("binance: invalid pair %q", pair)
	}
	return parts[1] + parts[0], nil
}
