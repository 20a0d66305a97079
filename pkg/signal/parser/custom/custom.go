// Package custom parses the tagged trigger feed: an exchange name, a
// #BASE_COIN pair tag, a trade type, and an optional CLOSE override line.
package custom

import (
	"fmt"
	"math"
	"strings"

	"github.com/jvanloo/tradewatch/pkg/signal"
)

var exchanges = map[string]bool{
	"binance": true,
	"ftx":     true,
	"kucoin":  true,
}

type Parser struct {
	source string
}

func New(source string) *Parser {
	return &Parser{source: source}
}

func (p *Parser) Parse(text string) (*signal.Intent, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, strings.TrimSpace(line))
	}
	if len(lines) < 3 {
		return nil, fmt.Errorf("custom: %w: got %d lines", signal.ErrMalformed, len(lines))
	}

	exchange := lines[0]
	pair := strings.ReplaceAll(lines[1], "#", "")
	parts := strings.SplitN(pair, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("custom: %w: %q", signal.ErrNoPair, lines[1])
	}
	base := parts[0]
	coin := parts[1]

	// Futures feeds started tagging pairs as #USDT_BTCUSDT; strip the
	// duplicated base suffix from the coin.
	if strings.HasSuffix(coin, base) && len(coin) > len(base) {
		coin = strings.TrimSuffix(coin, base)
	}

	trade := lines[2]
	if trade == "LONG" && len(lines) == 4 && lines[3] == "CLOSE" {
		trade = "CLOSE"
	}

	if !exchanges[strings.ToLower(exchange)] {
		return nil, fmt.Errorf("custom: %w: %q", signal.ErrUnsupportedExchange, exchange)
	}
	if trade != "LONG" && trade != "CLOSE" {
		return nil, fmt.Errorf("custom: %w: %q", signal.ErrUnsupportedTradeType, trade)
	}

	return &signal.Intent{
		Base:     base,
		Coin:     coin,
		Action:   signal.Action(trade),
		Source:   p.source,
		StopLoss: math.NaN(),
		Raw:      text,
	}, nil
}
