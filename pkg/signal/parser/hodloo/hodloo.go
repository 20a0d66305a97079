// Package hodloo parses Hodloo pump alerts. The first line carries the
// pair as COIN/BASE, optionally wrapped in markdown emphasis markers.
package hodloo

import (
	"fmt"
	"math"
	"strings"

	"github.com/jvanloo/tradewatch/pkg/signal"
)

var bases = map[string]bool{
	"bnb":  true,
	"btc":  true,
	"busd": true,
	"eth":  true,
	"eur":  true,
	"usdt": true,
}

type Parser struct {
	source string
}

func New(source string) *Parser {
	return &Parser{source: source}
}

func (p *Parser) Parse(text string) (*signal.Intent, error) {
	lines := strings.Split(text, "\n")
	head := strings.ReplaceAll(strings.TrimSpace(lines[0]), "**", "")
	parts := strings.Split(head, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("hodloo: %w: %q", signal.ErrNoPair, head)
	}
	coin := strings.TrimSpace(parts[0])
	base := strings.TrimSpace(parts[1])
	if !bases[strings.ToLower(base)] {
		return nil, fmt.Errorf("hodloo: %w: %q", signal.ErrUnsupportedBase, base)
	}
	return &signal.Intent{
		Base:     base,
		Coin:     coin,
		Action:   signal.ActionLong,
		Source:   p.source,
		StopLoss: math.NaN(),
		Raw:      text,
	}, nil
}
