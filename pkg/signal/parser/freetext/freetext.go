// Package freetext parses loosely formatted signal-channel posts. Lines are
// scanned independently of order: one names the pair, one the take-profit
// targets, one the stop-loss. Only the pair is mandatory.
package freetext

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jvanloo/tradewatch/pkg/signal"
)

// Matches decimals with 1-8 fractional digits or bare integers of at least
// two digits, so single-digit tokens like leverage "5x" are never picked up.
var num = regexp.MustCompile(`[0-9]{1,5}[.,][0-9]{1,8}|[0-9]{2,}`)

type Parser struct {
	source string
}

func New(source string) *Parser {
	return &Parser{source: source}
}

func (p *Parser) Parse(text string) (*signal.Intent, error) {
	intent := &signal.Intent{
		Action:   signal.ActionLong,
		Source:   p.source,
		StopLoss: math.NaN(),
		Raw:      text,
	}
	var found bool
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.Contains(line, "/USDT"), strings.Contains(line, "/BTC"), strings.Contains(line, "#"):
			base, coin, ok := parsePair(line)
			if ok && !found {
				intent.Base = base
				intent.Coin = coin
				found = true
			}
		case strings.Contains(line, "Target"):
			intent.Targets = parseTargets(line)
		case strings.Contains(line, "Stoploss"), strings.Contains(line, "SL:"):
			intent.StopLoss = parseStopLoss(line)
		}
	}
	if !found {
		return nil, fmt.Errorf("freetext: %w in %q", signal.ErrNoPair, text)
	}
	return intent, nil
}

func parsePair(line string) (base, coin string, ok bool) {
	if strings.Contains(line, "/USDT") || strings.Contains(line, "/BTC") {
		parts := strings.Split(strings.Fields(line)[0], "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return "", "", false
		}
		return parts[1], parts[0], true
	}
	// A bare #tag names the coin, quote defaults to USDT.
	for _, field := range strings.Fields(line) {
		if !strings.Contains(field, "#") {
			continue
		}
		coin := strings.ReplaceAll(field, "#", "")
		if idx := strings.Index(coin, "/"); idx >= 0 {
			coin = coin[:idx]
		}
		if coin == "" {
			return "", "", false
		}
		return "USDT", coin, true
	}
	return "", "", false
}

func parseTargets(line string) []signal.Target {
	satoshi := strings.Contains(line, "satoshi")
	// Ignore trailing annotations like "(25% Each)".
	if idx := strings.Index(line, "("); idx >= 0 {
		line = line[:idx]
	}
	matches := num.FindAllString(line, -1)
	if len(matches) == 0 {
		return nil
	}
	volume := 100.0 / float64(len(matches))
	targets := make([]signal.Target, 0, len(matches))
	for _, m := range matches {
		price, err := parseNumber(m)
		if err != nil {
			continue
		}
		if satoshi {
			price *= 1e-8
		}
		targets = append(targets, signal.Target{Price: price, Volume: volume})
	}
	return targets
}

func parseStopLoss(line string) float64 {
	m := num.FindString(line)
	if m == "" {
		return math.NaN()
	}
	price, err := parseNumber(m)
	if err != nil {
		return math.NaN()
	}
	return price
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}
