// Package pairs knows how a base/coin tuple is spelled on a given market
// and which pairs are eligible for dispatch.
package pairs

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Some markets spell the same settlement currency with a different quote
// symbol: Binance.US lists USD where other markets list USDT or BUSD, and
// the BUSD-margined futures market quotes USDT pairs in BUSD. The coin
// symbol is never touched.
var quoteOverrides = map[string]map[string]string{
	"binance_us":           {"USDT": "USD", "BUSD": "USD"},
	"binance_futures_busd": {"USDT": "BUSD"},
}

// USDT-margined futures spell the coin with the quote appended, e.g.
// USDT_BTCUSDT.
var suffixedCoin = map[string]bool{
	"binance_futures": true,
}

// Normalize returns the pair spelling valid on the given market. Unknown
// market codes pass through unchanged; callers proceed and let the remote
// API be the final authority. Applying Normalize to its own output for the
// same market returns the same string.
func Normalize(marketCode, base, coin string) string {
	if sub, ok := quoteOverrides[marketCode]; ok {
		if quote, ok := sub[base]; ok {
			base = quote
		}
	}
	if suffixedCoin[marketCode] && !strings.HasSuffix(coin, base) {
		coin += base
	}
	return fmt.Sprintf("%s_%s", base, coin)
}

// IsBlacklisted reports whether the pair is on the blacklist.
func IsBlacklisted(pair string, blacklist map[string]struct{}) bool {
	_, ok := blacklist[pair]
	return ok
}

// IsTradable reports whether the market actually lists the pair.
func IsTradable(pair string, tickers []string) bool {
	for _, ticker := range tickers {
		if ticker == pair {
			return true
		}
	}
	return false
}

// NewBlacklist builds the blacklist set from a list of pairs.
func NewBlacklist(pairs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" || strings.HasPrefix(pair, "#") {
			continue
		}
		set[pair] = struct{}{}
	}
	return set
}

// LoadBlacklist reads a local blacklist file, one pair per line, blank
// lines and #-comments ignored.
func LoadBlacklist(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pairs: couldn't open blacklist %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pairs: couldn't read blacklist %s: %w", path, err)
	}
	return NewBlacklist(lines), nil
}
