package pairs

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		market string
		base   string
		coin   string
		want   string
	}{
		{"default spelling", "binance", "USDT", "BTC", "USDT_BTC"},
		{"unknown market passes through", "somewhere", "EUR", "ADA", "EUR_ADA"},
		{"busd futures substitutes quote", "binance_futures_busd", "USDT", "BTC", "BUSD_BTC"},
		{"busd futures keeps coin", "binance_futures_busd", "USDT", "ETH", "BUSD_ETH"},
		{"binance us lists usd", "binance_us", "USDT", "BTC", "USD_BTC"},
		{"binance us busd", "binance_us", "BUSD", "BTC", "USD_BTC"},
		{"futures coin suffix", "binance_futures", "USDT", "BTC", "USDT_BTCUSDT"},
		{"futures suffix not duplicated", "binance_futures", "USDT", "BTCUSDT", "USDT_BTCUSDT"},
		{"btc stays btc", "binance_futures_busd", "BTC", "LTO", "BTC_LTO"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.market, tt.base, tt.coin)
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

// Re-normalizing the output for the same market must be stable.
func TestNormalizeStable(t *testing.T) {
	for _, market := range []string{"binance", "binance_us", "binance_futures", "binance_futures_busd", "unknown"} {
		first := Normalize(market, "USDT", "BTC")
		parts := strings.SplitN(first, "_", 2)
		second := Normalize(market, parts[0], parts[1])
		if first != second {
			t.Errorf("%s: normalize not stable: %s != %s", market, first, second)
		}
	}
}

func TestIsBlacklisted(t *testing.T) {
	a := NewBlacklist([]string{"USDT_BTC", "BTC_DOGE"})
	b := NewBlacklist([]string{"BTC_DOGE", "USDT_BTC"})
	for _, set := range []map[string]struct{}{a, b} {
		if !IsBlacklisted("USDT_BTC", set) {
			t.Error("USDT_BTC should be blacklisted")
		}
		if IsBlacklisted("USDT_ETH", set) {
			t.Error("USDT_ETH should not be blacklisted")
		}
	}
}

func TestIsTradable(t *testing.T) {
	tickers := []string{"USDT_BTC", "USDT_ETH", "BTC_LTO"}
	reversed := []string{"BTC_LTO", "USDT_ETH", "USDT_BTC"}
	for _, list := range [][]string{tickers, reversed} {
		if !IsTradable("USDT_ETH", list) {
			t.Error("USDT_ETH should be tradable")
		}
		if IsTradable("USDT_DOGE", list) {
			t.Error("USDT_DOGE should not be tradable")
		}
	}
}

func TestNewBlacklistSkipsComments(t *testing.T) {
	set := NewBlacklist([]string{"# header", "", " USDT_BTC ", "BTC_DOGE"})
	if len(set) != 2 {
		t.Fatalf("got %d entries, want 2", len(set))
	}
	if !IsBlacklisted("USDT_BTC", set) {
		t.Error("trimmed pair should be present")
	}
}
