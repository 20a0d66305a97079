package custom

import (
	"errors"
	"testing"

	"github.com/jvanloo/tradewatch/pkg/signal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		msg     string
		base    string
		coin    string
		action  signal.Action
		wantErr error
	}{
		{
			name:   "long",
			msg:    "Binance\n#USDT_BTC\nLONG",
			base:   "USDT",
			coin:   "BTC",
			action: signal.ActionLong,
		},
		{
			name:   "fourth line flips to close",
			msg:    "Binance\n#USDT_BTC\nLONG\nCLOSE",
			base:   "USDT",
			coin:   "BTC",
			action: signal.ActionClose,
		},
		{
			name:   "close",
			msg:    "Kucoin\n#BTC_ETH\nCLOSE",
			base:   "BTC",
			coin:   "ETH",
			action: signal.ActionClose,
		},
		{
			name:   "futures pair suffix stripped",
			msg:    "Binance\n#USDT_ADAUSDT\nLONG",
			base:   "USDT",
			coin:   "ADA",
			action: signal.ActionLong,
		},
		{
			name:    "unsupported exchange",
			msg:     "Bitfinex\n#USDT_BTC\nLONG",
			wantErr: signal.ErrUnsupportedExchange,
		},
		{
			name:    "unsupported trade type",
			msg:     "Binance\n#USDT_BTC\nSHORT",
			wantErr: signal.ErrUnsupportedTradeType,
		},
		{
			name:    "missing lines",
			msg:     "Binance\n#USDT_BTC",
			wantErr: signal.ErrMalformed,
		},
		{
			name:    "broken pair tag",
			msg:     "Binance\n#USDTBTC\nLONG",
			wantErr: signal.ErrNoPair,
		},
	}

	p := New("custom")
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.msg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.Base != tt.base || got.Coin != tt.coin {
				t.Errorf("got pair (%s,%s), want (%s,%s)", got.Base, got.Coin, tt.base, tt.coin)
			}
			if got.Action != tt.action {
				t.Errorf("got action %s, want %s", got.Action, tt.action)
			}
		})
	}
}
