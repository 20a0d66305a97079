package hodloo

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
		wantErr error
	}{
		{
			name: "plain pair",
			msg:  "LTO/BTC\nVolume spike detected",
			base: "BTC",
			coin: "LTO",
		},
		{
			name: "markdown emphasis stripped",
			msg:  "**ADA/USDT**\n+5.2% in 5 minutes",
			base: "USDT",
			coin: "ADA",
		},
		{
			name: "lowercase base accepted",
			msg:  "doge/usdt",
			base: "usdt",
			coin: "doge",
		},
		{
			name:    "unsupported base",
			msg:     "LTO/DAI\nVolume spike detected",
			wantErr: signal.ErrUnsupportedBase,
		},
		{
			name:    "no pair",
			msg:     "breaking news",
			wantErr: signal.ErrNoPair,
		},
	}

	p := New("hodloo_5")
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
			if got.Action != signal.ActionLong {
				t.Errorf("got action %s, want LONG", got.Action)
			}
			if got.HasStopLoss() {
				t.Errorf("hodloo intents should carry no stop-loss")
			}
			if got.Source != "hodloo_5" {
				t.Errorf("got source %s, want hodloo_5", got.Source)
			}
		})
	}
}
