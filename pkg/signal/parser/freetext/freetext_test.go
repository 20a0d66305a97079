package freetext

import (
	"errors"
	"math"
	"testing"

	"github.com/jvanloo/tradewatch/pkg/signal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		base     string
		coin     string
		targets  []signal.Target
		stoploss float64
		wantErr  error
	}{
		{
			name: "satoshi targets",
			msg: "LTO/BTC\n" +
				"LTO Network has established itself as a leading blockchain.\n" +
				"\n" +
				"Targets: 493-575-685-795 satoshi",
			base: "BTC",
			coin: "LTO",
			targets: []signal.Target{
				{Price: 0.00000493, Volume: 25},
				{Price: 0.00000575, Volume: 25},
				{Price: 0.00000685, Volume: 25},
				{Price: 0.00000795, Volume: 25},
			},
			stoploss: math.NaN(),
		},
		{
			name: "dollar targets and stoploss",
			msg: "LTO/USDT lying above strong support.\n" +
				"\n" +
				"Targets: $0.1175-0.1575-0.2015-0.2565\n" +
				"SL: $0.0952",
			base: "USDT",
			coin: "LTO",
			targets: []signal.Target{
				{Price: 0.1175, Volume: 25},
				{Price: 0.1575, Volume: 25},
				{Price: 0.2015, Volume: 25},
				{Price: 0.2565, Volume: 25},
			},
			stoploss: 0.0952,
		},
		{
			name: "hash tag pair defaults to usdt",
			msg: "Longing #SAND\n" +
				"Lev - 5x\n" +
				"Single Entry around CMP1.354\n" +
				"Stoploss - H4 close below 1.3$\n" +
				"Targets - 1.385 - 1.42 - 1.48 - 1.72 (25% Each)\n" +
				"@Forex_Tradings",
			base: "USDT",
			coin: "SAND",
			targets: []signal.Target{
				{Price: 1.385, Volume: 25},
				{Price: 1.42, Volume: 25},
				{Price: 1.48, Volume: 25},
				{Price: 1.72, Volume: 25},
			},
			stoploss: 1.3,
		},
		{
			name:     "stoploss without number stays unset",
			msg:      "BTC/USDT\nStoploss - close below support",
			base:     "USDT",
			coin:     "BTC",
			stoploss: math.NaN(),
		},
		{
			name:    "no pair",
			msg:     "Targets: 1.0-2.0",
			wantErr: signal.ErrNoPair,
		},
	}

	p := New("cryptosignal")
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
			if len(got.Targets) != len(tt.targets) {
				t.Fatalf("got %d targets, want %d", len(got.Targets), len(tt.targets))
			}
			for i, target := range got.Targets {
				if !approx(target.Price, tt.targets[i].Price) {
					t.Errorf("target %d: got price %v, want %v", i, target.Price, tt.targets[i].Price)
				}
				if !approx(target.Volume, tt.targets[i].Volume) {
					t.Errorf("target %d: got volume %v, want %v", i, target.Volume, tt.targets[i].Volume)
				}
			}
			if math.IsNaN(tt.stoploss) {
				if got.HasStopLoss() {
					t.Errorf("got stoploss %v, want unset", got.StopLoss)
				}
			} else if !approx(got.StopLoss, tt.stoploss) {
				t.Errorf("got stoploss %v, want %v", got.StopLoss, tt.stoploss)
			}
		})
	}
}

func approx(got, want float64) bool {
	return math.Abs(got-want) < 1e-12
}
