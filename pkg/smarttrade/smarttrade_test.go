package smarttrade

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jvanloo/tradewatch/pkg/signal"
)

func TestValid(t *testing.T) {
	targets := []signal.Target{
		{Price: 1.385, Volume: 25},
		{Price: 1.42, Volume: 25},
		{Price: 1.48, Volume: 25},
		{Price: 1.72, Volume: 25},
	}
	tests := []struct {
		name    string
		current float64
		targets []signal.Target
		stop    float64
		policy  Validator
		want    bool
	}{
		{"valid long", 1.35, targets, 1.3, Validator{}, true},
		{"no targets", 1.35, nil, 1.3, Validator{}, false},
		{"stoploss unset", 1.35, targets, math.NaN(), Validator{}, false},
		{"stoploss above price", 1.35, targets, 1.4, Validator{}, false},
		{"stoploss at price", 1.35, targets, 1.35, Validator{}, false},
		{"target below price", 1.5, targets, 1.3, Validator{}, false},
		{"target at price rejected by default", 1.385, targets, 1.3, Validator{}, false},
		{"target at price accepted by policy", 1.385, targets, 1.3, Validator{AllowTargetAtPrice: true}, true},
		{"infinite stoploss", 1.35, targets, math.Inf(-1), Validator{}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.Valid(tt.current, nil, tt.targets, tt.stop)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPositionSize(t *testing.T) {
	size := PositionSize(decimal.NewFromInt(20), decimal.NewFromFloat(0.5))
	if !size.Equal(decimal.NewFromInt(40)) {
		t.Errorf("got %s, want 40", size)
	}
}

func TestPositionPayload(t *testing.T) {
	p := Position("buy", "market", decimal.NewFromFloat(0.001))
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"buy","order_type":"market","units":{"value":"0.001"}}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestTakeProfitPayload(t *testing.T) {
	tp := TakeProfit(true, "limit", []signal.Target{
		{Price: 30000, Volume: 50},
		{Price: 40000, Volume: 50},
	})
	if !tp.Enabled || len(tp.Steps) != 2 {
		t.Fatalf("unexpected take profit: %+v", tp)
	}
	data, err := json.Marshal(tp.Steps[0])
	if err != nil {
		t.Fatal(err)
	}
	want := `{"order_type":"limit","price":{"value":"30000","type":"last"},"volume":"50"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestStopLossPayload(t *testing.T) {
	sl := StopLoss("limit", 15000.0)
	if !sl.Enabled || sl.Conditional == nil {
		t.Fatalf("unexpected stop loss: %+v", sl)
	}
	if !sl.Conditional.Price.Value.Equal(decimal.NewFromInt(15000)) {
		t.Errorf("got price %s", sl.Conditional.Price.Value)
	}

	unset := StopLoss("limit", math.NaN())
	if unset.Enabled || unset.Conditional != nil {
		t.Errorf("NaN stop loss should be disabled: %+v", unset)
	}
}
