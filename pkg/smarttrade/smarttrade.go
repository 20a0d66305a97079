// Package smarttrade validates parsed signal data and builds the payload
// fragments for opening a smarttrade.
package smarttrade

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jvanloo/tradewatch/pkg/signal"
	"github.com/jvanloo/tradewatch/pkg/threecommas"
)

// Validator decides whether parsed signal data is safe to submit as a long
// smarttrade. The wrong-side rule for targets is a policy choice: by
// default every target must be strictly above the current price;
// AllowTargetAtPrice also accepts targets sitting exactly on it.
type Validator struct {
	AllowTargetAtPrice bool
}

// Valid reports whether a long trade built from this data should be
// submitted: at least one target, a finite stop-loss strictly below the
// current price, and no target on the wrong side of it. Entries are
// accepted as-is; signals carry market entries only.
func (v Validator) Valid(currentPrice float64, entries, targets []signal.Target, stopLoss float64) bool {
	if len(targets) == 0 {
		return false
	}
	if math.IsNaN(stopLoss) || math.IsInf(stopLoss, 0) || stopLoss >= currentPrice {
		return false
	}
	for _, target := range targets {
		if target.Price > currentPrice {
			continue
		}
		if v.AllowTargetAtPrice && target.Price == currentPrice {
			continue
		}
		return false
	}
	return true
}

// PositionSize converts a quote-currency amount into units at the current
// price.
func PositionSize(amount, currentPrice decimal.Decimal) decimal.Decimal {
	return amount.Div(currentPrice)
}

// Position builds the position fragment of an open-smarttrade payload.
func Position(side, orderType string, size decimal.Decimal) threecommas.Position {
	return threecommas.Position{
		Type:      side,
		OrderType: orderType,
		Units:     threecommas.Units{Value: size},
	}
}

// TakeProfit builds the take-profit fragment from parsed targets, keeping
// their order.
func TakeProfit(enabled bool, orderType string, targets []signal.Target) threecommas.TakeProfit {
	steps := make([]threecommas.TakeProfitStep, 0, len(targets))
	for _, target := range targets {
		steps = append(steps, threecommas.TakeProfitStep{
			OrderType: orderType,
			Price: threecommas.Price{
				Value: decimal.NewFromFloat(target.Price),
				Type:  "last",
			},
			Volume: decimal.NewFromFloat(target.Volume),
		})
	}
	return threecommas.TakeProfit{
		Enabled: enabled,
		Steps:   steps,
	}
}

// StopLoss builds the stop-loss fragment. A NaN price yields a disabled
// stop-loss.
func StopLoss(orderType string, price float64) threecommas.StopLoss {
	if math.IsNaN(price) {
		return threecommas.StopLoss{Enabled: false}
	}
	return threecommas.StopLoss{
		Enabled:   true,
		OrderType: orderType,
		Conditional: &threecommas.Conditional{
			Price: threecommas.Price{
				Value: decimal.NewFromFloat(price),
				Type:  "last",
			},
		},
	}
}
