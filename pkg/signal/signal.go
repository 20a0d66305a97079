package signal

import (
	"errors"
	"fmt"
	"math"
)

// Action is the normalized trade direction carried by an intent.
type Action string

const (
	ActionLong  Action = "LONG"
	ActionClose Action = "CLOSE"
)

// Reject reasons shared by all dialect parsers. Parsers wrap these with
// message detail, callers match with errors.Is.
var (
	ErrNoPair               = errors.New("signal: no pair found")
	ErrUnsupportedBase      = errors.New("signal: unsupported base currency")
	ErrUnsupportedExchange  = errors.New("signal: unsupported exchange")
	ErrUnsupportedTradeType = errors.New("signal: unsupported trade type")
	ErrMalformed            = errors.New("signal: malformed message")
)

// Target is a single take-profit step.
type Target struct {
	Price  float64
	Volume float64
}

// Intent is the canonical result of parsing one inbound message. The pair
// is kept in the source dialect's own currency labels; translating it to a
// market's spelling is the pair normalizer's job, not the parser's.
// StopLoss is NaN when the message carries none.
type Intent struct {
	Base     string
	Coin     string
	Action   Action
	Source   string
	Targets  []Target
	StopLoss float64
	Raw      string
}

// Pair returns the intent's pair in BASE_COIN form.
func (i *Intent) Pair() string {
	return fmt.Sprintf("%s_%s", i.Base, i.Coin)
}

// HasStopLoss reports whether the message carried a stop-loss price.
func (i *Intent) HasStopLoss() bool {
	return !math.IsNaN(i.StopLoss)
}

type Parser interface {
	Parse(text string) (*Intent, error)
}
