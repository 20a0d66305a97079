package parser

import (
	"errors"

	"github.com/jvanloo/tradewatch/pkg/signal"
	"github.com/jvanloo/tradewatch/pkg/signal/parser/custom"
	"github.com/jvanloo/tradewatch/pkg/signal/parser/freetext"
	"github.com/jvanloo/tradewatch/pkg/signal/parser/hodloo"
)

var ErrNotFound = errors.New("parser: not found")

// New returns the parser for a dialect tag. Both smarttrade channels speak
// the freetext dialect; they only differ in where they are subscribed.
func New(dialect string) (signal.Parser, error) {
	switch dialect {
	case "hodloo_5", "hodloo_10":
		return hodloo.New(dialect), nil
	case "custom":
		return custom.New(dialect), nil
	case "forex", "cryptosignal":
		return freetext.New(dialect), nil
	default:
		return nil, ErrNotFound
	}
}
