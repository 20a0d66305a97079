// Package dispatch turns a normalized trade intent into at most one
// trading-bot API call per configured bot, guarded by capacity and
// eligibility checks. The checks only avoid provoking API-level
// rejections; the remote API stays the final authority.
package dispatch

import (
	"context"

	"github.com/jvanloo/tradewatch/pkg/logger"
	"github.com/jvanloo/tradewatch/pkg/pairs"
	"github.com/jvanloo/tradewatch/pkg/signal"
	"github.com/jvanloo/tradewatch/pkg/threecommas"
)

type API interface {
	Bot(ctx context.Context, id int64) (*threecommas.Bot, error)
	AccountMarketCode(ctx context.Context, accountID int64) (string, error)
	StartDeal(ctx context.Context, botID int64, pair string) error
	CloseDeal(ctx context.Context, dealID int64) error
}

type Dispatcher struct {
	api API
	log *logger.Logger

	// Built once before the event loop starts, read-only afterwards.
	marketCodes map[int64]string
	blacklist   map[string]struct{}
}

func New(api API, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		api:         api,
		log:         log,
		marketCodes: make(map[int64]string),
		blacklist:   make(map[string]struct{}),
	}
}

// SetBlacklist replaces the blacklist set. Never called while a dispatch
// is in flight.
func (d *Dispatcher) SetBlacklist(set map[string]struct{}) {
	d.blacklist = set
}

// Prefetch resolves and caches the market code for every distinct bot id.
// Individual failures leave the bot out of the cache; its dispatches are
// skipped later with a warning.
func (d *Dispatcher) Prefetch(ctx context.Context, botIDs []int64) {
	seen := make(map[int64]bool, len(botIDs))
	for _, id := range botIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true

		bot, err := d.api.Bot(ctx, id)
		if err != nil {
			d.log.Errorf("couldn't fetch bot %d for marketcode prefetch: %s", id, threecommas.Message(err))
			continue
		}
		marketCode, err := d.api.AccountMarketCode(ctx, bot.AccountID)
		if err != nil {
			d.log.Errorf("couldn't fetch marketcode for bot %d (account %d): %s", id, bot.AccountID, threecommas.Message(err))
			continue
		}
		d.marketCodes[id] = marketCode
	}
	d.log.Infof("prefetched marketcodes for %d of %d bots", len(d.marketCodes), len(seen))
}

// CachedBots returns how many bots have a known market code.
func (d *Dispatcher) CachedBots() int {
	return len(d.marketCodes)
}

// DispatchAll processes the list of bots for a coin in order.
func (d *Dispatcher) DispatchAll(ctx context.Context, botIDs []int64, coin string, action signal.Action) {
	for _, id := range botIDs {
		if id == 0 {
			continue
		}
		d.Dispatch(ctx, id, coin, action)
	}
}

// Dispatch fetches the bot's live state and issues at most one deal action
// for the coin. Every failure mode is a logged skip, never an error that
// escapes to the event loop.
func (d *Dispatcher) Dispatch(ctx context.Context, botID int64, coin string, action signal.Action) {
	bot, err := d.api.Bot(ctx, botID)
	if err != nil {
		d.log.Errorf("couldn't fetch bot %d: %s", botID, threecommas.Message(err))
		return
	}

	if action == signal.ActionLong && bot.ActiveDealsCount >= bot.MaxActiveDeals {
		d.log.Notifyf("bot %q reached maximum number of deals (%d), cannot start a new deal for %s",
			bot.Name, bot.MaxActiveDeals, coin)
		return
	}

	marketCode, ok := d.marketCodes[bot.ID]
	if !ok {
		d.log.Warnf("marketcode unknown for bot %q (%d), skipping %s", bot.Name, bot.ID, coin)
		return
	}
	if len(bot.Pairs) == 0 {
		d.log.Warnf("bot %q (%d) has no pairs configured, skipping %s", bot.Name, bot.ID, coin)
		return
	}
	base := baseOf(bot.Pairs[0])
	pair := pairs.Normalize(marketCode, base, coin)
	d.log.Debugf("bot %q uses %s (%s), normalized pair %s", bot.Name, bot.AccountName, marketCode, pair)

	switch action {
	case signal.ActionLong:
		d.long(ctx, bot, pair)
	case signal.ActionClose:
		d.close(ctx, bot, pair)
	default:
		d.log.Errorf("unknown action %q for bot %q", action, bot.Name)
	}
}

func (d *Dispatcher) long(ctx context.Context, bot *threecommas.Bot, pair string) {
	if pairs.IsBlacklisted(pair, d.blacklist) {
		d.log.Notifyf("pair %s is blacklisted and was skipped", pair)
		return
	}
	if !pairs.IsTradable(pair, bot.Pairs) {
		d.log.Notifyf("pair %s is not in %q pairlist and was skipped", pair, bot.Name)
		return
	}
	d.log.Infof("triggering bot %q for a start deal of %s", bot.Name, pair)
	if err := d.api.StartDeal(ctx, bot.ID, pair); err != nil {
		d.log.Errorf("couldn't start deal for %s on bot %q: %s", pair, bot.Name, threecommas.Message(err))
		return
	}
	d.log.Notifyf("started deal for %s on bot %q", pair, bot.Name)
}

func (d *Dispatcher) close(ctx context.Context, bot *threecommas.Bot, pair string) {
	for _, deal := range bot.ActiveDeals {
		if deal.Pair != pair {
			continue
		}
		d.log.Infof("triggering bot %q for a panic sell of %s", bot.Name, pair)
		if err := d.api.CloseDeal(ctx, deal.ID); err != nil {
			d.log.Errorf("couldn't close deal %d for %s: %s", deal.ID, pair, threecommas.Message(err))
			return
		}
		d.log.Notifyf("closed deal for %s on bot %q", pair, bot.Name)
		return
	}
	d.log.Notifyf("no deal running for bot %q and pair %s", bot.Name, pair)
}

func baseOf(pair string) string {
	for i := 0; i < len(pair); i++ {
		if pair[i] == '_' {
			return pair[:i]
		}
	}
	return pair
}
