// Package pairlist is the batch variant of the dispatcher: instead of
// reacting to alerts it periodically rebuilds each bot's configured pair
// list from a coin ranking, dropping blacklisted and unlisted pairs.
package pairlist

import (
	"context"

	"github.com/jvanloo/tradewatch/pkg/logger"
	"github.com/jvanloo/tradewatch/pkg/market"
	"github.com/jvanloo/tradewatch/pkg/pairs"
	"github.com/jvanloo/tradewatch/pkg/threecommas"
)

type API interface {
	Bot(ctx context.Context, id int64) (*threecommas.Bot, error)
	AccountMarketCode(ctx context.Context, accountID int64) (string, error)
	UpdateBotPairs(ctx context.Context, bot *threecommas.Bot, pairs []string) error
}

type Ranking interface {
	TopCoins(ctx context.Context, start, limit int) ([]string, error)
}

type Refresher struct {
	api       API
	market    market.Source
	ranking   Ranking
	log       *logger.Logger
	blacklist map[string]struct{}
}

func New(api API, src market.Source, ranking Ranking, log *logger.Logger) *Refresher {
	return &Refresher{
		api:       api,
		market:    src,
		ranking:   ranking,
		log:       log,
		blacklist: make(map[string]struct{}),
	}
}

// SetBlacklist replaces the blacklist set. Called between polling cycles
// only, never while a refresh is running.
func (r *Refresher) SetBlacklist(set map[string]struct{}) {
	r.blacklist = set
}

// Refresh rebuilds the pair list of every configured bot from the ranking
// window [start, end]. Per-bot failures are logged and skipped.
func (r *Refresher) Refresh(ctx context.Context, botIDs []int64, start, end int) {
	coins, err := r.ranking.TopCoins(ctx, start, 1+end-start)
	if err != nil {
		r.log.Errorf("couldn't fetch coin ranking: %v", err)
		return
	}
	for _, id := range botIDs {
		if id == 0 {
			continue
		}
		bot, err := r.api.Bot(ctx, id)
		if err != nil {
			r.log.Errorf("couldn't fetch bot %d: %s", id, threecommas.Message(err))
			continue
		}
		r.refreshBot(ctx, bot, coins)
	}
}

func (r *Refresher) refreshBot(ctx context.Context, bot *threecommas.Bot, coins []string) {
	if len(bot.Pairs) == 0 {
		r.log.Warnf("bot %q (%d) has no pairs configured, skipping refresh", bot.Name, bot.ID)
		return
	}
	base := baseOf(bot.Pairs[0])

	marketCode, err := r.api.AccountMarketCode(ctx, bot.AccountID)
	if err != nil {
		r.log.Errorf("couldn't fetch marketcode for bot %q: %s", bot.Name, threecommas.Message(err))
		return
	}
	tickers, err := r.market.Pairs(ctx, marketCode)
	if err != nil {
		r.log.Errorf("couldn't fetch tickers for %s: %v", marketCode, err)
		return
	}
	r.log.Infof("bot %q uses %s (%s), base %s", bot.Name, bot.AccountName, marketCode, base)

	var newPairs, blackPairs, badPairs []string
	for _, coin := range coins {
		pair := pairs.Normalize(marketCode, base, coin)
		switch {
		case pairs.IsBlacklisted(pair, r.blacklist):
			blackPairs = append(blackPairs, pair)
		case !pairs.IsTradable(pair, tickers):
			badPairs = append(badPairs, pair)
		default:
			newPairs = append(newPairs, pair)
		}
	}
	r.log.Debugf("blacklisted and skipped: %v", blackPairs)
	r.log.Debugf("invalid on %s and skipped: %v", marketCode, badPairs)

	if len(newPairs) == 0 {
		r.log.Infof("none of the ranked pairs are available on %s for bot %q", marketCode, bot.Name)
		return
	}
	if err := r.api.UpdateBotPairs(ctx, bot, newPairs); err != nil {
		r.log.Errorf("couldn't update pairs for bot %q: %s", bot.Name, threecommas.Message(err))
		return
	}
	r.log.Notifyf("bot %q updated with %d pairs", bot.Name, len(newPairs))
}

func baseOf(pair string) string {
	for i := 0; i < len(pair); i++ {
		if pair[i] == '_' {
			return pair[:i]
		}
	}
	return pair
}
