package tradewatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jvanloo/tradewatch/pkg/dispatch"
	"github.com/jvanloo/tradewatch/pkg/logger"
	"github.com/jvanloo/tradewatch/pkg/market"
	"github.com/jvanloo/tradewatch/pkg/market/binance"
	"github.com/jvanloo/tradewatch/pkg/pairs"
	"github.com/jvanloo/tradewatch/pkg/signal"
	"github.com/jvanloo/tradewatch/pkg/signal/parser"
	"github.com/jvanloo/tradewatch/pkg/smarttrade"
	boltstore "github.com/jvanloo/tradewatch/pkg/smarttrade/bolt"
	"github.com/jvanloo/tradewatch/pkg/smarttrade/inmem"
	"github.com/jvanloo/tradewatch/pkg/telegram"
	"github.com/jvanloo/tradewatch/pkg/threecommas"
)

var version = "v220310a"

var hodlooExchanges = map[string]bool{
	"binance": true,
	"bittrex": true,
	"kucoin":  true,
}

type Config struct {
	Token            string
	ControlChat      int64
	CustomChat       int64
	Hodloo5Chat      int64
	Hodloo10Chat     int64
	ForexChat        int64
	CryptoSignalChat int64
	HodlooExchange   string

	APIKey    string
	APISecret string
	Paper     bool

	BlacklistFile string
	DBPath        string
	Workers       int

	AmountUSDT         float64
	AmountBTC          float64
	SmartTradeAccount  int64
	AllowTargetAtPrice bool
	BinanceRates       bool
	Debug              bool

	// Bot ids per base currency for the custom channel, and per dialect and
	// base currency for the hodloo channels.
	CustomBotIDs map[string][]int64
	HodlooBotIDs map[string]map[string][]int64
}

type Bot struct {
	cfg        *Config
	ctx        context.Context
	cancel     context.CancelFunc
	log        *logger.Logger
	tg         *telegram.Bot
	api        *threecommas.Client
	dispatcher *dispatch.Dispatcher
	parsers    map[string]signal.Parser
	market     market.Source
	store      smarttrade.Store
	validator  smarttrade.Validator
}

func NewBot(cfg *Config) (*Bot, error) {
	if cfg.HodlooExchange == "" {
		cfg.HodlooExchange = "binance"
	}
	if !hodlooExchanges[strings.ToLower(cfg.HodlooExchange)] {
		return nil, fmt.Errorf("tradewatch: unsupported hodloo exchange %q", cfg.HodlooExchange)
	}
	log, err := logger.New(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("tradewatch: couldn't create logger: %w", err)
	}
	tg, err := telegram.New(cfg.Token, cfg.ControlChat)
	if err != nil {
		return nil, fmt.Errorf("tradewatch: couldn't create telegram bot: %w", err)
	}
	log.SetNotifier(tg.Notify)

	api := threecommas.New(cfg.APIKey, cfg.APISecret, cfg.Paper)

	var src market.Source = market.ThreeCommas{Client: api}
	if cfg.BinanceRates {
		src = binance.New(src)
	}

	var store smarttrade.Store
	if cfg.DBPath != "" {
		store, err = boltstore.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("tradewatch: couldn't create db: %w", err)
		}
	} else {
		store = &inmem.Store{}
	}

	b := &Bot{
		cfg:        cfg,
		ctx:        context.TODO(),
		log:        log,
		tg:         tg,
		api:        api,
		dispatcher: dispatch.New(api, log),
		parsers:    make(map[string]signal.Parser),
		market:     src,
		store:      store,
		validator:  smarttrade.Validator{AllowTargetAtPrice: cfg.AllowTargetAtPrice},
	}
	chats := map[string]int64{
		"hodloo_5":     cfg.Hodloo5Chat,
		"hodloo_10":    cfg.Hodloo10Chat,
		"custom":       cfg.CustomChat,
		"forex":        cfg.ForexChat,
		"cryptosignal": cfg.CryptoSignalChat,
	}
	for dialect, chatID := range chats {
		if chatID == 0 {
			continue
		}
		p, err := parser.New(dialect)
		if err != nil {
			return nil, fmt.Errorf("tradewatch: couldn't create %s parser: %w", dialect, err)
		}
		b.parsers[dialect] = p
		tg.Subscribe(chatID, dialect)
	}
	if len(b.parsers) == 0 {
		return nil, fmt.Errorf("tradewatch: no signal channels configured")
	}

	tg.HandleCommand("status", func(_ string) {
		b.status()
	})
	tg.HandleCommand("close", func(msg string) {
		b.closeSmartTrade(b.ctx, strings.TrimSpace(msg))
	})
	tg.HandleCommand("shutdown", func(_ string) {
		b.log.Notifyf("shutting down")
		if b.cancel != nil {
			b.cancel()
		}
	})
	return b, nil
}

func (b *Bot) Run(ctx context.Context) error {
	b.ctx, b.cancel = context.WithCancel(ctx)
	defer b.cancel()
	defer b.log.Sync()
	b.log.Notifyf("🤖 tradewatch running\n- version: %s\n- paper mode: %t\n- hodloo exchange: %s", version, b.cfg.Paper, b.cfg.HodlooExchange)

	b.dispatcher.Prefetch(b.ctx, b.botIDs())
	blacklist, err := b.blacklist(b.ctx)
	if err != nil {
		return err
	}
	b.dispatcher.SetBlacklist(blacklist)

	workers := b.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	go func() {
		for {
			select {
			case <-b.ctx.Done():
				return
			case ev := <-b.tg.Events():
				sem <- struct{}{}
				go func() {
					defer func() { <-sem }()
					b.handle(b.ctx, ev)
				}()
			}
		}
	}()
	return b.tg.Run(b.ctx)
}

// botIDs collects every configured bot id, duplicates included; the
// dispatcher dedupes.
func (b *Bot) botIDs() []int64 {
	var ids []int64
	for _, botIDs := range b.cfg.CustomBotIDs {
		ids = append(ids, botIDs...)
	}
	for _, bases := range b.cfg.HodlooBotIDs {
		for _, botIDs := range bases {
			ids = append(ids, botIDs...)
		}
	}
	return ids
}

func (b *Bot) blacklist(ctx context.Context) (map[string]struct{}, error) {
	if b.cfg.BlacklistFile != "" {
		set, err := pairs.LoadBlacklist(b.cfg.BlacklistFile)
		if err != nil {
			return nil, fmt.Errorf("tradewatch: %w", err)
		}
		b.log.Infof("loaded %d blacklisted pairs from %s", len(set), b.cfg.BlacklistFile)
		return set, nil
	}
	list, err := b.api.Blacklist(ctx)
	if err != nil {
		return nil, fmt.Errorf("tradewatch: couldn't fetch pair blacklist: %w", err)
	}
	b.log.Infof("loaded %d blacklisted pairs from account", len(list))
	return pairs.NewBlacklist(list), nil
}

func (b *Bot) handle(ctx context.Context, ev telegram.Event) {
	p, ok := b.parsers[ev.Dialect]
	if !ok {
		b.log.Errorf("no parser for dialect %q", ev.Dialect)
		return
	}
	intent, err := p.Parse(ev.Text)
	if err != nil {
		b.log.Debugf("ignoring message on %s: %v", ev.Dialect, err)
		return
	}
	b.log.Infof("received %s signal for %s from %s", intent.Action, intent.Pair(), intent.Source)

	switch ev.Dialect {
	case "forex", "cryptosignal":
		b.smartTrade(ctx, intent)
	default:
		b.trigger(ctx, intent)
	}
}

// trigger routes an intent to the bots configured for its channel and base
// currency.
func (b *Bot) trigger(ctx context.Context, intent *signal.Intent) {
	base := strings.ToUpper(intent.Base)
	var botIDs []int64
	switch intent.Source {
	case "custom":
		botIDs = b.cfg.CustomBotIDs[base]
	default:
		botIDs = b.cfg.HodlooBotIDs[intent.Source][base]
	}
	if len(botIDs) == 0 {
		b.log.Infof("no bots configured for %s signals with base %s", intent.Source, base)
		return
	}
	b.dispatcher.DispatchAll(ctx, botIDs, intent.Coin, intent.Action)
}

func (b *Bot) smartTrade(ctx context.Context, intent *signal.Intent) {
	pair := intent.Pair()
	if len(intent.Targets) == 0 {
		b.log.Notifyf("signal for %s carries no targets and was skipped", pair)
		return
	}
	if _, found, err := b.store.Get(pair); err != nil {
		b.log.Errorf("couldn't check running smarttrades: %v", err)
		return
	} else if found {
		b.log.Notifyf("there is already a running smarttrade for %s", pair)
		return
	}
	rate, err := b.market.Rate(ctx, "binance", pair)
	if err != nil {
		b.log.Errorf("couldn't fetch rate for %s: %v", pair, err)
		return
	}
	if !b.validator.Valid(rate, nil, intent.Targets, intent.StopLoss) {
		b.log.Notifyf("signal for %s rejected: targets or stop-loss on the wrong side of the current price %v", pair, rate)
		return
	}

	amount := b.cfg.AmountUSDT
	if strings.ToUpper(intent.Base) == "BTC" {
		amount = b.cfg.AmountBTC
	}
	size := smarttrade.PositionSize(decimal.NewFromFloat(amount), decimal.NewFromFloat(rate))
	note := fmt.Sprintf("tradewatch %s %s", intent.Source, pair)
	req := &threecommas.SmartTradeRequest{
		AccountID:  b.cfg.SmartTradeAccount,
		Pair:       pair,
		Note:       note,
		Position:   smarttrade.Position("buy", "market", size),
		TakeProfit: smarttrade.TakeProfit(true, "limit", intent.Targets),
		StopLoss:   smarttrade.StopLoss("market", intent.StopLoss),
	}
	st, err := b.api.OpenSmartTrade(ctx, req)
	if err != nil {
		b.log.Errorf("couldn't open smarttrade for %s: %s", pair, threecommas.Message(err))
		return
	}
	if err := b.store.Save(smarttrade.Record{
		ID:      st.ID,
		Pair:    pair,
		Note:    note,
		Created: time.Now().UTC(),
	}); err != nil {
		b.log.Errorf("couldn't save smarttrade %d: %v", st.ID, err)
	}
	b.log.Notifyf("📈 opened smarttrade %d for %s: %s units at %v with %d targets",
		st.ID, pair, size.StringFixed(8), rate, len(intent.Targets))
}

func (b *Bot) status() {
	records, err := b.store.List()
	if err != nil {
		b.log.Errorf("couldn't list smarttrades: %v", err)
		return
	}
	if len(records) == 0 {
		b.log.Notifyf("no smarttrades running")
		return
	}
	sb := &strings.Builder{}
	for _, r := range records {
		fmt.Fprintf(sb, "📊 %s #%d %s\n", r.Pair, r.ID, time.Since(r.Created).Round(time.Second))
	}
	b.log.Notifyf("%s", strings.TrimSuffix(sb.String(), "\n"))
}

func (b *Bot) closeSmartTrade(ctx context.Context, pair string) {
	if pair == "" {
		b.log.Notifyf("usage: /close PAIR")
		return
	}
	r, found, err := b.store.Get(pair)
	if err != nil {
		b.log.Errorf("couldn't look up smarttrade for %s: %v", pair, err)
		return
	}
	if !found {
		b.log.Notifyf("no smarttrade running for %s", pair)
		return
	}
	if err := b.api.CloseSmartTrade(ctx, r.ID); err != nil {
		b.log.Errorf("couldn't close smarttrade %d: %s", r.ID, threecommas.Message(err))
		return
	}
	if err := b.store.Delete(pair); err != nil {
		b.log.Errorf("couldn't delete smarttrade record for %s: %v", pair, err)
	}
	b.log.Notifyf("closed smarttrade %d for %s", r.ID, pair)
}
