package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/jvanloo/tradewatch"
	"github.com/jvanloo/tradewatch/pkg/coinmarketcap"
	"github.com/jvanloo/tradewatch/pkg/logger"
	"github.com/jvanloo/tradewatch/pkg/market"
	"github.com/jvanloo/tradewatch/pkg/market/binance"
	"github.com/jvanloo/tradewatch/pkg/pairlist"
	"github.com/jvanloo/tradewatch/pkg/pairs"
	"github.com/jvanloo/tradewatch/pkg/threecommas"
)

var hodlooBases = []string{"bnb", "btc", "busd", "eth", "eur", "usdt"}

func main() {
	// Create signal based context
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, os.Kill)
	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
			cancel()
		}
		signal.Stop(c)
	}()

	// Launch command
	cmd := newCommand()
	if err := cmd.ParseAndRun(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *ffcli.Command {
	fs := flag.NewFlagSet("tradewatch", flag.ExitOnError)

	return &ffcli.Command{
		ShortUsage: "tradewatch [flags] <subcommand>",
		FlagSet:    fs,
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
		Subcommands: []*ffcli.Command{
			newWatchCommand(),
			newPairlistsCommand(),
		},
	}
}

func newWatchCommand() *ffcli.Command {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	token := fs.String("telegram-token", "", "telegram token")
	controlChat := fs.Int64("telegram-control-chat", 0, "telegram chat id for logs and commands")
	customChat := fs.Int64("custom-chat", 0, "telegram chat id of the custom signal channel")
	hodloo5Chat := fs.Int64("hodloo5-chat", 0, "telegram chat id of the hodloo 5% alert channel")
	hodloo10Chat := fs.Int64("hodloo10-chat", 0, "telegram chat id of the hodloo 10% alert channel")
	forexChat := fs.Int64("forex-chat", 0, "telegram chat id of the forex signal channel")
	cryptoSignalChat := fs.Int64("cryptosignal-chat", 0, "telegram chat id of the crypto signal channel")
	hodlooExchange := fs.String("hodloo-exchange", "binance", "exchange of the hodloo alerts (binance, bittrex or kucoin)")

	key := fs.String("3commas-key", "", "3commas api key")
	secret := fs.String("3commas-secret", "", "3commas api secret")
	paper := fs.Bool("paper", false, "trade on the paper account")

	blacklist := fs.String("blacklist", "", "blacklist file, one pair per line (account blacklist if empty)")
	db := fs.String("db", "tradewatch.db", "database path (in-memory store if empty)")
	workers := fs.Int("workers", 4, "number of messages handled concurrently")

	amountUSDT := fs.Float64("amount-usdt", 20, "usdt amount per smarttrade")
	amountBTC := fs.Float64("amount-btc", 0.001, "btc amount per smarttrade")
	smartTradeAccount := fs.Int64("smarttrade-account", 0, "3commas account id for smarttrades")
	allowTargetAtPrice := fs.Bool("allow-target-at-price", false, "accept targets sitting exactly on the current price")
	binanceRates := fs.Bool("binance-rates", false, "fetch prices from binance instead of 3commas")
	debug := fs.Bool("debug", false, "enable debug mode")

	customUSDT := fs.String("custom-usdt-botids", "", "comma separated bot ids for custom usdt signals")
	customBTC := fs.String("custom-btc-botids", "", "comma separated bot ids for custom btc signals")
	hodloo5 := make(map[string]*string, len(hodlooBases))
	hodloo10 := make(map[string]*string, len(hodlooBases))
	for _, base := range hodlooBases {
		hodloo5[base] = fs.String(fmt.Sprintf("hodloo5-%s-botids", base),
			"", fmt.Sprintf("comma separated bot ids for hodloo 5%% %s alerts", base))
		hodloo10[base] = fs.String(fmt.Sprintf("hodloo10-%s-botids", base),
			"", fmt.Sprintf("comma separated bot ids for hodloo 10%% %s alerts", base))
	}

	return &ffcli.Command{
		Name:       "watch",
		ShortUsage: "tradewatch watch [flags]",
		Options: []ff.Option{
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ff.PlainParser),
			ff.WithEnvVarPrefix("TRADEWATCH"),
		},
		ShortHelp: "watch telegram channels and dispatch signals",
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			if *token == "" {
				return errors.New("missing telegram token")
			}
			if *controlChat == 0 {
				return errors.New("missing telegram control chat")
			}
			if *key == "" {
				return errors.New("missing 3commas api key")
			}
			if *secret == "" {
				return errors.New("missing 3commas api secret")
			}
			if (*forexChat != 0 || *cryptoSignalChat != 0) && *smartTradeAccount == 0 {
				return errors.New("missing smarttrade account")
			}
			customBotIDs := make(map[string][]int64)
			for base, csv := range map[string]string{"USDT": *customUSDT, "BTC": *customBTC} {
				ids, err := parseIDs(csv)
				if err != nil {
					return fmt.Errorf("invalid custom %s bot ids: %w", base, err)
				}
				customBotIDs[base] = ids
			}
			hodlooBotIDs := map[string]map[string][]int64{
				"hodloo_5":  make(map[string][]int64),
				"hodloo_10": make(map[string][]int64),
			}
			for dialect, flags := range map[string]map[string]*string{"hodloo_5": hodloo5, "hodloo_10": hodloo10} {
				for base, csv := range flags {
					ids, err := parseIDs(*csv)
					if err != nil {
						return fmt.Errorf("invalid %s %s bot ids: %w", dialect, base, err)
					}
					hodlooBotIDs[dialect][strings.ToUpper(base)] = ids
				}
			}
			bot, err := tradewatch.NewBot(&tradewatch.Config{
				Token:              *token,
				ControlChat:        *controlChat,
				CustomChat:         *customChat,
				Hodloo5Chat:        *hodloo5Chat,
				Hodloo10Chat:       *hodloo10Chat,
				ForexChat:          *forexChat,
				CryptoSignalChat:   *cryptoSignalChat,
				HodlooExchange:     *hodlooExchange,
				APIKey:             *key,
				APISecret:          *secret,
				Paper:              *paper,
				BlacklistFile:      *blacklist,
				DBPath:             *db,
				Workers:            *workers,
				AmountUSDT:         *amountUSDT,
				AmountBTC:          *amountBTC,
				SmartTradeAccount:  *smartTradeAccount,
				AllowTargetAtPrice: *allowTargetAtPrice,
				BinanceRates:       *binanceRates,
				Debug:              *debug,
				CustomBotIDs:       customBotIDs,
				HodlooBotIDs:       hodlooBotIDs,
			})
			if err != nil {
				return err
			}
			return bot.Run(ctx)
		},
	}
}

func newPairlistsCommand() *ffcli.Command {
	fs := flag.NewFlagSet("pairlists", flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	key := fs.String("3commas-key", "", "3commas api key")
	secret := fs.String("3commas-secret", "", "3commas api secret")
	paper := fs.Bool("paper", false, "use the paper account")
	cmcKey := fs.String("cmc-key", "", "coinmarketcap api key")
	botIDs := fs.String("botids", "", "comma separated bot ids to refresh")
	start := fs.Int("start-number", 1, "first position of the coin ranking window")
	end := fs.Int("end-number", 200, "last position of the coin ranking window")
	interval := fs.Duration("interval", time.Hour, "time between refresh cycles")
	blacklist := fs.String("blacklist", "", "blacklist file, one pair per line (account blacklist if empty)")
	binanceRates := fs.Bool("binance-rates", false, "fetch tickers from binance instead of 3commas")
	debug := fs.Bool("debug", false, "enable debug mode")

	return &ffcli.Command{
		Name:       "pairlists",
		ShortUsage: "tradewatch pairlists [flags]",
		Options: []ff.Option{
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ff.PlainParser),
			ff.WithEnvVarPrefix("TRADEWATCH"),
		},
		ShortHelp: "periodically rebuild bot pair lists from the coin ranking",
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			if *key == "" {
				return errors.New("missing 3commas api key")
			}
			if *secret == "" {
				return errors.New("missing 3commas api secret")
			}
			if *cmcKey == "" {
				return errors.New("missing coinmarketcap api key")
			}
			ids, err := parseIDs(*botIDs)
			if err != nil {
				return fmt.Errorf("invalid bot ids: %w", err)
			}
			if len(ids) == 0 {
				return errors.New("missing bot ids")
			}
			if *start < 1 || *end < *start {
				return fmt.Errorf("invalid ranking window %d-%d", *start, *end)
			}
			lg, err := logger.New(*debug)
			if err != nil {
				return err
			}
			defer lg.Sync()

			api := threecommas.New(*key, *secret, *paper)
			var src market.Source = market.ThreeCommas{Client: api}
			if *binanceRates {
				src = binance.New(src)
			}
			refresher := pairlist.New(api, src, coinmarketcap.New(*cmcKey), lg)

			ticker := time.NewTicker(*interval)
			defer ticker.Stop()
			for {
				set, err := loadBlacklist(ctx, api, *blacklist)
				if err != nil {
					lg.Errorf("couldn't load blacklist: %v", err)
				} else {
					refresher.SetBlacklist(set)
				}
				refresher.Refresh(ctx, ids, *start, *end)
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
}

func loadBlacklist(ctx context.Context, api *threecommas.Client, path string) (map[string]struct{}, error) {
	if path != "" {
		return pairs.LoadBlacklist(path)
	}
	list, err := api.Blacklist(ctx)
	if err != nil {
		return nil, err
	}
	return pairs.NewBlacklist(list), nil
}

func parseIDs(csv string) ([]int64, error) {
	var ids []int64
	for _, field := range strings.Split(csv, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("couldn't parse bot id %q: %w", field, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
