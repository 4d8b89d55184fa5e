package main

import (
	"context"
	"flag"
	"log"
	"math/big"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dexarb/searcher/internal/balance"
	"github.com/dexarb/searcher/internal/bot"
	"github.com/dexarb/searcher/internal/orderbook"
	"github.com/dexarb/searcher/internal/storage"
	"github.com/dexarb/searcher/internal/venue"
)

func main() {
	_ = godotenv.Load()

	registryPath := flag.String("registry", "configs/tokens.yaml", "token registry file")
	dbPath := flag.String("db", "data/journal.db", "decision journal path")
	tokenList := flag.String("tokens", "", "comma-separated token ids (default: all registered)")
	flag.Parse()

	indexerURL := os.Getenv("INDEXER_URL")
	if indexerURL == "" {
		log.Fatal("[fatal] INDEXER_URL environment variable not set")
	}
	account := os.Getenv("BOT_ACCOUNT")
	if account == "" {
		log.Fatal("[fatal] BOT_ACCOUNT environment variable not set")
	}

	registry, err := venue.LoadRegistry(*registryPath)
	if err != nil {
		log.Fatalf("[fatal] failed to load registry: %v", err)
	}

	tokens := registry.Tokens()
	if *tokenList != "" {
		tokens = make([]orderbook.Token, 0, len(tokens))
		for _, field := range strings.Split(*tokenList, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(field), 10, 64)
			if err != nil {
				log.Fatalf("[fatal] bad token id %q: %v", field, err)
			}
			token, ok := registry.Token(id)
			if !ok {
				log.Fatalf("[fatal] token %d not in registry", id)
			}
			tokens = append(tokens, token)
		}
	}
	if len(tokens) == 0 {
		log.Fatal("[fatal] no tokens to track")
	}

	journal, err := storage.NewJournal(*dbPath)
	if err != nil {
		log.Fatalf("[fatal] failed to open journal: %v", err)
	}
	defer journal.Close()

	client := venue.NewClient(indexerURL, account, registry)
	coord := balance.NewCoordinator(big.NewInt(0))
	runner := bot.NewRunner(client, coord, journal, tokens)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tickers := make([]string, len(tokens))
	for i, t := range tokens {
		tickers[i] = t.Ticker
	}
	log.Printf("[info] tracking %s, cycle floor %s", strings.Join(tickers, ", "), bot.MinCycle)

	runner.Run(ctx)
	log.Println("[info] stopped")
}
