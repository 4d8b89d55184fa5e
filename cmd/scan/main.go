package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/joho/godotenv"

	"github.com/dexarb/searcher/internal/engine"
	"github.com/dexarb/searcher/internal/orderbook"
	"github.com/dexarb/searcher/internal/venue"
)

func main() {
	_ = godotenv.Load()

	tokenID := flag.Uint64("token", 6779767, "token id to scan")
	registryPath := flag.String("registry", "configs/tokens.yaml", "token registry file")
	flag.Parse()

	indexerURL := os.Getenv("INDEXER_URL")
	if indexerURL == "" {
		log.Fatal("INDEXER_URL environment variable not set")
	}
	account := os.Getenv("BOT_ACCOUNT")
	if account == "" {
		log.Fatal("BOT_ACCOUNT environment variable not set")
	}

	registry, err := venue.LoadRegistry(*registryPath)
	if err != nil {
		log.Fatalf("failed to load registry: %v", err)
	}
	token, ok := registry.Token(*tokenID)
	if !ok {
		log.Fatalf("token %d not in registry", *tokenID)
	}

	client := venue.NewClient(indexerURL, account, registry)
	ctx := context.Background()

	fmt.Printf("scanning %s (token %d) for arbitrage...\n\n", token.Ticker, token.ID)

	pool, err := client.Pool(ctx, token.ID)
	if err != nil {
		log.Fatalf("failed to fetch pool: %v", err)
	}
	fmt.Println("Pool Reserves:")
	fmt.Println("==============")
	fmt.Printf("  pool %d\n", pool.ID)
	fmt.Printf("  base:  %s\n", pool.BaseReserve.String())
	fmt.Printf("  quote: %s\n", pool.QuoteReserve.String())
	fmt.Printf("  spot:  %s\n", pool.SpotPrice().StringFixed(6))

	orders, err := client.Orders(ctx, token.ID)
	if err != nil {
		log.Printf("[warn] order fetch failed, treating book as empty: %v", err)
		orders = nil
	}
	book := &orderbook.Book{Token: token, Orders: orders}

	minNotional := big.NewInt(engine.MinOrderAmount)
	fmt.Println("\nOrder Book:")
	fmt.Println("===========")
	if bid, ok := book.BestBid(minNotional); ok {
		fmt.Printf("  best bid: order %d at %s\n", bid.ID, bid.Price().StringFixed(6))
	} else {
		fmt.Println("  best bid: none")
	}
	if ask, ok := book.BestAsk(minNotional); ok {
		fmt.Printf("  best ask: order %d at %s\n", ask.ID, ask.Price().StringFixed(6))
	} else {
		fmt.Println("  best ask: none")
	}

	available, err := client.SpendableBalance(ctx)
	if err != nil {
		log.Fatalf("failed to fetch balance: %v", err)
	}
	fmt.Printf("\nSpendable balance: %s\n", available.String())

	decision := engine.Decide(book, pool, available)
	fmt.Println("\nDecision:")
	fmt.Println("=========")
	switch decision.Type {
	case engine.FillOrders:
		fmt.Printf("  fill bid %d and ask %d: %s base / %s quote\n",
			decision.BidOrderID, decision.AskOrderID, decision.BaseAmount, decision.QuoteAmount)
	case engine.SwapThenFill:
		fmt.Printf("  swap %s base into pool, then fill ask %d with %s quote\n",
			decision.BaseAmount, decision.AskOrderID, decision.QuoteAmount)
	case engine.FillThenSwap:
		fmt.Printf("  fill bid %d with %s base, then swap %s quote into pool\n",
			decision.BidOrderID, decision.BaseAmount, decision.QuoteAmount)
	default:
		fmt.Println("  no action")
	}
}
