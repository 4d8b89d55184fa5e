// Package bot runs the polling loop: one cycle per tracked token, each
// cycle re-reading the venue and asking the engine for a decision.
package bot

import (
	"context"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/dexarb/searcher/internal/amm"
	"github.com/dexarb/searcher/internal/balance"
	"github.com/dexarb/searcher/internal/engine"
	"github.com/dexarb/searcher/internal/orderbook"
	"github.com/dexarb/searcher/internal/storage"
	"github.com/dexarb/searcher/internal/venue"
)

// MinCycle is the floor on one token's poll interval; a faster cycle just
// sleeps the difference.
const MinCycle = 2800 * time.Millisecond

type Runner struct {
	source  venue.Source
	coord   *balance.Coordinator
	journal *storage.Journal
	tokens  []orderbook.Token
}

func NewRunner(source venue.Source, coord *balance.Coordinator, journal *storage.Journal, tokens []orderbook.Token) *Runner {
	return &Runner{source: source, coord: coord, journal: journal, tokens: tokens}
}

// Run polls every tracked token concurrently until ctx is cancelled. The
// tokens share one balance coordinator, so concurrent cycles can never
// size trades against the same funds.
func (r *Runner) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, token := range r.tokens {
		wg.Add(1)
		go func(tok orderbook.Token) {
			defer wg.Done()
			r.pollToken(ctx, tok)
		}(token)
	}
	wg.Wait()
}

func (r *Runner) pollToken(ctx context.Context, token orderbook.Token) {
	for {
		start := time.Now()
		r.cycle(ctx, token)

		wait := MinCycle - time.Since(start)
		if wait < 0 {
			wait = 0
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// cycle runs one decision pass for one token. Fetch failures degrade: a
// missing order book becomes an empty book and the engine decides from the
// pool alone; a missing pool or balance skips the cycle.
func (r *Runner) cycle(ctx context.Context, token orderbook.Token) {
	pool, err := r.source.Pool(ctx, token.ID)
	if err != nil {
		log.Printf("[warn] %s: pool fetch: %v", token.Ticker, err)
		return
	}

	orders, err := r.source.Orders(ctx, token.ID)
	if err != nil {
		log.Printf("[warn] %s: order fetch: %v (treating book as empty)", token.Ticker, err)
		orders = nil
	}
	book := &orderbook.Book{Token: token, Orders: orders}

	total, err := r.source.SpendableBalance(ctx)
	if err != nil {
		log.Printf("[warn] %s: balance fetch: %v", token.Ticker, err)
		return
	}
	r.coord.Sync(total)

	decision := engine.Decide(book, pool, r.coord.Available())
	if decision.Type == engine.NoAction {
		return
	}

	if err := r.coord.Reserve(decision.BaseAmount); err != nil {
		// another token's cycle claimed the funds first
		log.Printf("[info] %s: %s skipped: %v", token.Ticker, decision.Type, err)
		return
	}
	// execution is handed off here; until a submitter is wired in, the
	// reservation is released right after journaling
	defer r.coord.Release(decision.BaseAmount)

	logDecision(token, pool, decision)
	if r.journal != nil {
		if err := r.journal.Record(token.ID, decision); err != nil {
			log.Printf("[warn] %s: journal: %v", token.Ticker, err)
		}
	}
}

func logDecision(token orderbook.Token, pool *amm.Pool, d engine.Decision) {
	switch d.Type {
	case engine.FillOrders:
		log.Printf("[info] %s: cross bid %d / ask %d, %s base for %s %s",
			token.Ticker, d.BidOrderID, d.AskOrderID, format(d.BaseAmount, orderbook.BaseDecimals), format(d.QuoteAmount, token.Decimals), token.Ticker)
	case engine.SwapThenFill:
		log.Printf("[info] %s: amm to ob, swap %s base then fill ask %d with %s %s (amm %s)",
			token.Ticker, format(d.BaseAmount, orderbook.BaseDecimals), d.AskOrderID, format(d.QuoteAmount, token.Decimals), token.Ticker, pool.SpotPrice())
	case engine.FillThenSwap:
		log.Printf("[info] %s: ob to amm, fill bid %d with %s base then swap %s %s (amm %s)",
			token.Ticker, d.BidOrderID, format(d.BaseAmount, orderbook.BaseDecimals), format(d.QuoteAmount, token.Decimals), token.Ticker, pool.SpotPrice())
	}
}

func format(amount *big.Int, decimals int) string {
	f := new(big.Float).SetInt(amount)
	f.Quo(f, new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)))
	return f.Text('f', 4)
}
