// Package engine decides which trade to execute between a constant-product
// pool and a limit-order book quoting the same pair, and sizes it.
package engine

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/dexarb/searcher/internal/amm"
	"github.com/dexarb/searcher/internal/fixedpoint"
	"github.com/dexarb/searcher/internal/orderbook"
	"github.com/dexarb/searcher/internal/solver"
)

const (
	// MinOrderAmount is the smallest base-asset leg worth executing, and
	// the notional floor applied when picking the best bid and ask.
	MinOrderAmount = 1000

	// orderFeePct pads the base leg of a direct cross so the taker fee is
	// covered out of the crossed spread.
	orderFeePct = 1
)

// The quote leg of each pool-routed branch is shaved so the fill survives
// price movement between sizing and submission. The two magnitudes are
// inherited asymmetric: 1 bp toward the ask, 150 bp toward the bid (see
// DESIGN.md).
var (
	swapThenFillHaircutNum = big.NewInt(9999)
	fillThenSwapHaircutNum = big.NewInt(9850)
	haircutDen             = big.NewInt(10000)
)

var one = decimal.NewFromInt(1)

// Decide is a pure function of one cycle's snapshots: the token's order
// book, the pool state and the spendable balance. It never mutates any of
// them. Missing book sides or an unsolvable pool leg degrade to NoAction.
func Decide(book *orderbook.Book, pool *amm.Pool, available *big.Int) Decision {
	minNotional := big.NewInt(MinOrderAmount)
	bid, hasBid := book.BestBid(minNotional)
	ask, hasAsk := book.BestAsk(minNotional)

	// the book crossing itself beats any pool route
	if hasBid && hasAsk && bid.Price().GreaterThanOrEqual(ask.Price()) {
		return crossOrders(book.Token, bid, ask, available)
	}

	ammPrice := pool.SpotPrice()

	if hasAsk && ask.Price().LessThan(ammPrice) {
		return swapThenFill(book.Token, pool, ask, available)
	}
	if hasBid && ammPrice.LessThan(bid.Price()) {
		return fillThenSwap(book.Token, pool, bid, available)
	}
	return noAction()
}

// crossOrders fills the bid and the ask against each other directly.
func crossOrders(token orderbook.Token, bid, ask orderbook.Order, available *big.Int) Decision {
	size := minBig(ask.BaseAmount, bid.BaseAmount)
	size = new(big.Int).Mul(size, big.NewInt(100+orderFeePct))
	size.Quo(size, big.NewInt(100))
	size = minBig(available, size)

	quote := minBig(quoteForBase(size, bid.Price(), token.Decimals), ask.QuoteAmount)
	if quote.Sign() < 1 {
		return noAction()
	}

	return Decision{
		Type:        FillOrders,
		BidOrderID:  bid.ID,
		AskOrderID:  ask.ID,
		BaseAmount:  size,
		QuoteAmount: quote,
	}
}

// swapThenFill buys quote from the pool while its price still beats the
// ask, then fills the ask.
func swapThenFill(token orderbook.Token, pool *amm.Pool, ask orderbook.Order, available *big.Int) Decision {
	swappable, err := solver.SwappableAmount(
		pool.BaseReserve, pool.QuoteReserve,
		pool.BaseDecimals, pool.QuoteDecimals,
		ask.Price(),
	)
	if err != nil {
		// search didn't converge; treat the pool leg as infeasible
		return noAction()
	}

	size := minBig(available, swappable, ask.BaseAmount)
	if size.Cmp(big.NewInt(MinOrderAmount)) < 0 || swappable.Cmp(big.NewInt(MinOrderAmount)) < 0 {
		return noAction()
	}

	quote := quoteForBase(size, ask.Price(), token.Decimals)
	quote.Mul(quote, swapThenFillHaircutNum)
	quote.Quo(quote, haircutDen)
	if quote.Sign() < 1 {
		return noAction()
	}

	return Decision{
		Type:        SwapThenFill,
		AskOrderID:  ask.ID,
		BaseAmount:  size,
		QuoteAmount: quote,
	}
}

// fillThenSwap fills the bid, then sells the received quote back to the
// pool while the pool still pays more than the bid. The pool leg is solved
// in the inverse orientation and routed through AmountOut to get the base
// bound.
func fillThenSwap(token orderbook.Token, pool *amm.Pool, bid orderbook.Order, available *big.Int) Decision {
	inverse := one.Div(bid.Price())
	quoteBound, err := solver.SwappableAmount(
		pool.QuoteReserve, pool.BaseReserve,
		pool.QuoteDecimals, pool.BaseDecimals,
		inverse,
	)
	if err != nil {
		return noAction()
	}
	swappable := amm.AmountOut(quoteBound, pool.QuoteReserve, pool.BaseReserve, amm.DefaultFee)

	size := minBig(available, swappable, bid.BaseAmount)
	if size.Cmp(big.NewInt(MinOrderAmount)) < 0 || swappable.Cmp(big.NewInt(MinOrderAmount)) < 0 {
		return noAction()
	}

	quote := quoteForBase(size, bid.Price(), token.Decimals)
	quote.Mul(quote, fillThenSwapHaircutNum)
	quote.Quo(quote, haircutDen)
	if quote.Sign() < 1 {
		return noAction()
	}

	return Decision{
		Type:        FillThenSwap,
		BidOrderID:  bid.ID,
		BaseAmount:  size,
		QuoteAmount: quote,
	}
}

// quoteForBase converts a base-asset amount to the matching quote amount at
// price, truncating, then moves it to the quote token's native precision.
func quoteForBase(base *big.Int, price decimal.Decimal, quoteDecimals int) *big.Int {
	scaled := decimal.NewFromBigInt(base, 0).Mul(price).BigInt()
	return fixedpoint.Rescale(scaled, orderbook.BaseDecimals, quoteDecimals)
}

func minBig(vals ...*big.Int) *big.Int {
	min := vals[0]
	for _, v := range vals[1:] {
		if v.Cmp(min) < 0 {
			min = v
		}
	}
	return new(big.Int).Set(min)
}
