package orderbook

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/dexarb/searcher/internal/fixedpoint"
)

// BaseDecimals is the precision of the venue's native coin, the base asset
// of every pair the bot trades.
const BaseDecimals = 6

// Token is static metadata for one quote asset. Immutable once known.
type Token struct {
	ID       uint64 `yaml:"id"`
	Ticker   string `yaml:"ticker"`
	Decimals int    `yaml:"decimals"`
	Unit     uint64 `yaml:"unit"`
}

// Order is one resting limit order. Orders are immutable once read: an
// order either fills or is gone from the next snapshot. The ID doubles as
// the FIFO tie-break and as the handle execution fills against.
type Order struct {
	ID           uint64
	Maker        string
	BaseAmount   *big.Int
	QuoteAmount  *big.Int
	Token        Token
	IsBuyingBase bool
}

// Price is the order's quote-per-base exchange rate, both legs normalized
// to the common price scale before dividing. Direction does not change how
// the price is reported.
func (o Order) Price() decimal.Decimal {
	base := fixedpoint.Rescale(o.BaseAmount, BaseDecimals, fixedpoint.PriceScale)
	quote := fixedpoint.Rescale(o.QuoteAmount, o.Token.Decimals, fixedpoint.PriceScale)
	return decimal.NewFromBigInt(quote, 0).Div(decimal.NewFromBigInt(base, 0))
}

// Book is one token's resting orders, order-irrelevant until ranked.
type Book struct {
	Token  Token
	Orders []Order
}

// BestBid returns the highest-priced buy order above the notional floor.
func (b *Book) BestBid(minNotional *big.Int) (Order, bool) {
	return best(b.Orders, Bid, minNotional)
}

// BestAsk returns the lowest-priced sell order above the notional floor.
func (b *Book) BestAsk(minNotional *big.Int) (Order, bool) {
	return best(b.Orders, Ask, minNotional)
}

func best(orders []Order, side Side, minNotional *big.Int) (Order, bool) {
	ranked := Rank(Filter(orders, side, minNotional), side)
	if len(ranked) == 0 {
		return Order{}, false
	}
	return ranked[0], true
}
