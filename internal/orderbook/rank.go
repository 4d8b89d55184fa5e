package orderbook

import (
	"math/big"
	"sort"

	"github.com/samber/lo"
)

// Side selects which half of the book an operation works on.
type Side int

const (
	// Bid orders buy the base asset; best is the highest price.
	Bid Side = iota
	// Ask orders sell the base asset; best is the lowest price.
	Ask
)

// Filter keeps the requested side, dropping orders whose base amount does
// not exceed minNotional.
func Filter(orders []Order, side Side, minNotional *big.Int) []Order {
	return lo.Filter(orders, func(o Order, _ int) bool {
		if o.IsBuyingBase != (side == Bid) {
			return false
		}
		return o.BaseAmount.Cmp(minNotional) > 0
	})
}

// Rank sorts orders best-first without touching the input slice. A stable
// sort by id runs first so that the price sort inherits a FIFO tie-break:
// among equal prices, the lowest id wins.
func Rank(orders []Order, side Side) []Order {
	ranked := make([]Order, len(orders))
	copy(ranked, orders)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ID < ranked[j].ID
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		if side == Bid {
			return ranked[i].Price().GreaterThan(ranked[j].Price())
		}
		return ranked[i].Price().LessThan(ranked[j].Price())
	})

	return ranked
}
