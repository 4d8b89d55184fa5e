package engine

import "math/big"

// DecisionType tags which trade, if any, a cycle should execute.
type DecisionType int

const (
	// NoAction: no profitable trade at this snapshot.
	NoAction DecisionType = iota
	// FillOrders crosses the book directly: fill the best bid and the best
	// ask against each other. BaseAmount fills the bid, QuoteAmount the ask.
	FillOrders
	// SwapThenFill swaps BaseAmount into the pool, then fills the best ask
	// with QuoteAmount of the received quote asset.
	SwapThenFill
	// FillThenSwap fills the best bid with BaseAmount, then swaps
	// QuoteAmount of quote asset back into the pool.
	FillThenSwap
)

func (t DecisionType) String() string {
	switch t {
	case NoAction:
		return "no-action"
	case FillOrders:
		return "fill-orders"
	case SwapThenFill:
		return "swap-then-fill"
	case FillThenSwap:
		return "fill-then-swap"
	}
	return "unknown"
}

// Decision is one cycle's sized trade intent, handed to execution as-is.
// Amounts are native integer units: BaseAmount in the base asset,
// QuoteAmount in the order's quote token.
type Decision struct {
	Type        DecisionType
	BidOrderID  uint64
	AskOrderID  uint64
	BaseAmount  *big.Int
	QuoteAmount *big.Int
}

func noAction() Decision {
	return Decision{Type: NoAction}
}
