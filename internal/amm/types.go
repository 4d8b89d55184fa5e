package amm

import "math/big"

// Pool is one constant-product pool snapshot in both assets' native integer
// units. The engine never mutates it; every decision cycle re-reads the
// venue and works on a fresh copy.
type Pool struct {
	ID            uint64
	BaseReserve   *big.Int
	QuoteReserve  *big.Int
	BaseDecimals  int
	QuoteDecimals int
}
