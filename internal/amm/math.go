package amm

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/dexarb/searcher/internal/fixedpoint"
)

// FeeScale is the denominator swap fees are expressed over, so a fee of
// 10^12 is 1%.
const FeeScale = 100_000_000_000_000

var feeScale = big.NewInt(FeeScale)

// DefaultFee is the proportional fee charged by pools on this venue: 1%.
var DefaultFee = big.NewInt(1_000_000_000_000)

// ErrUnreachableOutput means the requested output exceeds what the pool can
// ever pay out after fees; no input amount reaches it.
var ErrUnreachableOutput = errors.New("amm: requested output exceeds pool capacity")

// AmountOut returns the output a constant-product pool pays for amountIn,
// floor of in*outReserve*(FeeScale-fee) / ((in+inReserve)*FeeScale).
// Monotonically increasing in amountIn and bounded by the fee-adjusted out
// reserve.
func AmountOut(amountIn, reserveIn, reserveOut, fee *big.Int) *big.Int {
	if amountIn.Sign() <= 0 || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return big.NewInt(0)
	}

	factor := new(big.Int).Sub(feeScale, fee)
	numerator := new(big.Int).Mul(amountIn, reserveOut)
	numerator.Mul(numerator, factor)

	denominator := new(big.Int).Add(amountIn, reserveIn)
	denominator.Mul(denominator, feeScale)

	return numerator.Quo(numerator, denominator)
}

// AmountIn is the algebraic inverse of AmountOut: the input needed to
// receive amountOut. When amountOut is at or beyond the pool's fee-adjusted
// capacity the swap is impossible and ErrUnreachableOutput is returned;
// there is deliberately no numeric sentinel for that case.
func AmountIn(amountOut, reserveIn, reserveOut, fee *big.Int) (*big.Int, error) {
	factor := new(big.Int).Sub(feeScale, fee)

	denominator := new(big.Int).Mul(reserveOut, factor)
	denominator.Sub(denominator, new(big.Int).Mul(amountOut, feeScale))
	if denominator.Sign() <= 0 {
		return nil, ErrUnreachableOutput
	}

	numerator := new(big.Int).Mul(feeScale, reserveIn)
	numerator.Mul(numerator, amountOut)

	return numerator.Quo(numerator, denominator), nil
}

// SpotPrice returns the pool's quote-per-base price, both reserves
// normalized to the common price scale before dividing.
func (p *Pool) SpotPrice() decimal.Decimal {
	base := fixedpoint.Rescale(p.BaseReserve, p.BaseDecimals, fixedpoint.PriceScale)
	quote := fixedpoint.Rescale(p.QuoteReserve, p.QuoteDecimals, fixedpoint.PriceScale)
	return decimal.NewFromBigInt(quote, 0).Div(decimal.NewFromBigInt(base, 0))
}
