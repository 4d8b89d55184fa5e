package solver

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/dexarb/searcher/internal/fixedpoint"
)

// ClosedFormLinear approximates the swappable amount in one shot by treating
// the received quote as tracking the spot price linearly:
//
//	r = (ySupply - xSupply*target) / (2*target)
//
// Cheaper but less exact than the iterative searches; kept as a validation
// solver. The decision engine does not consult it.
func ClosedFormLinear(xSupply, ySupply *big.Int, xDecimals, yDecimals int, targetPrice decimal.Decimal) *big.Int {
	if targetPrice.Sign() <= 0 {
		panic("solver: target price must be positive")
	}

	xs := fixedpoint.Rescale(xSupply, xDecimals, scale)
	ys := fixedpoint.Rescale(ySupply, yDecimals, scale)

	p := targetPrice.Shift(scale).BigInt()
	if p.Sign() == 0 {
		return big.NewInt(0)
	}

	r := new(big.Int).Mul(ys, fixedpoint.PowerOfTen(scale))
	r.Sub(r, new(big.Int).Mul(xs, p))
	r.Quo(r, p)
	r.Rsh(r, 1)

	if r.Sign() > 0 {
		return fixedpoint.Rescale(r, scale, xDecimals)
	}
	return big.NewInt(0)
}

// ClosedFormQuadratic solves the constant-product invariant directly: after
// swapping r the pool holds xSupply+r base, so the target price is reached at
//
//	xSupply + r = sqrt(k / target),  k = xSupply*ySupply
//
// computed with integer square roots at a wider scale. Like the linear form
// this is a validation solver only.
func ClosedFormQuadratic(xSupply, ySupply *big.Int, xDecimals, yDecimals int, targetPrice decimal.Decimal) *big.Int {
	if targetPrice.Sign() <= 0 {
		panic("solver: target price must be positive")
	}

	xs := fixedpoint.Rescale(xSupply, xDecimals, quadScale)
	ys := fixedpoint.Rescale(ySupply, yDecimals, quadScale)
	unit := fixedpoint.PowerOfTen(quadScale)

	p := fixedpoint.Isqrt(new(big.Int).Mul(targetPrice.Shift(quadScale).BigInt(), unit))
	if p.Sign() == 0 {
		return big.NewInt(0)
	}

	a := fixedpoint.Isqrt(new(big.Int).Mul(xs, ys))
	b := new(big.Int).Mul(xs, p)
	b.Quo(b, unit)

	r := new(big.Int).Sub(a, b)
	r.Mul(r, unit)
	r.Quo(r, p)

	if r.Sign() > 0 {
		return fixedpoint.Rescale(r, quadScale, xDecimals)
	}
	return big.NewInt(0)
}
