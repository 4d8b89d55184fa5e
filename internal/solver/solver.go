// Package solver bounds how much of the base asset can be swapped into a
// constant-product pool before the pool's price crosses a target.
//
// Two independent multi-resolution searches are implemented; their minimum
// is the bound used downstream. Two closed-form approximations derived from
// x*y = k are kept as faster validation solvers.
package solver

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/dexarb/searcher/internal/amm"
	"github.com/dexarb/searcher/internal/fixedpoint"
)

const (
	// scale is the decimal precision all searching happens at.
	scale = fixedpoint.PriceScale
	// quadScale is the wider precision the quadratic closed form needs so
	// its square roots keep enough significant digits.
	quadScale = 18

	// stepFloor ends the refinement: passes run while the step exceeds it.
	stepFloor = 1000
	// maxIterations caps inner steps across all passes of one search.
	maxIterations = 1_000_000
)

// ErrNoSolution means the search hit its iteration budget before
// converging. Distinct from a legitimate zero-amount result.
var ErrNoSolution = errors.New("solver: no solution within iteration budget")

var ten = big.NewInt(10)

// priceAt computes the candidate trade's price from the normalized supplies,
// the probed input x and its pool output y. x is always > 0 here.
type priceAt func(xSupply, ySupply, x, y *big.Int) decimal.Decimal

func marginalPrice(_, _, x, y *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(y, 0).Div(decimal.NewFromBigInt(x, 0))
}

func averagePrice(xSupply, ySupply, x, y *big.Int) decimal.Decimal {
	remaining := new(big.Int).Sub(ySupply, y)
	total := new(big.Int).Add(xSupply, x)
	return decimal.NewFromBigInt(remaining, 0).Div(decimal.NewFromBigInt(total, 0))
}

// SolveByMarginalPrice finds the largest input whose realized trade price
// y(x)/x still meets targetPrice, by coarse-to-fine stepping.
func SolveByMarginalPrice(xSupply, ySupply *big.Int, xDecimals, yDecimals int, targetPrice decimal.Decimal) (*big.Int, error) {
	return search(xSupply, ySupply, xDecimals, yDecimals, targetPrice, marginalPrice)
}

// SolveByAveragePrice is the same search but crossing on the average price
// of the whole remaining pool, (ySupply-y)/(xSupply+x). Generally a smaller
// bound than the marginal variant.
func SolveByAveragePrice(xSupply, ySupply *big.Int, xDecimals, yDecimals int, targetPrice decimal.Decimal) (*big.Int, error) {
	return search(xSupply, ySupply, xDecimals, yDecimals, targetPrice, averagePrice)
}

// SwappableAmount is the conservative bound used downstream: the smaller of
// the two independent searches, so capacity is never overstated.
func SwappableAmount(xSupply, ySupply *big.Int, xDecimals, yDecimals int, targetPrice decimal.Decimal) (*big.Int, error) {
	a, err := SolveByMarginalPrice(xSupply, ySupply, xDecimals, yDecimals, targetPrice)
	if err != nil {
		return nil, err
	}
	b, err := SolveByAveragePrice(xSupply, ySupply, xDecimals, yDecimals, targetPrice)
	if err != nil {
		return nil, err
	}
	if a.Cmp(b) < 0 {
		return a, nil
	}
	return b, nil
}

// search walks the input amount up in decreasing step sizes, recording the
// last probe whose price still met the target, until the step reaches the
// floor. Inputs are normalized to the common scale first and the result is
// rescaled back to the input asset's native decimals.
func search(xSupply, ySupply *big.Int, xDecimals, yDecimals int, targetPrice decimal.Decimal, price priceAt) (*big.Int, error) {
	if targetPrice.Sign() <= 0 {
		panic("solver: target price must be positive")
	}

	xs := fixedpoint.Rescale(xSupply, xDecimals, scale)
	ys := fixedpoint.Rescale(ySupply, yDecimals, scale)

	step := fixedpoint.PowerOfTen(scale + 6)
	floor := big.NewInt(stepFloor)

	x := big.NewInt(0)
	y := big.NewInt(0)
	lastX := big.NewInt(0)
	lastY := big.NewInt(0)

	count := 0
	for step.Cmp(floor) > 0 {
		for {
			count++
			if count > maxIterations {
				return nil, ErrNoSolution
			}
			lastX.Set(x)
			lastY.Set(y)
			x.Add(x, step)
			y = amm.AmountOut(x, xs, ys, amm.DefaultFee)
			if price(xs, ys, x, y).LessThan(targetPrice) {
				break
			}
		}
		// x overshot; back off and refine
		x.Set(lastX)
		step.Quo(step, ten)
	}

	if lastY.Sign() > 0 {
		return fixedpoint.Rescale(lastX, scale, xDecimals), nil
	}
	return big.NewInt(0), nil
}
