package fixedpoint

import (
	"fmt"
	"math/big"
)

// PriceScale is the common decimal precision prices are quoted at on this
// venue. Both legs of any price are rescaled to it before dividing.
const PriceScale = 6

var ten = big.NewInt(10)

// PowerOfTen returns 10^decimals as a big integer.
func PowerOfTen(decimals int) *big.Int {
	if decimals < 0 {
		panic(fmt.Sprintf("fixedpoint: negative decimal exponent %d", decimals))
	}
	return new(big.Int).Exp(ten, big.NewInt(int64(decimals)), nil)
}

// Rescale converts amount from one decimal precision to another, multiplying
// before dividing so nothing is lost on the way up. Truncates toward zero, so
// going to a coarser precision rounds magnitude down.
func Rescale(amount *big.Int, fromDecimals, toDecimals int) *big.Int {
	out := new(big.Int).Mul(amount, PowerOfTen(toDecimals))
	return out.Quo(out, PowerOfTen(fromDecimals))
}
