package fixedpoint

import "math/big"

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Isqrt returns the floor of the square root of n.
//
// Newton's method run as an explicit loop so huge radicands can't blow
// the stack. Seeded with 2^ceil(bits/2), which is always >= the root, so
// every candidate stays >= the floor root and the sequence descends to it;
// the first non-descending step means x0 is the answer.
func Isqrt(n *big.Int) *big.Int {
	if n.Sign() < 0 {
		panic("fixedpoint: square root of negative number")
	}
	if n.Cmp(two) < 0 {
		return new(big.Int).Set(n)
	}

	x0 := new(big.Int).Lsh(one, uint(n.BitLen()+1)/2)
	for {
		x1 := new(big.Int).Quo(n, x0)
		x1.Add(x1, x0)
		x1.Rsh(x1, 1)

		if x1.Cmp(x0) >= 0 {
			return x0
		}
		x0 = x1
	}
}
