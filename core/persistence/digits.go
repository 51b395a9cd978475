// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package persistence

// FastPathProduct is the value returned by DigitProduct when the number
// contains a 5 alongside one of 2, 4 or 8. It is not the product of the
// digits. It stands for "a two digit value whose next product is zero", which
// is all that matters when counting steps.
const FastPathProduct = 10

// DigitProduct returns the product of the decimal digits of n.
//
// A zero digit yields 0 without multiplying the rest. A 5 together with any
// of 2, 4 or 8 yields FastPathProduct: such a product is always a multiple of
// 10, so the step after it is guaranteed to produce 0.
func DigitProduct(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	var (
		product uint64 = 1
		hasFive bool
		hasEven bool
	)
	for ; n > 0; n /= 10 {
		d := n % 10
		switch d {
		case 0:
			return 0
		case 5:
			hasFive = true
		case 2, 4, 8:
			hasEven = true
		}
		product *= d
	}
	if hasFive && hasEven {
		return FastPathProduct
	}
	return product
}

// ExactDigitProduct returns the product of the decimal digits of n without
// taking any short cuts.
func ExactDigitProduct(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	var product uint64 = 1
	for ; n > 0; n /= 10 {
		product *= n % 10
	}
	return product
}
