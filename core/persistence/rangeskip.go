// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package persistence

import (
	"github.com/juju/collections/set"
)

// VolatileDigits returns the number of low order digits that can change
// across a batch of batchSize consecutive numbers. The remaining high order
// digits are the ones SkipRange inspects.
//
// A batch of 40,000,000 numbers spans offsets 0 to 39,999,999, so 8 digits are
// volatile.
func VolatileDigits(batchSize uint64) int {
	if batchSize <= 1 {
		return 0
	}
	return digitCount(batchSize - 1)
}

// SkipRange reports whether every number in [first, last] is known to have a
// persistence of at most 2 without evaluating any of them.
//
// The volatileDigits low order digits of first and last are ignored. If the
// remaining digits are identical then every number in between shares them,
// and if they hold a 0, or a 5 together with a 2, 4 or 8, every number in the
// range collapses within two steps.
func SkipRange(first, last uint64, volatileDigits int) bool {
	if last < first {
		return false
	}
	if digitCount(first) != digitCount(last) {
		return false
	}
	head, tail := leadingDigits(first, volatileDigits), leadingDigits(last, volatileDigits)
	if len(head) == 0 || len(head) != len(tail) {
		return false
	}
	for i := range head {
		if head[i] != tail[i] {
			return false
		}
	}
	return collapses(set.NewInts(head...))
}

func collapses(digits set.Ints) bool {
	if digits.Contains(0) {
		return true
	}
	return digits.Contains(5) && (digits.Contains(2) || digits.Contains(4) || digits.Contains(8))
}

// leadingDigits returns the digits of n above the skip low order positions,
// least significant first.
func leadingDigits(n uint64, skip int) []int {
	for ; skip > 0 && n > 0; skip-- {
		n /= 10
	}
	var digits []int
	for ; n > 0; n /= 10 {
		digits = append(digits, int(n%10))
	}
	return digits
}

func digitCount(n uint64) int {
	count := 1
	for n >= 10 {
		n /= 10
		count++
	}
	return count
}
