// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package workqueue

import (
	"fmt"
	"math/big"

	"github.com/dustin/go-humanize"
)

// Batch is a contiguous range of candidates [First, First+Length).
type Batch struct {
	First  uint64
	Length uint64
}

// Last returns the final candidate in the batch.
func (b Batch) Last() uint64 {
	if b.Length == 0 {
		return b.First
	}
	return b.First + b.Length - 1
}

// Each calls fn for every candidate in ascending order until fn returns
// false.
func (b Batch) Each(fn func(uint64) bool) {
	if b.Length == 0 {
		return
	}
	last := b.Last()
	for n := b.First; ; n++ {
		if !fn(n) || n == last {
			return
		}
	}
}

// String implements fmt.Stringer.
func (b Batch) String() string {
	return fmt.Sprintf("[%d ... %d]", b.First, b.Last())
}

// HumanLength returns the batch length with thousands separators.
func (b Batch) HumanLength() string {
	return humanize.BigComma(new(big.Int).SetUint64(b.Length))
}
