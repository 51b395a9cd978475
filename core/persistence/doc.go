// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package persistence computes the multiplicative persistence of numbers.
//
// The multiplicative persistence of n is the number of times the product of
// the decimal digits of n has to be taken before the value collapses to a
// single digit. 39 -> 27 -> 14 -> 4 has a persistence of 3.
//
// Two evaluators are provided. Fast short-circuits any step that is known to
// collapse to zero within the next step, Exact multiplies every digit. Both
// must agree on every input; the short cuts only ever change the value of an
// intermediate product, never the number of steps taken.
//
// SkipRange applies the same reasoning to a whole range of consecutive
// numbers which share their high order digits.
package persistence
