// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package persistence

import (
	"github.com/juju/errors"
)

// Evaluator computes the multiplicative persistence of a number.
type Evaluator interface {
	// Persistence returns the number of digit products needed to reduce n
	// to a single digit. Single digit numbers have a persistence of 0.
	Persistence(n uint64) int
}

// ProductFunc computes a single digit product step.
type ProductFunc func(uint64) uint64

// Persistence implements Evaluator by iterating the product step.
func (f ProductFunc) Persistence(n uint64) int {
	var steps int
	for n > 9 {
		n = f(n)
		steps++
	}
	return steps
}

var (
	// Fast evaluates persistence using the DigitProduct short cuts.
	Fast Evaluator = ProductFunc(DigitProduct)

	// Exact evaluates persistence by multiplying every digit.
	Exact Evaluator = ProductFunc(ExactDigitProduct)
)

// Persistence returns the multiplicative persistence of n using the Fast
// evaluator.
func Persistence(n uint64) int {
	return Fast.Persistence(n)
}

const (
	// FastEvaluatorName names the Fast evaluator in configuration.
	FastEvaluatorName = "fast"

	// ExactEvaluatorName names the Exact evaluator in configuration.
	ExactEvaluatorName = "exact"
)

// EvaluatorByName returns the evaluator registered under name.
func EvaluatorByName(name string) (Evaluator, error) {
	switch name {
	case FastEvaluatorName, "":
		return Fast, nil
	case ExactEvaluatorName:
		return Exact, nil
	}
	return nil, errors.NotFoundf("evaluator %q", name)
}
