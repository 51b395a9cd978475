// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package persistence_test

import (
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/persistence/core/persistence"
)

type persistenceSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&persistenceSuite{})

func (s *persistenceSuite) TestSingleDigits(c *gc.C) {
	for n := uint64(0); n < 10; n++ {
		c.Check(persistence.Persistence(n), gc.Equals, 0, gc.Commentf("n=%d", n))
		c.Check(persistence.Exact.Persistence(n), gc.Equals, 0, gc.Commentf("n=%d", n))
	}
}

func (s *persistenceSuite) TestKnownValues(c *gc.C) {
	tests := []struct {
		n        uint64
		expected int
	}{
		{n: 10, expected: 1},
		{n: 25, expected: 2},
		{n: 39, expected: 3},
		{n: 77, expected: 4},
		{n: 679, expected: 5},
		{n: 3456, expected: 2},
		{n: 277777788888899, expected: 11},
	}
	for _, test := range tests {
		c.Check(persistence.Persistence(test.n), gc.Equals, test.expected, gc.Commentf("n=%d", test.n))
		c.Check(persistence.Exact.Persistence(test.n), gc.Equals, test.expected, gc.Commentf("n=%d", test.n))
	}
}

func (s *persistenceSuite) TestZeroDigitCollapses(c *gc.C) {
	for _, n := range []uint64{10, 101, 2077, 999909999, 278607411270327, 18446744073709551610} {
		c.Check(persistence.DigitProduct(n), gc.Equals, uint64(0), gc.Commentf("n=%d", n))
	}
}

func (s *persistenceSuite) TestFastPathSentinel(c *gc.C) {
	// Every number holding a 5 and one of 2, 4, 8 (and no 0) must produce a
	// multiple of 10 whose own product is zero.
	var checked int
	for n := uint64(10); n < 200000; n++ {
		digits := strconv.FormatUint(n, 10)
		if strings.Contains(digits, "0") || !strings.Contains(digits, "5") || !strings.ContainsAny(digits, "248") {
			continue
		}
		checked++
		c.Assert(persistence.DigitProduct(n), gc.Equals, uint64(persistence.FastPathProduct), gc.Commentf("n=%d", n))

		exact := persistence.ExactDigitProduct(n)
		c.Assert(exact%10, gc.Equals, uint64(0), gc.Commentf("n=%d", n))
		c.Assert(exact >= 10, jc.IsTrue, gc.Commentf("n=%d", n))
		c.Assert(persistence.ExactDigitProduct(exact), gc.Equals, uint64(0), gc.Commentf("n=%d", n))
	}
	c.Assert(checked > 0, jc.IsTrue)
}

func (s *persistenceSuite) TestFastMatchesExact(c *gc.C) {
	for n := uint64(0); n < 300000; n++ {
		c.Assert(persistence.Fast.Persistence(n), gc.Equals, persistence.Exact.Persistence(n), gc.Commentf("n=%d", n))
	}
	for n := uint64(277777788800000); n < 277777788900000; n += 7 {
		c.Assert(persistence.Fast.Persistence(n), gc.Equals, persistence.Exact.Persistence(n), gc.Commentf("n=%d", n))
	}
}

func (s *persistenceSuite) TestStepRecursion(c *gc.C) {
	for n := uint64(10); n < 100000; n++ {
		product := persistence.DigitProduct(n)
		switch {
		case product >= 10:
			c.Assert(persistence.Persistence(n), gc.Equals, 1+persistence.Persistence(product), gc.Commentf("n=%d", n))
		default:
			c.Assert(persistence.Persistence(n), gc.Equals, 1, gc.Commentf("n=%d", n))
		}
	}
}

func (s *persistenceSuite) TestEvaluatorByName(c *gc.C) {
	e, err := persistence.EvaluatorByName("fast")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(e.Persistence(39), gc.Equals, 3)

	e, err = persistence.EvaluatorByName("exact")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(e.Persistence(39), gc.Equals, 3)

	_, err = persistence.EvaluatorByName("bogus")
	c.Assert(err, jc.Satisfies, errors.IsNotFound)
}
