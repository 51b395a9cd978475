// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package workqueue_test

import (
	"math"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/persistence/internal/search/workqueue"
)

type queueSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&queueSuite{})

func (s *queueSuite) TestAdvance(c *gc.C) {
	q := workqueue.NewQueue(1000)

	b1, err := q.Advance(10)
	c.Assert(err, jc.ErrorIsNil)
	b2, err := q.Advance(10)
	c.Assert(err, jc.ErrorIsNil)

	c.Check(b1, gc.Equals, workqueue.Batch{First: 1000, Length: 10})
	c.Check(b2, gc.Equals, workqueue.Batch{First: 1010, Length: 10})
	c.Check(b1.Last(), gc.Equals, uint64(1009))
	c.Check(q.Frontier(), gc.Equals, uint64(1020))
	c.Check(q.Count(), gc.Equals, 0)
}

func (s *queueSuite) TestAdvanceZero(c *gc.C) {
	q := workqueue.NewQueue(0)
	_, err := q.Advance(0)
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
}

func (s *queueSuite) TestAdvanceOverflow(c *gc.C) {
	q := workqueue.NewQueue(math.MaxUint64 - 15)

	b, err := q.Advance(10)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(b.Last(), gc.Equals, uint64(math.MaxUint64-6))

	_, err = q.Advance(10)
	c.Assert(errors.Is(err, workqueue.ErrFrontierExhausted), jc.IsTrue)
	c.Check(q.Frontier(), gc.Equals, uint64(math.MaxUint64-5))
}

func (s *queueSuite) TestFIFO(c *gc.C) {
	q := workqueue.NewQueue(0)
	for i := 0; i < 3; i++ {
		b, err := q.Advance(5)
		c.Assert(err, jc.ErrorIsNil)
		q.Enqueue(b)
	}
	c.Assert(q.Count(), gc.Equals, 3)

	for _, first := range []uint64{0, 5, 10} {
		b, ok := q.Dequeue()
		c.Assert(ok, jc.IsTrue)
		c.Check(b.First, gc.Equals, first)
	}
	_, ok := q.Dequeue()
	c.Assert(ok, jc.IsFalse)
	c.Check(q.Count(), gc.Equals, 0)
}

func (s *queueSuite) TestEach(c *gc.C) {
	var seen []uint64
	workqueue.Batch{First: 7, Length: 4}.Each(func(n uint64) bool {
		seen = append(seen, n)
		return true
	})
	c.Check(seen, jc.DeepEquals, []uint64{7, 8, 9, 10})

	seen = nil
	workqueue.Batch{First: 7, Length: 4}.Each(func(n uint64) bool {
		seen = append(seen, n)
		return n < 8
	})
	c.Check(seen, jc.DeepEquals, []uint64{7, 8})

	seen = nil
	workqueue.Batch{First: math.MaxUint64 - 1, Length: 2}.Each(func(n uint64) bool {
		seen = append(seen, n)
		return true
	})
	c.Check(seen, jc.DeepEquals, []uint64{math.MaxUint64 - 1, math.MaxUint64})
}

func (s *queueSuite) TestConcurrentProduceConsume(c *gc.C) {
	const (
		batches = 5000
		size    = 3
	)
	q := workqueue.NewQueue(0)

	var produced atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer produced.Store(true)
		r := rand.New(rand.NewSource(42))
		for i := 0; i < batches; i++ {
			b, err := q.Advance(size)
			if err != nil {
				c.Error(err)
				return
			}
			q.Enqueue(b)
			if r.Intn(4) == 0 {
				runtime.Gosched()
			}
		}
	}()

	results := make([][]workqueue.Batch, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(i)))
			for {
				done := produced.Load()
				if q.Count() == 0 {
					if done {
						return
					}
					runtime.Gosched()
					continue
				}
				b, ok := q.Dequeue()
				if !ok {
					// Lost the race to the other consumer.
					continue
				}
				results[i] = append(results[i], b)
				if r.Intn(3) == 0 {
					runtime.Gosched()
				}
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]bool)
	for _, batchesSeen := range results {
		for _, b := range batchesSeen {
			c.Assert(seen[b.First], jc.IsFalse, gc.Commentf("batch %v dequeued twice", b))
			c.Assert(b.First%size, gc.Equals, uint64(0))
			c.Assert(b.Length, gc.Equals, uint64(size))
			seen[b.First] = true
		}
	}
	c.Assert(seen, gc.HasLen, batches)
	c.Check(q.Frontier(), gc.Equals, uint64(batches*size))
	c.Check(q.Count(), gc.Equals, 0)
}

func (s *queueSuite) TestHumanLength(c *gc.C) {
	c.Check(workqueue.Batch{Length: 40000000}.HumanLength(), gc.Equals, "40,000,000")
	c.Check(workqueue.Batch{Length: math.MaxUint64}.HumanLength(), gc.Equals, "18,446,744,073,709,551,615")
}
