// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package workqueue

import (
	"math"
	"sync"

	"github.com/juju/errors"
)

// ErrFrontierExhausted is returned when the frontier cannot be advanced
// without overflowing.
const ErrFrontierExhausted = errors.ConstError("frontier exhausted")

// Queue is a FIFO of batches guarded by the same lock as the frontier.
type Queue struct {
	mu       sync.Mutex
	frontier uint64
	batches  []Batch
}

// NewQueue returns an empty queue whose frontier starts at start.
func NewQueue(start uint64) *Queue {
	return &Queue{
		frontier: start,
	}
}

// Advance cuts the next batch of size candidates off the frontier. The
// frontier moves forward by exactly size. An error satisfying
// ErrFrontierExhausted is returned, and the frontier left untouched, if the
// batch would run past the largest representable candidate.
func (q *Queue) Advance(size uint64) (Batch, error) {
	if size == 0 {
		return Batch{}, errors.NotValidf("zero batch size")
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.frontier > math.MaxUint64-size {
		return Batch{}, errors.Annotatef(ErrFrontierExhausted, "advancing %d by %d", q.frontier, size)
	}
	batch := Batch{First: q.frontier, Length: size}
	q.frontier += size
	return batch, nil
}

// Frontier returns the first candidate not yet cut into a batch.
func (q *Queue) Frontier() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.frontier
}

// Enqueue appends batch to the back of the queue.
func (q *Queue) Enqueue(batch Batch) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.batches = append(q.batches, batch)
}

// Dequeue removes the batch at the front of the queue. The second return
// value is false when the queue is empty.
func (q *Queue) Dequeue() (Batch, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.batches) == 0 {
		return Batch{}, false
	}
	batch := q.batches[0]
	q.batches[0] = Batch{}
	q.batches = q.batches[1:]
	if len(q.batches) == 0 {
		q.batches = nil
	}
	return batch, true
}

// Count returns the number of queued batches.
func (q *Queue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.batches)
}
