// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package records keeps the best persistence candidates found by the
// search.
package records

import (
	"sort"
	"sync"
	"time"
)

// Candidate is a number found to have a higher persistence than any other
// number its batch had produced up to that point.
type Candidate struct {
	Timestamp   time.Time `json:"timestamp"`
	Number      uint64    `json:"number"`
	Persistence int       `json:"persistence"`
	RangeFirst  uint64    `json:"range-first"`
	RangeLast   uint64    `json:"range-last"`
}

// CompactionResult describes the outcome of a compaction.
type CompactionResult struct {
	Before int
	After  int

	// Best is the lowest number in the top persistence tier. It is only
	// meaningful if After is greater than zero.
	Best Candidate
}

// Tracker is a concurrency safe collection of candidates.
type Tracker struct {
	mu         sync.Mutex
	candidates []Candidate
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Add records a candidate.
func (t *Tracker) Add(candidate Candidate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.candidates = append(t.candidates, candidate)
}

// Len returns the number of candidates held.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.candidates)
}

// Compact drops every candidate below the highest persistence held, then
// keeps at most retain of the survivors, lowest numbers first.
func (t *Tracker) Compact(retain int) CompactionResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := CompactionResult{Before: len(t.candidates)}
	if len(t.candidates) == 0 {
		return result
	}

	top := t.candidates[0].Persistence
	for _, candidate := range t.candidates[1:] {
		if candidate.Persistence > top {
			top = candidate.Persistence
		}
	}

	kept := make([]Candidate, 0, len(t.candidates))
	for _, candidate := range t.candidates {
		if candidate.Persistence == top {
			kept = append(kept, candidate)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Number < kept[j].Number
	})
	if retain >= 0 && len(kept) > retain {
		kept = kept[:retain]
	}
	t.candidates = kept

	result.After = len(kept)
	if len(kept) > 0 {
		result.Best = kept[0]
	}
	return result
}

// Snapshot returns a copy of the candidates, highest persistence first and
// lowest number first within a tier.
func (t *Tracker) Snapshot() []Candidate {
	t.mu.Lock()
	snapshot := make([]Candidate, len(t.candidates))
	copy(snapshot, t.candidates)
	t.mu.Unlock()

	sort.SliceStable(snapshot, func(i, j int) bool {
		if snapshot[i].Persistence != snapshot[j].Persistence {
			return snapshot[i].Persistence > snapshot[j].Persistence
		}
		return snapshot[i].Number < snapshot[j].Number
	})
	return snapshot
}

// Best returns the best candidate held, if any.
func (t *Tracker) Best() (Candidate, bool) {
	snapshot := t.Snapshot()
	if len(snapshot) == 0 {
		return Candidate{}, false
	}
	return snapshot[0], true
}
