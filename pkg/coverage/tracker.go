// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package coverage provides a reference implementation of the statistics
// oracles pkg/search's WeightedRandomSearcher consumes as pure external
// functions (instruction visit counts, distance-to-uncovered,
// distance-to-call). A real engine's StatsTracker/CoreStats equivalent sits
// outside this repo's scope; this package exists so the searcher package's
// oracles have a concrete instance to test against (cmd/searchdemo does not
// use it; it supplies its own simulated stats), the same way the teacher's pkg/corpus ships a concrete
// WeightedPCSelection instead of leaving seed selection as an interface
// with no instance anywhere in the repo.
package coverage

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Tracker records, for each instruction id, how many times it has been
// visited, and which ids have ever been covered. It backs InstCount (via
// IndexedValue) and the "instructions since new coverage" bookkeeping (via
// Visit's first-time result); CPInstCount does not read it.
type Tracker struct {
	mu       sync.Mutex
	hits     map[uint64]uint64
	covered  *roaring.Bitmap
	total    uint64
}

// NewTracker returns an empty instruction-visit tracker.
func NewTracker() *Tracker {
	return &Tracker{
		hits:    make(map[uint64]uint64),
		covered: roaring.New(),
	}
}

// Visit records one execution of instruction id, returning whether this was
// the first time id was ever covered.
func (t *Tracker) Visit(id uint64) (firstTime bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hits[id]++
	t.total++
	if t.covered.Contains(uint32(id)) {
		return false
	}
	t.covered.Add(uint32(id))
	return true
}

// Instructions is the monotone global instruction counter spec.md §6 calls
// stats.instructions.
func (t *Tracker) Instructions() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// IndexedValue is stats.indexed_value(metric, instruction_id): here the only
// metric tracked is visit count, matching InstCount's use in
// WeightedRandomSearcher.
func (t *Tracker) IndexedValue(id uint64) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hits[id]
}

// CoveredCount reports how many distinct instruction ids have been covered
// at least once.
func (t *Tracker) CoveredCount() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.covered.GetCardinality()
}
