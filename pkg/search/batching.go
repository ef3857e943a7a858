// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"time"

	"github.com/a-nogikh/symsearch/pkg/log"
	"github.com/a-nogikh/symsearch/pkg/state"
)

// Clock abstracts wall-clock time so batching and iterative-deepening
// budgets are deterministically testable.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// RealClock returns a Clock backed by time.Now.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

// BatchingConfig configures BatchingSearcher.
type BatchingConfig struct {
	// TimeBudget is how long a state is kept selected before the searcher
	// is allowed to consult base again. Zero disables the time budget.
	TimeBudget time.Duration
	// InstructionBudget caps the number of steps taken on the current
	// state within one batch. Zero disables the instruction budget.
	InstructionBudget uint64
}

func (c BatchingConfig) validate() {
	if c.TimeBudget <= 0 && c.InstructionBudget == 0 {
		panic("search: BatchingConfig needs a positive TimeBudget or InstructionBudget")
	}
}

// BatchingSearcher keeps returning the same state from base for a stretch of
// wall-clock time or instruction steps — "sticks" to it — instead of
// consulting base on every single step, which is both cheaper (most base
// searchers do real work on Select/Update) and friendlier to engines whose
// per-step overhead dwarfs per-instruction cost. If a batch's elapsed time
// overshoots TimeBudget by more than 10%, the budget itself is nudged up by
// that overshoot so future batches self-tune toward the engine's actual
// step latency instead of thrashing against a budget that is chronically
// too tight.
type BatchingSearcher struct {
	base  Searcher
	clock Clock
	cfg   BatchingConfig

	sticky      state.State
	batchStart  time.Time
	instsInBatch uint64
}

// NewBatchingSearcher wraps base with the given budget, using clock for
// wall-clock measurements.
func NewBatchingSearcher(base Searcher, cfg BatchingConfig, clock Clock) *BatchingSearcher {
	cfg.validate()
	return &BatchingSearcher{base: base, clock: clock, cfg: cfg}
}

func (s *BatchingSearcher) Select() state.State {
	if s.sticky != nil {
		return s.sticky
	}
	st := s.base.Select()
	s.sticky = st
	s.batchStart = s.clock.Now()
	s.instsInBatch = 0
	return st
}

func (s *BatchingSearcher) Update(current state.State, added, removed []state.State) {
	s.base.Update(current, added, removed)

	if s.sticky == nil {
		return
	}
	if contains(idsOf(removed), s.sticky.ID()) {
		s.endBatch()
		return
	}
	if current == nil || current.ID() != s.sticky.ID() {
		return
	}

	s.instsInBatch++

	elapsed := s.clock.Now().Sub(s.batchStart)
	timeExceeded := s.cfg.TimeBudget > 0 && elapsed >= s.cfg.TimeBudget
	instsExceeded := s.cfg.InstructionBudget > 0 && s.instsInBatch >= s.cfg.InstructionBudget

	if !timeExceeded && !instsExceeded {
		return
	}

	if timeExceeded && s.cfg.TimeBudget > 0 {
		overshoot := elapsed - s.cfg.TimeBudget
		if overshoot > s.cfg.TimeBudget/10 {
			log.Logf(1, "batching searcher: budget overshot by %v, raising to %v", overshoot, s.cfg.TimeBudget+overshoot)
			s.cfg.TimeBudget += overshoot
		}
	}

	s.endBatch()
}

func (s *BatchingSearcher) endBatch() {
	s.sticky = nil
	s.instsInBatch = 0
}

func (s *BatchingSearcher) Empty() bool {
	return s.base.Empty()
}

// Budget returns the current self-tuned time budget, for pkg/metrics to
// poll into a gauge.
func (s *BatchingSearcher) Budget() time.Duration {
	return s.cfg.TimeBudget
}
