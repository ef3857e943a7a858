// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"time"

	"github.com/a-nogikh/symsearch/pkg/log"
	"github.com/a-nogikh/symsearch/pkg/state"
)

// IterativeDeepeningConfig configures IterativeDeepeningTimeSearcher.
type IterativeDeepeningConfig struct {
	// InitialBudget is the wall-clock time allotment for the first round.
	InitialBudget time.Duration
}

func (c IterativeDeepeningConfig) validate() {
	if c.InitialBudget <= 0 {
		panic("search: IterativeDeepeningConfig.InitialBudget must be positive")
	}
}

// IterativeDeepeningTimeSearcher runs base under a wall-clock budget that
// doubles every time base runs dry while states are paused: a state that
// is stepped after the current round has exceeded the budget is paused (held out
// of base's view, like a recovery state) rather than dropped, and resumes
// selection once every other live state has had its turn within the
// budget. When base goes empty with paused states still waiting, the
// budget doubles and every paused state is reinjected — so early rounds
// stay cheap and only runs that genuinely need more exploration depth pay
// for it.
type IterativeDeepeningTimeSearcher struct {
	base   Searcher
	clock  Clock
	budget time.Duration

	roundStart time.Time
	paused     []state.State
	pausedSet  map[state.ID]bool
}

// NewIterativeDeepeningTimeSearcher wraps base with a doubling wall-clock
// budget, using clock for wall-clock measurements.
func NewIterativeDeepeningTimeSearcher(base Searcher, cfg IterativeDeepeningConfig, clock Clock) *IterativeDeepeningTimeSearcher {
	cfg.validate()
	return &IterativeDeepeningTimeSearcher{
		base:      base,
		clock:     clock,
		budget:    cfg.InitialBudget,
		pausedSet: make(map[state.ID]bool),
	}
}

func (s *IterativeDeepeningTimeSearcher) Select() state.State {
	if s.roundStart.IsZero() {
		s.roundStart = s.clock.Now()
	}
	if s.base.Empty() {
		if len(s.paused) == 0 {
			invariantViolation("IterativeDeepeningTimeSearcher.Select on empty searcher")
		}
		s.startNextRound()
	}
	return s.base.Select()
}

func (s *IterativeDeepeningTimeSearcher) startNextRound() {
	s.budget *= 2
	log.Logf(1, "iterative deepening: doubling budget to %v, reinjecting %d paused states", s.budget, len(s.paused))
	s.roundStart = s.clock.Now()
	for _, st := range s.paused {
		AddState(s.base, st)
	}
	s.paused = nil
	s.pausedSet = make(map[state.ID]bool)
}

func (s *IterativeDeepeningTimeSearcher) Update(current state.State, added, removed []state.State) {
	var baseCurrent state.State = current
	var baseRemoved []state.State
	for _, r := range removed {
		if s.pausedSet[r.ID()] {
			s.unpause(r.ID())
		} else {
			baseRemoved = append(baseRemoved, r)
		}
	}

	if current != nil && !contains(idsOf(removed), current.ID()) {
		elapsed := s.clock.Now().Sub(s.roundStart)
		if elapsed >= s.budget {
			s.pause(current)
			baseCurrent = nil
			baseRemoved = append(baseRemoved, current)
		}
	}

	s.base.Update(baseCurrent, added, baseRemoved)
}

func (s *IterativeDeepeningTimeSearcher) pause(st state.State) {
	s.pausedSet[st.ID()] = true
	s.paused = append(s.paused, st)
}

func (s *IterativeDeepeningTimeSearcher) unpause(id state.ID) {
	if !s.pausedSet[id] {
		return
	}
	delete(s.pausedSet, id)
	s.paused, _ = removeByID(s.paused, id)
}

func (s *IterativeDeepeningTimeSearcher) Empty() bool {
	return s.base.Empty() && len(s.paused) == 0
}

// Budget returns the current round's wall-clock budget, for pkg/metrics to
// poll into a gauge.
func (s *IterativeDeepeningTimeSearcher) Budget() time.Duration {
	return s.budget
}
