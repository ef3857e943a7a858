// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"math/rand"

	"github.com/a-nogikh/symsearch/pkg/state"
)

// StateKindFunc classifies a state into one of SplittedSearcher's
// partitions — e.g. "is this a recovery state or an ordinary one".
type StateKindFunc func(s state.State) int

// SplitMember pairs a partition's searcher with its selection weight.
type SplitMember struct {
	Kind     int
	Searcher Searcher
	Weight   float64
}

// SplittedSearcher partitions states by kind into independent sub-searchers
// and picks which partition gets the next Select by weighted random choice
// among partitions that currently have something to offer — the same
// ratio-driven alternation queue.Alternate applies to two queue.Sources,
// generalized here to an arbitrary number of kinds. Update routes added and
// removed states to the sub-searcher matching their kind; current is only
// ever forwarded to the sub-searcher whose kind it belongs to, with nil
// substituted for every other partition, since a state never meant
// anything to a partition it doesn't belong to.
type SplittedSearcher struct {
	kindOf  StateKindFunc
	rnd     *rand.Rand
	members []SplitMember
}

// NewSplittedSearcher returns a searcher that dispatches by kindOf across
// members. members must be non-empty and weights must be positive.
func NewSplittedSearcher(kindOf StateKindFunc, rnd *rand.Rand, members ...SplitMember) *SplittedSearcher {
	if len(members) == 0 {
		panic("search: SplittedSearcher requires at least one member")
	}
	for _, m := range members {
		if m.Weight <= 0 {
			panic("search: SplittedSearcher member weight must be positive")
		}
	}
	return &SplittedSearcher{kindOf: kindOf, rnd: rnd, members: members}
}

func (s *SplittedSearcher) Select() state.State {
	var total float64
	for _, m := range s.members {
		if !m.Searcher.Empty() {
			total += m.Weight
		}
	}
	if total == 0 {
		invariantViolation("SplittedSearcher.Select on empty searcher")
	}
	u := s.rnd.Float64() * total
	for _, m := range s.members {
		if m.Searcher.Empty() {
			continue
		}
		if u < m.Weight {
			return m.Searcher.Select()
		}
		u -= m.Weight
	}
	// Floating point rounding; fall back to the last non-empty member.
	for i := len(s.members) - 1; i >= 0; i-- {
		if !s.members[i].Searcher.Empty() {
			return s.members[i].Searcher.Select()
		}
	}
	invariantViolation("SplittedSearcher.Select: unreachable")
	return nil
}

func (s *SplittedSearcher) memberFor(kind int) Searcher {
	for _, m := range s.members {
		if m.Kind == kind {
			return m.Searcher
		}
	}
	invariantViolation("SplittedSearcher: unrecognized state kind")
	return nil
}

func (s *SplittedSearcher) Update(current state.State, added, removed []state.State) {
	byKindAdded := make(map[int][]state.State)
	byKindRemoved := make(map[int][]state.State)
	for _, st := range added {
		k := s.kindOf(st)
		byKindAdded[k] = append(byKindAdded[k], st)
	}
	for _, st := range removed {
		k := s.kindOf(st)
		byKindRemoved[k] = append(byKindRemoved[k], st)
	}

	var currentKind int
	hasCurrent := current != nil
	if hasCurrent {
		currentKind = s.kindOf(current)
	}

	for _, m := range s.members {
		var c state.State
		if hasCurrent && m.Kind == currentKind {
			c = current
		}
		m.Searcher.Update(c, byKindAdded[m.Kind], byKindRemoved[m.Kind])
	}
}

func (s *SplittedSearcher) Empty() bool {
	for _, m := range s.members {
		if !m.Searcher.Empty() {
			return false
		}
	}
	return true
}

// OptimizedSplittedSearcher layers a priority bypass on top of
// SplittedSearcher: any state priority classifies as high-priority is
// served from a dedicated searcher ahead of — and regardless of — the base
// split's ratio. Once a state at the outermost recovery level (Level() of
// zero) reports IsResumed() as current, whatever the priority searcher still holds is
// assumed to no longer need the fast lane and is flushed back into the
// base split, so a finished burst of priority work doesn't linger forever
// ahead of ordinary states.
type OptimizedSplittedSearcher struct {
	priority Searcher
	base     *SplittedSearcher
	isHigh   func(state.State) bool
}

// NewOptimizedSplittedSearcher wraps base with a priority bypass searcher,
// using isHigh to classify states into the fast lane.
func NewOptimizedSplittedSearcher(priority Searcher, base *SplittedSearcher, isHigh func(state.State) bool) *OptimizedSplittedSearcher {
	return &OptimizedSplittedSearcher{priority: priority, base: base, isHigh: isHigh}
}

func (s *OptimizedSplittedSearcher) Select() state.State {
	if !s.priority.Empty() {
		return s.priority.Select()
	}
	return s.base.Select()
}

func (s *OptimizedSplittedSearcher) Update(current state.State, added, removed []state.State) {
	var priorityAdded, baseAdded []state.State
	for _, st := range added {
		if s.isHigh(st) {
			priorityAdded = append(priorityAdded, st)
		} else {
			baseAdded = append(baseAdded, st)
		}
	}
	var priorityRemoved, baseRemoved []state.State
	for _, st := range removed {
		if s.isHigh(st) {
			priorityRemoved = append(priorityRemoved, st)
		} else {
			baseRemoved = append(baseRemoved, st)
		}
	}

	var priorityCurrent, baseCurrent state.State
	if current != nil {
		if s.isHigh(current) {
			priorityCurrent = current
		} else {
			baseCurrent = current
		}
	}

	s.priority.Update(priorityCurrent, priorityAdded, priorityRemoved)
	s.base.Update(baseCurrent, baseAdded, baseRemoved)

	if current != nil && current.IsResumed() && current.Level() == 0 {
		s.flushPriority()
	}
}

func (s *OptimizedSplittedSearcher) flushPriority() {
	for !s.priority.Empty() {
		st := s.priority.Select()
		RemoveState(s.priority, st)
		st.SetPriority(state.PriorityLow)
		AddState(s.base, st)
	}
}

func (s *OptimizedSplittedSearcher) Empty() bool {
	return s.priority.Empty() && s.base.Empty()
}
