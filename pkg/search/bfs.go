// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import "github.com/a-nogikh/symsearch/pkg/state"

// BFSSearcher holds states in insertion order and always selects the
// oldest one. Per spec.md §4.2: when the engine reports a non-empty added
// set alongside a current state that was not itself removed, current is
// rotated to the tail before added is appended — this keeps round-robin
// fairness under forking even when BFS is interleaved with other
// searchers, since a plain "pop front, push children at back" only works
// when BFS owns the whole queue.
type BFSSearcher struct {
	states []state.State
}

// NewBFSSearcher returns an empty breadth-first searcher.
func NewBFSSearcher() *BFSSearcher {
	return &BFSSearcher{}
}

func (s *BFSSearcher) Select() state.State {
	if len(s.states) == 0 {
		invariantViolation("BFSSearcher.Select on empty searcher")
	}
	return s.states[0]
}

func (s *BFSSearcher) Update(current state.State, added, removed []state.State) {
	if len(added) > 0 && current != nil {
		removedIDs := idsOf(removed)
		if !contains(removedIDs, current.ID()) {
			s.rotateToTail(current.ID())
		}
	}

	s.states = append(s.states, added...)
	for _, es := range removed {
		if len(s.states) > 0 && s.states[0].ID() == es.ID() {
			s.states = s.states[1:]
			continue
		}
		var ok bool
		if s.states, ok = removeByID(s.states, es.ID()); !ok {
			invariantViolation("BFSSearcher: removed an untracked state")
		}
	}
}

func (s *BFSSearcher) rotateToTail(id state.ID) {
	for i, es := range s.states {
		if es.ID() == id {
			s.states = append(s.states[:i], s.states[i+1:]...)
			s.states = append(s.states, es)
			return
		}
	}
	invariantViolation("BFSSearcher: current state is not tracked")
}

func (s *BFSSearcher) Empty() bool {
	return len(s.states) == 0
}
