// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import "github.com/a-nogikh/symsearch/pkg/state"

// DFSSearcher holds states in insertion order and always selects the most
// recently added one — the same LIFO shape as glee's own DFSSearcher, plus
// the Update bookkeeping spec.md §4.2 requires: removed states are popped
// off the tail when possible, or found and erased otherwise.
type DFSSearcher struct {
	states []state.State
}

// NewDFSSearcher returns an empty depth-first searcher.
func NewDFSSearcher() *DFSSearcher {
	return &DFSSearcher{}
}

func (s *DFSSearcher) Select() state.State {
	if len(s.states) == 0 {
		invariantViolation("DFSSearcher.Select on empty searcher")
	}
	return s.states[len(s.states)-1]
}

func (s *DFSSearcher) Update(current state.State, added, removed []state.State) {
	s.states = append(s.states, added...)
	for _, es := range removed {
		if n := len(s.states); n > 0 && s.states[n-1].ID() == es.ID() {
			s.states = s.states[:n-1]
			continue
		}
		var ok bool
		if s.states, ok = removeByID(s.states, es.ID()); !ok {
			invariantViolation("DFSSearcher: removed an untracked state")
		}
	}
}

func (s *DFSSearcher) Empty() bool {
	return len(s.states) == 0
}
