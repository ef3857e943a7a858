// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import "github.com/a-nogikh/symsearch/pkg/state"

// InterleavedSearcher round-robins Select across its member searchers,
// forwarding every Update to all of them so each keeps a complete view of
// the live set regardless of whose turn it is to pick. The cursor walks
// backward (wrapping to the end rather than to zero) purely to match the
// member-selection order the original searcher produces; forward and
// backward round-robin visit every member equally often, so the direction
// has no effect beyond that ordering.
type InterleavedSearcher struct {
	members []Searcher
	index   int
}

// NewInterleavedSearcher round-robins across members, starting with the
// last one given and walking backward. members must be non-empty.
func NewInterleavedSearcher(members ...Searcher) *InterleavedSearcher {
	if len(members) == 0 {
		panic("search: InterleavedSearcher requires at least one member")
	}
	return &InterleavedSearcher{members: members}
}

func (s *InterleavedSearcher) Select() state.State {
	for i := 0; i < len(s.members); i++ {
		s.index--
		if s.index < 0 {
			s.index = len(s.members) - 1
		}
		m := s.members[s.index]
		if !m.Empty() {
			return m.Select()
		}
	}
	invariantViolation("InterleavedSearcher.Select: no member has a state")
	return nil
}

func (s *InterleavedSearcher) Update(current state.State, added, removed []state.State) {
	for _, m := range s.members {
		m.Update(current, added, removed)
	}
}

func (s *InterleavedSearcher) Empty() bool {
	for _, m := range s.members {
		if !m.Empty() {
			return false
		}
	}
	return true
}
