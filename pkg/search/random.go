// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"math/rand"

	"github.com/a-nogikh/symsearch/pkg/state"
)

// RandomSearcher selects uniformly among its tracked states using the
// shared RNG, modulo the collection's size — unordered storage, same shape
// as glee's RandomSearcher, but Update keeps every added/removed state
// instead of popping the one just returned (selection here is not
// required to be idempotent, but it must not consume the state: only the
// engine's own Update call removes a state from view).
type RandomSearcher struct {
	states []state.State
	rnd    *rand.Rand
}

// NewRandomSearcher returns an empty uniform-random searcher drawing from rnd.
func NewRandomSearcher(rnd *rand.Rand) *RandomSearcher {
	return &RandomSearcher{rnd: rnd}
}

func (s *RandomSearcher) Select() state.State {
	if len(s.states) == 0 {
		invariantViolation("RandomSearcher.Select on empty searcher")
	}
	return s.states[s.rnd.Intn(len(s.states))]
}

func (s *RandomSearcher) Update(current state.State, added, removed []state.State) {
	s.states = append(s.states, added...)
	for _, es := range removed {
		var ok bool
		if s.states, ok = removeByID(s.states, es.ID()); !ok {
			invariantViolation("RandomSearcher: removed an untracked state")
		}
	}
}

func (s *RandomSearcher) Empty() bool {
	return len(s.states) == 0
}
