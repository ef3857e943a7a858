// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package search implements the state-selection subsystem of a symbolic
// execution engine: the pluggable scheduler that, at every instruction
// step, chooses which pending state the engine should advance next.
//
// Every concrete searcher implements the Searcher contract below. The
// engine is the sole source of truth for the set of live states; a
// searcher only ever maintains a derived view of it, kept coherent through
// calls to Update. Composite searchers (Interleaved, Splitted,
// OptimizedSplitted, the merging and batching wrappers) own one or more
// inner searchers and forward to them, sometimes rewriting the update
// stream along the way.
package search

import (
	"github.com/a-nogikh/symsearch/pkg/state"
)

// Searcher is the polymorphic capability every concrete strategy
// implements. See benbjohnson/glee's own Searcher interface
// (SelectState/AddState) for the minimal two-op shape this generalizes:
// Update subsumes AddState/RemoveState and additionally reports the state
// the engine just finished advancing, which several strategies (BFS,
// WeightedRandom, the merging searchers, splitting) need to stay correct
// under forking.
type Searcher interface {
	// Select returns a state to advance. Precondition: Empty() is false.
	// The returned state must have been added and not since removed.
	// Select is not required to be idempotent across calls.
	Select() state.State

	// Update informs the searcher that `current` was just advanced (nil if
	// no step was taken), that `added` are newly live states, and that
	// `removed` are states no longer live. added and removed are disjoint.
	Update(current state.State, added, removed []state.State)

	// Empty reports whether the searcher currently tracks any state.
	Empty() bool
}

// AddState is sugar for Update(nil, []state.State{s}, nil).
func AddState(s Searcher, st state.State) {
	s.Update(nil, []state.State{st}, nil)
}

// RemoveState is sugar for Update(nil, nil, []state.State{s}).
func RemoveState(s Searcher, st state.State) {
	s.Update(nil, nil, []state.State{st})
}

// invariantViolation panics: removing an untracked state, or selecting from
// an empty searcher, mean the searcher's view has desynchronized from the
// engine's live set, which is unrecoverable per spec.md §7.
func invariantViolation(msg string) {
	panic("search: invariant violation: " + msg)
}

// removeByID removes the state with the given id from states, preserving
// the order of the rest, and reports whether it was present; it does not
// panic itself. Used by the flat-slice searchers (DFS/BFS/Random, which
// panic on a false result, and the iterative-deepening paused list) to
// implement the "erase if found, else assert" idiom spec.md §4.2 describes.
func removeByID(states []state.State, id state.ID) ([]state.State, bool) {
	for i, s := range states {
		if s.ID() == id {
			states = append(states[:i], states[i+1:]...)
			return states, true
		}
	}
	return states, false
}

func contains(ids []state.ID, id state.ID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func idsOf(states []state.State) []state.ID {
	ids := make([]state.ID, len(states))
	for i, s := range states {
		ids[i] = s.ID()
	}
	return ids
}
