// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"testing"
	"time"

	"github.com/a-nogikh/symsearch/pkg/state"
	"github.com/stretchr/testify/assert"
)

func TestIterativeDeepeningTimeSearcherPausesOnBudgetExceeded(t *testing.T) {
	base := NewDFSSearcher()
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := NewIterativeDeepeningTimeSearcher(base, IterativeDeepeningConfig{InitialBudget: 10 * time.Second}, clock)

	a, b := newTestState(t, 1), newTestState(t, 2)
	AddState(s, a)
	AddState(s, b)

	first := s.Select()
	assert.Equal(t, b, first, "DFS hands back the most recently added state first")
	clock.advance(20 * time.Second)
	s.Update(first, nil, nil)

	assert.False(t, base.Empty(), "a is still live in base")
	assert.Equal(t, a, base.Select())
	assert.False(t, s.Empty())
}

func TestIterativeDeepeningTimeSearcherDoublesBudgetAndReinjectsPaused(t *testing.T) {
	base := NewDFSSearcher()
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := NewIterativeDeepeningTimeSearcher(base, IterativeDeepeningConfig{InitialBudget: 10 * time.Second}, clock)

	a := newTestState(t, 1)
	AddState(s, a)

	first := s.Select()
	assert.Equal(t, a, first)
	clock.advance(20 * time.Second)
	s.Update(first, nil, nil)

	assert.True(t, base.Empty(), "the only live state got paused, so base should be dry")
	assert.False(t, s.Empty(), "but the paused state keeps the searcher itself non-empty")

	got := s.Select()
	assert.Equal(t, a, got, "base ran dry, so the round doubled and a is reinjected")
	assert.Greater(t, s.Budget(), 10*time.Second)
}

func TestIterativeDeepeningTimeSearcherUnpausesOnExplicitRemoval(t *testing.T) {
	base := NewDFSSearcher()
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := NewIterativeDeepeningTimeSearcher(base, IterativeDeepeningConfig{InitialBudget: 10 * time.Second}, clock)

	a := newTestState(t, 1)
	AddState(s, a)
	first := s.Select()
	clock.advance(20 * time.Second)
	s.Update(first, nil, nil)

	s.Update(nil, nil, []state.State{a})
	assert.True(t, s.Empty())
}

func TestIterativeDeepeningTimeSearcherEmpty(t *testing.T) {
	base := NewDFSSearcher()
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := NewIterativeDeepeningTimeSearcher(base, IterativeDeepeningConfig{InitialBudget: time.Second}, clock)
	assert.True(t, s.Empty())
	assert.Panics(t, func() { s.Select() })
}
