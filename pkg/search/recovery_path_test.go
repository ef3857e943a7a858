// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"math/rand"
	"testing"

	"github.com/a-nogikh/symsearch/pkg/state"
	"github.com/a-nogikh/symsearch/pkg/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRandomRecoveryPathPicksDeepestLevel(t *testing.T) {
	r := rand.New(testutil.RandSource(t))
	s := NewRandomRecoveryPath(r)

	outer := newTestState(t, 1)
	outer.MarkRecovery(0, state.PriorityLow)
	inner := newTestState(t, 2)
	inner.MarkRecovery(1, state.PriorityLow)

	s.Update(nil, []state.State{outer, inner}, nil)
	assert.Equal(t, inner, s.Select(), "the deeper nested recovery subtree takes priority")
}

func TestRandomRecoveryPathFallsBackOnceDeeperLevelEmpties(t *testing.T) {
	r := rand.New(testutil.RandSource(t))
	s := NewRandomRecoveryPath(r)

	outer := newTestState(t, 1)
	outer.MarkRecovery(0, state.PriorityLow)
	inner := newTestState(t, 2)
	inner.MarkRecovery(1, state.PriorityLow)
	s.Update(nil, []state.State{outer, inner}, nil)

	s.Update(nil, nil, []state.State{inner})
	assert.Equal(t, outer, s.Select())
}

func TestRandomRecoveryPathPopsResumedCurrent(t *testing.T) {
	r := rand.New(testutil.RandSource(t))
	s := NewRandomRecoveryPath(r)

	outer := newTestState(t, 1)
	outer.MarkRecovery(0, state.PriorityLow)
	s.Update(nil, []state.State{outer}, nil)
	assert.False(t, s.Empty())

	outer.SetResumed(true)
	s.Update(outer, nil, nil)
	assert.True(t, s.Empty(), "resuming vacates the level it was parked at")
}

func TestRandomRecoveryPathEmpty(t *testing.T) {
	r := rand.New(testutil.RandSource(t))
	s := NewRandomRecoveryPath(r)
	assert.True(t, s.Empty())
	assert.Panics(t, func() { s.Select() })
}

func TestRandomRecoveryPathSplitsEvenlyWithinLevel(t *testing.T) {
	r := rand.New(testutil.RandSource(t))
	s := NewRandomRecoveryPath(r)

	root := newTestState(t, 1)
	root.MarkRecovery(1, state.PriorityLow)
	s.Update(nil, []state.State{root}, nil)

	a, b := fork(t, root, 2, 3)
	a.MarkRecovery(1, state.PriorityLow)
	b.MarkRecovery(1, state.PriorityLow)
	s.Update(nil, []state.State{a, b}, []state.State{root})

	counts := map[state.ID]int{}
	const total = 20000
	for i := 0; i < total; i++ {
		counts[s.Select().ID()]++
	}
	assert.InDelta(t, total/2, counts[a.ID()], float64(total)*0.05)
	assert.InDelta(t, total/2, counts[b.ID()], float64(total)*0.05)
}

func TestRandomRecoveryPathDescendsThroughSuspendedSibling(t *testing.T) {
	r := rand.New(testutil.RandSource(t))
	s := NewRandomRecoveryPath(r)

	root := newTestState(t, 1)
	root.MarkRecovery(1, state.PriorityLow)
	s.Update(nil, []state.State{root}, nil)

	x, y := fork(t, root, 2, 3)
	x.MarkRecovery(1, state.PriorityLow)
	y.MarkRecovery(1, state.PriorityLow)
	s.Update(nil, []state.State{x, y}, []state.State{root})

	x.SetSuspended(y)

	for i := 0; i < 50; i++ {
		assert.Equal(t, y, s.Select(), "a suspended state defers to whatever it's waiting on")
	}
}
