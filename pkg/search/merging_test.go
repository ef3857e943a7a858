// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"testing"

	"github.com/a-nogikh/symsearch/pkg/state"
	"github.com/stretchr/testify/assert"
)

// mergeableState wraps a *state.RefState and lets a test decide whether
// Merge succeeds, since RefState.Merge always refuses.
type mergeableState struct {
	*state.RefState
	canMerge bool
	absorbed []state.ID
}

func (m *mergeableState) Merge(other state.State) bool {
	if !m.canMerge {
		return false
	}
	m.absorbed = append(m.absorbed, other.ID())
	return true
}

func newMergeableState(t *testing.T, instID uint64, canMerge bool) *mergeableState {
	t.Helper()
	base := newTestState(t, instID)
	return &mergeableState{RefState: base, canMerge: canMerge}
}

func atMergePoint(atCallSite map[state.ID]bool) MergePointFunc {
	return func(s state.State) bool { return atCallSite[s.ID()] }
}

func byInstID(s state.State) uint64 { return s.PC().Info.ID }

func TestBumpMergingSearcherParksThenMergesOnSecondArrival(t *testing.T) {
	base := NewDFSSearcher()
	first := newMergeableState(t, 1, true)
	second := newMergeableState(t, 1, true)
	atCall := map[state.ID]bool{first.ID(): true, second.ID(): true}

	var outcomes []bool
	s := NewBumpMergingSearcher(base, atMergePoint(atCall), byInstID, func(ok bool) {
		outcomes = append(outcomes, ok)
	})

	// first arrives at the merge point and parks.
	AddState(s, first)
	s.Update(first, nil, nil)
	assert.False(t, s.Empty(), "first is parked, not gone")

	// second arrives at the same merge point and should absorb into first.
	AddState(s, second)
	s.Update(second, nil, nil)

	assert.Equal(t, []bool{true}, outcomes)
	assert.Equal(t, []state.ID{second.ID()}, first.absorbed)
	assert.False(t, s.Empty(), "the survivor stays parked, waiting for a future partner")
}

func TestBumpMergingSearcherResumesSeparatelyOnMergeFailure(t *testing.T) {
	base := NewDFSSearcher()
	first := newMergeableState(t, 1, false)
	second := newMergeableState(t, 1, false)
	atCall := map[state.ID]bool{first.ID(): true, second.ID(): true}

	var outcomes []bool
	s := NewBumpMergingSearcher(base, atMergePoint(atCall), byInstID, func(ok bool) {
		outcomes = append(outcomes, ok)
	})

	AddState(s, first)
	s.Update(first, nil, nil)
	AddState(s, second)
	s.Update(second, nil, nil)

	assert.Equal(t, []bool{false}, outcomes)
	assert.False(t, s.Empty())
	assert.Equal(t, second, s.Select())
}

func TestBumpMergingSearcherBumpsOldestWhenBaseRunsDry(t *testing.T) {
	base := NewDFSSearcher()
	waiting := newMergeableState(t, 1, true)
	atCall := map[state.ID]bool{waiting.ID(): true}

	s := NewBumpMergingSearcher(base, atMergePoint(atCall), byInstID, nil)
	AddState(s, waiting)
	s.Update(waiting, nil, nil)

	assert.True(t, base.Empty())
	assert.Equal(t, waiting, s.Select(), "base is dry, so the only parked state gets bumped back in")
}

func TestMergingSearcherDrainsAndMergesGroup(t *testing.T) {
	base := NewDFSSearcher()
	a := newMergeableState(t, 1, true)
	b := newMergeableState(t, 1, true)
	c := newTestState(t, 2)
	atCall := map[state.ID]bool{a.ID(): true, b.ID(): true}

	var outcomes []bool
	s := NewMergingSearcher(base, atMergePoint(atCall), byInstID, func(ok bool) {
		outcomes = append(outcomes, ok)
	})
	s.Update(nil, []state.State{a, b, c}, nil)

	got := s.Select()
	assert.Equal(t, c, got, "the non-merge-point state is returned directly")
}

func TestMergingSearcherMergesWhenBaseRunsDry(t *testing.T) {
	base := NewDFSSearcher()
	a := newMergeableState(t, 1, true)
	b := newMergeableState(t, 1, true)
	atCall := map[state.ID]bool{a.ID(): true, b.ID(): true}

	var outcomes []bool
	s := NewMergingSearcher(base, atMergePoint(atCall), byInstID, func(ok bool) {
		outcomes = append(outcomes, ok)
	})
	s.Update(nil, []state.State{a, b}, nil)

	// DFS hands back the most recently added state first, so b is drained
	// into the parked group before a; the first state in a group becomes
	// the survivor that later arrivals try to merge into.
	got := s.Select()
	assert.Equal(t, b, got)
	assert.Equal(t, []bool{false, true}, outcomes)
	assert.Equal(t, []state.ID{a.ID()}, b.absorbed)
}
