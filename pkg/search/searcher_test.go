// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"testing"

	"github.com/a-nogikh/symsearch/pkg/state"
	"github.com/stretchr/testify/assert"
)

func newTestState(t *testing.T, instID uint64) *state.RefState {
	t.Helper()
	inst := &state.KInstruction{Inst: &state.Instruction{}, Info: state.InstructionInfo{ID: instID}}
	s := state.NewRefState(inst)
	s.SetPTreeNode(state.NewRoot(s))
	return s
}

func TestRemoveByID(t *testing.T) {
	a := newTestState(t, 1)
	b := newTestState(t, 2)
	c := newTestState(t, 3)
	states := []state.State{a, b, c}

	states, ok := removeByID(states, b.ID())
	assert.True(t, ok)
	assert.Equal(t, []state.State{a, c}, states)

	_, ok = removeByID(states, b.ID())
	assert.False(t, ok)
}
