// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func refWithID(id uint64) *RefState {
	return NewRefState(&KInstruction{Inst: &Instruction{}, Info: InstructionInfo{ID: id}})
}

func TestNodeForkTurnsLeafIntoInterior(t *testing.T) {
	rootData := refWithID(1)
	root := NewRoot(rootData)
	assert.True(t, root.IsLeaf())

	leftData, rightData := refWithID(2), refWithID(3)
	left, right := root.Fork(leftData, rightData)
	assert.False(t, root.IsLeaf())
	assert.Nil(t, root.Data)
	assert.True(t, left.IsLeaf())
	assert.True(t, right.IsLeaf())
	assert.Equal(t, root, left.Parent)
	assert.Equal(t, root, right.Parent)
}

func TestNodeForkPanicsOnNonLeaf(t *testing.T) {
	root := NewRoot(refWithID(1))
	root.Fork(refWithID(2), refWithID(3))
	assert.Panics(t, func() { root.Fork(refWithID(4), refWithID(5)) })
}

func TestNodeTerminateCollapsesParent(t *testing.T) {
	leftData, rightData := refWithID(2), refWithID(3)
	root := NewRoot(refWithID(1))
	left, right := root.Fork(leftData, rightData)
	_ = right

	left.Terminate()

	// root should now read like a leaf carrying right's data directly.
	assert.True(t, root.IsLeaf())
	assert.Equal(t, State(rightData), root.Data)
}

func TestNodeTerminateCollapsesAcrossMultipleLevels(t *testing.T) {
	root := NewRoot(refWithID(1))
	leftData, rightData := refWithID(2), refWithID(3)
	left, right := root.Fork(leftData, rightData)
	rlData, rrData := refWithID(4), refWithID(5)
	rl, rr := right.Fork(rlData, rrData)
	_ = rr

	rl.Terminate()
	// right collapses to rr's data; root still has two live leaves: left, right(=rr).
	assert.True(t, root.Left.IsLeaf())
	assert.True(t, root.Right.IsLeaf())
	assert.Equal(t, State(leftData), root.Left.Data)
	assert.Equal(t, State(rrData), root.Right.Data)

	left.Terminate()
	assert.True(t, root.IsLeaf())
	assert.Equal(t, State(rrData), root.Data)
}

func TestNodeTerminatePanicsOnNonLeaf(t *testing.T) {
	root := NewRoot(refWithID(1))
	root.Fork(refWithID(2), refWithID(3))
	assert.Panics(t, func() { root.Terminate() })
}
