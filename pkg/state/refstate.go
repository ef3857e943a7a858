// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package state

import (
	"github.com/benbjohnson/immutable"
	"github.com/google/uuid"
)

// RefState is a minimal, concrete State implementation used by pkg/search's
// tests and by cmd/searchdemo. A real engine owns a much richer state; this
// one exists so the selection subsystem can be exercised and tested on its
// own, the way benbjohnson/glee ships its own ExecutionState alongside its
// searchers rather than depending on an external symbolic executor.
type RefState struct {
	id ID

	pc    *KInstruction
	stack *immutable.List // of *Frame

	weight           float64
	queryCost        float64
	instsSinceCovNew uint64

	ptreeNode *Node

	recovery      bool
	suspended     bool
	recoveryState State
	priority      Priority
	level         int
	resumed       bool
}

// NewRefState creates a root state with a single stack frame.
func NewRefState(pc *KInstruction) *RefState {
	frames := immutable.NewList()
	frames = frames.Append(&Frame{})
	return &RefState{
		id:     uuid.New(),
		pc:     pc,
		stack:  frames,
		weight: 1.0,
	}
}

func (s *RefState) ID() ID                { return s.id }
func (s *RefState) PC() *KInstruction     { return s.pc }
func (s *RefState) Weight() float64       { return s.weight }
func (s *RefState) QueryCost() float64    { return s.queryCost }
func (s *RefState) InstsSinceCovNew() uint64 { return s.instsSinceCovNew }
func (s *RefState) PTreeNode() *Node      { return s.ptreeNode }

func (s *RefState) Stack() []*Frame {
	out := make([]*Frame, 0, s.stack.Len())
	itr := s.stack.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		out = append(out, v.(*Frame))
	}
	return out
}

func (s *RefState) IsRecoveryState() bool   { return s.recovery }
func (s *RefState) IsSuspended() bool       { return s.suspended }
func (s *RefState) RecoveryState() State    { return s.recoveryState }
func (s *RefState) Priority() Priority      { return s.priority }
func (s *RefState) SetPriority(p Priority)  { s.priority = p }
func (s *RefState) Level() int              { return s.level }
func (s *RefState) IsResumed() bool         { return s.resumed }

// Merge never succeeds for RefState; a richer state would compare path
// conditions and absorb a compatible sibling's symbolic effects.
func (s *RefState) Merge(other State) bool { return false }

// Fork returns two children sharing this state's stack by structure, the way glee.ExecutionState.Clone shares its immutable heap
// between parent and child instead of deep-copying it.
func (s *RefState) Fork() (left, right *RefState) {
	clone := func() *RefState {
		return &RefState{
			id:     uuid.New(),
			pc:     s.pc,
			stack:  s.stack,
			weight: s.weight,
		}
	}
	return clone(), clone()
}

// SetPC replaces the program counter.
func (s *RefState) SetPC(pc *KInstruction) { s.pc = pc }

// SetWeight overrides the depth-mode weight WeightedRandomSearcher reads.
func (s *RefState) SetWeight(w float64) { s.weight = w }

// SetQueryCost overrides the solver-cost estimate the QueryCost weight mode
// reads.
func (s *RefState) SetQueryCost(c float64) { s.queryCost = c }

// SetInstsSinceCovNew overrides the CoveringNew/PatchTesting weight modes'
// staleness counter.
func (s *RefState) SetInstsSinceCovNew(n uint64) { s.instsSinceCovNew = n }

// PushFrame pushes a new stack frame onto this state's stack; the
// previous frame list is left untouched since immutable.List shares its
// spine across the push.
func (s *RefState) PushFrame(f *Frame) {
	s.stack = s.stack.Append(f)
}

// MarkRecovery turns this state into a recovery state at the given level.
func (s *RefState) MarkRecovery(level int, priority Priority) {
	s.recovery = true
	s.level = level
	s.priority = priority
}

func (s *RefState) SetPTreeNode(n *Node) { s.ptreeNode = n }
func (s *RefState) SetSuspended(recoveryState State) {
	s.suspended = recoveryState != nil
	s.recoveryState = recoveryState
}
func (s *RefState) SetResumed(v bool) { s.resumed = v }
