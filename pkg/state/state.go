// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package state defines the narrow, read-mostly view that pkg/search needs
// of a symbolic execution state and of the process tree that tracks how
// states fork. Everything else about a real execution state — its memory
// model, its path constraints, its solver session — is owned by the engine
// and is none of this package's business.
package state

import "github.com/google/uuid"

// ID is the stable identity used as a map/PDF/set key for a state. Content
// never factors into equality: two states with the same ID are the same
// state, full stop.
type ID = uuid.UUID

// Priority distinguishes recovery states that should be explored ahead of
// the rest of the recovery pool.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityHigh
)

// InstructionInfo carries the dense identifier the statistics tracker
// indexes by.
type InstructionInfo struct {
	ID uint64
}

// Opcode is a coarse classification of an instruction; the searcher only
// ever needs to tell a call to the merge function apart from everything
// else.
type Opcode int

const (
	OpOther Opcode = iota
	OpCall
)

// Instruction is the underlying instruction a KInstruction wraps. Only the
// fields the searcher cares about are modeled.
type Instruction struct {
	Opcode Opcode
	// Callee is the called function's symbol, valid when Opcode == OpCall.
	Callee string
}

// KInstruction pairs an instruction with the statistics identifier used to
// index per-instruction counters.
type KInstruction struct {
	Inst *Instruction
	Info InstructionInfo
}

// Statistics exposes the call-path-local instruction counters that
// CPInstCount reads.
type Statistics interface {
	InstructionCount() uint64
}

// Frame is one stack frame of a live state.
type Frame struct {
	CallPathStatistics        Statistics
	MinDistToUncoveredOnReturn uint64
}

// State is the contract pkg/search relies on. It is intentionally narrow:
// everything else about an execution state (its heap, its constraint set,
// its solver handle) is the engine's business alone.
type State interface {
	ID() ID

	// PC is the instruction about to execute.
	PC() *KInstruction
	// Stack is the non-empty call stack; Stack()[len-1] is the top frame.
	Stack() []*Frame

	Weight() float64
	QueryCost() float64
	InstsSinceCovNew() uint64

	// PTreeNode is the leaf of the process tree carrying this state.
	PTreeNode() *Node

	IsRecoveryState() bool
	IsSuspended() bool
	// RecoveryState is only valid while IsSuspended() is true: it names the
	// state that must run to completion before this one may resume.
	RecoveryState() State
	Priority() Priority
	SetPriority(Priority)
	// Level is this state's depth in its stack of nested recovery subtrees;
	// 0 for states that are not nested inside any recovery subtree.
	Level() int
	IsResumed() bool

	// Merge attempts to absorb other into the receiver, returning whether
	// it succeeded. On success the receiver now speaks for both paths and
	// other is expected to be terminated by the caller.
	Merge(other State) bool
}

// TopFrame returns the top-of-stack frame, panicking if the stack is
// empty — per the state-model invariant, it never should be.
func TopFrame(s State) *Frame {
	stack := s.Stack()
	if len(stack) == 0 {
		panic("state: empty stack")
	}
	return stack[len(stack)-1]
}
