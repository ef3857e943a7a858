// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"math/rand"

	"github.com/a-nogikh/symsearch/pkg/state"
)

// RandomRecoveryPath walks the process tree the same way RandomPathSearcher
// does — a fair coin flip at every live fork, so a state's selection
// probability depends on its depth in the tree, not on how many siblings
// its ancestors accumulated — but restricted to one nesting level at a
// time: recovery states can themselves spawn nested recovery subtrees (a
// recovery state that forks produces two more recovery states one level
// deeper), and exploring a shallower level while a deeper one is still open
// would mean reporting the outer state resumed before the patch it depends
// on has actually been applied. treeStack holds one process-tree root per
// level, along with that level's own live-leaf counts; a state is folded
// into the root for its own Level() the first time that level sees any
// state, and every subsequent state at that level is just bumped into the
// same live-count map.
type RandomRecoveryPath struct {
	flips     bitFlips
	treeStack []*recoveryLevel
}

// recoveryLevel is one nesting level's view of the shared process tree:
// root is whatever ancestor every state pushed at this level traces back
// to, and live mirrors RandomPathSearcher's per-node live-leaf counts, but
// counting only states that belong to this level.
type recoveryLevel struct {
	root *state.Node
	live map[*state.Node]int
}

// NewRandomRecoveryPath returns an empty recovery-state searcher.
func NewRandomRecoveryPath(rnd *rand.Rand) *RandomRecoveryPath {
	return &RandomRecoveryPath{flips: bitFlips{rnd: rnd}}
}

// deepestNonEmpty returns the index of the deepest level with a live state,
// or -1 if every level is empty.
func (s *RandomRecoveryPath) deepestNonEmpty() int {
	for i := len(s.treeStack) - 1; i >= 0; i-- {
		if rl := s.treeStack[i]; rl != nil && rl.live[rl.root] > 0 {
			return i
		}
	}
	return -1
}

// walkDown descends from n to a live leaf within rl, one coin flip per fork
// with both sides live — identical in shape to RandomPathSearcher.walkDown,
// just keyed off this level's own live-count map instead of a single global
// one, since a node can be live for one nesting level and dead for another.
func (s *RandomRecoveryPath) walkDown(rl *recoveryLevel, n *state.Node) *state.Node {
	for !n.IsLeaf() {
		leftLive := rl.live[n.Left]
		rightLive := rl.live[n.Right]
		switch {
		case leftLive == 0:
			n = n.Right
		case rightLive == 0:
			n = n.Left
		case s.flips.next() == 0:
			n = n.Left
		default:
			n = n.Right
		}
	}
	return n
}

func (s *RandomRecoveryPath) Select() state.State {
	level := s.deepestNonEmpty()
	if level < 0 {
		invariantViolation("RandomRecoveryPath.Select on empty searcher")
	}
	rl := s.treeStack[level]
	n := s.walkDown(rl, rl.root)
	// The reached state may itself be waiting on a still-nested recovery
	// chain; follow it down to whatever it's actually blocked on, the same
	// way RandomPathSearcher defers to a suspended state's recovery state.
	for n.Data.IsSuspended() {
		rec := n.Data.RecoveryState()
		recLevel := rec.Level()
		if recLevel >= len(s.treeStack) || s.treeStack[recLevel] == nil {
			break
		}
		recRL := s.treeStack[recLevel]
		recNode := rec.PTreeNode()
		if recRL.live[recNode] == 0 {
			break
		}
		rl, n = recRL, s.walkDown(recRL, recNode)
	}
	return n.Data
}

func (s *RandomRecoveryPath) Update(current state.State, added, removed []state.State) {
	for _, st := range added {
		s.push(st)
	}
	for _, st := range removed {
		s.pop(st)
	}
	if current != nil && current.IsResumed() {
		// The state that just resumed vacates whatever level it was parked
		// at; if it was itself a recovery state one level up, popping it
		// here (rather than waiting for an explicit removal) lets the next
		// Select fall through to a shallower level instead of spinning on
		// an empty one.
		s.pop(current)
	}
}

func (s *RandomRecoveryPath) levelFor(l int) *recoveryLevel {
	for len(s.treeStack) <= l {
		s.treeStack = append(s.treeStack, nil)
	}
	return s.treeStack[l]
}

// treeRoot walks n up to the top of whatever process tree it belongs to.
func treeRoot(n *state.Node) *state.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

func (s *RandomRecoveryPath) push(st state.State) {
	level := st.Level()
	rl := s.levelFor(level)
	if rl == nil {
		rl = &recoveryLevel{root: treeRoot(st.PTreeNode()), live: make(map[*state.Node]int)}
		s.treeStack[level] = rl
	}
	s.bump(rl, st.PTreeNode(), 1)
}

func (s *RandomRecoveryPath) pop(st state.State) {
	level := st.Level()
	if level >= len(s.treeStack) || s.treeStack[level] == nil {
		return
	}
	s.bump(s.treeStack[level], st.PTreeNode(), -1)
}

func (s *RandomRecoveryPath) bump(rl *recoveryLevel, n *state.Node, delta int) {
	for cur := n; cur != nil; cur = cur.Parent {
		v := rl.live[cur] + delta
		if v < 0 {
			invariantViolation("RandomRecoveryPath: live-leaf count went negative")
		}
		if v == 0 {
			delete(rl.live, cur)
		} else {
			rl.live[cur] = v
		}
	}
}

func (s *RandomRecoveryPath) Empty() bool {
	return s.deepestNonEmpty() < 0
}
