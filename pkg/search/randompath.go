// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"math/rand"

	"github.com/a-nogikh/symsearch/pkg/state"
)

// RandomPathSearcher selects by flipping a fair coin at every fork point on
// the path down from the process tree's root, so that a state born from N
// forks is chosen with probability 2^-N regardless of how many siblings its
// ancestors accumulated — the bias BFS/DFS/RandomSearcher all have toward
// whichever subtree happens to hold more live states. Coin flips are drawn
// 32 at a time from the shared RNG and consumed one bit per fork, the same
// buffering the original searcher uses to avoid a rand call per tree level.
//
// Because descending purely by coin flip can walk into a subtree that holds
// no state this searcher currently tracks (a sibling subtree wholly owned by
// a different composite searcher, or one that has gone fully suspended),
// each node's live-leaf count is cached and kept in sync incrementally, so a
// dead subtree is skipped in favor of its sibling rather than ever reaching
// a nil child.
type RandomPathSearcher struct {
	root  *state.Node
	flips bitFlips
	live  map[*state.Node]int
}

// NewRandomPathSearcher returns a searcher walking the tree rooted at root.
func NewRandomPathSearcher(root *state.Node, rnd *rand.Rand) *RandomPathSearcher {
	return &RandomPathSearcher{
		root:  root,
		flips: bitFlips{rnd: rnd},
		live:  make(map[*state.Node]int),
	}
}

// bitFlips buffers 32 fair coin flips at a time off a shared RNG, so
// descending a tree one bit per fork level doesn't cost a rand call per
// level. Shared by RandomPathSearcher and RandomRecoveryPath, which both
// walk a process tree the same way.
type bitFlips struct {
	rnd   *rand.Rand
	bits  uint32
	nbits int
}

func (b *bitFlips) next() int {
	if b.nbits == 0 {
		b.bits = b.rnd.Uint32()
		b.nbits = 32
	}
	bit := int(b.bits & 1)
	b.bits >>= 1
	b.nbits--
	return bit
}

// walkDown descends from n to a live leaf, flipping a coin at every fork
// whose subtrees are both live and taking the only live side otherwise.
func (s *RandomPathSearcher) walkDown(n *state.Node) *state.Node {
	for !n.IsLeaf() {
		leftLive := s.live[n.Left]
		rightLive := s.live[n.Right]
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

func (s *RandomPathSearcher) Select() state.State {
	if s.live[s.root] == 0 {
		invariantViolation("RandomPathSearcher.Select on empty searcher")
	}
	n := s.walkDown(s.root)
	// A suspended state defers to its recovery state's own position in the
	// tree; descend into the recovery state's subtree in its place.
	for n.Data.IsSuspended() {
		rec := n.Data.RecoveryState()
		recNode := rec.PTreeNode()
		if s.live[recNode] == 0 {
			break
		}
		n = s.walkDown(recNode)
	}
	return n.Data
}

func (s *RandomPathSearcher) Update(current state.State, added, removed []state.State) {
	for _, es := range added {
		s.bump(es.PTreeNode(), 1)
	}
	for _, es := range removed {
		s.bump(es.PTreeNode(), -1)
	}
}

func (s *RandomPathSearcher) bump(n *state.Node, delta int) {
	for cur := n; cur != nil; cur = cur.Parent {
		v := s.live[cur] + delta
		if v < 0 {
			invariantViolation("RandomPathSearcher: live-leaf count went negative")
		}
		if v == 0 {
			delete(s.live, cur)
		} else {
			s.live[cur] = v
		}
	}
}

func (s *RandomPathSearcher) Empty() bool {
	return s.live[s.root] == 0
}
