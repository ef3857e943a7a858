// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import "github.com/a-nogikh/symsearch/pkg/state"

// discretePDF is a mutable weighted sampling structure: insert/update/remove
// a key's weight in O(log n), and choose a key with probability
// proportional to its weight in O(log n). It is implemented as an
// implicit, array-backed sum-tree, the same layout
// pkg/corpus.WeightedPCSelection uses to pick a program proportional to how
// rare its covered PCs are: each node caches the sum of its own weight plus
// both subtrees', and choose() walks down comparing a running remainder
// against the left subtree's sum before falling through to the node itself
// and then the right subtree.
type discretePDF struct {
	nodes []pdfNode
	index map[state.ID]int
}

type pdfNode struct {
	id     state.ID
	value  state.State
	weight float64
	sum    float64
}

func newDiscretePDF() *discretePDF {
	return &discretePDF{index: make(map[state.ID]int)}
}

func (p *discretePDF) empty() bool {
	return len(p.nodes) == 0
}

// totalWeight returns the sum of every tracked key's weight, i.e. the root
// node's cached sum; zero for an empty PDF.
func (p *discretePDF) totalWeight() float64 {
	if len(p.nodes) == 0 {
		return 0
	}
	return p.nodes[0].sum
}

// PDFEntry is one key's current weight, exported for debug snapshots.
type PDFEntry struct {
	ID     state.ID
	Weight float64
}

func (p *discretePDF) snapshot() []PDFEntry {
	out := make([]PDFEntry, len(p.nodes))
	for i, n := range p.nodes {
		out[i] = PDFEntry{ID: n.id, Weight: n.weight}
	}
	return out
}

// insert adds a new key with the given weight. Weight must be positive;
// callers (the weight functions in weight.go) are responsible for clamping.
func (p *discretePDF) insert(s state.State, weight float64) {
	idx := len(p.nodes)
	p.nodes = append(p.nodes, pdfNode{id: s.ID(), value: s, weight: weight})
	p.index[s.ID()] = idx
	p.propagate(idx)
}

// update changes the weight of an already-tracked key.
func (p *discretePDF) update(s state.State, weight float64) {
	idx, ok := p.index[s.ID()]
	if !ok {
		invariantViolation("discretePDF.update on an untracked state")
	}
	p.nodes[idx].weight = weight
	p.propagate(idx)
}

// remove drops a key, replacing its slot with the last node so the tree
// stays dense, then fixing up both the moved node's ancestors and the
// vacated last slot's ancestors — those are two different root-paths
// whenever idx and last don't share one, and both cache sums that would
// otherwise still count the moved node's weight twice or not at all.
func (p *discretePDF) remove(s state.State) {
	idx, ok := p.index[s.ID()]
	if !ok {
		invariantViolation("discretePDF.remove on an untracked state")
	}
	last := len(p.nodes) - 1
	delete(p.index, s.ID())
	if idx != last {
		p.nodes[idx] = p.nodes[last]
		p.index[p.nodes[idx].id] = idx
	}
	p.nodes = p.nodes[:last]
	if idx < len(p.nodes) {
		p.propagate(idx)
	}
	if last > 0 {
		p.propagate((last - 1) / 2)
	}
}

// choose returns the key sampled with probability proportional to its
// weight, given u drawn uniformly from [0, 1).
func (p *discretePDF) choose(u float64) state.State {
	if len(p.nodes) == 0 {
		invariantViolation("discretePDF.choose on an empty PDF")
	}
	val := u * p.nodes[0].sum
	idx := 0
	for {
		left := 2*idx + 1
		if left < len(p.nodes) {
			if val < p.nodes[left].sum {
				idx = left
				continue
			}
			val -= p.nodes[left].sum
		}

		if val < p.nodes[idx].weight {
			return p.nodes[idx].value
		}
		val -= p.nodes[idx].weight

		right := 2*idx + 2
		if right < len(p.nodes) {
			idx = right
			continue
		}

		// Floating point rounding can exhaust val just short of the last
		// node; fall back to it rather than index out of range.
		return p.nodes[idx].value
	}
}

func (p *discretePDF) propagate(idx int) {
	for {
		n := &p.nodes[idx]
		sum := n.weight
		if left := 2*idx + 1; left < len(p.nodes) {
			sum += p.nodes[left].sum
		}
		if right := 2*idx + 2; right < len(p.nodes) {
			sum += p.nodes[right].sum
		}
		n.sum = sum
		if idx == 0 {
			return
		}
		idx = (idx - 1) / 2
	}
}
