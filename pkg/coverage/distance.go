// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package coverage

import "container/list"

// CallGraph is a reference distance oracle: a static directed graph of
// instruction ids (typically one per basic block) used to answer "how many
// steps from here to the nearest uncovered/call instruction". A real engine
// computes this once from the module's control-flow graph; here it is built
// by the caller (the package's tests) and queried with plain BFS.
type CallGraph struct {
	edges map[uint64][]uint64
	calls map[uint64]bool
}

// NewCallGraph returns an empty call graph.
func NewCallGraph() *CallGraph {
	return &CallGraph{
		edges: make(map[uint64][]uint64),
		calls: make(map[uint64]bool),
	}
}

// AddEdge records that control can flow from `from` to `to`.
func (g *CallGraph) AddEdge(from, to uint64) {
	g.edges[from] = append(g.edges[from], to)
}

// MarkCall records that instruction id is a call instruction, for
// DistanceToCall queries.
func (g *CallGraph) MarkCall(id uint64) {
	g.calls[id] = true
}

// DistanceToUncovered returns the length of the shortest path from `from`
// to any instruction not yet present in tracker's covered set, or
// returnDistance if no such instruction is reachable — mirroring how the
// original computeMinDistToUncovered falls back to the calling frame's
// minDistToUncoveredOnReturn when the current function's body is fully
// covered.
func (g *CallGraph) DistanceToUncovered(from uint64, tracker *Tracker, returnDistance uint64) uint64 {
	return g.bfs(from, returnDistance, func(id uint64) bool {
		return !tracker.covered.Contains(uint32(id))
	})
}

// DistanceToCall is the same walk, but targets the nearest instruction
// marked as a call site instead of an uncovered one.
func (g *CallGraph) DistanceToCall(from uint64, returnDistance uint64) uint64 {
	return g.bfs(from, returnDistance, func(id uint64) bool {
		return g.calls[id]
	})
}

// Oracle adapts a CallGraph and the Tracker that feeds it into the
// two-argument pkg/search.DistanceOracle contract: DistanceToUncovered
// needs to know what's covered so far, which only the tracker knows,
// while DistanceToCall is purely structural.
type Oracle struct {
	Graph   *CallGraph
	Tracker *Tracker
}

func (o *Oracle) DistanceToUncovered(from uint64, returnDistance uint64) uint64 {
	return o.Graph.DistanceToUncovered(from, o.Tracker, returnDistance)
}

func (o *Oracle) DistanceToCall(from uint64, returnDistance uint64) uint64 {
	return o.Graph.DistanceToCall(from, returnDistance)
}

func (g *CallGraph) bfs(from, fallback uint64, isTarget func(uint64) bool) uint64 {
	visited := map[uint64]bool{from: true}
	q := list.New()
	q.PushBack(struct {
		id   uint64
		dist uint64
	}{from, 0})

	for q.Len() > 0 {
		front := q.Remove(q.Front()).(struct {
			id   uint64
			dist uint64
		})
		if isTarget(front.id) {
			return front.dist
		}
		for _, next := range g.edges[front.id] {
			if visited[next] {
				continue
			}
			visited[next] = true
			q.PushBack(struct {
				id   uint64
				dist uint64
			}{next, front.dist + 1})
		}
	}
	return fallback
}
