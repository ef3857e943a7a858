// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"github.com/a-nogikh/symsearch/pkg/log"
	"github.com/a-nogikh/symsearch/pkg/state"
)

// MergePointFunc reports whether s has just reached a call to the
// designated merge function and should be considered for merging rather
// than handed back to the engine immediately.
type MergePointFunc func(s state.State) bool

// MergeKeyFunc groups states that arrived at the same merge point and are
// therefore eligible to merge with one another — typically the call site's
// instruction ID.
type MergeKeyFunc func(s state.State) uint64

// BumpMergingSearcher pauses a state the instant it reaches a merge point,
// holding it out of base's view so the engine never steps it further.  A
// second state arriving at the same merge point is merged into the first
// one on the spot; on success the absorbed state's process-tree leaf is
// terminated and the survivor keeps waiting, on failure the new arrival is
// handed straight back to base rather than parked a second time (waiting
// behind someone it can't merge with would only stall it for nothing).
//
// When base runs dry, the oldest parked state is "bumped": pulled back out
// of the parked set and pushed into base so the run can make progress
// instead of deadlocking on a partner that may never arrive. This FIFO
// choice is the one place spec.md leaves as an open question — picking the
// oldest avoids starving whichever parked state has been waiting longest.
type BumpMergingSearcher struct {
	base        Searcher
	isMergePoint MergePointFunc
	mergeKey    MergeKeyFunc
	onMerge     func(succeeded bool)

	parked []bumpEntry
	index  map[state.ID]int
}

type bumpEntry struct {
	key   uint64
	value state.State
}

// NewBumpMergingSearcher wraps base, pausing states at isMergePoint and
// grouping them for merging by mergeKey. onMerge, if non-nil, is called
// with the outcome of every merge attempt — pkg/metrics.Collector.ObserveMerge
// matches its signature.
func NewBumpMergingSearcher(base Searcher, isMergePoint MergePointFunc, mergeKey MergeKeyFunc, onMerge func(succeeded bool)) *BumpMergingSearcher {
	if onMerge == nil {
		onMerge = func(bool) {}
	}
	return &BumpMergingSearcher{
		base:        base,
		isMergePoint: isMergePoint,
		mergeKey:    mergeKey,
		onMerge:     onMerge,
		index:       make(map[state.ID]int),
	}
}

func (s *BumpMergingSearcher) Select() state.State {
	if s.base.Empty() {
		if len(s.parked) == 0 {
			invariantViolation("BumpMergingSearcher.Select on empty searcher")
		}
		s.bumpOldest()
	}
	return s.base.Select()
}

func (s *BumpMergingSearcher) bumpOldest() {
	entry := s.parked[0]
	s.parked = s.parked[1:]
	delete(s.index, entry.value.ID())
	s.reindex()
	AddState(s.base, entry.value)
}

func (s *BumpMergingSearcher) reindex() {
	for i, e := range s.parked {
		s.index[e.value.ID()] = i
	}
}

func (s *BumpMergingSearcher) park(st state.State) {
	s.index[st.ID()] = len(s.parked)
	s.parked = append(s.parked, bumpEntry{key: s.mergeKey(st), value: st})
}

func (s *BumpMergingSearcher) parkedByKey(key uint64) (state.State, bool) {
	for _, e := range s.parked {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

func (s *BumpMergingSearcher) unpark(id state.ID) {
	idx, ok := s.index[id]
	if !ok {
		return
	}
	s.parked = append(s.parked[:idx], s.parked[idx+1:]...)
	delete(s.index, id)
	s.reindex()
}

func (s *BumpMergingSearcher) Update(current state.State, added, removed []state.State) {
	var baseCurrent state.State = current
	var baseAdded []state.State
	var baseRemoved []state.State

	for _, r := range removed {
		if _, parked := s.index[r.ID()]; parked {
			s.unpark(r.ID())
		} else {
			baseRemoved = append(baseRemoved, r)
		}
	}

	if current != nil {
		if _, stillParked := s.index[current.ID()]; !stillParked && s.isMergePoint(current) {
			key := s.mergeKey(current)
			if other, ok := s.parkedByKey(key); ok {
				if other.Merge(current) {
					log.Logf(2, "bump merging: merged state %v into %v at merge point", current.ID(), other.ID())
					current.PTreeNode().Terminate()
					baseRemoved = append(baseRemoved, current)
					s.onMerge(true)
					baseCurrent = nil
				} else {
					log.Logf(2, "bump merging: state %v could not merge with %v, resuming separately", current.ID(), other.ID())
					s.onMerge(false)
					// current stays live and already tracked by base;
					// baseCurrent keeps pointing at it so base still sees
					// it as the state that just advanced.
				}
			} else {
				// current is already tracked by base (it was returned by a
				// prior base.Select()); pull it out into parked so base
				// stops offering it up until a partner arrives or it gets
				// bumped back in.
				s.park(current)
				baseRemoved = append(baseRemoved, current)
				baseCurrent = nil
			}
		}
	}

	baseAdded = append(baseAdded, added...)
	s.base.Update(baseCurrent, baseAdded, baseRemoved)
}

func (s *BumpMergingSearcher) Empty() bool {
	return s.base.Empty() && len(s.parked) == 0
}

// MergingSearcher is BumpMergingSearcher's stricter sibling: instead of
// merging one pair at a time as arrivals trickle in, it drains base down to
// only merge-point states, groups every state waiting at the same merge
// point, and merges within each group before handing the survivors back to
// base. This trades BumpMergingSearcher's responsiveness (never stalls
// waiting for a partner) for giving every possible pairing within a group a
// chance to merge before anything resumes.
type MergingSearcher struct {
	base         Searcher
	isMergePoint MergePointFunc
	mergeKey     MergeKeyFunc
	onMerge      func(succeeded bool)
	parked       []state.State

	// resolved marks survivors of a merge round that were handed back to
	// base: the next time base offers one up, Select returns it straight
	// away instead of parking it again, since it already had its chance to
	// merge this round and isMergePoint would otherwise stay true forever
	// for a state with no remaining partner.
	resolved map[state.ID]bool
}

// NewMergingSearcher wraps base with batch-style merging. onMerge, if
// non-nil, is called once per state in a group: true if it was absorbed by
// an earlier survivor, false if it survived unmerged.
func NewMergingSearcher(base Searcher, isMergePoint MergePointFunc, mergeKey MergeKeyFunc, onMerge func(succeeded bool)) *MergingSearcher {
	if onMerge == nil {
		onMerge = func(bool) {}
	}
	return &MergingSearcher{
		base:         base,
		isMergePoint: isMergePoint,
		mergeKey:     mergeKey,
		onMerge:      onMerge,
		resolved:     make(map[state.ID]bool),
	}
}

func (s *MergingSearcher) Select() state.State {
	for {
		if !s.base.Empty() {
			st := s.base.Select()
			if s.resolved[st.ID()] {
				delete(s.resolved, st.ID())
				return st
			}
			if s.isMergePoint(st) {
				s.parked = append(s.parked, st)
				RemoveState(s.base, st)
				continue
			}
			return st
		}
		if len(s.parked) == 0 {
			invariantViolation("MergingSearcher.Select on empty searcher")
		}
		before := len(s.parked)
		s.mergeParked()
		if s.base.Empty() && len(s.parked) == before {
			invariantViolation("MergingSearcher: a full round merged nothing and base stayed empty")
		}
	}
}

func (s *MergingSearcher) mergeParked() {
	groups := make(map[uint64][]state.State)
	for _, st := range s.parked {
		k := s.mergeKey(st)
		groups[k] = append(groups[k], st)
	}
	s.parked = s.parked[:0]
	for key, group := range groups {
		survivors := mergeGroup(group, s.onMerge)
		log.Logf(2, "merging: merge point %d reduced %d parked states to %d", key, len(group), len(survivors))
		for _, survivor := range survivors {
			s.resolved[survivor.ID()] = true
			AddState(s.base, survivor)
		}
	}
}

// mergeGroup pairwise-merges every state in group into whichever earlier
// survivor accepts it, terminating the absorbed state's process-tree leaf,
// and returns the states nothing could absorb. onMerge is called once per
// state in group reporting whether it was absorbed.
func mergeGroup(group []state.State, onMerge func(succeeded bool)) []state.State {
	var survivors []state.State
	for _, st := range group {
		absorbed := false
		for _, surv := range survivors {
			if surv.Merge(st) {
				st.PTreeNode().Terminate()
				absorbed = true
				break
			}
		}
		onMerge(absorbed)
		if !absorbed {
			survivors = append(survivors, st)
		}
	}
	return survivors
}

func (s *MergingSearcher) Update(current state.State, added, removed []state.State) {
	var baseCurrent state.State = current
	var baseRemoved []state.State
	for _, r := range removed {
		delete(s.resolved, r.ID())
		if idx := indexOfID(s.parked, r.ID()); idx >= 0 {
			s.parked = append(s.parked[:idx], s.parked[idx+1:]...)
		} else {
			baseRemoved = append(baseRemoved, r)
		}
	}
	if current != nil && indexOfID(s.parked, current.ID()) >= 0 {
		baseCurrent = nil
	}
	s.base.Update(baseCurrent, added, baseRemoved)
}

func (s *MergingSearcher) Empty() bool {
	return s.base.Empty() && len(s.parked) == 0
}

func indexOfID(states []state.State, id state.ID) int {
	for i, st := range states {
		if st.ID() == id {
			return i
		}
	}
	return -1
}
