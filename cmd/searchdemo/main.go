// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Command searchdemo drives one of the state-selection strategies in
// pkg/search over a synthetic, randomly forking/terminating run, printing
// how many times each of the ten most-selected states was the current
// selection — a
// standalone way to eyeball a strategy's exploration bias without a real
// symbolic execution engine attached, in the spirit of the teacher's own
// tools/seed-selection distribution-comparison script.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"

	symlog "github.com/a-nogikh/symsearch/pkg/log"
	"github.com/a-nogikh/symsearch/pkg/search"
	"github.com/a-nogikh/symsearch/pkg/state"
)

var (
	searcherFlag = flag.String("searcher", "dfs", "searcher to drive: dfs, bfs, random, weighted, randompath")
	weightFlag   = flag.String("weight", "depth", "weight mode when -searcher=weighted: depth, instcount")
	stepsFlag    = flag.Int("steps", 20000, "number of Select/Update steps to run")
	seedFlag     = flag.Int64("seed", 1, "RNG seed")
	forkProb     = flag.Float64("fork-prob", 0.02, "probability a step forks the selected state")
	termProb     = flag.Float64("term-prob", 0.01, "probability a step terminates the selected state")
	verbosity    = flag.Int("v", 0, "log verbosity")
)

func main() {
	flag.Parse()
	symlog.SetVerbosity(*verbosity)

	rnd := rand.New(rand.NewSource(*seedFlag))
	inst := &state.KInstruction{Inst: &state.Instruction{}, Info: state.InstructionInfo{ID: 1}}

	root := state.NewRefState(inst)
	rootNode := state.NewRoot(root)
	root.SetPTreeNode(rootNode)

	sim := &simulation{rnd: rnd, hits: make(map[state.ID]int), instrHits: make(map[uint64]uint64)}

	s, err := buildSearcher(*searcherFlag, *weightFlag, rnd, sim)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	search.AddState(s, root)

	live := []state.State{root}
	for i := 0; i < *stepsFlag && !s.Empty(); i++ {
		cur := s.Select()
		sim.hits[cur.ID()]++
		sim.instrHits[cur.PC().Info.ID]++

		var added, removed []state.State
		switch {
		case rnd.Float64() < *termProb && len(live) > 1:
			removed = []state.State{cur}
			cur.PTreeNode().Terminate()
			live = removeState(live, cur.ID())
		case rnd.Float64() < *forkProb:
			ref := cur.(*state.RefState)
			leftData, rightData := ref.Fork()
			leftNode, rightNode := cur.PTreeNode().Fork(leftData, rightData)
			leftData.SetPTreeNode(leftNode)
			rightData.SetPTreeNode(rightNode)
			added = []state.State{leftData, rightData}
			removed = []state.State{cur}
			live = removeState(live, cur.ID())
			live = append(live, leftData, rightData)
		}
		s.Update(cur, added, removed)
	}

	printReport(sim.hits, live)
}

// simulation supplies InstructionStats and DistanceOracle to weighted
// modes with a trivial, deterministic model so -searcher=weighted runs
// without a real coverage engine attached.
type simulation struct {
	rnd       *rand.Rand
	hits      map[state.ID]int
	instrHits map[uint64]uint64
}

func (s *simulation) IndexedValue(id uint64) uint64 {
	return s.instrHits[id]
}

func (s *simulation) DistanceToUncovered(from uint64, returnDistance uint64) uint64 {
	return 1 + uint64(s.rnd.Intn(50))
}

func (s *simulation) DistanceToCall(from uint64, returnDistance uint64) uint64 {
	return 1 + uint64(s.rnd.Intn(50))
}

func buildSearcher(name, weightMode string, rnd *rand.Rand, sim *simulation) (search.Searcher, error) {
	switch name {
	case "dfs":
		return search.NewDFSSearcher(), nil
	case "bfs":
		return search.NewBFSSearcher(), nil
	case "random":
		return search.NewRandomSearcher(rnd), nil
	case "randompath":
		return nil, fmt.Errorf("searchdemo: -searcher=randompath needs the process tree root; run via package tests instead")
	case "weighted":
		mode, err := parseWeightMode(weightMode)
		if err != nil {
			return nil, err
		}
		return search.NewWeightedRandomSearcher(mode, rnd, sim, sim), nil
	default:
		return nil, fmt.Errorf("searchdemo: unknown -searcher %q", name)
	}
}

func parseWeightMode(name string) (search.WeightMode, error) {
	switch name {
	case "depth":
		return search.WeightDepth, nil
	case "instcount":
		return search.WeightInstCount, nil
	default:
		return 0, fmt.Errorf("searchdemo: unknown -weight %q", name)
	}
}

func removeState(states []state.State, id state.ID) []state.State {
	for i, st := range states {
		if st.ID() == id {
			return append(states[:i], states[i+1:]...)
		}
	}
	return states
}

func printReport(hits map[state.ID]int, live []state.State) {
	type row struct {
		id   state.ID
		hits int
	}
	rows := make([]row, 0, len(hits))
	for id, n := range hits {
		rows = append(rows, row{id, n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].hits > rows[j].hits })

	fmt.Printf("selected %d distinct states, %d still live\n", len(rows), len(live))
	for i, r := range rows {
		if i >= 10 {
			fmt.Printf("... and %d more\n", len(rows)-i)
			break
		}
		fmt.Printf("%s: %d selections\n", r.id, r.hits)
	}
}
