// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"fmt"

	"github.com/a-nogikh/symsearch/pkg/state"
)

// WeightMode selects one of WeightedRandomSearcher's seven weight
// functions.
type WeightMode int

const (
	WeightDepth WeightMode = iota
	WeightInstCount
	WeightCPInstCount
	WeightQueryCost
	WeightMinDistToUncovered
	WeightCoveringNew
	WeightPatchTesting
)

func (m WeightMode) String() string {
	switch m {
	case WeightDepth:
		return "Depth"
	case WeightInstCount:
		return "InstCount"
	case WeightCPInstCount:
		return "CPInstCount"
	case WeightQueryCost:
		return "QueryCost"
	case WeightMinDistToUncovered:
		return "MinDistToUncovered"
	case WeightCoveringNew:
		return "CoveringNew"
	case WeightPatchTesting:
		return "PatchTesting"
	default:
		return fmt.Sprintf("WeightMode(%d)", int(m))
	}
}

// updatesWeights reports whether this mode needs selectState's current
// state reweighted on every Update — every mode except Depth, which caches
// a weight computed once at insertion time.
func (m WeightMode) updatesWeights() bool {
	return m != WeightDepth
}

// DistanceOracle answers distance-to-uncovered/distance-to-call queries.
// Implementations are expected to be pure given the engine's current
// coverage state; pkg/coverage.Oracle is a reference instance.
type DistanceOracle interface {
	DistanceToUncovered(from uint64, returnDistance uint64) uint64
	DistanceToCall(from uint64, returnDistance uint64) uint64
}

// InstructionStats answers the global instruction-visit queries InstCount
// needs (CPInstCount reads the top frame's CallPathStatistics instead).
// pkg/coverage.Tracker is a reference instance.
type InstructionStats interface {
	IndexedValue(instructionID uint64) uint64
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// weigh computes the weight of s for the given mode, following the seven
// formulas in spec.md §4.3 verbatim (all clamped to stay strictly
// positive).
func weigh(mode WeightMode, s state.State, stats InstructionStats, oracle DistanceOracle) float64 {
	switch mode {
	case WeightDepth:
		return s.Weight()

	case WeightInstCount:
		count := stats.IndexedValue(s.PC().Info.ID)
		inv := 1.0 / float64(maxU64(1, count))
		return inv * inv

	case WeightCPInstCount:
		frame := state.TopFrame(s)
		count := frame.CallPathStatistics.InstructionCount()
		return 1.0 / float64(maxU64(1, count))

	case WeightQueryCost:
		if s.QueryCost() < 0.1 {
			return 1.0
		}
		return 1.0 / s.QueryCost()

	case WeightMinDistToUncovered:
		d := minDistToUncovered(s, oracle)
		inv := 1.0 / float64(d)
		return inv * inv

	case WeightCoveringNew:
		d := minDistToUncovered(s, oracle)
		invMD2U := 1.0 / float64(d)
		return invCovNew(s)*invCovNew(s) + invMD2U*invMD2U

	case WeightPatchTesting:
		d := minDistToCall(s, oracle)
		invMD2U := 1.0 / float64(d)
		return invCovNew(s)*invCovNew(s) + invMD2U*invMD2U

	default:
		panic(fmt.Sprintf("search: invalid weight mode %v", mode))
	}
}

func minDistToUncovered(s state.State, oracle DistanceOracle) uint64 {
	frame := state.TopFrame(s)
	d := oracle.DistanceToUncovered(s.PC().Info.ID, frame.MinDistToUncoveredOnReturn)
	if d == 0 {
		return 10000
	}
	return d
}

func minDistToCall(s state.State, oracle DistanceOracle) uint64 {
	frame := state.TopFrame(s)
	d := oracle.DistanceToCall(s.PC().Info.ID, frame.MinDistToUncoveredOnReturn)
	if d == 0 {
		return 10000
	}
	return d
}

func invCovNew(s state.State) float64 {
	if s.InstsSinceCovNew() == 0 {
		return 0
	}
	denom := maxInt(1, int(s.InstsSinceCovNew())-1000)
	return 1.0 / float64(denom)
}
