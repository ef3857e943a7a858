// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"fmt"
	"math/rand"

	"github.com/a-nogikh/symsearch/pkg/state"
)

// WeightedRandomSearcher draws from a discretePDF keyed by one of the seven
// weight modes in weight.go. Select draws a uniform float from the shared
// RNG and walks the sum-tree; Update reweighs current (unless the mode is
// Depth, whose weight never changes after insertion) before applying
// added/removed.
type WeightedRandomSearcher struct {
	mode   WeightMode
	rnd    *rand.Rand
	stats  InstructionStats
	oracle DistanceOracle
	pdf    *discretePDF
}

// NewWeightedRandomSearcher returns an empty searcher for the given mode.
// stats and oracle may be nil only for WeightDepth, which needs neither;
// every other mode panics at construction if either is nil, per spec.md
// §7's "configuration errors fail fast at construction".
func NewWeightedRandomSearcher(mode WeightMode, rnd *rand.Rand, stats InstructionStats, oracle DistanceOracle) *WeightedRandomSearcher {
	if mode != WeightDepth && (stats == nil || oracle == nil) {
		panic(fmt.Sprintf("search: WeightedRandomSearcher(%v) requires non-nil stats and oracle", mode))
	}
	return &WeightedRandomSearcher{
		mode:   mode,
		rnd:    rnd,
		stats:  stats,
		oracle: oracle,
		pdf:    newDiscretePDF(),
	}
}

func (s *WeightedRandomSearcher) Select() state.State {
	if s.pdf.empty() {
		invariantViolation("WeightedRandomSearcher.Select on empty searcher")
	}
	return s.pdf.choose(s.rnd.Float64())
}

func (s *WeightedRandomSearcher) Update(current state.State, added, removed []state.State) {
	if current != nil && s.mode.updatesWeights() && !contains(idsOf(removed), current.ID()) {
		if _, tracked := s.pdf.index[current.ID()]; tracked {
			s.pdf.update(current, s.weigh(current))
		}
	}

	for _, es := range added {
		s.pdf.insert(es, s.weigh(es))
	}

	for _, es := range removed {
		s.pdf.remove(es)
	}
}

func (s *WeightedRandomSearcher) Empty() bool {
	return s.pdf.empty()
}

// TotalWeight returns the sum of every tracked state's current weight, for
// pkg/metrics to poll into a gauge.
func (s *WeightedRandomSearcher) TotalWeight() float64 {
	return s.pdf.totalWeight()
}

// PDFSnapshot returns every tracked state's current weight, for
// pkg/httpapi's debug endpoint.
func (s *WeightedRandomSearcher) PDFSnapshot() []PDFEntry {
	return s.pdf.snapshot()
}

func (s *WeightedRandomSearcher) weigh(es state.State) float64 {
	w := weigh(s.mode, es, s.stats, s.oracle)
	if w <= 0 {
		// Every branch of weigh is defined to be strictly positive; a
		// non-positive result means a caller fed us a malformed state
		// rather than a reachable formula output.
		invariantViolation("WeightedRandomSearcher: computed non-positive weight")
	}
	return w
}
