// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package metrics

import (
	"context"
	"time"
)

// WeightedRandomObservable is satisfied by pkg/search.WeightedRandomSearcher.
type WeightedRandomObservable interface {
	TotalWeight() float64
}

// BudgetObservable is satisfied by pkg/search.BatchingSearcher and
// pkg/search.IterativeDeepeningTimeSearcher.
type BudgetObservable interface {
	Budget() time.Duration
}

// PollWeightedRandom sets PDFTotalWeight from s.
func (c *Collector) PollWeightedRandom(s WeightedRandomObservable) {
	c.PDFTotalWeight.Set(s.TotalWeight())
}

// PollBatchBudget sets BatchBudget from s.
func (c *Collector) PollBatchBudget(s BudgetObservable) {
	c.BatchBudget.Set(s.Budget().Seconds())
}

// PollDeepeningBudget sets DeepeningBudget from s.
func (c *Collector) PollDeepeningBudget(s BudgetObservable) {
	c.DeepeningBudget.Set(s.Budget().Seconds())
}

// SetLiveStates sets the live-state gauge for one partition kind.
func (c *Collector) SetLiveStates(kind string, n int) {
	c.LiveStates.WithLabelValues(kind).Set(float64(n))
}

// Run polls poll every interval until ctx is cancelled, the same
// ticker-driven background-loop shape the teacher's periodic retry-policy
// refresh goroutine uses.
func Run(ctx context.Context, interval time.Duration, poll func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}
