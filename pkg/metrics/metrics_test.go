// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestCollectorMustRegisterSucceedsOnFreshRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector()
	assert.NotPanics(t, func() { c.MustRegister(reg) })
}

func TestObserveMergeIncrementsLabeledCounter(t *testing.T) {
	c := NewCollector()
	c.ObserveMerge(true)
	c.ObserveMerge(false)
	c.ObserveMerge(true)

	var merged, resumed dto.Metric
	require.NoError(t, c.MergesTotal.WithLabelValues("merged").Write(&merged))
	require.NoError(t, c.MergesTotal.WithLabelValues("resumed").Write(&resumed))
	assert.Equal(t, float64(2), merged.GetCounter().GetValue())
	assert.Equal(t, float64(1), resumed.GetCounter().GetValue())
}

type fakeWeighted struct{ total float64 }

func (f fakeWeighted) TotalWeight() float64 { return f.total }

type fakeBudget struct{ d time.Duration }

func (f fakeBudget) Budget() time.Duration { return f.d }

func TestPollWeightedRandomSetsGauge(t *testing.T) {
	c := NewCollector()
	c.PollWeightedRandom(fakeWeighted{total: 12.5})
	assert.Equal(t, 12.5, gaugeValue(t, c.PDFTotalWeight))
}

func TestPollBudgetsSetGaugesInSeconds(t *testing.T) {
	c := NewCollector()
	c.PollBatchBudget(fakeBudget{d: 5 * time.Second})
	c.PollDeepeningBudget(fakeBudget{d: 2 * time.Minute})
	assert.Equal(t, 5.0, gaugeValue(t, c.BatchBudget))
	assert.Equal(t, 120.0, gaugeValue(t, c.DeepeningBudget))
}

func TestSetLiveStatesPerKind(t *testing.T) {
	c := NewCollector()
	c.SetLiveStates("ordinary", 7)
	c.SetLiveStates("recovery", 3)

	var ordinary, recovery dto.Metric
	require.NoError(t, c.LiveStates.WithLabelValues("ordinary").Write(&ordinary))
	require.NoError(t, c.LiveStates.WithLabelValues("recovery").Write(&recovery))
	assert.Equal(t, 7.0, ordinary.GetGauge().GetValue())
	assert.Equal(t, 3.0, recovery.GetGauge().GetValue())
}
