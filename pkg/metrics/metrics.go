// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package metrics exports live scheduling state as Prometheus gauges, the
// same GaugeVec-per-dimension shape hupe1980/vecgo's own observability
// example wires up for its memtable and queue-depth metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector holds every gauge the search subsystem reports. Callers
// register it against their own *prometheus.Registry rather than the
// global default, so a process embedding multiple engines doesn't collide
// on metric names.
type Collector struct {
	LiveStates      *prometheus.GaugeVec
	PDFTotalWeight  prometheus.Gauge
	BatchBudget     prometheus.Gauge
	DeepeningBudget prometheus.Gauge
	MergesTotal     *prometheus.CounterVec
}

// NewCollector builds an unregistered Collector.
func NewCollector() *Collector {
	return &Collector{
		LiveStates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "symsearch_live_states",
			Help: "Number of states currently tracked, by partition kind.",
		}, []string{"kind"}),
		PDFTotalWeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "symsearch_pdf_total_weight",
			Help: "Sum of all weights currently held by the active weighted-random searcher.",
		}),
		BatchBudget: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "symsearch_batch_budget_seconds",
			Help: "Current self-tuned batching time budget.",
		}),
		DeepeningBudget: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "symsearch_iterative_deepening_budget_seconds",
			Help: "Current iterative-deepening round budget.",
		}),
		MergesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "symsearch_merges_total",
			Help: "Count of successful and failed merge attempts at merge points.",
		}, []string{"result"}),
	}
}

// MustRegister registers every gauge and counter against reg.
func (c *Collector) MustRegister(reg *prometheus.Registry) {
	reg.MustRegister(c.LiveStates, c.PDFTotalWeight, c.BatchBudget, c.DeepeningBudget, c.MergesTotal)
}

// ObserveMerge records the outcome of one merge attempt.
func (c *Collector) ObserveMerge(succeeded bool) {
	if succeeded {
		c.MergesTotal.WithLabelValues("merged").Inc()
	} else {
		c.MergesTotal.WithLabelValues("resumed").Inc()
	}
}
