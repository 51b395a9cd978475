// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package metrics exposes prometheus metrics about a running search.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "persistence_search"

// Collector is a prometheus.Collector that collects metrics about the
// search workers.
type Collector struct {
	BatchesProduced     prometheus.Counter
	BatchesSkipped      prometheus.Counter
	BatchesEvaluated    prometheus.Counter
	CandidatesEvaluated prometheus.Counter
	RecordsFound        *prometheus.CounterVec
	QueueDepth          prometheus.Gauge
	Frontier            prometheus.Gauge
	BestPersistence     prometheus.Gauge
}

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{
		BatchesProduced: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "batches_produced_total",
				Help:      "The number of batches cut from the frontier.",
			},
		),
		BatchesSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "batches_skipped_total",
				Help:      "The number of batches pruned by the range skip heuristic.",
			},
		),
		BatchesEvaluated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "batches_evaluated_total",
				Help:      "The number of batches whose candidates were all evaluated.",
			},
		),
		CandidatesEvaluated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "candidates_evaluated_total",
				Help:      "The number of candidates whose persistence was computed.",
			},
		),
		RecordsFound: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "records_found_total",
				Help:      "The number of record candidates reported, by worker.",
			}, []string{"worker"},
		),
		QueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "queue_depth",
				Help:      "The number of batches waiting to be searched.",
			},
		),
		Frontier: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "frontier",
				Help:      "The first candidate not yet handed out.",
			},
		),
		BestPersistence: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "best_persistence",
				Help:      "The highest persistence found so far.",
			},
		),
	}
}

// ObserveRecord updates the record metrics for a candidate found by worker.
func (c *Collector) ObserveRecord(worker string, persistence int) {
	c.RecordsFound.WithLabelValues(worker).Inc()
	// Racy against other workers; the compactor resets it from the tracker.
	if float64(persistence) > currentValue(c.BestPersistence) {
		c.BestPersistence.Set(float64(persistence))
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.BatchesProduced.Describe(ch)
	c.BatchesSkipped.Describe(ch)
	c.BatchesEvaluated.Describe(ch)
	c.CandidatesEvaluated.Describe(ch)
	c.RecordsFound.Describe(ch)
	c.QueueDepth.Describe(ch)
	c.Frontier.Describe(ch)
	c.BestPersistence.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.BatchesProduced.Collect(ch)
	c.BatchesSkipped.Collect(ch)
	c.BatchesEvaluated.Collect(ch)
	c.CandidatesEvaluated.Collect(ch)
	c.RecordsFound.Collect(ch)
	c.QueueDepth.Collect(ch)
	c.Frontier.Collect(ch)
	c.BestPersistence.Collect(ch)
}
