// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package rangeproducer provides the worker that keeps the search queue
// stocked with batches cut from the frontier.
package rangeproducer

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"gopkg.in/tomb.v2"

	"github.com/juju/persistence/core/logger"
	"github.com/juju/persistence/internal/search/metrics"
	"github.com/juju/persistence/internal/search/workqueue"
)

// Source names the producer in status lines.
const Source = "producer"

// Queue is the part of the work queue used by the producer.
type Queue interface {
	Advance(size uint64) (workqueue.Batch, error)
	Enqueue(workqueue.Batch)
	Count() int
	Frontier() uint64
}

// StatusLog receives operator facing status lines.
type StatusLog interface {
	Addf(source, format string, args ...any)
}

// Config encapsulates the configuration options for the producer.
type Config struct {
	Queue     Queue
	StatusLog StatusLog
	Metrics   *metrics.Collector
	Clock     clock.Clock
	Logger    logger.Logger

	// BatchSize is the number of candidates in each batch.
	BatchSize uint64

	// LowWaterMark is the queue depth the producer tops up to.
	LowWaterMark int

	// Sleep is how long the producer waits between top ups.
	Sleep time.Duration
}

// Validate ensures that the config values are valid.
func (c Config) Validate() error {
	if c.Queue == nil {
		return errors.NotValidf("nil Queue")
	}
	if c.StatusLog == nil {
		return errors.NotValidf("nil StatusLog")
	}
	if c.Metrics == nil {
		return errors.NotValidf("nil Metrics")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if c.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	if c.BatchSize == 0 {
		return errors.NotValidf("zero BatchSize")
	}
	if c.LowWaterMark <= 0 {
		return errors.NotValidf("LowWaterMark %d", c.LowWaterMark)
	}
	if c.Sleep <= 0 {
		return errors.NotValidf("Sleep %v", c.Sleep)
	}
	return nil
}

// Producer is a worker that tops up the work queue whenever it runs low.
type Producer struct {
	tomb tomb.Tomb
	cfg  Config
}

// NewWorker creates a new Producer.
func NewWorker(cfg Config) (*Producer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	w := &Producer{
		cfg: cfg,
	}
	w.tomb.Go(w.loop)
	return w, nil
}

// Kill is part of the worker.Worker interface.
func (w *Producer) Kill() {
	w.tomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (w *Producer) Wait() error {
	return w.tomb.Wait()
}

func (w *Producer) loop() error {
	for {
		added, err := w.topUp()
		if err != nil {
			w.cfg.StatusLog.Addf(Source, "Input task stopped: %v", err)
			return errors.Trace(err)
		}
		if added > 0 {
			w.cfg.StatusLog.Addf(Source, "Input thread added %d new batches.", added)
		}

		select {
		case <-w.tomb.Dying():
			w.cfg.StatusLog.Addf(Source, "Input task finished.")
			return tomb.ErrDying
		case <-w.cfg.Clock.After(w.cfg.Sleep):
		}
	}
}

// topUp enqueues batches until the queue holds LowWaterMark of them.
func (w *Producer) topUp() (int, error) {
	var added int
	for w.cfg.Queue.Count() < w.cfg.LowWaterMark {
		batch, err := w.cfg.Queue.Advance(w.cfg.BatchSize)
		if err != nil {
			return added, errors.Trace(err)
		}
		w.cfg.Queue.Enqueue(batch)
		w.cfg.Metrics.BatchesProduced.Inc()
		added++

		if w.cfg.Logger.IsTraceEnabled() {
			w.cfg.Logger.Tracef("enqueued batch %v", batch)
		}
	}
	w.cfg.Metrics.QueueDepth.Set(float64(w.cfg.Queue.Count()))
	w.cfg.Metrics.Frontier.Set(float64(w.cfg.Queue.Frontier()))
	return added, nil
}
