// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package batchworker provides the worker that takes batches off the work
// queue and searches them for persistence records.
package batchworker

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"gopkg.in/tomb.v2"

	"github.com/juju/persistence/core/logger"
	"github.com/juju/persistence/core/persistence"
	"github.com/juju/persistence/internal/search/metrics"
	"github.com/juju/persistence/internal/search/records"
	"github.com/juju/persistence/internal/search/workqueue"
)

// cancelCheckInterval is how many candidates are evaluated between checks
// for the worker being killed.
const cancelCheckInterval = 1 << 16

// Queue is the part of the work queue used by a batch worker.
type Queue interface {
	Dequeue() (workqueue.Batch, bool)
	Count() int
}

// RecordTracker receives the record candidates found.
type RecordTracker interface {
	Add(records.Candidate)
}

// StatusLog receives operator facing status lines.
type StatusLog interface {
	Addf(source, format string, args ...any)
}

// Config encapsulates the configuration options for a batch worker.
type Config struct {
	// Name identifies the worker in status lines.
	Name string

	Queue     Queue
	Records   RecordTracker
	StatusLog StatusLog
	Evaluator persistence.Evaluator
	Metrics   *metrics.Collector
	Clock     clock.Clock
	Logger    logger.Logger

	// Started is when the search began. Status lines report the time
	// elapsed since.
	Started time.Time

	// VolatileDigits is the number of low order digits that vary within
	// a batch; see persistence.SkipRange.
	VolatileDigits int

	// NoiseFloor is the persistence a candidate must exceed to be
	// reported.
	NoiseFloor int

	// IdleSleep is how long to wait before looking at an empty queue
	// again.
	IdleSleep time.Duration
}

// Validate ensures that the config values are valid.
func (c Config) Validate() error {
	if c.Name == "" {
		return errors.NotValidf("empty Name")
	}
	if c.Queue == nil {
		return errors.NotValidf("nil Queue")
	}
	if c.Records == nil {
		return errors.NotValidf("nil Records")
	}
	if c.StatusLog == nil {
		return errors.NotValidf("nil StatusLog")
	}
	if c.Evaluator == nil {
		return errors.NotValidf("nil Evaluator")
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
	if c.VolatileDigits < 0 {
		return errors.NotValidf("VolatileDigits %d", c.VolatileDigits)
	}
	if c.NoiseFloor < 0 {
		return errors.NotValidf("NoiseFloor %d", c.NoiseFloor)
	}
	if c.IdleSleep <= 0 {
		return errors.NotValidf("IdleSleep %v", c.IdleSleep)
	}
	return nil
}

// Worker drains the work queue, evaluating every candidate of every batch
// it takes.
type Worker struct {
	tomb tomb.Tomb
	cfg  Config
}

// NewWorker creates a new batch Worker.
func NewWorker(cfg Config) (*Worker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	w := &Worker{
		cfg: cfg,
	}
	w.tomb.Go(w.loop)
	return w, nil
}

// Kill is part of the worker.Worker interface.
func (w *Worker) Kill() {
	w.tomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (w *Worker) Wait() error {
	return w.tomb.Wait()
}

func (w *Worker) loop() error {
	for {
		for w.cfg.Queue.Count() > 0 {
			if w.isDying() {
				return tomb.ErrDying
			}
			batch, ok := w.cfg.Queue.Dequeue()
			if !ok {
				// Another worker took the last batch.
				break
			}
			if err := w.process(batch); err != nil {
				return err
			}
		}

		select {
		case <-w.tomb.Dying():
			return tomb.ErrDying
		case <-w.cfg.Clock.After(w.cfg.IdleSleep):
		}
	}
}

// process searches a single batch. It returns tomb.ErrDying if the worker
// was killed part way through.
func (w *Worker) process(batch workqueue.Batch) error {
	w.cfg.Metrics.QueueDepth.Dec()
	w.statusf("Starting batch at %d. Batch length %s.", batch.First, batch.HumanLength())

	if persistence.SkipRange(batch.First, batch.Last(), w.cfg.VolatileDigits) {
		w.cfg.Metrics.BatchesSkipped.Inc()
		w.statusf("Skipped whole %v (optimized). Elapsed time: %v", batch, w.elapsed())
		return nil
	}

	var (
		best      = w.cfg.NoiseFloor
		bestValue uint64
		evaluated uint64
		dying     bool
	)
	batch.Each(func(n uint64) bool {
		if evaluated > 0 && evaluated%cancelCheckInterval == 0 && w.isDying() {
			dying = true
			return false
		}
		evaluated++

		p := w.cfg.Evaluator.Persistence(n)
		if p <= best {
			return true
		}
		best, bestValue = p, n
		w.statusf("Multiplication number persistence of (%d) = %d. Elapsed time: %v", n, p, w.elapsed())
		w.cfg.Records.Add(records.Candidate{
			Timestamp:   w.cfg.Clock.Now(),
			Number:      n,
			Persistence: p,
			RangeFirst:  batch.First,
			RangeLast:   batch.Last(),
		})
		w.cfg.Metrics.ObserveRecord(w.cfg.Name, p)
		return true
	})
	w.cfg.Metrics.CandidatesEvaluated.Add(float64(evaluated))
	if dying {
		w.cfg.Logger.Debugf("%s abandoned batch %v after %d candidates", w.cfg.Name, batch, evaluated)
		return tomb.ErrDying
	}

	w.cfg.Metrics.BatchesEvaluated.Inc()
	w.statusf("Thread finished. Max persistence of (%d) for (%d). Max checked: [%d]. Elapsed time: %v",
		best, bestValue, batch.Last(), w.elapsed())
	return nil
}

func (w *Worker) isDying() bool {
	select {
	case <-w.tomb.Dying():
		return true
	default:
		return false
	}
}

func (w *Worker) elapsed() time.Duration {
	return w.cfg.Clock.Now().Sub(w.cfg.Started).Round(time.Second)
}

func (w *Worker) statusf(format string, args ...any) {
	w.cfg.StatusLog.Addf(w.cfg.Name, format, args...)
}
