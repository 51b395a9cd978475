// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package searchengine wires the persistence search workers together.
//
// The engine owns the shared state of a search: the work queue and its
// frontier, the record tracker and the status log. It runs a single
// producer, a pool of batch workers, a record compactor and a status log
// truncator. If any of them fails the whole engine stops with that error.
// The engine otherwise runs until it is killed.
package searchengine

import (
	"fmt"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/worker/v4"
	"github.com/juju/worker/v4/catacomb"

	"github.com/juju/persistence/core/logger"
	"github.com/juju/persistence/core/persistence"
	"github.com/juju/persistence/internal/search/config"
	"github.com/juju/persistence/internal/search/metrics"
	"github.com/juju/persistence/internal/search/records"
	"github.com/juju/persistence/internal/search/statuslog"
	"github.com/juju/persistence/internal/search/workqueue"
	"github.com/juju/persistence/internal/worker/batchworker"
	"github.com/juju/persistence/internal/worker/rangeproducer"
	"github.com/juju/persistence/internal/worker/recordcompactor"
	"github.com/juju/persistence/internal/worker/statustruncator"
)

// Config holds the dependencies of an Engine.
type Config struct {
	Search  config.Config
	Metrics *metrics.Collector
	Clock   clock.Clock

	// GetLogger returns the logger for the named component.
	GetLogger func(name string) logger.Logger

	// Renderer, if set, is handed the status log text every time it
	// changes.
	Renderer statuslog.Renderer
}

// Validate ensures that the config values are valid.
func (c Config) Validate() error {
	if err := c.Search.Validate(); err != nil {
		return errors.Trace(err)
	}
	if c.Metrics == nil {
		return errors.NotValidf("nil Metrics")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if c.GetLogger == nil {
		return errors.NotValidf("nil GetLogger")
	}
	return nil
}

// Engine is a worker running a persistence search.
type Engine struct {
	catacomb catacomb.Catacomb

	cfg     Config
	started time.Time
	queue   *workqueue.Queue
	tracker *records.Tracker
	status  *statuslog.Log
}

// NewEngine starts a search as described by cfg.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	e := &Engine{
		cfg:     cfg,
		started: cfg.Clock.Now(),
		queue:   workqueue.NewQueue(cfg.Search.StartingValue),
		tracker: records.NewTracker(),
		status:  statuslog.NewLog(cfg.Renderer, cfg.GetLogger("statuslog")),
	}
	cfg.Metrics.Frontier.Set(float64(cfg.Search.StartingValue))

	workers, err := e.startWorkers()
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := catacomb.Invoke(catacomb.Plan{
		Site: &e.catacomb,
		Work: e.loop,
		Init: workers,
	}); err != nil {
		return nil, errors.Trace(err)
	}
	return e, nil
}

func (e *Engine) startWorkers() (_ []worker.Worker, err error) {
	var workers []worker.Worker
	defer func() {
		if err == nil {
			return
		}
		for _, w := range workers {
			_ = worker.Stop(w)
		}
	}()

	search := e.cfg.Search
	evaluator, err := persistence.EvaluatorByName(search.Evaluator)
	if err != nil {
		return nil, errors.Trace(err)
	}

	producer, err := rangeproducer.NewWorker(rangeproducer.Config{
		Queue:        e.queue,
		StatusLog:    e.status,
		Metrics:      e.cfg.Metrics,
		Clock:        e.cfg.Clock,
		Logger:       e.cfg.GetLogger(rangeproducer.Source),
		BatchSize:    search.BatchSize,
		LowWaterMark: search.LowWaterMark,
		Sleep:        search.ProducerSleep,
	})
	if err != nil {
		return nil, errors.Annotate(err, "starting producer")
	}
	workers = append(workers, producer)

	for i := 1; i <= search.WorkerCount; i++ {
		name := fmt.Sprintf("worker-%d", i)
		w, err := batchworker.NewWorker(batchworker.Config{
			Name:           name,
			Queue:          e.queue,
			Records:        e.tracker,
			StatusLog:      e.status,
			Evaluator:      evaluator,
			Metrics:        e.cfg.Metrics,
			Clock:          e.cfg.Clock,
			Logger:         e.cfg.GetLogger(name),
			Started:        e.started,
			VolatileDigits: search.VolatileDigits(),
			NoiseFloor:     search.NoiseFloor,
			IdleSleep:      search.WorkerIdleSleep,
		})
		if err != nil {
			return nil, errors.Annotatef(err, "starting %s", name)
		}
		workers = append(workers, w)
	}

	compactor, err := recordcompactor.NewWorker(recordcompactor.Config{
		Records:      e.tracker,
		StatusLog:    e.status,
		Metrics:      e.cfg.Metrics,
		Clock:        e.cfg.Clock,
		Logger:       e.cfg.GetLogger(recordcompactor.Source),
		Interval:     search.CompactionInterval,
		RetentionCap: search.RetentionCap,
	})
	if err != nil {
		return nil, errors.Annotate(err, "starting compactor")
	}
	workers = append(workers, compactor)

	truncator, err := statustruncator.NewWorker(statustruncator.Config{
		StatusLog: e.status,
		Clock:     e.cfg.Clock,
		Logger:    e.cfg.GetLogger("truncator"),
		Interval:  search.LogTruncateInterval,
		MaxBuffer: search.MaxStatusBuffer,
	})
	if err != nil {
		return nil, errors.Annotate(err, "starting truncator")
	}
	workers = append(workers, truncator)

	return workers, nil
}

func (e *Engine) loop() error {
	<-e.catacomb.Dying()
	return e.catacomb.ErrDying()
}

// Kill is part of the worker.Worker interface.
func (e *Engine) Kill() {
	e.catacomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (e *Engine) Wait() error {
	return e.catacomb.Wait()
}

// Records returns the record candidates currently held, best first.
func (e *Engine) Records() []records.Candidate {
	return e.tracker.Snapshot()
}

// Best returns the best record candidate found so far.
func (e *Engine) Best() (records.Candidate, bool) {
	return e.tracker.Best()
}

// Status returns the status log text, newest first.
func (e *Engine) Status() string {
	return e.status.Text()
}

// Frontier returns the first candidate not yet handed to a worker.
func (e *Engine) Frontier() uint64 {
	return e.queue.Frontier()
}

// QueueDepth returns the number of batches waiting to be searched.
func (e *Engine) QueueDepth() int {
	return e.queue.Count()
}

// Elapsed returns the time since the search began, to the second.
func (e *Engine) Elapsed() time.Duration {
	return e.cfg.Clock.Now().Sub(e.started).Round(time.Second)
}
