// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package recordcompactor provides the worker that periodically trims the
// record tracker down to the best candidates.
package recordcompactor

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"gopkg.in/tomb.v2"

	"github.com/juju/persistence/core/logger"
	"github.com/juju/persistence/internal/search/metrics"
	"github.com/juju/persistence/internal/search/records"
)

// Source names the compactor in status lines.
const Source = "compactor"

// RecordTracker is the collection being compacted.
type RecordTracker interface {
	Compact(retain int) records.CompactionResult
}

// StatusLog receives operator facing status lines.
type StatusLog interface {
	Addf(source, format string, args ...any)
}

// Config encapsulates the configuration options for the compactor.
type Config struct {
	Records   RecordTracker
	StatusLog StatusLog
	Metrics   *metrics.Collector
	Clock     clock.Clock
	Logger    logger.Logger

	// Interval is the time between compactions.
	Interval time.Duration

	// RetentionCap is the maximum number of candidates kept.
	RetentionCap int
}

// Validate ensures that the config values are valid.
func (c Config) Validate() error {
	if c.Records == nil {
		return errors.NotValidf("nil Records")
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
	if c.Interval <= 0 {
		return errors.NotValidf("Interval %v", c.Interval)
	}
	if c.RetentionCap <= 0 {
		return errors.NotValidf("RetentionCap %d", c.RetentionCap)
	}
	return nil
}

// Compactor defines a worker that keeps only the top tier of record
// candidates.
type Compactor struct {
	tomb tomb.Tomb
	cfg  Config
}

// NewWorker creates a new Compactor.
func NewWorker(cfg Config) (*Compactor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	w := &Compactor{
		cfg: cfg,
	}
	w.tomb.Go(w.loop)
	return w, nil
}

// Kill is part of the worker.Worker interface.
func (w *Compactor) Kill() {
	w.tomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (w *Compactor) Wait() error {
	return w.tomb.Wait()
}

func (w *Compactor) loop() error {
	timer := w.cfg.Clock.NewTimer(w.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-w.tomb.Dying():
			return tomb.ErrDying
		case <-timer.Chan():
			w.compact()
			timer.Reset(w.cfg.Interval)
		}
	}
}

func (w *Compactor) compact() {
	result := w.cfg.Records.Compact(w.cfg.RetentionCap)
	if result.After == 0 {
		w.cfg.StatusLog.Addf(Source, "Found %d items. No candidates to keep yet.", result.Before)
		return
	}

	w.cfg.Metrics.BestPersistence.Set(float64(result.Best.Persistence))
	w.cfg.StatusLog.Addf(Source,
		"Found %d items. Leaving [%d] in result queue. Best number: [%d], persistence [%d].",
		result.Before, result.After, result.Best.Number, result.Best.Persistence)
	w.cfg.Logger.Infof("compacted records from %d to %d, best %d with persistence %d",
		result.Before, result.After, result.Best.Number, result.Best.Persistence)
}
