// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package statustruncator provides the worker that keeps the status log
// from growing without bound.
package statustruncator

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"gopkg.in/tomb.v2"

	"github.com/juju/persistence/core/logger"
)

// StatusLog is the log being truncated.
type StatusLog interface {
	Truncate(max int) int
}

// Config encapsulates the configuration options for the truncator.
type Config struct {
	StatusLog StatusLog
	Clock     clock.Clock
	Logger    logger.Logger

	// Interval is the time between truncations.
	Interval time.Duration

	// MaxBuffer is the number of characters the log is cut down to.
	MaxBuffer int
}

// Validate ensures that the config values are valid.
func (c Config) Validate() error {
	if c.StatusLog == nil {
		return errors.NotValidf("nil StatusLog")
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
	if c.MaxBuffer <= 0 {
		return errors.NotValidf("MaxBuffer %d", c.MaxBuffer)
	}
	return nil
}

// Truncator is a worker that truncates the status log on an interval.
type Truncator struct {
	tomb tomb.Tomb
	cfg  Config
}

// NewWorker creates a new Truncator.
func NewWorker(cfg Config) (*Truncator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	w := &Truncator{
		cfg: cfg,
	}
	w.tomb.Go(w.loop)
	return w, nil
}

// Kill is part of the worker.Worker interface.
func (w *Truncator) Kill() {
	w.tomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (w *Truncator) Wait() error {
	return w.tomb.Wait()
}

func (w *Truncator) loop() error {
	for {
		if dropped := w.cfg.StatusLog.Truncate(w.cfg.MaxBuffer); dropped > 0 {
			w.cfg.Logger.Debugf("truncated %d characters from the status log", dropped)
		}

		select {
		case <-w.tomb.Dying():
			return tomb.ErrDying
		case <-w.cfg.Clock.After(w.cfg.Interval):
		}
	}
}
