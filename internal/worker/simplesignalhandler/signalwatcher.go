// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package simplesignalhandler turns process signals into worker errors so
// that a signal can bring down a tree of workers.
package simplesignalhandler

import (
	"os"

	"github.com/juju/errors"
	"github.com/juju/worker/v4/catacomb"

	"github.com/juju/persistence/core/logger"
)

// ErrSignalled is the default error a SignalWatcher dies with.
const ErrSignalled = errors.ConstError("stopped by signal")

// SignalHandlerFunc maps a received signal to the error the watcher should
// die with. A nil error ignores the signal.
type SignalHandlerFunc func(os.Signal) error

// SignalWatcher is the worker responsible for watching signals and returning
// the appropriate error from a handler.
type SignalWatcher struct {
	catacomb catacomb.Catacomb
	handler  SignalHandlerFunc
	logger   logger.Logger
	sigCh    <-chan os.Signal
}

// NewSignalWatcher constructs a new signal watcher worker with the specified
// signal channel and handler func.
func NewSignalWatcher(
	logger logger.Logger,
	sig <-chan os.Signal,
	handler SignalHandlerFunc,
) (*SignalWatcher, error) {
	if logger == nil {
		return nil, errors.NotValidf("nil Logger")
	}
	if sig == nil {
		return nil, errors.NotValidf("nil signal channel")
	}
	if handler == nil {
		return nil, errors.NotValidf("nil SignalHandlerFunc")
	}

	s := &SignalWatcher{
		handler: handler,
		logger:  logger,
		sigCh:   sig,
	}
	if err := catacomb.Invoke(catacomb.Plan{
		Site: &s.catacomb,
		Work: s.watch,
	}); err != nil {
		return nil, errors.Annotate(err, "creating catacomb plan")
	}
	return s, nil
}

// SignalHandler is a default implementation that uses signal mapping and a
// default error.
func SignalHandler(defaultErr error, signalMap map[os.Signal]error) SignalHandlerFunc {
	return func(sig os.Signal) error {
		if err, exists := signalMap[sig]; exists {
			return err
		}
		return defaultErr
	}
}

// Kill implements worker.Kill
func (s *SignalWatcher) Kill() {
	s.catacomb.Kill(nil)
}

// Wait implements worker.Wait
func (s *SignalWatcher) Wait() error {
	return s.catacomb.Wait()
}

// watch waits for signals on the provided channel and returns the first
// non nil error produced by the handler.
func (s *SignalWatcher) watch() error {
	for {
		select {
		case sig, ok := <-s.sigCh:
			if !ok {
				return errors.New("signal channel closed unexpectedly")
			}
			err := s.handler(sig)
			if err == nil {
				s.logger.Debugf("ignoring signal %v", sig)
				continue
			}
			s.logger.Infof("received signal %v, stopping", sig)
			return err
		case <-s.catacomb.Dying():
			return s.catacomb.ErrDying()
		}
	}
}
