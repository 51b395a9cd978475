// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package simplesignalhandler_test

import (
	"os"
	"syscall"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"github.com/juju/worker/v4/workertest"
	gc "gopkg.in/check.v1"

	loggertesting "github.com/juju/persistence/core/logger/testing"
	"github.com/juju/persistence/internal/worker/simplesignalhandler"
)

type signalSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&signalSuite{})

func (s *signalSuite) TestValidation(c *gc.C) {
	handler := simplesignalhandler.SignalHandler(simplesignalhandler.ErrSignalled, nil)
	sigCh := make(chan os.Signal)

	_, err := simplesignalhandler.NewSignalWatcher(nil, sigCh, handler)
	c.Check(err, jc.Satisfies, errors.IsNotValid)
	_, err = simplesignalhandler.NewSignalWatcher(loggertesting.WrapCheckLog(c), nil, handler)
	c.Check(err, jc.Satisfies, errors.IsNotValid)
	_, err = simplesignalhandler.NewSignalWatcher(loggertesting.WrapCheckLog(c), sigCh, nil)
	c.Check(err, jc.Satisfies, errors.IsNotValid)
}

func (s *signalSuite) TestDefaultError(c *gc.C) {
	sigCh := make(chan os.Signal, 1)
	w, err := simplesignalhandler.NewSignalWatcher(
		loggertesting.WrapCheckLog(c),
		sigCh,
		simplesignalhandler.SignalHandler(simplesignalhandler.ErrSignalled, nil),
	)
	c.Assert(err, jc.ErrorIsNil)

	sigCh <- syscall.SIGTERM
	err = workertest.CheckKilled(c, w)
	c.Assert(errors.Is(err, simplesignalhandler.ErrSignalled), jc.IsTrue)
}

func (s *signalSuite) TestMappedError(c *gc.C) {
	interrupted := errors.ConstError("interrupted")
	sigCh := make(chan os.Signal, 1)
	w, err := simplesignalhandler.NewSignalWatcher(
		loggertesting.WrapCheckLog(c),
		sigCh,
		simplesignalhandler.SignalHandler(simplesignalhandler.ErrSignalled, map[os.Signal]error{
			os.Interrupt: interrupted,
		}),
	)
	c.Assert(err, jc.ErrorIsNil)

	sigCh <- os.Interrupt
	err = workertest.CheckKilled(c, w)
	c.Assert(errors.Is(err, interrupted), jc.IsTrue)
}

func (s *signalSuite) TestIgnoredSignal(c *gc.C) {
	sigCh := make(chan os.Signal, 1)
	w, err := simplesignalhandler.NewSignalWatcher(
		loggertesting.WrapCheckLog(c),
		sigCh,
		simplesignalhandler.SignalHandler(nil, map[os.Signal]error{
			syscall.SIGTERM: simplesignalhandler.ErrSignalled,
		}),
	)
	c.Assert(err, jc.ErrorIsNil)

	sigCh <- syscall.SIGHUP
	workertest.CheckAlive(c, w)

	sigCh <- syscall.SIGTERM
	err = workertest.CheckKilled(c, w)
	c.Assert(errors.Is(err, simplesignalhandler.ErrSignalled), jc.IsTrue)
}

func (s *signalSuite) TestClosedChannel(c *gc.C) {
	sigCh := make(chan os.Signal)
	w, err := simplesignalhandler.NewSignalWatcher(
		loggertesting.WrapCheckLog(c),
		sigCh,
		simplesignalhandler.SignalHandler(simplesignalhandler.ErrSignalled, nil),
	)
	c.Assert(err, jc.ErrorIsNil)

	close(sigCh)
	err = workertest.CheckKilled(c, w)
	c.Assert(err, gc.ErrorMatches, "signal channel closed unexpectedly")
}

func (s *signalSuite) TestKill(c *gc.C) {
	w, err := simplesignalhandler.NewSignalWatcher(
		loggertesting.WrapCheckLog(c),
		make(chan os.Signal),
		simplesignalhandler.SignalHandler(simplesignalhandler.ErrSignalled, nil),
	)
	c.Assert(err, jc.ErrorIsNil)
	workertest.CleanKill(c, w)
}
