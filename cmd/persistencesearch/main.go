// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Command persistencesearch searches for numbers with a record breaking
// multiplicative persistence. It runs until interrupted.
package main

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"
	"github.com/juju/worker/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/juju/persistence/core/logger"
	"github.com/juju/persistence/internal/search/config"
	"github.com/juju/persistence/internal/search/metrics"
	"github.com/juju/persistence/internal/search/records"
	"github.com/juju/persistence/internal/worker/introspection"
	"github.com/juju/persistence/internal/worker/searchengine"
	"github.com/juju/persistence/internal/worker/simplesignalhandler"
)

var mainLogger = loggo.GetLogger("persistence.cmd")

func main() {
	os.Exit(Main(os.Args[1:], os.Stdout, os.Stderr))
}

// Main runs the command with args and returns the exit code.
func Main(args []string, stdout, stderr io.Writer) int {
	cfg, opts, err := parseArgs(args, runtime.NumCPU())
	if errors.Is(err, gnuflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return 2
	}
	if err := run(cfg, opts, stdout); err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return 1
	}
	return 0
}

func getLogger(name string) logger.Logger {
	return loggo.GetLogger("persistence." + name)
}

func run(cfg config.Config, opts options, stdout io.Writer) error {
	if opts.loggingConfig != "" {
		if err := loggo.ConfigureLoggers(opts.loggingConfig); err != nil {
			return errors.Annotate(err, "configuring logging")
		}
	}
	if err := cfg.Validate(); err != nil {
		return errors.Trace(err)
	}

	collector := metrics.NewCollector()
	registry := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		collector,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return errors.Annotate(err, "registering metrics")
		}
	}

	renderer := newLineRenderer(stdout)
	engine, err := searchengine.NewEngine(searchengine.Config{
		Search:    cfg,
		Metrics:   collector,
		Clock:     clock.WallClock,
		GetLogger: getLogger,
		Renderer:  renderer.Render,
	})
	if err != nil {
		return errors.Annotate(err, "starting search")
	}
	mainLogger.Infof("searching from %d with %d workers, %s candidates per batch",
		cfg.StartingValue, cfg.WorkerCount, humanize.BigComma(new(big.Int).SetUint64(cfg.BatchSize)))

	helpers := []worker.Worker{}
	defer func() {
		for _, w := range helpers {
			if err := worker.Stop(w); err != nil {
				mainLogger.Warningf("stopping helper: %v", err)
			}
		}
	}()

	if cfg.MetricsAddress != "" {
		w, err := introspection.NewWorker(introspection.Config{
			Address:  cfg.MetricsAddress,
			Reporter: engine,
			Gatherer: registry,
			Logger:   getLogger("introspection"),
		})
		if err != nil {
			_ = worker.Stop(engine)
			return errors.Annotate(err, "starting introspection")
		}
		helpers = append(helpers, w)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	signals, err := simplesignalhandler.NewSignalWatcher(
		getLogger("signals"),
		sigCh,
		simplesignalhandler.SignalHandler(simplesignalhandler.ErrSignalled, nil),
	)
	if err != nil {
		_ = worker.Stop(engine)
		return errors.Trace(err)
	}
	helpers = append(helpers, signals)
	go func() {
		if err := signals.Wait(); errors.Is(err, simplesignalhandler.ErrSignalled) {
			engine.Kill()
		}
	}()

	err = engine.Wait()
	report(stdout, cfg, engine)
	return errors.Trace(err)
}

// searchResult is the part of a finished search that gets reported.
type searchResult interface {
	Frontier() uint64
	Elapsed() time.Duration
	Best() (records.Candidate, bool)
	Records() []records.Candidate
}

// report prints the outcome of a search.
func report(out io.Writer, cfg config.Config, engine searchResult) {
	searched := engine.Frontier() - cfg.StartingValue
	fmt.Fprintf(out, "Cut %s candidates into batches, up to %d. Elapsed time: %v\n",
		humanize.BigComma(new(big.Int).SetUint64(searched)), engine.Frontier(), engine.Elapsed())

	best, ok := engine.Best()
	if !ok {
		fmt.Fprintln(out, "No record candidates found.")
		return
	}
	fmt.Fprintf(out, "Multiplication number persistence of (%d) = %d.\n", best.Number, best.Persistence)
	for _, candidate := range engine.Records() {
		fmt.Fprintf(out, "  %d persistence %d found %s in [%d ... %d]\n",
			candidate.Number, candidate.Persistence, humanize.Time(candidate.Timestamp),
			candidate.RangeFirst, candidate.RangeLast)
	}
}
