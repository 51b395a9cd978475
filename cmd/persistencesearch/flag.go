// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/juju/persistence/core/persistence"
	"github.com/juju/persistence/internal/search/config"
)

// options holds the command line options that are not part of the search
// configuration.
type options struct {
	configFile    string
	loggingConfig string
}

// evaluatorValue implements gnuflag.Value on an evaluator name.
type evaluatorValue string

// Set checks that value names a known evaluator.
func (v *evaluatorValue) Set(value string) error {
	if _, err := persistence.EvaluatorByName(value); err != nil {
		return fmt.Errorf("%q is not a valid evaluator, expected %q or %q",
			value, persistence.FastEvaluatorName, persistence.ExactEvaluatorName)
	}
	*v = evaluatorValue(value)
	return nil
}

// String returns the original value passed to Set.
func (v *evaluatorValue) String() string {
	return string(*v)
}

// newFlagSet returns a flag set that writes into cfg and opts.
func newFlagSet(cfg *config.Config, opts *options) *gnuflag.FlagSet {
	fs := gnuflag.NewFlagSet("persistencesearch", gnuflag.ContinueOnError)

	fs.StringVar(&opts.configFile, "config", opts.configFile, "YAML file holding the search configuration")
	fs.StringVar(&opts.loggingConfig, "logging-config", opts.loggingConfig, `loggo configuration, e.g. "<root>=INFO;persistence=DEBUG"`)

	fs.Uint64Var(&cfg.StartingValue, "start", cfg.StartingValue, "first candidate to search")
	fs.Uint64Var(&cfg.BatchSize, "batch-size", cfg.BatchSize, "candidates per batch")
	fs.IntVar(&cfg.LowWaterMark, "low-water-mark", cfg.LowWaterMark, "queued batches kept in reserve")
	fs.IntVar(&cfg.WorkerCount, "workers", cfg.WorkerCount, "number of batch workers")
	fs.DurationVar(&cfg.ProducerSleep, "producer-sleep", cfg.ProducerSleep, "time between queue top ups")
	fs.DurationVar(&cfg.WorkerIdleSleep, "worker-idle-sleep", cfg.WorkerIdleSleep, "time a worker waits on an empty queue")
	fs.DurationVar(&cfg.CompactionInterval, "compaction-interval", cfg.CompactionInterval, "time between record compactions")
	fs.DurationVar(&cfg.LogTruncateInterval, "log-truncate-interval", cfg.LogTruncateInterval, "time between status log truncations")
	fs.IntVar(&cfg.RetentionCap, "retention-cap", cfg.RetentionCap, "record candidates kept by a compaction")
	fs.IntVar(&cfg.NoiseFloor, "noise-floor", cfg.NoiseFloor, "persistence a candidate must exceed to be reported")
	fs.IntVar(&cfg.MaxStatusBuffer, "max-status-buffer", cfg.MaxStatusBuffer, "characters of status log kept")
	fs.Var((*evaluatorValue)(&cfg.Evaluator), "evaluator", `persistence evaluator, "fast" or "exact"`)
	fs.StringVar(&cfg.MetricsAddress, "metrics-address", cfg.MetricsAddress, "address to serve metrics and introspection on")
	return fs
}

func parseInto(cfg *config.Config, opts *options, args []string) error {
	fs := newFlagSet(cfg, opts)
	if err := fs.Parse(false, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return errors.Errorf("unrecognised arguments: %v", fs.Args())
	}
	return nil
}

// parseArgs builds the search configuration from the defaults, the
// optional configuration file and finally the command line flags.
func parseArgs(args []string, cpus int) (config.Config, options, error) {
	var opts options
	cfg := config.Default(cpus)
	if err := parseInto(&cfg, &opts, args); err != nil {
		return config.Config{}, options{}, err
	}
	if opts.configFile == "" {
		return cfg, opts, nil
	}

	cfg, err := config.Load(opts.configFile, config.Default(cpus))
	if err != nil {
		return config.Config{}, options{}, err
	}
	// Flags given explicitly win over the file.
	if err := parseInto(&cfg, &opts, args); err != nil {
		return config.Config{}, options{}, err
	}
	return cfg, opts, nil
}
