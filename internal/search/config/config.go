// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package config holds the tunables of a persistence search.
package config

import (
	"os"
	"time"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/juju/persistence/core/persistence"
)

const (
	// DefaultStartingValue is where the search resumes when nothing else is
	// configured. Everything below it has already been searched.
	DefaultStartingValue uint64 = 278607411270327

	// DefaultBatchSize is the number of candidates in a batch. With 8
	// volatile digits a batch takes in the order of 20 seconds to evaluate.
	DefaultBatchSize uint64 = 40000000

	// DefaultLowWaterMark is the queue depth below which the producer tops
	// the queue up.
	DefaultLowWaterMark = 100

	// DefaultReservedCPUs is the number of hardware threads left for the
	// host and the bookkeeping workers when sizing the worker pool.
	DefaultReservedCPUs = 3

	DefaultProducerSleep       = 3 * time.Minute
	DefaultWorkerIdleSleep     = time.Second
	DefaultCompactionInterval  = 5 * time.Minute
	DefaultLogTruncateInterval = time.Hour

	// DefaultRetentionCap is the number of top tier candidates kept by a
	// compaction.
	DefaultRetentionCap = 7

	// DefaultNoiseFloor is the persistence at or below which results are
	// not worth reporting.
	DefaultNoiseFloor = 9

	// DefaultMaxStatusBuffer is the number of characters the status log is
	// truncated to.
	DefaultMaxStatusBuffer = 10000
)

// Config holds the search configuration.
type Config struct {
	StartingValue       uint64        `yaml:"starting-value"`
	BatchSize           uint64        `yaml:"batch-size"`
	LowWaterMark        int           `yaml:"low-water-mark"`
	WorkerCount         int           `yaml:"worker-count"`
	ProducerSleep       time.Duration `yaml:"producer-sleep"`
	WorkerIdleSleep     time.Duration `yaml:"worker-idle-sleep"`
	CompactionInterval  time.Duration `yaml:"compaction-interval"`
	LogTruncateInterval time.Duration `yaml:"log-truncate-interval"`
	RetentionCap        int           `yaml:"retention-cap"`
	NoiseFloor          int           `yaml:"noise-floor"`
	MaxStatusBuffer     int           `yaml:"max-status-buffer"`
	Evaluator           string        `yaml:"evaluator"`
	MetricsAddress      string        `yaml:"metrics-address"`
}

// Default returns the default configuration for a host with cpus hardware
// threads.
func Default(cpus int) Config {
	return Config{
		StartingValue:       DefaultStartingValue,
		BatchSize:           DefaultBatchSize,
		LowWaterMark:        DefaultLowWaterMark,
		WorkerCount:         DefaultWorkerCount(cpus),
		ProducerSleep:       DefaultProducerSleep,
		WorkerIdleSleep:     DefaultWorkerIdleSleep,
		CompactionInterval:  DefaultCompactionInterval,
		LogTruncateInterval: DefaultLogTruncateInterval,
		RetentionCap:        DefaultRetentionCap,
		NoiseFloor:          DefaultNoiseFloor,
		MaxStatusBuffer:     DefaultMaxStatusBuffer,
		Evaluator:           persistence.FastEvaluatorName,
	}
}

// DefaultWorkerCount returns the worker pool size for a host with cpus
// hardware threads. There is always at least one worker.
func DefaultWorkerCount(cpus int) int {
	if n := cpus - DefaultReservedCPUs; n > 0 {
		return n
	}
	return 1
}

// Validate ensures that the config values are valid.
func (c Config) Validate() error {
	if c.BatchSize == 0 {
		return errors.NotValidf("zero batch-size")
	}
	if c.LowWaterMark <= 0 {
		return errors.NotValidf("low-water-mark %d", c.LowWaterMark)
	}
	if c.WorkerCount <= 0 {
		return errors.NotValidf("worker-count %d", c.WorkerCount)
	}
	if c.ProducerSleep <= 0 {
		return errors.NotValidf("producer-sleep %v", c.ProducerSleep)
	}
	if c.WorkerIdleSleep <= 0 {
		return errors.NotValidf("worker-idle-sleep %v", c.WorkerIdleSleep)
	}
	if c.CompactionInterval <= 0 {
		return errors.NotValidf("compaction-interval %v", c.CompactionInterval)
	}
	if c.LogTruncateInterval <= 0 {
		return errors.NotValidf("log-truncate-interval %v", c.LogTruncateInterval)
	}
	if c.RetentionCap <= 0 {
		return errors.NotValidf("retention-cap %d", c.RetentionCap)
	}
	if c.NoiseFloor < 0 {
		return errors.NotValidf("noise-floor %d", c.NoiseFloor)
	}
	if c.MaxStatusBuffer <= 0 {
		return errors.NotValidf("max-status-buffer %d", c.MaxStatusBuffer)
	}
	if _, err := persistence.EvaluatorByName(c.Evaluator); err != nil {
		return errors.NotValidf("evaluator %q", c.Evaluator)
	}
	return nil
}

// VolatileDigits returns the number of low order digits that vary within a
// batch. It is derived from BatchSize so the range skip heuristic always
// matches the batches it is applied to.
func (c Config) VolatileDigits() int {
	return persistence.VolatileDigits(c.BatchSize)
}

// Load reads a YAML configuration file. Values absent from the file keep
// their value in base.
func Load(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Annotatef(err, "reading config %q", path)
	}
	return Parse(data, base)
}

// Parse decodes YAML configuration on top of base.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Annotate(err, "parsing config")
	}
	return cfg, nil
}
