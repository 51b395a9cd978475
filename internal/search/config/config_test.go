// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package config_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/persistence/internal/search/config"
)

type configSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&configSuite{})

func (s *configSuite) TestDefault(c *gc.C) {
	cfg := config.Default(16)
	c.Assert(cfg.Validate(), jc.ErrorIsNil)
	c.Check(cfg.WorkerCount, gc.Equals, 13)
	c.Check(cfg.BatchSize, gc.Equals, uint64(40000000))
	c.Check(cfg.VolatileDigits(), gc.Equals, 8)
	c.Check(cfg.RetentionCap, gc.Equals, 7)
	c.Check(cfg.NoiseFloor, gc.Equals, 9)
	c.Check(cfg.MaxStatusBuffer, gc.Equals, 10000)
}

func (s *configSuite) TestDefaultWorkerCount(c *gc.C) {
	c.Check(config.DefaultWorkerCount(16), gc.Equals, 13)
	c.Check(config.DefaultWorkerCount(4), gc.Equals, 1)
	c.Check(config.DefaultWorkerCount(2), gc.Equals, 1)
	c.Check(config.DefaultWorkerCount(0), gc.Equals, 1)
}

func (s *configSuite) TestValidate(c *gc.C) {
	tests := []struct {
		mutate func(*config.Config)
		err    string
	}{
		{func(cfg *config.Config) { cfg.BatchSize = 0 }, `zero batch-size not valid`},
		{func(cfg *config.Config) { cfg.LowWaterMark = 0 }, `low-water-mark 0 not valid`},
		{func(cfg *config.Config) { cfg.WorkerCount = -1 }, `worker-count -1 not valid`},
		{func(cfg *config.Config) { cfg.ProducerSleep = 0 }, `producer-sleep 0s not valid`},
		{func(cfg *config.Config) { cfg.WorkerIdleSleep = 0 }, `worker-idle-sleep 0s not valid`},
		{func(cfg *config.Config) { cfg.CompactionInterval = 0 }, `compaction-interval 0s not valid`},
		{func(cfg *config.Config) { cfg.LogTruncateInterval = 0 }, `log-truncate-interval 0s not valid`},
		{func(cfg *config.Config) { cfg.RetentionCap = 0 }, `retention-cap 0 not valid`},
		{func(cfg *config.Config) { cfg.NoiseFloor = -1 }, `noise-floor -1 not valid`},
		{func(cfg *config.Config) { cfg.MaxStatusBuffer = 0 }, `max-status-buffer 0 not valid`},
		{func(cfg *config.Config) { cfg.Evaluator = "slow" }, `evaluator "slow" not valid`},
	}
	for i, test := range tests {
		c.Logf("test %d: %s", i, test.err)
		cfg := config.Default(8)
		test.mutate(&cfg)
		err := cfg.Validate()
		c.Check(err, gc.ErrorMatches, test.err)
		c.Check(err, jc.Satisfies, errors.IsNotValid)
	}
}

func (s *configSuite) TestParse(c *gc.C) {
	cfg, err := config.Parse([]byte(`
starting-value: 1000
batch-size: 100
worker-count: 2
producer-sleep: 10s
evaluator: exact
`), config.Default(8))
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(cfg.Validate(), jc.ErrorIsNil)

	c.Check(cfg.StartingValue, gc.Equals, uint64(1000))
	c.Check(cfg.BatchSize, gc.Equals, uint64(100))
	c.Check(cfg.VolatileDigits(), gc.Equals, 2)
	c.Check(cfg.WorkerCount, gc.Equals, 2)
	c.Check(cfg.ProducerSleep, gc.Equals, 10*time.Second)
	c.Check(cfg.Evaluator, gc.Equals, "exact")
	// Untouched values keep their defaults.
	c.Check(cfg.LowWaterMark, gc.Equals, config.DefaultLowWaterMark)
	c.Check(cfg.CompactionInterval, gc.Equals, config.DefaultCompactionInterval)
}

func (s *configSuite) TestParseInvalid(c *gc.C) {
	_, err := config.Parse([]byte(`batch-size: [1, 2]`), config.Default(8))
	c.Assert(err, gc.ErrorMatches, `(?s)parsing config: yaml: .*cannot unmarshal.*`)
}

func (s *configSuite) TestLoad(c *gc.C) {
	path := filepath.Join(c.MkDir(), "search.yaml")
	err := os.WriteFile(path, []byte("retention-cap: 3\n"), 0644)
	c.Assert(err, jc.ErrorIsNil)

	cfg, err := config.Load(path, config.Default(8))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg.RetentionCap, gc.Equals, 3)

	_, err = config.Load(filepath.Join(c.MkDir(), "missing.yaml"), config.Default(8))
	c.Assert(err, gc.ErrorMatches, `reading config .*`)
}
