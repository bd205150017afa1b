// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/sampleagg/pkg/common/moerr"
	"github.com/matrixorigin/sampleagg/pkg/logutil"
)

const (
	defaultLimit             = 1000
	defaultParallelism       = 4
	defaultCompressThreshold = 64 << 10
	defaultBatchRows         = 8192
)

// Config is the configuration of mo-sample.
type Config struct {
	// Log is the log config
	Log logutil.LogConfig `toml:"log"`

	Memory MemoryConfig `toml:"memory"`

	Sample SampleConfig `toml:"sample"`
}

type MemoryConfig struct {
	// MPoolCapacity is the capacity in bytes of the pool holding the samples. 0 is unlimited.
	MPoolCapacity int64 `toml:"mpool-capacity"`
}

type SampleConfig struct {
	// Limit is the max number of values kept.
	Limit int64 `toml:"limit"`

	// Parallelism is the number of partitions sampled at the same time.
	Parallelism int `toml:"parallelism"`

	// CompressThreshold, partial samples encoded to at least this many bytes are
	// compressed. 0 disables compression.
	CompressThreshold int `toml:"compress-threshold"`

	// BatchRows is the number of input rows per batch.
	BatchRows int `toml:"batch-rows"`

	// thresholdSet records an explicit compress-threshold, so that 0 keeps
	// compression disabled.
	thresholdSet bool
}

// LoadConfigFromFile decodes the toml file path into cfg.
func LoadConfigFromFile(path string, cfg *Config) error {
	if path == "" {
		return moerr.NewBadConfig(context.Background(), "config file path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return moerr.NewBadConfig(context.Background(), "read %s: %v", path, err)
	}
	return decode(string(data), cfg)
}

// ParseConfig decodes a toml document, defaults included.
func ParseConfig(text string) (*Config, error) {
	cfg := &Config{}
	if err := decode(text, cfg); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(text string, cfg *Config) error {
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return moerr.NewBadConfig(context.Background(), "%v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return moerr.NewBadConfig(context.Background(), "unknown config item %s", undecoded[0].String())
	}
	if md.IsDefined("sample", "compress-threshold") {
		cfg.Sample.thresholdSet = true
	}
	return nil
}

// SetDefaults fills the items left unset.
func (c *Config) SetDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Sample.Limit == 0 {
		c.Sample.Limit = defaultLimit
	}
	if c.Sample.Parallelism == 0 {
		c.Sample.Parallelism = defaultParallelism
	}
	if c.Sample.BatchRows == 0 {
		c.Sample.BatchRows = defaultBatchRows
	}
	if c.Sample.CompressThreshold == 0 && !c.Sample.thresholdSet {
		c.Sample.CompressThreshold = defaultCompressThreshold
	}
}

func (c *Config) Validate() error {
	ctx := context.Background()
	if c.Sample.Limit <= 0 {
		return moerr.NewBadConfig(ctx, "sample limit %d must be positive", c.Sample.Limit)
	}
	if c.Sample.Parallelism <= 0 {
		return moerr.NewBadConfig(ctx, "sample parallelism %d must be positive", c.Sample.Parallelism)
	}
	if c.Sample.BatchRows <= 0 {
		return moerr.NewBadConfig(ctx, "sample batch-rows %d must be positive", c.Sample.BatchRows)
	}
	if c.Sample.CompressThreshold < 0 {
		return moerr.NewBadConfig(ctx, "sample compress-threshold %d is negative", c.Sample.CompressThreshold)
	}
	if c.Memory.MPoolCapacity < 0 {
		return moerr.NewBadConfig(ctx, "mpool-capacity %d is negative", c.Memory.MPoolCapacity)
	}
	return nil
}
