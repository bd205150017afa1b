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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/sampleagg/pkg/common/moerr"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(`
[log]
level = "debug"
format = "json"

[memory]
mpool-capacity = 1048576

[sample]
limit = 50
parallelism = 8
compress-threshold = 4096
`)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, int64(1<<20), cfg.Memory.MPoolCapacity)
	require.Equal(t, int64(50), cfg.Sample.Limit)
	require.Equal(t, 8, cfg.Sample.Parallelism)
	require.Equal(t, 4096, cfg.Sample.CompressThreshold)
	require.Equal(t, defaultBatchRows, cfg.Sample.BatchRows)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig("")
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format)
	require.Equal(t, int64(defaultLimit), cfg.Sample.Limit)
	require.Equal(t, defaultParallelism, cfg.Sample.Parallelism)
	require.Equal(t, defaultCompressThreshold, cfg.Sample.CompressThreshold)
	require.Equal(t, int64(0), cfg.Memory.MPoolCapacity)
}

func TestParseConfigCompressThreshold(t *testing.T) {
	cases := []struct {
		name string
		text string
		want int
	}{
		{name: "unset", text: "[sample]\nlimit = 10", want: defaultCompressThreshold},
		{name: "disabled", text: "[sample]\ncompress-threshold = 0", want: 0},
		{name: "explicit", text: "[sample]\ncompress-threshold = 512", want: 512},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := ParseConfig(c.text)
			require.NoError(t, err)
			require.Equal(t, c.want, cfg.Sample.CompressThreshold)

			// defaults are idempotent
			cfg.SetDefaults()
			require.Equal(t, c.want, cfg.Sample.CompressThreshold)
		})
	}
}

func TestParseConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{name: "syntax", text: "[sample\nlimit = 1"},
		{name: "unknown item", text: "[sample]\nsize = 1"},
		{name: "negative limit", text: "[sample]\nlimit = -1"},
		{name: "negative parallelism", text: "[sample]\nparallelism = -2"},
		{name: "negative batch rows", text: "[sample]\nbatch-rows = -2"},
		{name: "negative threshold", text: "[sample]\ncompress-threshold = -1"},
		{name: "negative capacity", text: "[memory]\nmpool-capacity = -1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseConfig(c.text)
			require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "%v", err)
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	require.NoError(t, os.WriteFile(path, []byte("[sample]\nlimit = 7\n"), 0o644))

	cfg := &Config{}
	require.NoError(t, LoadConfigFromFile(path, cfg))
	require.Equal(t, int64(7), cfg.Sample.Limit)
	require.Equal(t, 0, cfg.Sample.Parallelism)
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	err := LoadConfigFromFile(filepath.Join(t.TempDir(), "missing.toml"), cfg)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "%v", err)
	err = LoadConfigFromFile("", cfg)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "%v", err)
}
