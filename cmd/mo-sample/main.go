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

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/matrixorigin/sampleagg/pkg/common/moerr"
	"github.com/matrixorigin/sampleagg/pkg/common/mpool"
	"github.com/matrixorigin/sampleagg/pkg/config"
	"github.com/matrixorigin/sampleagg/pkg/container/batch"
	"github.com/matrixorigin/sampleagg/pkg/container/types"
	"github.com/matrixorigin/sampleagg/pkg/container/vector"
	"github.com/matrixorigin/sampleagg/pkg/logutil"
	"github.com/matrixorigin/sampleagg/pkg/sql/colexec/sample"
	"github.com/matrixorigin/sampleagg/pkg/vm/process"
)

const maxLineSize = 1 << 20

var (
	configFile  = flag.String("cfg", "", "toml configuration, built-in defaults if empty")
	limit       = flag.Int64("limit", 0, "max number of sampled values, overrides the configuration")
	parallelism = flag.Int("parallel", 0, "number of partitions sampled at the same time, overrides the configuration")
	inputFile   = flag.String("input", "", "newline delimited values, stdin if empty")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logutil.SetupMOLogger(&cfg.Log)

	in := io.Reader(os.Stdin)
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			logutil.Fatal("failed to open input", zap.String("file", *inputFile), zap.Error(err))
		}
		defer f.Close()
		in = f
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()
	if err := run(ctx, cfg, in, os.Stdout); err != nil {
		logutil.Error("sample failed", zap.Error(err))
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if *configFile != "" {
		if err := config.LoadConfigFromFile(*configFile, cfg); err != nil {
			return nil, err
		}
	}
	if *limit != 0 {
		cfg.Sample.Limit = *limit
	}
	if *parallelism != 0 {
		cfg.Sample.Parallelism = *parallelism
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run samples the lines of in and writes the sampled lines to out.
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	mp, err := mpool.NewMPool("mo-sample", cfg.Memory.MPoolCapacity, mpool.NoFlag)
	if err != nil {
		return err
	}
	defer mpool.DeleteMPool(mp)

	proc := process.New(ctx, mp)
	defer proc.Cancel()
	proc.Lim.BatchRows = int64(cfg.Sample.BatchRows)

	parts, err := readPartitions(proc, in, cfg.Sample.Parallelism)
	defer func() {
		for _, part := range parts {
			for _, bat := range part.Batches {
				proc.PutBatch(bat)
			}
		}
	}()
	if err != nil {
		return err
	}

	arg := &sample.Argument{
		Limit:             cfg.Sample.Limit,
		ArgType:           types.T_varchar.ToType(),
		Column:            0,
		Parallelism:       cfg.Sample.Parallelism,
		CompressThreshold: cfg.Sample.CompressThreshold,
	}
	if err = arg.Prepare(proc); err != nil {
		return err
	}
	bat, err := arg.Call(proc, parts)
	if err != nil {
		arg.Free(proc, true)
		return err
	}
	err = writeResult(out, bat.GetVector(0))
	arg.Free(proc, err != nil)

	logutil.Info("memory usage", zap.String("mpool", mp.ReportJson()))
	return err
}

// readPartitions slices the lines of in into batches of proc.Lim.BatchRows rows
// and deals them round robin over n partitions.
func readPartitions(proc *process.Process, in io.Reader, n int) ([]sample.Partition, error) {
	parts := make([]sample.Partition, n)
	typ := types.T_varchar.ToType()
	rows := int(proc.Lim.BatchRows)

	var vec *vector.Vector
	next := 0
	flush := func() error {
		if vec == nil {
			return nil
		}
		bat, err := batch.NewWithVectors([]string{"line"}, vec)
		if err != nil {
			proc.FreeVectors(vec)
			vec = nil
			return err
		}
		parts[next].Batches = append(parts[next].Batches, bat)
		next = (next + 1) % n
		vec = nil
		return nil
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	for scanner.Scan() {
		if vec == nil {
			vec = vector.NewVec(typ)
		}
		if err := vector.AppendBytes(vec, scanner.Bytes(), false, proc.Mp()); err != nil {
			proc.FreeVectors(vec)
			return parts, err
		}
		if vec.Length() == rows {
			if err := flush(); err != nil {
				return parts, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		proc.FreeVectors(vec)
		return parts, moerr.ConvertGoError(proc.Ctx, err)
	}
	return parts, flush()
}

func writeResult(out io.Writer, vec *vector.Vector) error {
	if vec.IsNull(0) {
		return nil
	}
	w := bufio.NewWriter(out)
	first := vec.GetFirstValueIndex(0)
	for i, cnt := 0, vec.GetValueCount(0); i < cnt; i++ {
		if _, err := w.Write(vec.GetBytesAt(first + i)); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}
