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

package sample

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/matrixorigin/sampleagg/pkg/common/moerr"
	"github.com/matrixorigin/sampleagg/pkg/container/batch"
	"github.com/matrixorigin/sampleagg/pkg/container/vector"
	"github.com/matrixorigin/sampleagg/pkg/logutil"
	"github.com/matrixorigin/sampleagg/pkg/sql/colexec/aggexec"
	"github.com/matrixorigin/sampleagg/pkg/vm/process"
)

const argName = "sample"

func (arg *Argument) String(buf *bytes.Buffer) {
	buf.WriteString(argName)
	buf.WriteString(": ")
	buf.WriteString(fmt.Sprintf("sample %d values of column %d (%s) ", arg.Limit, arg.Column, arg.ArgType.String()))
	buf.WriteString(fmt.Sprintf("with %d workers", arg.Parallelism))
}

func (arg *Argument) Prepare(proc *process.Process) (err error) {
	if arg.Parallelism <= 0 {
		return moerr.NewInvalidArg(proc.Ctx, "sample parallelism", arg.Parallelism)
	}
	ctr := &container{}
	if ctr.aggId, err = aggexec.GetAggIdByName(argName); err != nil {
		return err
	}
	// the merge aggregator reads the intermediate column of the partial results.
	if ctr.final, err = arg.makeAgg(proc, ctr.aggId, 0); err != nil {
		return err
	}
	ctr.pool, err = ants.NewPool(arg.Parallelism, ants.WithPanicHandler(func(v interface{}) {
		logutil.Error("sample worker panic", zap.Any("panic", v))
	}))
	if err != nil {
		ctr.final.Free()
		return moerr.ConvertGoError(proc.Ctx, err)
	}
	arg.ctr = ctr
	return nil
}

func (arg *Argument) makeAgg(proc *process.Process, id int64, channel int32) (aggexec.AggFuncExec, error) {
	return aggexec.MakeAgg(
		aggexec.NewSimpleAggMemoryManager(proc.Mp()),
		id, []int32{channel}, arg.ArgType, arg.Limit, int64(arg.CompressThreshold))
}

// Partial samples one partition and returns its intermediate result as a
// single row batch. The input batches are not released.
func (arg *Argument) Partial(proc *process.Process, part Partition) (bat *batch.Batch, err error) {
	defer func() {
		if e := recover(); e != nil {
			err = moerr.ConvertPanicError(proc.Ctx, e)
			bat = nil
		}
	}()

	exec, err := arg.makeAgg(proc, arg.ctr.aggId, arg.Column)
	if err != nil {
		return nil, err
	}
	defer exec.Free()

	rows := 0
	for i, in := range part.Batches {
		if proc.Interrupted() != nil {
			return nil, moerr.NewQueryInterrupted(proc.Ctx)
		}
		var mask *vector.Vector
		if i < len(part.Masks) {
			mask = part.Masks[i]
		}
		if err = exec.AddRawInput(in, mask); err != nil {
			return nil, err
		}
		rows += in.RowCount()
	}

	vecs := make([]*vector.Vector, exec.IntermediateBlockCount())
	if err = exec.EvaluateIntermediate(vecs, 0); err != nil {
		return nil, err
	}
	proc.Debug(proc.Ctx, "sample partial done",
		zap.Int("batches", len(part.Batches)),
		zap.Int("rows", rows))
	return batch.NewWithVectors([]string{exec.IntermediateStateDesc()[0].Name}, vecs...)
}

// Call samples every partition on the worker pool and merges the partial
// results. It returns a one column batch holding one row, the sample.
// Every Call samples only its own partitions. The batch is valid until the
// next Call or Free.
func (arg *Argument) Call(proc *process.Process, partitions []Partition) (*batch.Batch, error) {
	ctr := arg.ctr
	if ctr.buf != nil {
		proc.PutBatch(ctr.buf)
		ctr.buf = nil
	}
	if proc.Interrupted() != nil {
		return nil, moerr.NewQueryInterrupted(proc.Ctx)
	}
	if ctr.dirty || ctr.final == nil {
		if ctr.final != nil {
			ctr.final.Free()
			ctr.final = nil
		}
		final, err := arg.makeAgg(proc, ctr.aggId, 0)
		if err != nil {
			return nil, err
		}
		ctr.final, ctr.dirty = final, false
	}

	results := make([]partialResult, len(partitions))
	var wg sync.WaitGroup
	for i := range partitions {
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			child := process.NewFromProc(proc, i)
			defer child.Cancel()
			results[i].bat, results[i].err = arg.Partial(child, partitions[i])
		}
		if err := ctr.pool.Submit(task); err != nil {
			wg.Done()
			results[i].err = moerr.ConvertGoError(proc.Ctx, err)
		}
	}
	wg.Wait()

	var err error
	for i := range results {
		if results[i].err != nil {
			if err == nil {
				err = results[i].err
			}
			continue
		}
		if err == nil {
			ctr.dirty = true
			err = ctr.final.AddIntermediateInput(results[i].bat)
		}
		proc.PutBatch(results[i].bat)
	}
	if err != nil {
		proc.Error(proc.Ctx, "sample failed", zap.Int("partitions", len(partitions)), zap.Error(err))
		return nil, err
	}

	vecs := make([]*vector.Vector, 1)
	if err = ctr.final.EvaluateFinal(vecs, 0); err != nil {
		return nil, err
	}
	bat, err := batch.NewWithVectors([]string{argName}, vecs...)
	if err != nil {
		proc.FreeVectors(vecs...)
		return nil, err
	}
	ctr.buf = bat
	proc.Info(proc.Ctx, "sample done",
		zap.Int("partitions", len(partitions)),
		zap.Int64("limit", arg.Limit),
		zap.Int64("mpool-high-water", proc.Mp().Stats().HighWaterMark.Load()))
	return bat, nil
}

func (arg *Argument) Free(proc *process.Process, pipelineFailed bool) {
	ctr := arg.ctr
	if ctr == nil {
		return
	}
	if ctr.buf != nil {
		proc.PutBatch(ctr.buf)
		ctr.buf = nil
	}
	if ctr.pool != nil {
		ctr.pool.Release()
		ctr.pool = nil
	}
	if ctr.final != nil {
		ctr.final.Free()
		ctr.final = nil
	}
	if pipelineFailed {
		proc.Warn(proc.Ctx, "sample released after failure", zap.Int64("limit", arg.Limit))
	}
	arg.ctr = nil
}
