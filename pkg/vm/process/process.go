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

package process

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matrixorigin/sampleagg/pkg/common/mpool"
	"github.com/matrixorigin/sampleagg/pkg/container/batch"
	"github.com/matrixorigin/sampleagg/pkg/container/vector"
	"github.com/matrixorigin/sampleagg/pkg/logutil"
)

const DefaultBatchSize = 8192

var procId atomic.Uint64

// New creates a top-level process.
func New(ctx context.Context, mp *mpool.MPool) *Process {
	proc := &Process{
		Id: fmt.Sprintf("proc-%d", procId.Add(1)),
		Lim: Limitation{
			Size:      mp.Cap(),
			BatchRows: DefaultBatchSize,
		},
		mp: mp,
	}
	proc.Ctx, proc.Cancel = context.WithCancel(ctx)
	return proc
}

// NewFromProc creates a child process for one partition.  The child
// shares the arena of p and is cancelled together with p.
func NewFromProc(p *Process, partition int) *Process {
	proc := &Process{
		Id:     fmt.Sprintf("%s/%d", p.Id, partition),
		Lim:    p.Lim,
		mp:     p.mp,
		logger: p.logger,
	}
	proc.Ctx, proc.Cancel = context.WithCancel(p.Ctx)
	return proc
}

func (proc *Process) QueryId() string {
	return proc.Id
}

func (proc *Process) SetQueryId(id string) {
	proc.Id = id
}

// XXX MPOOL
// Some tests call in without a proc, hack in a fall back mpool.
var xxxProcMp = mpool.MustNew("fallback_proc_mp")

func (proc *Process) GetMPool() *mpool.MPool {
	if proc == nil {
		return xxxProcMp
	}
	return proc.mp
}

func (proc *Process) Mp() *mpool.MPool {
	return proc.GetMPool()
}

func (proc *Process) GetLim() Limitation {
	return proc.Lim
}

func (proc *Process) SetLogger(logger *zap.Logger) {
	proc.logger = logger
}

// Interrupted reports the cause of cancellation, nil while running.
func (proc *Process) Interrupted() error {
	return proc.Ctx.Err()
}

func (proc *Process) FreeVectors(vecs ...*vector.Vector) {
	for _, vec := range vecs {
		if vec != nil {
			vec.Free(proc.Mp())
		}
	}
}

func (proc *Process) PutBatch(bat *batch.Batch) {
	if bat != nil {
		bat.Clean(proc.Mp())
	}
}

func (proc *Process) getLogger() *zap.Logger {
	if proc.logger != nil {
		return proc.logger
	}
	return logutil.GetGlobalLogger()
}

// log do logging.
// just for Info/Error/Warn/Debug/Fatal
func (proc *Process) log(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	logger := proc.getLogger()
	if !logger.Core().Enabled(level) {
		return
	}
	fields = appendProcField(fields, proc)
	fields = append(fields, logutil.FieldsFromContext(ctx)...)
	if ce := logger.WithOptions(zap.AddCallerSkip(2)).Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

func (proc *Process) logf(ctx context.Context, level zapcore.Level, msg string, args ...any) {
	if !proc.getLogger().Core().Enabled(level) {
		return
	}
	proc.log(ctx, level, fmt.Sprintf(msg, args...))
}

func (proc *Process) Info(ctx context.Context, msg string, fields ...zap.Field) {
	proc.log(ctx, zap.InfoLevel, msg, fields...)
}

func (proc *Process) Error(ctx context.Context, msg string, fields ...zap.Field) {
	proc.log(ctx, zap.ErrorLevel, msg, fields...)
}

func (proc *Process) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	proc.log(ctx, zap.WarnLevel, msg, fields...)
}

func (proc *Process) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	proc.log(ctx, zap.DebugLevel, msg, fields...)
}

func (proc *Process) Infof(ctx context.Context, msg string, args ...any) {
	proc.logf(ctx, zap.InfoLevel, msg, args...)
}

func (proc *Process) Debugf(ctx context.Context, msg string, args ...any) {
	proc.logf(ctx, zap.DebugLevel, msg, args...)
}

// appendProcField append the process id to the fields
func appendProcField(fields []zap.Field, proc *Process) []zap.Field {
	return append(fields, zap.String("proc", proc.Id))
}
