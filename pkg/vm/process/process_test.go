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
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/matrixorigin/sampleagg/pkg/common/mpool"
	"github.com/matrixorigin/sampleagg/pkg/container/batch"
	"github.com/matrixorigin/sampleagg/pkg/container/types"
	"github.com/matrixorigin/sampleagg/pkg/container/vector"
	"github.com/matrixorigin/sampleagg/pkg/logutil"
)

func TestProcess(t *testing.T) {
	mp := mpool.MustNewZero()
	proc := New(context.Background(), mp)
	require.Equal(t, mp, proc.Mp())
	require.Equal(t, int64(DefaultBatchSize), proc.GetLim().BatchRows)
	require.NoError(t, proc.Interrupted())

	child := NewFromProc(proc, 2)
	require.Equal(t, proc.Id+"/2", child.QueryId())
	require.Equal(t, mp, child.GetMPool())

	proc.Cancel()
	require.ErrorIs(t, child.Interrupted(), context.Canceled)

	var nilProc *Process
	require.NotNil(t, nilProc.GetMPool())
}

func TestProcessFree(t *testing.T) {
	mp := mpool.MustNewZero()
	proc := New(context.Background(), mp)

	vec := vector.NewVec(types.T_varchar.ToType())
	require.NoError(t, vector.AppendStringList(vec, []string{"a", "b"}, nil, mp))
	proc.FreeVectors(vec, nil)
	require.Equal(t, int64(0), mp.CurrNB())

	vec = vector.NewVec(types.T_int64.ToType())
	require.NoError(t, vector.AppendFixedList(vec, []int64{1, 2}, nil, mp))
	bat, err := batch.NewWithVectors([]string{"a"}, vec)
	require.NoError(t, err)
	proc.PutBatch(bat)
	proc.PutBatch(nil)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestProcessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	proc := New(context.Background(), mpool.MustNewZero())
	proc.SetQueryId("q1")
	proc.SetLogger(zap.New(core))

	ctx := logutil.WithFields(context.Background(), zap.Int("partition", 1))
	proc.Info(ctx, "partial done", zap.Int64("seen", 7))
	proc.Debug(ctx, "hidden")
	proc.Infof(ctx, "merged %d partials", 3)
	proc.Warn(ctx, "slow")
	proc.Error(ctx, "failed")

	entries := logs.All()
	require.Equal(t, 4, len(entries))
	require.Equal(t, "partial done", entries[0].Message)
	require.Equal(t, map[string]interface{}{"proc": "q1", "partition": int64(1), "seen": int64(7)}, entries[0].ContextMap())
	require.Equal(t, "merged 3 partials", entries[1].Message)
	require.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}
