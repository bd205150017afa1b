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
	"context"
	"fmt"
	"testing"

	"github.com/lni/goutils/leaktest"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/sampleagg/pkg/common/moerr"
	"github.com/matrixorigin/sampleagg/pkg/common/mpool"
	"github.com/matrixorigin/sampleagg/pkg/container/batch"
	"github.com/matrixorigin/sampleagg/pkg/container/types"
	"github.com/matrixorigin/sampleagg/pkg/container/vector"
	"github.com/matrixorigin/sampleagg/pkg/vm/process"
)

type testPartitions struct {
	parts  []Partition
	values map[string]bool
}

func makePartitions(t *testing.T, mp *mpool.MPool, nparts, nbatches, nrows int) testPartitions {
	tp := testPartitions{values: make(map[string]bool)}
	for p := 0; p < nparts; p++ {
		var part Partition
		for b := 0; b < nbatches; b++ {
			vs := make([]string, nrows)
			for r := range vs {
				vs[r] = fmt.Sprintf("p%d-b%d-r%d", p, b, r)
				tp.values[vs[r]] = true
			}
			vec := vector.NewVec(types.T_varchar.ToType())
			require.NoError(t, vector.AppendStringList(vec, vs, nil, mp))
			bat, err := batch.NewWithVectors([]string{"a"}, vec)
			require.NoError(t, err)
			part.Batches = append(part.Batches, bat)
		}
		tp.parts = append(tp.parts, part)
	}
	return tp
}

func (tp testPartitions) free(mp *mpool.MPool) {
	for _, part := range tp.parts {
		for _, bat := range part.Batches {
			bat.Clean(mp)
		}
		for _, mask := range part.Masks {
			if mask != nil {
				mask.Free(mp)
			}
		}
	}
}

func resultStrings(t *testing.T, bat *batch.Batch) []string {
	require.Equal(t, 1, bat.RowCount())
	vec := bat.GetVector(0)
	if vec.IsNull(0) {
		return nil
	}
	var ret []string
	first := vec.GetFirstValueIndex(0)
	for i := 0; i < vec.GetValueCount(0); i++ {
		ret = append(ret, vec.GetStringAt(first+i))
	}
	return ret
}

func newTestArg(limit int64, parallelism int) *Argument {
	return &Argument{
		Limit:             limit,
		ArgType:           types.T_varchar.ToType(),
		Column:            0,
		Parallelism:       parallelism,
		CompressThreshold: 64,
	}
}

func TestSample(t *testing.T) {
	defer leaktest.AfterTest(t)()

	mp := mpool.MustNewZero()
	proc := process.New(context.Background(), mp)
	defer proc.Cancel()

	arg := newTestArg(10, 4)
	require.NoError(t, arg.Prepare(proc))

	tp := makePartitions(t, mp, 8, 3, 50)
	bat, err := arg.Call(proc, tp.parts)
	require.NoError(t, err)

	got := resultStrings(t, bat)
	require.Len(t, got, 10)
	seen := make(map[string]bool)
	for _, v := range got {
		require.True(t, tp.values[v], v)
		require.False(t, seen[v], "duplicated %s", v)
		seen[v] = true
	}

	// nothing to sample.
	bat, err = arg.Call(proc, nil)
	require.NoError(t, err)
	require.Nil(t, resultStrings(t, bat))

	buf := new(bytes.Buffer)
	arg.String(buf)
	require.Equal(t, "sample: sample 10 values of column 0 (VARCHAR) with 4 workers", buf.String())

	arg.Free(proc, false)
	tp.free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestSampleWithMasks(t *testing.T) {
	defer leaktest.AfterTest(t)()

	mp := mpool.MustNewZero()
	proc := process.New(context.Background(), mp)
	defer proc.Cancel()

	arg := newTestArg(100, 2)
	require.NoError(t, arg.Prepare(proc))

	tp := makePartitions(t, mp, 3, 2, 4)
	want := make([]string, 0)
	for p := range tp.parts {
		for b := range tp.parts[p].Batches {
			mask := vector.NewVec(types.T_bool.ToType())
			sel := []bool{p == 0, b == 1, false, true}
			require.NoError(t, vector.AppendFixedList(mask, sel, nil, mp))
			tp.parts[p].Masks = append(tp.parts[p].Masks, mask)
			for r, ok := range sel {
				if ok {
					want = append(want, fmt.Sprintf("p%d-b%d-r%d", p, b, r))
				}
			}
		}
	}
	// a partition without masks reads every row.
	extra := makePartitions(t, mp, 1, 1, 3)
	for v := range extra.values {
		want = append(want, v)
	}

	bat, err := arg.Call(proc, append(tp.parts, extra.parts...))
	require.NoError(t, err)
	require.ElementsMatch(t, want, resultStrings(t, bat))

	arg.Free(proc, false)
	tp.free(mp)
	extra.free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestSampleCallsAreIndependent(t *testing.T) {
	defer leaktest.AfterTest(t)()

	mp := mpool.MustNewZero()
	proc := process.New(context.Background(), mp)
	defer proc.Cancel()

	arg := newTestArg(100, 2)
	require.NoError(t, arg.Prepare(proc))

	partitionOf := func(vs ...string) Partition {
		vec := vector.NewVec(types.T_varchar.ToType())
		require.NoError(t, vector.AppendStringList(vec, vs, nil, mp))
		bat, err := batch.NewWithVectors([]string{"a"}, vec)
		require.NoError(t, err)
		return Partition{Batches: []*batch.Batch{bat}}
	}

	calls := []struct {
		input []string
		want  []string
	}{
		{input: []string{"a", "b"}, want: []string{"a", "b"}},
		{input: []string{"x", "y"}, want: []string{"x", "y"}},
		{input: nil, want: nil},
		{input: []string{"z"}, want: []string{"z"}},
	}
	for i, c := range calls {
		var parts []Partition
		if c.input != nil {
			parts = []Partition{partitionOf(c.input...)}
		}
		bat, err := arg.Call(proc, parts)
		require.NoError(t, err)
		got := resultStrings(t, bat)
		if c.want == nil {
			require.Nil(t, got, "call %d", i)
		} else {
			require.ElementsMatch(t, c.want, got, "call %d", i)
		}
		testPartitions{parts: parts}.free(mp)
	}

	arg.Free(proc, false)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestSampleErrors(t *testing.T) {
	defer leaktest.AfterTest(t)()

	mp := mpool.MustNewZero()
	proc := process.New(context.Background(), mp)
	defer proc.Cancel()

	err := newTestArg(0, 2).Prepare(proc)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg), "%v", err)
	err = newTestArg(10, 0).Prepare(proc)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg), "%v", err)

	tp := makePartitions(t, mp, 4, 2, 10)
	defer tp.free(mp)

	arg := newTestArg(5, 2)
	arg.Column = 3
	require.NoError(t, arg.Prepare(proc))
	_, err = arg.Call(proc, tp.parts)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput), "%v", err)
	arg.Free(proc, true)

	arg = newTestArg(5, 2)
	require.NoError(t, arg.Prepare(proc))
	proc.Cancel()
	_, err = arg.Call(proc, tp.parts)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrQueryInterrupted), "%v", err)

	child := process.New(context.Background(), mp)
	child.Cancel()
	_, err = arg.Partial(child, tp.parts[0])
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrQueryInterrupted), "%v", err)
	arg.Free(proc, true)
}
