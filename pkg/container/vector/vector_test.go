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

package vector

import (
	"testing"

	"github.com/matrixorigin/sampleagg/pkg/common/moerr"
	"github.com/matrixorigin/sampleagg/pkg/common/mpool"
	"github.com/matrixorigin/sampleagg/pkg/container/types"
	"github.com/stretchr/testify/require"
)

func TestDenseVector(t *testing.T) {
	mp := mpool.MustNewZero()
	vec := NewVec(types.T_varchar.ToType())
	require.NoError(t, AppendStringList(vec, []string{"a", "bb", "", "ccc"}, nil, mp))

	require.True(t, vec.IsDense())
	require.False(t, vec.HasNull())
	require.False(t, vec.AllNull())
	require.Equal(t, 4, vec.Length())
	require.Equal(t, 4, vec.ValueCount())
	for i := 0; i < vec.Length(); i++ {
		require.Equal(t, i, vec.GetFirstValueIndex(i))
		require.Equal(t, 1, vec.GetValueCount(i))
	}
	require.Equal(t, "bb", vec.GetStringAt(1))
	require.Equal(t, []byte{}, vec.GetBytesAt(2))
	require.Equal(t, "[a bb  ccc]", vec.String())

	vec.Free(mp)
	require.Equal(t, 0, vec.Length())
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestBlockVector(t *testing.T) {
	mp := mpool.MustNewZero()
	vec := NewVec(types.T_int64.ToType())
	require.NoError(t, AppendFixed(vec, int64(1), false, mp))
	require.NoError(t, AppendFixed(vec, int64(0), true, mp))
	require.NoError(t, AppendMultiFixed(vec, []int64{2, 3}, mp))
	require.NoError(t, AppendMultiFixed(vec, []int64{}, mp))
	require.NoError(t, AppendFixed(vec, int64(4), false, mp))

	require.False(t, vec.IsDense())
	require.True(t, vec.HasNull())
	require.Equal(t, 5, vec.Length())
	require.Equal(t, 4, vec.ValueCount())

	counts := []int{1, 0, 2, 0, 1}
	for p := 0; p < vec.Length(); p++ {
		require.Equal(t, counts[p], vec.GetValueCount(p), "row %d", p)
		if p+1 < vec.Length() {
			require.Equal(t, vec.GetFirstValueIndex(p)+vec.GetValueCount(p), vec.GetFirstValueIndex(p+1))
		}
	}
	require.True(t, vec.IsNull(1))
	require.False(t, vec.IsNull(3))
	require.Equal(t, []int64{1, 2, 3, 4}, MustFixedCol[int64](vec))
	require.Equal(t, int64(3), GetFixedAt[int64](vec, vec.GetFirstValueIndex(2)+1))
	require.Equal(t, "[1 null [2 3] [] 4]", vec.String())
	vec.Free(mp)
	require.Equal(t, int64(0), mp.CurrNB())
}

func TestConstVector(t *testing.T) {
	mp := mpool.MustNewZero()

	null := NewConstNull(types.T_varbinary.ToType(), 1)
	require.True(t, null.IsConst())
	require.True(t, null.IsConstNull())
	require.True(t, null.AllNull())
	require.Equal(t, 0, null.GetValueCount(0))

	vec, err := NewConstBytes(types.T_varchar.ToType(), []byte("x"), 3, mp)
	require.NoError(t, err)
	require.False(t, vec.AllNull())
	require.False(t, vec.IsDense())
	for p := 0; p < 3; p++ {
		require.Equal(t, 0, vec.GetFirstValueIndex(p))
		require.Equal(t, 1, vec.GetValueCount(p))
	}
	require.Equal(t, "[x x x]", vec.String())
	err = AppendBytes(vec, []byte("y"), false, mp)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))
	vec.Free(mp)

	require.True(t, NewVec(types.T_int64.ToType()).AllNull())
}

func TestAppendErrors(t *testing.T) {
	mp := mpool.MustNewZero()
	vec := NewVec(types.T_int32.ToType())
	err := AppendBytes(vec, []byte("toolong"), false, mp)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	require.Equal(t, 0, vec.Length())

	small, err := mpool.NewMPool("vector-small", 16, mpool.NoFlag)
	require.NoError(t, err)
	defer mpool.DeleteMPool(small)
	svec := NewVec(types.T_varchar.ToType())
	require.NoError(t, AppendBytes(svec, []byte("abc"), false, small))
	err = AppendMultiBytes(svec, [][]byte{[]byte("de"), make([]byte, 64)}, small)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOOM))
	// the failed row leaves no trace
	require.Equal(t, 1, svec.Length())
	require.Equal(t, 1, svec.ValueCount())
	require.Equal(t, "[abc]", svec.String())
	svec.Free(small)
	require.Equal(t, int64(0), small.CurrNB())
}

func TestMaskMode(t *testing.T) {
	mp := mpool.MustNewZero()
	build := func(vals []bool, isNulls []bool) *Vector {
		vec := NewVec(types.T_bool.ToType())
		require.NoError(t, AppendFixedList(vec, vals, isNulls, mp))
		return vec
	}
	allTrue, err := NewConstFixed(types.T_bool.ToType(), true, 5, mp)
	require.NoError(t, err)
	allFalse, err := NewConstFixed(types.T_bool.ToType(), false, 5, mp)
	require.NoError(t, err)

	tests := []struct {
		name string
		mask *Vector
		want MaskMode
	}{
		{"nil", nil, MaskAllTrue},
		{"const true", allTrue, MaskAllTrue},
		{"const false", allFalse, MaskAllFalse},
		{"const null", NewConstNull(types.T_bool.ToType(), 5), MaskAllFalse},
		{"flat true", build([]bool{true, true, true}, nil), MaskAllTrue},
		{"flat false", build([]bool{false, false}, nil), MaskAllFalse},
		{"flat mixed", build([]bool{true, false, true, false, true}, nil), MaskMixed},
		{"null is false", build([]bool{true, true}, []bool{false, true}), MaskMixed},
		{"empty", build(nil, nil), MaskAllFalse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GetMaskMode(tt.mask), tt.want.String())
		})
	}
}

func TestFunctionParameterWrapper(t *testing.T) {
	mp := mpool.MustNewZero()
	vec := NewVec(types.T_int64.ToType())
	require.NoError(t, AppendFixedList(vec, []int64{5, 0, 7}, []bool{false, true, false}, mp))

	w := GenerateFunctionFixedTypeParameter[int64](vec)
	_, ok := w.(*FunctionParameterNormal[int64])
	require.True(t, ok)
	v, null := w.GetValue(0)
	require.Equal(t, int64(5), v)
	require.False(t, null)
	_, null = w.GetValue(1)
	require.True(t, null)
	v, _ = w.GetValue(2)
	require.Equal(t, int64(7), v)
	require.Equal(t, []int64{5, 7}, w.UnSafeGetAllValue())
	require.Equal(t, vec, w.GetSourceVector())

	dense := NewVec(types.T_int64.ToType())
	require.NoError(t, AppendFixedList(dense, []int64{1, 2}, nil, mp))
	w = GenerateFunctionFixedTypeParameter[int64](dense)
	_, ok = w.(*FunctionParameterWithoutNull[int64])
	require.True(t, ok)
	v, _ = w.GetValue(1)
	require.Equal(t, int64(2), v)

	scalar, err := NewConstFixed(types.T_int64.ToType(), int64(9), 4, mp)
	require.NoError(t, err)
	w = GenerateFunctionFixedTypeParameter[int64](scalar)
	v, _ = w.GetValue(3)
	require.Equal(t, int64(9), v)
	require.Equal(t, types.T_int64, w.GetType().Oid)

	w = GenerateFunctionFixedTypeParameter[int64](NewConstNull(types.T_int64.ToType(), 2))
	_, null = w.GetValue(1)
	require.True(t, null)
	require.Nil(t, w.UnSafeGetAllValue())
}
