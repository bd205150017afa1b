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

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestType_DescString(t *testing.T) {
	require.Equal(t, Type{
		Oid:   T_char,
		Width: 10,
	}.DescString(), "CHAR(10)")

	require.Equal(t, Type{
		Oid:   T_varchar,
		Width: 20,
	}.DescString(), "VARCHAR(20)")

	require.Equal(t, Type{
		Oid:   T_varbinary,
		Width: 0,
	}.DescString(), "VARBINARY(0)")

	require.Equal(t, T_int64.ToType().DescString(), "BIGINT")
}

func TestToType(t *testing.T) {
	for _, oid := range Types {
		typ := oid.ToType()
		require.Equal(t, oid, typ.Oid)
		switch oid {
		case T_char, T_varchar, T_binary, T_varbinary, T_text, T_blob:
			require.True(t, typ.IsVarlen(), oid.String())
			require.Equal(t, 0, typ.TypeSize())
			require.False(t, oid.IsFixedLen())
		default:
			require.False(t, typ.IsVarlen(), oid.String())
			require.Equal(t, oid.FixedLength(), typ.TypeSize())
		}
	}
	require.Equal(t, 8, T_float64.ToType().TypeSize())
	require.Equal(t, 1, T_bool.ToType().TypeSize())
	require.Panics(t, func() { T(200).ToType() })
}

func TestParseT(t *testing.T) {
	tests := []struct {
		name string
		want T
		ok   bool
	}{
		{"varchar", T_varchar, true},
		{" BIGINT ", T_int64, true},
		{"double", T_float64, true},
		{"string", T_varchar, true},
		{"int unsigned", T_uint32, true},
		{"decimal", T_any, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseT(tt.name)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeFixed(t *testing.T) {
	require.Equal(t, int64(-42), DecodeFixed[int64](EncodeFixed(int64(-42))))
	require.Equal(t, 3.5, DecodeFixed[float64](EncodeFixed(3.5)))
	require.Equal(t, true, DecodeBool(EncodeFixed(true)))
	require.Equal(t, []int32{1, 2, 3}, DecodeSlice[int32](EncodeSlice([]int32{1, 2, 3})))
	require.Panics(t, func() { DecodeSlice[int64](make([]byte, 7)) })

	v := int64(7)
	require.Equal(t, int64(7), DecodeInt64(EncodeInt64(&v)))
	f := 1.25
	require.Equal(t, 1.25, DecodeFloat64(EncodeFloat64(&f)))

	typ := T_varchar.ToType()
	typ.Width = 30
	require.Equal(t, typ, DecodeType(EncodeType(&typ)))
}
