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
	"bytes"
	"fmt"

	"github.com/matrixorigin/sampleagg/pkg/common/moerr"
	"github.com/matrixorigin/sampleagg/pkg/common/mpool"
	"github.com/matrixorigin/sampleagg/pkg/container/nulls"
	"github.com/matrixorigin/sampleagg/pkg/container/types"
)

const (
	FLAT     = iota // flat vector represent a uncompressed vector
	CONSTANT        // const vector
)

// Vector represent a column.
//
// Values are stored flattened: fixed length values packed in data,
// variable length values in area delimited by offs.  A row holds
// GetValueCount(row) values starting at GetFirstValueIndex(row).  As
// long as every row holds exactly one value firsts is nil and row i is
// value i.  The first null or multi-valued row switches the vector to
// the indexed layout, where a null row holds no value.
type Vector struct {
	// vector's class
	class int
	// type represent the type of column
	typ types.Type
	nsp *nulls.Nulls // nulls list

	// data of fixed length element
	data []byte
	// area for holding variable length elements.
	area []byte
	// offs[i] is the start of value i in area, offs[nvals] the end.
	offs []uint32
	// number of values
	nvals int

	// firsts[row] is the index of the first value of row, it has
	// length+1 entries.  nil for the one-value-per-row layout.
	firsts []int32

	// number of rows
	length int
}

func NewVec(typ types.Type) *Vector {
	return &Vector{
		class: FLAT,
		typ:   typ,
		nsp:   &nulls.Nulls{},
	}
}

func NewConstNull(typ types.Type, length int) *Vector {
	vec := &Vector{
		class:  CONSTANT,
		typ:    typ,
		nsp:    &nulls.Nulls{},
		length: length,
	}
	nulls.Add(vec.nsp, 0)
	return vec
}

func NewConstFixed[T types.FixedSizeT](typ types.Type, val T, length int, mp *mpool.MPool) (*Vector, error) {
	return NewConstBytes(typ, types.EncodeFixed(val), length, mp)
}

func NewConstBytes(typ types.Type, val []byte, length int, mp *mpool.MPool) (*Vector, error) {
	vec := NewVec(typ)
	if err := vec.appendValue(val, mp); err != nil {
		return nil, err
	}
	vec.class = CONSTANT
	vec.length = length
	return vec, nil
}

func (v *Vector) Length() int {
	return v.length
}

// Size of data.  Only meaningful for (approximate) memory accounting.
func (v *Vector) Size() int {
	return len(v.data) + len(v.area) + 4*len(v.offs) + 4*len(v.firsts)
}

func (v *Vector) GetType() *types.Type {
	return &v.typ
}

func (v *Vector) GetNulls() *nulls.Nulls {
	return v.nsp
}

func (v *Vector) IsConst() bool {
	return v.class == CONSTANT
}

func (v *Vector) IsConstNull() bool {
	return v.IsConst() && nulls.Contains(v.nsp, 0)
}

// IsDense reports whether v is flat, null free and holds exactly one
// value per row, so that row i is value i.
func (v *Vector) IsDense() bool {
	return v.class == FLAT && v.firsts == nil
}

func (v *Vector) IsNull(i uint64) bool {
	if v.IsConst() {
		return v.IsConstNull()
	}
	return nulls.Contains(v.nsp, i)
}

func (v *Vector) HasNull() bool {
	if v.IsConst() {
		return v.IsConstNull()
	}
	return nulls.Any(v.nsp)
}

// AllNull reports whether no row of v holds a value.
func (v *Vector) AllNull() bool {
	if v.length == 0 {
		return true
	}
	if v.IsConst() {
		return v.IsConstNull()
	}
	return nulls.Length(v.nsp) == v.length
}

func (v *Vector) GetFirstValueIndex(row int) int {
	if v.IsConst() {
		return 0
	}
	if v.firsts == nil {
		return row
	}
	return int(v.firsts[row])
}

func (v *Vector) GetValueCount(row int) int {
	if v.IsConst() {
		if v.IsConstNull() {
			return 0
		}
		return 1
	}
	if v.firsts == nil {
		return 1
	}
	return int(v.firsts[row+1] - v.firsts[row])
}

// ValueCount returns the number of values stored over all rows.
func (v *Vector) ValueCount() int {
	return v.nvals
}

// GetRawBytesAt returns the bytes of the i-th value without copying.
// Fixed length values come back in their in-memory encoding.  The
// result aliases the vector and is valid until the vector is freed.
func (v *Vector) GetRawBytesAt(i int) []byte {
	if v.typ.IsVarlen() {
		return v.area[v.offs[i]:v.offs[i+1]]
	}
	sz := v.typ.TypeSize()
	return v.data[i*sz : (i+1)*sz]
}

func (v *Vector) GetBytesAt(i int) []byte {
	return v.GetRawBytesAt(i)
}

func (v *Vector) GetStringAt(i int) string {
	return string(v.GetRawBytesAt(i))
}

func GetFixedAt[T types.FixedSizeT](v *Vector, i int) T {
	return types.DecodeFixed[T](v.GetRawBytesAt(i))
}

// MustFixedCol returns every value of a fixed length vector.
func MustFixedCol[T types.FixedSizeT](v *Vector) []T {
	if v.typ.IsVarlen() {
		panic(moerr.NewInternalErrorNoCtx("fixed col of %s vector", v.typ.String()))
	}
	return types.DecodeSlice[T](v.data[:v.nvals*v.typ.TypeSize()])
}

func (v *Vector) Free(mp *mpool.MPool) {
	mp.Free(v.data)
	mp.Free(v.area)
	v.data = nil
	v.area = nil
	v.offs = nil
	v.firsts = nil
	v.nvals = 0
	v.length = 0
	nulls.Reset(v.nsp)
}

func (v *Vector) appendValue(val []byte, mp *mpool.MPool) error {
	if v.typ.IsVarlen() {
		if len(v.offs) == 0 {
			v.offs = append(v.offs, 0)
		}
		start := len(v.area)
		area, err := mp.Grow(v.area, start+len(val))
		if err != nil {
			return err
		}
		copy(area[start:], val)
		v.area = area
		v.offs = append(v.offs, uint32(len(area)))
	} else {
		sz := v.typ.TypeSize()
		if len(val) != sz {
			return moerr.NewInvalidInputNoCtx("%d bytes is not a %s value", len(val), v.typ.String())
		}
		start := len(v.data)
		data, err := mp.Grow(v.data, start+sz)
		if err != nil {
			return err
		}
		copy(data[start:], val)
		v.data = data
	}
	v.nvals++
	return nil
}

// truncateValues drops every value from the n-th on.
func (v *Vector) truncateValues(n int) {
	if n >= v.nvals {
		return
	}
	if v.typ.IsVarlen() {
		v.area = v.area[:v.offs[n]]
		v.offs = v.offs[:n+1]
	} else {
		v.data = v.data[:n*v.typ.TypeSize()]
	}
	v.nvals = n
}

func (v *Vector) toIndexedLayout() {
	if v.firsts != nil {
		return
	}
	v.firsts = make([]int32, v.length+1, v.length+8)
	for i := range v.firsts {
		v.firsts[i] = int32(i)
	}
}

func (v *Vector) appendRow(vals [][]byte, isNull bool, mp *mpool.MPool) error {
	if v.IsConst() {
		return moerr.NewInvalidStateNoCtx("append to const vector")
	}
	if isNull || len(vals) != 1 {
		v.toIndexedLayout()
	}
	if !isNull {
		n := v.nvals
		for _, val := range vals {
			if err := v.appendValue(val, mp); err != nil {
				v.truncateValues(n)
				return err
			}
		}
	} else {
		nulls.Add(v.nsp, uint64(v.length))
	}
	v.length++
	if v.firsts != nil {
		v.firsts = append(v.firsts, int32(v.nvals))
	}
	return nil
}

// AppendBytes appends one row.  For a fixed length vector val is the
// in-memory encoding of the value.
func AppendBytes(vec *Vector, val []byte, isNull bool, mp *mpool.MPool) error {
	if isNull {
		return vec.appendRow(nil, true, mp)
	}
	return vec.appendRow([][]byte{val}, false, mp)
}

// AppendMultiBytes appends one row holding every value of vals.
func AppendMultiBytes(vec *Vector, vals [][]byte, mp *mpool.MPool) error {
	return vec.appendRow(vals, false, mp)
}

func AppendBytesList(vec *Vector, ws [][]byte, isNulls []bool, mp *mpool.MPool) error {
	for i, w := range ws {
		if err := AppendBytes(vec, w, len(isNulls) > 0 && isNulls[i], mp); err != nil {
			return err
		}
	}
	return nil
}

func AppendStringList(vec *Vector, ws []string, isNulls []bool, mp *mpool.MPool) error {
	for i, w := range ws {
		if err := AppendBytes(vec, []byte(w), len(isNulls) > 0 && isNulls[i], mp); err != nil {
			return err
		}
	}
	return nil
}

func AppendFixed[T types.FixedSizeT](vec *Vector, val T, isNull bool, mp *mpool.MPool) error {
	return AppendBytes(vec, types.EncodeFixed(val), isNull, mp)
}

func AppendMultiFixed[T types.FixedSizeT](vec *Vector, vals []T, mp *mpool.MPool) error {
	raws := make([][]byte, len(vals))
	for i := range vals {
		raws[i] = types.EncodeFixed(vals[i])
	}
	return vec.appendRow(raws, false, mp)
}

func AppendFixedList[T types.FixedSizeT](vec *Vector, ws []T, isNulls []bool, mp *mpool.MPool) error {
	for i, w := range ws {
		if err := AppendFixed(vec, w, len(isNulls) > 0 && isNulls[i], mp); err != nil {
			return err
		}
	}
	return nil
}

func (v *Vector) String() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for row := 0; row < v.length; row++ {
		if row > 0 {
			buf.WriteByte(' ')
		}
		if v.IsNull(uint64(row)) {
			buf.WriteString("null")
			continue
		}
		first, cnt := v.GetFirstValueIndex(row), v.GetValueCount(row)
		if cnt != 1 {
			buf.WriteByte('[')
		}
		for i := 0; i < cnt; i++ {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(v.valueString(first + i))
		}
		if cnt != 1 {
			buf.WriteByte(']')
		}
	}
	buf.WriteByte(']')
	return buf.String()
}

func (v *Vector) valueString(i int) string {
	switch v.typ.Oid {
	case types.T_bool:
		return fmt.Sprintf("%v", GetFixedAt[bool](v, i))
	case types.T_int8:
		return fmt.Sprintf("%v", GetFixedAt[int8](v, i))
	case types.T_int16:
		return fmt.Sprintf("%v", GetFixedAt[int16](v, i))
	case types.T_int32:
		return fmt.Sprintf("%v", GetFixedAt[int32](v, i))
	case types.T_int64:
		return fmt.Sprintf("%v", GetFixedAt[int64](v, i))
	case types.T_uint8:
		return fmt.Sprintf("%v", GetFixedAt[uint8](v, i))
	case types.T_uint16:
		return fmt.Sprintf("%v", GetFixedAt[uint16](v, i))
	case types.T_uint32:
		return fmt.Sprintf("%v", GetFixedAt[uint32](v, i))
	case types.T_uint64:
		return fmt.Sprintf("%v", GetFixedAt[uint64](v, i))
	case types.T_float32:
		return fmt.Sprintf("%v", GetFixedAt[float32](v, i))
	case types.T_float64:
		return fmt.Sprintf("%v", GetFixedAt[float64](v, i))
	default:
		return v.GetStringAt(i)
	}
}
