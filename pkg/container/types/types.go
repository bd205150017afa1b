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
	"fmt"
	"strings"
)

type T uint8

const (
	// any family
	T_any T = 0

	// bool family
	T_bool T = 10

	// numeric/integer family
	T_int8   T = 20
	T_int16  T = 21
	T_int32  T = 22
	T_int64  T = 23
	T_uint8  T = 25
	T_uint16 T = 26
	T_uint32 T = 27
	T_uint64 T = 28

	// numeric/float family
	T_float32 T = 30
	T_float64 T = 31

	// string family
	T_char      T = 40
	T_varchar   T = 41
	T_binary    T = 42
	T_varbinary T = 43
	T_text      T = 60
	T_blob      T = 61
)

type Type struct {
	Oid T

	// XXX Dummy.  Fill to make type aligned
	Charset uint8
	notNull uint8
	dummy2  uint8

	Size int32
	// Width means max Display width for float and double, char and varchar
	// todo: need to add new attribute DisplayWidth ?
	Width int32
	// Scale means number of fractional digits for decimal, timestamp, float, etc.
	Scale int32
}

type Bools interface {
	bool
}

type Ints interface {
	int8 | int16 | int32 | int64
}

type UInts interface {
	uint8 | uint16 | uint32 | uint64
}

type Floats interface {
	float32 | float64
}

type FixedSizeT interface {
	Bools | Ints | UInts | Floats
}

// Types lists every oid a sample can be taken over.
var Types = []T{
	T_bool,
	T_int8, T_int16, T_int32, T_int64,
	T_uint8, T_uint16, T_uint32, T_uint64,
	T_float32, T_float64,
	T_char, T_varchar, T_binary, T_varbinary, T_text, T_blob,
}

func New(oid T, width, scale int32) Type {
	typ := oid.ToType()
	typ.Width = width
	typ.Scale = scale
	return typ
}

func (t T) ToType() Type {
	var typ Type

	typ.Oid = t
	switch t {
	case T_bool, T_int8, T_uint8:
		typ.Size = 1
	case T_int16, T_uint16:
		typ.Size = 2
	case T_int32, T_uint32, T_float32:
		typ.Size = 4
	case T_int64, T_uint64, T_float64:
		typ.Size = 8
	case T_char, T_varchar, T_binary, T_varbinary, T_text, T_blob:
		typ.Size = VarlenaSize
	case T_any:
		// XXX I don't know about this one ...
		typ.Size = 0
	default:
		panic(fmt.Sprintf("unknown type %d", t))
	}
	return typ
}

// VarlenaSize marks a variable length type.  Values of such a type
// are stored in the vector area, not in the fixed data slots.
const VarlenaSize = -1

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_bool:
		return "BOOL"
	case T_int8:
		return "TINYINT"
	case T_int16:
		return "SMALLINT"
	case T_int32:
		return "INT"
	case T_int64:
		return "BIGINT"
	case T_uint8:
		return "TINYINT UNSIGNED"
	case T_uint16:
		return "SMALLINT UNSIGNED"
	case T_uint32:
		return "INT UNSIGNED"
	case T_uint64:
		return "BIGINT UNSIGNED"
	case T_float32:
		return "FLOAT"
	case T_float64:
		return "DOUBLE"
	case T_char:
		return "CHAR"
	case T_varchar:
		return "VARCHAR"
	case T_binary:
		return "BINARY"
	case T_varbinary:
		return "VARBINARY"
	case T_text:
		return "TEXT"
	case T_blob:
		return "BLOB"
	}
	return fmt.Sprintf("unexpected type: %d", t)
}

// FixedLength returns the byte width of a fixed size type and
// VarlenaSize for variable length types.
func (t T) FixedLength() int {
	return int(t.ToType().Size)
}

func (t T) IsFixedLen() bool {
	return t.FixedLength() > 0
}

func (t Type) IsVarlen() bool {
	return t.Size == VarlenaSize
}

func (t Type) IsFixedLen() bool {
	return t.Size > 0
}

// TypeSize returns the byte width of one value, 0 for variable length.
func (t Type) TypeSize() int {
	if t.Size < 0 {
		return 0
	}
	return int(t.Size)
}

func (t Type) String() string {
	return t.Oid.String()
}

func (t Type) DescString() string {
	switch t.Oid {
	case T_char, T_varchar, T_binary, T_varbinary:
		return fmt.Sprintf("%s(%d)", t.Oid.String(), t.Width)
	}
	return t.Oid.String()
}

func (t Type) Eq(b Type) bool {
	switch t.Oid {
	case T_char, T_varchar, T_binary, T_varbinary:
		return t.Oid == b.Oid && t.Width == b.Width
	}
	return t.Oid == b.Oid && t.Size == b.Size && t.Width == b.Width && t.Scale == b.Scale
}

// ParseT maps a type name such as "varchar" or "bigint" to its oid.
func ParseT(name string) (T, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, t := range Types {
		if t.String() == name {
			return t, true
		}
	}
	switch name {
	case "INT64":
		return T_int64, true
	case "FLOAT64":
		return T_float64, true
	case "STRING":
		return T_varchar, true
	}
	return T_any, false
}
