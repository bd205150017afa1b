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

package batch

import (
	"testing"

	"github.com/matrixorigin/sampleagg/pkg/common/moerr"
	"github.com/matrixorigin/sampleagg/pkg/common/mpool"
	"github.com/matrixorigin/sampleagg/pkg/container/types"
	"github.com/matrixorigin/sampleagg/pkg/container/vector"
	"github.com/smartystreets/goconvey/convey"
)

func newVarcharVector(mp *mpool.MPool, vals ...string) *vector.Vector {
	vec := vector.NewVec(types.T_varchar.ToType())
	if err := vector.AppendStringList(vec, vals, nil, mp); err != nil {
		panic(err)
	}
	return vec
}

func TestBatch(t *testing.T) {
	convey.Convey("build and clean a batch", t, func() {
		mp := mpool.MustNewZero()
		bat, err := NewWithVectors([]string{"a", "b"}, newVarcharVector(mp, "x", "y"), newVarcharVector(mp, "z", "w"))
		convey.So(err, convey.ShouldBeNil)
		convey.So(bat.RowCount(), convey.ShouldEqual, 2)
		convey.So(bat.VectorCount(), convey.ShouldEqual, 2)
		convey.So(bat.GetVector(1).GetStringAt(0), convey.ShouldEqual, "z")
		convey.So(bat.String(), convey.ShouldEqual, "0 : [x y]\n1 : [z w]\n")
		convey.So(bat.Size(), convey.ShouldBeGreaterThan, 0)

		bat.AddCnt(1)
		bat.Clean(mp)
		convey.So(bat.GetCnt(), convey.ShouldEqual, 1)
		convey.So(mp.CurrNB(), convey.ShouldBeGreaterThan, 0)
		bat.Clean(mp)
		convey.So(mp.CurrNB(), convey.ShouldEqual, 0)
		convey.So(bat.VectorCount(), convey.ShouldEqual, 0)
		bat.Clean(mp)
	})

	convey.Convey("vectors must agree on row count", t, func() {
		mp := mpool.MustNewZero()
		_, err := NewWithVectors(nil, newVarcharVector(mp, "x"), newVarcharVector(mp, "y", "z"))
		convey.So(moerr.IsMoErrCode(err, moerr.ErrInvalidInput), convey.ShouldBeTrue)
		_, err = NewWithVectors([]string{"a"})
		convey.So(moerr.IsMoErrCode(err, moerr.ErrInvalidInput), convey.ShouldBeTrue)
	})

	convey.Convey("set vectors by position", t, func() {
		mp := mpool.MustNewZero()
		bat := New([]string{"sample"})
		bat.SetVector(0, newVarcharVector(mp, "v"))
		bat.SetRowCount(1)
		convey.So(bat.IsEmpty(), convey.ShouldBeFalse)
		bat.Log("sample")
		EmptyBatch.Clean(mp)
		convey.So(NewWithSize(3).VectorCount(), convey.ShouldEqual, 3)
	})
}
