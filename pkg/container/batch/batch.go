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
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/matrixorigin/sampleagg/pkg/common/moerr"
	"github.com/matrixorigin/sampleagg/pkg/common/mpool"
	"github.com/matrixorigin/sampleagg/pkg/container/vector"
	"github.com/matrixorigin/sampleagg/pkg/logutil"
)

func New(attrs []string) *Batch {
	return &Batch{
		Cnt:      1,
		Attrs:    attrs,
		Vecs:     make([]*vector.Vector, len(attrs)),
		rowCount: 0,
	}
}

func NewWithSize(n int) *Batch {
	return &Batch{
		Cnt:      1,
		Vecs:     make([]*vector.Vector, n),
		rowCount: 0,
	}
}

// NewWithVectors builds a batch over vecs, which must all have the
// same number of rows.
func NewWithVectors(attrs []string, vecs ...*vector.Vector) (*Batch, error) {
	if attrs != nil && len(attrs) != len(vecs) {
		return nil, moerr.NewInvalidInputNoCtx("%d attributes for %d vectors", len(attrs), len(vecs))
	}
	bat := &Batch{
		Cnt:   1,
		Attrs: attrs,
		Vecs:  vecs,
	}
	for i, vec := range vecs {
		if i == 0 {
			bat.rowCount = vec.Length()
		} else if vec.Length() != bat.rowCount {
			return nil, moerr.NewInvalidInputNoCtx("vector %d has %d rows, expected %d", i, vec.Length(), bat.rowCount)
		}
	}
	return bat, nil
}

func (bat *Batch) Size() int {
	var size int

	for _, vec := range bat.Vecs {
		if vec != nil {
			size += vec.Size()
		}
	}
	return size
}

func (bat *Batch) RowCount() int {
	return bat.rowCount
}

func (bat *Batch) SetRowCount(rowCount int) {
	bat.rowCount = rowCount
}

func (bat *Batch) VectorCount() int {
	return len(bat.Vecs)
}

func (bat *Batch) SetAttributes(attrs []string) {
	bat.Attrs = attrs
}

func (bat *Batch) SetVector(pos int32, vec *vector.Vector) {
	bat.Vecs[pos] = vec
}

func (bat *Batch) GetVector(pos int32) *vector.Vector {
	return bat.Vecs[pos]
}

func (bat *Batch) IsEmpty() bool {
	return bat.rowCount == 0
}

func (bat *Batch) AddCnt(cnt int) {
	atomic.AddInt64(&bat.Cnt, int64(cnt))
}

func (bat *Batch) GetCnt() int64 {
	return atomic.LoadInt64(&bat.Cnt)
}

// Clean drops one reference and frees the vectors with the last one.
func (bat *Batch) Clean(m *mpool.MPool) {
	if bat == EmptyBatch {
		return
	}
	if atomic.LoadInt64(&bat.Cnt) == 0 {
		return
	}
	if atomic.AddInt64(&bat.Cnt, -1) > 0 {
		return
	}
	for _, vec := range bat.Vecs {
		if vec != nil {
			vec.Free(m)
		}
	}
	bat.Attrs = nil
	bat.rowCount = 0
	bat.Vecs = nil
}

func (bat *Batch) String() string {
	var buf bytes.Buffer

	for i, vec := range bat.Vecs {
		buf.WriteString(fmt.Sprintf("%d : %s\n", i, vec.String()))
	}
	return buf.String()
}

func (bat *Batch) Log(tag string) {
	if bat == nil || bat.rowCount < 1 {
		return
	}
	logutil.Infof("\n" + tag + "\n" + bat.String())
}
