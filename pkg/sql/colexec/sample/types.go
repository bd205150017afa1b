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
	"github.com/panjf2000/ants/v2"

	"github.com/matrixorigin/sampleagg/pkg/container/batch"
	"github.com/matrixorigin/sampleagg/pkg/container/types"
	"github.com/matrixorigin/sampleagg/pkg/container/vector"
	"github.com/matrixorigin/sampleagg/pkg/sql/colexec/aggexec"
)

// Partition is the input of one partial sample.
// Masks is either empty or parallel to Batches, a nil mask selects every row.
type Partition struct {
	Batches []*batch.Batch
	Masks   []*vector.Vector
}

type container struct {
	aggId int64
	pool  *ants.Pool
	final aggexec.AggFuncExec
	// dirty is set once final has merged a partial result.
	dirty bool

	// buf is the last result, it is released by the next Call or by Free.
	buf *batch.Batch
}

// Argument samples column Column of every partition in parallel and merges the
// partial samples into at most Limit values.
type Argument struct {
	Limit   int64
	ArgType types.Type
	Column  int32
	// Parallelism is the number of partitions sampled at the same time.
	Parallelism       int
	CompressThreshold int

	ctr *container
}

type partialResult struct {
	bat *batch.Batch
	err error
}
