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

package aggexec

import (
	"github.com/matrixorigin/sampleagg/pkg/common/mpool"
	"github.com/matrixorigin/sampleagg/pkg/container/batch"
	"github.com/matrixorigin/sampleagg/pkg/container/types"
	"github.com/matrixorigin/sampleagg/pkg/container/vector"
)

// AggMemoryManager is the source of the arena an aggregation allocates from.
type AggMemoryManager interface {
	Mp() *mpool.MPool
}

type SimpleAggMemoryManager struct {
	mp *mpool.MPool
}

func NewSimpleAggMemoryManager(mp *mpool.MPool) AggMemoryManager {
	return SimpleAggMemoryManager{mp: mp}
}

func (m SimpleAggMemoryManager) Mp() *mpool.MPool {
	return m.mp
}

// IntermediateStateDesc describes one column of the intermediate result.
type IntermediateStateDesc struct {
	Name string
	Typ  types.Type
}

type AggFuncExec interface {
	// TypesInfo return the argument types and return type of the function.
	TypesInfo() ([]types.Type, types.Type)

	// IntermediateStateDesc and IntermediateBlockCount describe the layout
	// of the partial result produced by EvaluateIntermediate.
	IntermediateStateDesc() []IntermediateStateDesc
	IntermediateBlockCount() int

	// AddRawInput feeds the rows of bat selected by mask to the aggregation.
	// a nil mask selects every row.
	AddRawInput(bat *batch.Batch, mask *vector.Vector) error

	// AddIntermediateInput merges a partial result into the aggregation.
	AddIntermediateInput(bat *batch.Batch) error

	// EvaluateIntermediate and EvaluateFinal set vecs[offset] to a new vector
	// holding the partial or the final result.
	// the caller owns the vector and frees it with the same memory pool.
	EvaluateIntermediate(vecs []*vector.Vector, offset int) error
	EvaluateFinal(vecs []*vector.Vector, offset int) error

	String() string

	// Free releases the memory held by the aggregation, it can be called more than once.
	Free()
}
