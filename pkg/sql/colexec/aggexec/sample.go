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
	"fmt"

	"github.com/matrixorigin/sampleagg/pkg/common/moerr"
	"github.com/matrixorigin/sampleagg/pkg/container/batch"
	"github.com/matrixorigin/sampleagg/pkg/container/types"
	"github.com/matrixorigin/sampleagg/pkg/container/vector"
)

const sampleIntermediateName = "sample"

var _ AggFuncExec = &sampleAggFuncExec{}

// sampleAggFuncExec returns a random sample of at most limit values of its
// argument column as one multi-valued row.
type sampleAggFuncExec struct {
	mg       AggMemoryManager
	channels []int32
	argType  types.Type

	compressThreshold int

	state *ReservoirState
}

type SampleOption func(*sampleAggFuncExec)

// WithCompressThreshold compresses intermediate results of at least n bytes.
func WithCompressThreshold(n int) SampleOption {
	return func(exec *sampleAggFuncExec) {
		exec.compressThreshold = n
	}
}

func NewSampleAggFuncExec(
	mg AggMemoryManager, channels []int32, argType types.Type, limit int64, opts ...SampleOption) (AggFuncExec, error) {
	if len(channels) != 1 {
		return nil, moerr.NewInvalidArgNoCtx("sample input channels", channels)
	}
	state, err := NewReservoirState(mg.Mp(), argType, limit)
	if err != nil {
		return nil, err
	}
	exec := &sampleAggFuncExec{
		mg:       mg,
		channels: channels,
		argType:  argType,
		state:    state,
	}
	for _, opt := range opts {
		opt(exec)
	}
	return exec, nil
}

func (exec *sampleAggFuncExec) TypesInfo() ([]types.Type, types.Type) {
	return []types.Type{exec.argType}, exec.argType
}

func (exec *sampleAggFuncExec) IntermediateStateDesc() []IntermediateStateDesc {
	return []IntermediateStateDesc{{Name: sampleIntermediateName, Typ: types.T_varbinary.ToType()}}
}

func (exec *sampleAggFuncExec) IntermediateBlockCount() int {
	return 1
}

func (exec *sampleAggFuncExec) inputVector(bat *batch.Batch) (*vector.Vector, error) {
	ch := exec.channels[0]
	if ch < 0 || int(ch) >= bat.VectorCount() {
		return nil, moerr.NewInvalidInputNoCtx("channel %d out of range, batch has %d vectors", ch, bat.VectorCount())
	}
	return bat.GetVector(ch), nil
}

func (exec *sampleAggFuncExec) AddRawInput(bat *batch.Batch, mask *vector.Vector) error {
	vec, err := exec.inputVector(bat)
	if err != nil {
		return err
	}
	if vec.GetType().Oid != exec.argType.Oid {
		return moerr.NewInvalidInputNoCtx("sample of %s got a %s column", exec.argType.String(), vec.GetType().String())
	}
	if mask != nil {
		if mask.GetType().Oid != types.T_bool {
			return moerr.NewInvalidInputNoCtx("mask must be BOOL, got %s", mask.GetType().String())
		}
		if mask.Length() != bat.RowCount() {
			return moerr.NewInvalidInputNoCtx("mask has %d rows, batch has %d", mask.Length(), bat.RowCount())
		}
	}

	switch mode := vector.GetMaskMode(mask); {
	case mode == vector.MaskAllFalse:
		return nil
	case vec.IsDense() && mode == vector.MaskAllTrue:
		return exec.addDense(vec)
	case vec.IsDense():
		return exec.addDenseMasked(vec, vector.GenerateFunctionFixedTypeParameter[bool](mask))
	case mode == vector.MaskAllTrue:
		return exec.addBlock(vec, nil)
	default:
		return exec.addBlock(vec, vector.GenerateFunctionFixedTypeParameter[bool](mask))
	}
}

func (exec *sampleAggFuncExec) addDense(vec *vector.Vector) error {
	for i, n := 0, vec.Length(); i < n; i++ {
		if err := exec.state.Combine(vec.GetRawBytesAt(i)); err != nil {
			return err
		}
	}
	return nil
}

func (exec *sampleAggFuncExec) addDenseMasked(vec *vector.Vector, mask vector.FunctionParameterWrapper[bool]) error {
	for i, n := uint64(0), uint64(vec.Length()); i < n; i++ {
		if v, null := mask.GetValue(i); !v || null {
			continue
		}
		if err := exec.state.Combine(vec.GetRawBytesAt(int(i))); err != nil {
			return err
		}
	}
	return nil
}

// addBlock handles const vectors and vectors with null or multi-valued rows.
// every value of a selected row is one observation.
func (exec *sampleAggFuncExec) addBlock(vec *vector.Vector, mask vector.FunctionParameterWrapper[bool]) error {
	if vec.AllNull() {
		return nil
	}
	for p, n := 0, vec.Length(); p < n; p++ {
		if mask != nil {
			if v, null := mask.GetValue(uint64(p)); !v || null {
				continue
			}
		}
		if vec.IsNull(uint64(p)) {
			continue
		}
		first := vec.GetFirstValueIndex(p)
		for i, cnt := 0, vec.GetValueCount(p); i < cnt; i++ {
			if err := exec.state.Combine(vec.GetRawBytesAt(first + i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (exec *sampleAggFuncExec) AddIntermediateInput(bat *batch.Batch) error {
	vec, err := exec.inputVector(bat)
	if err != nil {
		return err
	}
	if vec.AllNull() {
		return nil
	}
	if vec.Length() != 1 {
		return moerr.NewInternalErrorNoCtx("sample intermediate input has %d rows, expected 1", vec.Length())
	}
	if vec.GetType().Oid != types.T_varbinary {
		return moerr.NewInternalErrorNoCtx("sample intermediate input is %s, expected VARBINARY", vec.GetType().String())
	}
	if cnt := vec.GetValueCount(0); cnt != 1 {
		return moerr.NewInternalErrorNoCtx("sample intermediate row has %d values, expected 1", cnt)
	}
	return exec.state.CombineIntermediate(vec.GetBytesAt(vec.GetFirstValueIndex(0)))
}

func checkOffset(vecs []*vector.Vector, offset int) error {
	if offset < 0 || offset >= len(vecs) {
		return moerr.NewInvalidInputNoCtx("result offset %d out of range [0, %d)", offset, len(vecs))
	}
	return nil
}

func (exec *sampleAggFuncExec) EvaluateIntermediate(vecs []*vector.Vector, offset int) error {
	if err := checkOffset(vecs, offset); err != nil {
		return err
	}
	typ := types.T_varbinary.ToType()
	data, err := exec.state.ToIntermediate(exec.compressThreshold)
	if err != nil {
		return err
	}
	if data == nil {
		vecs[offset] = vector.NewConstNull(typ, 1)
		return nil
	}
	vec := vector.NewVec(typ)
	if err = vector.AppendBytes(vec, data, false, exec.mg.Mp()); err != nil {
		vec.Free(exec.mg.Mp())
		return err
	}
	vecs[offset] = vec
	return nil
}

func (exec *sampleAggFuncExec) EvaluateFinal(vecs []*vector.Vector, offset int) error {
	if err := checkOffset(vecs, offset); err != nil {
		return err
	}
	if exec.state.Seen() == 0 {
		vecs[offset] = vector.NewConstNull(exec.argType, 1)
		return nil
	}
	vec := vector.NewVec(exec.argType)
	if err := vector.AppendMultiBytes(vec, exec.state.Values(), exec.mg.Mp()); err != nil {
		vec.Free(exec.mg.Mp())
		return err
	}
	vecs[offset] = vec
	return nil
}

func (exec *sampleAggFuncExec) String() string {
	return fmt.Sprintf("sample(%s, %d)", exec.argType.String(), exec.state.Limit())
}

func (exec *sampleAggFuncExec) Free() {
	exec.state.Free()
}
