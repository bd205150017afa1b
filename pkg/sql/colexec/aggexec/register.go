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
	"sync"

	"github.com/matrixorigin/sampleagg/pkg/common/moerr"
	"github.com/matrixorigin/sampleagg/pkg/container/types"
)

/*
	methods to register the aggregation function.
	after registered, the function `MakeAgg` can make the aggregation function executor.
*/

// DefaultSampleAggId is the id the sample aggregation is registered with at start.
const DefaultSampleAggId int64 = 1

func init() {
	RegisterSample(DefaultSampleAggId)
}

// RegisterSample registers the sample aggregation for every supported argument type.
//
// make parameters: limit, and optionally the compress threshold of the
// intermediate result.
func RegisterSample(id int64) {
	registryLock.Lock()
	defer registryLock.Unlock()

	aggIdOfSample = id
	aggNames["sample"] = id
	for _, oid := range types.Types {
		registeredAggFunctions[generateKeyOfSingleColumnAgg(id, oid.ToType())] = aggImplementation{
			name: "sample",
			ret:  func(args []types.Type) types.Type { return args[0] },
			make: makeSampleAgg,
		}
	}
}

func makeSampleAgg(mg AggMemoryManager, channels []int32, arg types.Type, params ...int64) (AggFuncExec, error) {
	if len(params) == 0 {
		return nil, moerr.NewInvalidArgNoCtx("sample limit", "missing")
	}
	var opts []SampleOption
	if len(params) > 1 {
		opts = append(opts, WithCompressThreshold(int(params[1])))
	}
	return NewSampleAggFuncExec(mg, channels, arg, params[0], opts...)
}

type aggKey string

func generateKeyOfSingleColumnAgg(aggID int64, argType types.Type) aggKey {
	return aggKey(fmt.Sprintf("s_%d_%d", aggID, argType.Oid))
}

var (
	registryLock sync.RWMutex

	aggIdOfSample = int64(-1)
	aggNames      = make(map[string]int64)
)

type aggImplementation struct {
	name string
	ret  func([]types.Type) types.Type
	make func(mg AggMemoryManager, channels []int32, arg types.Type, params ...int64) (AggFuncExec, error)
}

var (
	registeredAggFunctions = make(map[aggKey]aggImplementation)
)

func getSingleAggImplByInfo(
	id int64, arg types.Type) (aggInfo aggImplementation, err error) {
	key := generateKeyOfSingleColumnAgg(id, arg)

	registryLock.RLock()
	defer registryLock.RUnlock()
	if impl, ok := registeredAggFunctions[key]; ok {
		return impl, nil
	}
	return aggImplementation{}, moerr.NewInternalErrorNoCtx("no implementation for aggID %d with argType %s", id, arg.String())
}

// GetAggIdByName returns the id an aggregation was registered with.
func GetAggIdByName(name string) (int64, error) {
	registryLock.RLock()
	defer registryLock.RUnlock()
	if id, ok := aggNames[name]; ok {
		return id, nil
	}
	return 0, moerr.NewNotSupportedNoCtx("aggregation %s", name)
}

// GetAggReturnType returns the result type of aggregation id over args.
func GetAggReturnType(id int64, args ...types.Type) (types.Type, error) {
	if len(args) != 1 {
		return types.Type{}, moerr.NewNYINoCtx("aggregation over %d columns", len(args))
	}
	impl, err := getSingleAggImplByInfo(id, args[0])
	if err != nil {
		return types.Type{}, err
	}
	return impl.ret(args), nil
}

// MakeAgg makes an executor of aggregation id reading column channels[0] of type arg.
func MakeAgg(
	mg AggMemoryManager,
	id int64, channels []int32, arg types.Type, params ...int64) (AggFuncExec, error) {
	impl, err := getSingleAggImplByInfo(id, arg)
	if err != nil {
		return nil, err
	}
	return impl.make(mg, channels, arg, params...)
}

// IsSample reports whether id is the sample aggregation.
func IsSample(id int64) bool {
	registryLock.RLock()
	defer registryLock.RUnlock()
	return id == aggIdOfSample
}
