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

package process

import (
	"context"

	"go.uber.org/zap"

	"github.com/matrixorigin/sampleagg/pkg/common/mpool"
)

type Limitation struct {
	Size      int64 // memory threshold
	BatchRows int64 // max rows for batch
}

// Process holds what one execution unit needs: its context, the
// arena its aggregation state allocates from and a logger.
type Process struct {
	Id     string // query id
	Lim    Limitation
	Ctx    context.Context
	Cancel context.CancelFunc

	mp     *mpool.MPool
	logger *zap.Logger
}
