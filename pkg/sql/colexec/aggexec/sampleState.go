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
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/matrixorigin/sampleagg/pkg/common/moerr"
	"github.com/matrixorigin/sampleagg/pkg/common/mpool"
	"github.com/matrixorigin/sampleagg/pkg/container/types"
)

// the initial capacity of the slot list, the list grows up to limit.
const initialSlotCount = 1024

var seedSequence atomic.Int64

// newRandSource returns the random source of a new reservoir.
// every reservoir owns its source so that partial aggregations never share one.
var newRandSource = func() rand.Source {
	return rand.NewSource(time.Now().UnixNano() ^ seedSequence.Add(1)<<32)
}

// ReservoirState keeps a uniform random sample of at most limit values out of
// every value it has observed.
//
// values are kept as raw bytes, fixed length values in their in-memory
// encoding. every retained value lives in its own buffer from mp.
type ReservoirState struct {
	mp    *mpool.MPool
	typ   types.Type
	limit int
	seen  int64
	slots [][]byte
	rng   *rand.Rand
}

func NewReservoirState(mp *mpool.MPool, typ types.Type, limit int64) (*ReservoirState, error) {
	if limit <= 0 {
		return nil, moerr.NewInvalidArgNoCtx("sample limit", limit)
	}
	n := limit
	if n > initialSlotCount {
		n = initialSlotCount
	}
	return &ReservoirState{
		mp:    mp,
		typ:   typ,
		limit: int(limit),
		slots: make([][]byte, 0, n),
		rng:   rand.New(newRandSource()),
	}, nil
}

func (s *ReservoirState) Limit() int64 {
	return int64(s.limit)
}

// Seen returns the number of values observed so far.
func (s *ReservoirState) Seen() int64 {
	return s.seen
}

// Len returns the number of retained values, it is always min(limit, Seen()).
func (s *ReservoirState) Len() int {
	return len(s.slots)
}

func (s *ReservoirState) Type() types.Type {
	return s.typ
}

// Values returns the retained values. The result aliases the state.
func (s *ReservoirState) Values() [][]byte {
	return s.slots
}

// store copies value into buf, reallocating buf when it is too small.
// on failure buf is returned untouched.
func (s *ReservoirState) store(buf []byte, value []byte) ([]byte, error) {
	if cap(buf) >= len(value) {
		buf = buf[:len(value)]
		copy(buf, value)
		return buf, nil
	}
	nb, err := s.mp.Alloc(len(value))
	if err != nil {
		return buf, err
	}
	copy(nb, value)
	s.mp.Free(buf)
	return nb, nil
}

// Combine observes one value.
//
// The first limit values are kept; after that the i-th value (counting from 0)
// replaces a random slot with probability limit/(i+1). On error the state is
// left as it was.
func (s *ReservoirState) Combine(value []byte) error {
	if len(s.slots) < s.limit {
		buf, err := s.store(nil, value)
		if err != nil {
			return err
		}
		s.slots = append(s.slots, buf)
	} else if j := s.rng.Int63n(s.seen + 1); j < int64(s.limit) {
		buf, err := s.store(s.slots[j], value)
		if err != nil {
			return err
		}
		s.slots[j] = buf
	}
	s.seen++
	return nil
}

// CombineIntermediate merges an encoded partial reservoir, see ToIntermediate.
func (s *ReservoirState) CombineIntermediate(data []byte) error {
	es, err := unmarshalSample(data)
	if err != nil {
		return err
	}
	if es.Limit != int64(s.limit) {
		return moerr.NewInvalidInputNoCtx("merge sample of limit %d into sample of limit %d", es.Limit, s.limit)
	}
	if types.T(es.Oid) != s.typ.Oid {
		return moerr.NewInvalidInputNoCtx("merge sample of %s into sample of %s", types.T(es.Oid).String(), s.typ.Oid.String())
	}
	return s.Merge(es.Seen, es.Values)
}

// Merge folds a peer reservoir that observed seen values and retained values
// into s. Afterwards s is distributed as a single reservoir over both streams.
//
// the number of slots taken from the peer follows the hypergeometric law of
// drawing min(limit, own+peer) observations without replacement. the own and
// peer survivors are uniform subsets of the retained values of each side.
func (s *ReservoirState) Merge(seen int64, values [][]byte) error {
	if seen < 0 || int64(len(values)) != min64(seen, int64(s.limit)) {
		return moerr.NewInternalErrorNoCtx("malformed sample: %d values for %d observations with limit %d", len(values), seen, s.limit)
	}
	if seen == 0 {
		return nil
	}
	if seen > math.MaxInt64-s.seen {
		return moerr.NewInternalErrorNoCtx("sample observation count overflows: %d + %d", s.seen, seen)
	}

	total := s.seen + seen
	final := min64(int64(s.limit), total)
	own, peer := s.seen, seen
	fromPeer := 0
	for i := int64(0); i < final; i++ {
		if s.rng.Int63n(own+peer) < peer {
			fromPeer++
			peer--
		} else {
			own--
		}
	}
	fromOwn := int(final) - fromPeer

	// own survivors are moved to the front.
	if fromOwn < len(s.slots) {
		for i := 0; i < fromOwn; i++ {
			j := i + s.rng.Intn(len(s.slots)-i)
			s.slots[i], s.slots[j] = s.slots[j], s.slots[i]
		}
	}
	picks := make([]int, len(values))
	for i := range picks {
		picks[i] = i
	}
	if fromPeer < len(values) {
		for i := 0; i < fromPeer; i++ {
			j := i + s.rng.Intn(len(picks)-i)
			picks[i], picks[j] = picks[j], picks[i]
		}
	}
	picks = picks[:fromPeer]

	// allocate first so that a failure leaves the retained set unchanged.
	bufs := make([][]byte, fromPeer)
	for k, p := range picks {
		var old []byte
		if slot := fromOwn + k; slot < len(s.slots) {
			old = s.slots[slot]
		}
		if cap(old) >= len(values[p]) {
			continue
		}
		nb, err := s.mp.Alloc(len(values[p]))
		if err != nil {
			for _, b := range bufs {
				s.mp.Free(b)
			}
			return err
		}
		bufs[k] = nb
	}
	for k, p := range picks {
		slot := fromOwn + k
		var old []byte
		if slot < len(s.slots) {
			old = s.slots[slot]
		}
		buf := bufs[k]
		if buf == nil {
			buf = old[:len(values[p])]
		} else {
			s.mp.Free(old)
		}
		copy(buf, values[p])
		if slot < len(s.slots) {
			s.slots[slot] = buf
		} else {
			s.slots = append(s.slots, buf)
		}
	}
	s.seen = total
	return nil
}

// ToIntermediate encodes the state, nil if nothing was observed.
// encodings of at least compressThreshold bytes are compressed.
func (s *ReservoirState) ToIntermediate(compressThreshold int) ([]byte, error) {
	if s.seen == 0 {
		return nil, nil
	}
	return marshalSample(&EncodedSample{
		Limit:  int64(s.limit),
		Seen:   s.seen,
		Oid:    int32(s.typ.Oid),
		Values: s.slots,
	}, compressThreshold)
}

// Free returns every retained buffer to the memory pool.
func (s *ReservoirState) Free() {
	for i := range s.slots {
		s.mp.Free(s.slots[i])
		s.slots[i] = nil
	}
	s.slots = s.slots[:0]
	s.seen = 0
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
