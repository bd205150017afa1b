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
	"encoding/binary"

	"github.com/pierrec/lz4"

	"github.com/matrixorigin/sampleagg/pkg/common/moerr"
)

const (
	sampleEncodingPlain byte = 0
	sampleEncodingLZ4   byte = 1

	// lz4 cannot expand a block by more than this ratio.
	maxLZ4Ratio = 255

	lz4HashTableSize = 1 << 16
)

// marshalSample encodes es as a one byte flag followed by the payload.
// The payload is compressed when it is at least threshold bytes long and
// lz4 makes it smaller. A threshold <= 0 disables compression.
func marshalSample(es *EncodedSample, threshold int) ([]byte, error) {
	data, err := es.Marshal()
	if err != nil {
		return nil, moerr.NewInternalErrorNoCtx("encode sample: %v", err)
	}
	if threshold > 0 && len(data) >= threshold {
		if ret, ok := compressSample(data); ok {
			return ret, nil
		}
	}
	ret := make([]byte, 1+len(data))
	ret[0] = sampleEncodingPlain
	copy(ret[1:], data)
	return ret, nil
}

func compressSample(data []byte) ([]byte, bool) {
	ret := make([]byte, 1+binary.MaxVarintLen64+lz4.CompressBlockBound(len(data)))
	ret[0] = sampleEncodingLZ4
	n := 1 + binary.PutUvarint(ret[1:], uint64(len(data)))
	sz, err := lz4.CompressBlock(data, ret[n:], make([]int, lz4HashTableSize))
	if err != nil || sz == 0 || n+sz >= 1+len(data) {
		return nil, false
	}
	return ret[:n+sz], true
}

func unmarshalSample(data []byte) (*EncodedSample, error) {
	if len(data) == 0 {
		return nil, moerr.NewInternalErrorNoCtx("empty sample encoding")
	}
	payload := data[1:]
	switch data[0] {
	case sampleEncodingPlain:
	case sampleEncodingLZ4:
		rawLen, n := binary.Uvarint(payload)
		if n <= 0 || rawLen > uint64(len(payload)-n)*maxLZ4Ratio+16 {
			return nil, moerr.NewInternalErrorNoCtx("bad compressed sample header")
		}
		raw := make([]byte, rawLen)
		sz, err := lz4.UncompressBlock(payload[n:], raw)
		if err != nil {
			return nil, moerr.NewInternalErrorNoCtx("decompress sample: %v", err)
		}
		if uint64(sz) != rawLen {
			return nil, moerr.NewInternalErrorNoCtx("decompressed sample has %d bytes, expected %d", sz, rawLen)
		}
		payload = raw
	default:
		return nil, moerr.NewInternalErrorNoCtx("unknown sample encoding %d", data[0])
	}

	es := &EncodedSample{}
	if err := es.Unmarshal(payload); err != nil {
		return nil, moerr.NewInternalErrorNoCtx("decode sample: %v", err)
	}
	return es, nil
}
