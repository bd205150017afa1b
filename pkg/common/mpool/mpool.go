// Copyright 2021 - 2022 Matrix Origin
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

package mpool

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/matrixorigin/sampleagg/pkg/common/moerr"
)

// Mo's extremely simple memory pool.

// Stats
type MPoolStats struct {
	NumAlloc      atomic.Int64 // number of allocations
	NumFree       atomic.Int64 // number of frees
	NumAllocBytes atomic.Int64 // number of bytes allocated
	NumFreeBytes  atomic.Int64 // number of bytes freed
	NumCurrBytes  atomic.Int64 // current number of bytes
	HighWaterMark atomic.Int64 // high water mark
}

func (s *MPoolStats) Report(tab string) string {
	if s.HighWaterMark.Load() == 0 {
		// empty, reduce noise.
		return ""
	}

	ret := ""
	ret += fmt.Sprintf("%s allocations : %d\n", tab, s.NumAlloc.Load())
	ret += fmt.Sprintf("%s frees : %d\n", tab, s.NumFree.Load())
	ret += fmt.Sprintf("%s alloc bytes : %d\n", tab, s.NumAllocBytes.Load())
	ret += fmt.Sprintf("%s free bytes : %d\n", tab, s.NumFreeBytes.Load())
	ret += fmt.Sprintf("%s current bytes : %d\n", tab, s.NumCurrBytes.Load())
	ret += fmt.Sprintf("%s high water mark : %d\n", tab, s.HighWaterMark.Load())
	return ret
}

func (s *MPoolStats) ReportJson() string {
	if s.HighWaterMark.Load() == 0 {
		return ""
	}
	ret := "{"
	ret += fmt.Sprintf("\"alloc\": %d,", s.NumAlloc.Load())
	ret += fmt.Sprintf("\"free\": %d,", s.NumFree.Load())
	ret += fmt.Sprintf("\"allocBytes\": %d,", s.NumAllocBytes.Load())
	ret += fmt.Sprintf("\"freeBytes\": %d,", s.NumFreeBytes.Load())
	ret += fmt.Sprintf("\"currBytes\": %d,", s.NumCurrBytes.Load())
	ret += fmt.Sprintf("\"highWaterMark\": %d", s.HighWaterMark.Load())
	ret += "}"
	return ret
}

// reserve accounts sz more bytes unless that would take the current
// usage above capacity.  capacity 0 means unlimited.
func (s *MPoolStats) reserve(sz int64, capacity int64) bool {
	for {
		curr := s.NumCurrBytes.Load()
		if capacity > 0 && curr+sz > capacity {
			return false
		}
		if s.NumCurrBytes.CompareAndSwap(curr, curr+sz) {
			s.NumAlloc.Add(1)
			s.NumAllocBytes.Add(sz)
			s.updateHighWaterMark(curr + sz)
			return true
		}
	}
}

func (s *MPoolStats) release(sz int64) {
	s.NumFree.Add(1)
	s.NumFreeBytes.Add(sz)
	s.NumCurrBytes.Add(-sz)
}

func (s *MPoolStats) updateHighWaterMark(curr int64) {
	for {
		hw := s.HighWaterMark.Load()
		if curr <= hw || s.HighWaterMark.CompareAndSwap(hw, curr) {
			return
		}
	}
}

const (
	NoFlag = 0
	// DetailRecording keeps a histogram of allocation sizes.
	DetailRecording = 1
)

type mpoolDetails struct {
	mu    sync.Mutex
	alloc map[int]int64
	free  map[int]int64
}

func newMpoolDetails() *mpoolDetails {
	return &mpoolDetails{
		alloc: make(map[int]int64),
		free:  make(map[int]int64),
	}
}

func (d *mpoolDetails) recordAlloc(sz int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alloc[sz]++
}

func (d *mpoolDetails) recordFree(sz int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.free[sz]++
}

func (d *mpoolDetails) reportJson() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	sizes := make([]int, 0, len(d.alloc))
	for sz := range d.alloc {
		sizes = append(sizes, sz)
	}
	sort.Ints(sizes)
	parts := make([]string, 0, len(sizes))
	for _, sz := range sizes {
		parts = append(parts, fmt.Sprintf("\"%d\": [%d, %d]", sz, d.alloc[sz], d.free[sz]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// The memory pool.  An MPool hands out zeroed byte slices from the go
// heap and keeps exact accounting of the bytes it handed out.  An
// allocation that would take the pool above its capacity, or the
// process above GlobalCap, fails with ErrOOM.
type MPool struct {
	id      int64
	tag     string
	cap     int64
	stats   MPoolStats
	details atomic.Pointer[mpoolDetails]
}

var nextPool atomic.Int64
var globalCap atomic.Int64
var globalStats MPoolStats
var globalPools sync.Map

// GlobalCap is the byte limit over all pools, 0 means unlimited.
func GlobalCap() int64 {
	return globalCap.Load()
}

func SetGlobalCap(capacity int64) {
	globalCap.Store(capacity)
}

func GlobalStats() *MPoolStats {
	return &globalStats
}

func NewMPool(tag string, cap int64, flag int) (*MPool, error) {
	if cap < 0 {
		return nil, moerr.NewInvalidArgNoCtx("mpool cap", cap)
	}
	if gcap := GlobalCap(); gcap > 0 && cap > gcap {
		return nil, moerr.NewInvalidArgNoCtx("mpool cap", cap)
	}

	mp := &MPool{
		id:  nextPool.Add(1),
		tag: tag,
		cap: cap,
	}
	if flag&DetailRecording != 0 {
		mp.details.Store(newMpoolDetails())
	}
	globalPools.Store(mp.id, mp)
	return mp, nil
}

func MustNew(tag string) *MPool {
	mp, err := NewMPool(tag, 0, NoFlag)
	if err != nil {
		panic(err)
	}
	return mp
}

func MustNewZero() *MPool {
	return MustNew("must_new_zero")
}

// DeleteMPool unregisters mp.  Memory still held by callers stays
// accounted in the global stats until it is freed.
func DeleteMPool(mp *MPool) {
	if mp == nil {
		return
	}
	globalPools.Delete(mp.id)
}

func (mp *MPool) EnableDetailRecording() {
	mp.details.CompareAndSwap(nil, newMpoolDetails())
}

func (mp *MPool) Tag() string {
	return mp.tag
}

func (mp *MPool) Cap() int64 {
	if mp.cap == 0 {
		return GlobalCap()
	}
	return mp.cap
}

func (mp *MPool) CurrNB() int64 {
	return mp.stats.NumCurrBytes.Load()
}

func (mp *MPool) Stats() *MPoolStats {
	return &mp.stats
}

func (mp *MPool) Report() string {
	ret := fmt.Sprintf("    mpool stats: %s\n", mp.tag)
	ret += mp.stats.Report("        ")
	return ret
}

func (mp *MPool) ReportJson() string {
	ss := mp.stats.ReportJson()
	if ss == "" {
		return fmt.Sprintf("{\"%s\": \"\"}", mp.tag)
	}
	ret := fmt.Sprintf("{\"%s\": %s", mp.tag, ss)
	if d := mp.details.Load(); d != nil {
		ret += fmt.Sprintf(", \"detail\": %s", d.reportJson())
	}
	return ret + "}"
}

func (mp *MPool) reserve(sz int64) error {
	if !globalStats.reserve(sz, GlobalCap()) {
		return moerr.NewOOMNoCtx()
	}
	if !mp.stats.reserve(sz, mp.cap) {
		globalStats.NumCurrBytes.Add(-sz)
		globalStats.NumAlloc.Add(-1)
		globalStats.NumAllocBytes.Add(-sz)
		return moerr.NewOOMNoCtx()
	}
	return nil
}

// Alloc returns a zeroed slice of length and capacity sz.
func (mp *MPool) Alloc(sz int) ([]byte, error) {
	if sz < 0 {
		return nil, moerr.NewInvalidArgNoCtx("mpool alloc size", sz)
	}
	if sz == 0 {
		return nil, nil
	}
	if err := mp.reserve(int64(sz)); err != nil {
		return nil, err
	}
	if d := mp.details.Load(); d != nil {
		d.recordAlloc(sz)
	}
	return make([]byte, sz), nil
}

// Free returns bs to the pool.  bs must be a slice returned by this
// pool, possibly resliced from its start, and must not be used again.
func (mp *MPool) Free(bs []byte) {
	sz := cap(bs)
	if sz == 0 {
		return
	}
	if d := mp.details.Load(); d != nil {
		d.recordFree(sz)
	}
	mp.stats.release(int64(sz))
	globalStats.release(int64(sz))
}

// Realloc resizes old to exactly sz bytes.  Bytes beyond len(old) are
// zeroed.
func (mp *MPool) Realloc(old []byte, sz int) ([]byte, error) {
	if sz <= cap(old) {
		return extend(old, sz), nil
	}
	ret, err := mp.Alloc(sz)
	if err != nil {
		return old, err
	}
	copy(ret, old)
	mp.Free(old)
	return ret, nil
}

// Grow is like Realloc but we try to be a little bit more aggressive
// on growing the slice.
func (mp *MPool) Grow(old []byte, sz int) ([]byte, error) {
	if sz <= cap(old) {
		return extend(old, sz), nil
	}
	newCap := calculateNewCap(cap(old), sz)
	ret, err := mp.Alloc(newCap)
	if err != nil {
		return old, err
	}
	copy(ret, old)
	mp.Free(old)
	return ret[:sz], nil
}

func extend(old []byte, sz int) []byte {
	if sz <= len(old) {
		return old[:sz]
	}
	ret := old[:sz]
	for i := len(old); i < sz; i++ {
		ret[i] = 0
	}
	return ret
}

// copy-paste go slice's grow strategy
func calculateNewCap(oldCap int, requiredSize int) int {
	newcap := oldCap
	doublecap := 2 * oldCap
	if requiredSize > doublecap {
		newcap = requiredSize
	} else {
		const threshold = 256
		if newcap < threshold {
			newcap = doublecap
		} else {
			for 0 < newcap && newcap < requiredSize {
				newcap += (newcap + 3*threshold) / 4
			}
			if newcap <= 0 {
				newcap = requiredSize
			}
		}
	}
	return newcap
}

// ReportMemUsage returns a json report of pools matching tag.  An empty
// tag reports every pool plus the global stats, "global" reports only
// the global stats.
func ReportMemUsage(tag string) string {
	gstat := fmt.Sprintf("{\"global\": %s}", globalStats.ReportJson())
	if tag == "global" {
		return "[" + gstat + "]"
	}

	var poolStats []string
	if tag == "" {
		poolStats = append(poolStats, gstat)
	}

	globalPools.Range(func(k, v any) bool {
		mp := v.(*MPool)
		if tag == "" || tag == mp.tag {
			poolStats = append(poolStats, mp.ReportJson())
		}
		return true
	})

	return "[" + strings.Join(poolStats, ",") + "]"
}
