//
// Copyright 2019-2020 Nestybox, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

//go:build !osal_noheap

package heap

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

//
// The allocator hands out raw byte buffers from a set of size-classed
// pools. Buffers are grouped in power-of-two classes between minClass and
// maxClass; requests above the largest class bypass the pools and go
// straight to the runtime. All operations are safe for concurrent use
// from any thread.
//

const (
	minClassBits = 6  // 64 B
	maxClassBits = 20 // 1 MiB
	numClasses   = maxClassBits - minClassBits + 1
)

var (
	pools [numClasses]sync.Pool

	// Live-allocation accounting.
	liveAllocs uint64
	liveBytes  uint64
)

func init() {
	for i := 0; i < numClasses; i++ {
		size := 1 << (minClassBits + i)
		pools[i].New = func() interface{} {
			return make([]byte, size)
		}
	}
}

// classFor maps a request size to its pool index, or -1 when the request
// is outside the pooled range.
func classFor(size int) int {
	if size <= 0 {
		return -1
	}
	b := bits.Len(uint(size - 1))
	if b < minClassBits {
		b = minClassBits
	}
	if b > maxClassBits {
		return -1
	}
	return b - minClassBits
}

// Allocate returns a zero-positioned buffer of the requested size, or nil
// when the size is invalid.
func Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}

	var buf []byte
	if class := classFor(size); class >= 0 {
		buf = pools[class].Get().([]byte)[:size]
	} else {
		buf = make([]byte, size)
	}

	atomic.AddUint64(&liveAllocs, 1)
	atomic.AddUint64(&liveBytes, uint64(size))

	return buf
}

// Free returns a buffer previously obtained through Allocate. Buffers
// outside the pooled range are left to the garbage collector.
func Free(buf []byte) {
	if buf == nil {
		return
	}

	atomic.AddUint64(&liveAllocs, ^uint64(0))
	atomic.AddUint64(&liveBytes, ^uint64(len(buf)-1))

	// Only exact class-sized buffers go back to a pool; odd capacities are
	// left to the garbage collector.
	c := cap(buf)
	if class := classFor(c); class >= 0 && c == 1<<(minClassBits+class) {
		pools[class].Put(buf[:c])
	}
}

// Outstanding reports the live allocation counters.
func Outstanding() (allocs uint64, bytes uint64) {
	return atomic.LoadUint64(&liveAllocs), atomic.LoadUint64(&liveBytes)
}
