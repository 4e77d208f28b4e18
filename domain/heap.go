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

package domain

//
// HeapServiceIface is the capability object wrapping the process-wide
// allocator. Allocate and Free are safe for concurrent use from any
// thread.
//

type HeapServiceIface interface {
	Setup(cfg *Configuration) error

	// Allocate returns a buffer of the given size, or nil on failure.
	// When prealloc is non-nil and large enough, it is returned unchanged
	// (placement-style reuse) and no allocation takes place.
	Allocate(size int, prealloc []byte) []byte

	// Free returns a buffer previously obtained from Allocate.
	Free(buf []byte)

	// Stats reports the outstanding allocation counters.
	Stats() HeapStats

	IsConstructed() bool
}

// HeapStats mirrors the allocator's internal accounting.
type HeapStats struct {
	Allocations uint64 // live buffers handed out
	Bytes       uint64 // live bytes handed out
}
