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

//go:build osal_noheap

package heap

// Degraded allocator for environments without dynamic memory: Allocate
// always fails and Free is a no-op. Placement-style reuse through the
// heap service keeps working.

func Allocate(size int) []byte {
	return nil
}

func Free(buf []byte) {
}

func Outstanding() (allocs uint64, bytes uint64) {
	return 0, 0
}
