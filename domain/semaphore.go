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

// SemaphoreMaximumCount bounds the permit counter of every semaphore.
const SemaphoreMaximumCount int64 = 1<<31 - 1

//
// SemaphoreIface is a counting semaphore over a bounded permit range.
// The order in which blocked acquirers are woken is implementation
// defined.
//

type SemaphoreIface interface {
	// Acquire blocks until a permit is available, then takes it.
	Acquire() bool

	// Release grants one permit back.
	Release()

	// Permits reports the permits currently available.
	Permits() int64

	IsConstructed() bool
}

//
// SemaphoreServiceIface creates and removes semaphore primitives;
// ownership rules mirror the mutex service.
//

type SemaphoreServiceIface interface {
	Setup() error

	// Create returns a semaphore initialized with the given number of
	// permits, or nil when permits falls outside
	// [0..SemaphoreMaximumCount].
	Create(permits int64) SemaphoreIface

	Remove(s SemaphoreIface) bool
	IsConstructed() bool
}
