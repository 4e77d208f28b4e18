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
// MutexIface is a non-recursive mutual-exclusion primitive. Acquisition
// order under contention is implementation defined; no fairness is
// guaranteed.
//

type MutexIface interface {
	// TryLock acquires the mutex without blocking.
	TryLock() bool

	// Lock blocks until the mutex is acquired.
	Lock() bool

	// Unlock releases the mutex; releasing an unlocked mutex returns
	// false.
	Unlock() bool

	IsConstructed() bool
}

//
// MutexServiceIface creates and removes mutex primitives. The service
// keeps no registry: once Create returns, the caller owns the primitive
// and gives it back through Remove.
//

type MutexServiceIface interface {
	Setup() error
	Create() MutexIface
	Remove(m MutexIface) bool
	IsConstructed() bool
}
