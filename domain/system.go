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
// SystemIface is the root facade of the abstraction layer: it owns the
// process-wide service instances, enforces the construction-order and
// single-instance invariants, and routes the user program through a
// controlled start/terminate lifecycle.
//
// A facade in a bad state is fatal by design: the getters terminate the
// process rather than hand out a partially-initialized service that
// downstream code would silently pick up.
//

type SystemIface interface {
	// Sub-system accessors. On a non-constructed system each getter
	// terminates the process with ErrorSyscallCalled.
	Heap() HeapServiceIface
	Scheduler() SchedulerServiceIface
	Mutexes() MutexServiceIface
	Semaphores() SemaphoreServiceIface
	Streams() StreamServiceIface

	// Execute forwards the process arguments to the user program and
	// returns its exit code. No copying or parsing of the arguments is
	// performed.
	Execute(prog ProgramIface, args []string) int

	// Shutdown flushes the streams and releases the process-wide
	// instance slot.
	Shutdown()

	IsConstructed() bool
}
