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

// ThreadStatus enumerates the thread lifecycle states. DEAD is terminal:
// there is no transition out of it.
type ThreadStatus int32

const (
	StatusNew      ThreadStatus = iota // created, not yet running
	StatusRunnable                     // body of execution started
	StatusDead                         // joined, or failed construction
)

func (s ThreadStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusRunnable:
		return "runnable"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Thread priority range. The scheduler stores priorities; pushing them to
// the native scheduler is a permitted extension, not a requirement.
const (
	PriorityWrong int32 = -1 // returned by non-constructed threads
	PriorityIdle  int32 = 0  // background execution
	PriorityLock  int32 = 0  // alias of idle at this layer
	PriorityMin   int32 = 1
	PriorityNorm  int32 = 5
	PriorityMax   int32 = 10
)

//
// ThreadIface is an OSAL handle bound 1:1 to a user task and to a host
// execution unit. State transitions are observable in program order only
// by the handle's owner; cross-thread observation requires external
// synchronization.
//

type ThreadIface interface {
	// Execute moves the thread NEW -> RUNNABLE, or NEW -> DEAD on an OS
	// failure. Any later call returns false with no side effects.
	Execute() bool

	// Join blocks until the task body has returned; legal only in
	// RUNNABLE, then drives the state to DEAD.
	Join() bool

	Status() ThreadStatus
	GetPriority() int32
	SetPriority(priority int32) bool
	ID() int64
	IsConstructed() bool
}

//
// SchedulerServiceIface is the thread factory plus the process-level
// sleep/yield primitives. The scheduler does not track the threads it
// hands out; a created thread is owned by the caller.
//

type SchedulerServiceIface interface {
	Setup(cfg *Configuration) error

	// CreateThread binds a new NEW-state thread to the given task, or
	// returns nil when the task is unusable or the service is not
	// constructed.
	CreateThread(task TaskIface) ThreadIface

	// Sleep suspends the caller for ms milliseconds. A negative value
	// returns false; zero functions as a yield hint and returns true.
	Sleep(ms int64) bool

	// Yield cooperatively releases the current time quantum.
	Yield()

	// Process anchor captured at setup.
	ProcessID() int
	ProcessPriority() int

	IsConstructed() bool
}
