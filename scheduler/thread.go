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

package scheduler

import (
	"sync/atomic"

	"github.com/nestybox/osal/domain"
	"github.com/sirupsen/logrus"
)

// Ensure thread implements its domain interface.
var _ domain.ThreadIface = (*thread)(nil)

// Monotonic thread-id generator; ids are process-local.
var lastThreadID int64

//
// thread binds one user task to one host execution unit. The task is NOT
// owned by the thread: it must outlive it (caller's responsibility).
//
// Lifecycle: NEW -> RUNNABLE (Execute) -> DEAD (Join). A thread whose
// construction failed is DEAD from creation. DEAD is terminal.
//

type thread struct {
	id          int64
	task        domain.TaskIface
	status      int32 // domain.ThreadStatus
	priority    int32
	stackSize   uint64
	exitCode    int32
	done        chan struct{}
	constructed bool
}

func newThread(task domain.TaskIface) *thread {

	t := &thread{
		id:       atomic.AddInt64(&lastThreadID, 1),
		task:     task,
		status:   int32(domain.StatusNew),
		priority: domain.PriorityNorm,
		done:     make(chan struct{}),
	}

	t.constructed = t.construct()
	if !t.constructed {
		atomic.StoreInt32(&t.status, int32(domain.StatusDead))
	}

	return t
}

// construct performs every fallible initialization step; the result is
// sticky for the lifetime of the thread.
func (t *thread) construct() bool {

	if t.task == nil || !t.task.IsConstructed() {
		return false
	}

	// A goroutine stack cannot be sized by the caller; the preference is
	// recorded for diagnostics only.
	t.stackSize = t.task.StackSize()

	return true
}

func (t *thread) Execute() bool {

	if !t.constructed {
		return false
	}

	// Single NEW -> RUNNABLE transition; any repeated call loses the race
	// and returns false with no side effects.
	if !atomic.CompareAndSwapInt32(&t.status,
		int32(domain.StatusNew), int32(domain.StatusRunnable)) {
		return false
	}

	go t.run()

	return true
}

// run is the native entry point of the thread. A panic escaping the user
// task is confined here and recorded as an abnormal completion.
func (t *thread) run() {

	defer close(t.done)

	defer func() {
		if r := recover(); r != nil {
			logrus.Debugf("thread %d: task aborted: %v", t.id, r)
			atomic.StoreInt32(&t.exitCode,
				int32(domain.ErrorUserAbort))
		}
	}()

	atomic.StoreInt32(&t.exitCode, int32(t.task.Start()))
}

func (t *thread) Join() bool {

	if !t.constructed {
		return false
	}

	if domain.ThreadStatus(atomic.LoadInt32(&t.status)) !=
		domain.StatusRunnable {
		return false
	}

	<-t.done

	atomic.StoreInt32(&t.status, int32(domain.StatusDead))

	return atomic.LoadInt32(&t.exitCode) == 0
}

func (t *thread) Status() domain.ThreadStatus {
	return domain.ThreadStatus(atomic.LoadInt32(&t.status))
}

func (t *thread) GetPriority() int32 {

	if !t.constructed {
		return domain.PriorityWrong
	}

	return atomic.LoadInt32(&t.priority)
}

func (t *thread) SetPriority(priority int32) bool {

	if !t.constructed {
		return false
	}

	if priority >= domain.PriorityMin && priority <= domain.PriorityMax {
		atomic.StoreInt32(&t.priority, priority)
		return true
	}

	if priority == domain.PriorityIdle {
		atomic.StoreInt32(&t.priority, priority)
		return true
	}

	return false
}

func (t *thread) ID() int64 {
	return t.id
}

func (t *thread) IsConstructed() bool {
	return t.constructed
}
