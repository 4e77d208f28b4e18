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
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/nestybox/osal/domain"
	"github.com/sirupsen/logrus"

	"golang.org/x/sys/unix"
)

// Ensure schedulerService implements its domain interface.
var _ domain.SchedulerServiceIface = (*schedulerService)(nil)

//
// schedulerService is the thread factory plus the sleep/yield primitives.
// At setup it captures the process anchor (pid and scheduling priority)
// so later priority-related work has a known reference. It keeps no list
// of live threads: a created thread is self-owning once handed out.
//

type schedulerService struct {
	constructed  int32
	processID    int
	processPrio  int
	defaultStack uint64
}

// SchedulerService constructor.
func NewSchedulerService() domain.SchedulerServiceIface {
	return &schedulerService{}
}

func (ss *schedulerService) Setup(cfg *domain.Configuration) error {

	if cfg == nil {
		cfg = domain.DefaultConfiguration()
	}

	ss.processID = os.Getpid()
	if ss.processID == 0 {
		return fmt.Errorf("scheduler: invalid process id")
	}

	prio, err := unix.Getpriority(unix.PRIO_PROCESS, 0)
	if err != nil {
		return fmt.Errorf("scheduler: unable to read process priority: %v",
			err)
	}
	ss.processPrio = prio

	ss.defaultStack = cfg.StackSize

	atomic.StoreInt32(&ss.constructed, 1)

	logrus.Debugf("Scheduler service initialized (pid = %d, prio = %d)",
		ss.processID, ss.processPrio)

	return nil
}

func (ss *schedulerService) CreateThread(
	task domain.TaskIface) domain.ThreadIface {

	if !ss.IsConstructed() {
		return nil
	}

	t := newThread(task)
	if !t.IsConstructed() {
		return nil
	}

	return t
}

func (ss *schedulerService) Sleep(ms int64) bool {

	if !ss.IsConstructed() {
		return false
	}

	if ms < 0 {
		return false
	}

	// Zero is a yield hint, not an error.
	if ms == 0 {
		runtime.Gosched()
		return true
	}

	time.Sleep(time.Duration(ms) * time.Millisecond)

	return true
}

func (ss *schedulerService) Yield() {

	if !ss.IsConstructed() {
		return
	}

	runtime.Gosched()
}

func (ss *schedulerService) ProcessID() int {
	return ss.processID
}

func (ss *schedulerService) ProcessPriority() int {
	return ss.processPrio
}

func (ss *schedulerService) IsConstructed() bool {
	return atomic.LoadInt32(&ss.constructed) == 1
}
