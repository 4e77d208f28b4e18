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

package system

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/nestybox/osal/domain"
	"github.com/nestybox/osal/heap"
	"github.com/nestybox/osal/mutex"
	"github.com/nestybox/osal/scheduler"
	"github.com/nestybox/osal/semaphore"
	"github.com/nestybox/osal/stream"

	"github.com/sirupsen/logrus"
)

// Ensure system implements its domain interface.
var _ domain.SystemIface = (*system)(nil)

// Process-wide instance slot. The slot is written once a system has every
// owned service constructed, and cleared on shutdown; a nil slot reached
// through a syscall entry-point is fatal.
var (
	instanceMu sync.Mutex
	instance   domain.SystemIface
)

// Indirections for process termination and service construction; unit
// tests substitute these to exercise failure paths.
var (
	osExit = os.Exit

	newHeapService      = heap.NewHeapService
	newSchedulerService = scheduler.NewSchedulerService
	newMutexService     = mutex.NewMutexService
	newSemaphoreService = semaphore.NewSemaphoreService
	newStreamService    = stream.NewStreamService
)

//
// system is the root facade: it owns the process-wide service instances
// and publishes them to user code through the domain interfaces. Service
// construction order is fixed (heap, scheduler, mutex, semaphore,
// stream); the first failure aborts the whole construction and nothing is
// published, so no half-initialized system is ever observable.
//

type system struct {
	heap       domain.HeapServiceIface
	scheduler  domain.SchedulerServiceIface
	mutexes    domain.MutexServiceIface
	semaphores domain.SemaphoreServiceIface
	streams    domain.StreamServiceIface

	constructed int32
}

// New constructs the system facade and publishes it as the single
// process-wide instance. A second call fails while the first instance is
// alive.
func New(cfg *domain.Configuration) (domain.SystemIface, error) {

	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance != nil {
		return nil, fmt.Errorf("system: already constructed")
	}

	if cfg == nil {
		cfg = domain.DefaultConfiguration()
	}

	s := &system{
		heap:       newHeapService(),
		scheduler:  newSchedulerService(),
		mutexes:    newMutexService(),
		semaphores: newSemaphoreService(),
		streams:    newStreamService(),
	}

	if err := s.construct(cfg); err != nil {
		return nil, err
	}

	atomic.StoreInt32(&s.constructed, 1)
	instance = s

	logrus.Debug("System facade constructed")

	return s, nil
}

// construct runs every fallible setup step in dependency order.
func (s *system) construct(cfg *domain.Configuration) error {

	if err := s.heap.Setup(cfg); err != nil {
		return fmt.Errorf("system: heap service setup: %v", err)
	}
	if err := s.scheduler.Setup(cfg); err != nil {
		return fmt.Errorf("system: scheduler service setup: %v", err)
	}
	if err := s.mutexes.Setup(); err != nil {
		return fmt.Errorf("system: mutex service setup: %v", err)
	}
	if err := s.semaphores.Setup(); err != nil {
		return fmt.Errorf("system: semaphore service setup: %v", err)
	}
	if err := s.streams.Setup(); err != nil {
		return fmt.Errorf("system: stream service setup: %v", err)
	}

	return nil
}

// GetSystem returns the process-wide instance. Reaching a nil slot means
// a syscall was issued before (or after) the system's lifetime: that is
// unrecoverable by contract.
func GetSystem() domain.SystemIface {

	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance == nil {
		terminate(domain.ErrorSyscallCalled)
	}

	return instance
}

func (s *system) Heap() domain.HeapServiceIface {

	if !s.IsConstructed() {
		terminate(domain.ErrorSyscallCalled)
	}

	return s.heap
}

func (s *system) Scheduler() domain.SchedulerServiceIface {

	if !s.IsConstructed() {
		terminate(domain.ErrorSyscallCalled)
	}

	return s.scheduler
}

func (s *system) Mutexes() domain.MutexServiceIface {

	if !s.IsConstructed() {
		terminate(domain.ErrorSyscallCalled)
	}

	return s.mutexes
}

func (s *system) Semaphores() domain.SemaphoreServiceIface {

	if !s.IsConstructed() {
		terminate(domain.ErrorSyscallCalled)
	}

	return s.semaphores
}

func (s *system) Streams() domain.StreamServiceIface {

	if !s.IsConstructed() {
		terminate(domain.ErrorSyscallCalled)
	}

	return s.streams
}

// Execute routes the process arguments to the user program. The facade
// performs no copying or parsing: the program receives the arguments as
// handed in and its return code propagates verbatim.
func (s *system) Execute(prog domain.ProgramIface, args []string) int {

	if !s.IsConstructed() {
		return domain.ErrorUndefined.ExitStatus()
	}

	if prog == nil || args == nil {
		return domain.ErrorUndefined.ExitStatus()
	}

	return prog.Start(args)
}

// Shutdown flushes the terminal streams and releases the instance slot so
// a new system may be constructed. The old handle turns sticky-dead:
// every later service getter through it is fatal, and Execute returns
// ErrorUndefined.
func (s *system) Shutdown() {

	if !atomic.CompareAndSwapInt32(&s.constructed, 1, 0) {
		return
	}

	s.streams.ResetCout()
	s.streams.ResetCerr()
	if cout := s.streams.Cout(); cout != nil {
		cout.Flush()
	}
	if cerr := s.streams.Cerr(); cerr != nil {
		cerr.Flush()
	}

	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance == s {
		instance = nil
	}

	logrus.Debug("System facade shut down")
}

func (s *system) IsConstructed() bool {
	return atomic.LoadInt32(&s.constructed) == 1
}

// terminate ends the process with the given status. Non-fatal failures
// never travel this path; only facade-level contract violations do.
func terminate(err domain.Error) {
	osExit(err.ExitStatus())
}
