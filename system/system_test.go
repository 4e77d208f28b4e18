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
	"errors"
	"io"
	"testing"

	"github.com/nestybox/osal/domain"
	"github.com/nestybox/osal/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {

	// Disable log generation during UT.
	logrus.SetOutput(io.Discard)

	m.Run()
}

// exitSentinel carries the status of an intercepted process termination.
type exitSentinel struct {
	status int
}

// interceptExit routes terminate() into a recoverable panic and returns
// the observed exit status, or -1 when no termination happened.
func interceptExit(fn func()) (status int) {

	status = -1

	prev := osExit
	osExit = func(code int) {
		panic(exitSentinel{status: code})
	}
	defer func() {
		osExit = prev
		if r := recover(); r != nil {
			s, ok := r.(exitSentinel)
			if !ok {
				panic(r)
			}
			status = s.status
		}
	}()

	fn()

	return status
}

func newSystem(t *testing.T) domain.SystemIface {
	t.Helper()

	sys, err := New(nil)
	require.NoError(t, err)
	require.True(t, sys.IsConstructed())
	t.Cleanup(sys.Shutdown)

	return sys
}

func Test_system_New(t *testing.T) {

	sys := newSystem(t)

	// Every owned service is constructed and reachable.
	assert.True(t, sys.Heap().IsConstructed())
	assert.True(t, sys.Scheduler().IsConstructed())
	assert.True(t, sys.Mutexes().IsConstructed())
	assert.True(t, sys.Semaphores().IsConstructed())
	assert.True(t, sys.Streams().IsConstructed())
}

func Test_system_singleInstance(t *testing.T) {

	sys := newSystem(t)

	// A second system cannot coexist with the first.
	dup, err := New(nil)
	assert.Error(t, err)
	assert.Nil(t, dup)

	// The slot frees up on shutdown.
	sys.Shutdown()

	again, err := New(nil)
	require.NoError(t, err)
	again.Shutdown()
}

func Test_system_GetSystem(t *testing.T) {

	// No instance: the syscall entry-point is fatal with the dedicated
	// status.
	status := interceptExit(func() { GetSystem() })
	assert.Equal(t, domain.ErrorSyscallCalled.ExitStatus(), status)

	sys := newSystem(t)

	status = interceptExit(func() {
		assert.Equal(t, sys, GetSystem())
	})
	assert.Equal(t, -1, status)
}

func Test_system_constructionFailure(t *testing.T) {

	// A heap service refusing to set up must abort the whole facade
	// construction; nothing gets published.
	failing := &mocks.HeapServiceIface{}
	failing.On("Setup", mock.Anything).
		Return(errors.New("no backing memory"))

	prev := newHeapService
	newHeapService = func() domain.HeapServiceIface { return failing }
	defer func() { newHeapService = prev }()

	sys, err := New(nil)
	assert.Error(t, err)
	assert.Nil(t, sys)

	status := interceptExit(func() { GetSystem() })
	assert.Equal(t, domain.ErrorSyscallCalled.ExitStatus(), status)
}

func Test_system_gettersAfterShutdown(t *testing.T) {

	sys, err := New(nil)
	require.NoError(t, err)

	sys.Shutdown()
	assert.False(t, sys.IsConstructed())

	// A dead facade refuses to hand out services.
	status := interceptExit(func() { sys.Heap() })
	assert.Equal(t, domain.ErrorSyscallCalled.ExitStatus(), status)

	status = interceptExit(func() { sys.Streams() })
	assert.Equal(t, domain.ErrorSyscallCalled.ExitStatus(), status)
}

func Test_system_Execute(t *testing.T) {

	sys := newSystem(t)

	prog := &mocks.ProgramIface{}
	prog.On("Start", []string{"one", "two"}).Return(7)

	// Arguments travel unchanged; the return code propagates verbatim.
	assert.Equal(t, 7, sys.Execute(prog, []string{"one", "two"}))
	prog.AssertExpectations(t)

	// Argument errors short-circuit without reaching the program.
	assert.Equal(t, domain.ErrorUndefined.ExitStatus(),
		sys.Execute(nil, []string{}))
	assert.Equal(t, domain.ErrorUndefined.ExitStatus(),
		sys.Execute(prog, nil))
}

func Test_system_ExecuteUserServices(t *testing.T) {

	sys := newSystem(t)

	// A program taking the full tour through the facade: heap buffer,
	// mutex-guarded counter updates from scheduler threads.
	prog := &mocks.ProgramIface{}
	prog.On("Start", mock.Anything).Return(func(args []string) int {

		buf := sys.Heap().Allocate(64, nil)
		if buf == nil {
			return domain.ErrorResourceNotFound.ExitStatus()
		}
		defer sys.Heap().Free(buf)

		mtx := sys.Mutexes().Create()
		if mtx == nil {
			return domain.ErrorResourceNotFound.ExitStatus()
		}
		defer sys.Mutexes().Remove(mtx)

		var counter int
		task := &countingTask{mtx: mtx, counter: &counter, rounds: 1000}

		t1 := sys.Scheduler().CreateThread(task)
		t2 := sys.Scheduler().CreateThread(task)
		if t1 == nil || t2 == nil {
			return domain.ErrorResourceNotFound.ExitStatus()
		}

		if !t1.Execute() || !t2.Execute() {
			return domain.ErrorSystemAbort.ExitStatus()
		}
		if !t1.Join() || !t2.Join() {
			return domain.ErrorSystemAbort.ExitStatus()
		}

		if counter != 2000 {
			return domain.ErrorUserAbort.ExitStatus()
		}
		return domain.ErrorOk.ExitStatus()
	})

	assert.Equal(t, domain.ErrorOk.ExitStatus(),
		sys.Execute(prog, []string{}))
}

// countingTask increments a shared counter under a mutex.
type countingTask struct {
	mtx     domain.MutexIface
	counter *int
	rounds  int
}

func (c *countingTask) Start() int {
	for i := 0; i < c.rounds; i++ {
		if !c.mtx.Lock() {
			return 1
		}
		*c.counter++
		c.mtx.Unlock()
	}
	return 0
}

func (c *countingTask) StackSize() uint64   { return 0 }
func (c *countingTask) IsConstructed() bool { return true }

func Test_system_heapConfiguration(t *testing.T) {

	sys, err := New(&domain.Configuration{HeapSize: 1 << 20})
	require.NoError(t, err)
	defer sys.Shutdown()

	// Allocations within the hint succeed.
	buf := sys.Heap().Allocate(1024, nil)
	require.NotNil(t, buf)
	sys.Heap().Free(buf)
}
