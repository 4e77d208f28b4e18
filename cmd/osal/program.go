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

package main

import (
	"fmt"

	"github.com/nestybox/osal/domain"
	"github.com/nestybox/osal/stream"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Number of worker threads the demo spins up.
const demoWorkers = 4

// redirectOutput points the process-wide cout designation at a file when
// the user asked for one; the target is also registered by name so the
// program can look it up.
func redirectOutput(sys domain.SystemIface, path string) error {

	if path == "" {
		return nil
	}

	fs := sys.Streams()

	out, err := stream.NewFileOutStream(
		afero.NewOsFs(), path, domain.ChannelCout)
	if err != nil {
		return err
	}

	if err := fs.Register("output", out); err != nil {
		return err
	}
	if !fs.SetCout(out) {
		return fmt.Errorf("unable to redirect cout to %s", path)
	}

	logrus.Infof("Normal output channel redirected to %s", path)

	return nil
}

//
// demoTask increments a shared counter under a mutex while a semaphore
// bounds how many workers run their critical loop at once. One task per
// worker thread; tasks outlive the threads bound to them.
//

type demoTask struct {
	id      int
	rounds  int
	counter *int64
	mtx     domain.MutexIface
	sem     domain.SemaphoreIface
	sched   domain.SchedulerServiceIface
}

func (t *demoTask) Start() int {

	if !t.sem.Acquire() {
		return domain.ErrorResourceNotFound.ExitStatus()
	}
	defer t.sem.Release()

	for i := 0; i < t.rounds; i++ {
		if !t.mtx.Lock() {
			return domain.ErrorUserAbort.ExitStatus()
		}
		*t.counter++
		t.mtx.Unlock()

		if i%1000 == 0 {
			t.sched.Yield()
		}
	}

	return 0
}

func (t *demoTask) StackSize() uint64 {
	return 0 // platform default
}

func (t *demoTask) IsConstructed() bool {
	return t.counter != nil && t.mtx != nil && t.sem != nil
}

//
// demoProgram is the user program the shim hands control to: it takes
// every service through the facade and reports the run through the
// stream manager.
//

type demoProgram struct {
	sys domain.SystemIface
}

func newDemoProgram(sys domain.SystemIface) domain.ProgramIface {
	return &demoProgram{sys: sys}
}

func (p *demoProgram) Start(args []string) int {

	sched := p.sys.Scheduler()
	cout := p.sys.Streams().Cout()
	cerr := p.sys.Streams().Cerr()

	mtx := p.sys.Mutexes().Create()
	if mtx == nil {
		cerr.Write("osal-demo: no mutex available\n").Flush()
		return domain.ErrorResourceNotFound.ExitStatus()
	}
	defer p.sys.Mutexes().Remove(mtx)

	// Let only half of the workers into their loops at any instant.
	sem := p.sys.Semaphores().Create(demoWorkers / 2)
	if sem == nil {
		cerr.Write("osal-demo: no semaphore available\n").Flush()
		return domain.ErrorResourceNotFound.ExitStatus()
	}
	defer p.sys.Semaphores().Remove(sem)

	var counter int64

	tasks := make([]*demoTask, 0, demoWorkers)
	threads := make([]domain.ThreadIface, 0, demoWorkers)

	for i := 0; i < demoWorkers; i++ {
		task := &demoTask{
			id:      i,
			rounds:  100000,
			counter: &counter,
			mtx:     mtx,
			sem:     sem,
			sched:   sched,
		}
		tasks = append(tasks, task)

		thread := sched.CreateThread(task)
		if thread == nil {
			cerr.Write("osal-demo: unable to create thread\n").Flush()
			return domain.ErrorResourceNotFound.ExitStatus()
		}
		threads = append(threads, thread)
	}

	for _, thread := range threads {
		if !thread.Execute() {
			cerr.Write("osal-demo: unable to start thread ").
				WriteInt(thread.ID()).Write("\n").Flush()
			return domain.ErrorSystemAbort.ExitStatus()
		}
	}

	ok := true
	for _, thread := range threads {
		if !thread.Join() {
			ok = false
		}
	}

	cout.Write("osal-demo: counter = ").WriteInt(counter).
		Write(" (expected ").
		WriteInt(int64(demoWorkers * tasks[0].rounds)).
		Write(")\n").Flush()

	if !ok || counter != int64(demoWorkers*tasks[0].rounds) {
		cerr.Write("osal-demo: worker run failed\n").Flush()
		return domain.ErrorUserAbort.ExitStatus()
	}

	return domain.ErrorOk.ExitStatus()
}
