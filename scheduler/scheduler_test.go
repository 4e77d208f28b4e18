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
	"io"
	"os"
	"testing"
	"time"

	"github.com/nestybox/osal/domain"
	"github.com/nestybox/osal/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scheduler service shared by this pkg's unit-tests.
var ss domain.SchedulerServiceIface

func TestMain(m *testing.M) {

	// Disable log generation during UT.
	logrus.SetOutput(io.Discard)

	//
	// Test-cases common settings.
	//
	ss = NewSchedulerService()
	if err := ss.Setup(nil); err != nil {
		logrus.Fatalf("scheduler setup failed: %v", err)
	}

	// Run test-suite.
	m.Run()
}

func Test_schedulerService_Setup(t *testing.T) {

	fresh := NewSchedulerService()
	assert.False(t, fresh.IsConstructed())

	// Non-constructed service short-circuits.
	assert.False(t, fresh.Sleep(0))
	assert.Nil(t, fresh.CreateThread(&mocks.TaskIface{}))

	require.NoError(t, fresh.Setup(domain.DefaultConfiguration()))
	assert.True(t, fresh.IsConstructed())

	// Process anchor captured at setup.
	assert.Equal(t, os.Getpid(), fresh.ProcessID())
}

func Test_schedulerService_Sleep(t *testing.T) {

	tests := []struct {
		name string
		ms   int64
		want bool
	}{
		{"negative duration", -1, false},
		{"zero is a yield hint", 0, true},
		{"positive duration", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			got := ss.Sleep(tt.ms)
			assert.Equal(t, tt.want, got)
			if tt.ms > 0 && got {
				assert.GreaterOrEqual(t,
					time.Since(start),
					time.Duration(tt.ms)*time.Millisecond)
			}
		})
	}
}

func Test_schedulerService_Yield(t *testing.T) {

	// Yield must return; nothing else is observable about it.
	ss.Yield()
}

func Test_schedulerService_CreateThread(t *testing.T) {

	task := &mocks.TaskIface{}
	task.On("IsConstructed").Return(true)
	task.On("StackSize").Return(uint64(0))

	thread := ss.CreateThread(task)
	require.NotNil(t, thread)
	assert.Equal(t, domain.StatusNew, thread.Status())
	assert.True(t, thread.IsConstructed())

	// A nil or non-constructed task cannot be bound to a thread.
	assert.Nil(t, ss.CreateThread(nil))

	broken := &mocks.TaskIface{}
	broken.On("IsConstructed").Return(false)
	assert.Nil(t, ss.CreateThread(broken))
}
