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

package mutex

import (
	"sync/atomic"

	"github.com/nestybox/osal/domain"
	"github.com/sirupsen/logrus"
)

// Ensure interfaces are implemented.
var _ domain.MutexServiceIface = (*mutexService)(nil)
var _ domain.MutexIface = (*mutex)(nil)

//
// mutex is a non-recursive mutual-exclusion primitive built over a
// one-permit token channel: holding the token is holding the lock. The
// channel gives blocking Lock, non-blocking TryLock and a non-panicking
// Unlock without any check-then-act window. No fairness is guaranteed.
//

type mutex struct {
	token       chan struct{}
	constructed int32
}

func newMutex() *mutex {

	m := &mutex{
		token: make(chan struct{}, 1),
	}
	atomic.StoreInt32(&m.constructed, 1)

	return m
}

func (m *mutex) TryLock() bool {

	if !m.IsConstructed() {
		return false
	}

	select {
	case m.token <- struct{}{}:
		return true
	default:
		return false
	}
}

func (m *mutex) Lock() bool {

	if !m.IsConstructed() {
		return false
	}

	m.token <- struct{}{}

	return true
}

func (m *mutex) Unlock() bool {

	if !m.IsConstructed() {
		return false
	}

	select {
	case <-m.token:
		return true
	default:
		// Releasing an unlocked mutex; undefined per contract, reported
		// as a plain failure.
		return false
	}
}

// locked reports a point-in-time view of the token; used by the service
// to refuse removal of a held mutex.
func (m *mutex) locked() bool {
	return len(m.token) != 0
}

func (m *mutex) IsConstructed() bool {
	return atomic.LoadInt32(&m.constructed) == 1
}

//
// mutexService creates and removes mutex primitives. The service holds no
// registry: the caller owns each primitive it obtains and returns it
// through Remove.
//

type mutexService struct {
	constructed int32
}

// MutexService constructor.
func NewMutexService() domain.MutexServiceIface {
	return &mutexService{}
}

func (ms *mutexService) Setup() error {

	atomic.StoreInt32(&ms.constructed, 1)

	logrus.Debug("Mutex service initialized")

	return nil
}

func (ms *mutexService) Create() domain.MutexIface {

	if !ms.IsConstructed() {
		return nil
	}

	return newMutex()
}

func (ms *mutexService) Remove(m domain.MutexIface) bool {

	if !ms.IsConstructed() || m == nil {
		return false
	}

	mtx, ok := m.(*mutex)
	if !ok || !mtx.IsConstructed() {
		return false
	}

	// Destroying a locked mutex is a caller error.
	if mtx.locked() {
		return false
	}

	atomic.StoreInt32(&mtx.constructed, 0)

	return true
}

func (ms *mutexService) IsConstructed() bool {
	return atomic.LoadInt32(&ms.constructed) == 1
}
