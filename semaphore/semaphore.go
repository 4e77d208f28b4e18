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

package semaphore

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/nestybox/osal/domain"
	"github.com/sirupsen/logrus"

	xsemaphore "golang.org/x/sync/semaphore"
)

// Ensure interfaces are implemented.
var _ domain.SemaphoreServiceIface = (*semaphoreService)(nil)
var _ domain.SemaphoreIface = (*sem)(nil)

//
// sem is a counting semaphore bounded by domain.SemaphoreMaximumCount.
// Blocking and wake-up are delegated to x/sync's weighted semaphore: the
// weighted capacity equals the maximum count and (capacity - permits)
// units are withheld at construction, so exactly `permits` units are
// grantable initially. The withheld share shrinks as releases outpace
// acquires. Wake-up order of blocked acquirers is not contractual.
//

type sem struct {
	weighted    *xsemaphore.Weighted
	available   int64 // grantable permits, mirrors the weighted state
	relMu       sync.Mutex
	constructed int32
}

func newSem(permits int64) *sem {

	s := &sem{
		weighted:  xsemaphore.NewWeighted(domain.SemaphoreMaximumCount),
		available: permits,
	}

	// Withhold everything above the initial permit count. The weighted
	// semaphore is fresh, so this can never block.
	if err := s.weighted.Acquire(context.Background(),
		domain.SemaphoreMaximumCount-permits); err != nil {
		return s
	}

	atomic.StoreInt32(&s.constructed, 1)

	return s
}

func (s *sem) Acquire() bool {

	if !s.IsConstructed() {
		return false
	}

	if err := s.weighted.Acquire(context.Background(), 1); err != nil {
		return false
	}

	atomic.AddInt64(&s.available, -1)

	return true
}

func (s *sem) Release() {
	s.release(1)
}

func (s *sem) release(n int64) {

	if !s.IsConstructed() || n <= 0 {
		return
	}

	s.relMu.Lock()
	defer s.relMu.Unlock()

	// Clamp at the counter bound instead of overflowing the weighted
	// capacity.
	if room := domain.SemaphoreMaximumCount -
		atomic.LoadInt64(&s.available); n > room {
		n = room
	}
	if n <= 0 {
		return
	}

	atomic.AddInt64(&s.available, n)
	s.weighted.Release(n)
}

func (s *sem) Permits() int64 {
	return atomic.LoadInt64(&s.available)
}

func (s *sem) IsConstructed() bool {
	return atomic.LoadInt32(&s.constructed) == 1
}

//
// semaphoreService creates and removes semaphore primitives; ownership of
// a created semaphore rests with the caller.
//

type semaphoreService struct {
	constructed int32
}

// SemaphoreService constructor.
func NewSemaphoreService() domain.SemaphoreServiceIface {
	return &semaphoreService{}
}

func (ss *semaphoreService) Setup() error {

	atomic.StoreInt32(&ss.constructed, 1)

	logrus.Debug("Semaphore service initialized")

	return nil
}

func (ss *semaphoreService) Create(permits int64) domain.SemaphoreIface {

	if !ss.IsConstructed() {
		return nil
	}

	if permits < 0 || permits > domain.SemaphoreMaximumCount {
		return nil
	}

	s := newSem(permits)
	if !s.IsConstructed() {
		return nil
	}

	return s
}

func (ss *semaphoreService) Remove(s domain.SemaphoreIface) bool {

	if !ss.IsConstructed() || s == nil {
		return false
	}

	prim, ok := s.(*sem)
	if !ok || !prim.IsConstructed() {
		return false
	}

	atomic.StoreInt32(&prim.constructed, 0)

	return true
}

func (ss *semaphoreService) IsConstructed() bool {
	return atomic.LoadInt32(&ss.constructed) == 1
}
