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

package heap

import (
	"fmt"
	"sync/atomic"

	"github.com/nestybox/osal/domain"
	"github.com/sirupsen/logrus"
)

// Ensure heapService implements its domain interface.
var _ domain.HeapServiceIface = (*heapService)(nil)

//
// heapService is the polymorphic heap capability published by the system
// facade. It is stateless apart from the configured size hint and
// delegates the actual work to the allocator.
//

type heapService struct {
	constructed int32
	sizeHint    uint64
}

// HeapService constructor.
func NewHeapService() domain.HeapServiceIface {
	return &heapService{}
}

func (hs *heapService) Setup(cfg *domain.Configuration) error {

	if cfg == nil {
		cfg = domain.DefaultConfiguration()
	}
	hs.sizeHint = cfg.HeapSize

	// Probe the allocator once so a degraded build surfaces at setup
	// instead of at first use.
	if buf := Allocate(1); buf != nil {
		Free(buf)
	} else {
		logrus.Debug("Heap service initialized without dynamic memory")
	}

	atomic.StoreInt32(&hs.constructed, 1)

	logrus.Debugf("Heap service initialized (size-hint = %d bytes)",
		hs.sizeHint)

	return nil
}

func (hs *heapService) Allocate(size int, prealloc []byte) []byte {

	if !hs.IsConstructed() {
		return nil
	}

	// Placement-style reuse: a caller-supplied buffer is returned
	// unchanged, re-sliced to the requested size.
	if prealloc != nil {
		if size <= 0 || size > cap(prealloc) {
			return nil
		}
		return prealloc[:size]
	}

	if hs.sizeHint > 0 {
		if _, bytes := Outstanding(); bytes+uint64(size) > hs.sizeHint {
			return nil
		}
	}

	return Allocate(size)
}

func (hs *heapService) Free(buf []byte) {

	if !hs.IsConstructed() {
		return
	}

	Free(buf)
}

func (hs *heapService) Stats() domain.HeapStats {

	allocs, bytes := Outstanding()

	return domain.HeapStats{
		Allocations: allocs,
		Bytes:       bytes,
	}
}

func (hs *heapService) IsConstructed() bool {
	return atomic.LoadInt32(&hs.constructed) == 1
}

func (hs *heapService) String() string {
	return fmt.Sprintf("heap-service (size-hint = %d)", hs.sizeHint)
}
