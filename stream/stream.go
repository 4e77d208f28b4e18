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

package stream

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nestybox/osal/domain"
	"github.com/sirupsen/logrus"

	iradix "github.com/hashicorp/go-immutable-radix"
)

// Ensure streamService implements its domain interface.
var _ domain.StreamServiceIface = (*streamService)(nil)

//
// streamService owns the two default terminal streams and the
// process-wide redirection slots. Next to those it keeps a radix-tree
// registry of named redirect targets, so programs can address custom
// streams (e.g. file-backed ones) by name. Redirection takes effect
// immediately for subsequent writes.
//

type streamService struct {
	sync.RWMutex

	// Construction-time defaults, one per channel.
	defCout *OutStream
	defCerr *OutStream

	// Current targets of the process-wide cout/cerr designations.
	cout domain.OutStreamIface
	cerr domain.OutStreamIface

	// Radix-tree indexed by stream name; tracks the association between
	// registered redirect targets and their handles.
	streamTree *iradix.Tree

	constructed int32
}

// StreamService constructor.
func NewStreamService() domain.StreamServiceIface {
	return &streamService{}
}

func (ss *streamService) Setup() error {

	ss.defCout = NewOutStream(domain.ChannelCout)
	if !ss.defCout.IsConstructed() {
		return fmt.Errorf("stream: unable to construct cout default")
	}

	ss.defCerr = NewOutStream(domain.ChannelCerr)
	if !ss.defCerr.IsConstructed() {
		return fmt.Errorf("stream: unable to construct cerr default")
	}

	ss.cout = ss.defCout
	ss.cerr = ss.defCerr

	ss.streamTree = iradix.New()
	if ss.streamTree == nil {
		return errors.New("stream: unable to allocate stream radix-tree")
	}

	atomic.StoreInt32(&ss.constructed, 1)

	logrus.Debug("Stream service initialized")

	return nil
}

func (ss *streamService) Cout() domain.OutStreamIface {

	if !ss.IsConstructed() {
		return nil
	}

	ss.RLock()
	defer ss.RUnlock()

	return ss.cout
}

func (ss *streamService) Cerr() domain.OutStreamIface {

	if !ss.IsConstructed() {
		return nil
	}

	ss.RLock()
	defer ss.RUnlock()

	return ss.cerr
}

func (ss *streamService) SetCout(s domain.OutStreamIface) bool {

	if !ss.IsConstructed() || s == nil {
		return false
	}

	ss.Lock()
	defer ss.Unlock()

	ss.cout = s

	return true
}

func (ss *streamService) SetCerr(s domain.OutStreamIface) bool {

	if !ss.IsConstructed() || s == nil {
		return false
	}

	ss.Lock()
	defer ss.Unlock()

	ss.cerr = s

	return true
}

func (ss *streamService) ResetCout() {

	if !ss.IsConstructed() {
		return
	}

	ss.Lock()
	defer ss.Unlock()

	ss.cout = ss.defCout
}

func (ss *streamService) ResetCerr() {

	if !ss.IsConstructed() {
		return
	}

	ss.Lock()
	defer ss.Unlock()

	ss.cerr = ss.defCerr
}

func (ss *streamService) Register(
	name string, s domain.OutStreamIface) error {

	if !ss.IsConstructed() {
		return errors.New("stream service not constructed")
	}
	if name == "" || s == nil {
		return errors.New("invalid stream registration")
	}

	ss.Lock()
	defer ss.Unlock()

	if _, ok := ss.streamTree.Get([]byte(name)); ok {
		return fmt.Errorf("stream %s already registered", name)
	}

	ss.streamTree, _, _ = ss.streamTree.Insert([]byte(name), s)

	return nil
}

func (ss *streamService) Unregister(name string) error {

	if !ss.IsConstructed() {
		return errors.New("stream service not constructed")
	}

	ss.Lock()
	defer ss.Unlock()

	tree, _, ok := ss.streamTree.Delete([]byte(name))
	if !ok {
		return fmt.Errorf("stream %s not registered", name)
	}
	ss.streamTree = tree

	return nil
}

func (ss *streamService) Lookup(name string) (domain.OutStreamIface, bool) {

	if !ss.IsConstructed() {
		return nil, false
	}

	ss.RLock()
	defer ss.RUnlock()

	v, ok := ss.streamTree.Get([]byte(name))
	if !ok {
		return nil, false
	}

	return v.(domain.OutStreamIface), true
}

func (ss *streamService) IsConstructed() bool {
	return atomic.LoadInt32(&ss.constructed) == 1
}
