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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/nestybox/osal/domain"
	"github.com/spf13/afero"
)

// Ensure FileOutStream implements its domain interface.
var _ domain.OutStreamIface = (*FileOutStream)(nil)

//
// FileOutStream is a redirection target backed by a file-system node.
// The afero indirection keeps the stream usable both against the host FS
// (production) and an in-memory FS (unit testing), the same split the
// rest of the layer applies to its I/O. File targets carry no terminal
// attributes: bytes land verbatim.
//

type FileOutStream struct {
	channel     domain.StreamChannel
	path        string
	file        afero.File
	writer      *bufio.Writer
	wrMu        sync.Mutex
	constructed int32
}

// NewFileOutStream opens (or creates) the given path for appending and
// binds a stream of the given channel designation to it.
func NewFileOutStream(
	appFs afero.Fs,
	path string,
	channel domain.StreamChannel) (*FileOutStream, error) {

	if appFs == nil {
		return nil, fmt.Errorf("stream: no file-system provided")
	}

	f, err := appFs.OpenFile(path,
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("stream: unable to open %s: %v", path, err)
	}

	s := &FileOutStream{
		channel: channel,
		path:    path,
		file:    f,
		writer:  bufio.NewWriter(f),
	}
	atomic.StoreInt32(&s.constructed, 1)

	return s, nil
}

func (s *FileOutStream) Write(str string) domain.OutStreamIface {

	if !s.IsConstructed() {
		return s
	}

	s.wrMu.Lock()
	defer s.wrMu.Unlock()

	s.writer.WriteString(str)

	return s
}

func (s *FileOutStream) WriteInt(n int64) domain.OutStreamIface {

	if !s.IsConstructed() {
		return s
	}

	var buf [intBufLen]byte
	b := strconv.AppendInt(buf[:0], n, 10)

	s.wrMu.Lock()
	defer s.wrMu.Unlock()

	s.writer.Write(b)

	return s
}

func (s *FileOutStream) Flush() domain.OutStreamIface {

	if !s.IsConstructed() {
		return s
	}

	s.wrMu.Lock()
	defer s.wrMu.Unlock()

	s.writer.Flush()

	return s
}

// Close flushes and releases the backing file. Unlike terminal streams a
// file target owns its handle fully.
func (s *FileOutStream) Close() error {

	if !atomic.CompareAndSwapInt32(&s.constructed, 1, 0) {
		return nil
	}

	s.wrMu.Lock()
	defer s.wrMu.Unlock()

	s.writer.Flush()

	return s.file.Close()
}

func (s *FileOutStream) Path() string {
	return s.path
}

func (s *FileOutStream) Channel() domain.StreamChannel {
	return s.channel
}

func (s *FileOutStream) IsConstructed() bool {
	return atomic.LoadInt32(&s.constructed) == 1
}
