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
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/nestybox/osal/domain"

	"golang.org/x/sys/unix"
)

// Ensure OutStream implements its domain interface.
var _ domain.OutStreamIface = (*OutStream)(nil)

// Terminal attribute sequences. The error channel forces a red
// high-intensity foreground; the reset sequence restores whatever the
// terminal had configured before the write.
const (
	attrError = "\x1b[91m"
	attrReset = "\x1b[0m"
)

// Longest decimal representation of an int64, sign included.
const intBufLen = 20

//
// OutStream is a character sink bound to one terminal channel. The
// underlying descriptor is a borrowed copy of the process handle: it is
// flushed, never closed, so a destroyed and re-created stream keeps
// writing to the same terminal.
//

type OutStream struct {
	channel     domain.StreamChannel
	file        *os.File
	writer      *bufio.Writer
	terminal    bool
	wrMu        sync.Mutex
	constructed int32
}

// NewOutStream binds a stream to the process handle of the given channel.
func NewOutStream(channel domain.StreamChannel) *OutStream {

	s := &OutStream{
		channel: channel,
	}

	if s.construct() {
		atomic.StoreInt32(&s.constructed, 1)
	}

	return s
}

func (s *OutStream) construct() bool {

	switch s.channel {
	case domain.ChannelCout:
		s.file = os.Stdout
	case domain.ChannelCerr:
		s.file = os.Stderr
	default:
		return false
	}

	if s.file == nil {
		return false
	}

	// Attribute switching only makes sense on a terminal; a redirected
	// handle receives plain bytes.
	_, err := unix.IoctlGetTermios(int(s.file.Fd()), unix.TCGETS)
	s.terminal = err == nil

	s.writer = bufio.NewWriter(s.file)

	return true
}

func (s *OutStream) Write(str string) domain.OutStreamIface {

	if !s.IsConstructed() {
		return s
	}

	s.wrMu.Lock()
	defer s.wrMu.Unlock()

	colorize := s.terminal && s.channel == domain.ChannelCerr
	if colorize {
		s.writer.WriteString(attrError)
	}

	s.writer.WriteString(str)

	if colorize {
		s.writer.WriteString(attrReset)
	}

	return s
}

func (s *OutStream) WriteInt(n int64) domain.OutStreamIface {

	if !s.IsConstructed() {
		return s
	}

	// Fixed stack buffer: integer formatting stays off the heap.
	var buf [intBufLen]byte
	b := strconv.AppendInt(buf[:0], n, 10)

	s.wrMu.Lock()
	defer s.wrMu.Unlock()

	colorize := s.terminal && s.channel == domain.ChannelCerr
	if colorize {
		s.writer.WriteString(attrError)
	}

	s.writer.Write(b)

	if colorize {
		s.writer.WriteString(attrReset)
	}

	return s
}

func (s *OutStream) Flush() domain.OutStreamIface {

	if !s.IsConstructed() {
		return s
	}

	s.wrMu.Lock()
	defer s.wrMu.Unlock()

	s.writer.Flush()

	return s
}

func (s *OutStream) Channel() domain.StreamChannel {
	return s.channel
}

func (s *OutStream) IsConstructed() bool {
	return atomic.LoadInt32(&s.constructed) == 1
}
