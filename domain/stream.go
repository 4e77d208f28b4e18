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

package domain

// StreamChannel designates the terminal sink an output stream writes to.
type StreamChannel int32

const (
	ChannelCout StreamChannel = iota // normal output
	ChannelCerr                      // error output
)

func (c StreamChannel) String() string {
	if c == ChannelCerr {
		return "cerr"
	}
	return "cout"
}

//
// OutStreamIface is a character sink. Writes from concurrent threads to
// the same stream may interleave; callers needing atomic lines must
// serialize externally. A terminal stream's handle is shared with the
// host and is never closed, only flushed; a file-backed stream owns its
// file and closes it.
//

type OutStreamIface interface {
	// Write emits the string with the stream's channel attributes and
	// restores the original attributes afterwards.
	Write(s string) OutStreamIface

	// WriteInt formats the integer in base 10 without touching the heap
	// and delegates to Write.
	WriteInt(n int64) OutStreamIface

	// Flush drains the stream's buffer to the host handle.
	Flush() OutStreamIface

	Channel() StreamChannel
	IsConstructed() bool
}

//
// StreamServiceIface owns the two default terminal streams and the
// process-wide redirection slots. Redirection takes effect immediately
// for subsequent writes.
//

type StreamServiceIface interface {
	Setup() error

	// Current targets.
	Cout() OutStreamIface
	Cerr() OutStreamIface

	// Redirection; a nil stream is rejected.
	SetCout(s OutStreamIface) bool
	SetCerr(s OutStreamIface) bool

	// ResetCout / ResetCerr restore the construction-time defaults.
	ResetCout()
	ResetCerr()

	// Named registry of redirect targets.
	Register(name string, s OutStreamIface) error
	Unregister(name string) error
	Lookup(name string) (OutStreamIface, bool)

	IsConstructed() bool
}
