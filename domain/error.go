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

// Error holds the OSAL termination codes. The numeric value of each
// enumerator doubles as the process exit status, so these must stay within
// the [0..128] range honored by all supported hosts.
type Error int32

const (
	// No errors have occurred.
	ErrorOk Error = 0

	// A syscall entry-point was reached on a non-constructed system.
	ErrorSyscallCalled Error = 1

	// The system aborted its own execution.
	ErrorSystemAbort Error = 2

	// A user program aborted its execution.
	ErrorUserAbort Error = 3

	// A requested resource could not be found.
	ErrorResourceNotFound Error = 4

	// An undefined error has occurred.
	ErrorUndefined Error = 127

	// The last (unused) error code; kept as the upper bound of the range.
	ErrorLast Error = 128
)

func (e Error) String() string {
	switch e {
	case ErrorOk:
		return "ok"
	case ErrorSyscallCalled:
		return "syscall-called"
	case ErrorSystemAbort:
		return "system-abort"
	case ErrorUserAbort:
		return "user-abort"
	case ErrorResourceNotFound:
		return "resource-not-found"
	case ErrorLast:
		return "last"
	default:
		return "undefined"
	}
}

// Error allows termination codes to travel through regular error returns.
func (e Error) Error() string {
	return "osal: " + e.String()
}

// ExitStatus returns the process exit status matching this error.
func (e Error) ExitStatus() int {
	return int(e)
}
