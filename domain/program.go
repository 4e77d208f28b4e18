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

//
// ProgramIface is the contract between the system facade and the user
// program. The facade forwards the process arguments unchanged and
// propagates the returned code to the process exit status.
//

type ProgramIface interface {
	Start(args []string) int
}

//
// TaskIface bundles the body of execution handed to a thread. The task is
// owned by the caller and must outlive the thread bound to it.
//

type TaskIface interface {
	// Body of execution; the returned code is recorded as the thread's
	// completion status.
	Start() int

	// Preferred stack size in bytes; 0 means platform default.
	StackSize() uint64

	// Reports whether the task finished its fallible initialization.
	IsConstructed() bool
}
