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
// Configuration carries the process-wide settings consumed by the system
// services at setup time. A zero value is a valid configuration: every
// field falls back to its platform default.
//

type Configuration struct {

	// Size of the heap memory arena hint, in bytes (0 = unbounded).
	HeapSize uint64 `toml:"heap_size"`

	// Default stack size, in bytes, for the first user thread to be
	// created (0 = platform default). The scheduler records the value;
	// it is not applied to goroutine stacks, which stay runtime-managed.
	StackSize uint64 `toml:"stack_size"`
}

// DefaultConfiguration returns the settings used when no configuration
// collaborator is supplied to the system.
func DefaultConfiguration() *Configuration {
	return &Configuration{}
}
