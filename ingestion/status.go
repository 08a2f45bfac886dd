// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"sync/atomic"

	"github.com/poiesic/docrag/core"
)

// StatusTracker holds the process-wide ingestion status. It is an
// injected capability, not a package singleton: create one at process
// start and pass it to the pipeline and the status endpoint.
//
// Writes are last-write-wins. Concurrent runs racing on the tracker
// leave whichever state was set last; the tracker does not count active
// runs.
type StatusTracker struct {
	state atomic.Int32
}

// NewStatusTracker creates a tracker in the Idle state.
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{}
}

// Set records the current job state.
func (t *StatusTracker) Set(state core.JobState) {
	t.state.Store(int32(state))
}

// Current returns the most recently set job state.
func (t *StatusTracker) Current() core.JobState {
	return core.JobState(t.state.Load())
}
