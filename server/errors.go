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

package server

import "errors"

var (
	// ErrRunnerRequired indicates no ingestion runner was provided.
	ErrRunnerRequired = errors.New("ingestion runner is required")

	// ErrStatusRequired indicates no status reader was provided.
	ErrStatusRequired = errors.New("status reader is required")

	// ErrResponderRequired indicates no responder was provided.
	ErrResponderRequired = errors.New("responder is required")
)
