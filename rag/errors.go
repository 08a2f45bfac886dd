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

package rag

import "errors"

var (
	// ErrProviderRequired indicates the responder was built without an
	// AI provider.
	ErrProviderRequired = errors.New("ai provider is required")

	// ErrEmptyMessage indicates an empty or whitespace-only user
	// message. This is a caller fault, not a provider fault.
	ErrEmptyMessage = errors.New("user message is empty")

	// ErrEmptyQueryEmbedding indicates the embedding provider returned
	// an empty vector for the query, so no retrieval is possible. This
	// is treated as a caller-input fault and surfaces before any LLM
	// call.
	ErrEmptyQueryEmbedding = errors.New("query embedding is empty")

	// ErrInvalidTopK indicates a non-positive retrieval count.
	ErrInvalidTopK = errors.New("top-k must be at least 1")
)
