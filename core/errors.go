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


package core

import "errors"

// Domain validation errors
var (
	// ErrEmptyDocument indicates a record's document text is empty.
	ErrEmptyDocument = errors.New("document text cannot be empty")

	// ErrEmptyEmbedding indicates a record has no embedding vector.
	ErrEmptyEmbedding = errors.New("embedding cannot be empty")

	// ErrIDMismatch indicates a record's ID does not match its content hash.
	ErrIDMismatch = errors.New("record id does not match content hash")
)
