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

// Validate checks that a stored record is complete and internally
// consistent before it is sent to the vector store.
func (r *StoredRecord) Validate() error {
	if r.Document == "" {
		return ErrEmptyDocument
	}
	if len(r.Embedding) == 0 {
		return ErrEmptyEmbedding
	}
	if r.ID != RecordIDFromContent(r.Document) {
		return ErrIDMismatch
	}
	return nil
}
