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

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// RecordID is the identifier of a stored record in the vector collection.
// It is derived from record content, never from a counter.
type RecordID string

// RecordIDFromContent derives a RecordID from text using BLAKE2b-256.
// Identical text always yields the identical ID, which makes upserts of
// re-ingested content overwrite rather than duplicate.
func RecordIDFromContent(text string) RecordID {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(text))
	return RecordID(hex.EncodeToString(h.Sum(nil)))
}

// Chunk is a contiguous rune window extracted from a source document.
// Offset is the rune offset of the window within its document; it resets
// to zero at every document boundary. Chunks are immutable once produced.
type Chunk struct {
	Text   string
	Offset int
}

// Embedded pairs a chunk with the embedding vector generated for it.
type Embedded struct {
	Chunk  Chunk
	Vector []float32
}

// StoredRecord is the unit persisted in the vector collection.
type StoredRecord struct {
	ID        RecordID
	Document  string
	Embedding []float32
	Metadata  map[string]string
}

// NewStoredRecord builds a record for the given document text and vector,
// deriving the content-addressed ID. The metadata map is used as-is.
func NewStoredRecord(document string, embedding []float32, metadata map[string]string) StoredRecord {
	return StoredRecord{
		ID:        RecordIDFromContent(document),
		Document:  document,
		Embedding: embedding,
		Metadata:  metadata,
	}
}

// QueryResult is a single similarity match returned by the vector store.
// Distance is non-negative and smaller means more similar; results keep
// the store's ascending order and are never re-sorted locally.
type QueryResult struct {
	Document  string
	Embedding []float32
	Metadata  map[string]string
	Distance  float32
}

// JobState describes whether an ingestion run is currently active.
// There is a single value per process, held in memory only; a restart
// always begins at JobIdle regardless of how the previous run ended.
type JobState int32

const (
	// JobIdle means no ingestion run is active.
	JobIdle JobState = iota
	// JobProcessing means an ingestion run is in flight.
	JobProcessing
)

// String returns the wire representation used by the status endpoint.
func (s JobState) String() string {
	switch s {
	case JobProcessing:
		return "Processing"
	default:
		return "Idle"
	}
}
