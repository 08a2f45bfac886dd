// Package core defines the domain model shared by the ingestion pipeline,
// the vector store client and the retrieval-augmented chat path.
//
// The central types are:
//   - Chunk: an overlapping text window cut from a source document
//   - Embedded: a chunk paired with its embedding vector
//   - StoredRecord: the persisted unit, keyed by a content-derived ID
//   - QueryResult: a similarity match returned by the vector store
//   - JobState: the process-wide ingestion status
package core
