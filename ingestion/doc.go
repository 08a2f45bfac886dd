// Package ingestion implements the document ingestion pipeline:
// splitting raw document texts into overlapping windows, batching the
// windows through the embedding provider and handing the resulting
// pairs to the vector store upserter.
//
// The stages are connected as lazy, single-pass sequences pulled by the
// downstream consumer, so at most one embedding call and one store call
// are in flight per run. The package also holds the process-wide job
// status tracker.
package ingestion
