package vectorstore

import "errors"

var (
	// ErrStoreRequired is returned when a store is not provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrInvalidBatchSize is returned for a batch size below one.
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")

	// ErrNotProvisioned is returned when Upsert or Query is called before
	// the collection has been resolved via Provision.
	ErrNotProvisioned = errors.New("collection not provisioned")
)
