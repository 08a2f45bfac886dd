package ingestion

import "errors"

var (
	// ErrSourceRequired is returned when a document source is not provided.
	ErrSourceRequired = errors.New("document source required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrUpserterRequired is returned when an upserter is not provided.
	ErrUpserterRequired = errors.New("upserter required")

	// ErrTrackerRequired is returned when a status tracker is not provided.
	ErrTrackerRequired = errors.New("status tracker required")

	// ErrInvalidWindow is returned when the overlap is not smaller than
	// the window size, or either value is non-positive.
	ErrInvalidWindow = errors.New("overlap must be smaller than window size")

	// ErrInvalidBatchSize is returned for a batch size below one.
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")
)
