package ai

import "errors"

var (
	// ErrEmbeddingURLRequired is returned when no embedding endpoint is configured.
	ErrEmbeddingURLRequired = errors.New("ai config: EmbeddingURL is required")

	// ErrChatHostRequired is returned when no chat host is configured.
	ErrChatHostRequired = errors.New("ai config: ChatHost is required")

	// ErrChatModelRequired is returned when no chat model is configured.
	ErrChatModelRequired = errors.New("ai config: ChatModel is required")

	// ErrInvalidTemperature is returned when the temperature is outside [0, 2].
	ErrInvalidTemperature = errors.New("ai config: Temperature must be between 0 and 2")

	// ErrEmbeddingCountMismatch is returned when a provider answers a batch
	// with a different number of vectors than texts submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count does not match text count")

	// ErrNoReply is returned when the chat model produces no choices.
	ErrNoReply = errors.New("chat model returned no reply")
)
