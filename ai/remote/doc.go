// Package remote contains the production implementations of the ai
// capability interfaces: an HTTP client for the batch embedding service
// and an Ollama-backed chat model.
package remote
