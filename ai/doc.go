// Package ai defines the capability interfaces for the remote model
// services the pipeline depends on: text embedding and LLM chat.
//
// Concrete implementations live in subpackages:
//   - ai/remote: the production HTTP embedding provider and Ollama chat
//   - ai/openai: an embedder variant for OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles
package ai
