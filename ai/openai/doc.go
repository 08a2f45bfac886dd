// Package openai provides an ai.Embedder variant for OpenAI-compatible
// embedding APIs (OpenAI, Ollama's /v1 surface, LocalAI, vLLM). It is a
// drop-in replacement for the production HTTP embedder when the
// deployment embeds through such a service instead of the dedicated
// batch endpoint.
package openai
