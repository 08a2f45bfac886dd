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


package ai

import "strings"

// Config holds configuration for the model service providers.
type Config struct {
	// EmbeddingURL is the full URL of the batch embedding endpoint.
	// Example: "http://localhost:5001/embed"
	EmbeddingURL string

	// EmbeddingModel is the model identifier used by embedder variants
	// that speak an OpenAI-compatible API. The production embedding
	// endpoint ignores it (the model is fixed server-side).
	EmbeddingModel string

	// ChatHost is the base URL of the Ollama-compatible chat service.
	// Example: "http://localhost:11434"
	ChatHost string

	// ChatModel is the model identifier for chat completions.
	// Example: "llama2:latest"
	ChatModel string

	// Temperature is the sampling temperature for chat completions.
	Temperature float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingURL sets the batch embedding endpoint URL.
func WithEmbeddingURL(url string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingURL = url
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithChatHost sets the chat service base URL.
func WithChatHost(host string) ConfigOption {
	return func(c *Config) {
		c.ChatHost = host
	}
}

// WithChatModel sets the chat model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithTemperature sets the chat sampling temperature.
func WithTemperature(temperature float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

// DefaultConfig returns a Config with defaults for local services.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingURL:   "http://localhost:5001/embed",
		EmbeddingModel: "all-MiniLM-L6-v2",
		ChatHost:       "http://localhost:11434",
		ChatModel:      "llama2:latest",
		Temperature:    0.7,
	}
}

// NewConfig creates a Config with default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in canonical form.
func (c *Config) Normalize() {
	c.ChatHost = strings.TrimSuffix(c.ChatHost, "/")
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingURL == "" {
		return ErrEmbeddingURLRequired
	}
	if c.ChatHost == "" {
		return ErrChatHostRequired
	}
	if c.ChatModel == "" {
		return ErrChatModelRequired
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return ErrInvalidTemperature
	}
	return nil
}
