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


package remote

import (
	"log/slog"

	"github.com/poiesic/docrag/ai"
)

// Provider implements ai.Provider using the remote embedding endpoint and
// an Ollama chat service. The embedder can be swapped for another variant
// (for example ai/openai) through WithEmbedder.
type Provider struct {
	config   *ai.Config
	embedder ai.Embedder
	chat     ai.ChatModel
	logger   *slog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithEmbedder replaces the default HTTP embedder with another
// ai.Embedder implementation.
func WithEmbedder(embedder ai.Embedder) ProviderOption {
	return func(p *Provider) {
		if embedder != nil {
			p.embedder = embedder
		}
	}
}

// NewProvider creates the production provider. The config is validated
// and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to implementation details.
func NewProvider(config *ai.Config, opts ...ProviderOption) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	chat, err := newChat(config)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		config: config,
		chat:   chat,
		logger: slog.Default().With("component", "remote-provider"),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.embedder == nil {
		embedder, err := newEmbedder(config)
		if err != nil {
			return nil, err
		}
		p.embedder = embedder
	}

	return p, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// ChatModel returns the LLM chat service.
func (p *Provider) ChatModel() ai.ChatModel {
	return p.chat
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing remote provider")
	return nil
}
