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

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in one call.
	// The returned slice contains exactly one embedding per input text,
	// in the same order as the input. Implementations must fail rather
	// than return a result of a different length.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Role identifies the author of a chat message.
type Role string

const (
	// RoleSystem marks instructions and retrieved context.
	RoleSystem Role = "system"
	// RoleUser marks the end user's message.
	RoleUser Role = "user"
)

// Message is a single entry in a chat conversation.
type Message struct {
	Role    Role
	Content string
}

// ChatModel sends an ordered message list to an LLM chat endpoint and
// returns the reply's textual content only.
// Implementations must be thread-safe for concurrent use.
type ChatModel interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Provider aggregates the model services for convenient initialization
// and lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// ChatModel returns the LLM chat service.
	ChatModel() ChatModel

	// Close releases resources held by the provider and its services.
	Close() error
}
