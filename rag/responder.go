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

package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/vectorstore"
)

// DefaultTopK is the number of chunks retrieved per query.
const DefaultTopK = 3

// defaultInstruction precedes the retrieved context in the system
// message.
const defaultInstruction = "You are a helpful assistant. Answer the user's question using the following context:"

// Responder answers user messages, optionally grounding the answer in
// chunks retrieved from the vector store.
type Responder struct {
	embedder    ai.Embedder
	chat        ai.ChatModel
	store       vectorstore.Store
	topK        int
	instruction string
	logger      *slog.Logger
}

// ResponderOption configures a Responder.
type ResponderOption func(*Responder) error

// WithTopK sets how many chunks are retrieved per query. Default is 3.
func WithTopK(k int) ResponderOption {
	return func(r *Responder) error {
		if k < 1 {
			return ErrInvalidTopK
		}
		r.topK = k
		return nil
	}
}

// WithInstruction overrides the instruction that precedes the retrieved
// context in the system message.
func WithInstruction(instruction string) ResponderOption {
	return func(r *Responder) error {
		if strings.TrimSpace(instruction) != "" {
			r.instruction = instruction
		}
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) ResponderOption {
	return func(r *Responder) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

// NewResponder creates a responder over the given provider and store.
func NewResponder(provider ai.Provider, store vectorstore.Store, opts ...ResponderOption) (*Responder, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if store == nil {
		return nil, vectorstore.ErrStoreRequired
	}

	r := &Responder{
		embedder:    provider.Embedder(),
		chat:        provider.ChatModel(),
		store:       store,
		topK:        DefaultTopK,
		instruction: defaultInstruction,
		logger:      slog.Default().With("component", "responder"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Respond answers the user message and returns the model's reply text.
// With useEmbeddings the query is embedded, the closest chunks are
// retrieved and joined into a context block carried by a system message
// ahead of the user message. Without it, the user message goes to the
// model alone.
func (r *Responder) Respond(ctx context.Context, userMessage string, useEmbeddings bool) (string, error) {
	if strings.TrimSpace(userMessage) == "" {
		return "", ErrEmptyMessage
	}

	var messages []ai.Message
	if useEmbeddings {
		contextBlock, err := r.retrieve(ctx, userMessage)
		if err != nil {
			return "", err
		}
		messages = append(messages, ai.Message{
			Role:    ai.RoleSystem,
			Content: r.instruction + "\n\n" + contextBlock,
		})
	}
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: userMessage})

	reply, err := r.chat.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return reply, nil
}

// retrieve embeds the query and returns the top-k documents joined by
// blank lines.
func (r *Responder) retrieve(ctx context.Context, query string) (string, error) {
	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embedding query: %w", err)
	}
	if len(vector) == 0 {
		return "", ErrEmptyQueryEmbedding
	}

	results, err := r.store.Query(ctx, vector, r.topK)
	if err != nil {
		return "", fmt.Errorf("querying store: %w", err)
	}

	documents := make([]string, len(results))
	for i, result := range results {
		documents[i] = result.Document
	}
	r.logger.Debug("retrieved context", "chunks", len(documents))
	return strings.Join(documents, "\n\n"), nil
}

// StoreNote embeds a single free-text note and upserts it as one record
// with note provenance, making it retrievable alongside ingested
// document chunks.
func (r *Responder) StoreNote(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	vector, err := r.embedder.EmbedText(ctx, text)
	if err != nil {
		return fmt.Errorf("embedding note: %w", err)
	}
	if len(vector) == 0 {
		return ErrEmptyQueryEmbedding
	}

	record := core.NewStoredRecord(text, vector, map[string]string{"source": "note"})
	if err := r.store.Upsert(ctx, []core.StoredRecord{record}); err != nil {
		return fmt.Errorf("storing note: %w", err)
	}

	r.logger.Info("stored note", "id", record.ID)
	return nil
}
