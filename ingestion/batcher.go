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


package ingestion

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/core"
)

// DefaultEmbedBatchSize is the number of chunks per embedding call.
const DefaultEmbedBatchSize = 8

// Batcher groups chunks into fixed-size batches, issues one embedding
// call per batch and re-emits (chunk, vector) pairs in input order.
//
// Pairing is strictly positional: response vector i belongs to buffered
// chunk i. A provider answering with a different count than submitted
// violates that contract and fails the batch outright; the batcher
// never guesses at a partial pairing.
type Batcher struct {
	embedder ai.Embedder
	size     int
	logger   *slog.Logger
}

// BatcherOption configures a Batcher.
type BatcherOption func(*Batcher) error

// WithBatchSize sets the chunks-per-call batch size. Default is 8.
func WithBatchSize(size int) BatcherOption {
	return func(b *Batcher) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		b.size = size
		return nil
	}
}

// WithBatcherLogger sets a custom logger. Default is slog.Default().
func WithBatcherLogger(logger *slog.Logger) BatcherOption {
	return func(b *Batcher) error {
		if logger != nil {
			b.logger = logger
		}
		return nil
	}
}

// NewBatcher creates a batcher over the given embedder.
func NewBatcher(embedder ai.Embedder, opts ...BatcherOption) (*Batcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	b := &Batcher{
		embedder: embedder,
		size:     DefaultEmbedBatchSize,
		logger:   slog.Default().With("component", "batcher"),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Embed lazily pairs every chunk of the input sequence with its
// embedding vector, preserving input order. A full buffer triggers one
// provider call; a non-empty tail is flushed when the input ends. Pairs
// from a completed call are final: a later failure never redoes them.
func (b *Batcher) Embed(ctx context.Context, chunks iter.Seq2[core.Chunk, error]) iter.Seq2[core.Embedded, error] {
	return func(yield func(core.Embedded, error) bool) {
		buffer := make([]core.Chunk, 0, b.size)

		flush := func() bool {
			if len(buffer) == 0 {
				return true
			}
			texts := make([]string, len(buffer))
			for i, chunk := range buffer {
				texts[i] = chunk.Text
			}

			b.logger.Debug("embedding batch", "chunks", len(texts))
			vectors, err := b.embedder.EmbedTexts(ctx, texts)
			if err != nil {
				yield(core.Embedded{}, err)
				return false
			}
			if len(vectors) != len(buffer) {
				yield(core.Embedded{}, fmt.Errorf("%w: submitted %d, received %d",
					ai.ErrEmbeddingCountMismatch, len(buffer), len(vectors)))
				return false
			}

			for i := range buffer {
				if !yield(core.Embedded{Chunk: buffer[i], Vector: vectors[i]}, nil) {
					return false
				}
			}
			buffer = buffer[:0]
			return true
		}

		for chunk, err := range chunks {
			if err != nil {
				yield(core.Embedded{}, err)
				return
			}
			buffer = append(buffer, chunk)
			if len(buffer) >= b.size {
				if !flush() {
					return
				}
			}
		}
		flush()
	}
}
