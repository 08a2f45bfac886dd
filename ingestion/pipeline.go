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
	"iter"
	"log/slog"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/vectorstore"
)

// DocumentSource produces the raw texts to ingest.
type DocumentSource interface {
	// Documents returns a lazy, finite, single-pass sequence of full
	// document texts, one per source document.
	Documents(ctx context.Context) iter.Seq2[string, error]
}

// Pipeline drives one ingestion run: documents are chunked, embedded in
// batches and upserted into the vector store, in strict sequence per
// batch. Concurrent runs of the same pipeline are not coordinated here;
// callers wanting isolation must serialize them.
type Pipeline struct {
	source   DocumentSource
	chunker  *Chunker
	batcher  *Batcher
	upserter *vectorstore.Upserter
	tracker  *StatusTracker
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*pipelineOptions) error

type pipelineOptions struct {
	windowSize int
	overlap    int
	batchSize  int
	logger     *slog.Logger
}

// WithWindow sets the chunk window size and overlap, in runes.
// Defaults are 1000 and 200. An overlap >= window size is rejected.
func WithWindow(windowSize, overlap int) Option {
	return func(o *pipelineOptions) error {
		if windowSize < 1 || overlap < 0 || overlap >= windowSize {
			return ErrInvalidWindow
		}
		o.windowSize = windowSize
		o.overlap = overlap
		return nil
	}
}

// WithEmbedBatchSize sets the batch size used for both embedding calls
// and store upserts. Default is 8.
func WithEmbedBatchSize(size int) Option {
	return func(o *pipelineOptions) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		o.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *pipelineOptions) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	}
}

// NewPipeline assembles an ingestion pipeline. Configuration faults
// (window geometry, batch size) surface here, at startup, never at run
// time.
func NewPipeline(
	source DocumentSource,
	embedder ai.Embedder,
	store vectorstore.Store,
	tracker *StatusTracker,
	opts ...Option,
) (*Pipeline, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, vectorstore.ErrStoreRequired
	}
	if tracker == nil {
		return nil, ErrTrackerRequired
	}

	options := &pipelineOptions{
		windowSize: DefaultWindowSize,
		overlap:    DefaultOverlap,
		batchSize:  DefaultEmbedBatchSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	chunker, err := NewChunker(options.windowSize, options.overlap)
	if err != nil {
		return nil, err
	}

	batcher, err := NewBatcher(embedder,
		WithBatchSize(options.batchSize),
		WithBatcherLogger(options.logger))
	if err != nil {
		return nil, err
	}

	upserter, err := vectorstore.NewUpserter(store,
		vectorstore.WithBatchSize(options.batchSize),
		vectorstore.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		source:   source,
		chunker:  chunker,
		batcher:  batcher,
		upserter: upserter,
		tracker:  tracker,
		logger:   options.logger.With("component", "pipeline"),
	}, nil
}

// Run ingests every document the source offers and returns the number
// of records stored. The tracker reads Processing for the duration of
// the run and returns to Idle when it ends, successfully or not.
// Batches acknowledged by the store before a failure stay committed.
func (p *Pipeline) Run(ctx context.Context) (int, error) {
	p.tracker.Set(core.JobProcessing)
	defer p.tracker.Set(core.JobIdle)

	p.logger.Info("ingestion run started")

	documents := p.source.Documents(ctx)
	chunks := p.chunker.Chunks(documents)
	pairs := p.batcher.Embed(ctx, chunks)

	stored, err := p.upserter.Persist(ctx, pairs)
	if err != nil {
		p.logger.Error("ingestion run failed", "stored", stored, "err", err)
		return stored, err
	}

	p.logger.Info("ingestion run finished", "stored", stored)
	return stored, nil
}
