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

// Package docrag assembles the document ingestion pipeline and the
// retrieval-augmented responder from a single configuration.
package docrag

import (
	"context"
	"log/slog"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/ai/remote"
	"github.com/poiesic/docrag/docsource"
	"github.com/poiesic/docrag/ingestion"
	"github.com/poiesic/docrag/rag"
	"github.com/poiesic/docrag/vectorstore/chroma"
)

// Config gathers the settings for every collaborator the service wires.
type Config struct {
	// DataDir is the folder of text documents to ingest.
	DataDir string

	// AI configures the embedding and chat providers.
	AI *ai.Config

	// Chroma configures the vector store connection.
	Chroma chroma.Config

	// WindowSize and Overlap set the chunk geometry, in runes.
	// Zero means the ingestion defaults (1000 and 200).
	WindowSize int
	Overlap    int

	// BatchSize sets the embedding and upsert batch size. Zero means
	// the default (8).
	BatchSize int

	// TopK sets how many chunks back a chat query. Zero means the
	// default (3).
	TopK int
}

// DefaultConfig returns settings for an all-local deployment.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		AI:      ai.DefaultConfig(),
		Chroma:  chroma.DefaultConfig(),
	}
}

// Service owns the wired collaborators. Create one at process start,
// call Provision before serving, Close on the way out.
type Service struct {
	provider  ai.Provider
	store     *chroma.Client
	source    *docsource.DirSource
	tracker   *ingestion.StatusTracker
	pipeline  *ingestion.Pipeline
	responder *rag.Responder
	logger    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// WithEmbedder replaces the default HTTP embedder, for example with the
// OpenAI-compatible variant from ai/openai.
func WithEmbedder(embedder ai.Embedder) ServiceOption {
	return func(o *serviceOptions) {
		o.embedder = embedder
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewService wires provider, store, document source, pipeline and
// responder from the given configuration. Configuration faults surface
// here; network faults surface later, from Provision or the first call.
func NewService(cfg *Config, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.AI == nil {
		cfg.AI = ai.DefaultConfig()
	}

	options := &serviceOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	var providerOpts []remote.ProviderOption
	if options.embedder != nil {
		providerOpts = append(providerOpts, remote.WithEmbedder(options.embedder))
	}
	provider, err := remote.NewProvider(cfg.AI, providerOpts...)
	if err != nil {
		return nil, err
	}

	store, err := chroma.NewClient(cfg.Chroma, chroma.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		return nil, err
	}

	source, err := docsource.NewDirSource(cfg.DataDir,
		docsource.WithDirLogger(options.logger))
	if err != nil {
		provider.Close()
		return nil, err
	}

	tracker := ingestion.NewStatusTracker()

	pipelineOpts := []ingestion.Option{ingestion.WithLogger(options.logger)}
	if cfg.WindowSize != 0 || cfg.Overlap != 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithWindow(cfg.WindowSize, cfg.Overlap))
	}
	if cfg.BatchSize != 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithEmbedBatchSize(cfg.BatchSize))
	}
	pipeline, err := ingestion.NewPipeline(source, provider.Embedder(), store, tracker, pipelineOpts...)
	if err != nil {
		provider.Close()
		return nil, err
	}

	responderOpts := []rag.ResponderOption{rag.WithLogger(options.logger)}
	if cfg.TopK != 0 {
		responderOpts = append(responderOpts, rag.WithTopK(cfg.TopK))
	}
	responder, err := rag.NewResponder(provider, store, responderOpts...)
	if err != nil {
		provider.Close()
		return nil, err
	}

	return &Service{
		provider:  provider,
		store:     store,
		source:    source,
		tracker:   tracker,
		pipeline:  pipeline,
		responder: responder,
		logger:    options.logger,
	}, nil
}

// Provision ensures the tenant, database and collection exist in the
// vector store. Call it once at startup; any failure is fatal there.
func (s *Service) Provision(ctx context.Context) error {
	return s.store.Provision(ctx)
}

// Pipeline returns the ingestion pipeline.
func (s *Service) Pipeline() *ingestion.Pipeline {
	return s.pipeline
}

// Tracker returns the ingestion status tracker.
func (s *Service) Tracker() *ingestion.StatusTracker {
	return s.tracker
}

// Responder returns the retrieval-augmented responder.
func (s *Service) Responder() *rag.Responder {
	return s.responder
}

// NewWatcher creates a file watcher over the data folder that re-runs
// the pipeline on changes.
func (s *Service) NewWatcher(opts ...docsource.WatcherOption) (*docsource.Watcher, error) {
	return docsource.NewWatcher(s.source.Dir(), s.pipeline, opts...)
}

// Close releases the AI provider.
func (s *Service) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
		return err
	}
	return nil
}
