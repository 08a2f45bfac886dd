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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/docrag/ai"
)

// Embedder implements ai.Embedder against the batch embedding endpoint.
//
// The wire contract is a single POST carrying {"texts": [...]} answered
// with {"embeddings": [[...], ...]}, one vector per text, positionally
// aligned. A response of any other length is a contract violation and
// fails the whole batch; vectors are never paired by guesswork.
type Embedder struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// EmbedderOption configures an Embedder.
type EmbedderOption func(*Embedder)

// WithHTTPClient sets the HTTP client used for embedding calls. This is
// where callers impose deadlines; the embedder itself never times out.
func WithHTTPClient(client *http.Client) EmbedderOption {
	return func(e *Embedder) {
		if client != nil {
			e.client = client
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) EmbedderOption {
	return func(e *Embedder) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config, opts ...EmbedderOption) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := &Embedder{
		endpoint: config.EmbeddingURL,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   slog.Default().With("component", "remote-embedder"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewEmbedder creates an embedder for the configured endpoint.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config, opts ...EmbedderOption) (ai.Embedder, error) {
	return newEmbedder(config, opts...)
}

type embedRequest struct {
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedTexts generates embeddings for the given texts in one call.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	e.logger.Debug("requesting embeddings", "texts", len(texts))

	payload, err := json.Marshal(embedRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("encode embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call embedding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Error("embedding service returned failure", "status", resp.Status)
		return nil, fmt.Errorf("embedding service: unexpected status %s", resp.Status)
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}

	if len(decoded.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: submitted %d, received %d",
			ai.ErrEmbeddingCountMismatch, len(texts), len(decoded.Embeddings))
	}

	return decoded.Embeddings, nil
}
