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


package vectorstore

import (
	"context"
	"iter"
	"log/slog"

	"github.com/poiesic/docrag/core"
)

// DefaultBatchSize is the number of records sent per upsert call.
const DefaultBatchSize = 8

// Upserter consumes embedded chunks, groups them into fixed-size
// batches, derives the content-addressed ID for each record and writes
// every batch to the store. A batch failure aborts the run; batches
// already acknowledged by the store stay committed.
type Upserter struct {
	store    Store
	size     int
	metadata map[string]string
	logger   *slog.Logger
}

// UpserterOption configures an Upserter.
type UpserterOption func(*Upserter) error

// WithBatchSize sets the records-per-call batch size. Default is 8.
func WithBatchSize(size int) UpserterOption {
	return func(u *Upserter) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		u.size = size
		return nil
	}
}

// WithMetadata sets the metadata attached to every stored record.
func WithMetadata(metadata map[string]string) UpserterOption {
	return func(u *Upserter) error {
		if metadata != nil {
			u.metadata = metadata
		}
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) UpserterOption {
	return func(u *Upserter) error {
		if logger != nil {
			u.logger = logger
		}
		return nil
	}
}

// NewUpserter creates an upserter writing to the given store.
func NewUpserter(store Store, opts ...UpserterOption) (*Upserter, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	u := &Upserter{
		store:    store,
		size:     DefaultBatchSize,
		metadata: map[string]string{"source": "document-pipeline"},
		logger:   slog.Default().With("component", "upserter"),
	}
	for _, opt := range opts {
		if err := opt(u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Persist drains the embedded-chunk sequence into the store and returns
// the number of records written. The sequence is consumed exactly once;
// an error from upstream or from the store stops consumption
// immediately.
func (u *Upserter) Persist(ctx context.Context, pairs iter.Seq2[core.Embedded, error]) (int, error) {
	batch := make([]core.StoredRecord, 0, u.size)
	stored := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := u.store.Upsert(ctx, batch); err != nil {
			return err
		}
		stored += len(batch)
		u.logger.Debug("upserted batch", "records", len(batch), "total", stored)
		batch = batch[:0]
		return nil
	}

	for pair, err := range pairs {
		if err != nil {
			return stored, err
		}
		batch = append(batch, core.NewStoredRecord(pair.Chunk.Text, pair.Vector, u.metadata))
		if len(batch) >= u.size {
			if err := flush(); err != nil {
				return stored, err
			}
		}
	}

	if err := flush(); err != nil {
		return stored, err
	}
	return stored, nil
}
