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

	"github.com/poiesic/docrag/core"
)

// Store provides access to the remote vector collection.
// Implementations must be thread-safe after Provision has returned.
type Store interface {
	// Provision idempotently ensures the tenant, database and collection
	// exist, in that order, and resolves the collection identifier used
	// by Upsert and Query. It must run once at startup before any other
	// call; a failure here is fatal for the process.
	Provision(ctx context.Context) error

	// Upsert writes one batch of records to the collection. Records with
	// an ID already present are overwritten. The whole batch is the unit
	// of failure: there is no per-item retry.
	Upsert(ctx context.Context, records []core.StoredRecord) error

	// Query returns the nResults nearest records to the given embedding,
	// in the store's ascending-distance order.
	Query(ctx context.Context, embedding []float32, nResults int) ([]core.QueryResult, error)
}
