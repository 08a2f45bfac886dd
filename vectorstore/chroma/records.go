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


package chroma

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/vectorstore"
)

type upsertRequest struct {
	IDs        []string            `json:"ids"`
	Embeddings [][]float32         `json:"embeddings"`
	Documents  []string            `json:"documents"`
	Metadatas  []map[string]string `json:"metadatas"`
}

// Upsert writes one batch of records to the collection. The four
// payload arrays are built in lockstep and are therefore always of
// equal length.
func (c *Client) Upsert(ctx context.Context, records []core.StoredRecord) error {
	if c.collectionID == "" {
		return vectorstore.ErrNotProvisioned
	}
	if len(records) == 0 {
		return nil
	}

	req := upsertRequest{
		IDs:        make([]string, len(records)),
		Embeddings: make([][]float32, len(records)),
		Documents:  make([]string, len(records)),
		Metadatas:  make([]map[string]string, len(records)),
	}
	for i, record := range records {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		req.IDs[i] = string(record.ID)
		req.Embeddings[i] = record.Embedding
		req.Documents[i] = record.Document
		req.Metadatas[i] = record.Metadata
	}

	status, err := c.do(ctx, http.MethodPost, c.upsertURL(), req, nil)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return fmt.Errorf("upsert %d records: status %d", len(records), status)
	}

	c.logger.Debug("upserted records", "count", len(records))
	return nil
}

type queryRequest struct {
	QueryEmbeddings [][]float32 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

// queryResponse carries one outer entry per submitted query vector.
type queryResponse struct {
	Documents  [][]string         `json:"documents"`
	Embeddings [][][]float32      `json:"embeddings"`
	Metadatas  [][]map[string]any `json:"metadatas"`
	Distances  [][]float32        `json:"distances"`
}

// Query returns the nResults nearest records to the embedding. Results
// keep the store's order: ascending distance, nearest first.
func (c *Client) Query(ctx context.Context, embedding []float32, nResults int) ([]core.QueryResult, error) {
	if c.collectionID == "" {
		return nil, vectorstore.ErrNotProvisioned
	}
	if nResults < 1 {
		nResults = 1
	}

	req := queryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        nResults,
		Include:         []string{"documents", "metadatas", "distances", "embeddings"},
	}

	var resp queryResponse
	status, err := c.do(ctx, http.MethodPost, c.queryURL(), req, &resp)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, fmt.Errorf("query: status %d", status)
	}

	if len(resp.Documents) == 0 {
		return []core.QueryResult{}, nil
	}

	documents := resp.Documents[0]
	results := make([]core.QueryResult, len(documents))
	for i, document := range documents {
		results[i] = core.QueryResult{Document: document}
		if len(resp.Embeddings) > 0 && i < len(resp.Embeddings[0]) {
			results[i].Embedding = resp.Embeddings[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			results[i].Metadata = stringifyMetadata(resp.Metadatas[0][i])
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			results[i].Distance = resp.Distances[0][i]
		}
	}
	return results, nil
}

// stringifyMetadata coerces metadata values read back from the store to
// strings. Chroma may return numbers or booleans for values written by
// other clients; ours are strings already.
func stringifyMetadata(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		switch v := value.(type) {
		case string:
			out[key] = v
		case bool:
			out[key] = strconv.FormatBool(v)
		case float64:
			out[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			out[key] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
