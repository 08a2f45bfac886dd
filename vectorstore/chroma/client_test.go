package chroma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChroma simulates the slice of the Chroma v2 API the client uses.
type fakeChroma struct {
	mux *http.ServeMux

	tenantExists     bool
	databaseExists   bool
	collectionExists bool
	collectionID     string

	createdTenant     *createNameRequest
	createdDatabase   *createNameRequest
	createdCollection *createCollectionRequest
	upserts           []upsertRequest
	queries           []queryRequest
	queryReply        queryResponse
}

func newFakeChroma() *fakeChroma {
	f := &fakeChroma{mux: http.NewServeMux(), collectionID: "col-123"}

	f.mux.HandleFunc("GET /api/v2/tenants/t1", func(w http.ResponseWriter, r *http.Request) {
		if !f.tenantExists {
			w.WriteHeader(http.StatusNotFound)
		}
	})
	f.mux.HandleFunc("POST /api/v2/tenants", func(w http.ResponseWriter, r *http.Request) {
		var req createNameRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.createdTenant = &req
		w.WriteHeader(http.StatusCreated)
	})
	f.mux.HandleFunc("GET /api/v2/tenants/t1/databases/d1", func(w http.ResponseWriter, r *http.Request) {
		if !f.databaseExists {
			w.WriteHeader(http.StatusNotFound)
		}
	})
	f.mux.HandleFunc("POST /api/v2/tenants/t1/databases", func(w http.ResponseWriter, r *http.Request) {
		var req createNameRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.createdDatabase = &req
		w.WriteHeader(http.StatusCreated)
	})
	f.mux.HandleFunc("GET /api/v2/tenants/t1/databases/d1/collections/c1", func(w http.ResponseWriter, r *http.Request) {
		if !f.collectionExists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(collectionResponse{ID: f.collectionID, Name: "c1"})
	})
	f.mux.HandleFunc("POST /api/v2/tenants/t1/databases/d1/collections", func(w http.ResponseWriter, r *http.Request) {
		var req createCollectionRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.createdCollection = &req
		json.NewEncoder(w).Encode(collectionResponse{ID: f.collectionID, Name: req.Name})
	})
	f.mux.HandleFunc("POST /api/v2/tenants/t1/databases/d1/collections/col-123/upsert", func(w http.ResponseWriter, r *http.Request) {
		var req upsertRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.upserts = append(f.upserts, req)
	})
	f.mux.HandleFunc("POST /api/v2/tenants/t1/databases/d1/collections/col-123/query", func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.queries = append(f.queries, req)
		json.NewEncoder(w).Encode(f.queryReply)
	})

	return f
}

func setupClient(t *testing.T, fake *fakeChroma) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.mux)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:    srv.URL + "/api/v2",
		Tenant:     "t1",
		Database:   "d1",
		Collection: "c1",
	})
	require.NoError(t, err)
	return client
}

func TestProvisionCreatesMissingLevels(t *testing.T) {
	fake := newFakeChroma()
	fake.tenantExists = true // database and collection are missing

	client := setupClient(t, fake)
	require.NoError(t, client.Provision(context.Background()))

	assert.Nil(t, fake.createdTenant, "existing tenant must not be re-created")
	require.NotNil(t, fake.createdDatabase)
	assert.Equal(t, "d1", fake.createdDatabase.Name)
	require.NotNil(t, fake.createdCollection)
	assert.Equal(t, "c1", fake.createdCollection.Name)
	assert.True(t, fake.createdCollection.GetOrCreate)
	assert.Equal(t, "col-123", client.CollectionID())
}

func TestProvisionReusesExistingCollection(t *testing.T) {
	fake := newFakeChroma()
	fake.tenantExists = true
	fake.databaseExists = true
	fake.collectionExists = true

	client := setupClient(t, fake)
	require.NoError(t, client.Provision(context.Background()))

	assert.Nil(t, fake.createdCollection)
	assert.Equal(t, "col-123", client.CollectionID())
}

func TestProvisionCreateFailureSurfaces(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := NewClient(Config{
		BaseURL: srv.URL + "/api/v2", Tenant: "t1", Database: "d1", Collection: "c1",
	})
	require.NoError(t, err)

	err = client.Provision(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "tenant")
	assert.Empty(t, client.CollectionID())
}

func TestUpsertPayload(t *testing.T) {
	fake := newFakeChroma()
	fake.tenantExists, fake.databaseExists, fake.collectionExists = true, true, true

	client := setupClient(t, fake)
	require.NoError(t, client.Provision(context.Background()))

	records := []core.StoredRecord{
		core.NewStoredRecord("first chunk", []float32{1, 2}, map[string]string{"source": "document-pipeline"}),
		core.NewStoredRecord("second chunk", []float32{3, 4}, map[string]string{"source": "document-pipeline"}),
	}
	require.NoError(t, client.Upsert(context.Background(), records))

	require.Len(t, fake.upserts, 1)
	sent := fake.upserts[0]
	require.Len(t, sent.IDs, 2)
	require.Len(t, sent.Embeddings, 2)
	require.Len(t, sent.Documents, 2)
	require.Len(t, sent.Metadatas, 2)

	assert.Equal(t, string(core.RecordIDFromContent("first chunk")), sent.IDs[0])
	assert.Equal(t, "second chunk", sent.Documents[1])
	assert.Equal(t, []float32{3, 4}, sent.Embeddings[1])
	assert.Equal(t, "document-pipeline", sent.Metadatas[0]["source"])
}

func TestUpsertRequiresProvision(t *testing.T) {
	fake := newFakeChroma()
	client := setupClient(t, fake)

	err := client.Upsert(context.Background(), []core.StoredRecord{
		core.NewStoredRecord("x", []float32{1}, nil),
	})
	assert.ErrorIs(t, err, vectorstore.ErrNotProvisioned)

	_, err = client.Query(context.Background(), []float32{1}, 3)
	assert.ErrorIs(t, err, vectorstore.ErrNotProvisioned)
}

func TestQueryParsesNestedResponse(t *testing.T) {
	fake := newFakeChroma()
	fake.tenantExists, fake.databaseExists, fake.collectionExists = true, true, true
	fake.queryReply = queryResponse{
		Documents:  [][]string{{"a", "b", "c"}},
		Embeddings: [][][]float32{{{1}, {2}, {3}}},
		Metadatas: [][]map[string]any{{
			{"source": "document-pipeline"},
			{"page": float64(3)},
			{"final": true},
		}},
		Distances: [][]float32{{0.1, 0.4, 0.9}},
	}

	client := setupClient(t, fake)
	require.NoError(t, client.Provision(context.Background()))

	results, err := client.Query(context.Background(), []float32{0.5, 0.5}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Store order preserved verbatim, no local re-sort.
	assert.Equal(t, "a", results[0].Document)
	assert.Equal(t, "b", results[1].Document)
	assert.Equal(t, "c", results[2].Document)
	assert.Equal(t, float32(0.4), results[1].Distance)
	assert.Equal(t, []float32{2}, results[1].Embedding)

	// Non-string metadata values coerce to strings.
	assert.Equal(t, "3", results[1].Metadata["page"])
	assert.Equal(t, "true", results[2].Metadata["final"])

	require.Len(t, fake.queries, 1)
	assert.Equal(t, 3, fake.queries[0].NResults)
	assert.Equal(t, [][]float32{{0.5, 0.5}}, fake.queries[0].QueryEmbeddings)
	assert.ElementsMatch(t, []string{"documents", "metadatas", "distances", "embeddings"}, fake.queries[0].Include)
}

func TestQueryEmptyReply(t *testing.T) {
	fake := newFakeChroma()
	fake.tenantExists, fake.databaseExists, fake.collectionExists = true, true, true

	client := setupClient(t, fake)
	require.NoError(t, client.Provision(context.Background()))

	results, err := client.Query(context.Background(), []float32{1}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}
