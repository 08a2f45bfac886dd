package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/ai/mock"
	"github.com/poiesic/docrag/core"
	"github.com/poiesic/docrag/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	results  []core.QueryResult
	queryErr error

	lastVector  []float32
	lastN       int
	upserted    []core.StoredRecord
	upsertErr   error
	queryCalled bool
}

func (s *fakeStore) Provision(_ context.Context) error { return nil }

func (s *fakeStore) Upsert(_ context.Context, records []core.StoredRecord) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserted = append(s.upserted, records...)
	return nil
}

func (s *fakeStore) Query(_ context.Context, embedding []float32, nResults int) ([]core.QueryResult, error) {
	s.queryCalled = true
	s.lastVector = embedding
	s.lastN = nResults
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.results, nil
}

func newTestResponder(t *testing.T, store *fakeStore, chat *mock.ChatModel, opts ...ResponderOption) (*Responder, *mock.Embedder) {
	t.Helper()
	embedder := mock.NewEmbedder()
	provider := &mock.Provider{Emb: embedder, Chat: chat}
	responder, err := NewResponder(provider, store, opts...)
	require.NoError(t, err)
	return responder, embedder
}

func TestRespondWithEmbeddings(t *testing.T) {
	store := &fakeStore{results: []core.QueryResult{
		{Document: "first chunk"},
		{Document: "second chunk"},
		{Document: "third chunk"},
	}}
	chat := mock.NewChatModel("the answer")
	responder, _ := newTestResponder(t, store, chat)

	reply, err := responder.Respond(context.Background(), "what is this?", true)
	require.NoError(t, err)
	assert.Equal(t, "the answer", reply)

	assert.Equal(t, 3, store.lastN, "default top-k")
	require.Len(t, chat.LastMessages, 2)

	system := chat.LastMessages[0]
	assert.Equal(t, ai.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "first chunk\n\nsecond chunk\n\nthird chunk")
	assert.True(t, strings.HasPrefix(system.Content, "You are a helpful assistant"))

	user := chat.LastMessages[1]
	assert.Equal(t, ai.RoleUser, user.Role)
	assert.Equal(t, "what is this?", user.Content)
}

func TestRespondWithoutEmbeddingsSkipsRetrieval(t *testing.T) {
	store := &fakeStore{}
	chat := mock.NewChatModel("plain reply")
	responder, embedder := newTestResponder(t, store, chat)

	reply, err := responder.Respond(context.Background(), "hello", false)
	require.NoError(t, err)
	assert.Equal(t, "plain reply", reply)

	assert.False(t, store.queryCalled)
	assert.Zero(t, embedder.CallCount())
	require.Len(t, chat.LastMessages, 1)
	assert.Equal(t, ai.RoleUser, chat.LastMessages[0].Role)
}

func TestRespondEmptyQueryEmbedding(t *testing.T) {
	store := &fakeStore{}
	chat := mock.NewChatModel("unused")
	responder, embedder := newTestResponder(t, store, chat)
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return []float32{}, nil
	}

	_, err := responder.Respond(context.Background(), "query", true)
	assert.ErrorIs(t, err, ErrEmptyQueryEmbedding)
	assert.False(t, store.queryCalled, "no retrieval on an empty vector")
	assert.Zero(t, chat.CallCount(), "no LLM call on an empty vector")
}

func TestRespondEmptyMessage(t *testing.T) {
	responder, embedder := newTestResponder(t, &fakeStore{}, mock.NewChatModel("unused"))

	_, err := responder.Respond(context.Background(), "   \n ", true)
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Zero(t, embedder.CallCount())
}

func TestRespondStoreFailure(t *testing.T) {
	store := &fakeStore{queryErr: errors.New("chroma down")}
	chat := mock.NewChatModel("unused")
	responder, _ := newTestResponder(t, store, chat)

	_, err := responder.Respond(context.Background(), "query", true)
	assert.Error(t, err)
	assert.Zero(t, chat.CallCount())
}

func TestRespondCustomTopKAndInstruction(t *testing.T) {
	store := &fakeStore{results: []core.QueryResult{{Document: "only chunk"}}}
	chat := mock.NewChatModel("reply")
	responder, _ := newTestResponder(t, store, chat,
		WithTopK(5), WithInstruction("Answer from these notes:"))

	_, err := responder.Respond(context.Background(), "query", true)
	require.NoError(t, err)

	assert.Equal(t, 5, store.lastN)
	assert.Equal(t, "Answer from these notes:\n\nonly chunk", chat.LastMessages[0].Content)
}

func TestStoreNote(t *testing.T) {
	store := &fakeStore{}
	responder, _ := newTestResponder(t, store, mock.NewChatModel("unused"))

	require.NoError(t, responder.StoreNote(context.Background(), "remember this fact"))

	require.Len(t, store.upserted, 1)
	record := store.upserted[0]
	assert.Equal(t, "remember this fact", record.Document)
	assert.Equal(t, core.RecordIDFromContent("remember this fact"), record.ID)
	assert.Equal(t, "note", record.Metadata["source"])
	assert.NotEmpty(t, record.Embedding)
}

func TestStoreNoteEmptyText(t *testing.T) {
	store := &fakeStore{}
	responder, _ := newTestResponder(t, store, mock.NewChatModel("unused"))

	err := responder.StoreNote(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, store.upserted)
}

func TestNewResponderGuards(t *testing.T) {
	store := &fakeStore{}
	provider := &mock.Provider{Emb: mock.NewEmbedder(), Chat: mock.NewChatModel("")}

	_, err := NewResponder(nil, store)
	assert.ErrorIs(t, err, ErrProviderRequired)

	_, err = NewResponder(provider, nil)
	assert.ErrorIs(t, err, vectorstore.ErrStoreRequired)

	_, err = NewResponder(provider, store, WithTopK(0))
	assert.ErrorIs(t, err, ErrInvalidTopK)
}
