package ingestion

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/ai/mock"
	"github.com/poiesic/docrag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkSeq(texts ...string) iter.Seq2[core.Chunk, error] {
	return func(yield func(core.Chunk, error) bool) {
		for _, text := range texts {
			if !yield(core.Chunk{Text: text}, nil) {
				return
			}
		}
	}
}

func collectPairs(seq iter.Seq2[core.Embedded, error]) ([]core.Embedded, error) {
	var pairs []core.Embedded
	for pair, err := range seq {
		if err != nil {
			return pairs, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func TestBatcherGroupsCalls(t *testing.T) {
	embedder := mock.NewEmbedder()
	batcher, err := NewBatcher(embedder)
	require.NoError(t, err)

	texts := make([]string, 10)
	for i := range texts {
		texts[i] = string(rune('a' + i))
	}

	pairs, err := collectPairs(batcher.Embed(context.Background(), chunkSeq(texts...)))
	require.NoError(t, err)

	assert.Len(t, pairs, 10)
	assert.Equal(t, []int{8, 2}, embedder.BatchSizes, "a full batch then the tail")
}

func TestBatcherPreservesOrder(t *testing.T) {
	texts := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta"}

	for _, size := range []int{1, 2, 3, 5, 8} {
		embedder := mock.NewEmbedder()
		batcher, err := NewBatcher(embedder, WithBatchSize(size))
		require.NoError(t, err)

		pairs, err := collectPairs(batcher.Embed(context.Background(), chunkSeq(texts...)))
		require.NoError(t, err)
		require.Len(t, pairs, len(texts), "batch size %d", size)

		for i, pair := range pairs {
			assert.Equal(t, texts[i], pair.Chunk.Text, "batch size %d, pair %d", size, i)
			want, _ := embedder.EmbedText(context.Background(), texts[i])
			assert.Equal(t, want, pair.Vector, "vector pairs with its own chunk")
		}
	}
}

func TestBatcherCountMismatchFailsBatch(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		// One vector short of the submitted count.
		return make([][]float32, len(texts)-1), nil
	}

	batcher, err := NewBatcher(embedder, WithBatchSize(3))
	require.NoError(t, err)

	pairs, err := collectPairs(batcher.Embed(context.Background(), chunkSeq("a", "b", "c")))
	assert.ErrorIs(t, err, ai.ErrEmbeddingCountMismatch)
	assert.Empty(t, pairs, "no positional guessing on a short response")
}

func TestBatcherCompletedBatchesSurviveLaterFailure(t *testing.T) {
	calls := 0
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("provider down")
		}
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = []float32{float32(i)}
		}
		return vectors, nil
	}

	batcher, err := NewBatcher(embedder, WithBatchSize(2))
	require.NoError(t, err)

	pairs, err := collectPairs(batcher.Embed(context.Background(), chunkSeq("a", "b", "c", "d")))
	assert.Error(t, err)
	assert.Len(t, pairs, 2, "first batch already emitted")
	assert.Equal(t, "a", pairs[0].Chunk.Text)
	assert.Equal(t, "b", pairs[1].Chunk.Text)
}

func TestBatcherUpstreamErrorSkipsProvider(t *testing.T) {
	embedder := mock.NewEmbedder()
	batcher, err := NewBatcher(embedder, WithBatchSize(8))
	require.NoError(t, err)

	boom := errors.New("chunker failed")
	seq := func(yield func(core.Chunk, error) bool) {
		if !yield(core.Chunk{Text: "buffered"}, nil) {
			return
		}
		yield(core.Chunk{}, boom)
	}

	pairs, err := collectPairs(batcher.Embed(context.Background(), seq))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, pairs)
	assert.Empty(t, embedder.BatchSizes, "partial buffer is not flushed on upstream failure")
}

func TestBatcherEmptyInput(t *testing.T) {
	embedder := mock.NewEmbedder()
	batcher, err := NewBatcher(embedder)
	require.NoError(t, err)

	pairs, err := collectPairs(batcher.Embed(context.Background(), chunkSeq()))
	require.NoError(t, err)
	assert.Empty(t, pairs)
	assert.Zero(t, embedder.CallCount(), "no provider call for an empty sequence")
}

func TestNewBatcherGuards(t *testing.T) {
	_, err := NewBatcher(nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewBatcher(mock.NewEmbedder(), WithBatchSize(0))
	assert.ErrorIs(t, err, ErrInvalidBatchSize)
}
