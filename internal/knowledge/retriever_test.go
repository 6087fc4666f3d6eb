package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

type fakeDocStore struct {
	docs []model.KnowledgeDoc
	err  error
}

func (f *fakeDocStore) ListKnowledgeDocs(_ context.Context, _ uuid.UUID) ([]model.KnowledgeDoc, error) {
	return f.docs, f.err
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return f.vec, f.err
}

func doc(title string, vec ...float32) model.KnowledgeDoc {
	return model.KnowledgeDoc{Title: title, Content: title + " content", Embedding: vec}
}

func TestRetrieve_RanksAboveThreshold(t *testing.T) {
	store := &fakeDocStore{docs: []model.KnowledgeDoc{
		doc("exact", 1, 0, 0),      // similarity 1.0
		doc("close", 0.9, 0.1, 0),  // high
		doc("orthogonal", 0, 1, 0), // similarity 0
	}}
	r := NewRetriever(store, &fakeEmbedder{vec: []float32{1, 0, 0}})

	snippets, err := r.Retrieve(context.Background(), uuid.New(), "warranty")
	require.NoError(t, err)
	require.Len(t, snippets, 2)
	assert.Equal(t, "exact", snippets[0].Title)
	assert.Equal(t, "close", snippets[1].Title)
	assert.Greater(t, snippets[0].Score, snippets[1].Score)
}

func TestRetrieve_CapsAtTopK(t *testing.T) {
	store := &fakeDocStore{docs: []model.KnowledgeDoc{
		doc("a", 1, 0), doc("b", 1, 0), doc("c", 1, 0), doc("d", 1, 0),
	}}
	r := NewRetriever(store, &fakeEmbedder{vec: []float32{1, 0}})

	snippets, err := r.Retrieve(context.Background(), uuid.New(), "q")
	require.NoError(t, err)
	assert.Len(t, snippets, 3)
}

func TestRetrieve_EmbedderFailureDegrades(t *testing.T) {
	store := &fakeDocStore{docs: []model.KnowledgeDoc{doc("a", 1, 0)}}
	r := NewRetriever(store, &fakeEmbedder{err: errors.New("quota exceeded")})

	snippets, err := r.Retrieve(context.Background(), uuid.New(), "q")
	assert.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestRetrieve_StoreFailureDegrades(t *testing.T) {
	store := &fakeDocStore{err: errors.New("db down")}
	r := NewRetriever(store, &fakeEmbedder{vec: []float32{1, 0}})

	snippets, err := r.Retrieve(context.Background(), uuid.New(), "q")
	assert.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Mismatched or empty vectors score zero instead of panicking.
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Zero(t, cosineSimilarity(nil, nil))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{0, 0}))
}
