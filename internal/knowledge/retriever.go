// Package knowledge implements best-effort grounding retrieval: a similarity
// search over tenant-scoped embedded documents.
package knowledge

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/ai"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

// DocStore lists a tenant's embedded documents.
type DocStore interface {
	ListKnowledgeDocs(ctx context.Context, tenantID uuid.UUID) ([]model.KnowledgeDoc, error)
}

const (
	defaultThreshold = 0.55
	defaultTopK      = 3
)

// Retriever embeds the query and ranks the tenant's documents by cosine
// similarity. Every failure path degrades to an empty result; retrieval never
// fails a turn.
type Retriever struct {
	store     DocStore
	embedder  ai.Embedder
	threshold float64
	topK      int
}

// NewRetriever creates a Retriever with the default similarity floor and
// result cap.
func NewRetriever(store DocStore, embedder ai.Embedder) *Retriever {
	return &Retriever{
		store:     store,
		embedder:  embedder,
		threshold: defaultThreshold,
		topK:      defaultTopK,
	}
}

// Retrieve returns up to topK snippets scoring at or above the similarity
// floor, best first. The error return is always nil; failures are logged and
// swallowed here so no caller is tempted to abort a turn over grounding.
func (r *Retriever) Retrieve(ctx context.Context, tenantID uuid.UUID, query string) ([]model.Snippet, error) {
	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("Query embedding failed")
		return nil, nil
	}

	docs, err := r.store.ListKnowledgeDocs(ctx, tenantID)
	if err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("Knowledge store unavailable")
		return nil, nil
	}

	snippets := make([]model.Snippet, 0, len(docs))
	for _, doc := range docs {
		score := cosineSimilarity(queryVec, doc.Embedding)
		if score >= r.threshold {
			snippets = append(snippets, model.Snippet{Title: doc.Title, Content: doc.Content, Score: score})
		}
	}

	sort.Slice(snippets, func(i, j int) bool { return snippets[i].Score > snippets[j].Score })
	if len(snippets) > r.topK {
		snippets = snippets[:r.topK]
	}
	return snippets, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
