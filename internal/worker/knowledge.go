package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/ai"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

// KnowledgeStore is the document repository subset the embedding worker needs.
type KnowledgeStore interface {
	DocsMissingEmbedding(ctx context.Context) ([]model.KnowledgeDoc, error)
	SetDocEmbedding(ctx context.Context, docID uuid.UUID, embedding []float32) error
}

// KnowledgeWorker embeds grounding documents so the retriever can rank them.
type KnowledgeWorker struct {
	store    KnowledgeStore
	embedder ai.Embedder
}

// NewKnowledgeWorker creates a KnowledgeWorker.
func NewKnowledgeWorker(store KnowledgeStore, embedder ai.Embedder) *KnowledgeWorker {
	return &KnowledgeWorker{store: store, embedder: embedder}
}

// Run embeds every document currently missing a vector.
func (w *KnowledgeWorker) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	docs, err := w.store.DocsMissingEmbedding(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Knowledge worker: poll failed")
		return
	}
	if len(docs) == 0 {
		return
	}

	log.Info().Int("count", len(docs)).Msg("Knowledge worker: documents to embed")
	for _, doc := range docs {
		embedding, err := w.embedder.Embed(ctx, doc.Content)
		if err != nil {
			log.Error().Err(err).Str("doc_id", doc.ID.String()).Msg("Knowledge worker: embedding failed")
			continue
		}
		if err := w.store.SetDocEmbedding(ctx, doc.ID, embedding); err != nil {
			log.Error().Err(err).Str("doc_id", doc.ID.String()).Msg("Knowledge worker: save failed")
		}
	}
}
