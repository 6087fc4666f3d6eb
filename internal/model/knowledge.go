package model

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeDoc represents the knowledge_docs table: one tenant-scoped grounding
// document. Embedding is nil until the embedding worker has processed the row.
type KnowledgeDoc struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Snippet is one retrieved grounding fact, ranked by similarity to the user's
// latest utterance.
type Snippet struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}
