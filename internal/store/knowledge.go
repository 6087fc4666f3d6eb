package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

func (s *Store) queryKnowledgeDocs(ctx context.Context, query string, args ...interface{}) ([]model.KnowledgeDoc, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.KnowledgeDoc
	for rows.Next() {
		doc := model.KnowledgeDoc{}
		var embedding []byte
		err := rows.Scan(&doc.ID, &doc.TenantID, &doc.Title, &doc.Content, &embedding, &doc.CreatedAt)
		if err != nil {
			return nil, err
		}
		if embedding != nil {
			if err := json.Unmarshal(embedding, &doc.Embedding); err != nil {
				return nil, err
			}
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ListKnowledgeDocs returns a tenant's embedded grounding documents.
func (s *Store) ListKnowledgeDocs(ctx context.Context, tenantID uuid.UUID) ([]model.KnowledgeDoc, error) {
	query := `SELECT id, tenant_id, title, content, embedding, created_at
		FROM knowledge_docs WHERE tenant_id = $1 AND embedding IS NOT NULL`
	return s.queryKnowledgeDocs(ctx, query, tenantID)
}

// DocsMissingEmbedding returns documents awaiting embedding. The embedding
// worker re-polls this predicate; writing the embedding clears it.
func (s *Store) DocsMissingEmbedding(ctx context.Context) ([]model.KnowledgeDoc, error) {
	query := `SELECT id, tenant_id, title, content, embedding, created_at
		FROM knowledge_docs WHERE embedding IS NULL ORDER BY created_at`
	return s.queryKnowledgeDocs(ctx, query)
}

// SetDocEmbedding stores the embedding vector for a document.
func (s *Store) SetDocEmbedding(ctx context.Context, docID uuid.UUID, embedding []float32) error {
	data, err := json.Marshal(embedding)
	if err != nil {
		return err
	}
	query := `UPDATE knowledge_docs SET embedding = $2 WHERE id = $1`
	_, err = s.db.ExecContext(ctx, query, docID, data)
	return err
}
