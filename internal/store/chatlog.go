package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InsertChatLog appends one completed turn to the tenant's transcript log.
func (s *Store) InsertChatLog(ctx context.Context, tenantID uuid.UUID, userMessage, aiResponse string) error {
	query := `
		INSERT INTO chat_logs (id, tenant_id, user_message, ai_response, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query, uuid.New(), tenantID, userMessage, aiResponse, time.Now())
	return err
}
