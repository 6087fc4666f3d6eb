package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

const leadColumns = `id, tenant_id, customer_name, customer_phone, customer_email,
		customer_address, project_summary, appointment_request, preferred_method,
		quality_score, ai_summary, customer_images, ai_renderings, created_at, updated_at`

func scanLead(row *sql.Row) (*model.Lead, error) {
	lead := &model.Lead{}
	var images, renderings []byte
	err := row.Scan(
		&lead.ID, &lead.TenantID, &lead.CustomerName, &lead.CustomerPhone, &lead.CustomerEmail,
		&lead.CustomerAddress, &lead.ProjectSummary, &lead.AppointmentRequest, &lead.PreferredMethod,
		&lead.QualityScore, &lead.AISummary, &images, &renderings, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &lead.CustomerImages); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(renderings, &lead.AIRenderings); err != nil {
		return nil, err
	}
	return lead, nil
}

// FindLeadByPhone returns the tenant's lead with the given phone, or nil.
func (s *Store) FindLeadByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE tenant_id = $1 AND customer_phone = $2 LIMIT 1`
	return scanLead(s.db.QueryRowContext(ctx, query, tenantID, phone))
}

// FindLeadByEmail returns the tenant's lead with the given email, or nil.
func (s *Store) FindLeadByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE tenant_id = $1 AND customer_email = $2 LIMIT 1`
	return scanLead(s.db.QueryRowContext(ctx, query, tenantID, email))
}

func leadGalleries(lead *model.Lead) ([]byte, []byte, error) {
	if lead.CustomerImages == nil {
		lead.CustomerImages = []string{}
	}
	if lead.AIRenderings == nil {
		lead.AIRenderings = []string{}
	}
	images, err := json.Marshal(lead.CustomerImages)
	if err != nil {
		return nil, nil, err
	}
	renderings, err := json.Marshal(lead.AIRenderings)
	if err != nil {
		return nil, nil, err
	}
	return images, renderings, nil
}

// InsertLead persists a newly captured lead.
func (s *Store) InsertLead(ctx context.Context, lead *model.Lead) error {
	images, renderings, err := leadGalleries(lead)
	if err != nil {
		return err
	}

	lead.ID = uuid.New()
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = lead.CreatedAt

	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = s.db.ExecContext(ctx, query,
		lead.ID, lead.TenantID, lead.CustomerName, lead.CustomerPhone, lead.CustomerEmail,
		lead.CustomerAddress, lead.ProjectSummary, lead.AppointmentRequest, lead.PreferredMethod,
		lead.QualityScore, lead.AISummary, images, renderings, lead.CreatedAt, lead.UpdatedAt,
	)
	return err
}

// UpdateLead writes a merged lead back in place.
func (s *Store) UpdateLead(ctx context.Context, lead *model.Lead) error {
	images, renderings, err := leadGalleries(lead)
	if err != nil {
		return err
	}

	query := `
		UPDATE leads
		SET customer_name = $2, customer_phone = $3, customer_email = $4,
		    customer_address = $5, project_summary = $6, appointment_request = $7,
		    preferred_method = $8, quality_score = $9, ai_summary = $10,
		    customer_images = $11, ai_renderings = $12, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	return s.db.QueryRowContext(ctx, query,
		lead.ID, lead.CustomerName, lead.CustomerPhone, lead.CustomerEmail,
		lead.CustomerAddress, lead.ProjectSummary, lead.AppointmentRequest,
		lead.PreferredMethod, lead.QualityScore, lead.AISummary,
		images, renderings,
	).Scan(&lead.UpdatedAt)
}
