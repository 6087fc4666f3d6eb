package model

import (
	"time"

	"github.com/google/uuid"
)

// Lead represents the leads table: a prospective customer captured during a
// conversation, scoped to a tenant. Scalar fields are merge-only (a later turn
// never blanks an earlier value); the two image galleries are append-only sets.
type Lead struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`

	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerEmail   string `json:"customer_email"`
	CustomerAddress string `json:"customer_address"`

	ProjectSummary     string `json:"project_summary"`
	AppointmentRequest string `json:"appointment_request"`
	PreferredMethod    string `json:"preferred_method"`
	QualityScore       int    `json:"quality_score"`
	AISummary          string `json:"ai_summary"`

	CustomerImages []string `json:"customer_images"`
	AIRenderings   []string `json:"ai_renderings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
