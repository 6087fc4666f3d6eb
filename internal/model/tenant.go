package model

import (
	"time"

	"github.com/google/uuid"
)

// Tenant statuses
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// Tenant represents the tenants table: one business customer with its own
// branding, persona, catalog and image-credit balance.
type Tenant struct {
	ID           uuid.UUID `json:"id"`
	CompanyName  string    `json:"company_name"`
	APIKey       string    `json:"-"` // Not exposed in API responses
	ContactEmail string    `json:"contact_email"`
	Status       string    `json:"status"`

	// Widget branding
	BotTitle     string `json:"bot_title"`
	LogoURL      string `json:"logo_url"`
	PrimaryColor string `json:"primary_color"`
	WebsiteURL   string `json:"website_url"`

	// Persona inputs and output. BotPersona is nil until the persona worker
	// has processed the tenant's training inputs.
	BotPersona          *string `json:"bot_persona"`
	SalesPromptOverride *string `json:"sales_prompt_override"`
	TrainingDocURL      *string `json:"training_doc_url"`

	// Billing
	ImageCredits     int     `json:"image_credits"`
	AutoRefill       bool    `json:"auto_refill"`
	StripeCustomerID *string `json:"stripe_customer_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the tenant may be served at all.
func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}

// Product represents one row of a tenant's catalog (product_gallery table).
// AIDescription is nil until the product worker has analyzed the row's media.
type Product struct {
	ID            uuid.UUID `json:"id"`
	TenantID      uuid.UUID `json:"tenant_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	AIDescription *string   `json:"ai_description"`
	ImageURL      string    `json:"image_url"`
	FileURL       *string   `json:"file_url"`
	Gallery       []string  `json:"gallery"`
	CreatedAt     time.Time `json:"created_at"`
}

// StyleDescription returns the best available text for describing the product
// to the image-generation collaborator.
func (p *Product) StyleDescription() string {
	if p.AIDescription != nil && *p.AIDescription != "" {
		return *p.AIDescription
	}
	return p.Description
}
