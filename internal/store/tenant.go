package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

const tenantColumns = `id, company_name, api_key, contact_email, status,
		bot_title, logo_url, primary_color, website_url,
		bot_persona, sales_prompt_override, training_doc_url,
		image_credits, auto_refill, stripe_customer_id,
		created_at, updated_at`

func scanTenant(row *sql.Row) (*model.Tenant, error) {
	tenant := &model.Tenant{}
	err := row.Scan(
		&tenant.ID, &tenant.CompanyName, &tenant.APIKey, &tenant.ContactEmail, &tenant.Status,
		&tenant.BotTitle, &tenant.LogoURL, &tenant.PrimaryColor, &tenant.WebsiteURL,
		&tenant.BotPersona, &tenant.SalesPromptOverride, &tenant.TrainingDocURL,
		&tenant.ImageCredits, &tenant.AutoRefill, &tenant.StripeCustomerID,
		&tenant.CreatedAt, &tenant.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// GetTenantByAPIKey resolves the opaque widget API key to a tenant. Returns
// nil without error when the key is unknown. The read is always fresh; tenant
// state is never cached across requests.
func (s *Store) GetTenantByAPIKey(ctx context.Context, apiKey string) (*model.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE api_key = $1`
	return scanTenant(s.db.QueryRowContext(ctx, query, apiKey))
}

// DeductImageCredit atomically decrements the tenant's balance by one, but
// only if the balance is positive. It returns the post-decrement balance and
// whether a credit was actually taken. Two concurrent calls can never push the
// balance below zero.
func (s *Store) DeductImageCredit(ctx context.Context, tenantID uuid.UUID) (int, bool, error) {
	query := `
		UPDATE tenants
		SET image_credits = image_credits - 1, updated_at = now()
		WHERE id = $1 AND image_credits > 0
		RETURNING image_credits
	`
	var remaining int
	err := s.db.QueryRowContext(ctx, query, tenantID).Scan(&remaining)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return remaining, true, nil
}

// TenantsNeedingPersona returns tenants that have training input but no
// generated persona yet. The persona worker re-polls this predicate; writing
// bot_persona clears it.
func (s *Store) TenantsNeedingPersona(ctx context.Context) ([]model.Tenant, error) {
	query := `SELECT ` + tenantColumns + `
		FROM tenants
		WHERE bot_persona IS NULL
		  AND (training_doc_url IS NOT NULL OR sales_prompt_override IS NOT NULL)`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []model.Tenant
	for rows.Next() {
		tenant := model.Tenant{}
		err := rows.Scan(
			&tenant.ID, &tenant.CompanyName, &tenant.APIKey, &tenant.ContactEmail, &tenant.Status,
			&tenant.BotTitle, &tenant.LogoURL, &tenant.PrimaryColor, &tenant.WebsiteURL,
			&tenant.BotPersona, &tenant.SalesPromptOverride, &tenant.TrainingDocURL,
			&tenant.ImageCredits, &tenant.AutoRefill, &tenant.StripeCustomerID,
			&tenant.CreatedAt, &tenant.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}

// SetBotPersona stores a generated persona for a tenant.
func (s *Store) SetBotPersona(ctx context.Context, tenantID uuid.UUID, persona string) error {
	query := `UPDATE tenants SET bot_persona = $2, updated_at = now() WHERE id = $1`
	_, err := s.db.ExecContext(ctx, query, tenantID, persona)
	return err
}
