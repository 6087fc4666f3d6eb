package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

const productColumns = `id, tenant_id, name, description, ai_description,
		image_url, file_url, gallery, created_at`

func (s *Store) queryProducts(ctx context.Context, query string, args ...interface{}) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		product := model.Product{}
		var gallery []byte
		err := rows.Scan(
			&product.ID, &product.TenantID, &product.Name, &product.Description,
			&product.AIDescription, &product.ImageURL, &product.FileURL, &gallery,
			&product.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(gallery, &product.Gallery); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// ListProducts returns a tenant's catalog in insertion order.
func (s *Store) ListProducts(ctx context.Context, tenantID uuid.UUID) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM product_gallery WHERE tenant_id = $1 ORDER BY created_at`
	return s.queryProducts(ctx, query, tenantID)
}

// ProductsMissingDescription returns catalog rows across all tenants that have
// no AI-derived description yet. The product worker re-polls this predicate.
func (s *Store) ProductsMissingDescription(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM product_gallery WHERE ai_description IS NULL ORDER BY created_at`
	return s.queryProducts(ctx, query)
}

// SetProductAIDescription stores the generated description for a product.
func (s *Store) SetProductAIDescription(ctx context.Context, productID uuid.UUID, description string) error {
	query := `UPDATE product_gallery SET ai_description = $2 WHERE id = $1`
	_, err := s.db.ExecContext(ctx, query, productID, description)
	return err
}
