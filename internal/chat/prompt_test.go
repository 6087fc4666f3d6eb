package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

func strPtr(s string) *string { return &s }

func TestComposeGrounding_FallbackPersona(t *testing.T) {
	tenant := &model.Tenant{CompanyName: "Acme Blinds"}

	out := ComposeGrounding(tenant, nil, nil)
	assert.Contains(t, out, "You are a helpful sales assistant for Acme Blinds.")
	assert.Contains(t, out, "OUTPUT FORMAT:")
	assert.NotContains(t, out, "PRODUCT CATALOG")
	assert.NotContains(t, out, "VERIFIED BUSINESS FACTS")
}

func TestComposeGrounding_TenantPersona(t *testing.T) {
	tenant := &model.Tenant{
		CompanyName: "Acme Blinds",
		BotPersona:  strPtr("You are Sunny, the cheerful shading expert."),
	}

	out := ComposeGrounding(tenant, nil, nil)
	assert.Contains(t, out, "You are Sunny, the cheerful shading expert.")
	assert.NotContains(t, out, "helpful sales assistant for Acme Blinds")
}

func TestComposeGrounding_EmptyPersonaFallsBack(t *testing.T) {
	tenant := &model.Tenant{CompanyName: "Acme Blinds", BotPersona: strPtr("")}

	out := ComposeGrounding(tenant, nil, nil)
	assert.Contains(t, out, "You are a helpful sales assistant for Acme Blinds.")
}

func TestComposeGrounding_ProductsAndFacts(t *testing.T) {
	tenant := &model.Tenant{CompanyName: "Acme Blinds"}
	products := []model.Product{
		{Name: "Roman Shades"},
		{Name: "Motorized Blinds"},
	}
	snippets := []model.Snippet{
		{Title: "Warranty", Content: "  All products carry a 5-year warranty.  ", Score: 0.9},
	}

	out := ComposeGrounding(tenant, products, snippets)
	assert.Contains(t, out, "- Roman Shades")
	assert.Contains(t, out, "- Motorized Blinds")
	assert.Contains(t, out, "- All products carry a 5-year warranty.")

	// Sections appear in protocol, persona, catalog, facts order.
	assert.Less(t, strings.Index(out, "PERSONA:"), strings.Index(out, "PRODUCT CATALOG"))
	assert.Less(t, strings.Index(out, "PRODUCT CATALOG"), strings.Index(out, "VERIFIED BUSINESS FACTS"))
}

func TestComposeGrounding_Deterministic(t *testing.T) {
	tenant := &model.Tenant{CompanyName: "Acme Blinds"}
	products := []model.Product{{Name: "Roman Shades"}}
	snippets := []model.Snippet{{Content: "We serve the greater Springfield area."}}

	first := ComposeGrounding(tenant, products, snippets)
	second := ComposeGrounding(tenant, products, snippets)
	assert.Equal(t, first, second)
}
