package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/ai"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

// Render states for one turn.
const (
	RenderNoIntent     = "no_intent"
	RenderNeedsImage   = "needs_image"
	RenderNeedsProduct = "needs_product"
	RenderBlocked      = "blocked"
	RenderFailed       = "failed"
	RenderDone         = "rendered"
)

// Ledger gates rendering on the tenant's credit balance.
type Ledger interface {
	TryDeduct(ctx context.Context, tenant *model.Tenant) (bool, error)
}

// RenderStore persists a generated rendering and returns its public URL.
type RenderStore interface {
	SaveRender(ctx context.Context, tenantID uuid.UUID, img ai.Image) (string, error)
}

// Downloader fetches media by URL.
type Downloader interface {
	Download(ctx context.Context, url string) (ai.Image, error)
}

// RenderOutcome is the result of running the gate for one turn.
type RenderOutcome struct {
	State     string
	RenderURL string
	// Note is appended to the reply when non-empty.
	Note string
}

// VisualizationGate decides whether a render is attempted this turn and, if
// so, spends one credit and invokes the image-generation collaborator.
type VisualizationGate struct {
	ledger   Ledger
	renderer ai.ImageGenerator
	renders  RenderStore
	fetcher  Downloader
}

// NewVisualizationGate creates a VisualizationGate.
func NewVisualizationGate(ledger Ledger, renderer ai.ImageGenerator, renders RenderStore, fetcher Downloader) *VisualizationGate {
	return &VisualizationGate{ledger: ledger, renderer: renderer, renders: renders, fetcher: fetcher}
}

// Process runs the per-turn state machine. sourceImageURL is the photo
// resolved from history ("" when none exists) and userText is the customer's
// latest utterance, used alongside the envelope's style description to resolve
// a catalog product. On the Blocked and Failed paths the envelope's
// visualization flag is forced false so the caller never claims a render that
// did not happen. A spent credit is not refunded on failure.
func (g *VisualizationGate) Process(ctx context.Context, tenant *model.Tenant, env *model.ModelEnvelope, sourceImageURL, userText string, products []model.Product) RenderOutcome {
	if !env.VisualizeRequest {
		return RenderOutcome{State: RenderNoIntent}
	}

	if sourceImageURL == "" {
		// The model is instructed to ask for a photo; the gate just refuses
		// to render without one.
		env.VisualizeRequest = false
		return RenderOutcome{State: RenderNeedsImage}
	}

	product := resolveProduct(products, env.VisualizationStyle, userText)
	if product == nil {
		env.VisualizeRequest = false
		return RenderOutcome{State: RenderNeedsProduct}
	}

	ok, err := g.ledger.TryDeduct(ctx, tenant)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenant.ID.String()).Msg("Credit deduction failed")
		env.VisualizeRequest = false
		return RenderOutcome{State: RenderBlocked, Note: insufficientCreditsNote}
	}
	if !ok {
		env.VisualizeRequest = false
		return RenderOutcome{State: RenderBlocked, Note: insufficientCreditsNote}
	}

	url, err := g.render(ctx, tenant.ID, sourceImageURL, product, env.VisualizationStyle)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenant.ID.String()).Str("product", product.Name).Msg("Render failed")
		env.VisualizeRequest = false
		return RenderOutcome{State: RenderFailed, Note: renderFailedNote}
	}

	return RenderOutcome{State: RenderDone, RenderURL: url}
}

const (
	insufficientCreditsNote = "(Our visualization studio is out of credits right now, so I couldn't generate that preview.)"
	renderFailedNote        = "(I couldn't generate that preview just now. Please try again in a moment.)"
)

func (g *VisualizationGate) render(ctx context.Context, tenantID uuid.UUID, sourceImageURL string, product *model.Product, requestedStyle string) (string, error) {
	source, err := g.fetcher.Download(ctx, sourceImageURL)
	if err != nil {
		return "", fmt.Errorf("source photo unavailable: %w", err)
	}

	style := fmt.Sprintf(
		"Edit this photo of the customer's room: install %s on the windows. Product details: %s. Keep the rest of the room photorealistic and unchanged.",
		product.Name, product.StyleDescription(),
	)
	if requestedStyle != "" {
		style += " Customer request: " + requestedStyle
	}

	rendered, err := g.renderer.GenerateImage(ctx, source, style)
	if err != nil {
		return "", err
	}

	return g.renders.SaveRender(ctx, tenantID, rendered)
}

// resolveProduct picks the catalog product mentioned in the style description
// or, failing that, in the user's latest utterance. Case-insensitive substring
// match; first catalog entry wins.
func resolveProduct(products []model.Product, style, userText string) *model.Product {
	style = strings.ToLower(style)
	userText = strings.ToLower(userText)

	for i := range products {
		name := strings.ToLower(products[i].Name)
		if name == "" {
			continue
		}
		if strings.Contains(style, name) || strings.Contains(userText, name) {
			return &products[i]
		}
	}
	return nil
}
