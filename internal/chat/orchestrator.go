// Package chat contains the turn-processing core: prompt grounding, response
// parsing, the visualization credit gate, lead reconciliation and the
// orchestrator that composes them into one stateless request/response cycle.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/ai"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/media"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/monitoring"
)

// TenantStore resolves API keys to tenants. The lookup is fresh on every
// request.
type TenantStore interface {
	GetTenantByAPIKey(ctx context.Context, apiKey string) (*model.Tenant, error)
}

// ProductStore lists a tenant's catalog.
type ProductStore interface {
	ListProducts(ctx context.Context, tenantID uuid.UUID) ([]model.Product, error)
}

// ChatLogStore appends completed turns to the transcript log.
type ChatLogStore interface {
	InsertChatLog(ctx context.Context, tenantID uuid.UUID, userMessage, aiResponse string) error
}

// Retriever returns grounding snippets for the user's latest utterance.
// Implementations degrade to an empty result on failure; retrieval never
// fails a turn.
type Retriever interface {
	Retrieve(ctx context.Context, tenantID uuid.UUID, query string) ([]model.Snippet, error)
}

// LeadNotifier is told about newly created leads. The outbound channel (email
// etc.) is an external collaborator.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, tenant *model.Tenant, lead *model.Lead)
}

// ProductSuggestion is one catalog entry surfaced to the widget.
type ProductSuggestion struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// TurnResponse is the outbound turn envelope. Reply is the only field the
// widget depends on for display.
type TurnResponse struct {
	Reply              string              `json:"reply"`
	ProductSuggestions []ProductSuggestion `json:"product_suggestions,omitempty"`
	RenderURL          string              `json:"render_url,omitempty"`
	LeadCaptured       bool                `json:"lead_captured,omitempty"`
}

// Orchestrator composes one inbound conversational turn into a grounded
// prompt, an optional credit-gated render and a reconciled lead record.
type Orchestrator struct {
	tenants   TenantStore
	products  ProductStore
	chatLogs  ChatLogStore
	retriever Retriever
	generator ai.TextGenerator
	gate      *VisualizationGate
	leads     *LeadReconciler
	fetcher   Downloader
	notifier  LeadNotifier
}

// NewOrchestrator wires the turn-processing core. notifier may be nil.
func NewOrchestrator(
	tenants TenantStore,
	products ProductStore,
	chatLogs ChatLogStore,
	retriever Retriever,
	generator ai.TextGenerator,
	gate *VisualizationGate,
	leads *LeadReconciler,
	fetcher Downloader,
	notifier LeadNotifier,
) *Orchestrator {
	return &Orchestrator{
		tenants:   tenants,
		products:  products,
		chatLogs:  chatLogs,
		retriever: retriever,
		generator: generator,
		gate:      gate,
		leads:     leads,
		fetcher:   fetcher,
		notifier:  notifier,
	}
}

// ProcessTurn handles one stateless exchange. The last history entry is the
// current user turn; everything before it is replayed verbatim. Returns
// ErrInvalidTenant for unknown keys or non-active tenants and
// ErrModelOutputInvalid when the model reply cannot be parsed.
func (o *Orchestrator) ProcessTurn(ctx context.Context, apiKey string, history []model.ConversationTurn) (*TurnResponse, error) {
	start := time.Now()

	tenant, err := o.tenants.GetTenantByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("tenant lookup failed: %w", err)
	}
	if tenant == nil || !tenant.IsActive() {
		monitoring.TurnsProcessed.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidTenant
	}

	if len(history) == 0 {
		history = []model.ConversationTurn{{
			Role:  model.RoleUser,
			Parts: []model.TurnPart{{Text: "Hello"}},
		}}
	}

	currentIdx := len(history) - 1
	current := history[currentIdx]
	past := history[:currentIdx]

	// The current turn must never be replayed inside the history argument as
	// well; the model would see it twice.
	userText, currentImageURL := splitCurrentTurn(current)
	sourceImageURL, _ := media.FindSourceImage(history, currentIdx)

	snippets := o.retrieve(ctx, tenant.ID, userText)

	products, err := o.products.ListProducts(ctx, tenant.ID)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenant.ID.String()).Msg("Failed to list products")
		products = nil
	}

	system := ComposeGrounding(tenant, products, snippets)

	currentMsg := ai.ChatMessage{Role: model.RoleUser, Text: userText}
	if currentImageURL != "" {
		img, err := o.fetcher.Download(ctx, currentImageURL)
		if err != nil {
			// Vision degrades to text-only; rendering still works from the
			// URL later.
			log.Warn().Err(err).Msg("Customer photo download failed")
		} else {
			currentMsg.Image = &img
		}
	}

	raw, err := o.generator.GenerateTurn(ctx, system, toChatMessages(past), currentMsg)
	if err != nil {
		monitoring.TurnsProcessed.WithLabelValues("generation_error").Inc()
		return nil, fmt.Errorf("text generation failed: %w", err)
	}

	env, err := ParseEnvelope(raw)
	if err != nil {
		monitoring.TurnsProcessed.WithLabelValues("parse_error").Inc()
		log.Error().Err(err).Str("tenant_id", tenant.ID.String()).Msg("Model output rejected")
		return nil, err
	}

	outcome := o.gate.Process(ctx, tenant, env, sourceImageURL, userText, products)
	monitoring.RenderAttempts.WithLabelValues(outcome.State).Inc()

	reply := env.Reply
	if outcome.Note != "" {
		reply += "\n\n" + outcome.Note
	}
	if outcome.State == RenderDone {
		reply += "\n\n" + media.EncodeRenderURL(outcome.RenderURL)
	}

	o.persistLead(ctx, tenant, env, currentImageURL, outcome.RenderURL)

	if err := o.chatLogs.InsertChatLog(ctx, tenant.ID, userText, reply); err != nil {
		log.Error().Err(err).Str("tenant_id", tenant.ID.String()).Msg("Failed to log chat turn")
	}

	resp := &TurnResponse{
		Reply:        reply,
		RenderURL:    outcome.RenderURL,
		LeadCaptured: env.LeadCaptured && env.HasContact(),
	}
	if env.SuggestProducts {
		resp.ProductSuggestions = suggestions(products)
	}

	monitoring.TurnsProcessed.WithLabelValues("ok").Inc()
	monitoring.TurnDuration.Observe(time.Since(start).Seconds())
	return resp, nil
}

// retrieve is best-effort: any failure degrades to no grounding context.
func (o *Orchestrator) retrieve(ctx context.Context, tenantID uuid.UUID, query string) []model.Snippet {
	if o.retriever == nil || query == "" {
		return nil
	}
	snippets, err := o.retriever.Retrieve(ctx, tenantID, query)
	if err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("Knowledge retrieval failed")
		return nil
	}
	return snippets
}

// persistLead reconciles the turn's lead fields. Storage failure is logged,
// never fatal to the turn.
func (o *Orchestrator) persistLead(ctx context.Context, tenant *model.Tenant, env *model.ModelEnvelope, newImageURL, renderURL string) {
	in := LeadInput{
		Name:               env.CustomerName,
		Phone:              env.CustomerPhone,
		Email:              env.CustomerEmail,
		Address:            env.CustomerAddress,
		ProjectSummary:     env.ProjectSummary,
		AppointmentRequest: env.AppointmentRequest,
		PreferredMethod:    env.PreferredMethod,
		QualityScore:       env.QualityScore,
		AISummary:          env.AISummary,
		NewCustomerImage:   newImageURL,
		NewRendering:       renderURL,
	}

	lead, created, err := o.leads.Reconcile(ctx, tenant.ID, in)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenant.ID.String()).Msg("Lead reconciliation failed")
		return
	}
	if created {
		monitoring.LeadsCaptured.Inc()
		if o.notifier != nil {
			o.notifier.NotifyLead(ctx, tenant, lead)
		}
	}
}

// splitCurrentTurn returns the current turn's text with any image sentinel
// removed, plus the sentinel URL if the turn carried one.
func splitCurrentTurn(turn model.ConversationTurn) (string, string) {
	text := ""
	imageURL := ""
	for _, part := range turn.Parts {
		url, remainder, ok := media.ExtractImageURL(part.Text)
		if ok && imageURL == "" {
			imageURL = url
		}
		if text != "" && remainder != "" {
			text += "\n"
		}
		text += remainder
	}
	return text, imageURL
}

func toChatMessages(turns []model.ConversationTurn) []ai.ChatMessage {
	msgs := make([]ai.ChatMessage, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, ai.ChatMessage{Role: t.Role, Text: t.Text()})
	}
	return msgs
}

func suggestions(products []model.Product) []ProductSuggestion {
	const maxSuggestions = 3
	out := make([]ProductSuggestion, 0, maxSuggestions)
	for _, p := range products {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, ProductSuggestion{Name: p.Name, Image: p.ImageURL})
	}
	return out
}
