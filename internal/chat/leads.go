package chat

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

// LeadStore is the subset of the lead repository the reconciler needs.
type LeadStore interface {
	FindLeadByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*model.Lead, error)
	FindLeadByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*model.Lead, error)
	InsertLead(ctx context.Context, lead *model.Lead) error
	UpdateLead(ctx context.Context, lead *model.Lead) error
}

// LeadInput carries the incremental lead information one turn produced.
type LeadInput struct {
	Name               string
	Phone              string
	Email              string
	Address            string
	ProjectSummary     string
	AppointmentRequest string
	PreferredMethod    string
	QualityScore       int
	AISummary          string

	// Media captured during this turn, if any.
	NewCustomerImage string
	NewRendering     string
}

func (in LeadInput) empty() bool {
	return in.Name == "" && in.Phone == "" && in.Email == "" && in.NewCustomerImage == ""
}

// LeadReconciler finds-or-creates a lead by contact-key priority and merges
// incremental fields without clobbering prior data. Reconciling the same input
// twice produces the same final state.
type LeadReconciler struct {
	store LeadStore
}

// NewLeadReconciler creates a LeadReconciler.
func NewLeadReconciler(store LeadStore) *LeadReconciler {
	return &LeadReconciler{store: store}
}

// Reconcile merges the incoming fields into the tenant's matching lead, or
// creates a new one. It returns the persisted lead and whether it was newly
// created; both nil/false when the input carried no identifying signal.
func (r *LeadReconciler) Reconcile(ctx context.Context, tenantID uuid.UUID, in LeadInput) (*model.Lead, bool, error) {
	if in.empty() {
		return nil, false, nil
	}

	existing, err := r.lookup(ctx, tenantID, in)
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		lead := &model.Lead{
			TenantID:           tenantID,
			CustomerName:       in.Name,
			CustomerPhone:      in.Phone,
			CustomerEmail:      in.Email,
			CustomerAddress:    in.Address,
			ProjectSummary:     in.ProjectSummary,
			AppointmentRequest: in.AppointmentRequest,
			PreferredMethod:    firstNonEmpty(in.PreferredMethod, "phone"),
			QualityScore:       in.QualityScore,
			AISummary:          in.AISummary,
		}
		if lead.QualityScore == 0 {
			lead.QualityScore = 5
		}
		lead.CustomerImages = appendUnique(nil, in.NewCustomerImage)
		lead.AIRenderings = appendUnique(nil, in.NewRendering)

		if err := r.store.InsertLead(ctx, lead); err != nil {
			return nil, false, err
		}
		log.Info().Str("tenant_id", tenantID.String()).Str("name", lead.CustomerName).Msg("Created new lead")
		return lead, true, nil
	}

	// Merge-only: incoming wins only when non-empty; a null field never
	// blanks stored data.
	existing.CustomerName = firstNonEmpty(in.Name, existing.CustomerName)
	existing.CustomerPhone = firstNonEmpty(in.Phone, existing.CustomerPhone)
	existing.CustomerEmail = firstNonEmpty(in.Email, existing.CustomerEmail)
	existing.CustomerAddress = firstNonEmpty(in.Address, existing.CustomerAddress)
	existing.ProjectSummary = firstNonEmpty(in.ProjectSummary, existing.ProjectSummary)
	existing.AppointmentRequest = firstNonEmpty(in.AppointmentRequest, existing.AppointmentRequest)
	existing.PreferredMethod = firstNonEmpty(in.PreferredMethod, existing.PreferredMethod)
	existing.AISummary = firstNonEmpty(in.AISummary, existing.AISummary)
	if in.QualityScore != 0 {
		existing.QualityScore = in.QualityScore
	}
	existing.CustomerImages = appendUnique(existing.CustomerImages, in.NewCustomerImage)
	existing.AIRenderings = appendUnique(existing.AIRenderings, in.NewRendering)

	if err := r.store.UpdateLead(ctx, existing); err != nil {
		return nil, false, err
	}
	log.Info().Str("tenant_id", tenantID.String()).Str("lead_id", existing.ID.String()).Msg("Updated existing lead")
	return existing, false, nil
}

// lookup searches by phone first, then email. Phone takes priority; at most
// one record becomes the merge target.
func (r *LeadReconciler) lookup(ctx context.Context, tenantID uuid.UUID, in LeadInput) (*model.Lead, error) {
	if in.Phone != "" {
		lead, err := r.store.FindLeadByPhone(ctx, tenantID, in.Phone)
		if err != nil {
			return nil, err
		}
		if lead != nil {
			return lead, nil
		}
	}
	if in.Email != "" {
		return r.store.FindLeadByEmail(ctx, tenantID, in.Email)
	}
	return nil, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// appendUnique appends url to the set unless it is empty or already present,
// preserving insertion order.
func appendUnique(urls []string, url string) []string {
	if url == "" {
		return urls
	}
	for _, u := range urls {
		if u == url {
			return urls
		}
	}
	return append(urls, url)
}
