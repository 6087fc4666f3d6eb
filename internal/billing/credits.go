// Package billing tracks per-tenant image credits and the auto-refill
// trigger. It is not a full ledger: balance top-ups arrive via the external
// payment webhook sync.
package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

// LowBalanceThreshold is the post-decrement balance at or below which an
// auto-refill is requested.
const LowBalanceThreshold = 5

// CreditStore performs the conditional decrement at the storage layer so the
// balance can never go negative under concurrent requests.
type CreditStore interface {
	DeductImageCredit(ctx context.Context, tenantID uuid.UUID) (remaining int, ok bool, err error)
}

// RefillTrigger requests an asynchronous credit top-up from the payment
// collaborator. Implementations must not block the caller on the outcome.
type RefillTrigger interface {
	TriggerAutoRefill(stripeCustomerID string)
}

// CreditLedger gates rendering on the tenant's balance. Chat itself is never
// credit-gated.
type CreditLedger struct {
	store  CreditStore
	refill RefillTrigger
}

// NewCreditLedger creates a CreditLedger. refill may be nil when no payment
// collaborator is configured.
func NewCreditLedger(store CreditStore, refill RefillTrigger) *CreditLedger {
	return &CreditLedger{store: store, refill: refill}
}

// CheckAccess reports whether the tenant may be served at all, with a
// human-readable reason when not.
func (l *CreditLedger) CheckAccess(tenant *model.Tenant) (bool, string) {
	if tenant == nil {
		return false, "Invalid Key"
	}
	if !tenant.IsActive() {
		return false, "Inactive"
	}
	return true, ""
}

// TryDeduct atomically spends one credit. It returns false without mutation
// when the balance is exhausted. The low-balance check observes the same
// write as the decrement: the post-decrement balance returned by the store.
func (l *CreditLedger) TryDeduct(ctx context.Context, tenant *model.Tenant) (bool, error) {
	remaining, ok, err := l.store.DeductImageCredit(ctx, tenant.ID)
	if err != nil {
		return false, err
	}
	if !ok {
		log.Info().Str("tenant_id", tenant.ID.String()).Msg("Render blocked: no image credits")
		return false, nil
	}

	if remaining <= LowBalanceThreshold && tenant.AutoRefill && tenant.StripeCustomerID != nil && l.refill != nil {
		// Fire-and-forget: the refill outcome never affects this turn.
		// Eventual balance correction arrives via the billing webhook sync.
		customerID := *tenant.StripeCustomerID
		go l.refill.TriggerAutoRefill(customerID)
	}

	return true, nil
}
