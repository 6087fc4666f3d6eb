package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

type fakeCreditStore struct {
	remaining int
	ok        bool
	err       error
	calls     int
}

func (f *fakeCreditStore) DeductImageCredit(_ context.Context, _ uuid.UUID) (int, bool, error) {
	f.calls++
	return f.remaining, f.ok, f.err
}

// chanRefill reports trigger invocations on a channel so the test can observe
// the fire-and-forget goroutine.
type chanRefill struct {
	triggered chan string
}

func (c *chanRefill) TriggerAutoRefill(stripeCustomerID string) {
	c.triggered <- stripeCustomerID
}

func billingTenant(autoRefill bool, stripeID string) *model.Tenant {
	t := &model.Tenant{ID: uuid.New(), Status: model.StatusActive, AutoRefill: autoRefill}
	if stripeID != "" {
		t.StripeCustomerID = &stripeID
	}
	return t
}

func TestCheckAccess(t *testing.T) {
	l := NewCreditLedger(&fakeCreditStore{}, nil)

	ok, reason := l.CheckAccess(nil)
	assert.False(t, ok)
	assert.Equal(t, "Invalid Key", reason)

	ok, reason = l.CheckAccess(&model.Tenant{Status: model.StatusSuspended})
	assert.False(t, ok)
	assert.Equal(t, "Inactive", reason)

	ok, reason = l.CheckAccess(&model.Tenant{Status: model.StatusActive})
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestTryDeduct_Exhausted(t *testing.T) {
	store := &fakeCreditStore{ok: false}
	l := NewCreditLedger(store, nil)

	ok, err := l.TryDeduct(context.Background(), billingTenant(false, ""))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, store.calls)
}

func TestTryDeduct_LastCreditSpends(t *testing.T) {
	store := &fakeCreditStore{remaining: 0, ok: true}
	l := NewCreditLedger(store, nil)

	ok, err := l.TryDeduct(context.Background(), billingTenant(false, ""))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTryDeduct_StoreError(t *testing.T) {
	store := &fakeCreditStore{err: errors.New("db down")}
	l := NewCreditLedger(store, nil)

	ok, err := l.TryDeduct(context.Background(), billingTenant(false, ""))
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestTryDeduct_LowBalanceTriggersRefill(t *testing.T) {
	store := &fakeCreditStore{remaining: LowBalanceThreshold, ok: true}
	refill := &chanRefill{triggered: make(chan string, 1)}
	l := NewCreditLedger(store, refill)

	ok, err := l.TryDeduct(context.Background(), billingTenant(true, "cus_123"))
	require.NoError(t, err)
	assert.True(t, ok)

	select {
	case id := <-refill.triggered:
		assert.Equal(t, "cus_123", id)
	case <-time.After(time.Second):
		t.Fatal("expected auto-refill trigger")
	}
}

func TestTryDeduct_HealthyBalanceNoRefill(t *testing.T) {
	store := &fakeCreditStore{remaining: LowBalanceThreshold + 1, ok: true}
	refill := &chanRefill{triggered: make(chan string, 1)}
	l := NewCreditLedger(store, refill)

	ok, err := l.TryDeduct(context.Background(), billingTenant(true, "cus_123"))
	require.NoError(t, err)
	assert.True(t, ok)

	select {
	case <-refill.triggered:
		t.Fatal("unexpected auto-refill trigger")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTryDeduct_RefillNeedsOptInAndCustomer(t *testing.T) {
	refill := &chanRefill{triggered: make(chan string, 1)}

	cases := []*model.Tenant{
		billingTenant(false, "cus_123"), // not opted in
		billingTenant(true, ""),         // no payment identity
	}
	for _, tenant := range cases {
		store := &fakeCreditStore{remaining: 1, ok: true}
		l := NewCreditLedger(store, refill)

		ok, err := l.TryDeduct(context.Background(), tenant)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	select {
	case <-refill.triggered:
		t.Fatal("unexpected auto-refill trigger")
	case <-time.After(50 * time.Millisecond):
	}
}
