package billing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// StripeClient implements RefillTrigger against the Stripe invoicing API: it
// puts the credit pack on the customer's tab, creates an auto-advancing
// invoice and pays it immediately. Balance crediting happens when the
// payment webhook (external) observes the paid invoice.
type StripeClient struct {
	httpClient     *resty.Client
	creditsPriceID string
}

// NewStripeClient creates a Stripe API client. creditsPriceID is the Stripe
// price ('price_...') of the credit pack, not the product ID.
func NewStripeClient(secretKey, creditsPriceID string) *StripeClient {
	client := resty.New().
		SetBaseURL("https://api.stripe.com/v1").
		SetAuthToken(secretKey).
		SetTimeout(30 * time.Second)

	return &StripeClient{httpClient: client, creditsPriceID: creditsPriceID}
}

// TriggerAutoRefill charges the customer for one credit pack. Errors are
// logged and swallowed: the caller never waits on a refill.
func (c *StripeClient) TriggerAutoRefill(stripeCustomerID string) {
	if stripeCustomerID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	log.Info().Str("customer", stripeCustomerID).Msg("Triggering credit auto-refill")

	resp, err := c.httpClient.R().SetContext(ctx).
		SetFormData(map[string]string{
			"customer": stripeCustomerID,
			"price":    c.creditsPriceID,
		}).
		Post("/invoiceitems")
	if err != nil || resp.IsError() {
		log.Error().Err(err).Str("customer", stripeCustomerID).Msg("Auto-refill: invoice item creation failed")
		return
	}

	resp, err = c.httpClient.R().SetContext(ctx).
		SetFormData(map[string]string{
			"customer":          stripeCustomerID,
			"auto_advance":      "true",
			"collection_method": "charge_automatically",
		}).
		Post("/invoices")
	if err != nil || resp.IsError() {
		log.Error().Err(err).Str("customer", stripeCustomerID).Msg("Auto-refill: invoice creation failed")
		return
	}

	var invoice struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body(), &invoice); err != nil || invoice.ID == "" {
		log.Error().Err(err).Str("customer", stripeCustomerID).Msg("Auto-refill: unexpected invoice response")
		return
	}

	// Stripe can sit on a finalized invoice for up to an hour; pay it now.
	resp, err = c.httpClient.R().SetContext(ctx).Post("/invoices/" + invoice.ID + "/pay")
	if err != nil || resp.IsError() {
		log.Error().Err(err).Str("customer", stripeCustomerID).Str("invoice", invoice.ID).Msg("Auto-refill: invoice payment failed")
		return
	}

	log.Info().Str("customer", stripeCustomerID).Str("invoice", invoice.ID).Msg("Auto-refill successful")
}
