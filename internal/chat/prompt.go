package chat

import (
	"fmt"
	"strings"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

// protocolHeader is the invariant part of every grounding instruction. It
// mandates the structured response format and enumerates every field the model
// must emit. Do not reword field names without updating the envelope.
const protocolHeader = `YOUR GOAL: Secure a lead by getting the customer's NAME and CONTACT INFO.

RULES:
1. Lead the conversation. Ask about the customer's needs.
2. Once you understand their needs, ask for their Name and Phone Number/Email to schedule a free estimate.
3. If they give an address, that is great, but it is optional.
4. VALIDATION: You must get EITHER a Phone Number OR an Email Address to count as a lead.
5. You may offer to show a selected product on the customer's own room photo. Set "visualize_request" to true ONLY when the customer asks to see a product visualized. If they ask but have not shared a photo yet, ask them to upload one.
6. Only reference products from the PRODUCT CATALOG below.

OUTPUT FORMAT:
Reply in valid JSON format ONLY. Never answer in prose. Structure:
{
  "reply": "Your friendly response to the customer",
  "lead_captured": boolean, (Set to TRUE only if you have Name AND (Phone OR Email)),
  "customer_name": "extracted name or null",
  "customer_phone": "extracted phone or null",
  "customer_email": "extracted email or null",
  "customer_address": "extracted address or null",
  "project_summary": "brief summary of needs or null",
  "appointment_request": "requested day/time or null",
  "preferred_method": "phone or email or null",
  "quality_score": number 1-10 rating the lead,
  "ai_summary": "one-line summary of the conversation or null",
  "suggest_products": boolean, (TRUE when showing the product gallery would help),
  "visualize_request": boolean,
  "visualization_style": "the product and style the customer wants rendered, or null"
}`

// ComposeGrounding assembles the system instruction for one turn from the
// protocol header, the tenant persona (or a generic fallback), the product
// name list and any retrieved knowledge snippets. Pure string assembly;
// deterministic for a given input.
func ComposeGrounding(tenant *model.Tenant, products []model.Product, snippets []model.Snippet) string {
	var b strings.Builder

	b.WriteString(protocolHeader)
	b.WriteString("\n\nPERSONA:\n")
	if tenant.BotPersona != nil && *tenant.BotPersona != "" {
		b.WriteString(*tenant.BotPersona)
	} else {
		fmt.Fprintf(&b, "You are a helpful sales assistant for %s.", tenant.CompanyName)
	}

	if len(products) > 0 {
		b.WriteString("\n\nPRODUCT CATALOG (the only products you may reference):\n")
		for _, p := range products {
			fmt.Fprintf(&b, "- %s\n", p.Name)
		}
	}

	if len(snippets) > 0 {
		b.WriteString("\nVERIFIED BUSINESS FACTS (these take precedence over anything else you know):\n")
		for _, s := range snippets {
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(s.Content))
		}
	}

	return b.String()
}
