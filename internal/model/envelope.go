package model

// ModelEnvelope is the strict internal form of one model reply. The raw model
// output is untrusted; the parser in internal/chat coerces it into this struct
// and everything downstream relies only on these fields. A JSON null for any
// optional field decodes to the zero value, which downstream code treats as
// "absent".
type ModelEnvelope struct {
	Reply string `json:"reply"`

	// Lead capture
	LeadCaptured       bool   `json:"lead_captured"`
	CustomerName       string `json:"customer_name"`
	CustomerPhone      string `json:"customer_phone"`
	CustomerEmail      string `json:"customer_email"`
	CustomerAddress    string `json:"customer_address"`
	ProjectSummary     string `json:"project_summary"`
	AppointmentRequest string `json:"appointment_request"`
	PreferredMethod    string `json:"preferred_method"`
	QualityScore       int    `json:"quality_score"`
	AISummary          string `json:"ai_summary"`

	// Triggers
	SuggestProducts    bool   `json:"suggest_products"`
	VisualizeRequest   bool   `json:"visualize_request"`
	VisualizationStyle string `json:"visualization_style"`
}

// HasContact reports whether the envelope carries at least one usable contact
// key. A lead without phone or email is not persistable.
func (e *ModelEnvelope) HasContact() bool {
	return e.CustomerPhone != "" || e.CustomerEmail != ""
}
