package chat

import "errors"

var (
	// ErrInvalidTenant is returned when the API key is unknown or the tenant
	// is not active. The handler maps it to the fixed "Service Suspended."
	// reply.
	ErrInvalidTenant = errors.New("invalid or suspended tenant")

	// ErrModelOutputInvalid is returned when the text-generation output cannot
	// be coerced into a response envelope. The turn is aborted and not
	// retried; the handler returns the generic failure reply.
	ErrModelOutputInvalid = errors.New("model output is not a valid response envelope")
)
