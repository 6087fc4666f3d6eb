package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

// ParseEnvelope coerces raw text-generation output into the strict internal
// envelope. The model is instructed to emit bare JSON but will occasionally
// wrap it in a markdown code fence; the fence is tolerated and stripped.
// Missing optional fields decode to their zero values. Anything else is
// ErrModelOutputInvalid.
func ParseEnvelope(raw string) (*model.ModelEnvelope, error) {
	text := stripCodeFence(strings.TrimSpace(raw))

	env := &model.ModelEnvelope{}
	if err := json.Unmarshal([]byte(text), env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelOutputInvalid, err)
	}
	if env.Reply == "" {
		return nil, fmt.Errorf("%w: missing reply", ErrModelOutputInvalid)
	}
	return env, nil
}

// stripCodeFence removes a leading ```/```json line and a trailing ``` line.
// Text without a fence is returned unchanged.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = s[3:]
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag (e.g. "json") on the opening line.
		s = s[idx+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
