package model

// Conversation roles, matching the wire format the widget replays on every
// request.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// TurnPart is a single part of a conversation turn. A part is plain text that
// may carry an inline media sentinel (see internal/media).
type TurnPart struct {
	Text string `json:"text"`
}

// ConversationTurn is one exchange unit in a conversation. The full turn
// sequence is supplied by the caller on every request; the server holds no
// session state.
type ConversationTurn struct {
	Role  string     `json:"role"`
	Parts []TurnPart `json:"parts"`
}

// Text concatenates the turn's text parts.
func (t ConversationTurn) Text() string {
	out := ""
	for _, p := range t.Parts {
		if out != "" && p.Text != "" {
			out += "\n"
		}
		out += p.Text
	}
	return out
}
