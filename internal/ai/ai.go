package ai

import "context"

// Image is a piece of downloaded or generated media passed to and from the
// model collaborators.
type Image struct {
	Data     []byte
	MIMEType string
}

// ChatMessage is one replayed conversation entry in collaborator-neutral form.
// Role is model.RoleUser or model.RoleModel. Image is optional and only set on
// the current user turn.
type ChatMessage struct {
	Role  string
	Text  string
	Image *Image
}

// TextGenerator produces text given a grounding instruction, replayed history
// and the current turn. GenerateTurn is the chat path (JSON-mode output);
// GenerateText is the one-shot path used by background workers.
type TextGenerator interface {
	GenerateTurn(ctx context.Context, system string, history []ChatMessage, current ChatMessage) (string, error)
	GenerateText(ctx context.Context, prompt string, media []Image) (string, error)
}

// Embedder embeds text into a vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ImageGenerator produces a styled rendering from a source photo and a style
// description.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, source Image, style string) (Image, error)
}
