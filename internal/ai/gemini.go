package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

const (
	defaultTextModel  = "gemini-2.5-flash"
	defaultEmbedModel = "gemini-embedding-001"
	defaultImageModel = "gemini-2.5-flash-image-preview"
)

// Gemini implements TextGenerator, Embedder and ImageGenerator on top of the
// Google GenAI API. Constructed once at process start and shared.
type Gemini struct {
	client     *genai.Client
	textModel  string
	embedModel string
	imageModel string
}

// NewGemini creates a Gemini collaborator client.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Gemini{
		client:     client,
		textModel:  defaultTextModel,
		embedModel: defaultEmbedModel,
		imageModel: defaultImageModel,
	}, nil
}

func toRole(role string) genai.Role {
	if role == model.RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}

func toContent(msg ChatMessage) *genai.Content {
	parts := []*genai.Part{genai.NewPartFromText(msg.Text)}
	if msg.Image != nil {
		parts = append(parts, genai.NewPartFromBytes(msg.Image.Data, msg.Image.MIMEType))
	}
	return genai.NewContentFromParts(parts, toRole(msg.Role))
}

// GenerateTurn replays the past history plus the current turn and asks for a
// JSON-only response shaped by the system instruction.
func (g *Gemini) GenerateTurn(ctx context.Context, system string, history []ChatMessage, current ChatMessage) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		contents = append(contents, toContent(msg))
	}
	contents = append(contents, toContent(current))

	result, err := g.client.Models.GenerateContent(ctx, g.textModel, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("text generation failed: %w", err)
	}

	return result.Text(), nil
}

// GenerateText runs a one-shot prompt, optionally with media inputs (images or
// PDF documents), and returns the plain-text result.
func (g *Gemini) GenerateText(ctx context.Context, prompt string, media []Image) (string, error) {
	parts := make([]*genai.Part, 0, len(media)+1)
	for _, m := range media {
		parts = append(parts, genai.NewPartFromBytes(m.Data, m.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := g.client.Models.GenerateContent(ctx, g.textModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("text generation failed: %w", err)
	}

	return result.Text(), nil
}

// Embed generates an embedding for a single text.
func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := g.client.Models.EmbedContent(ctx,
		g.embedModel,
		contents,
		&genai.EmbedContentConfig{
			TaskType: "SEMANTIC_SIMILARITY",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("embed failed: %w", err)
	}

	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	return result.Embeddings[0].Values, nil
}

// GenerateImage composites the style description onto the source photo and
// returns the first image the model emits.
func (g *Gemini) GenerateImage(ctx context.Context, source Image, style string) (Image, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(source.Data, source.MIMEType),
		genai.NewPartFromText(style),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := g.client.Models.GenerateContent(ctx, g.imageModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return Image{}, fmt.Errorf("image generation failed: %w", err)
	}

	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return Image{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
			}
		}
	}

	return Image{}, fmt.Errorf("no image returned")
}

// Close closes the underlying client. The genai client holds no resources
// that need explicit cleanup, so this is a no-op.
func (g *Gemini) Close() error {
	return nil
}
