package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/ai"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

// ProductStore is the catalog repository subset the product worker needs.
type ProductStore interface {
	ProductsMissingDescription(ctx context.Context) ([]model.Product, error)
	SetProductAIDescription(ctx context.Context, productID uuid.UUID, description string) error
}

// ProductWorker derives a sales-ready description for catalog rows from their
// spec document and/or image.
type ProductWorker struct {
	store   ProductStore
	gen     ai.TextGenerator
	fetcher Downloader
}

// NewProductWorker creates a ProductWorker.
func NewProductWorker(store ProductStore, gen ai.TextGenerator, fetcher Downloader) *ProductWorker {
	return &ProductWorker{store: store, gen: gen, fetcher: fetcher}
}

// Run processes every catalog row currently missing a description.
func (w *ProductWorker) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	products, err := w.store.ProductsMissingDescription(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Product worker: poll failed")
		return
	}
	if len(products) == 0 {
		return
	}

	log.Info().Int("count", len(products)).Msg("Product worker: products to analyze")
	for _, product := range products {
		if err := w.process(ctx, product); err != nil {
			log.Error().Err(err).Str("product_id", product.ID.String()).Msg("Product worker: analysis failed")
		}
	}
}

func (w *ProductWorker) process(ctx context.Context, product model.Product) error {
	var filePart, imagePart *ai.Image
	if product.FileURL != nil && *product.FileURL != "" {
		if img, err := w.fetcher.Download(ctx, *product.FileURL); err == nil {
			filePart = &img
		} else {
			log.Warn().Err(err).Str("product_id", product.ID.String()).Msg("Product worker: file download failed")
		}
	}
	if product.ImageURL != "" {
		if img, err := w.fetcher.Download(ctx, product.ImageURL); err == nil {
			imagePart = &img
		} else {
			log.Warn().Err(err).Str("product_id", product.ID.String()).Msg("Product worker: image download failed")
		}
	}

	var media []ai.Image
	var prompt string
	switch {
	case filePart != nil && imagePart != nil:
		media = []ai.Image{*filePart, *imagePart}
		prompt = fmt.Sprintf(`You are a technical window treatment specialist.
Task: Create a comprehensive product summary for "%s".

Source 1 (Document): Use this strictly for technical specs, available sizes, colors, mount depths, and restrictions.
Source 2 (Image): Use this for visual description (texture, light filtering appearance).

Output a structured summary paragraph covering:
1. Visual Style & Material (from Image).
2. Technical Specifications (Size limits, Min depth, Mount types from Doc).
3. Available Colors/Patterns (from Doc).
4. Functional Benefits (Insulation, Privacy, Motorization).

Keep it under 80 words. Focus on facts.`, product.Name)
	case filePart != nil:
		media = []ai.Image{*filePart}
		prompt = fmt.Sprintf(`Read this product document for "%s".
Summarize the key sales details: Available sizes, colors, material types, and installation restrictions.
Keep it under 60 words.`, product.Name)
	case imagePart != nil:
		media = []ai.Image{*imagePart}
		prompt = fmt.Sprintf(`Analyze this window treatment image for "%s".
Describe the likely material, light filtering capabilities (sheer vs blackout), and style (roller, zebra, cellular, etc).
Keep it under 50 words.`, product.Name)
	default:
		log.Warn().Str("product_id", product.ID.String()).Msg("Product worker: no file or image, skipping")
		return nil
	}

	description, err := w.gen.GenerateText(ctx, prompt, media)
	if err != nil {
		return err
	}

	return w.store.SetProductAIDescription(ctx, product.ID, description)
}
