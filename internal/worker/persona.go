// Package worker contains the scheduled reconciliation pollers. Each poller
// re-reads a "row needs processing" predicate on every tick and writes the
// field that clears it, so running a tick redundantly is harmless.
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

// Downloader fetches training documents and product media.
type Downloader interface {
	Download(ctx context.Context, url string) (ai.Image, error)
}

// PersonaStore is the tenant repository subset the persona worker needs.
type PersonaStore interface {
	TenantsNeedingPersona(ctx context.Context) ([]model.Tenant, error)
	SetBotPersona(ctx context.Context, tenantID uuid.UUID, persona string) error
}

const personaPrompt = `You are an expert AI Sales System Architect.

YOUR GOAL:
Write a "System Instruction" block for a Sales Chatbot.

INPUT DATA:
1. OWNER INSTRUCTIONS (High Priority): "%s"
2. COMPANY DOCUMENTS: %s

RULES:
- IGNORE visual descriptions (logos, layout).
- EXTRACT Policy, Discounts, Hours, and Contact Info.
- IF Owner Instructions contradict the documents, Owner Instructions WIN.
- Output format: "You are the sales assistant for [Company]..."`

// PersonaWorker generates a bot persona for tenants that have supplied
// training input but have no persona yet.
type PersonaWorker struct {
	store   PersonaStore
	gen     ai.TextGenerator
	fetcher Downloader
}

// NewPersonaWorker creates a PersonaWorker.
func NewPersonaWorker(store PersonaStore, gen ai.TextGenerator, fetcher Downloader) *PersonaWorker {
	return &PersonaWorker{store: store, gen: gen, fetcher: fetcher}
}

// Run processes every tenant currently matching the predicate. Intended as a
// cron entry point.
func (w *PersonaWorker) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tenants, err := w.store.TenantsNeedingPersona(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Persona worker: poll failed")
		return
	}
	if len(tenants) == 0 {
		return
	}

	log.Info().Int("count", len(tenants)).Msg("Persona worker: tenants needing persona generation")
	for _, tenant := range tenants {
		if err := w.process(ctx, tenant); err != nil {
			log.Error().Err(err).Str("tenant_id", tenant.ID.String()).Msg("Persona worker: generation failed")
		}
	}
}

func (w *PersonaWorker) process(ctx context.Context, tenant model.Tenant) error {
	override := "No specific owner instructions."
	if tenant.SalesPromptOverride != nil && *tenant.SalesPromptOverride != "" {
		override = *tenant.SalesPromptOverride
	}

	docContent := `"No Training Document provided."`
	var media []ai.Image
	if tenant.TrainingDocURL != nil && *tenant.TrainingDocURL != "" {
		doc, err := w.fetcher.Download(ctx, *tenant.TrainingDocURL)
		if err != nil {
			log.Warn().Err(err).Str("tenant_id", tenant.ID.String()).Msg("Persona worker: training doc download failed")
		} else {
			docContent = "attached below."
			media = append(media, doc)
		}
	}

	prompt := fmt.Sprintf(personaPrompt, override, docContent)
	persona, err := w.gen.GenerateText(ctx, prompt, media)
	if err != nil {
		return err
	}

	if err := w.store.SetBotPersona(ctx, tenant.ID, persona); err != nil {
		return err
	}
	log.Info().Str("tenant_id", tenant.ID.String()).Str("company", tenant.CompanyName).Msg("Persona worker: persona saved")
	return nil
}
