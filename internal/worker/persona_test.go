package worker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/ai"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
)

type fakePersonaStore struct {
	tenants  []model.Tenant
	pollErr  error
	personas map[uuid.UUID]string
}

func (f *fakePersonaStore) TenantsNeedingPersona(_ context.Context) ([]model.Tenant, error) {
	return f.tenants, f.pollErr
}

func (f *fakePersonaStore) SetBotPersona(_ context.Context, tenantID uuid.UUID, persona string) error {
	if f.personas == nil {
		f.personas = map[uuid.UUID]string{}
	}
	f.personas[tenantID] = persona
	return nil
}

type fakeGen struct {
	text    string
	err     error
	prompts []string
	media   [][]ai.Image
}

func (f *fakeGen) GenerateTurn(_ context.Context, _ string, _ []ai.ChatMessage, _ ai.ChatMessage) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeGen) GenerateText(_ context.Context, prompt string, media []ai.Image) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.media = append(f.media, media)
	return f.text, f.err
}

type fakeFetcher struct {
	img ai.Image
	err error
}

func (f *fakeFetcher) Download(_ context.Context, _ string) (ai.Image, error) {
	return f.img, f.err
}

func ptr(s string) *string { return &s }

func TestPersonaWorker_GeneratesAndSaves(t *testing.T) {
	tenant := model.Tenant{
		ID:                  uuid.New(),
		CompanyName:         "Acme Blinds",
		SalesPromptOverride: ptr("Always mention the spring sale."),
		TrainingDocURL:      ptr("https://cdn.example.com/training.pdf"),
	}
	store := &fakePersonaStore{tenants: []model.Tenant{tenant}}
	gen := &fakeGen{text: "You are the sales assistant for Acme Blinds..."}
	fetcher := &fakeFetcher{img: ai.Image{Data: []byte{1}, MIMEType: "application/pdf"}}

	NewPersonaWorker(store, gen, fetcher).Run()

	assert.Equal(t, "You are the sales assistant for Acme Blinds...", store.personas[tenant.ID])
	assert.Contains(t, gen.prompts[0], "Always mention the spring sale.")
	assert.Contains(t, gen.prompts[0], "attached below.")
	assert.Len(t, gen.media[0], 1)
}

func TestPersonaWorker_NoTrainingDoc(t *testing.T) {
	tenant := model.Tenant{ID: uuid.New(), SalesPromptOverride: ptr("Be formal.")}
	store := &fakePersonaStore{tenants: []model.Tenant{tenant}}
	gen := &fakeGen{text: "persona"}

	NewPersonaWorker(store, gen, &fakeFetcher{}).Run()

	assert.Contains(t, gen.prompts[0], "No Training Document provided.")
	assert.Empty(t, gen.media[0])
}

func TestPersonaWorker_DocDownloadFailureDegradesToTextOnly(t *testing.T) {
	tenant := model.Tenant{ID: uuid.New(), TrainingDocURL: ptr("https://cdn.example.com/gone.pdf")}
	store := &fakePersonaStore{tenants: []model.Tenant{tenant}}
	gen := &fakeGen{text: "persona"}
	fetcher := &fakeFetcher{err: errors.New("404")}

	NewPersonaWorker(store, gen, fetcher).Run()

	assert.Equal(t, "persona", store.personas[tenant.ID])
	assert.Contains(t, gen.prompts[0], "No Training Document provided.")
}

func TestPersonaWorker_GenerationFailureLeavesTenantPending(t *testing.T) {
	tenant := model.Tenant{ID: uuid.New()}
	store := &fakePersonaStore{tenants: []model.Tenant{tenant}}
	gen := &fakeGen{err: errors.New("quota exceeded")}

	NewPersonaWorker(store, gen, &fakeFetcher{}).Run()

	assert.Empty(t, store.personas)
}

func TestPersonaWorker_PollFailureIsQuiet(t *testing.T) {
	store := &fakePersonaStore{pollErr: errors.New("db down")}
	gen := &fakeGen{}

	NewPersonaWorker(store, gen, &fakeFetcher{}).Run()

	assert.Empty(t, gen.prompts)
}

func TestPersonaPromptMentionsOwnerPriority(t *testing.T) {
	assert.True(t, strings.Contains(personaPrompt, "Owner Instructions WIN"))
}
