package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/ai"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/chat"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/stats"
)

type fakeTenantStore struct {
	tenant *model.Tenant
}

func (f *fakeTenantStore) GetTenantByAPIKey(_ context.Context, apiKey string) (*model.Tenant, error) {
	if f.tenant != nil && f.tenant.APIKey == apiKey {
		return f.tenant, nil
	}
	return nil, nil
}

type fakeProductStore struct{}

func (fakeProductStore) ListProducts(_ context.Context, _ uuid.UUID) ([]model.Product, error) {
	return nil, nil
}

type fakeChatLogStore struct{}

func (fakeChatLogStore) InsertChatLog(_ context.Context, _ uuid.UUID, _, _ string) error {
	return nil
}

type fakeRetriever struct{}

func (fakeRetriever) Retrieve(_ context.Context, _ uuid.UUID, _ string) ([]model.Snippet, error) {
	return nil, nil
}

type fakeGenerator struct {
	raw string
}

func (f *fakeGenerator) GenerateTurn(_ context.Context, _ string, _ []ai.ChatMessage, _ ai.ChatMessage) (string, error) {
	return f.raw, nil
}

func (f *fakeGenerator) GenerateText(_ context.Context, _ string, _ []ai.Image) (string, error) {
	return "", nil
}

type fakeLeadStore struct{}

func (fakeLeadStore) FindLeadByPhone(_ context.Context, _ uuid.UUID, _ string) (*model.Lead, error) {
	return nil, nil
}

func (fakeLeadStore) FindLeadByEmail(_ context.Context, _ uuid.UUID, _ string) (*model.Lead, error) {
	return nil, nil
}

func (fakeLeadStore) InsertLead(_ context.Context, _ *model.Lead) error { return nil }
func (fakeLeadStore) UpdateLead(_ context.Context, _ *model.Lead) error { return nil }

type fakeLedger struct{}

func (fakeLedger) TryDeduct(_ context.Context, _ *model.Tenant) (bool, error) { return false, nil }

type fakeRenderer struct{}

func (fakeRenderer) GenerateImage(_ context.Context, _ ai.Image, _ string) (ai.Image, error) {
	return ai.Image{}, nil
}

type fakeRenderStore struct{}

func (fakeRenderStore) SaveRender(_ context.Context, _ uuid.UUID, _ ai.Image) (string, error) {
	return "", nil
}

type fakeDownloader struct{}

func (fakeDownloader) Download(_ context.Context, _ string) (ai.Image, error) {
	return ai.Image{}, nil
}

type fakeRedis struct{}

func (fakeRedis) Get(_ context.Context, _ string) *redis.StringCmd {
	return redis.NewStringResult(`{"clients":60,"chats":2000,"savedHours":400}`, nil)
}

func (fakeRedis) SetEx(_ context.Context, _ string, _ interface{}, _ time.Duration) *redis.StatusCmd {
	return redis.NewStatusResult("OK", nil)
}

type fakeCounts struct{}

func (fakeCounts) CountTenants(_ context.Context) (int, error) { return 0, nil }
func (fakeCounts) CountLeads(_ context.Context) (int, error)   { return 0, nil }

func newTestRouter(tenant *model.Tenant, modelReply string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	tenants := &fakeTenantStore{tenant: tenant}
	gate := chat.NewVisualizationGate(fakeLedger{}, fakeRenderer{}, fakeRenderStore{}, fakeDownloader{})
	orchestrator := chat.NewOrchestrator(tenants, fakeProductStore{}, fakeChatLogStore{},
		fakeRetriever{}, &fakeGenerator{raw: modelReply}, gate,
		chat.NewLeadReconciler(fakeLeadStore{}), fakeDownloader{}, nil)
	statsCache := stats.NewCache(fakeRedis{}, fakeCounts{})

	router := gin.New()
	NewHandler(orchestrator, tenants, statsCache).Register(router)
	return router
}

func activeTenant() *model.Tenant {
	return &model.Tenant{
		ID:          uuid.New(),
		CompanyName: "Acme Blinds",
		APIKey:      "key-123",
		Status:      model.StatusActive,
		LogoURL:     "https://cdn.example.com/logo.png",
	}
}

func TestHandleChat_HappyPath(t *testing.T) {
	router := newTestRouter(activeTenant(), `{"reply": "Hi there! Looking for blinds?"}`)

	body := `{"clientApiKey": "key-123", "history": [{"role": "user", "parts": [{"text": "hello"}]}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hi there! Looking for blinds?")
}

func TestHandleChat_UnknownKeyIsSuspended(t *testing.T) {
	router := newTestRouter(activeTenant(), `{"reply": "ok"}`)

	body := `{"clientApiKey": "wrong-key", "history": []}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	router.ServeHTTP(w, req)

	// Suspension is a 200 with a fixed reply; the widget renders it verbatim.
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), suspendedReply)
}

func TestHandleChat_MissingKeyIsSuspended(t *testing.T) {
	router := newTestRouter(activeTenant(), `{"reply": "ok"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"history": []}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), suspendedReply)
}

func TestHandleChat_ModelFailureIsFixedReply(t *testing.T) {
	router := newTestRouter(activeTenant(), "not json at all")

	body := `{"clientApiKey": "key-123", "history": []}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), failureReply)
}

func TestHandleChat_MalformedBody(t *testing.T) {
	router := newTestRouter(activeTenant(), `{"reply": "ok"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleInit_BrandingWithFallbacks(t *testing.T) {
	router := newTestRouter(activeTenant(), `{"reply": "ok"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/init?apiKey=key-123", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Acme Blinds")
	assert.Contains(t, w.Body.String(), "#007bff")
	assert.Contains(t, w.Body.String(), "Sales Assistant")
}

func TestHandleInit_MissingKey(t *testing.T) {
	router := newTestRouter(activeTenant(), `{"reply": "ok"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/init", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleInit_UnknownKey(t *testing.T) {
	router := newTestRouter(activeTenant(), `{"reply": "ok"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/init?apiKey=nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlePublicStats(t *testing.T) {
	router := newTestRouter(activeTenant(), `{"reply": "ok"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public-stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"clients":60,"chats":2000,"savedHours":400}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	router := newTestRouter(activeTenant(), `{"reply": "ok"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}
