// Package httpapi is the thin HTTP boundary in front of the turn-processing
// core. Every handler returns a well-formed JSON body; no error propagates as
// a bare 500.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/haveanicedaybuddy8/blind-bot-server/internal/chat"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/model"
	"github.com/haveanicedaybuddy8/blind-bot-server/internal/stats"
)

// Fixed replies the widget shows verbatim.
const (
	suspendedReply = "Service Suspended."
	failureReply   = "I'm having trouble connecting. Please try again."
)

// chatRequest is the inbound turn request as the widget sends it.
type chatRequest struct {
	History      []model.ConversationTurn `json:"history"`
	ClientAPIKey string                   `json:"clientApiKey"`
}

// initResponse is the widget branding bootstrap payload.
type initResponse struct {
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	Color   string `json:"color"`
	Title   string `json:"title"`
	Website string `json:"website"`
}

// Handler holds the HTTP-facing collaborators.
type Handler struct {
	orchestrator *chat.Orchestrator
	tenants      chat.TenantStore
	stats        *stats.Cache
}

// NewHandler creates a Handler.
func NewHandler(orchestrator *chat.Orchestrator, tenants chat.TenantStore, statsCache *stats.Cache) *Handler {
	return &Handler{orchestrator: orchestrator, tenants: tenants, stats: statsCache}
}

// Register mounts all routes on the router.
func (h *Handler) Register(router *gin.Engine) {
	router.POST("/chat", h.handleChat)
	router.GET("/init", h.handleInit)
	router.GET("/public-stats", h.handlePublicStats)
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
}

func (h *Handler) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"reply": failureReply})
		return
	}
	if req.ClientAPIKey == "" {
		c.JSON(http.StatusOK, gin.H{"reply": suspendedReply})
		return
	}

	resp, err := h.orchestrator.ProcessTurn(c.Request.Context(), req.ClientAPIKey, req.History)
	if err != nil {
		if errors.Is(err, chat.ErrInvalidTenant) {
			c.JSON(http.StatusOK, gin.H{"reply": suspendedReply})
			return
		}
		log.Error().Err(err).Msg("Chat turn failed")
		c.JSON(http.StatusInternalServerError, gin.H{"reply": failureReply})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleInit(c *gin.Context) {
	apiKey := c.Query("apiKey")
	if apiKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing API Key"})
		return
	}

	tenant, err := h.tenants.GetTenantByAPIKey(c.Request.Context(), apiKey)
	if err != nil {
		log.Error().Err(err).Msg("Init lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
		return
	}
	if tenant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	resp := initResponse{
		Name:    tenant.CompanyName,
		Logo:    tenant.LogoURL,
		Color:   tenant.PrimaryColor,
		Title:   tenant.BotTitle,
		Website: tenant.WebsiteURL,
	}
	if resp.Color == "" {
		resp.Color = "#007bff"
	}
	if resp.Title == "" {
		resp.Title = "Sales Assistant"
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handlePublicStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()
	c.JSON(http.StatusOK, h.stats.Get(ctx))
}
