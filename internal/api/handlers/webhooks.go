package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shepherd-cms/corepress/internal/domain"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
	"github.com/shepherd-cms/corepress/internal/webhook"
)

type createWebhookRequest struct {
	Name    string            `json:"name" binding:"required"`
	URL     string            `json:"url" binding:"required"`
	Events  []string          `json:"events" binding:"required"`
	Headers map[string]string `json:"headers"`
	Secret  string            `json:"secret"`
}

// CreateWebhook handles POST /webhooks.
func (s *Server) CreateWebhook(c *gin.Context) {
	var req createWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ErrValidationFailedf("invalid request body: %v", err))
		return
	}

	wh := &domain.Webhook{
		Name:    req.Name,
		URL:     req.URL,
		Events:  req.Events,
		Headers: req.Headers,
		Secret:  req.Secret,
	}
	created, err := webhook.NewStore(s.pool).Create(c.Request.Context(), wh)
	if err != nil {
		_ = c.Error(err)
		return
	}
	_ = s.audit.LogAction(c.Request.Context(), "webhook.create", "webhook", created.ID, actorFromCtx(c), map[string]interface{}{
		"events": created.Events,
	})
	c.JSON(http.StatusCreated, created)
}

// ListWebhooks handles GET /webhooks.
func (s *Server) ListWebhooks(c *gin.Context) {
	list, err := webhook.NewStore(s.pool).List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

// GetWebhook handles GET /webhooks/:id.
func (s *Server) GetWebhook(c *gin.Context) {
	wh, err := webhook.NewStore(s.pool).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, wh)
}

// ListWebhookDeliveries handles GET /webhooks/:id/deliveries.
func (s *Server) ListWebhookDeliveries(c *gin.Context) {
	store := webhook.NewStore(s.pool)
	if _, err := store.Get(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	deliveries, err := store.Deliveries(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": deliveries})
}

// SetWebhookActive handles PATCH /webhooks/:id with {"isActive": bool}.
func (s *Server) SetWebhookActive(c *gin.Context) {
	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ErrValidationFailedf("invalid request body: %v", err))
		return
	}

	id := c.Param("id")
	if err := webhook.NewStore(s.pool).SetActive(c.Request.Context(), id, req.IsActive); err != nil {
		_ = c.Error(err)
		return
	}
	_ = s.audit.LogAction(c.Request.Context(), "webhook.set_active", "webhook", id, actorFromCtx(c), map[string]interface{}{
		"isActive": req.IsActive,
	})
	c.Status(http.StatusNoContent)
}

// DeleteWebhook handles DELETE /webhooks/:id.
func (s *Server) DeleteWebhook(c *gin.Context) {
	id := c.Param("id")
	if err := webhook.NewStore(s.pool).Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	_ = s.audit.LogAction(c.Request.Context(), "webhook.delete", "webhook", id, actorFromCtx(c), nil)
	c.Status(http.StatusNoContent)
}
