package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

// ListPlugins handles GET /plugins, returning the id and lifecycle state
// of every currently loaded plugin instance.
func (s *Server) ListPlugins(c *gin.Context) {
	ids := s.plugins.List()
	items := make([]gin.H, 0, len(ids))
	for _, id := range ids {
		state, _ := s.plugins.State(id)
		items = append(items, gin.H{"id": id, "state": state})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetPlugin handles GET /plugins/:id.
func (s *Server) GetPlugin(c *gin.Context) {
	state, ok := s.plugins.State(c.Param("id"))
	if !ok {
		_ = c.Error(apperrors.ErrPluginNotFoundf(c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "state": state})
}

// ReconfigurePlugin handles PATCH /plugins/:id/config with a partial
// config document merged over the plugin's current configuration.
func (s *Server) ReconfigurePlugin(c *gin.Context) {
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		_ = c.Error(apperrors.ErrValidationFailedf("invalid request body: %v", err))
		return
	}

	id := c.Param("id")
	if err := s.plugins.Reconfigure(id, partial); err != nil {
		_ = c.Error(err)
		return
	}
	_ = s.audit.LogAction(c.Request.Context(), "plugin.reconfigure", "plugin", id, actorFromCtx(c), nil)
	c.Status(http.StatusNoContent)
}

// UnloadPlugin handles DELETE /plugins/:id.
func (s *Server) UnloadPlugin(c *gin.Context) {
	id := c.Param("id")
	if err := s.plugins.Unload(id); err != nil {
		_ = c.Error(err)
		return
	}
	_ = s.audit.LogAction(c.Request.Context(), "plugin.unload", "plugin", id, actorFromCtx(c), nil)
	c.Status(http.StatusNoContent)
}
