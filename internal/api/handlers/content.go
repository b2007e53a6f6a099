package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shepherd-cms/corepress/internal/api/middleware"
	"github.com/shepherd-cms/corepress/internal/content"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
	"github.com/shepherd-cms/corepress/internal/query"
)

// getOptionsFromQuery builds content.GetOptions from the `populate` and
// `includeMedia` query parameters (Open Question resolved: `includeMedia`,
// not `_includeMedia`).
func getOptionsFromQuery(c *gin.Context) content.GetOptions {
	opts := content.GetOptions{
		IncludeMedia: c.Query("includeMedia") == "true",
	}
	if populate := c.Query("populate"); populate != "" {
		for _, p := range strings.Split(populate, ",") {
			if p != "" {
				opts.Populate = append(opts.Populate, p)
			}
		}
	}
	return opts
}

// CreateContent handles POST /blueprints/:blueprint/contents.
func (s *Server) CreateContent(c *gin.Context) {
	bp, err := s.content.Blueprints().Get(c.Request.Context(), c.Param("blueprint"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	var input map[string]any
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(apperrors.ErrValidationFailedf("invalid request body: %v", err))
		return
	}

	item, err := s.content.Create(c.Request.Context(), bp, input, actorFromCtx(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	_ = s.audit.LogAction(c.Request.Context(), "content.create", bp.Slug, item.ID, actorFromCtx(c), nil)
	c.JSON(http.StatusCreated, item)
}

// GetContent handles GET /blueprints/:blueprint/contents/:idOrSlug.
func (s *Server) GetContent(c *gin.Context) {
	bp, err := s.content.Blueprints().Get(c.Request.Context(), c.Param("blueprint"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := middleware.CheckBlueprintAccess(c, bp.Settings.APIAccess, bp.Slug); err != nil {
		_ = c.Error(err)
		return
	}

	item, err := s.content.Get(c.Request.Context(), bp, c.Param("idOrSlug"), getOptionsFromQuery(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// QueryContent handles GET /blueprints/:blueprint/contents.
func (s *Server) QueryContent(c *gin.Context) {
	bp, err := s.content.Blueprints().Get(c.Request.Context(), c.Param("blueprint"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := middleware.CheckBlueprintAccess(c, bp.Settings.APIAccess, bp.Slug); err != nil {
		_ = c.Error(err)
		return
	}

	raw := make(map[string]string, len(c.Request.URL.Query()))
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	planned, warnings := query.Parse(raw)

	page, err := s.content.Query(c.Request.Context(), bp, planned, getOptionsFromQuery(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := gin.H{
		"items":      page.Items,
		"page":       page.Page,
		"total":      page.Total,
		"totalPages": page.TotalPages,
	}
	if len(warnings) > 0 {
		msgs := make([]string, 0, len(warnings))
		for _, w := range warnings {
			msgs = append(msgs, w.Message)
		}
		resp["warnings"] = msgs
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateContent handles PATCH /blueprints/:blueprint/contents/:idOrSlug.
func (s *Server) UpdateContent(c *gin.Context) {
	bp, err := s.content.Blueprints().Get(c.Request.Context(), c.Param("blueprint"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		_ = c.Error(apperrors.ErrValidationFailedf("invalid request body: %v", err))
		return
	}

	item, err := s.content.Update(c.Request.Context(), bp, c.Param("idOrSlug"), patch, actorFromCtx(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	_ = s.audit.LogAction(c.Request.Context(), "content.update", bp.Slug, item.ID, actorFromCtx(c), nil)
	c.JSON(http.StatusOK, item)
}

// DeleteContent handles DELETE /blueprints/:blueprint/contents/:idOrSlug.
func (s *Server) DeleteContent(c *gin.Context) {
	bp, err := s.content.Blueprints().Get(c.Request.Context(), c.Param("blueprint"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	idOrSlug := c.Param("idOrSlug")
	if err := s.content.Delete(c.Request.Context(), bp, idOrSlug, actorFromCtx(c)); err != nil {
		_ = c.Error(err)
		return
	}
	_ = s.audit.LogAction(c.Request.Context(), "content.delete", bp.Slug, idOrSlug, actorFromCtx(c), nil)
	c.Status(http.StatusNoContent)
}

// PublishContent handles POST /blueprints/:blueprint/contents/:idOrSlug/publish.
func (s *Server) PublishContent(c *gin.Context) {
	bp, err := s.content.Blueprints().Get(c.Request.Context(), c.Param("blueprint"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	item, err := s.content.Publish(c.Request.Context(), bp, c.Param("idOrSlug"), actorFromCtx(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	_ = s.audit.LogAction(c.Request.Context(), "content.publish", bp.Slug, item.ID, actorFromCtx(c), nil)
	c.JSON(http.StatusOK, item)
}

// UnpublishContent handles POST /blueprints/:blueprint/contents/:idOrSlug/unpublish.
func (s *Server) UnpublishContent(c *gin.Context) {
	bp, err := s.content.Blueprints().Get(c.Request.Context(), c.Param("blueprint"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	item, err := s.content.Unpublish(c.Request.Context(), bp, c.Param("idOrSlug"), actorFromCtx(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	_ = s.audit.LogAction(c.Request.Context(), "content.unpublish", bp.Slug, item.ID, actorFromCtx(c), nil)
	c.JSON(http.StatusOK, item)
}

// RollbackContent handles POST /blueprints/:blueprint/contents/:idOrSlug/rollback/:version.
func (s *Server) RollbackContent(c *gin.Context) {
	bp, err := s.content.Blueprints().Get(c.Request.Context(), c.Param("blueprint"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	versionNumber, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		_ = c.Error(apperrors.ErrValidationFailedf("version must be an integer"))
		return
	}

	item, err := s.content.Rollback(c.Request.Context(), bp, c.Param("idOrSlug"), versionNumber, actorFromCtx(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	_ = s.audit.LogAction(c.Request.Context(), "content.rollback", bp.Slug, item.ID, actorFromCtx(c), map[string]interface{}{
		"toVersion": versionNumber,
	})
	c.JSON(http.StatusOK, item)
}
