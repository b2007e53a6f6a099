package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shepherd-cms/corepress/internal/blueprint"
	"github.com/shepherd-cms/corepress/internal/domain"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
	"github.com/shepherd-cms/corepress/internal/slug"
)

type createBlueprintRequest struct {
	Name     string                   `json:"name" binding:"required"`
	Slug     string                   `json:"slug"`
	Fields   []domain.FieldDefinition `json:"fields"`
	Settings domain.BlueprintSettings `json:"settings"`
}

// CreateBlueprint handles POST /blueprints.
func (s *Server) CreateBlueprint(c *gin.Context) {
	var req createBlueprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ErrValidationFailedf("invalid request body: %v", err))
		return
	}

	bpSlug := req.Slug
	if bpSlug == "" {
		bpSlug = slug.Normalize(req.Name)
	}
	bp := &domain.Blueprint{
		Name:     req.Name,
		Slug:     bpSlug,
		Fields:   req.Fields,
		Settings: req.Settings,
	}
	if result := blueprint.Validate(bp, nil, s.registry); len(result.Errors) > 0 {
		_ = c.Error(apperrors.ErrValidationFailedf("blueprint has %d invalid field(s)", len(result.Errors)))
		return
	}

	created, err := s.content.Blueprints().Create(c.Request.Context(), bp)
	if err != nil {
		_ = c.Error(err)
		return
	}
	_ = s.audit.LogAction(c.Request.Context(), "blueprint.create", "blueprint", created.ID, actorFromCtx(c), nil)
	c.JSON(http.StatusCreated, created)
}

// GetBlueprint handles GET /blueprints/:blueprint.
func (s *Server) GetBlueprint(c *gin.Context) {
	bp, err := s.content.Blueprints().Get(c.Request.Context(), c.Param("blueprint"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, bp)
}

// ListBlueprints handles GET /blueprints.
func (s *Server) ListBlueprints(c *gin.Context) {
	list, err := s.content.Blueprints().List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

// UpdateBlueprint handles PATCH /blueprints/:blueprint.
func (s *Server) UpdateBlueprint(c *gin.Context) {
	bp, err := s.content.Blueprints().Get(c.Request.Context(), c.Param("blueprint"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req createBlueprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ErrValidationFailedf("invalid request body: %v", err))
		return
	}
	bp.Name = req.Name
	if req.Fields != nil {
		bp.Fields = req.Fields
	}
	bp.Settings = req.Settings

	if result := blueprint.Validate(bp, nil, s.registry); len(result.Errors) > 0 {
		_ = c.Error(apperrors.ErrValidationFailedf("blueprint has %d invalid field(s)", len(result.Errors)))
		return
	}

	if err := s.content.Blueprints().Update(c.Request.Context(), bp); err != nil {
		_ = c.Error(err)
		return
	}
	_ = s.audit.LogAction(c.Request.Context(), "blueprint.update", "blueprint", bp.ID, actorFromCtx(c), nil)
	c.JSON(http.StatusOK, bp)
}

// DeleteBlueprint handles DELETE /blueprints/:blueprint.
func (s *Server) DeleteBlueprint(c *gin.Context) {
	bp, err := s.content.Blueprints().Get(c.Request.Context(), c.Param("blueprint"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := s.content.Blueprints().Delete(c.Request.Context(), bp.ID); err != nil {
		_ = c.Error(err)
		return
	}
	_ = s.audit.LogAction(c.Request.Context(), "blueprint.delete", "blueprint", bp.ID, actorFromCtx(c), nil)
	c.Status(http.StatusNoContent)
}
