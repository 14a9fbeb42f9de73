package handlers

import (
	"context"
	"ditoolz-coins/internal/domain/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"log/slog"
	"net/http"
)

type ToolGateService interface {
	AuthorizeAction(ctx context.Context, userID uuid.UUID, toolPath string) (dto.GateDecision, error)
	AuthorizeAccess(ctx context.Context, userID uuid.UUID, toolPath string) (dto.GateDecision, error)
}

type ToolsHandler struct {
	log      *slog.Logger
	toolGate ToolGateService
}

func NewToolsHandler(log *slog.Logger, toolGate ToolGateService) *ToolsHandler {
	return &ToolsHandler{
		log:      log,
		toolGate: toolGate,
	}
}

// UseTool
// @Summary Charge coins for a tool action
// @Description Gates an explicit user action; a denial carries a redirect to the purchase surface.
// @Tags tools
// @Security BearerAuth
// @Produce json
// @Param tool path string true "Tool identifier"
// @Success 200 {object} dto.GateDecision "Gate decision"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/tools/{tool}/use [post]
func (h *ToolsHandler) UseTool(c *gin.Context) {
	tool := c.Param("tool")
	if tool == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tool is required"})
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	decision, err := h.toolGate.AuthorizeAction(c.Request.Context(), userID, tool)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, decision)
}

// CheckAccess
// @Summary Charge coins for page-level tool access
// @Description Same semantics as /use, fired when a gated tool page mounts.
// @Tags tools
// @Security BearerAuth
// @Produce json
// @Param tool path string true "Tool identifier"
// @Success 200 {object} dto.GateDecision "Gate decision"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/tools/{tool}/access [get]
func (h *ToolsHandler) CheckAccess(c *gin.Context) {
	tool := c.Param("tool")
	if tool == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tool is required"})
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	decision, err := h.toolGate.AuthorizeAccess(c.Request.Context(), userID, tool)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, decision)
}
