package handlers

import (
	"context"
	"ditoolz-coins/internal/domain/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"log/slog"
	"net/http"
)

type PremiumService interface {
	StartConversion(ctx context.Context, userID uuid.UUID, days int) (dto.ConversionOutcome, error)
	ConfirmConversion(ctx context.Context, userID uuid.UUID, days int) (dto.ConversionOutcome, error)
}

type PremiumHandler struct {
	log            *slog.Logger
	premiumService PremiumService
}

func NewPremiumHandler(log *slog.Logger, premiumService PremiumService) *PremiumHandler {
	return &PremiumHandler{
		log:            log,
		premiumService: premiumService,
	}
}

// Convert
// @Summary Convert coins into premium days
// @Description Returns needs_confirmation when an unexpired entitlement exists; confirm to extend additively.
// @Tags premium
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertPremiumRequest true "Days to convert"
// @Success 200 {object} dto.ConversionOutcome "Conversion outcome"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/premium/convert [post]
func (h *PremiumHandler) Convert(c *gin.Context) {
	var input dto.ConvertPremiumRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	outcome, err := h.premiumService.StartConversion(c.Request.Context(), userID, input.Days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// Confirm
// @Summary Confirm an additive premium extension
// @Tags premium
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertPremiumRequest true "Days to convert"
// @Success 200 {object} dto.ConversionOutcome "Conversion outcome"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/premium/confirm [post]
func (h *PremiumHandler) Confirm(c *gin.Context) {
	var input dto.ConvertPremiumRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	outcome, err := h.premiumService.ConfirmConversion(c.Request.Context(), userID, input.Days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, outcome)
}
