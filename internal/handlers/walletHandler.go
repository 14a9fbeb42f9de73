package handlers

import (
	"context"
	"ditoolz-coins/internal/domain/catalog"
	"ditoolz-coins/internal/domain/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"log/slog"
	"net/http"
)

type WalletService interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (dto.WalletResponse, error)
	EarnFromAd(ctx context.Context, userID uuid.UUID) (dto.MutationResult, error)
	Purchase(ctx context.Context, userID uuid.UUID, packageID string) (dto.MutationResult, error)
}

type WalletHandler struct {
	log           *slog.Logger
	walletService WalletService
}

func NewWalletHandler(log *slog.Logger, walletService WalletService) *WalletHandler {
	return &WalletHandler{
		log:           log,
		walletService: walletService,
	}
}

// GetWallet
// @Summary Coin balance, premium status and recent ledger history
// @Tags wallet
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.WalletResponse "Wallet state"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// EarnFromAd
// @Summary Redeem the ad-watch coin reward
// @Description Grants a fixed reward, at most once per cooldown window.
// @Tags wallet
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.MutationResult "Mutation outcome"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/wallet/earn-ad [post]
func (h *WalletHandler) EarnFromAd(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	result, err := h.walletService.EarnFromAd(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Purchase
// @Summary Credit a purchased coin package
// @Description Payment capture happens in the external checkout before this is called.
// @Tags wallet
// @Security BearerAuth
// @Produce json
// @Param package path string true "Package id"
// @Success 200 {object} dto.MutationResult "Mutation outcome"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/wallet/purchase/{package} [post]
func (h *WalletHandler) Purchase(c *gin.Context) {
	packageID := c.Param("package")
	if packageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Package is required"})
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	result, err := h.walletService.Purchase(c.Request.Context(), userID, packageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListPackages
// @Summary Coin package catalogue
// @Tags wallet
// @Produce json
// @Success 200 {array} catalog.CoinPackage "Available packages"
// @Router /api/packages [get]
func (h *WalletHandler) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Packages())
}
