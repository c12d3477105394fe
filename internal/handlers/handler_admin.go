package handlers

import (
	"log/slog"
	"net/http"

	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/custodix/bankcore/internal/dto"
	"github.com/custodix/bankcore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adminHandler handles the administrative custody and oracle routes.
type adminHandler struct {
	bankService ports.BankSvcFacade
}

// newAdminHandler creates a new adminHandler.
func newAdminHandler(bs ports.BankSvcFacade) *adminHandler {
	return &adminHandler{
		bankService: bs,
	}
}

// registerAdminRoutes registers the admin-only routes behind AdminRequired.
func registerAdminRoutes(rg *gin.RouterGroup, bankService ports.BankSvcFacade) {
	h := newAdminHandler(bankService)

	admin := rg.Group("/admin", middleware.AdminRequired())
	{
		admin.GET("/custody/:assetID", h.getCustody)
		admin.POST("/custody/sweep", h.sweepTreasury)
		admin.POST("/price-feed", h.replacePriceFeed)
	}
}

func (h *adminHandler) getCustody(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	assetID := c.Param("assetID")
	if !assetIDPattern.MatchString(assetID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	amount, err := h.bankService.CustodyOf(c.Request.Context(), domain.AssetID(assetID))
	if err != nil {
		logger.Error("Failed to read custody", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve custody"})
		return
	}

	c.JSON(http.StatusOK, dto.CustodyResponse{
		AssetID: assetID,
		Amount:  amount,
	})
}

func (h *adminHandler) sweepTreasury(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SweepTreasury", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("asset_id", req.AssetID), slog.String("recipient_id", req.RecipientID))
	logger.Info("Received treasury sweep request", slog.String("amount", req.Amount.String()))

	err := h.bankService.SweepTreasury(c.Request.Context(), domain.AssetID(req.AssetID), req.RecipientID, req.Amount)
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to sweep treasury")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *adminHandler) replacePriceFeed(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReplacePriceFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReplacePriceFeed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to replace price feed")

	if err := h.bankService.ReplacePriceFeed(c.Request.Context(), req.FeedURL); err != nil {
		respondLedgerError(c, logger, err, "Failed to replace price feed")
		return
	}

	c.Status(http.StatusNoContent)
}
