package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/custodix/bankcore/internal/apperrors"
	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/custodix/bankcore/internal/dto"
	"github.com/custodix/bankcore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// assetHandler handles HTTP requests for the token asset registry.
type assetHandler struct {
	assetService ports.AssetSvcFacade
}

// newAssetHandler creates a new assetHandler.
func newAssetHandler(as ports.AssetSvcFacade) *assetHandler {
	return &assetHandler{
		assetService: as,
	}
}

// registerAssetRoutes registers routes related to assets.
func registerAssetRoutes(rg *gin.RouterGroup, assetService ports.AssetSvcFacade) {
	h := newAssetHandler(assetService)

	assets := rg.Group("/assets")
	{
		assets.POST("", h.registerAsset)
		assets.GET("", h.listAssets)
		assets.GET("/:assetID", h.getAssetByID)
	}
}

func (h *assetHandler) registerAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RegisterAsset", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to register asset", slog.String("asset_id", req.AssetID))

	asset, err := h.assetService.RegisterAsset(c.Request.Context(), domain.AssetID(req.AssetID), req.Symbol, req.Decimals, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Attempted to register duplicate asset", slog.String("asset_id", req.AssetID))
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Asset '%s' already exists", req.AssetID)})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error registering asset", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to register asset in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register asset"})
		}
		return
	}

	logger.Info("Asset registered successfully", slog.String("asset_id", asset.AssetID.String()))
	c.JSON(http.StatusCreated, dto.ToAssetResponse(asset))
}

func (h *assetHandler) getAssetByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	assetID := c.Param("assetID")
	if !assetIDPattern.MatchString(assetID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	logger = logger.With(slog.String("asset_id", assetID))

	asset, err := h.assetService.GetAsset(c.Request.Context(), domain.AssetID(assetID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Asset not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		} else {
			logger.Error("Failed to get asset from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve asset"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAssetResponse(asset))
}

func (h *assetHandler) listAssets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	assets, err := h.assetService.ListAssets(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list assets from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list assets"})
		return
	}

	logger.Info("Assets listed successfully", slog.Int("count", len(assets)))
	c.JSON(http.StatusOK, dto.ToListAssetResponse(assets))
}
