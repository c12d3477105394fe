package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/custodix/bankcore/internal/apperrors"
	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/custodix/bankcore/internal/dto"
	"github.com/custodix/bankcore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bankHandler handles HTTP requests for deposits, withdrawals and balances.
type bankHandler struct {
	bankService ports.BankSvcFacade
}

// newBankHandler creates a new bankHandler.
func newBankHandler(bs ports.BankSvcFacade) *bankHandler {
	return &bankHandler{
		bankService: bs,
	}
}

// registerBankRoutes registers the core ledger routes.
func registerBankRoutes(rg *gin.RouterGroup, bankService ports.BankSvcFacade) {
	h := newBankHandler(bankService)

	bank := rg.Group("/bank")
	{
		bank.POST("/deposits", h.deposit)
		bank.POST("/withdrawals", h.withdraw)
		bank.GET("/balances/:assetID", h.getBalance)
		bank.GET("/summary", h.getSummary)
	}
}

func (h *bankHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Owner user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("asset_id", req.AssetID))
	logger.Info("Received deposit request", slog.String("amount", req.Amount.String()))

	receipt, err := h.bankService.Deposit(c.Request.Context(), ownerID, domain.AssetID(req.AssetID), req.Amount)
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to process deposit")
		return
	}

	logger.Info("Deposit accepted", slog.String("usd_value", receipt.USDValue.String()))
	c.JSON(http.StatusCreated, dto.ToDepositResponse(receipt))
}

func (h *bankHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Owner user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("asset_id", req.AssetID))
	logger.Info("Received withdrawal request", slog.String("amount", req.Amount.String()))

	receipt, err := h.bankService.Withdraw(c.Request.Context(), ownerID, domain.AssetID(req.AssetID), req.Amount)
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to process withdrawal")
		return
	}

	logger.Info("Withdrawal settled")
	c.JSON(http.StatusCreated, dto.ToWithdrawalResponse(receipt))
}

func (h *bankHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	assetID := c.Param("assetID")
	if !assetIDPattern.MatchString(assetID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Owner user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balance, err := h.bankService.BalanceOf(c.Request.Context(), ownerID, domain.AssetID(assetID))
	if err != nil {
		logger.Error("Failed to read balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		OwnerID: ownerID,
		AssetID: assetID,
		Balance: balance,
	})
}

func (h *bankHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.bankService.Summary(c.Request.Context())
	if err != nil {
		logger.Error("Failed to read ledger summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve summary"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}

// respondLedgerError maps ledger error values to HTTP responses. Shared by
// the deposit, withdrawal and admin handlers.
func respondLedgerError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	var capErr *apperrors.CapExceededError
	var fundsErr *apperrors.InsufficientFundsError
	var transferErr *apperrors.TransferFailedError

	switch {
	case errors.As(err, &capErr):
		logger.Warn("Deposit rejected by solvency cap",
			slog.String("cap", capErr.Cap.String()),
			slog.String("current_total", capErr.CurrentTotal.String()),
			slog.String("attempted_value", capErr.AttemptedValue.String()),
		)
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Bank cap exceeded",
			"cap":            capErr.Cap,
			"currentTotal":   capErr.CurrentTotal,
			"attemptedValue": capErr.AttemptedValue,
		})
	case errors.As(err, &fundsErr):
		logger.Warn("Insufficient funds",
			slog.String("balance", fundsErr.Balance.String()),
			slog.String("requested", fundsErr.Requested.String()),
		)
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Insufficient funds",
			"balance":   fundsErr.Balance,
			"requested": fundsErr.Requested,
		})
	case errors.As(err, &transferErr):
		logger.Error("Transfer failed", slog.String("op", transferErr.Op), slog.String("error", transferErr.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Asset transfer failed"})
	case errors.Is(err, apperrors.ErrOracleStalePrice), errors.Is(err, apperrors.ErrOracleInvalidPrice):
		logger.Error("Oracle rejected valuation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Price oracle unavailable"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Asset not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
