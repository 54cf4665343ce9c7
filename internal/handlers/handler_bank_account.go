package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cultpass/finance_ledger_app/internal/apperrors"
	portssvc "github.com/cultpass/finance_ledger_app/internal/core/ports/services"
	"github.com/cultpass/finance_ledger_app/internal/core/services"
	"github.com/cultpass/finance_ledger_app/internal/dto"
	"github.com/cultpass/finance_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bankAccountHandler handles HTTP requests related to bank accounts and their
// custom reimbursement rules.
type bankAccountHandler struct {
	bankAccountService portssvc.BankAccountSvcFacade
}

// newBankAccountHandler creates a new bankAccountHandler.
func newBankAccountHandler(bas portssvc.BankAccountSvcFacade) *bankAccountHandler {
	return &bankAccountHandler{
		bankAccountService: bas,
	}
}

// registerBankAccountRoutes registers all bank-account-related routes.
func registerBankAccountRoutes(rg *gin.RouterGroup, bankAccountService portssvc.BankAccountSvcFacade) {
	h := newBankAccountHandler(bankAccountService)

	accounts := rg.Group("/bank-accounts")
	{
		accounts.POST("", h.createBankAccount)
		accounts.GET("/:bankAccountID", h.getBankAccount)
		accounts.POST("/:bankAccountID/custom-rules", h.createCustomRule)
	}
}

// createBankAccount registers a new payee bank account.
func (h *bankAccountHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for create bank account request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.bankAccountService.CreateBankAccount(c.Request.Context(), req)
	if err != nil {
		logger.Error("Failed to create bank account in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bank account"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(account))
}

// getBankAccount retrieves a bank account.
func (h *bankAccountHandler) getBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("bankAccountID")

	account, err := h.bankAccountService.GetBankAccountByID(c.Request.Context(), bankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Bank account not found", slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
			return
		}
		logger.Error("Failed to get bank account from service", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bank account"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

// createCustomRule attaches a negotiated reimbursement rate to a bank account.
func (h *bankAccountHandler) createCustomRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("bankAccountID")

	var req dto.CreateCustomRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for create custom rule request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	req.BankAccountID = bankAccountID

	rule, err := h.bankAccountService.CreateCustomRule(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Bank account not found for custom rule", slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		case errors.Is(err, services.ErrInvalidRate), errors.Is(err, services.ErrInvalidRulePeriod):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create custom rule in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create custom rule"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToCustomRuleResponse(rule))
}
