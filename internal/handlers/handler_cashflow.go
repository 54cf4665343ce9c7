package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cultpass/finance_ledger_app/internal/apperrors"
	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	portssvc "github.com/cultpass/finance_ledger_app/internal/core/ports/services"
	"github.com/cultpass/finance_ledger_app/internal/core/services"
	"github.com/cultpass/finance_ledger_app/internal/dto"
	"github.com/cultpass/finance_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// cashflowHandler handles HTTP requests related to cashflows and batches.
type cashflowHandler struct {
	cashflowService portssvc.CashflowSvcFacade
}

// newCashflowHandler creates a new cashflowHandler.
func newCashflowHandler(cs portssvc.CashflowSvcFacade) *cashflowHandler {
	return &cashflowHandler{
		cashflowService: cs,
	}
}

// registerCashflowRoutes registers all cashflow- and batch-related routes.
func registerCashflowRoutes(rg *gin.RouterGroup, cashflowService portssvc.CashflowSvcFacade) {
	h := newCashflowHandler(cashflowService)

	cashflows := rg.Group("/cashflows")
	{
		cashflows.POST("", h.generateCashflows)
		cashflows.GET("/:cashflowID", h.getCashflow)
		cashflows.POST("/:cashflowID/regenerate", h.regenerateCashflow)
		cashflows.POST("/:cashflowID/review", h.markUnderReview)
		cashflows.POST("/:cashflowID/accept", h.markAccepted)
	}

	batches := rg.Group("/cashflow-batches")
	{
		batches.POST("", h.createBatch)
		batches.GET("", h.listBatches)
		batches.GET("/:batchID", h.getBatch)
		batches.GET("/:batchID/invoice-period", h.getInvoicePeriod)
	}
}

// generateCashflows aggregates one bank account's eligible pricings for a cutoff.
func (h *cashflowHandler) generateCashflows(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GenerateCashflowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for generate cashflows request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	cashflow, err := h.cashflowService.GenerateCashflows(c.Request.Context(), req.BankAccountID, req.Cutoff)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Bank account not found for cashflow generation", slog.String("bank_account_id", req.BankAccountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		case errors.Is(err, services.ErrBatchNotFound):
			logger.Warn("No batch for cutoff", slog.Time("cutoff", req.Cutoff))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Concurrent cashflow generation detected", slog.String("bank_account_id", req.BankAccountID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to generate cashflows in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate cashflows"})
		}
		return
	}
	if cashflow == nil {
		// Nothing to pay out or claw back for this cutoff.
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCashflowResponse(cashflow))
}

// getCashflow retrieves a cashflow with its logs and pricing ids.
func (h *cashflowHandler) getCashflow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cashflowID := c.Param("cashflowID")

	cashflow, err := h.cashflowService.GetCashflowByID(c.Request.Context(), cashflowID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Cashflow not found", slog.String("cashflow_id", cashflowID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Cashflow not found"})
			return
		}
		logger.Error("Failed to get cashflow from service", slog.String("error", err.Error()), slog.String("cashflow_id", cashflowID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cashflow"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCashflowResponse(cashflow))
}

// regenerateCashflow replaces a bank-rejected cashflow with a fresh one
// carrying the same pricings.
func (h *cashflowHandler) regenerateCashflow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cashflowID := c.Param("cashflowID")

	cashflow, err := h.cashflowService.RegenerateCashflow(c.Request.Context(), cashflowID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Cashflow not found", slog.String("cashflow_id", cashflowID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Cashflow not found"})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Cashflow cannot be regenerated", slog.String("cashflow_id", cashflowID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to regenerate cashflow in service", slog.String("error", err.Error()), slog.String("cashflow_id", cashflowID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to regenerate cashflow"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToCashflowResponse(cashflow))
}

// markUnderReview transitions a PENDING cashflow to UNDER_REVIEW.
func (h *cashflowHandler) markUnderReview(c *gin.Context) {
	h.updateCashflowStatus(c, "review", h.cashflowService.MarkCashflowUnderReview)
}

// markAccepted transitions an UNDER_REVIEW cashflow to ACCEPTED.
func (h *cashflowHandler) markAccepted(c *gin.Context) {
	h.updateCashflowStatus(c, "accept", h.cashflowService.MarkCashflowAccepted)
}

func (h *cashflowHandler) updateCashflowStatus(c *gin.Context, action string, fn func(ctx context.Context, cashflowID string, details map[string]string) (*domain.Cashflow, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cashflowID := c.Param("cashflowID")

	var req dto.CashflowStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Error("Failed to bind JSON for cashflow status request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	cashflow, err := fn(c.Request.Context(), cashflowID, req.Details)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Cashflow not found", slog.String("cashflow_id", cashflowID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Cashflow not found"})
		case errors.Is(err, services.ErrInvalidTransition):
			logger.Warn("Invalid cashflow transition", slog.String("cashflow_id", cashflowID), slog.String("action", action))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to "+action+" cashflow in service", slog.String("error", err.Error()), slog.String("cashflow_id", cashflowID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " cashflow"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCashflowResponse(cashflow))
}

// createBatch opens the batch for a cutoff.
func (h *cashflowHandler) createBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for create batch request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	batch, err := h.cashflowService.CreateBatch(c.Request.Context(), req.Cutoff)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateBatch):
			logger.Warn("Batch already exists for cutoff", slog.Time("cutoff", req.Cutoff))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidCutoff):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create batch in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create batch"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToBatchResponse(batch))
}

// getBatch retrieves a batch.
func (h *cashflowHandler) getBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("batchID")

	batch, err := h.cashflowService.GetBatchByID(c.Request.Context(), batchID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Batch not found", slog.String("batch_id", batchID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
			return
		}
		logger.Error("Failed to get batch from service", slog.String("error", err.Error()), slog.String("batch_id", batchID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve batch"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBatchResponse(batch))
}

// listBatches retrieves recent batches, newest cutoff first.
func (h *cashflowHandler) listBatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	batches, err := h.cashflowService.ListBatches(c.Request.Context(), limit)
	if err != nil {
		logger.Error("Failed to list batches from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list batches"})
		return
	}

	resp := make([]dto.BatchResponse, len(batches))
	for i := range batches {
		resp[i] = dto.ToBatchResponse(&batches[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getInvoicePeriod returns the accounting period the batch's invoice covers.
func (h *cashflowHandler) getInvoicePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("batchID")

	batch, err := h.cashflowService.GetBatchByID(c.Request.Context(), batchID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Batch not found", slog.String("batch_id", batchID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
			return
		}
		logger.Error("Failed to get batch from service", slog.String("error", err.Error()), slog.String("batch_id", batchID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve batch"})
		return
	}

	start, end := h.cashflowService.GetInvoicePeriod(batch.Cutoff)
	c.JSON(http.StatusOK, dto.InvoicePeriodResponse{PeriodStart: start, PeriodEnd: end})
}
