package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cultpass/finance_ledger_app/internal/apperrors"
	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	portssvc "github.com/cultpass/finance_ledger_app/internal/core/ports/services"
	"github.com/cultpass/finance_ledger_app/internal/core/services"
	"github.com/cultpass/finance_ledger_app/internal/dto"
	"github.com/cultpass/finance_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// pricingHandler handles HTTP requests related to pricings.
type pricingHandler struct {
	pricingService portssvc.PricingSvcFacade
}

// newPricingHandler creates a new pricingHandler.
func newPricingHandler(ps portssvc.PricingSvcFacade) *pricingHandler {
	return &pricingHandler{
		pricingService: ps,
	}
}

// RegisterPricingRoutes registers all pricing-related routes.
func RegisterPricingRoutes(rg *gin.RouterGroup, pricingService portssvc.PricingSvcFacade) {
	h := newPricingHandler(pricingService)

	pricings := rg.Group("/pricings")
	{
		pricings.POST("", h.computePricing)
		pricings.GET("/:pricingID", h.getPricing)
		pricings.POST("/:pricingID/validate", h.validatePricing)
		pricings.POST("/:pricingID/reject", h.rejectPricing)
		pricings.POST("/:pricingID/bill", h.billPricing)
		pricings.POST("/:pricingID/cancel", h.cancelPricing)
		pricings.DELETE("/:pricingID", h.deletePricing)
	}
	rg.GET("/bank-accounts/:bankAccountID/pricings", h.listPricings)
}

// computePricing prices a used booking exactly once.
func (h *pricingHandler) computePricing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ComputePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for compute pricing request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	pricing, err := h.pricingService.ComputePricing(c.Request.Context(), req.BookingID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Booking not found for pricing", slog.String("booking_id", req.BookingID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, services.ErrDuplicatePricing):
			logger.Warn("Booking already priced", slog.String("booking_id", req.BookingID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrBookingNotPriceable):
			logger.Warn("Booking not priceable", slog.String("booking_id", req.BookingID))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to compute pricing in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute pricing"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToPricingResponse(pricing))
}

// getPricing retrieves a pricing with its lines and logs.
func (h *pricingHandler) getPricing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pricingID := c.Param("pricingID")

	pricing, err := h.pricingService.GetPricingByID(c.Request.Context(), pricingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Pricing not found", slog.String("pricing_id", pricingID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Pricing not found"})
			return
		}
		logger.Error("Failed to get pricing from service", slog.String("error", err.Error()), slog.String("pricing_id", pricingID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve pricing"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPricingResponse(pricing))
}

// listPricings retrieves a paginated list of a bank account's pricings.
func (h *pricingHandler) listPricings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("bankAccountID")

	var params dto.ListPricingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for list pricings request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.pricingService.ListPricingsByBankAccount(c.Request.Context(), bankAccountID, params)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == 400 {
			logger.Warn("Invalid pagination token", slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid nextToken"})
			return
		}
		logger.Error("Failed to list pricings from service", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pricings"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// transitionPricing funnels the three reason-less status endpoints.
func (h *pricingHandler) transitionPricing(c *gin.Context, action string, fn func() (*domain.Pricing, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pricingID := c.Param("pricingID")

	pricing, err := fn()
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Pricing not found", slog.String("pricing_id", pricingID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Pricing not found"})
		case errors.Is(err, services.ErrInvalidTransition):
			logger.Warn("Invalid pricing transition", slog.String("pricing_id", pricingID), slog.String("action", action))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to "+action+" pricing in service", slog.String("error", err.Error()), slog.String("pricing_id", pricingID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " pricing"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPricingResponse(pricing))
}

// validatePricing transitions a PENDING pricing to VALIDATED.
func (h *pricingHandler) validatePricing(c *gin.Context) {
	h.transitionPricing(c, "validate", func() (*domain.Pricing, error) {
		return h.pricingService.MarkPricingValidated(c.Request.Context(), c.Param("pricingID"))
	})
}

// rejectPricing transitions a PENDING pricing to REJECTED.
func (h *pricingHandler) rejectPricing(c *gin.Context) {
	h.transitionPricing(c, "reject", func() (*domain.Pricing, error) {
		return h.pricingService.MarkPricingRejected(c.Request.Context(), c.Param("pricingID"))
	})
}

// billPricing transitions a VALIDATED pricing to BILLED.
func (h *pricingHandler) billPricing(c *gin.Context) {
	h.transitionPricing(c, "bill", func() (*domain.Pricing, error) {
		return h.pricingService.MarkPricingBilled(c.Request.Context(), c.Param("pricingID"))
	})
}

// cancelPricing transitions a cancellable pricing to CANCELLED with the
// logged reason from the request body.
func (h *pricingHandler) cancelPricing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pricingID := c.Param("pricingID")

	var req dto.CancelPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for cancel pricing request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	h.transitionPricing(c, "cancel", func() (*domain.Pricing, error) {
		return h.pricingService.CancelPricing(c.Request.Context(), pricingID, domain.PricingLogReason(req.Reason))
	})
}

// deletePricing hard-deletes a pricing (administrative correction).
func (h *pricingHandler) deletePricing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pricingID := c.Param("pricingID")

	err := h.pricingService.DeletePricing(c.Request.Context(), pricingID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Pricing not found", slog.String("pricing_id", pricingID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Pricing not found"})
		case errors.Is(err, services.ErrImmutablePricing):
			logger.Warn("Pricing not deletable", slog.String("pricing_id", pricingID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Pricing linked to a cashflow", slog.String("pricing_id", pricingID))
			c.JSON(http.StatusConflict, gin.H{"error": "Pricing is linked to a cashflow"})
		default:
			logger.Error("Failed to delete pricing in service", slog.String("error", err.Error()), slog.String("pricing_id", pricingID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pricing"})
		}
		return
	}

	logger.Info("Pricing deleted", slog.String("pricing_id", pricingID))
	c.Status(http.StatusNoContent)
}
