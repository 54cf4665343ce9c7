package services

import (
	"context"

	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	"github.com/cultpass/finance_ledger_app/internal/dto"
)

// PricingReaderSvc defines read operations for pricing data
type PricingReaderSvc interface {
	// GetPricingByID retrieves a pricing with its lines and logs.
	GetPricingByID(ctx context.Context, pricingID string) (*domain.Pricing, error)

	// ListPricingsByBankAccount retrieves a paginated list of pricings for a bank account.
	ListPricingsByBankAccount(ctx context.Context, bankAccountID string, params dto.ListPricingsParams) (*dto.ListPricingsResponse, error)
}

// PricingWriterSvc defines the pricing engine and status transition operations
type PricingWriterSvc interface {
	// ComputePricing prices a used booking exactly once: it resolves the
	// applicable reimbursement rule, computes the signed amount and lines,
	// snapshots the bank account revenue and persists everything atomically.
	// A booking that already has a non-cancelled pricing fails with
	// ErrDuplicatePricing.
	ComputePricing(ctx context.Context, bookingID string) (*domain.Pricing, error)

	// MarkPricingValidated transitions a PENDING pricing to VALIDATED.
	MarkPricingValidated(ctx context.Context, pricingID string) (*domain.Pricing, error)

	// MarkPricingRejected transitions a PENDING pricing to REJECTED.
	MarkPricingRejected(ctx context.Context, pricingID string) (*domain.Pricing, error)

	// MarkPricingBilled transitions a VALIDATED pricing to BILLED. Any other
	// starting status fails with ErrInvalidTransition.
	MarkPricingBilled(ctx context.Context, pricingID string) (*domain.Pricing, error)

	// CancelPricing transitions a cancellable pricing to CANCELLED with the
	// given logged reason. Cancelling a CANCELLED or BILLED pricing fails
	// with ErrInvalidTransition.
	CancelPricing(ctx context.Context, pricingID string, reason domain.PricingLogReason) (*domain.Pricing, error)

	// DeletePricing hard-deletes a pricing (administrative correction).
	// BILLED pricings are immutable and fail with ErrImmutablePricing.
	DeletePricing(ctx context.Context, pricingID string) error
}

// PricingSvcFacade combines all pricing-related service interfaces
type PricingSvcFacade interface {
	PricingReaderSvc
	PricingWriterSvc
}
