package repositories

import (
	"context"

	"github.com/cultpass/finance_ledger_app/internal/core/domain"
)

// PricingReader defines read operations for pricing data
type PricingReader interface {
	// FindPricingByID retrieves a specific pricing by its unique identifier.
	FindPricingByID(ctx context.Context, pricingID string) (*domain.Pricing, error)

	// FindPricingLines retrieves the lines of a pricing, ordered by line id.
	FindPricingLines(ctx context.Context, pricingID string) ([]domain.PricingLine, error)

	// FindPricingLogs retrieves the status-transition logs of a pricing, ordered by timestamp.
	FindPricingLogs(ctx context.Context, pricingID string) ([]domain.PricingLog, error)

	// ListPricingsByBankAccount retrieves a paginated list of pricings for a bank account
	// using token-based pagination. It returns the pricings, a token for the next page,
	// and an error.
	ListPricingsByBankAccount(ctx context.Context, bankAccountID string, limit int, nextToken *string) ([]domain.Pricing, *string, error)
}

// PricingWriter defines write operations for pricing data
type PricingWriter interface {
	// SavePricing persists a pricing and its lines in one transaction. The
	// pricing's revenue is computed inside that same transaction, as the bank
	// account's previous cumulative revenue plus grossCents, so that two
	// concurrent pricings never read an inconsistent running total. The
	// partial uniqueness constraint on (booking_id) where status is not
	// CANCELLED surfaces as apperrors.ErrDuplicate.
	SavePricing(ctx context.Context, pricing domain.Pricing, lines []domain.PricingLine, grossCents int64) (*domain.Pricing, error)

	// UpdatePricingStatus updates a pricing's status and appends the matching
	// log row in a single transaction. The update is a compare-and-set on
	// log.StatusBefore: when the pricing's current status no longer matches,
	// it fails with apperrors.ErrConflict and writes nothing.
	UpdatePricingStatus(ctx context.Context, pricingID string, status domain.PricingStatus, log domain.PricingLog) error

	// DeletePricing hard-deletes a pricing with its lines and logs. Callers
	// enforce the deletable-status policy. A pricing already aggregated into
	// a cashflow cannot be deleted and fails with apperrors.ErrConflict.
	DeletePricing(ctx context.Context, pricingID string) error
}

// PricingRepositoryFacade combines all pricing-related repository interfaces
type PricingRepositoryFacade interface {
	PricingReader
	PricingWriter
}

// PricingRepositoryWithTx extends PricingRepositoryFacade with transaction capabilities
type PricingRepositoryWithTx interface {
	PricingRepositoryFacade
	TransactionManager
}
