package repositories

import (
	"context"
	"time"

	"github.com/cultpass/finance_ledger_app/internal/core/domain"
)

// CashflowReader defines read operations for cashflow data
type CashflowReader interface {
	// FindCashflowByID retrieves a specific cashflow by its unique identifier.
	FindCashflowByID(ctx context.Context, cashflowID string) (*domain.Cashflow, error)

	// FindCashflowLogs retrieves the status-transition logs of a cashflow, ordered by timestamp.
	FindCashflowLogs(ctx context.Context, cashflowID string) ([]domain.CashflowLog, error)

	// FindPricingIDsByCashflowID retrieves the ids of the pricings a cashflow aggregates.
	FindPricingIDsByCashflowID(ctx context.Context, cashflowID string) ([]string, error)
}

// CashflowWriter defines write operations for cashflow data
type CashflowWriter interface {
	// GenerateCashflow selects the eligible pricings of the bank account
	// (VALIDATED, value date before the cutoff, not yet linked to any
	// cashflow), sums them and, when the sum is non-zero, inserts the
	// cashflow and its pricing links — all in one transaction. It returns
	// nil (and no error) when the sum is zero: a zero cashflow must never
	// exist.
	GenerateCashflow(ctx context.Context, cashflow domain.Cashflow, cutoff time.Time) (*domain.Cashflow, error)

	// RegenerateCashflow inserts replacement as a new cashflow linked to the
	// same pricings as the superseded cashflow, in one transaction. The
	// amount is re-summed from the linked pricings.
	RegenerateCashflow(ctx context.Context, supersededCashflowID string, replacement domain.Cashflow) (*domain.Cashflow, error)

	// UpdateCashflowStatus updates a cashflow's status and appends the
	// matching log row in a single transaction. The update is a
	// compare-and-set on log.StatusBefore: when the cashflow's current status
	// no longer matches, it fails with apperrors.ErrConflict and writes
	// nothing.
	UpdateCashflowStatus(ctx context.Context, cashflowID string, status domain.CashflowStatus, log domain.CashflowLog) error
}

// CashflowRepositoryFacade combines all cashflow-related repository interfaces
type CashflowRepositoryFacade interface {
	CashflowReader
	CashflowWriter
}

// BatchReader defines read operations for cashflow batch data
type BatchReader interface {
	// FindBatchByID retrieves a specific batch by its unique identifier.
	FindBatchByID(ctx context.Context, batchID string) (*domain.CashflowBatch, error)

	// FindBatchByCutoff retrieves the batch covering the given cutoff, if any.
	FindBatchByCutoff(ctx context.Context, cutoff time.Time) (*domain.CashflowBatch, error)

	// ListBatches retrieves batches ordered by cutoff descending.
	ListBatches(ctx context.Context, limit int) ([]domain.CashflowBatch, error)
}

// BatchWriter defines write operations for cashflow batch data
type BatchWriter interface {
	// SaveBatch persists a new batch. The unique constraint on cutoff
	// surfaces as apperrors.ErrDuplicate.
	SaveBatch(ctx context.Context, batch domain.CashflowBatch) error
}

// BatchRepositoryFacade combines all batch-related repository interfaces
type BatchRepositoryFacade interface {
	BatchReader
	BatchWriter
}
