package services

import (
	"context"
	"time"

	"github.com/cultpass/finance_ledger_app/internal/core/domain"
)

// CashflowReaderSvc defines read operations for cashflow data
type CashflowReaderSvc interface {
	// GetCashflowByID retrieves a cashflow with its logs and pricing ids.
	GetCashflowByID(ctx context.Context, cashflowID string) (*domain.Cashflow, error)
}

// CashflowWriterSvc defines the aggregator and cashflow transition operations
type CashflowWriterSvc interface {
	// GenerateCashflows aggregates the bank account's eligible pricings for
	// the cutoff into one PENDING cashflow under that cutoff's batch. It
	// returns nil when the eligible sum is zero (no cashflow is created).
	GenerateCashflows(ctx context.Context, bankAccountID string, cutoff time.Time) (*domain.Cashflow, error)

	// RegenerateCashflow replaces a cashflow rejected by the bank with a new
	// PENDING cashflow carrying a fresh transaction id and linked to the
	// same pricings.
	RegenerateCashflow(ctx context.Context, cashflowID string) (*domain.Cashflow, error)

	// MarkCashflowUnderReview transitions a PENDING cashflow to UNDER_REVIEW.
	MarkCashflowUnderReview(ctx context.Context, cashflowID string, details map[string]string) (*domain.Cashflow, error)

	// MarkCashflowAccepted transitions an UNDER_REVIEW cashflow to ACCEPTED.
	MarkCashflowAccepted(ctx context.Context, cashflowID string, details map[string]string) (*domain.Cashflow, error)
}

// BatchSvc defines the batch scheduler operations
type BatchSvc interface {
	// CreateBatch opens the batch for a cutoff. A second call for the same
	// cutoff fails with ErrDuplicateBatch.
	CreateBatch(ctx context.Context, cutoff time.Time) (*domain.CashflowBatch, error)

	// GetBatchByID retrieves a batch.
	GetBatchByID(ctx context.Context, batchID string) (*domain.CashflowBatch, error)

	// ListBatches retrieves recent batches, newest cutoff first.
	ListBatches(ctx context.Context, limit int) ([]domain.CashflowBatch, error)

	// GetInvoicePeriod returns the accounting period [start, end) covered by
	// the invoice for a cutoff. Pure and deterministic.
	GetInvoicePeriod(cutoff time.Time) (time.Time, time.Time)
}

// CashflowSvcFacade combines all cashflow-related service interfaces
type CashflowSvcFacade interface {
	CashflowReaderSvc
	CashflowWriterSvc
	BatchSvc
}
