package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cultpass/finance_ledger_app/internal/apperrors"
	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/cultpass/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cultpass/finance_ledger_app/internal/core/ports/services"
	"github.com/cultpass/finance_ledger_app/internal/middleware"
)

var (
	ErrDuplicateBatch = errors.New("a cashflow batch already exists for this cutoff")
	ErrBatchNotFound  = errors.New("no cashflow batch exists for this cutoff")
	ErrInvalidCutoff  = errors.New("cutoff must be a definite timestamp")
)

// cashflowService implements the cashflow aggregator, the cashflow status
// machine and the batch scheduler.
type cashflowService struct {
	cashflowRepo    portsrepo.CashflowRepositoryFacade
	batchRepo       portsrepo.BatchRepositoryFacade
	bankAccountRepo portsrepo.BankAccountRepositoryFacade
	periodLength    time.Duration
}

// NewCashflowService creates a new CashflowService. periodDays is the length
// of the accounting period a cutoff closes (bi-weekly calendar: 14).
func NewCashflowService(cashflowRepo portsrepo.CashflowRepositoryFacade, batchRepo portsrepo.BatchRepositoryFacade, bankAccountRepo portsrepo.BankAccountRepositoryFacade, periodDays int) portssvc.CashflowSvcFacade {
	if periodDays <= 0 {
		periodDays = 14
	}
	return &cashflowService{
		cashflowRepo:    cashflowRepo,
		batchRepo:       batchRepo,
		bankAccountRepo: bankAccountRepo,
		periodLength:    time.Duration(periodDays) * 24 * time.Hour,
	}
}

// Ensure cashflowService implements the portssvc.CashflowSvcFacade interface
var _ portssvc.CashflowSvcFacade = (*cashflowService)(nil)

// GenerateCashflows aggregates the bank account's eligible pricings for the
// cutoff into one PENDING cashflow under the cutoff's batch.
// Implements portssvc.CashflowSvcFacade
func (s *cashflowService) GenerateCashflows(ctx context.Context, bankAccountID string, cutoff time.Time) (*domain.Cashflow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.bankAccountRepo.FindBankAccountByID(ctx, bankAccountID); err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}

	batch, err := s.batchRepo.FindBatchByCutoff(ctx, cutoff)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, cutoff.Format(time.RFC3339))
		}
		return nil, fmt.Errorf("failed to find batch for cutoff %s: %w", cutoff.Format(time.RFC3339), err)
	}

	cashflow := domain.Cashflow{
		CashflowID:    uuid.NewString(),
		CreationDate:  time.Now().UTC(),
		Status:        domain.CashflowPending,
		BankAccountID: bankAccountID,
		BatchID:       batch.BatchID,
		// TransactionID goes into the wire transfer file sent to the bank.
		TransactionID: uuid.NewString(),
	}

	// The repository selects, sums and links in one transaction; the unique
	// (cashflow_id, pricing_id) pair is the backstop against a concurrent
	// aggregation run picking the same pricings.
	created, err := s.cashflowRepo.GenerateCashflow(ctx, cashflow, cutoff)
	if err != nil {
		logger.Error("Failed to generate cashflow", slog.String("bank_account_id", bankAccountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate cashflow for bank account %s: %w", bankAccountID, err)
	}
	if created == nil {
		// Zero net total: a cashflow cannot be zero, so none is created and
		// the pricings stay eligible for a later cutoff.
		logger.Info("No cashflow generated, eligible pricings sum to zero",
			slog.String("bank_account_id", bankAccountID),
			slog.Time("cutoff", cutoff),
		)
		return nil, nil
	}

	logger.Info("Cashflow generated",
		slog.String("cashflow_id", created.CashflowID),
		slog.String("bank_account_id", bankAccountID),
		slog.String("batch_id", batch.BatchID),
		slog.Int64("amount", created.Amount),
		slog.Int("pricings", len(created.PricingIDs)),
	)
	return created, nil
}

// RegenerateCashflow replaces a cashflow the bank rejected. The old cashflow
// keeps its history; the replacement links to the same pricings with a fresh
// transaction id, which is why pricings and cashflows are many-to-many.
// Implements portssvc.CashflowSvcFacade
func (s *cashflowService) RegenerateCashflow(ctx context.Context, cashflowID string) (*domain.Cashflow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	superseded, err := s.cashflowRepo.FindCashflowByID(ctx, cashflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cashflow %s: %w", cashflowID, err)
	}

	replacement := domain.Cashflow{
		CashflowID:    uuid.NewString(),
		CreationDate:  time.Now().UTC(),
		Status:        domain.CashflowPending,
		BankAccountID: superseded.BankAccountID,
		BatchID:       superseded.BatchID,
		TransactionID: uuid.NewString(),
	}

	created, err := s.cashflowRepo.RegenerateCashflow(ctx, cashflowID, replacement)
	if err != nil {
		logger.Error("Failed to regenerate cashflow", slog.String("cashflow_id", cashflowID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to regenerate cashflow %s: %w", cashflowID, err)
	}

	logger.Info("Cashflow regenerated",
		slog.String("superseded_cashflow_id", cashflowID),
		slog.String("cashflow_id", created.CashflowID),
		slog.String("transaction_id", created.TransactionID),
	)
	return created, nil
}

// transition moves a cashflow to target and appends the paired log row, both
// in one repository transaction.
func (s *cashflowService) transition(ctx context.Context, cashflowID string, target domain.CashflowStatus, details map[string]string) (*domain.Cashflow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cashflow, err := s.cashflowRepo.FindCashflowByID(ctx, cashflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cashflow %s: %w", cashflowID, err)
	}

	if !cashflow.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s for cashflow %s", ErrInvalidTransition, cashflow.Status, target, cashflowID)
	}

	if details == nil {
		details = map[string]string{}
	}
	log := domain.CashflowLog{
		LogID:        uuid.NewString(),
		CashflowID:   cashflowID,
		Timestamp:    time.Now().UTC(),
		StatusBefore: cashflow.Status,
		StatusAfter:  target,
		Details:      details,
	}
	if err := s.cashflowRepo.UpdateCashflowStatus(ctx, cashflowID, target, log); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// A concurrent transition moved the cashflow since we read it.
			return nil, fmt.Errorf("%w: cashflow %s changed concurrently", ErrInvalidTransition, cashflowID)
		}
		logger.Error("Failed to update cashflow status", slog.String("cashflow_id", cashflowID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update cashflow %s status: %w", cashflowID, err)
	}

	logger.Info("Cashflow status changed",
		slog.String("cashflow_id", cashflowID),
		slog.String("status_before", string(log.StatusBefore)),
		slog.String("status_after", string(log.StatusAfter)),
	)
	cashflow.Status = target
	return cashflow, nil
}

// MarkCashflowUnderReview transitions a PENDING cashflow to UNDER_REVIEW.
// Implements portssvc.CashflowSvcFacade
func (s *cashflowService) MarkCashflowUnderReview(ctx context.Context, cashflowID string, details map[string]string) (*domain.Cashflow, error) {
	return s.transition(ctx, cashflowID, domain.CashflowUnderReview, details)
}

// MarkCashflowAccepted transitions an UNDER_REVIEW cashflow to ACCEPTED.
// Implements portssvc.CashflowSvcFacade
func (s *cashflowService) MarkCashflowAccepted(ctx context.Context, cashflowID string, details map[string]string) (*domain.Cashflow, error) {
	return s.transition(ctx, cashflowID, domain.CashflowAccepted, details)
}

// GetCashflowByID retrieves a cashflow with its logs and pricing ids.
// Implements portssvc.CashflowSvcFacade
func (s *cashflowService) GetCashflowByID(ctx context.Context, cashflowID string) (*domain.Cashflow, error) {
	cashflow, err := s.cashflowRepo.FindCashflowByID(ctx, cashflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cashflow %s: %w", cashflowID, err)
	}

	logs, err := s.cashflowRepo.FindCashflowLogs(ctx, cashflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logs for cashflow %s: %w", cashflowID, err)
	}
	pricingIDs, err := s.cashflowRepo.FindPricingIDsByCashflowID(ctx, cashflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pricings for cashflow %s: %w", cashflowID, err)
	}

	cashflow.Logs = logs
	cashflow.PricingIDs = pricingIDs
	return cashflow, nil
}

// CreateBatch opens the batch for a cutoff. The unique constraint on cutoff
// makes a second attempt fail rather than silently reuse the first batch:
// a silent no-op would mask scheduling bugs.
// Implements portssvc.CashflowSvcFacade
func (s *cashflowService) CreateBatch(ctx context.Context, cutoff time.Time) (*domain.CashflowBatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if cutoff.IsZero() {
		return nil, ErrInvalidCutoff
	}

	batch := domain.CashflowBatch{
		BatchID:      uuid.NewString(),
		CreationDate: time.Now().UTC(),
		Cutoff:       cutoff.UTC(),
	}
	if err := s.batchRepo.SaveBatch(ctx, batch); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBatch, cutoff.Format(time.RFC3339))
		}
		logger.Error("Failed to save batch", slog.Time("cutoff", cutoff), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save batch for cutoff %s: %w", cutoff.Format(time.RFC3339), err)
	}

	logger.Info("Cashflow batch created", slog.String("batch_id", batch.BatchID), slog.Time("cutoff", batch.Cutoff))
	return &batch, nil
}

// GetBatchByID retrieves a batch.
// Implements portssvc.CashflowSvcFacade
func (s *cashflowService) GetBatchByID(ctx context.Context, batchID string) (*domain.CashflowBatch, error) {
	batch, err := s.batchRepo.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to find batch %s: %w", batchID, err)
	}
	return batch, nil
}

// ListBatches retrieves recent batches, newest cutoff first.
// Implements portssvc.CashflowSvcFacade
func (s *cashflowService) ListBatches(ctx context.Context, limit int) ([]domain.CashflowBatch, error) {
	batches, err := s.batchRepo.ListBatches(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return batches, nil
}

// GetInvoicePeriod returns the accounting period [start, end) the invoice for
// a cutoff covers. Deterministic given the cutoff and the period length.
// Implements portssvc.CashflowSvcFacade
func (s *cashflowService) GetInvoicePeriod(cutoff time.Time) (time.Time, time.Time) {
	end := cutoff.UTC()
	return end.Add(-s.periodLength), end
}
