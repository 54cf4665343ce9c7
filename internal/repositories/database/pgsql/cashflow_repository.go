package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cultpass/finance_ledger_app/internal/apperrors"
	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/cultpass/finance_ledger_app/internal/core/ports/repositories"
	"github.com/cultpass/finance_ledger_app/internal/models"
	"github.com/cultpass/finance_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCashflowRepository struct {
	BaseRepository
}

// newPgxCashflowRepository creates a new repository for cashflow data.
func newPgxCashflowRepository(pool *pgxpool.Pool) portsrepo.CashflowRepositoryFacade {
	return &PgxCashflowRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCashflowRepository implements portsrepo.CashflowRepositoryFacade
var _ portsrepo.CashflowRepositoryFacade = (*PgxCashflowRepository)(nil)

// GenerateCashflow selects the bank account's eligible pricings, sums them
// and, when the sum is non-zero, inserts the cashflow and its pricing links,
// all within a DB transaction. The eligible rows are locked so a concurrent
// aggregation run cannot pick the same pricings; the unique constraint on the
// (cashflow_id, pricing_id) pair is the backstop.
func (r *PgxCashflowRepository) GenerateCashflow(ctx context.Context, cashflow domain.Cashflow, cutoff time.Time) (*domain.Cashflow, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	// 1. Lock and collect the eligible pricings: VALIDATED, value date before
	// the cutoff, not yet linked to any cashflow.
	eligibleQuery := `
		SELECT p.pricing_id, p.amount
		FROM pricings p
		WHERE p.bank_account_id = $1
		  AND p.status = 'VALIDATED'
		  AND p.value_date < $2
		  AND NOT EXISTS (
			SELECT 1 FROM cashflow_pricings cp WHERE cp.pricing_id = p.pricing_id
		  )
		ORDER BY p.pricing_id
		FOR UPDATE OF p;
	`
	rows, err := tx.Query(ctx, eligibleQuery, cashflow.BankAccountID, cutoff)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query eligible pricings for bank account "+cashflow.BankAccountID, err)
	}

	var pricingIDs []string
	var total int64
	for rows.Next() {
		var pricingID string
		var amount int64
		if err := rows.Scan(&pricingID, &amount); err != nil {
			rows.Close()
			return nil, apperrors.NewAppError(500, "failed to scan eligible pricing row", err)
		}
		pricingIDs = append(pricingIDs, pricingID)
		total += amount
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating eligible pricing rows", err)
	}

	// 2. A cashflow amount can never be zero. Nothing eligible, or a sum that
	// nets out to zero, produces no cashflow and leaves the pricings eligible.
	if total == 0 {
		return nil, nil
	}
	cashflow.Amount = total
	cashflow.PricingIDs = pricingIDs

	// 3. Insert the cashflow.
	if err := insertCashflowInTx(ctx, tx, cashflow); err != nil {
		return nil, err
	}

	// 4. Link the pricings.
	if err := linkPricingsInTx(ctx, tx, cashflow.CashflowID, pricingIDs); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return &cashflow, nil
}

// RegenerateCashflow inserts replacement as a new cashflow linked to the same
// pricings as the superseded cashflow, within a DB transaction. The amount is
// re-summed from the linked pricings.
func (r *PgxCashflowRepository) RegenerateCashflow(ctx context.Context, supersededCashflowID string, replacement domain.Cashflow) (*domain.Cashflow, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Lock the superseded cashflow so two regenerations cannot race.
	var lockedID string
	err = tx.QueryRow(ctx, `SELECT cashflow_id FROM cashflows WHERE cashflow_id = $1 FOR UPDATE;`, supersededCashflowID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: cashflow %s", apperrors.ErrNotFound, supersededCashflowID)
		}
		return nil, apperrors.NewAppError(500, "failed to lock cashflow "+supersededCashflowID, err)
	}

	linkedQuery := `
		SELECT cp.pricing_id, p.amount
		FROM cashflow_pricings cp
		JOIN pricings p ON p.pricing_id = cp.pricing_id
		WHERE cp.cashflow_id = $1
		ORDER BY cp.pricing_id;
	`
	rows, err := tx.Query(ctx, linkedQuery, supersededCashflowID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query pricings of cashflow "+supersededCashflowID, err)
	}

	var pricingIDs []string
	var total int64
	for rows.Next() {
		var pricingID string
		var amount int64
		if err := rows.Scan(&pricingID, &amount); err != nil {
			rows.Close()
			return nil, apperrors.NewAppError(500, "failed to scan linked pricing row", err)
		}
		pricingIDs = append(pricingIDs, pricingID)
		total += amount
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating linked pricing rows", err)
	}

	if total == 0 {
		return nil, fmt.Errorf("%w: cashflow %s has no linked pricings to carry over", apperrors.ErrConflict, supersededCashflowID)
	}
	replacement.Amount = total
	replacement.PricingIDs = pricingIDs

	if err := insertCashflowInTx(ctx, tx, replacement); err != nil {
		return nil, err
	}
	if err := linkPricingsInTx(ctx, tx, replacement.CashflowID, pricingIDs); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return &replacement, nil
}

func insertCashflowInTx(ctx context.Context, tx pgx.Tx, cashflow domain.Cashflow) error {
	m := mapping.ToModelCashflow(cashflow)
	query := `
		INSERT INTO cashflows (
			cashflow_id, creation_date, status, bank_account_id, batch_id, amount, transaction_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := tx.Exec(ctx, query,
		m.CashflowID,
		m.CreationDate,
		m.Status,
		m.BankAccountID,
		m.BatchID,
		m.Amount,
		m.TransactionID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: cashflow %s", apperrors.ErrDuplicate, m.CashflowID)
			}
		}
		return apperrors.NewAppError(500, "failed to insert cashflow "+m.CashflowID, err)
	}
	return nil
}

func linkPricingsInTx(ctx context.Context, tx pgx.Tx, cashflowID string, pricingIDs []string) error {
	batch := &pgx.Batch{}
	linkQuery := `
		INSERT INTO cashflow_pricings (cashflow_id, pricing_id)
		VALUES ($1, $2);
	`
	for _, pricingID := range pricingIDs {
		batch.Queue(linkQuery, cashflowID, pricingID)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: a pricing of cashflow %s is already linked", apperrors.ErrDuplicate, cashflowID)
			}
		}
		return apperrors.NewAppError(500, "failed to execute pricing link batch for cashflow "+cashflowID, err)
	}
	return nil
}

// UpdateCashflowStatus updates a cashflow's status and appends the matching
// log row in a single transaction.
func (r *PgxCashflowRepository) UpdateCashflowStatus(ctx context.Context, cashflowID string, status domain.CashflowStatus, log domain.CashflowLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Compare-and-set on the status the caller validated against, so a
	// concurrent transition cannot overwrite a state it never read.
	cmdTag, err := tx.Exec(ctx,
		`UPDATE cashflows SET status = $2 WHERE cashflow_id = $1 AND status = $3;`,
		cashflowID, status, log.StatusBefore,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of cashflow "+cashflowID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var current string
		err := tx.QueryRow(ctx, `SELECT status FROM cashflows WHERE cashflow_id = $1;`, cashflowID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: cashflow %s", apperrors.ErrNotFound, cashflowID)
		}
		if err != nil {
			return apperrors.NewAppError(500, "failed to read status of cashflow "+cashflowID, err)
		}
		return fmt.Errorf("%w: cashflow %s is %s, expected %s", apperrors.ErrConflict, cashflowID, current, log.StatusBefore)
	}

	modelLog := mapping.ToModelCashflowLog(log)
	logQuery := `
		INSERT INTO cashflow_logs (log_id, cashflow_id, timestamp, status_before, status_after, details)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, logQuery,
		modelLog.LogID,
		modelLog.CashflowID,
		modelLog.Timestamp,
		modelLog.StatusBefore,
		modelLog.StatusAfter,
		modelLog.Details, // JSONB
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert log for cashflow "+cashflowID, err)
	}

	return r.Commit(ctx, tx)
}

// FindCashflowByID retrieves a cashflow by its ID.
func (r *PgxCashflowRepository) FindCashflowByID(ctx context.Context, cashflowID string) (*domain.Cashflow, error) {
	query := `
		SELECT cashflow_id, creation_date, status, bank_account_id, batch_id, amount, transaction_id
		FROM cashflows
		WHERE cashflow_id = $1;
	`
	var m models.Cashflow
	err := r.Pool.QueryRow(ctx, query, cashflowID).Scan(
		&m.CashflowID,
		&m.CreationDate,
		&m.Status,
		&m.BankAccountID,
		&m.BatchID,
		&m.Amount,
		&m.TransactionID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find cashflow by ID "+cashflowID, err)
	}

	domainCashflow := mapping.ToDomainCashflow(m)
	return &domainCashflow, nil
}

// FindCashflowLogs retrieves the status-transition logs of a cashflow, oldest first.
func (r *PgxCashflowRepository) FindCashflowLogs(ctx context.Context, cashflowID string) ([]domain.CashflowLog, error) {
	query := `
		SELECT log_id, cashflow_id, timestamp, status_before, status_after, details
		FROM cashflow_logs
		WHERE cashflow_id = $1
		ORDER BY timestamp;
	`
	rows, err := r.Pool.Query(ctx, query, cashflowID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query logs for cashflow "+cashflowID, err)
	}
	defer rows.Close()

	logs := []models.CashflowLog{}
	for rows.Next() {
		var l models.CashflowLog
		if err := rows.Scan(&l.LogID, &l.CashflowID, &l.Timestamp, &l.StatusBefore, &l.StatusAfter, &l.Details); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan log row for cashflow "+cashflowID, err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating log rows for cashflow "+cashflowID, err)
	}

	return mapping.ToDomainCashflowLogSlice(logs), nil
}

// FindPricingIDsByCashflowID retrieves the ids of the pricings a cashflow aggregates.
func (r *PgxCashflowRepository) FindPricingIDsByCashflowID(ctx context.Context, cashflowID string) ([]string, error) {
	query := `
		SELECT pricing_id
		FROM cashflow_pricings
		WHERE cashflow_id = $1
		ORDER BY pricing_id;
	`
	rows, err := r.Pool.Query(ctx, query, cashflowID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query pricings of cashflow "+cashflowID, err)
	}
	defer rows.Close()

	pricingIDs := []string{}
	for rows.Next() {
		var pricingID string
		if err := rows.Scan(&pricingID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan pricing link row for cashflow "+cashflowID, err)
		}
		pricingIDs = append(pricingIDs, pricingID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating pricing link rows for cashflow "+cashflowID, err)
	}

	return pricingIDs, nil
}
