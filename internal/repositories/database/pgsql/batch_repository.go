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

type PgxBatchRepository struct {
	BaseRepository
}

// newPgxBatchRepository creates a new repository for cashflow batch data.
func newPgxBatchRepository(pool *pgxpool.Pool) portsrepo.BatchRepositoryFacade {
	return &PgxBatchRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxBatchRepository implements portsrepo.BatchRepositoryFacade
var _ portsrepo.BatchRepositoryFacade = (*PgxBatchRepository)(nil)

// SaveBatch persists a new batch. The unique constraint on cutoff surfaces as
// apperrors.ErrDuplicate.
func (r *PgxBatchRepository) SaveBatch(ctx context.Context, batch domain.CashflowBatch) error {
	m := mapping.ToModelCashflowBatch(batch)
	query := `
		INSERT INTO cashflow_batches (batch_id, creation_date, cutoff)
		VALUES ($1, $2, $3);
	`
	_, err := r.Pool.Exec(ctx, query, m.BatchID, m.CreationDate, m.Cutoff)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: batch with cutoff %s already exists", apperrors.ErrDuplicate, m.Cutoff.Format(time.RFC3339))
			}
		}
		return apperrors.NewAppError(500, "failed to save batch "+m.BatchID, err)
	}
	return nil
}

// FindBatchByID retrieves a batch by its ID.
func (r *PgxBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.CashflowBatch, error) {
	query := `
		SELECT batch_id, creation_date, cutoff
		FROM cashflow_batches
		WHERE batch_id = $1;
	`
	var m models.CashflowBatch
	err := r.Pool.QueryRow(ctx, query, batchID).Scan(&m.BatchID, &m.CreationDate, &m.Cutoff)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find batch by ID "+batchID, err)
	}

	domainBatch := mapping.ToDomainCashflowBatch(m)
	return &domainBatch, nil
}

// FindBatchByCutoff retrieves the batch with the given cutoff, if any.
func (r *PgxBatchRepository) FindBatchByCutoff(ctx context.Context, cutoff time.Time) (*domain.CashflowBatch, error) {
	query := `
		SELECT batch_id, creation_date, cutoff
		FROM cashflow_batches
		WHERE cutoff = $1;
	`
	var m models.CashflowBatch
	err := r.Pool.QueryRow(ctx, query, cutoff).Scan(&m.BatchID, &m.CreationDate, &m.Cutoff)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find batch by cutoff "+cutoff.Format(time.RFC3339), err)
	}

	domainBatch := mapping.ToDomainCashflowBatch(m)
	return &domainBatch, nil
}

// ListBatches retrieves batches ordered by cutoff descending.
func (r *PgxBatchRepository) ListBatches(ctx context.Context, limit int) ([]domain.CashflowBatch, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT batch_id, creation_date, cutoff
		FROM cashflow_batches
		ORDER BY cutoff DESC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query batches", err)
	}
	defer rows.Close()

	batches := []domain.CashflowBatch{}
	for rows.Next() {
		var m models.CashflowBatch
		if err := rows.Scan(&m.BatchID, &m.CreationDate, &m.Cutoff); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan batch row", err)
		}
		batches = append(batches, mapping.ToDomainCashflowBatch(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating batch rows", err)
	}

	return batches, nil
}
