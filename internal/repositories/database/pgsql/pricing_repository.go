package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/cultpass/finance_ledger_app/internal/apperrors"
	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/cultpass/finance_ledger_app/internal/core/ports/repositories"
	"github.com/cultpass/finance_ledger_app/internal/models"
	"github.com/cultpass/finance_ledger_app/internal/utils/finance"
	"github.com/cultpass/finance_ledger_app/internal/utils/mapping"
	"github.com/cultpass/finance_ledger_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPricingRepository struct {
	BaseRepository
}

// newPgxPricingRepository creates a new repository for pricing data.
func newPgxPricingRepository(pool *pgxpool.Pool) portsrepo.PricingRepositoryWithTx {
	return &PgxPricingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPricingRepository implements portsrepo.PricingRepositoryWithTx
var _ portsrepo.PricingRepositoryWithTx = (*PgxPricingRepository)(nil)

// SavePricing saves a pricing and its lines within a DB transaction. The
// pricing's revenue is computed here, under a lock on the bank account row, as
// the account's previous cumulative revenue plus the booking's gross value.
func (r *PgxPricingRepository) SavePricing(ctx context.Context, pricing domain.Pricing, lines []domain.PricingLine, grossCents int64) (*domain.Pricing, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	// 1. Lock the bank account row so concurrent pricings of the same account
	// serialize their revenue reads.
	var lockedID string
	err = tx.QueryRow(ctx, `SELECT bank_account_id FROM bank_accounts WHERE bank_account_id = $1 FOR UPDATE;`, pricing.BankAccountID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: bank account %s", apperrors.ErrNotFound, pricing.BankAccountID)
		}
		return nil, apperrors.NewAppError(500, "failed to lock bank account "+pricing.BankAccountID, err)
	}

	// 2. Compute the revenue snapshot: the account's highest cumulative
	// revenue so far, plus this booking's gross value.
	var previousRevenue int64
	revenueQuery := `
		SELECT COALESCE(MAX(revenue), 0)
		FROM pricings
		WHERE bank_account_id = $1 AND status != 'CANCELLED';
	`
	if err := tx.QueryRow(ctx, revenueQuery, pricing.BankAccountID).Scan(&previousRevenue); err != nil {
		return nil, apperrors.NewAppError(500, "failed to compute revenue for bank account "+pricing.BankAccountID, err)
	}
	pricing.Revenue = finance.NextRevenue(previousRevenue, grossCents)

	// 3. Insert the pricing. The partial unique index on booking_id (where
	// status is not CANCELLED) rejects a second live pricing of the booking.
	modelPricing := mapping.ToModelPricing(pricing)
	pricingQuery := `
		INSERT INTO pricings (
			pricing_id, status, booking_id, bank_account_id, creation_date,
			value_date, amount, standard_rule, custom_rule_id, revenue
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, pricingQuery,
		modelPricing.PricingID,
		modelPricing.Status,
		modelPricing.BookingID,
		modelPricing.BankAccountID,
		modelPricing.CreationDate,
		modelPricing.ValueDate,
		modelPricing.Amount,
		modelPricing.StandardRule,
		modelPricing.CustomRuleID,
		modelPricing.Revenue,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return nil, fmt.Errorf("%w: booking %s already has a live pricing", apperrors.ErrDuplicate, modelPricing.BookingID)
			}
		}
		return nil, apperrors.NewAppError(500, "failed to insert pricing "+modelPricing.PricingID, err)
	}

	// 4. Insert the lines as a batch.
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO pricing_lines (line_id, pricing_id, amount, category)
		VALUES ($1, $2, $3, $4);
	`
	for _, line := range lines {
		modelLine := mapping.ToModelPricingLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.PricingID,
			modelLine.Amount,
			modelLine.Category,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to execute line batch for pricing "+modelPricing.PricingID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return &pricing, nil
}

// UpdatePricingStatus updates a pricing's status and appends the matching log
// row in a single transaction.
func (r *PgxPricingRepository) UpdatePricingStatus(ctx context.Context, pricingID string, status domain.PricingStatus, log domain.PricingLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Compare-and-set on the status the caller validated against, so a
	// concurrent transition cannot overwrite a state it never read.
	cmdTag, err := tx.Exec(ctx,
		`UPDATE pricings SET status = $2 WHERE pricing_id = $1 AND status = $3;`,
		pricingID, status, log.StatusBefore,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of pricing "+pricingID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var current string
		err := tx.QueryRow(ctx, `SELECT status FROM pricings WHERE pricing_id = $1;`, pricingID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: pricing %s", apperrors.ErrNotFound, pricingID)
		}
		if err != nil {
			return apperrors.NewAppError(500, "failed to read status of pricing "+pricingID, err)
		}
		return fmt.Errorf("%w: pricing %s is %s, expected %s", apperrors.ErrConflict, pricingID, current, log.StatusBefore)
	}

	modelLog := mapping.ToModelPricingLog(log)
	logQuery := `
		INSERT INTO pricing_logs (log_id, pricing_id, timestamp, status_before, status_after, reason)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, logQuery,
		modelLog.LogID,
		modelLog.PricingID,
		modelLog.Timestamp,
		modelLog.StatusBefore,
		modelLog.StatusAfter,
		modelLog.Reason,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert log for pricing "+pricingID, err)
	}

	return r.Commit(ctx, tx)
}

// DeletePricing hard-deletes a pricing with its lines and logs.
func (r *PgxPricingRepository) DeletePricing(ctx context.Context, pricingID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM pricing_lines WHERE pricing_id = $1;`, pricingID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines of pricing "+pricingID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM pricing_logs WHERE pricing_id = $1;`, pricingID); err != nil {
		return apperrors.NewAppError(500, "failed to delete logs of pricing "+pricingID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM pricings WHERE pricing_id = $1;`, pricingID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23503" { // Foreign key violation: cashflow_pricings still references it
				return fmt.Errorf("%w: pricing %s is linked to a cashflow", apperrors.ErrConflict, pricingID)
			}
		}
		return apperrors.NewAppError(500, "failed to delete pricing "+pricingID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: pricing %s", apperrors.ErrNotFound, pricingID)
	}

	return r.Commit(ctx, tx)
}

// FindPricingByID retrieves a pricing by its ID.
func (r *PgxPricingRepository) FindPricingByID(ctx context.Context, pricingID string) (*domain.Pricing, error) {
	query := `
		SELECT pricing_id, status, booking_id, bank_account_id, creation_date,
		       value_date, amount, standard_rule, custom_rule_id, revenue
		FROM pricings
		WHERE pricing_id = $1;
	`
	var m models.Pricing
	err := r.Pool.QueryRow(ctx, query, pricingID).Scan(
		&m.PricingID,
		&m.Status,
		&m.BookingID,
		&m.BankAccountID,
		&m.CreationDate,
		&m.ValueDate,
		&m.Amount,
		&m.StandardRule,
		&m.CustomRuleID,
		&m.Revenue,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find pricing by ID "+pricingID, err)
	}

	domainPricing := mapping.ToDomainPricing(m)
	return &domainPricing, nil
}

// FindPricingLines retrieves all lines of a pricing, ordered by line ID.
func (r *PgxPricingRepository) FindPricingLines(ctx context.Context, pricingID string) ([]domain.PricingLine, error) {
	query := `
		SELECT line_id, pricing_id, amount, category
		FROM pricing_lines
		WHERE pricing_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, pricingID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for pricing "+pricingID, err)
	}
	defer rows.Close()

	lines := []models.PricingLine{}
	for rows.Next() {
		var l models.PricingLine
		if err := rows.Scan(&l.LineID, &l.PricingID, &l.Amount, &l.Category); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for pricing "+pricingID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for pricing "+pricingID, err)
	}

	return mapping.ToDomainPricingLineSlice(lines), nil
}

// FindPricingLogs retrieves the status-transition logs of a pricing, oldest first.
func (r *PgxPricingRepository) FindPricingLogs(ctx context.Context, pricingID string) ([]domain.PricingLog, error) {
	query := `
		SELECT log_id, pricing_id, timestamp, status_before, status_after, reason
		FROM pricing_logs
		WHERE pricing_id = $1
		ORDER BY timestamp;
	`
	rows, err := r.Pool.Query(ctx, query, pricingID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query logs for pricing "+pricingID, err)
	}
	defer rows.Close()

	logs := []models.PricingLog{}
	for rows.Next() {
		var l models.PricingLog
		if err := rows.Scan(&l.LogID, &l.PricingID, &l.Timestamp, &l.StatusBefore, &l.StatusAfter, &l.Reason); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan log row for pricing "+pricingID, err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating log rows for pricing "+pricingID, err)
	}

	return mapping.ToDomainPricingLogSlice(logs), nil
}

// ListPricingsByBankAccount retrieves a paginated list of pricings for a bank account using token-based pagination.
// It returns the pricings, a token for the next page, and an error.
func (r *PgxPricingRepository) ListPricingsByBankAccount(ctx context.Context, bankAccountID string, limit int, nextToken *string) ([]domain.Pricing, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT pricing_id, status, booking_id, bank_account_id, creation_date,
		       value_date, amount, standard_rule, custom_rule_id, revenue
		FROM pricings
		WHERE bank_account_id = $1
	`
	// Ordering must be stable: value_date DESC with creation_date as tie-breaker.
	orderByClause := `ORDER BY value_date DESC, creation_date DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{bankAccountID}

	if nextToken != nil && *nextToken != "" {
		lastValueDate, lastCreationDate, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (value_date, creation_date) < ($2, $3)`
		args = append(args, lastValueDate, lastCreationDate)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query pricings for bank account "+bankAccountID, err)
	}
	defer rows.Close()

	modelPricings := make([]models.Pricing, 0, fetchLimit)
	for rows.Next() {
		var m models.Pricing
		scanErr := rows.Scan(
			&m.PricingID,
			&m.Status,
			&m.BookingID,
			&m.BankAccountID,
			&m.CreationDate,
			&m.ValueDate,
			&m.Amount,
			&m.StandardRule,
			&m.CustomRuleID,
			&m.Revenue,
		)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan pricing row for bank account "+bankAccountID, scanErr)
		}
		modelPricings = append(modelPricings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating pricing rows for bank account "+bankAccountID, err)
	}

	var nextTokenVal *string
	results := modelPricings
	if len(modelPricings) > limit {
		// The token points to the last item included in this response page.
		lastPricing := modelPricings[limit-1]
		newToken := pagination.EncodeToken(lastPricing.ValueDate, lastPricing.CreationDate)
		nextTokenVal = &newToken
		results = modelPricings[:limit]
	}

	domainPricings := make([]domain.Pricing, len(results))
	for i, m := range results {
		domainPricings[i] = mapping.ToDomainPricing(m)
	}

	return domainPricings, nextTokenVal, nil
}
