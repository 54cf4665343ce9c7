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

type PgxCustomRuleRepository struct {
	BaseRepository
}

// newPgxCustomRuleRepository creates a new repository for custom reimbursement rules.
func newPgxCustomRuleRepository(pool *pgxpool.Pool) portsrepo.CustomRuleRepositoryFacade {
	return &PgxCustomRuleRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCustomRuleRepository implements portsrepo.CustomRuleRepositoryFacade
var _ portsrepo.CustomRuleRepositoryFacade = (*PgxCustomRuleRepository)(nil)

// SaveCustomRule persists a new custom rule.
func (r *PgxCustomRuleRepository) SaveCustomRule(ctx context.Context, rule domain.CustomRule) error {
	m := mapping.ToModelCustomRule(rule)
	query := `
		INSERT INTO custom_rules (
			custom_rule_id, bank_account_id, rate, valid_from, valid_until,
			created_at, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CustomRuleID,
		m.BankAccountID,
		m.Rate,
		m.ValidFrom,
		m.ValidUntil,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: custom rule with ID %s already exists", apperrors.ErrDuplicate, m.CustomRuleID)
			}
		}
		return apperrors.NewAppError(500, "failed to save custom rule "+m.CustomRuleID, err)
	}
	return nil
}

// FindCustomRuleForBankAccount retrieves the custom rule in force for the bank
// account at the given date. The upper validity bound is exclusive. Returns
// apperrors.ErrNotFound when no rule covers the date.
func (r *PgxCustomRuleRepository) FindCustomRuleForBankAccount(ctx context.Context, bankAccountID string, at time.Time) (*domain.CustomRule, error) {
	query := `
		SELECT custom_rule_id, bank_account_id, rate, valid_from, valid_until,
		       created_at, last_updated_at
		FROM custom_rules
		WHERE bank_account_id = $1
		  AND valid_from <= $2
		  AND (valid_until IS NULL OR valid_until > $2)
		ORDER BY valid_from DESC
		LIMIT 1;
	`
	var m models.CustomRule
	err := r.Pool.QueryRow(ctx, query, bankAccountID, at).Scan(
		&m.CustomRuleID,
		&m.BankAccountID,
		&m.Rate,
		&m.ValidFrom,
		&m.ValidUntil,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find custom rule for bank account "+bankAccountID, err)
	}

	domainRule := mapping.ToDomainCustomRule(m)
	return &domainRule, nil
}
