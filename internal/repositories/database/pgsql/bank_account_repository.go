package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cultpass/finance_ledger_app/internal/apperrors"
	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/cultpass/finance_ledger_app/internal/core/ports/repositories"
	"github.com/cultpass/finance_ledger_app/internal/models"
	"github.com/cultpass/finance_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBankAccountRepository struct {
	BaseRepository
}

// newPgxBankAccountRepository creates a new repository for bank account data.
func newPgxBankAccountRepository(pool *pgxpool.Pool) portsrepo.BankAccountRepositoryFacade {
	return &PgxBankAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxBankAccountRepository implements portsrepo.BankAccountRepositoryFacade
var _ portsrepo.BankAccountRepositoryFacade = (*PgxBankAccountRepository)(nil)

// SaveBankAccount persists a new bank account.
func (r *PgxBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	m := mapping.ToModelBankAccount(account)
	query := `
		INSERT INTO bank_accounts (
			bank_account_id, label, iban, bic, cashflow_frequency, invoice_frequency,
			created_at, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BankAccountID,
		m.Label,
		m.IBAN,
		m.BIC,
		m.CashflowFrequency,
		m.InvoiceFrequency,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: bank account with ID %s already exists", apperrors.ErrDuplicate, m.BankAccountID)
			}
		}
		return apperrors.NewAppError(500, "failed to save bank account "+m.BankAccountID, err)
	}
	return nil
}

// FindBankAccountByID retrieves a bank account by its ID.
func (r *PgxBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `
		SELECT bank_account_id, label, iban, bic, cashflow_frequency, invoice_frequency,
		       created_at, last_updated_at
		FROM bank_accounts
		WHERE bank_account_id = $1;
	`
	var m models.BankAccount
	err := r.Pool.QueryRow(ctx, query, bankAccountID).Scan(
		&m.BankAccountID,
		&m.Label,
		&m.IBAN,
		&m.BIC,
		&m.CashflowFrequency,
		&m.InvoiceFrequency,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find bank account by ID "+bankAccountID, err)
	}

	domainAccount := mapping.ToDomainBankAccount(m)
	return &domainAccount, nil
}
