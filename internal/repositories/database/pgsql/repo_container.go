package pgsql

import (
	portsrepo "github.com/cultpass/finance_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	pricingRepo := newPgxPricingRepository(dbPool)
	cashflowRepo := newPgxCashflowRepository(dbPool)
	batchRepo := newPgxBatchRepository(dbPool)
	bankAccountRepo := newPgxBankAccountRepository(dbPool)
	bookingRepo := newPgxBookingRepository(dbPool)
	customRuleRepo := newPgxCustomRuleRepository(dbPool)

	return portsrepo.RepositoryProvider{
		PricingRepo:     pricingRepo,
		CashflowRepo:    cashflowRepo,
		BatchRepo:       batchRepo,
		BankAccountRepo: bankAccountRepo,
		BookingRepo:     bookingRepo,
		CustomRuleRepo:  customRuleRepo,
	}
}
