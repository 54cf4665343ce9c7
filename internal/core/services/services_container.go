package services

import (
	portsrepo "github.com/cultpass/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cultpass/finance_ledger_app/internal/core/ports/services"
	"github.com/cultpass/finance_ledger_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.BankAccount = NewBankAccountService(repos.BankAccountRepo, repos.CustomRuleRepo)
	container.Booking = NewBookingService(repos.BookingRepo, repos.BankAccountRepo)
	container.Pricing = NewPricingService(repos.PricingRepo, repos.BookingRepo, repos.CustomRuleRepo)
	container.Cashflow = NewCashflowService(repos.CashflowRepo, repos.BatchRepo, repos.BankAccountRepo, cfg.CashflowPeriodDays)

	return container
}
