package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	PricingRepo     PricingRepositoryFacade
	CashflowRepo    CashflowRepositoryFacade
	BatchRepo       BatchRepositoryFacade
	BankAccountRepo BankAccountRepositoryFacade
	BookingRepo     BookingRepositoryFacade
	CustomRuleRepo  CustomRuleRepositoryFacade
}
