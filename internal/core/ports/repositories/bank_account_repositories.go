package repositories

import (
	"context"
	"time"

	"github.com/cultpass/finance_ledger_app/internal/core/domain"
)

// BankAccountReader defines read operations for bank account data
type BankAccountReader interface {
	// FindBankAccountByID retrieves a specific bank account by its unique identifier.
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
}

// BankAccountWriter defines write operations for bank account data
type BankAccountWriter interface {
	// SaveBankAccount persists a new bank account.
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error
}

// BankAccountRepositoryFacade combines all bank-account-related repository interfaces
type BankAccountRepositoryFacade interface {
	BankAccountReader
	BankAccountWriter
}

// BookingReader defines read operations for booking data
type BookingReader interface {
	// FindBookingByID retrieves a specific booking by its unique identifier.
	FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error)
}

// BookingWriter defines write operations for booking data
type BookingWriter interface {
	// SaveBooking persists a new booking.
	SaveBooking(ctx context.Context, booking domain.Booking) error
}

// BookingRepositoryFacade combines all booking-related repository interfaces
type BookingRepositoryFacade interface {
	BookingReader
	BookingWriter
}

// CustomRuleReader defines read operations for custom reimbursement rules
type CustomRuleReader interface {
	// FindCustomRuleForBankAccount retrieves the custom rule in force for the
	// bank account at the given date. Returns apperrors.ErrNotFound when no
	// custom rule covers the date.
	FindCustomRuleForBankAccount(ctx context.Context, bankAccountID string, at time.Time) (*domain.CustomRule, error)
}

// CustomRuleWriter defines write operations for custom reimbursement rules
type CustomRuleWriter interface {
	// SaveCustomRule persists a new custom rule.
	SaveCustomRule(ctx context.Context, rule domain.CustomRule) error
}

// CustomRuleRepositoryFacade combines all custom-rule-related repository interfaces
type CustomRuleRepositoryFacade interface {
	CustomRuleReader
	CustomRuleWriter
}
