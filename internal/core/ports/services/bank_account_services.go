package services

import (
	"context"

	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	"github.com/cultpass/finance_ledger_app/internal/dto"
)

// BankAccountSvcFacade manages the payee records and their custom rules.
type BankAccountSvcFacade interface {
	// CreateBankAccount registers a new bank account with default frequencies.
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest) (*domain.BankAccount, error)

	// GetBankAccountByID retrieves a bank account.
	GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// CreateCustomRule attaches a negotiated reimbursement rate to a bank account.
	CreateCustomRule(ctx context.Context, req dto.CreateCustomRuleRequest) (*domain.CustomRule, error)
}

// BookingSvcFacade records and reads the pricing engine's input feed.
type BookingSvcFacade interface {
	// CreateBooking records a booking fed by the marketplace.
	CreateBooking(ctx context.Context, req dto.CreateBookingRequest) (*domain.Booking, error)

	// GetBookingByID retrieves a booking.
	GetBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error)
}
