package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/cultpass/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cultpass/finance_ledger_app/internal/core/ports/services"
	"github.com/cultpass/finance_ledger_app/internal/dto"
	"github.com/cultpass/finance_ledger_app/internal/middleware"
)

var ErrInvalidBookingPrice = errors.New("booking unit price cannot be negative")

// bookingService records the bookings the pricing engine consumes.
type bookingService struct {
	bookingRepo     portsrepo.BookingRepositoryFacade
	bankAccountRepo portsrepo.BankAccountRepositoryFacade
}

// NewBookingService creates a new BookingService
func NewBookingService(bookingRepo portsrepo.BookingRepositoryFacade, bankAccountRepo portsrepo.BankAccountRepositoryFacade) portssvc.BookingSvcFacade {
	return &bookingService{
		bookingRepo:     bookingRepo,
		bankAccountRepo: bankAccountRepo,
	}
}

// Ensure bookingService implements the portssvc.BookingSvcFacade interface
var _ portssvc.BookingSvcFacade = (*bookingService)(nil)

// CreateBooking records a booking fed by the marketplace. A booking created
// with a usage date starts out USED and is immediately priceable.
// Implements portssvc.BookingSvcFacade
func (s *bookingService) CreateBooking(ctx context.Context, req dto.CreateBookingRequest) (*domain.Booking, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.UnitPrice.IsNegative() {
		return nil, ErrInvalidBookingPrice
	}
	if _, err := s.bankAccountRepo.FindBankAccountByID(ctx, req.BankAccountID); err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", req.BankAccountID, err)
	}

	now := time.Now().UTC()
	status := domain.BookingConfirmed
	if req.DateUsed != nil {
		status = domain.BookingUsed
	}
	booking := domain.Booking{
		BookingID:     uuid.NewString(),
		BankAccountID: req.BankAccountID,
		Category:      req.Category,
		UnitPrice:     req.UnitPrice,
		Quantity:      req.Quantity,
		Status:        status,
		DateUsed:      req.DateUsed,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.bookingRepo.SaveBooking(ctx, booking); err != nil {
		logger.Error("Failed to save booking", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	logger.Info("Booking created",
		slog.String("booking_id", booking.BookingID),
		slog.String("bank_account_id", booking.BankAccountID),
		slog.String("status", string(booking.Status)),
	)
	return &booking, nil
}

// GetBookingByID retrieves a booking.
// Implements portssvc.BookingSvcFacade
func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find booking %s: %w", bookingID, err)
	}
	return booking, nil
}
