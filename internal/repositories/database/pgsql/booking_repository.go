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

type PgxBookingRepository struct {
	BaseRepository
}

// newPgxBookingRepository creates a new repository for booking data.
func newPgxBookingRepository(pool *pgxpool.Pool) portsrepo.BookingRepositoryFacade {
	return &PgxBookingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxBookingRepository implements portsrepo.BookingRepositoryFacade
var _ portsrepo.BookingRepositoryFacade = (*PgxBookingRepository)(nil)

// SaveBooking persists a new booking.
func (r *PgxBookingRepository) SaveBooking(ctx context.Context, booking domain.Booking) error {
	m := mapping.ToModelBooking(booking)
	query := `
		INSERT INTO bookings (
			booking_id, bank_account_id, category, unit_price, quantity, status,
			date_used, created_at, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BookingID,
		m.BankAccountID,
		m.Category,
		m.UnitPrice,
		m.Quantity,
		m.Status,
		m.DateUsed,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: booking with ID %s already exists", apperrors.ErrDuplicate, m.BookingID)
			}
		}
		return apperrors.NewAppError(500, "failed to save booking "+m.BookingID, err)
	}
	return nil
}

// FindBookingByID retrieves a booking by its ID.
func (r *PgxBookingRepository) FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	query := `
		SELECT booking_id, bank_account_id, category, unit_price, quantity, status,
		       date_used, created_at, last_updated_at
		FROM bookings
		WHERE booking_id = $1;
	`
	var m models.Booking
	err := r.Pool.QueryRow(ctx, query, bookingID).Scan(
		&m.BookingID,
		&m.BankAccountID,
		&m.Category,
		&m.UnitPrice,
		&m.Quantity,
		&m.Status,
		&m.DateUsed,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find booking by ID "+bookingID, err)
	}

	domainBooking := mapping.ToDomainBooking(m)
	return &domainBooking, nil
}
