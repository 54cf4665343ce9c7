package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus indicates the lifecycle state of a voucher booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingUsed      BookingStatus = "USED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking is the voucher redemption the pricing engine prices. Bookings are
// created and driven by the marketplace; this core only reads them (and
// records them as an input feed).
type Booking struct {
	BookingID     string          `json:"bookingID"`     // Primary Key (UUID)
	BankAccountID string          `json:"bankAccountID"` // FK -> bank_accounts.bank_account_id (Not Null)
	Category      string          `json:"category"`      // Offer category, drives rule selection
	UnitPrice     decimal.Decimal `json:"unitPrice"`     // Price per unit, in euros
	Quantity      int64           `json:"quantity"`
	Status        BookingStatus   `json:"status"`
	DateUsed      *time.Time      `json:"dateUsed"` // Nil until the booking is used
	AuditFields
}

// TotalAmount returns the booking's gross value (unit price times quantity).
func (b Booking) TotalAmount() decimal.Decimal {
	return b.UnitPrice.Mul(decimal.NewFromInt(b.Quantity))
}

// IsPriceable reports whether the booking is ready to be priced: it must have
// been used at a definite date and not cancelled.
func (b Booking) IsPriceable() bool {
	return b.Status == BookingUsed && b.DateUsed != nil
}
