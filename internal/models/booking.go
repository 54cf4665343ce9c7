package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking is the database representation of a voucher booking, the pricing
// engine's input feed.
type Booking struct {
	BookingID     string          `db:"booking_id"`
	BankAccountID string          `db:"bank_account_id"`
	Category      string          `db:"category"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	Quantity      int64           `db:"quantity"`
	Status        string          `db:"status"`
	DateUsed      *time.Time      `db:"date_used"` // Nullable
	CreatedAt     time.Time       `db:"created_at"`
	LastUpdatedAt time.Time       `db:"last_updated_at"`
}

// CustomRule is the database representation of a negotiated reimbursement rate.
type CustomRule struct {
	CustomRuleID  string          `db:"custom_rule_id"`
	BankAccountID string          `db:"bank_account_id"`
	Rate          decimal.Decimal `db:"rate"`
	ValidFrom     time.Time       `db:"valid_from"`
	ValidUntil    *time.Time      `db:"valid_until"` // Nullable
	CreatedAt     time.Time       `db:"created_at"`
	LastUpdatedAt time.Time       `db:"last_updated_at"`
}
