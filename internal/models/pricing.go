package models

import "time"

// PricingStatus mirrors domain.PricingStatus for persistence.
type PricingStatus string

// Pricing is the database representation of a computed reimbursement record.
// Amounts are signed euro cents.
type Pricing struct {
	PricingID     string        `db:"pricing_id"`
	Status        PricingStatus `db:"status"`
	BookingID     string        `db:"booking_id"`
	BankAccountID string        `db:"bank_account_id"`
	CreationDate  time.Time     `db:"creation_date"`
	ValueDate     time.Time     `db:"value_date"`
	Amount        int64         `db:"amount"`
	StandardRule  string        `db:"standard_rule"`   // Empty when a custom rule applies
	CustomRuleID  *string       `db:"custom_rule_id"`  // Nullable
	Revenue       int64         `db:"revenue"`
}

// PricingLine is one signed component of a pricing's amount.
type PricingLine struct {
	LineID    string `db:"line_id"`
	PricingID string `db:"pricing_id"`
	Amount    int64  `db:"amount"`
	Category  string `db:"category"`
}

// PricingLog is one immutable status-transition record for a pricing.
type PricingLog struct {
	LogID        string        `db:"log_id"`
	PricingID    string        `db:"pricing_id"`
	Timestamp    time.Time     `db:"timestamp"`
	StatusBefore PricingStatus `db:"status_before"`
	StatusAfter  PricingStatus `db:"status_after"`
	Reason       string        `db:"reason"`
}
