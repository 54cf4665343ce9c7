package models

import "time"

// CashflowStatus mirrors domain.CashflowStatus for persistence.
type CashflowStatus string

// Cashflow is the database representation of one directional money movement.
type Cashflow struct {
	CashflowID    string         `db:"cashflow_id"`
	CreationDate  time.Time      `db:"creation_date"`
	Status        CashflowStatus `db:"status"`
	BankAccountID string         `db:"bank_account_id"`
	BatchID       string         `db:"batch_id"`
	Amount        int64          `db:"amount"` // Non-zero (check constraint)
	TransactionID string         `db:"transaction_id"`
}

// CashflowLog is one immutable status-transition record for a cashflow.
// Details is stored as a JSONB object.
type CashflowLog struct {
	LogID        string            `db:"log_id"`
	CashflowID   string            `db:"cashflow_id"`
	Timestamp    time.Time         `db:"timestamp"`
	StatusBefore CashflowStatus    `db:"status_before"`
	StatusAfter  CashflowStatus    `db:"status_after"`
	Details      map[string]string `db:"details"`
}

// CashflowPricing is the cashflow<->pricing association row. Composite
// primary key plus a unique constraint on the pair.
type CashflowPricing struct {
	CashflowID string `db:"cashflow_id"`
	PricingID  string `db:"pricing_id"`
}

// CashflowBatch groups cashflows transmitted to the bank in one file.
type CashflowBatch struct {
	BatchID      string    `db:"batch_id"`
	CreationDate time.Time `db:"creation_date"`
	Cutoff       time.Time `db:"cutoff"` // Unique
}
