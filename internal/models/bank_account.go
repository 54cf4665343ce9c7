package models

import "time"

// BankAccount is the database representation of a payee/payer bank account.
type BankAccount struct {
	BankAccountID     string    `db:"bank_account_id"`
	Label             string    `db:"label"`
	IBAN              string    `db:"iban"`
	BIC               string    `db:"bic"`
	CashflowFrequency string    `db:"cashflow_frequency"`
	InvoiceFrequency  string    `db:"invoice_frequency"`
	CreatedAt         time.Time `db:"created_at"`
	LastUpdatedAt     time.Time `db:"last_updated_at"`
}
