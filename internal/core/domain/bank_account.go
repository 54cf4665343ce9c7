package domain

// Frequency is the cadence at which cashflows and invoices are generated for
// a bank account.
type Frequency string

const (
	EveryTwoWeeks Frequency = "EVERY_TWO_WEEKS"
)

// BankAccount is the payee (or payer) record money moves to or from. Pricings
// and cashflows are grouped by bank account.
type BankAccount struct {
	BankAccountID     string    `json:"bankAccountID"` // Primary Key (UUID)
	Label             string    `json:"label"`
	IBAN              string    `json:"iban"`
	BIC               string    `json:"bic"`
	CashflowFrequency Frequency `json:"cashflowFrequency"` // Default: EVERY_TWO_WEEKS
	InvoiceFrequency  Frequency `json:"invoiceFrequency"`  // Default: EVERY_TWO_WEEKS
	AuditFields
}
