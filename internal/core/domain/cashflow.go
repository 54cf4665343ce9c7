package domain

import "time"

// CashflowStatus indicates where a cashflow is in its journey to the bank.
type CashflowStatus string

const (
	// A cashflow starts by being pending, i.e. it's waiting to be sent to
	// our accounting system.
	CashflowPending CashflowStatus = "PENDING"
	// Then it is sent to our accounting system for review.
	CashflowUnderReview CashflowStatus = "UNDER_REVIEW"
	// And it's finally sent to the bank. By default, we decide it's accepted.
	// The bank will inform us later if it rejected the cashflow; that happens
	// outside of this application, which is why there is no REJECTED status:
	// a rejected cashflow is superseded by a replacement one instead.
	CashflowAccepted CashflowStatus = "ACCEPTED"
)

// CanTransitionTo reports whether a cashflow in status s may move to target.
// The progression is strictly monotonic, with no skipping.
func (s CashflowStatus) CanTransitionTo(target CashflowStatus) bool {
	switch s {
	case CashflowPending:
		return target == CashflowUnderReview
	case CashflowUnderReview:
		return target == CashflowAccepted
	}
	return false
}

// Cashflow is a specific amount of money transferred between us and one bank
// account for one accounting period. It may be outgoing or incoming; by
// definition it cannot be zero.
type Cashflow struct {
	CashflowID    string         `json:"cashflowID"` // Primary Key (UUID)
	CreationDate  time.Time      `json:"creationDate"`
	Status        CashflowStatus `json:"status"`
	BankAccountID string         `json:"bankAccountID"` // FK -> bank_accounts.bank_account_id (Not Null)
	BatchID       string         `json:"batchID"`       // FK -> cashflow_batches.batch_id (Not Null)
	// Amount cannot be zero. For now only negative (outgoing) cashflows are
	// generated automatically; positive (incoming) ones are created manually.
	Amount int64 `json:"amount"`
	// TransactionID is a UUID included in the wire transfer file sent to the
	// bank. Globally unique.
	TransactionID string `json:"transactionID"`

	PricingIDs []string      `json:"pricingIDs,omitempty"`
	Logs       []CashflowLog `json:"logs,omitempty"` // Ordered by timestamp
}

// CashflowLog is created whenever the status of a cashflow changes. Details
// carries machine-readable context such as bank rejection codes.
type CashflowLog struct {
	LogID        string            `json:"logID"` // Primary Key (UUID)
	CashflowID   string            `json:"cashflowID"`
	Timestamp    time.Time         `json:"timestamp"`
	StatusBefore CashflowStatus    `json:"statusBefore"`
	StatusAfter  CashflowStatus    `json:"statusAfter"`
	Details      map[string]string `json:"details"` // Defaults to empty object
}

// CashflowPricing associates cashflows and pricings. A cashflow naturally
// aggregates multiple pricings of one bank account over one period; a pricing
// may in turn be linked to several cashflows when a cashflow rejected by the
// bank is replaced by a new one.
type CashflowPricing struct {
	CashflowID string `json:"cashflowID"`
	PricingID  string `json:"pricingID"`
}

// CashflowBatch groups cashflows that are sent to the bank at the same time,
// in a single file. Cutoff is unique: a period is never processed twice.
type CashflowBatch struct {
	BatchID      string    `json:"batchID"` // Primary Key (UUID)
	CreationDate time.Time `json:"creationDate"`
	Cutoff       time.Time `json:"cutoff"`
}
