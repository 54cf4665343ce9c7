package domain

import "time"

// All ledger amounts are in euro cents and signed: a negative amount is
// outgoing (payable by us to someone), a positive amount is incoming.

// PricingStatus indicates the state of a pricing in its reimbursement lifecycle.
type PricingStatus string

const (
	PricingPending   PricingStatus = "PENDING"
	PricingCancelled PricingStatus = "CANCELLED"
	PricingValidated PricingStatus = "VALIDATED"
	PricingRejected  PricingStatus = "REJECTED"
	PricingBilled    PricingStatus = "BILLED"
)

// pricingTransitions is the allowed status transition table. CANCELLED and
// BILLED are terminal; BILLED is reachable only from VALIDATED.
var pricingTransitions = map[PricingStatus][]PricingStatus{
	PricingPending:   {PricingValidated, PricingCancelled, PricingRejected},
	PricingValidated: {PricingCancelled, PricingBilled},
	PricingRejected:  {PricingCancelled},
}

// CanTransitionTo reports whether a pricing in status s may move to target.
func (s PricingStatus) CanTransitionTo(target PricingStatus) bool {
	for _, allowed := range pricingTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsCancellable reports whether a pricing in status s may be cancelled.
func (s PricingStatus) IsCancellable() bool {
	return s == PricingPending || s == PricingValidated || s == PricingRejected
}

// IsDeletable reports whether a pricing in status s may be hard-deleted
// (administrative correction). BILLED pricings are permanently immutable.
func (s PricingStatus) IsDeletable() bool {
	return s.IsCancellable() || s == PricingCancelled
}

// PricingLineCategory labels a component of a pricing's total amount.
type PricingLineCategory string

const (
	OffererRevenue      PricingLineCategory = "OFFERER_REVENUE"
	OffererContribution PricingLineCategory = "OFFERER_CONTRIBUTION"
)

// PricingLogReason explains why a pricing status changed.
type PricingLogReason string

const (
	ReasonMarkAsUnused PricingLogReason = "MARK_AS_UNUSED"
	ReasonValidation   PricingLogReason = "VALIDATION"
	ReasonBilling      PricingLogReason = "BILLING"
	ReasonBackoffice   PricingLogReason = "BACKOFFICE"
)

// Pricing is the computed reimbursement record for one booking. At most one
// non-cancelled pricing exists per booking.
type Pricing struct {
	PricingID     string        `json:"pricingID"`     // Primary Key (UUID)
	Status        PricingStatus `json:"status"`        //
	BookingID     string        `json:"bookingID"`     // FK -> bookings.booking_id (Not Null)
	BankAccountID string        `json:"bankAccountID"` // FK -> bank_accounts.bank_account_id (Not Null)
	CreationDate  time.Time     `json:"creationDate"`  //
	// ValueDate is the booking's usage date, denormalized here because most
	// selection queries filter on it and we thus avoid a JOIN.
	ValueDate time.Time `json:"valueDate"`
	// Amount is zero for bookings that are not reimbursable. We do create
	// 0-pricings for these bookings to avoid processing them again and again.
	Amount int64 `json:"amount"`
	// Exactly one of StandardRule / CustomRuleID is set (check constraint).
	StandardRule string  `json:"standardRule"`
	CustomRuleID *string `json:"customRuleID"`
	// Revenue is the bank account's cumulative revenue as of ValueDate,
	// including the related booking. Zero or positive.
	Revenue int64 `json:"revenue"`

	Lines []PricingLine `json:"lines,omitempty"` // Ordered by line id
	Logs  []PricingLog  `json:"logs,omitempty"`
}

// PricingLine is a signed component of a pricing's total amount. The lines of
// a pricing sum to the pricing's amount.
type PricingLine struct {
	LineID    string              `json:"lineID"`    // Primary Key (UUID)
	PricingID string              `json:"pricingID"` // FK -> pricings.pricing_id
	Amount    int64               `json:"amount"`
	Category  PricingLineCategory `json:"category"`
}

// PricingLog is created whenever the status of a pricing changes. Logs are
// append-only: they are never updated or deleted.
type PricingLog struct {
	LogID        string           `json:"logID"` // Primary Key (UUID)
	PricingID    string           `json:"pricingID"`
	Timestamp    time.Time        `json:"timestamp"`
	StatusBefore PricingStatus    `json:"statusBefore"`
	StatusAfter  PricingStatus    `json:"statusAfter"`
	Reason       PricingLogReason `json:"reason"`
}
