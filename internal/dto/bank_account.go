package dto

import (
	"time"

	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest registers a new payee bank account.
type CreateBankAccountRequest struct {
	Label string `json:"label" binding:"required"`
	IBAN  string `json:"iban" binding:"required,iban"`
	BIC   string `json:"bic" binding:"required,bic"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID     string    `json:"bankAccountID"`
	Label             string    `json:"label"`
	IBAN              string    `json:"iban"`
	BIC               string    `json:"bic"`
	CashflowFrequency string    `json:"cashflowFrequency"`
	InvoiceFrequency  string    `json:"invoiceFrequency"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ToBankAccountResponse converts a domain.BankAccount to BankAccountResponse DTO.
func ToBankAccountResponse(a *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID:     a.BankAccountID,
		Label:             a.Label,
		IBAN:              a.IBAN,
		BIC:               a.BIC,
		CashflowFrequency: string(a.CashflowFrequency),
		InvoiceFrequency:  string(a.InvoiceFrequency),
		CreatedAt:         a.CreatedAt,
	}
}

// CreateBookingRequest records a booking fed by the marketplace. DateUsed may
// be set when the booking is already redeemed.
type CreateBookingRequest struct {
	BankAccountID string          `json:"bankAccountID" binding:"required,uuid"`
	Category      string          `json:"category" binding:"required"`
	UnitPrice     decimal.Decimal `json:"unitPrice" binding:"required"`
	Quantity      int64           `json:"quantity" binding:"required,gt=0"`
	DateUsed      *time.Time      `json:"dateUsed"`
}

// BookingResponse defines the data returned for a booking.
type BookingResponse struct {
	BookingID     string          `json:"bookingID"`
	BankAccountID string          `json:"bankAccountID"`
	Category      string          `json:"category"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Quantity      int64           `json:"quantity"`
	Status        string          `json:"status"`
	DateUsed      *time.Time      `json:"dateUsed,omitempty"`
}

// ToBookingResponse converts a domain.Booking to BookingResponse DTO.
func ToBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		BookingID:     b.BookingID,
		BankAccountID: b.BankAccountID,
		Category:      b.Category,
		UnitPrice:     b.UnitPrice,
		Quantity:      b.Quantity,
		Status:        string(b.Status),
		DateUsed:      b.DateUsed,
	}
}

// CreateCustomRuleRequest registers a negotiated reimbursement rate for a
// bank account. Rate is a fraction between 0 and 1. The bank account id comes
// from the route path.
type CreateCustomRuleRequest struct {
	BankAccountID string          `json:"-"`
	Rate          decimal.Decimal `json:"rate" binding:"required"`
	ValidFrom     time.Time       `json:"validFrom" binding:"required"`
	ValidUntil    *time.Time      `json:"validUntil"`
}

// CustomRuleResponse defines the data returned for a custom rule.
type CustomRuleResponse struct {
	CustomRuleID  string          `json:"customRuleID"`
	BankAccountID string          `json:"bankAccountID"`
	Rate          decimal.Decimal `json:"rate"`
	ValidFrom     time.Time       `json:"validFrom"`
	ValidUntil    *time.Time      `json:"validUntil,omitempty"`
}

// ToCustomRuleResponse converts a domain.CustomRule to CustomRuleResponse DTO.
func ToCustomRuleResponse(r *domain.CustomRule) CustomRuleResponse {
	return CustomRuleResponse{
		CustomRuleID:  r.CustomRuleID,
		BankAccountID: r.BankAccountID,
		Rate:          r.Rate,
		ValidFrom:     r.ValidFrom,
		ValidUntil:    r.ValidUntil,
	}
}
