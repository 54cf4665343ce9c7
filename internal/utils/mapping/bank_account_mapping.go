package mapping

import (
	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	"github.com/cultpass/finance_ledger_app/internal/models"
)

// ToModelBankAccount converts a domain BankAccount to a model BankAccount
func ToModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID:     d.BankAccountID,
		Label:             d.Label,
		IBAN:              d.IBAN,
		BIC:               d.BIC,
		CashflowFrequency: string(d.CashflowFrequency),
		InvoiceFrequency:  string(d.InvoiceFrequency),
		CreatedAt:         d.CreatedAt,
		LastUpdatedAt:     d.LastUpdatedAt,
	}
}

// ToDomainBankAccount converts a model BankAccount to a domain BankAccount
func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:     m.BankAccountID,
		Label:             m.Label,
		IBAN:              m.IBAN,
		BIC:               m.BIC,
		CashflowFrequency: domain.Frequency(m.CashflowFrequency),
		InvoiceFrequency:  domain.Frequency(m.InvoiceFrequency),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// ToModelBooking converts a domain Booking to a model Booking
func ToModelBooking(d domain.Booking) models.Booking {
	return models.Booking{
		BookingID:     d.BookingID,
		BankAccountID: d.BankAccountID,
		Category:      d.Category,
		UnitPrice:     d.UnitPrice,
		Quantity:      d.Quantity,
		Status:        string(d.Status),
		DateUsed:      d.DateUsed,
		CreatedAt:     d.CreatedAt,
		LastUpdatedAt: d.LastUpdatedAt,
	}
}

// ToDomainBooking converts a model Booking to a domain Booking
func ToDomainBooking(m models.Booking) domain.Booking {
	return domain.Booking{
		BookingID:     m.BookingID,
		BankAccountID: m.BankAccountID,
		Category:      m.Category,
		UnitPrice:     m.UnitPrice,
		Quantity:      m.Quantity,
		Status:        domain.BookingStatus(m.Status),
		DateUsed:      m.DateUsed,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// ToModelCustomRule converts a domain CustomRule to a model CustomRule
func ToModelCustomRule(d domain.CustomRule) models.CustomRule {
	return models.CustomRule{
		CustomRuleID:  d.CustomRuleID,
		BankAccountID: d.BankAccountID,
		Rate:          d.Rate,
		ValidFrom:     d.ValidFrom,
		ValidUntil:    d.ValidUntil,
		CreatedAt:     d.CreatedAt,
		LastUpdatedAt: d.LastUpdatedAt,
	}
}

// ToDomainCustomRule converts a model CustomRule to a domain CustomRule
func ToDomainCustomRule(m models.CustomRule) domain.CustomRule {
	return domain.CustomRule{
		CustomRuleID:  m.CustomRuleID,
		BankAccountID: m.BankAccountID,
		Rate:          m.Rate,
		ValidFrom:     m.ValidFrom,
		ValidUntil:    m.ValidUntil,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}
