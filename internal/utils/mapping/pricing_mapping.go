package mapping

import (
	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	"github.com/cultpass/finance_ledger_app/internal/models"
)

// ToModelPricing converts a domain Pricing to a model Pricing
func ToModelPricing(d domain.Pricing) models.Pricing {
	return models.Pricing{
		PricingID:     d.PricingID,
		Status:        models.PricingStatus(d.Status),
		BookingID:     d.BookingID,
		BankAccountID: d.BankAccountID,
		CreationDate:  d.CreationDate,
		ValueDate:     d.ValueDate,
		Amount:        d.Amount,
		StandardRule:  d.StandardRule,
		CustomRuleID:  d.CustomRuleID,
		Revenue:       d.Revenue,
	}
}

// ToDomainPricing converts a model Pricing to a domain Pricing
func ToDomainPricing(m models.Pricing) domain.Pricing {
	return domain.Pricing{
		PricingID:     m.PricingID,
		Status:        domain.PricingStatus(m.Status),
		BookingID:     m.BookingID,
		BankAccountID: m.BankAccountID,
		CreationDate:  m.CreationDate,
		ValueDate:     m.ValueDate,
		Amount:        m.Amount,
		StandardRule:  m.StandardRule,
		CustomRuleID:  m.CustomRuleID,
		Revenue:       m.Revenue,
	}
}

// ToModelPricingLine converts a domain PricingLine to a model PricingLine
func ToModelPricingLine(d domain.PricingLine) models.PricingLine {
	return models.PricingLine{
		LineID:    d.LineID,
		PricingID: d.PricingID,
		Amount:    d.Amount,
		Category:  string(d.Category),
	}
}

// ToDomainPricingLine converts a model PricingLine to a domain PricingLine
func ToDomainPricingLine(m models.PricingLine) domain.PricingLine {
	return domain.PricingLine{
		LineID:    m.LineID,
		PricingID: m.PricingID,
		Amount:    m.Amount,
		Category:  domain.PricingLineCategory(m.Category),
	}
}

// ToDomainPricingLineSlice converts a slice of model PricingLines
func ToDomainPricingLineSlice(ms []models.PricingLine) []domain.PricingLine {
	ds := make([]domain.PricingLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPricingLine(m)
	}
	return ds
}

// ToModelPricingLog converts a domain PricingLog to a model PricingLog
func ToModelPricingLog(d domain.PricingLog) models.PricingLog {
	return models.PricingLog{
		LogID:        d.LogID,
		PricingID:    d.PricingID,
		Timestamp:    d.Timestamp,
		StatusBefore: models.PricingStatus(d.StatusBefore),
		StatusAfter:  models.PricingStatus(d.StatusAfter),
		Reason:       string(d.Reason),
	}
}

// ToDomainPricingLog converts a model PricingLog to a domain PricingLog
func ToDomainPricingLog(m models.PricingLog) domain.PricingLog {
	return domain.PricingLog{
		LogID:        m.LogID,
		PricingID:    m.PricingID,
		Timestamp:    m.Timestamp,
		StatusBefore: domain.PricingStatus(m.StatusBefore),
		StatusAfter:  domain.PricingStatus(m.StatusAfter),
		Reason:       domain.PricingLogReason(m.Reason),
	}
}

// ToDomainPricingLogSlice converts a slice of model PricingLogs
func ToDomainPricingLogSlice(ms []models.PricingLog) []domain.PricingLog {
	ds := make([]domain.PricingLog, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPricingLog(m)
	}
	return ds
}
