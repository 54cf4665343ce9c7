package mapping

import (
	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	"github.com/cultpass/finance_ledger_app/internal/models"
)

// ToModelCashflow converts a domain Cashflow to a model Cashflow
func ToModelCashflow(d domain.Cashflow) models.Cashflow {
	return models.Cashflow{
		CashflowID:    d.CashflowID,
		CreationDate:  d.CreationDate,
		Status:        models.CashflowStatus(d.Status),
		BankAccountID: d.BankAccountID,
		BatchID:       d.BatchID,
		Amount:        d.Amount,
		TransactionID: d.TransactionID,
	}
}

// ToDomainCashflow converts a model Cashflow to a domain Cashflow
func ToDomainCashflow(m models.Cashflow) domain.Cashflow {
	return domain.Cashflow{
		CashflowID:    m.CashflowID,
		CreationDate:  m.CreationDate,
		Status:        domain.CashflowStatus(m.Status),
		BankAccountID: m.BankAccountID,
		BatchID:       m.BatchID,
		Amount:        m.Amount,
		TransactionID: m.TransactionID,
	}
}

// ToModelCashflowLog converts a domain CashflowLog to a model CashflowLog
func ToModelCashflowLog(d domain.CashflowLog) models.CashflowLog {
	details := d.Details
	if details == nil {
		details = map[string]string{}
	}
	return models.CashflowLog{
		LogID:        d.LogID,
		CashflowID:   d.CashflowID,
		Timestamp:    d.Timestamp,
		StatusBefore: models.CashflowStatus(d.StatusBefore),
		StatusAfter:  models.CashflowStatus(d.StatusAfter),
		Details:      details,
	}
}

// ToDomainCashflowLog converts a model CashflowLog to a domain CashflowLog
func ToDomainCashflowLog(m models.CashflowLog) domain.CashflowLog {
	details := m.Details
	if details == nil {
		details = map[string]string{}
	}
	return domain.CashflowLog{
		LogID:        m.LogID,
		CashflowID:   m.CashflowID,
		Timestamp:    m.Timestamp,
		StatusBefore: domain.CashflowStatus(m.StatusBefore),
		StatusAfter:  domain.CashflowStatus(m.StatusAfter),
		Details:      details,
	}
}

// ToDomainCashflowLogSlice converts a slice of model CashflowLogs
func ToDomainCashflowLogSlice(ms []models.CashflowLog) []domain.CashflowLog {
	ds := make([]domain.CashflowLog, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCashflowLog(m)
	}
	return ds
}

// ToModelCashflowBatch converts a domain CashflowBatch to a model CashflowBatch
func ToModelCashflowBatch(d domain.CashflowBatch) models.CashflowBatch {
	return models.CashflowBatch{
		BatchID:      d.BatchID,
		CreationDate: d.CreationDate,
		Cutoff:       d.Cutoff,
	}
}

// ToDomainCashflowBatch converts a model CashflowBatch to a domain CashflowBatch
func ToDomainCashflowBatch(m models.CashflowBatch) domain.CashflowBatch {
	return domain.CashflowBatch{
		BatchID:      m.BatchID,
		CreationDate: m.CreationDate,
		Cutoff:       m.Cutoff,
	}
}
