package dto

import (
	"time"

	"github.com/cultpass/finance_ledger_app/internal/core/domain"
)

// GenerateCashflowsRequest asks the aggregator to build the cashflow of one
// bank account for one cutoff.
type GenerateCashflowsRequest struct {
	BankAccountID string    `json:"bankAccountID" binding:"required,uuid"`
	Cutoff        time.Time `json:"cutoff" binding:"required"`
}

// CashflowStatusRequest carries optional machine-readable context recorded in
// the cashflow log (e.g. bank transmission references).
type CashflowStatusRequest struct {
	Details map[string]string `json:"details"`
}

// CashflowLogResponse defines the data returned for one cashflow log entry.
type CashflowLogResponse struct {
	Timestamp    time.Time         `json:"timestamp"`
	StatusBefore string            `json:"statusBefore"`
	StatusAfter  string            `json:"statusAfter"`
	Details      map[string]string `json:"details"`
}

// CashflowResponse defines the data returned for a cashflow.
type CashflowResponse struct {
	CashflowID    string                `json:"cashflowID"`
	CreationDate  time.Time             `json:"creationDate"`
	Status        string                `json:"status"`
	BankAccountID string                `json:"bankAccountID"`
	BatchID       string                `json:"batchID"`
	Amount        int64                 `json:"amount"`
	TransactionID string                `json:"transactionID"`
	PricingIDs    []string              `json:"pricingIDs,omitempty"`
	Logs          []CashflowLogResponse `json:"logs,omitempty"`
}

// ToCashflowResponse converts a domain.Cashflow to CashflowResponse DTO.
func ToCashflowResponse(c *domain.Cashflow) CashflowResponse {
	resp := CashflowResponse{
		CashflowID:    c.CashflowID,
		CreationDate:  c.CreationDate,
		Status:        string(c.Status),
		BankAccountID: c.BankAccountID,
		BatchID:       c.BatchID,
		Amount:        c.Amount,
		TransactionID: c.TransactionID,
		PricingIDs:    c.PricingIDs,
	}
	for _, log := range c.Logs {
		resp.Logs = append(resp.Logs, CashflowLogResponse{
			Timestamp:    log.Timestamp,
			StatusBefore: string(log.StatusBefore),
			StatusAfter:  string(log.StatusAfter),
			Details:      log.Details,
		})
	}
	return resp
}

// CreateBatchRequest asks the batch scheduler to open the batch for a cutoff.
type CreateBatchRequest struct {
	Cutoff time.Time `json:"cutoff" binding:"required"`
}

// BatchResponse defines the data returned for a cashflow batch.
type BatchResponse struct {
	BatchID      string    `json:"batchID"`
	CreationDate time.Time `json:"creationDate"`
	Cutoff       time.Time `json:"cutoff"`
}

// ToBatchResponse converts a domain.CashflowBatch to BatchResponse DTO.
func ToBatchResponse(b *domain.CashflowBatch) BatchResponse {
	return BatchResponse{
		BatchID:      b.BatchID,
		CreationDate: b.CreationDate,
		Cutoff:       b.Cutoff,
	}
}

// InvoicePeriodResponse describes the accounting period an invoice covers, in
// human terms for the email notification job.
type InvoicePeriodResponse struct {
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
}
