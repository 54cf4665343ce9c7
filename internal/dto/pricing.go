package dto

import (
	"time"

	"github.com/cultpass/finance_ledger_app/internal/core/domain"
)

// ComputePricingRequest asks the pricing engine to price a booking.
type ComputePricingRequest struct {
	BookingID string `json:"bookingID" binding:"required,uuid"`
}

// CancelPricingRequest carries the reason recorded in the pricing log.
type CancelPricingRequest struct {
	Reason string `json:"reason" binding:"required,oneof=MARK_AS_UNUSED BACKOFFICE"`
}

// PricingLineResponse defines the data returned for one pricing line.
type PricingLineResponse struct {
	LineID   string `json:"lineID"`
	Amount   int64  `json:"amount"`
	Category string `json:"category"`
}

// PricingLogResponse defines the data returned for one pricing log entry.
type PricingLogResponse struct {
	Timestamp    time.Time `json:"timestamp"`
	StatusBefore string    `json:"statusBefore"`
	StatusAfter  string    `json:"statusAfter"`
	Reason       string    `json:"reason"`
}

// PricingResponse defines the data returned for a pricing.
type PricingResponse struct {
	PricingID     string                `json:"pricingID"`
	Status        string                `json:"status"`
	BookingID     string                `json:"bookingID"`
	BankAccountID string                `json:"bankAccountID"`
	CreationDate  time.Time             `json:"creationDate"`
	ValueDate     time.Time             `json:"valueDate"`
	Amount        int64                 `json:"amount"`
	StandardRule  string                `json:"standardRule,omitempty"`
	CustomRuleID  *string               `json:"customRuleID,omitempty"`
	Revenue       int64                 `json:"revenue"`
	Lines         []PricingLineResponse `json:"lines,omitempty"`
	Logs          []PricingLogResponse  `json:"logs,omitempty"`
}

// ToPricingResponse converts a domain.Pricing to PricingResponse DTO.
func ToPricingResponse(p *domain.Pricing) PricingResponse {
	resp := PricingResponse{
		PricingID:     p.PricingID,
		Status:        string(p.Status),
		BookingID:     p.BookingID,
		BankAccountID: p.BankAccountID,
		CreationDate:  p.CreationDate,
		ValueDate:     p.ValueDate,
		Amount:        p.Amount,
		StandardRule:  p.StandardRule,
		CustomRuleID:  p.CustomRuleID,
		Revenue:       p.Revenue,
	}
	for _, line := range p.Lines {
		resp.Lines = append(resp.Lines, PricingLineResponse{
			LineID:   line.LineID,
			Amount:   line.Amount,
			Category: string(line.Category),
		})
	}
	for _, log := range p.Logs {
		resp.Logs = append(resp.Logs, PricingLogResponse{
			Timestamp:    log.Timestamp,
			StatusBefore: string(log.StatusBefore),
			StatusAfter:  string(log.StatusAfter),
			Reason:       string(log.Reason),
		})
	}
	return resp
}

// ListPricingsParams holds the pagination parameters for pricing listings.
type ListPricingsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListPricingsResponse is the paginated pricing listing payload.
type ListPricingsResponse struct {
	Pricings  []PricingResponse `json:"pricings"`
	NextToken *string           `json:"nextToken,omitempty"`
}
