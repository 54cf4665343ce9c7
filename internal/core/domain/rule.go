package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StandardRule is a built-in reimbursement rule. Standard rules live in code;
// only their identifier is persisted on the pricings they produced.
type StandardRule struct {
	RuleID string
	// Rate is the fraction of the booking's gross value we reimburse.
	Rate decimal.Decimal
	// Categories the rule applies to; empty means it is the fallback rule.
	Categories []string
}

// AppliesTo reports whether the rule covers the given offer category.
func (r StandardRule) AppliesTo(category string) bool {
	if len(r.Categories) == 0 {
		return true
	}
	for _, c := range r.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// IsReimbursable reports whether the rule reimburses anything at all.
func (r StandardRule) IsReimbursable() bool {
	return !r.Rate.IsZero()
}

// StandardRules is the ordered rule table: the first rule whose categories
// match wins, the fallback full-reimbursement rule comes last.
var StandardRules = []StandardRule{
	{
		RuleID:     "digital-offer-not-reimbursable",
		Rate:       decimal.Zero,
		Categories: []string{"DIGITAL_STREAMING", "DIGITAL_GAME", "DIGITAL_PRESS"},
	},
	{
		RuleID:     "book-partial-reimbursement",
		Rate:       decimal.RequireFromString("0.95"),
		Categories: []string{"BOOK"},
	},
	{
		RuleID: "full-reimbursement",
		Rate:   decimal.NewFromInt(1),
	},
}

// CustomRule is a reimbursement rate negotiated with a specific offerer and
// attached to its bank account. When one covers the booking's usage date it
// takes precedence over every standard rule.
type CustomRule struct {
	CustomRuleID  string          `json:"customRuleID"`  // Primary Key (UUID)
	BankAccountID string          `json:"bankAccountID"` // FK -> bank_accounts.bank_account_id (Not Null)
	Rate          decimal.Decimal `json:"rate"`
	ValidFrom     time.Time       `json:"validFrom"`
	ValidUntil    *time.Time      `json:"validUntil"` // Nil means open-ended
	AuditFields
}

// Covers reports whether the custom rule is in force at the given date.
func (r CustomRule) Covers(date time.Time) bool {
	if date.Before(r.ValidFrom) {
		return false
	}
	return r.ValidUntil == nil || date.Before(*r.ValidUntil)
}
