package domain

import "time"

// AuditFields holds standard audit timestamps for mutable domain entities.
// Ledger rows (pricings, cashflows, logs) carry an explicit creation date
// instead: they are append-only and never updated in place.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
