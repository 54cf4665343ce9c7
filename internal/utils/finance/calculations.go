package finance

import (
	"fmt"

	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EuroToCents converts a euro amount to integer cents, rounding half away
// from zero. All persisted ledger amounts are integer cents.
func EuroToCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ReimbursedCents applies a reimbursement rate to a gross euro amount and
// returns the reimbursed value in cents.
func ReimbursedCents(gross decimal.Decimal, rate decimal.Decimal) int64 {
	return EuroToCents(gross.Mul(rate))
}

// BuildPricingLines decomposes a pricing into its signed line components.
// Amounts are signed cents, negative being outgoing:
//   - the offerer revenue line carries the full gross value we owe in theory;
//   - the offerer contribution line is the part the offerer leaves to us.
//
// The lines always sum to -reimbursedCents, the pricing's amount.
func BuildPricingLines(grossCents, reimbursedCents int64) []domain.PricingLine {
	return []domain.PricingLine{
		{Category: domain.OffererRevenue, Amount: -grossCents},
		{Category: domain.OffererContribution, Amount: grossCents - reimbursedCents},
	}
}

// ValidatePricingLines checks the invariant that a pricing's lines sum to its
// amount. This is enforced by construction, not by the database.
func ValidatePricingLines(amount int64, lines []domain.PricingLine) error {
	var sum int64
	for _, line := range lines {
		sum += line.Amount
	}
	if sum != amount {
		return fmt.Errorf("pricing lines sum to %d, expected amount %d", sum, amount)
	}
	return nil
}

// NextRevenue advances a bank account's cumulative revenue snapshot with a
// booking's gross value. The previous snapshot is the account's highest
// recorded revenue, so the sequence of snapshots never decreases; a negative
// gross is ignored rather than allowed to roll the total back.
func NextRevenue(previousRevenue, grossCents int64) int64 {
	if grossCents < 0 {
		return previousRevenue
	}
	return previousRevenue + grossCents
}

// SumPricingAmounts returns the signed total of a set of pricings. This is
// the amount of the cashflow that would aggregate them.
func SumPricingAmounts(pricings []domain.Pricing) int64 {
	var sum int64
	for _, p := range pricings {
		sum += p.Amount
	}
	return sum
}
