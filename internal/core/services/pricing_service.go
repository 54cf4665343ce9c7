package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cultpass/finance_ledger_app/internal/apperrors"
	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/cultpass/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cultpass/finance_ledger_app/internal/core/ports/services"
	"github.com/cultpass/finance_ledger_app/internal/dto"
	"github.com/cultpass/finance_ledger_app/internal/middleware"
	"github.com/cultpass/finance_ledger_app/internal/utils/finance"
)

var (
	ErrDuplicatePricing    = errors.New("booking already has a non-cancelled pricing")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrImmutablePricing    = errors.New("billed pricings are immutable")
	ErrNoApplicableRule    = errors.New("no reimbursement rule applies to the booking")
	ErrBookingNotPriceable = errors.New("booking must be used at a definite date to be priced")
)

// pricingService implements the pricing engine and the pricing status machine.
type pricingService struct {
	pricingRepo    portsrepo.PricingRepositoryFacade
	bookingRepo    portsrepo.BookingRepositoryFacade
	customRuleRepo portsrepo.CustomRuleRepositoryFacade
}

// NewPricingService creates a new PricingService.
func NewPricingService(pricingRepo portsrepo.PricingRepositoryFacade, bookingRepo portsrepo.BookingRepositoryFacade, customRuleRepo portsrepo.CustomRuleRepositoryFacade) portssvc.PricingSvcFacade {
	return &pricingService{
		pricingRepo:    pricingRepo,
		bookingRepo:    bookingRepo,
		customRuleRepo: customRuleRepo,
	}
}

// Ensure pricingService implements the portssvc.PricingSvcFacade interface
var _ portssvc.PricingSvcFacade = (*pricingService)(nil)

// resolveRule finds the reimbursement rule for a booking: a custom rule on
// the bank account covering the usage date wins, else the first standard rule
// matching the offer category. The engine only records which rule resolved;
// rule maintenance itself is an external concern.
func (s *pricingService) resolveRule(ctx context.Context, booking domain.Booking) (string, *string, decimal.Decimal, error) {
	custom, err := s.customRuleRepo.FindCustomRuleForBankAccount(ctx, booking.BankAccountID, *booking.DateUsed)
	if err == nil {
		return "", &custom.CustomRuleID, custom.Rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return "", nil, decimal.Zero, fmt.Errorf("failed to look up custom rule for bank account %s: %w", booking.BankAccountID, err)
	}

	for _, rule := range domain.StandardRules {
		if rule.AppliesTo(booking.Category) {
			return rule.RuleID, nil, rule.Rate, nil
		}
	}
	// The standard table ends with a fallback rule, so this is unexpected.
	return "", nil, decimal.Zero, fmt.Errorf("%w: category %s", ErrNoApplicableRule, booking.Category)
}

// ComputePricing prices a used booking exactly once.
// Implements portssvc.PricingSvcFacade
func (s *pricingService) ComputePricing(ctx context.Context, bookingID string) (*domain.Pricing, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	booking, err := s.bookingRepo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find booking %s: %w", bookingID, err)
	}
	if !booking.IsPriceable() {
		return nil, fmt.Errorf("%w: booking %s", ErrBookingNotPriceable, bookingID)
	}

	standardRule, customRuleID, rate, err := s.resolveRule(ctx, *booking)
	if err != nil {
		return nil, err
	}

	gross := booking.TotalAmount()
	grossCents := finance.EuroToCents(gross)
	reimbursedCents := finance.ReimbursedCents(gross, rate)

	now := time.Now().UTC()
	pricingID := uuid.NewString()

	// Amounts are signed cents: the reimbursement is payable by us, so the
	// pricing amount is negative (or zero for non-reimbursable bookings).
	pricing := domain.Pricing{
		PricingID:     pricingID,
		Status:        domain.PricingPending,
		BookingID:     booking.BookingID,
		BankAccountID: booking.BankAccountID,
		CreationDate:  now,
		ValueDate:     *booking.DateUsed,
		Amount:        -reimbursedCents,
		StandardRule:  standardRule,
		CustomRuleID:  customRuleID,
	}

	lines := finance.BuildPricingLines(grossCents, reimbursedCents)
	for i := range lines {
		lines[i].LineID = uuid.NewString()
		lines[i].PricingID = pricingID
	}
	if err := finance.ValidatePricingLines(pricing.Amount, lines); err != nil {
		// Should not happen; indicates a bug in the line decomposition.
		logger.Error("Pricing lines do not sum to the pricing amount", slog.String("pricing_id", pricingID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("internal error building pricing lines: %w", err)
	}

	// The repository computes the revenue snapshot and inserts everything in
	// one transaction; the partial unique index on booking_id is the guard
	// against two concurrent pricing attempts.
	saved, err := s.pricingRepo.SavePricing(ctx, pricing, lines, grossCents)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: booking %s", ErrDuplicatePricing, bookingID)
		}
		logger.Error("Failed to save pricing", slog.String("booking_id", bookingID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save pricing for booking %s: %w", bookingID, err)
	}

	logger.Info("Pricing computed",
		slog.String("pricing_id", saved.PricingID),
		slog.String("booking_id", bookingID),
		slog.Int64("amount", saved.Amount),
		slog.Int64("revenue", saved.Revenue),
	)
	saved.Lines = lines
	return saved, nil
}

// transition moves a pricing to target and appends the paired log row, both
// in one repository transaction.
func (s *pricingService) transition(ctx context.Context, pricingID string, target domain.PricingStatus, reason domain.PricingLogReason) (*domain.Pricing, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	pricing, err := s.pricingRepo.FindPricingByID(ctx, pricingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find pricing %s: %w", pricingID, err)
	}

	if !pricing.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s for pricing %s", ErrInvalidTransition, pricing.Status, target, pricingID)
	}

	log := domain.PricingLog{
		LogID:        uuid.NewString(),
		PricingID:    pricingID,
		Timestamp:    time.Now().UTC(),
		StatusBefore: pricing.Status,
		StatusAfter:  target,
		Reason:       reason,
	}
	if err := s.pricingRepo.UpdatePricingStatus(ctx, pricingID, target, log); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// A concurrent transition moved the pricing since we read it.
			return nil, fmt.Errorf("%w: pricing %s changed concurrently", ErrInvalidTransition, pricingID)
		}
		logger.Error("Failed to update pricing status", slog.String("pricing_id", pricingID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update pricing %s status: %w", pricingID, err)
	}

	logger.Info("Pricing status changed",
		slog.String("pricing_id", pricingID),
		slog.String("status_before", string(log.StatusBefore)),
		slog.String("status_after", string(log.StatusAfter)),
		slog.String("reason", string(reason)),
	)
	pricing.Status = target
	return pricing, nil
}

// MarkPricingValidated transitions a PENDING pricing to VALIDATED.
// Implements portssvc.PricingSvcFacade
func (s *pricingService) MarkPricingValidated(ctx context.Context, pricingID string) (*domain.Pricing, error) {
	return s.transition(ctx, pricingID, domain.PricingValidated, domain.ReasonValidation)
}

// MarkPricingRejected transitions a PENDING pricing to REJECTED.
// Implements portssvc.PricingSvcFacade
func (s *pricingService) MarkPricingRejected(ctx context.Context, pricingID string) (*domain.Pricing, error) {
	return s.transition(ctx, pricingID, domain.PricingRejected, domain.ReasonBackoffice)
}

// MarkPricingBilled transitions a VALIDATED pricing to BILLED.
// Implements portssvc.PricingSvcFacade
func (s *pricingService) MarkPricingBilled(ctx context.Context, pricingID string) (*domain.Pricing, error) {
	return s.transition(ctx, pricingID, domain.PricingBilled, domain.ReasonBilling)
}

// CancelPricing transitions a cancellable pricing to CANCELLED. Cancelling an
// already CANCELLED (or BILLED) pricing is rejected, not silently ignored.
// Implements portssvc.PricingSvcFacade
func (s *pricingService) CancelPricing(ctx context.Context, pricingID string, reason domain.PricingLogReason) (*domain.Pricing, error) {
	return s.transition(ctx, pricingID, domain.PricingCancelled, reason)
}

// DeletePricing hard-deletes a pricing with its lines and logs.
// Implements portssvc.PricingSvcFacade
func (s *pricingService) DeletePricing(ctx context.Context, pricingID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	pricing, err := s.pricingRepo.FindPricingByID(ctx, pricingID)
	if err != nil {
		return fmt.Errorf("failed to find pricing %s: %w", pricingID, err)
	}
	if !pricing.Status.IsDeletable() {
		return fmt.Errorf("%w: pricing %s", ErrImmutablePricing, pricingID)
	}

	if err := s.pricingRepo.DeletePricing(ctx, pricingID); err != nil {
		logger.Error("Failed to delete pricing", slog.String("pricing_id", pricingID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete pricing %s: %w", pricingID, err)
	}

	logger.Info("Pricing deleted", slog.String("pricing_id", pricingID), slog.String("status", string(pricing.Status)))
	return nil
}

// GetPricingByID retrieves a pricing with its lines and logs.
// Implements portssvc.PricingSvcFacade
func (s *pricingService) GetPricingByID(ctx context.Context, pricingID string) (*domain.Pricing, error) {
	pricing, err := s.pricingRepo.FindPricingByID(ctx, pricingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find pricing %s: %w", pricingID, err)
	}

	lines, err := s.pricingRepo.FindPricingLines(ctx, pricingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lines for pricing %s: %w", pricingID, err)
	}
	logs, err := s.pricingRepo.FindPricingLogs(ctx, pricingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logs for pricing %s: %w", pricingID, err)
	}

	pricing.Lines = lines
	pricing.Logs = logs
	return pricing, nil
}

// ListPricingsByBankAccount retrieves a paginated list of pricings.
// Implements portssvc.PricingSvcFacade
func (s *pricingService) ListPricingsByBankAccount(ctx context.Context, bankAccountID string, params dto.ListPricingsParams) (*dto.ListPricingsResponse, error) {
	pricings, nextToken, err := s.pricingRepo.ListPricingsByBankAccount(ctx, bankAccountID, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricings for bank account %s: %w", bankAccountID, err)
	}

	resp := &dto.ListPricingsResponse{NextToken: nextToken}
	for i := range pricings {
		resp.Pricings = append(resp.Pricings, dto.ToPricingResponse(&pricings[i]))
	}
	return resp, nil
}
