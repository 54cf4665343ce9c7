package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/cultpass/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cultpass/finance_ledger_app/internal/core/ports/services"
	"github.com/cultpass/finance_ledger_app/internal/dto"
	"github.com/cultpass/finance_ledger_app/internal/middleware"
)

var (
	ErrInvalidRate       = errors.New("rate must be between 0 and 1")
	ErrInvalidRulePeriod = errors.New("rule validity period must end after it starts")
)

// bankAccountService manages payee bank accounts and their negotiated
// reimbursement rules.
type bankAccountService struct {
	bankAccountRepo portsrepo.BankAccountRepositoryFacade
	customRuleRepo  portsrepo.CustomRuleRepositoryFacade
}

// NewBankAccountService creates a new BankAccountService
func NewBankAccountService(bankAccountRepo portsrepo.BankAccountRepositoryFacade, customRuleRepo portsrepo.CustomRuleRepositoryFacade) portssvc.BankAccountSvcFacade {
	return &bankAccountService{
		bankAccountRepo: bankAccountRepo,
		customRuleRepo:  customRuleRepo,
	}
}

// Ensure bankAccountService implements the portssvc.BankAccountSvcFacade interface
var _ portssvc.BankAccountSvcFacade = (*bankAccountService)(nil)

// CreateBankAccount registers a new bank account with default frequencies.
// Implements portssvc.BankAccountSvcFacade
func (s *bankAccountService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	account := domain.BankAccount{
		BankAccountID:     uuid.NewString(),
		Label:             req.Label,
		IBAN:              req.IBAN,
		BIC:               req.BIC,
		CashflowFrequency: domain.EveryTwoWeeks,
		InvoiceFrequency:  domain.EveryTwoWeeks,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.bankAccountRepo.SaveBankAccount(ctx, account); err != nil {
		logger.Error("Failed to save bank account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}

	logger.Info("Bank account created", slog.String("bank_account_id", account.BankAccountID), slog.String("label", account.Label))
	return &account, nil
}

// GetBankAccountByID retrieves a bank account.
// Implements portssvc.BankAccountSvcFacade
func (s *bankAccountService) GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	account, err := s.bankAccountRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}
	return account, nil
}

// CreateCustomRule attaches a negotiated reimbursement rate to a bank account.
// A custom rule always wins over the standard rules while it covers the
// pricing's value date.
// Implements portssvc.BankAccountSvcFacade
func (s *bankAccountService) CreateCustomRule(ctx context.Context, req dto.CreateCustomRuleRequest) (*domain.CustomRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Rate.IsNegative() || req.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, ErrInvalidRate
	}
	if req.ValidUntil != nil && !req.ValidUntil.After(req.ValidFrom) {
		return nil, ErrInvalidRulePeriod
	}
	if _, err := s.bankAccountRepo.FindBankAccountByID(ctx, req.BankAccountID); err != nil {
		return nil, fmt.Errorf("failed to find bank account %s: %w", req.BankAccountID, err)
	}

	now := time.Now().UTC()
	rule := domain.CustomRule{
		CustomRuleID:  uuid.NewString(),
		BankAccountID: req.BankAccountID,
		Rate:          req.Rate,
		ValidFrom:     req.ValidFrom.UTC(),
		ValidUntil:    req.ValidUntil,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.customRuleRepo.SaveCustomRule(ctx, rule); err != nil {
		logger.Error("Failed to save custom rule", slog.String("bank_account_id", req.BankAccountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save custom rule: %w", err)
	}

	logger.Info("Custom rule created",
		slog.String("custom_rule_id", rule.CustomRuleID),
		slog.String("bank_account_id", rule.BankAccountID),
		slog.String("rate", rule.Rate.String()),
	)
	return &rule, nil
}
