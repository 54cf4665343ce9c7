package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/cultpass/finance_ledger_app/internal/apperrors"
	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/cultpass/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cultpass/finance_ledger_app/internal/core/ports/services"
	"github.com/cultpass/finance_ledger_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CashflowRepository ---
type MockCashflowRepository struct {
	mock.Mock
}

// Ensure MockCashflowRepository implements portsrepo.CashflowRepositoryFacade
var _ portsrepo.CashflowRepositoryFacade = (*MockCashflowRepository)(nil)

func (m *MockCashflowRepository) FindCashflowByID(ctx context.Context, cashflowID string) (*domain.Cashflow, error) {
	args := m.Called(ctx, cashflowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cashflow), args.Error(1)
}

func (m *MockCashflowRepository) FindCashflowLogs(ctx context.Context, cashflowID string) ([]domain.CashflowLog, error) {
	args := m.Called(ctx, cashflowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashflowLog), args.Error(1)
}

func (m *MockCashflowRepository) FindPricingIDsByCashflowID(ctx context.Context, cashflowID string) ([]string, error) {
	args := m.Called(ctx, cashflowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCashflowRepository) GenerateCashflow(ctx context.Context, cashflow domain.Cashflow, cutoff time.Time) (*domain.Cashflow, error) {
	args := m.Called(ctx, cashflow, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cashflow), args.Error(1)
}

func (m *MockCashflowRepository) RegenerateCashflow(ctx context.Context, supersededCashflowID string, replacement domain.Cashflow) (*domain.Cashflow, error) {
	args := m.Called(ctx, supersededCashflowID, replacement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cashflow), args.Error(1)
}

func (m *MockCashflowRepository) UpdateCashflowStatus(ctx context.Context, cashflowID string, status domain.CashflowStatus, log domain.CashflowLog) error {
	args := m.Called(ctx, cashflowID, status, log)
	return args.Error(0)
}

// --- Mock BatchRepository ---
type MockBatchRepository struct {
	mock.Mock
}

var _ portsrepo.BatchRepositoryFacade = (*MockBatchRepository)(nil)

func (m *MockBatchRepository) SaveBatch(ctx context.Context, batch domain.CashflowBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.CashflowBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashflowBatch), args.Error(1)
}

func (m *MockBatchRepository) FindBatchByCutoff(ctx context.Context, cutoff time.Time) (*domain.CashflowBatch, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashflowBatch), args.Error(1)
}

func (m *MockBatchRepository) ListBatches(ctx context.Context, limit int) ([]domain.CashflowBatch, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashflowBatch), args.Error(1)
}

// --- Mock BankAccountRepository ---
type MockBankAccountRepository struct {
	mock.Mock
}

var _ portsrepo.BankAccountRepositoryFacade = (*MockBankAccountRepository)(nil)

func (m *MockBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

// --- Test Suite ---

type CashflowServiceTestSuite struct {
	suite.Suite
	mockCashflowRepo    *MockCashflowRepository
	mockBatchRepo       *MockBatchRepository
	mockBankAccountRepo *MockBankAccountRepository
	service             portssvc.CashflowSvcFacade
	bankAccountID       string
	cutoff              time.Time
	batch               *domain.CashflowBatch
}

func (suite *CashflowServiceTestSuite) SetupTest() {
	suite.mockCashflowRepo = new(MockCashflowRepository)
	suite.mockBatchRepo = new(MockBatchRepository)
	suite.mockBankAccountRepo = new(MockBankAccountRepository)
	suite.service = services.NewCashflowService(suite.mockCashflowRepo, suite.mockBatchRepo, suite.mockBankAccountRepo, 14)

	suite.bankAccountID = uuid.NewString()
	suite.cutoff = time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	suite.batch = &domain.CashflowBatch{
		BatchID:      uuid.NewString(),
		CreationDate: suite.cutoff.Add(-time.Hour),
		Cutoff:       suite.cutoff,
	}
}

// --- GenerateCashflows ---

func (suite *CashflowServiceTestSuite) TestGenerateCashflows_Success() {
	ctx := context.Background()
	account := &domain.BankAccount{BankAccountID: suite.bankAccountID}

	suite.mockBankAccountRepo.On("FindBankAccountByID", ctx, suite.bankAccountID).Return(account, nil).Once()
	suite.mockBatchRepo.On("FindBatchByCutoff", ctx, suite.cutoff).Return(suite.batch, nil).Once()
	suite.mockCashflowRepo.On("GenerateCashflow", ctx, mock.AnythingOfType("domain.Cashflow"), suite.cutoff).
		Run(func(args mock.Arguments) {
			cashflow := args.Get(1).(domain.Cashflow)
			suite.Equal(domain.CashflowPending, cashflow.Status)
			suite.Equal(suite.bankAccountID, cashflow.BankAccountID)
			suite.Equal(suite.batch.BatchID, cashflow.BatchID)
			suite.NotEmpty(cashflow.TransactionID)
		}).
		Return(&domain.Cashflow{
			CashflowID:    uuid.NewString(),
			Status:        domain.CashflowPending,
			BankAccountID: suite.bankAccountID,
			BatchID:       suite.batch.BatchID,
			Amount:        -800,
			PricingIDs:    []string{uuid.NewString(), uuid.NewString()},
		}, nil).Once()

	cashflow, err := suite.service.GenerateCashflows(ctx, suite.bankAccountID, suite.cutoff)

	suite.Require().NoError(err)
	suite.Require().NotNil(cashflow)
	suite.Equal(int64(-800), cashflow.Amount)
	suite.Len(cashflow.PricingIDs, 2)
	suite.mockCashflowRepo.AssertExpectations(suite.T())
	suite.mockBatchRepo.AssertExpectations(suite.T())
}

func (suite *CashflowServiceTestSuite) TestGenerateCashflows_ZeroSumCreatesNothing() {
	ctx := context.Background()
	account := &domain.BankAccount{BankAccountID: suite.bankAccountID}

	suite.mockBankAccountRepo.On("FindBankAccountByID", ctx, suite.bankAccountID).Return(account, nil).Once()
	suite.mockBatchRepo.On("FindBatchByCutoff", ctx, suite.cutoff).Return(suite.batch, nil).Once()
	suite.mockCashflowRepo.On("GenerateCashflow", ctx, mock.AnythingOfType("domain.Cashflow"), suite.cutoff).Return(nil, nil).Once()

	cashflow, err := suite.service.GenerateCashflows(ctx, suite.bankAccountID, suite.cutoff)

	suite.Require().NoError(err)
	suite.Nil(cashflow)
	suite.mockCashflowRepo.AssertExpectations(suite.T())
}

func (suite *CashflowServiceTestSuite) TestGenerateCashflows_NoBatchForCutoff() {
	ctx := context.Background()
	account := &domain.BankAccount{BankAccountID: suite.bankAccountID}

	suite.mockBankAccountRepo.On("FindBankAccountByID", ctx, suite.bankAccountID).Return(account, nil).Once()
	suite.mockBatchRepo.On("FindBatchByCutoff", ctx, suite.cutoff).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GenerateCashflows(ctx, suite.bankAccountID, suite.cutoff)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrBatchNotFound)
	suite.mockCashflowRepo.AssertNotCalled(suite.T(), "GenerateCashflow", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CashflowServiceTestSuite) TestGenerateCashflows_BankAccountNotFound() {
	ctx := context.Background()
	bankAccountID := uuid.NewString()

	suite.mockBankAccountRepo.On("FindBankAccountByID", ctx, bankAccountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GenerateCashflows(ctx, bankAccountID, suite.cutoff)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockBatchRepo.AssertNotCalled(suite.T(), "FindBatchByCutoff", mock.Anything, mock.Anything)
}

// --- RegenerateCashflow ---

func (suite *CashflowServiceTestSuite) TestRegenerateCashflow_FreshTransactionID() {
	ctx := context.Background()
	supersededID := uuid.NewString()
	superseded := &domain.Cashflow{
		CashflowID:    supersededID,
		Status:        domain.CashflowAccepted,
		BankAccountID: suite.bankAccountID,
		BatchID:       suite.batch.BatchID,
		Amount:        -800,
		TransactionID: uuid.NewString(),
	}
	pricingIDs := []string{uuid.NewString(), uuid.NewString()}

	suite.mockCashflowRepo.On("FindCashflowByID", ctx, supersededID).Return(superseded, nil).Once()
	suite.mockCashflowRepo.On("RegenerateCashflow", ctx, supersededID, mock.AnythingOfType("domain.Cashflow")).
		Run(func(args mock.Arguments) {
			replacement := args.Get(2).(domain.Cashflow)
			suite.Equal(domain.CashflowPending, replacement.Status)
			suite.Equal(superseded.BankAccountID, replacement.BankAccountID)
			suite.Equal(superseded.BatchID, replacement.BatchID)
			suite.NotEqual(superseded.TransactionID, replacement.TransactionID)
			suite.NotEqual(supersededID, replacement.CashflowID)
		}).
		Return(&domain.Cashflow{
			CashflowID:    uuid.NewString(),
			Status:        domain.CashflowPending,
			BankAccountID: suite.bankAccountID,
			BatchID:       suite.batch.BatchID,
			Amount:        -800,
			TransactionID: uuid.NewString(),
			PricingIDs:    pricingIDs,
		}, nil).Once()

	replacement, err := suite.service.RegenerateCashflow(ctx, supersededID)

	suite.Require().NoError(err)
	suite.Equal(int64(-800), replacement.Amount)
	suite.Equal(pricingIDs, replacement.PricingIDs)
	suite.mockCashflowRepo.AssertExpectations(suite.T())
}

func (suite *CashflowServiceTestSuite) TestRegenerateCashflow_NotFound() {
	ctx := context.Background()
	cashflowID := uuid.NewString()

	suite.mockCashflowRepo.On("FindCashflowByID", ctx, cashflowID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.RegenerateCashflow(ctx, cashflowID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockCashflowRepo.AssertNotCalled(suite.T(), "RegenerateCashflow", mock.Anything, mock.Anything, mock.Anything)
}

// --- Status transitions ---

func (suite *CashflowServiceTestSuite) TestMarkCashflowUnderReview_Success() {
	ctx := context.Background()
	cashflowID := uuid.NewString()
	cashflow := &domain.Cashflow{CashflowID: cashflowID, Status: domain.CashflowPending}
	details := map[string]string{"export": "2024-03-16"}

	suite.mockCashflowRepo.On("FindCashflowByID", ctx, cashflowID).Return(cashflow, nil).Once()
	suite.mockCashflowRepo.On("UpdateCashflowStatus", ctx, cashflowID, domain.CashflowUnderReview, mock.AnythingOfType("domain.CashflowLog")).
		Run(func(args mock.Arguments) {
			log := args.Get(3).(domain.CashflowLog)
			suite.Equal(domain.CashflowPending, log.StatusBefore)
			suite.Equal(domain.CashflowUnderReview, log.StatusAfter)
			suite.Equal(details, log.Details)
		}).
		Return(nil).Once()

	updated, err := suite.service.MarkCashflowUnderReview(ctx, cashflowID, details)

	suite.Require().NoError(err)
	suite.Equal(domain.CashflowUnderReview, updated.Status)
	suite.mockCashflowRepo.AssertExpectations(suite.T())
}

func (suite *CashflowServiceTestSuite) TestMarkCashflowUnderReview_NilDetailsBecomeEmpty() {
	ctx := context.Background()
	cashflowID := uuid.NewString()
	cashflow := &domain.Cashflow{CashflowID: cashflowID, Status: domain.CashflowPending}

	suite.mockCashflowRepo.On("FindCashflowByID", ctx, cashflowID).Return(cashflow, nil).Once()
	suite.mockCashflowRepo.On("UpdateCashflowStatus", ctx, cashflowID, domain.CashflowUnderReview, mock.AnythingOfType("domain.CashflowLog")).
		Run(func(args mock.Arguments) {
			log := args.Get(3).(domain.CashflowLog)
			suite.NotNil(log.Details)
			suite.Empty(log.Details)
		}).
		Return(nil).Once()

	_, err := suite.service.MarkCashflowUnderReview(ctx, cashflowID, nil)

	suite.Require().NoError(err)
}

func (suite *CashflowServiceTestSuite) TestMarkCashflowAccepted_FromPendingFails() {
	ctx := context.Background()
	cashflowID := uuid.NewString()
	cashflow := &domain.Cashflow{CashflowID: cashflowID, Status: domain.CashflowPending}

	suite.mockCashflowRepo.On("FindCashflowByID", ctx, cashflowID).Return(cashflow, nil).Once()

	_, err := suite.service.MarkCashflowAccepted(ctx, cashflowID, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidTransition)
	suite.mockCashflowRepo.AssertNotCalled(suite.T(), "UpdateCashflowStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CashflowServiceTestSuite) TestMarkCashflowAccepted_LostRaceIsInvalidTransition() {
	ctx := context.Background()
	cashflowID := uuid.NewString()
	cashflow := &domain.Cashflow{CashflowID: cashflowID, Status: domain.CashflowUnderReview}

	suite.mockCashflowRepo.On("FindCashflowByID", ctx, cashflowID).Return(cashflow, nil).Once()
	suite.mockCashflowRepo.On("UpdateCashflowStatus", ctx, cashflowID, domain.CashflowAccepted, mock.AnythingOfType("domain.CashflowLog")).
		Return(apperrors.ErrConflict).Once()

	_, err := suite.service.MarkCashflowAccepted(ctx, cashflowID, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidTransition)
	suite.mockCashflowRepo.AssertExpectations(suite.T())
}

func (suite *CashflowServiceTestSuite) TestMarkCashflowUnderReview_FromAcceptedFails() {
	ctx := context.Background()
	cashflowID := uuid.NewString()
	cashflow := &domain.Cashflow{CashflowID: cashflowID, Status: domain.CashflowAccepted}

	suite.mockCashflowRepo.On("FindCashflowByID", ctx, cashflowID).Return(cashflow, nil).Once()

	_, err := suite.service.MarkCashflowUnderReview(ctx, cashflowID, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidTransition)
}

// --- Reads ---

func (suite *CashflowServiceTestSuite) TestGetCashflowByID_IncludesLogsAndPricings() {
	ctx := context.Background()
	cashflowID := uuid.NewString()
	cashflow := &domain.Cashflow{CashflowID: cashflowID, Status: domain.CashflowUnderReview, Amount: -500}
	logs := []domain.CashflowLog{{LogID: uuid.NewString(), CashflowID: cashflowID, StatusBefore: domain.CashflowPending, StatusAfter: domain.CashflowUnderReview}}
	pricingIDs := []string{uuid.NewString()}

	suite.mockCashflowRepo.On("FindCashflowByID", ctx, cashflowID).Return(cashflow, nil).Once()
	suite.mockCashflowRepo.On("FindCashflowLogs", ctx, cashflowID).Return(logs, nil).Once()
	suite.mockCashflowRepo.On("FindPricingIDsByCashflowID", ctx, cashflowID).Return(pricingIDs, nil).Once()

	got, err := suite.service.GetCashflowByID(ctx, cashflowID)

	suite.Require().NoError(err)
	suite.Len(got.Logs, 1)
	suite.Equal(pricingIDs, got.PricingIDs)
}

// --- Batches ---

func (suite *CashflowServiceTestSuite) TestCreateBatch_Success() {
	ctx := context.Background()

	suite.mockBatchRepo.On("SaveBatch", ctx, mock.AnythingOfType("domain.CashflowBatch")).
		Run(func(args mock.Arguments) {
			batch := args.Get(1).(domain.CashflowBatch)
			suite.Equal(suite.cutoff, batch.Cutoff)
			suite.NotEmpty(batch.BatchID)
		}).
		Return(nil).Once()

	batch, err := suite.service.CreateBatch(ctx, suite.cutoff)

	suite.Require().NoError(err)
	suite.Equal(suite.cutoff, batch.Cutoff)
	suite.mockBatchRepo.AssertExpectations(suite.T())
}

func (suite *CashflowServiceTestSuite) TestCreateBatch_DuplicateCutoff() {
	ctx := context.Background()

	suite.mockBatchRepo.On("SaveBatch", ctx, mock.AnythingOfType("domain.CashflowBatch")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateBatch(ctx, suite.cutoff)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDuplicateBatch)
}

func (suite *CashflowServiceTestSuite) TestCreateBatch_ZeroCutoff() {
	ctx := context.Background()

	_, err := suite.service.CreateBatch(ctx, time.Time{})

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidCutoff)
	suite.mockBatchRepo.AssertNotCalled(suite.T(), "SaveBatch", mock.Anything, mock.Anything)
}

func (suite *CashflowServiceTestSuite) TestListBatches() {
	ctx := context.Background()
	batches := []domain.CashflowBatch{*suite.batch}

	suite.mockBatchRepo.On("ListBatches", ctx, 20).Return(batches, nil).Once()

	got, err := suite.service.ListBatches(ctx, 20)

	suite.Require().NoError(err)
	suite.Len(got, 1)
}

func (suite *CashflowServiceTestSuite) TestGetInvoicePeriod() {
	start, end := suite.service.GetInvoicePeriod(suite.cutoff)

	suite.Equal(suite.cutoff, end)
	suite.Equal(suite.cutoff.AddDate(0, 0, -14), start)
	suite.True(start.Before(end))
}

func TestCashflowService(t *testing.T) {
	suite.Run(t, new(CashflowServiceTestSuite))
}
