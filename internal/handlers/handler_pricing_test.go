package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cultpass/finance_ledger_app/internal/apperrors"
	"github.com/cultpass/finance_ledger_app/internal/core/domain"
	portssvc "github.com/cultpass/finance_ledger_app/internal/core/ports/services"
	"github.com/cultpass/finance_ledger_app/internal/core/services"
	"github.com/cultpass/finance_ledger_app/internal/dto"
	"github.com/cultpass/finance_ledger_app/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PricingService ---
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) ComputePricing(ctx context.Context, bookingID string) (*domain.Pricing, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pricing), args.Error(1)
}
func (m *MockPricingService) MarkPricingValidated(ctx context.Context, pricingID string) (*domain.Pricing, error) {
	args := m.Called(ctx, pricingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pricing), args.Error(1)
}
func (m *MockPricingService) MarkPricingRejected(ctx context.Context, pricingID string) (*domain.Pricing, error) {
	args := m.Called(ctx, pricingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pricing), args.Error(1)
}
func (m *MockPricingService) MarkPricingBilled(ctx context.Context, pricingID string) (*domain.Pricing, error) {
	args := m.Called(ctx, pricingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pricing), args.Error(1)
}
func (m *MockPricingService) CancelPricing(ctx context.Context, pricingID string, reason domain.PricingLogReason) (*domain.Pricing, error) {
	args := m.Called(ctx, pricingID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pricing), args.Error(1)
}
func (m *MockPricingService) DeletePricing(ctx context.Context, pricingID string) error {
	args := m.Called(ctx, pricingID)
	return args.Error(0)
}
func (m *MockPricingService) GetPricingByID(ctx context.Context, pricingID string) (*domain.Pricing, error) {
	args := m.Called(ctx, pricingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pricing), args.Error(1)
}
func (m *MockPricingService) ListPricingsByBankAccount(ctx context.Context, bankAccountID string, params dto.ListPricingsParams) (*dto.ListPricingsResponse, error) {
	args := m.Called(ctx, bankAccountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListPricingsResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.PricingSvcFacade = (*MockPricingService)(nil)

// --- Test Suite ---
type PricingHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockPricingService *MockPricingService
}

func (suite *PricingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockPricingService = new(MockPricingService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterPricingRoutes(v1, suite.mockPricingService)
}

func (suite *PricingHandlerTestSuite) TestComputePricing_Created() {
	bookingID := uuid.NewString()
	pricing := &domain.Pricing{
		PricingID: uuid.NewString(),
		Status:    domain.PricingPending,
		BookingID: bookingID,
		Amount:    -950,
	}

	suite.mockPricingService.On("ComputePricing", mock.Anything, bookingID).Return(pricing, nil).Once()

	body, _ := json.Marshal(dto.ComputePricingRequest{BookingID: bookingID})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/pricings", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.PricingResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(pricing.PricingID, resp.PricingID)
	suite.Equal(int64(-950), resp.Amount)
	suite.mockPricingService.AssertExpectations(suite.T())
}

func (suite *PricingHandlerTestSuite) TestComputePricing_DuplicateConflict() {
	bookingID := uuid.NewString()

	suite.mockPricingService.On("ComputePricing", mock.Anything, bookingID).Return(nil, services.ErrDuplicatePricing).Once()

	body, _ := json.Marshal(dto.ComputePricingRequest{BookingID: bookingID})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/pricings", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *PricingHandlerTestSuite) TestComputePricing_NotPriceable() {
	bookingID := uuid.NewString()

	suite.mockPricingService.On("ComputePricing", mock.Anything, bookingID).Return(nil, services.ErrBookingNotPriceable).Once()

	body, _ := json.Marshal(dto.ComputePricingRequest{BookingID: bookingID})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/pricings", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *PricingHandlerTestSuite) TestComputePricing_InvalidBody() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/pricings", bytes.NewBufferString(`{"bookingID": "not-a-uuid"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPricingService.AssertNotCalled(suite.T(), "ComputePricing", mock.Anything, mock.Anything)
}

func (suite *PricingHandlerTestSuite) TestGetPricing_NotFound() {
	pricingID := uuid.NewString()

	suite.mockPricingService.On("GetPricingByID", mock.Anything, pricingID).Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/pricings/%s", pricingID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PricingHandlerTestSuite) TestValidatePricing_OK() {
	pricingID := uuid.NewString()
	pricing := &domain.Pricing{PricingID: pricingID, Status: domain.PricingValidated}

	suite.mockPricingService.On("MarkPricingValidated", mock.Anything, pricingID).Return(pricing, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/pricings/%s/validate", pricingID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PricingResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.PricingValidated), resp.Status)
}

func (suite *PricingHandlerTestSuite) TestBillPricing_InvalidTransition() {
	pricingID := uuid.NewString()

	suite.mockPricingService.On("MarkPricingBilled", mock.Anything, pricingID).Return(nil, services.ErrInvalidTransition).Once()

	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/pricings/%s/bill", pricingID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *PricingHandlerTestSuite) TestCancelPricing_PassesReason() {
	pricingID := uuid.NewString()
	pricing := &domain.Pricing{PricingID: pricingID, Status: domain.PricingCancelled}

	suite.mockPricingService.On("CancelPricing", mock.Anything, pricingID, domain.ReasonMarkAsUnused).Return(pricing, nil).Once()

	body, _ := json.Marshal(dto.CancelPricingRequest{Reason: "MARK_AS_UNUSED"})
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/pricings/%s/cancel", pricingID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockPricingService.AssertExpectations(suite.T())
}

func (suite *PricingHandlerTestSuite) TestCancelPricing_UnknownReasonRejected() {
	pricingID := uuid.NewString()

	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/pricings/%s/cancel", pricingID), bytes.NewBufferString(`{"reason": "WHATEVER"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPricingService.AssertNotCalled(suite.T(), "CancelPricing", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PricingHandlerTestSuite) TestDeletePricing_Immutable() {
	pricingID := uuid.NewString()

	suite.mockPricingService.On("DeletePricing", mock.Anything, pricingID).Return(services.ErrImmutablePricing).Once()

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/pricings/%s", pricingID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *PricingHandlerTestSuite) TestDeletePricing_LinkedToCashflowConflict() {
	pricingID := uuid.NewString()

	suite.mockPricingService.On("DeletePricing", mock.Anything, pricingID).Return(apperrors.ErrConflict).Once()

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/pricings/%s", pricingID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *PricingHandlerTestSuite) TestDeletePricing_NoContent() {
	pricingID := uuid.NewString()

	suite.mockPricingService.On("DeletePricing", mock.Anything, pricingID).Return(nil).Once()

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/pricings/%s", pricingID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *PricingHandlerTestSuite) TestListPricings_ForwardsPagination() {
	bankAccountID := uuid.NewString()
	token := "opaque-token"
	resp := &dto.ListPricingsResponse{
		Pricings:  []dto.PricingResponse{{PricingID: uuid.NewString(), BankAccountID: bankAccountID}},
		NextToken: &token,
	}

	suite.mockPricingService.On("ListPricingsByBankAccount", mock.Anything, bankAccountID, dto.ListPricingsParams{Limit: 5}).Return(resp, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/bank-accounts/%s/pricings?limit=5", bankAccountID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var got dto.ListPricingsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Require().NotNil(got.NextToken)
	suite.Equal(token, *got.NextToken)
}

func TestPricingHandler(t *testing.T) {
	suite.Run(t, new(PricingHandlerTestSuite))
}
