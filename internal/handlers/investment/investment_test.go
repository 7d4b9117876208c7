package investment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sweeptrade/backend/internal/catalog"
	"github.com/sweeptrade/backend/internal/domain"
	"github.com/sweeptrade/backend/internal/dto"
	"github.com/sweeptrade/backend/internal/service/investmentservice"
	"github.com/sweeptrade/backend/internal/service/settlementservice"
	"github.com/sweeptrade/backend/pkg/auth"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*InvestmentHandler, *MockInvestmentService, *MockSettlementService) {
	ctrl := gomock.NewController(t)
	investmentService := NewMockInvestmentService(ctrl)
	settlementService := NewMockSettlementService(ctrl)
	handler := New(investmentService, settlementService)
	defer ctrl.Finish()
	return handler, investmentService, settlementService
}

func authedCtx() context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, 1)
}

func TestOpenHandler(t *testing.T) {
	start := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		body          string
		prepareMock   func(investmentService *MockInvestmentService)
		expectedCode  int
		expectedError string
	}{
		{
			name: "Position opened",
			body: `{"package":"Basic","amount":1000}`,
			prepareMock: func(investmentService *MockInvestmentService) {
				investmentService.EXPECT().
					Open(authedCtx(), 1, "Basic", 1000.0).
					Return(&domain.Investment{
						ID:          7,
						PackageID:   "Basic",
						Amount:      1000,
						DailyProfit: 150,
						Status:      domain.ActiveInvestmentStatus,
						StartDate:   start,
						ExpiryDate:  start.Add(5 * 24 * time.Hour),
					}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Unknown package",
			body: `{"package":"Platinum","amount":1000}`,
			prepareMock: func(investmentService *MockInvestmentService) {
				investmentService.EXPECT().
					Open(authedCtx(), 1, "Platinum", 1000.0).
					Return(nil, catalog.ErrInvalidPackage)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid package type",
		},
		{
			name: "Amount out of range",
			body: `{"package":"Basic","amount":10}`,
			prepareMock: func(investmentService *MockInvestmentService) {
				investmentService.EXPECT().
					Open(authedCtx(), 1, "Basic", 10.0).
					Return(nil, catalog.ErrOutOfRange)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "amount is outside the package range",
		},
		{
			name: "Insufficient funds",
			body: `{"package":"Basic","amount":1000}`,
			prepareMock: func(investmentService *MockInvestmentService) {
				investmentService.EXPECT().
					Open(authedCtx(), 1, "Basic", 1000.0).
					Return(nil, investmentservice.ErrInsufficientFunds)
			},
			expectedCode:  http.StatusPaymentRequired,
			expectedError: "insufficient wallet balance",
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func(investmentService *MockInvestmentService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name: "Internal server error",
			body: `{"package":"Basic","amount":1000}`,
			prepareMock: func(investmentService *MockInvestmentService) {
				investmentService.EXPECT().
					Open(authedCtx(), 1, "Basic", 1000.0).
					Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, investmentService, _ := NewMock(t)
			tt.prepareMock(investmentService)

			r := httptest.NewRequest(http.MethodPost, "/investments", bytes.NewBufferString(tt.body))
			r = r.WithContext(authedCtx())
			w := httptest.NewRecorder()

			handler.Open(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusOK {
				var body dto.InvestmentResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, 7, body.ID)
				assert.Equal(t, 150.0, body.DailyProfit)
			}
		})
	}
}

func TestListHandler(t *testing.T) {
	tests := []struct {
		name         string
		prepareMock  func(investmentService *MockInvestmentService)
		expectedCode int
		expectedLen  int
	}{
		{
			name: "Positions returned",
			prepareMock: func(investmentService *MockInvestmentService) {
				investmentService.EXPECT().GetInvestments(authedCtx(), 1).
					Return([]domain.Investment{
						{ID: 7, PackageID: "Basic", Amount: 1000},
						{ID: 8, PackageID: "Annual", Amount: 3000000},
					}, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  2,
		},
		{
			name: "No investments",
			prepareMock: func(investmentService *MockInvestmentService) {
				investmentService.EXPECT().GetInvestments(authedCtx(), 1).
					Return([]domain.Investment{}, nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "Internal server error",
			prepareMock: func(investmentService *MockInvestmentService) {
				investmentService.EXPECT().GetInvestments(authedCtx(), 1).
					Return(nil, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, investmentService, _ := NewMock(t)
			tt.prepareMock(investmentService)

			r := httptest.NewRequest(http.MethodGet, "/investments", nil)
			r = r.WithContext(authedCtx())
			w := httptest.NewRecorder()

			handler.List(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body []dto.InvestmentResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Len(t, body, tt.expectedLen)
			}
		})
	}
}

func TestTransferHandler(t *testing.T) {
	tests := []struct {
		name          string
		prepareMock   func(settlementService *MockSettlementService)
		expectedCode  int
		expectedError string
	}{
		{
			name: "Principal transferred",
			prepareMock: func(settlementService *MockSettlementService) {
				settlementService.EXPECT().Settle(authedCtx(), 1).Return(1000.0, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Nothing eligible",
			prepareMock: func(settlementService *MockSettlementService) {
				settlementService.EXPECT().Settle(authedCtx(), 1).
					Return(0.0, settlementservice.ErrNothingEligible)
			},
			expectedCode:  http.StatusConflict,
			expectedError: "no investments eligible for transfer",
		},
		{
			name: "Balance mismatch",
			prepareMock: func(settlementService *MockSettlementService) {
				settlementService.EXPECT().Settle(authedCtx(), 1).
					Return(0.0, settlementservice.ErrBalanceMismatch)
			},
			expectedCode:  http.StatusConflict,
			expectedError: "insufficient total investment balance",
		},
		{
			name: "Unknown user",
			prepareMock: func(settlementService *MockSettlementService) {
				settlementService.EXPECT().Settle(authedCtx(), 1).
					Return(0.0, settlementservice.ErrUserNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "user not found",
		},
		{
			name: "Internal server error",
			prepareMock: func(settlementService *MockSettlementService) {
				settlementService.EXPECT().Settle(authedCtx(), 1).
					Return(0.0, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, settlementService := NewMock(t)
			tt.prepareMock(settlementService)

			r := httptest.NewRequest(http.MethodPost, "/investments/transfer", nil)
			r = r.WithContext(authedCtx())
			w := httptest.NewRecorder()

			handler.Transfer(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusOK {
				var body dto.TransferResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, 1000.0, body.Transferred)
			}
		})
	}
}
