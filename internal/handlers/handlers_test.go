package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	_ "github.com/sweeptrade/backend/docs"
	"github.com/sweeptrade/backend/internal/service"
	gomock "go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	h := New(&service.Services{})
	assert.NotNil(t, h, "Handlers should not be nil")
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthHandler := NewMockAuthHandler(ctrl)
	mockWalletHandler := NewMockWalletHandler(ctrl)
	mockInvestmentHandler := NewMockInvestmentHandler(ctrl)

	mockAuthHandler.EXPECT().Register(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuthHandler.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()
	mockWalletHandler.EXPECT().Dashboard(gomock.Any(), gomock.Any()).AnyTimes()
	mockWalletHandler.EXPECT().Balance(gomock.Any(), gomock.Any()).AnyTimes()
	mockWalletHandler.EXPECT().Withdraw(gomock.Any(), gomock.Any()).AnyTimes()
	mockWalletHandler.EXPECT().Deposit(gomock.Any(), gomock.Any()).AnyTimes()
	mockWalletHandler.EXPECT().AttachProof(gomock.Any(), gomock.Any()).AnyTimes()
	mockWalletHandler.EXPECT().Transactions(gomock.Any(), gomock.Any()).AnyTimes()
	mockWalletHandler.EXPECT().UpdateWallets(gomock.Any(), gomock.Any()).AnyTimes()
	mockWalletHandler.EXPECT().ApproveWithdrawal(gomock.Any(), gomock.Any()).AnyTimes()
	mockWalletHandler.EXPECT().RejectWithdrawal(gomock.Any(), gomock.Any()).AnyTimes()
	mockWalletHandler.EXPECT().ConfirmDeposit(gomock.Any(), gomock.Any()).AnyTimes()
	mockInvestmentHandler.EXPECT().Open(gomock.Any(), gomock.Any()).AnyTimes()
	mockInvestmentHandler.EXPECT().List(gomock.Any(), gomock.Any()).AnyTimes()
	mockInvestmentHandler.EXPECT().Transfer(gomock.Any(), gomock.Any()).AnyTimes()

	h := &Handlers{
		AuthHandler:       mockAuthHandler,
		WalletHandler:     mockWalletHandler,
		InvestmentHandler: mockInvestmentHandler,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	tests := []struct {
		method string
		url    string
		status int
	}{
		{"POST", "/api/user/register", http.StatusOK},
		{"POST", "/api/user/login", http.StatusOK},
		{"GET", "/api/user/dashboard", http.StatusUnauthorized},
		{"GET", "/api/user/balance", http.StatusUnauthorized},
		{"POST", "/api/user/withdraw", http.StatusUnauthorized},
		{"POST", "/api/user/deposit", http.StatusUnauthorized},
		{"POST", "/api/user/deposit/1/proof", http.StatusUnauthorized},
		{"GET", "/api/user/transactions", http.StatusUnauthorized},
		{"PUT", "/api/user/wallets", http.StatusUnauthorized},
		{"GET", "/api/user/investments", http.StatusUnauthorized},
		{"POST", "/api/user/investments", http.StatusUnauthorized},
		{"POST", "/api/user/investments/transfer", http.StatusUnauthorized},
		{"POST", "/api/admin/withdrawals/1/approve", http.StatusUnauthorized},
		{"POST", "/api/admin/withdrawals/1/reject", http.StatusUnauthorized},
		{"POST", "/api/admin/deposits/1/confirm", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
