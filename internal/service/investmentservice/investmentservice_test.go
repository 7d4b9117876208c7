package investmentservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sweeptrade/backend/internal/catalog"
	"github.com/sweeptrade/backend/internal/domain"
	"github.com/sweeptrade/backend/internal/pg"
	gomock "go.uber.org/mock/gomock"
)

type mocks struct {
	userRepo       *MockUserRepo
	investmentRepo *MockInvestmentRepo
	txRepo         *MockTransactionRepo
	referral       *MockReferralService
	txManager      *pg.MockTXManager
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		userRepo:       NewMockUserRepo(ctrl),
		investmentRepo: NewMockInvestmentRepo(ctrl),
		txRepo:         NewMockTransactionRepo(ctrl),
		referral:       NewMockReferralService(ctrl),
		txManager:      pg.NewMockTXManager(ctrl),
	}
	service := New(catalog.Default(), m.userRepo, m.investmentRepo, m.txRepo, m.referral, m.txManager)
	m.txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	).AnyTimes()
	defer ctrl.Finish()
	return service, m
}

func TestOpen(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		packageID     string
		amount        float64
		prepareMock   func(m *mocks)
		expectedError error
		check         func(t *testing.T, inv *domain.Investment)
	}{
		{
			name:      "Basic tier position",
			packageID: "Basic",
			amount:    1000,
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().LockPrincipal(gomock.Any(), 1, 1000.0).Return(true, nil)
				m.investmentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, inv *domain.Investment) (*domain.Investment, error) {
						inv.ID = 7
						return inv, nil
					})
				m.txRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
						assert.Equal(t, domain.InvestmentTransaction, tx.Type)
						assert.Equal(t, 1000.0, tx.Amount)
						assert.Equal(t, domain.SuccessTransactionStatus, tx.Status)
						assert.NotNil(t, tx.InvestmentID)
						assert.Contains(t, tx.Reference, "INV-")
						return tx, nil
					})
				m.referral.EXPECT().ApplyInvestmentBonus(gomock.Any(), 1, 1000.0).Return(nil)
			},
			check: func(t *testing.T, inv *domain.Investment) {
				assert.Equal(t, "Basic", inv.PackageID)
				assert.Equal(t, 150.0, inv.DailyProfit)
				assert.Equal(t, domain.ActiveInvestmentStatus, inv.Status)
				assert.Equal(t, now, inv.StartDate)
				assert.Equal(t, now.Add(5*24*time.Hour), inv.ExpiryDate)
			},
		},
		{
			name:          "Unknown package",
			packageID:     "Platinum",
			amount:        1000,
			prepareMock:   func(m *mocks) {},
			expectedError: catalog.ErrInvalidPackage,
		},
		{
			name:          "Amount below tier minimum",
			packageID:     "Basic",
			amount:        499,
			prepareMock:   func(m *mocks) {},
			expectedError: catalog.ErrOutOfRange,
		},
		{
			name:      "Insufficient wallet balance",
			packageID: "Basic",
			amount:    1000,
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().LockPrincipal(gomock.Any(), 1, 1000.0).Return(false, nil)
			},
			expectedError: ErrInsufficientFunds,
		},
		{
			name:      "Failed referral cascade does not undo the position",
			packageID: "Basic",
			amount:    1000,
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().LockPrincipal(gomock.Any(), 1, 1000.0).Return(true, nil)
				m.investmentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, inv *domain.Investment) (*domain.Investment, error) {
						inv.ID = 7
						return inv, nil
					})
				m.txRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.Transaction{}, nil)
				m.referral.EXPECT().ApplyInvestmentBonus(gomock.Any(), 1, 1000.0).Return(errors.New("bonus failed"))
			},
			check: func(t *testing.T, inv *domain.Investment) {
				assert.Equal(t, domain.ActiveInvestmentStatus, inv.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			service.now = func() time.Time { return now }
			tt.prepareMock(m)

			inv, err := service.Open(context.Background(), 1, tt.packageID, tt.amount)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, inv)
			} else {
				assert.NoError(t, err)
				tt.check(t, inv)
			}
		})
	}
}

func TestGetInvestments(t *testing.T) {
	service, m := NewMock(t)

	t.Run("Positions returned", func(t *testing.T) {
		expected := []domain.Investment{{ID: 7, PackageID: "Basic", Amount: 1000}}
		m.investmentRepo.EXPECT().FindByUserID(gomock.Any(), 1).Return(expected, nil)

		investments, err := service.GetInvestments(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, expected, investments)
	})

	t.Run("Repository error", func(t *testing.T) {
		m.investmentRepo.EXPECT().FindByUserID(gomock.Any(), 1).Return(nil, errors.New("db error"))

		investments, err := service.GetInvestments(context.Background(), 1)
		assert.Error(t, err)
		assert.Nil(t, investments)
	})
}

func TestSweepExpired(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 1, 0, 0, time.UTC)

	t.Run("Matured positions expire", func(t *testing.T) {
		service, m := NewMock(t)
		service.now = func() time.Time { return now }
		m.investmentRepo.EXPECT().SweepExpired(gomock.Any(), now).Return(int64(2), nil)

		swept, err := service.SweepExpired(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, int64(2), swept)
	})

	t.Run("Repository error", func(t *testing.T) {
		service, m := NewMock(t)
		service.now = func() time.Time { return now }
		m.investmentRepo.EXPECT().SweepExpired(gomock.Any(), now).Return(int64(0), errors.New("db error"))

		_, err := service.SweepExpired(context.Background())
		assert.Error(t, err)
	})
}
