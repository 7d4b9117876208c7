package service

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/sweeptrade/backend/internal/catalog"
	"github.com/sweeptrade/backend/internal/config"
	"github.com/sweeptrade/backend/internal/pg"
	"github.com/sweeptrade/backend/internal/repo"
	gomock "go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mockDB.Close()

	cfg := &config.Config{
		MinWithdrawal:       2000,
		SignupBonus:         10,
		ReferralBonusRate:   5,
		AccrualBatchWorkers: 4,
	}
	repos := repo.New(mockDB)
	txManager := pg.NewMockTXManager(ctrl)

	services := New(cfg, catalog.Default(), repos, txManager)

	assert.NotNil(t, services.AuthService)
	assert.NotNil(t, services.WalletService)
	assert.NotNil(t, services.InvestmentService)
	assert.NotNil(t, services.AccrualService)
	assert.NotNil(t, services.SettlementService)
	assert.NotNil(t, services.ReferralService)
}
