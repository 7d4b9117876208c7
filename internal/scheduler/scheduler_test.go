package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sweeptrade/backend/internal/config"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T, cfg *config.Config) (*Scheduler, *MockInvestmentService, *MockAccrualService) {
	ctrl := gomock.NewController(t)
	investment := NewMockInvestmentService(ctrl)
	accrual := NewMockAccrualService(ctrl)
	scheduler := New(cfg, investment, accrual)
	defer ctrl.Finish()
	return scheduler, investment, accrual
}

func TestStart(t *testing.T) {
	t.Run("Both jobs registered", func(t *testing.T) {
		cfg := &config.Config{
			ExpirySweepSpec:  "* * * * *",
			AccrualBatchSpec: "0 0 * * *",
		}
		scheduler, investment, accrual := NewMock(t, cfg)
		investment.EXPECT().SweepExpired(gomock.Any()).Return(int64(0), nil).AnyTimes()
		accrual.EXPECT().RunBatch(gomock.Any()).Return(nil).AnyTimes()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err := scheduler.Start(ctx)
		assert.NoError(t, err)
		assert.Len(t, scheduler.cron.Entries(), 2)
	})

	t.Run("Bad expiry sweep spec", func(t *testing.T) {
		cfg := &config.Config{
			ExpirySweepSpec:  "not a cron spec",
			AccrualBatchSpec: "0 0 * * *",
		}
		scheduler, _, _ := NewMock(t, cfg)

		err := scheduler.Start(context.Background())
		assert.ErrorContains(t, err, "can't schedule expiry sweep")
	})

	t.Run("Bad accrual batch spec", func(t *testing.T) {
		cfg := &config.Config{
			ExpirySweepSpec:  "* * * * *",
			AccrualBatchSpec: "not a cron spec",
		}
		scheduler, _, _ := NewMock(t, cfg)

		err := scheduler.Start(context.Background())
		assert.ErrorContains(t, err, "can't schedule accrual batch")
	})
}
