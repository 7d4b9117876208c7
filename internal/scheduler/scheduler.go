package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sweeptrade/backend/internal/config"
	"go.uber.org/zap"
)

//go:generate mockgen -source=scheduler.go -destination=scheduler_mock.go -package=scheduler

// The scheduler drives the same service entry points request handlers use:
// there is no separate code path for background work.

type InvestmentService interface {
	SweepExpired(ctx context.Context) (int64, error)
}

type AccrualService interface {
	RunBatch(ctx context.Context) error
}

type Scheduler struct {
	cron       *cron.Cron
	cfg        *config.Config
	investment InvestmentService
	accrual    AccrualService
}

func New(cfg *config.Config, investment InvestmentService, accrual AccrualService) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		cfg:        cfg,
		investment: investment,
		accrual:    accrual,
	}
}

// Start registers the expiry sweep and the daily accrual batch and runs them
// until the context is canceled.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.ExpirySweepSpec, func() {
		if _, err := s.investment.SweepExpired(ctx); err != nil {
			zap.L().Error("scheduled expiry sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("can't schedule expiry sweep: %w", err)
	}

	_, err = s.cron.AddFunc(s.cfg.AccrualBatchSpec, func() {
		if err := s.accrual.RunBatch(ctx); err != nil {
			zap.L().Error("scheduled accrual batch failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("can't schedule accrual batch: %w", err)
	}

	s.cron.Start()
	zap.L().Info("scheduler started",
		zap.String("expirySweep", s.cfg.ExpirySweepSpec),
		zap.String("accrualBatch", s.cfg.AccrualBatchSpec),
	)

	go func() {
		<-ctx.Done()
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		zap.L().Info("scheduler stopped")
	}()

	return nil
}
