package accrualservice

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=accrualservice.go -destination=accrualservice_mock.go -package=accrualservice

type UserRepo interface {
	ApplyAccrual(ctx context.Context, userID int, day time.Time) (float64, bool, error)
	FindIDsWithActivePositions(ctx context.Context) ([]int, error)
}

var processingAccounts sync.Map

type Service struct {
	userRepo   UserRepo
	workerPool WorkerPoolI
	now        func() time.Time
}

func New(userRepo UserRepo, workers int) *Service {
	return &Service{
		userRepo:   userRepo,
		workerPool: NewWorkerPool(workers),
		now:        time.Now,
	}
}

// today truncates to the local midnight boundary; accrual is idempotent per
// calendar day.
func (s *Service) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Accrue credits the account's summed daily profit at most once per calendar
// day. The repository applies it as a single compare-and-set, so the
// scheduled batch and a dashboard load racing on the same account credit
// exactly once; the loser of the race is a benign no-op, never an error.
func (s *Service) Accrue(ctx context.Context, userID int) (float64, bool, error) {
	profit, applied, err := s.userRepo.ApplyAccrual(ctx, userID, s.today())
	if err != nil {
		zap.L().Error("can't accrue daily profit", zap.Int("userID", userID), zap.Error(err))
		return 0, false, err
	}
	if applied {
		zap.L().Info("daily profit accrued", zap.Int("userID", userID), zap.Float64("profit", profit))
	}
	return profit, applied, nil
}

// RunBatch visits every account holding active positions. A failure on one
// account is logged and must not block the rest of the batch.
func (s *Service) RunBatch(ctx context.Context) error {
	ids, err := s.userRepo.FindIDsWithActivePositions(ctx)
	if err != nil {
		zap.L().Error("Failed to fetch accounts for accrual batch", zap.Error(err))
		return err
	}

	var g errgroup.Group
	for _, userID := range ids {
		userID := userID

		if _, loaded := processingAccounts.LoadOrStore(userID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer processingAccounts.Delete(userID)
				_, _, err := s.Accrue(ctx, userID)
				return err
			})
			if err != nil {
				processingAccounts.Delete(userID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error scheduling accrual batch", zap.Error(err))
		return err
	}
	return nil
}
