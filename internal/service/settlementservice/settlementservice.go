package settlementservice

import (
	"context"
	"errors"
	"time"

	"github.com/sweeptrade/backend/internal/domain"
	"github.com/sweeptrade/backend/internal/pg"
	"go.uber.org/zap"
)

//go:generate mockgen -source=settlementservice.go -destination=settlementservice_mock.go -package=settlementservice

type UserRepo interface {
	FindByIDForUpdate(ctx context.Context, userID int) (*domain.User, error)
	ReleasePrincipal(ctx context.Context, userID int, amount float64) (bool, error)
}

type InvestmentRepo interface {
	FindByUserIDForUpdate(ctx context.Context, userID int) ([]domain.Investment, error)
	RecordSettlement(ctx context.Context, investmentID int, kind string, amount float64) (bool, error)
}

var (
	ErrNothingEligible = errors.New("no investments eligible for transfer")
	ErrBalanceMismatch = errors.New("insufficient total investment balance")
	ErrUserNotFound    = errors.New("user not found")
)

// A position qualifies for the half release only on long-duration tiers.
const partialSettlementMinDuration = 365 * 24 * time.Hour

type Service struct {
	userRepo       UserRepo
	investmentRepo InvestmentRepo
	txManager      pg.TXManager
	now            func() time.Time
}

func New(userRepo UserRepo, investmentRepo InvestmentRepo, txManager pg.TXManager) *Service {
	return &Service{
		userRepo:       userRepo,
		investmentRepo: investmentRepo,
		txManager:      txManager,
		now:            time.Now,
	}
}

// Settle releases matured principal back into the spendable wallet. Full
// settlement pays the whole principal once a position's expiry has passed;
// the half release applies to annual-tier positions six months in. A position
// contributes to at most one of the two per call, full taking precedence.
//
// The whole pass runs in one transaction behind a lock on the user row:
// concurrent calls serialize, and the loser finds every settlement already
// recorded and fails with ErrNothingEligible. The settlement ledger's unique
// constraint keeps each release from ever paying twice.
func (s *Service) Settle(ctx context.Context, userID int) (float64, error) {
	var total float64

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		investments, err := s.investmentRepo.FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		now := s.now()
		for _, inv := range investments {
			kind, amount, eligible := s.eligibleSettlement(inv, now)
			if !eligible {
				continue
			}

			recorded, err := s.investmentRepo.RecordSettlement(ctx, inv.ID, kind, amount)
			if err != nil {
				return err
			}
			if recorded {
				total += amount
			}
		}

		if total <= 0 {
			return ErrNothingEligible
		}
		if total > user.TotalInvestmentBalance {
			return ErrBalanceMismatch
		}

		ok, err := s.userRepo.ReleasePrincipal(ctx, userID, total)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBalanceMismatch
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNothingEligible) || errors.Is(err, ErrBalanceMismatch) || errors.Is(err, ErrUserNotFound) {
			return 0, err
		}
		zap.L().Error("settlement failed", zap.Int("userID", userID), zap.Error(err))
		return 0, err
	}

	zap.L().Info("principal settled", zap.Int("userID", userID), zap.Float64("amount", total))
	return total, nil
}

func (s *Service) eligibleSettlement(inv domain.Investment, now time.Time) (kind string, amount float64, eligible bool) {
	// A fully settled position never pays again, not even the half release.
	if inv.FullySettled {
		return "", 0, false
	}
	if !inv.ExpiryDate.After(now) {
		return domain.FullSettlement, inv.Amount, true
	}

	longDuration := inv.ExpiryDate.Sub(inv.StartDate) >= partialSettlementMinDuration
	sixMonthsPassed := !inv.StartDate.AddDate(0, 6, 0).After(now)
	if longDuration && sixMonthsPassed && !inv.HalfSettled {
		return domain.HalfSettlement, inv.Amount / 2, true
	}

	return "", 0, false
}
