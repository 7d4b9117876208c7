package investmentservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sweeptrade/backend/internal/catalog"
	"github.com/sweeptrade/backend/internal/domain"
	"github.com/sweeptrade/backend/internal/pg"
	"go.uber.org/zap"
)

//go:generate mockgen -source=investmentservice.go -destination=investmentservice_mock.go -package=investmentservice

type UserRepo interface {
	LockPrincipal(ctx context.Context, userID int, amount float64) (bool, error)
}

type InvestmentRepo interface {
	Create(ctx context.Context, inv *domain.Investment) (*domain.Investment, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Investment, error)
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
	SumActiveDailyProfit(ctx context.Context, userID int) (float64, error)
}

type TransactionRepo interface {
	Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
}

type ReferralService interface {
	ApplyInvestmentBonus(ctx context.Context, userID int, investedAmount float64) error
}

var ErrInsufficientFunds = errors.New("insufficient wallet balance")

type Service struct {
	catalog        *catalog.Catalog
	userRepo       UserRepo
	investmentRepo InvestmentRepo
	txRepo         TransactionRepo
	referral       ReferralService
	txManager      pg.TXManager
	now            func() time.Time
}

func New(cat *catalog.Catalog, userRepo UserRepo, investmentRepo InvestmentRepo, txRepo TransactionRepo, referral ReferralService, txManager pg.TXManager) *Service {
	return &Service{
		catalog:        cat,
		userRepo:       userRepo,
		investmentRepo: investmentRepo,
		txRepo:         txRepo,
		referral:       referral,
		txManager:      txManager,
		now:            time.Now,
	}
}

// Open places a new position against a package tier. The wallet debit, the
// locked-balance increase, the position row and its audit record commit in
// one transaction; the referral cascade runs afterwards in its own unit.
func (s *Service) Open(ctx context.Context, userID int, packageID string, amount float64) (*domain.Investment, error) {
	def, err := s.catalog.Resolve(packageID)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.ValidateAmount(def, amount); err != nil {
		return nil, err
	}

	now := s.now()
	investment := &domain.Investment{
		UserID:      userID,
		PackageID:   def.ID,
		Amount:      amount,
		DailyProfit: def.DailyProfit(amount),
		Status:      domain.ActiveInvestmentStatus,
		StartDate:   now,
		ExpiryDate:  now.Add(def.Duration()),
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		ok, err := s.userRepo.LockPrincipal(ctx, userID, amount)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientFunds
		}

		if _, err := s.investmentRepo.Create(ctx, investment); err != nil {
			return err
		}

		_, err = s.txRepo.Create(ctx, &domain.Transaction{
			UserID:       userID,
			InvestmentID: &investment.ID,
			Type:         domain.InvestmentTransaction,
			Amount:       amount,
			Coin:         "USD",
			Status:       domain.SuccessTransactionStatus,
			Reference:    "INV-" + uuid.NewString(),
		})
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrInsufficientFunds) {
			zap.L().Error("can't open investment", zap.Int("userID", userID), zap.Error(err))
		}
		return nil, err
	}

	// The position is committed; a failed bonus credit must not undo it.
	if err := s.referral.ApplyInvestmentBonus(ctx, userID, amount); err != nil {
		zap.L().Error("referral cascade failed after investment", zap.Int("userID", userID), zap.Error(err))
	}

	zap.L().Info("investment opened",
		zap.Int("userID", userID),
		zap.String("package", def.ID),
		zap.Float64("amount", amount),
	)
	return investment, nil
}

func (s *Service) GetInvestments(ctx context.Context, userID int) ([]domain.Investment, error) {
	investments, err := s.investmentRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get investments", zap.Error(err))
		return nil, err
	}
	return investments, nil
}

func (s *Service) TotalDailyProfit(ctx context.Context, userID int) (float64, error) {
	return s.investmentRepo.SumActiveDailyProfit(ctx, userID)
}

// SweepExpired transitions matured positions to EXPIRED. Pure status change;
// principal stays locked until the owner requests settlement.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	swept, err := s.investmentRepo.SweepExpired(ctx, s.now())
	if err != nil {
		zap.L().Error("expiry sweep failed", zap.Error(err))
		return 0, err
	}
	if swept > 0 {
		zap.L().Info("expired investments swept", zap.Int64("count", swept))
	}
	return swept, nil
}
