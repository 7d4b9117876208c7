package referralservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sweeptrade/backend/internal/domain"
	"github.com/sweeptrade/backend/internal/pg"
	"go.uber.org/zap"
)

//go:generate mockgen -source=referralservice.go -destination=referralservice_mock.go -package=referralservice

type UserRepo interface {
	FindByID(ctx context.Context, userID int) (*domain.User, error)
	FindByReferralCode(ctx context.Context, code string) (*domain.User, error)
	AddReferralBonus(ctx context.Context, userID int, amount float64) error
}

type TransactionRepo interface {
	Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
}

var ErrInvalidReferralCode = errors.New("invalid referral code")

type Service struct {
	userRepo    UserRepo
	txRepo      TransactionRepo
	txManager   pg.TXManager
	signupBonus float64
	bonusRate   float64
}

func New(userRepo UserRepo, txRepo TransactionRepo, txManager pg.TXManager, signupBonus, bonusRate float64) *Service {
	return &Service{
		userRepo:    userRepo,
		txRepo:      txRepo,
		txManager:   txManager,
		signupBonus: signupBonus,
		bonusRate:   bonusRate,
	}
}

// ResolveCode maps a shared referral code to the referring account.
func (s *Service) ResolveCode(ctx context.Context, code string) (*domain.User, error) {
	referrer, err := s.userRepo.FindByReferralCode(ctx, code)
	if err != nil {
		zap.L().Error("can't resolve referral code", zap.Error(err))
		return nil, err
	}
	if referrer == nil {
		return nil, ErrInvalidReferralCode
	}
	return referrer, nil
}

// ApplySignupBonus credits the fixed signup bonus to the referrer. The credit
// and its audit record commit together.
func (s *Service) ApplySignupBonus(ctx context.Context, referrerID int, referredName string) error {
	return s.credit(ctx, referrerID, s.signupBonus,
		fmt.Sprintf("Referral bonus for referring %s", referredName))
}

// ApplyInvestmentBonus credits the referrer a share of a referred account's
// new investment. A no-op when the investor was not referred. Depth is
// exactly one level.
func (s *Service) ApplyInvestmentBonus(ctx context.Context, userID int, investedAmount float64) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || user.ReferredBy == nil {
		return nil
	}

	bonus := investedAmount * s.bonusRate / 100
	return s.credit(ctx, *user.ReferredBy, bonus,
		fmt.Sprintf("Referral bonus from %s's investment", user.FirstName))
}

func (s *Service) credit(ctx context.Context, referrerID int, amount float64, description string) error {
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.userRepo.AddReferralBonus(ctx, referrerID, amount); err != nil {
			return err
		}
		_, err := s.txRepo.Create(ctx, &domain.Transaction{
			UserID:      referrerID,
			Type:        domain.ReferralTransaction,
			Amount:      amount,
			Coin:        "USD",
			Status:      domain.SuccessTransactionStatus,
			Reference:   "REF-" + uuid.NewString(),
			Description: description,
		})
		return err
	})
	if err != nil {
		zap.L().Error("can't apply referral bonus", zap.Int("referrerID", referrerID), zap.Error(err))
		return err
	}
	return nil
}
