package walletservice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sweeptrade/backend/internal/domain"
	"github.com/sweeptrade/backend/internal/pg"
	"go.uber.org/zap"
)

//go:generate mockgen -source=walletservice.go -destination=walletservice_mock.go -package=walletservice

type UserRepo interface {
	FindByID(ctx context.Context, userID int) (*domain.User, error)
	CreditWallet(ctx context.Context, userID int, amount float64) error
	DebitWallet(ctx context.Context, userID int, amount float64) (bool, error)
	AddWithdrawnTotal(ctx context.Context, userID int, amount float64) error
	UpdateWallets(ctx context.Context, userID int, bitcoin, ethereum, usdt, phrase string) error
}

type TransactionRepo interface {
	Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	FindByID(ctx context.Context, id int) (*domain.Transaction, error)
	FindByUserID(ctx context.Context, userID int, txType string) ([]domain.Transaction, error)
	UpdateStatus(ctx context.Context, id int, from, to string) error
	AttachProof(ctx context.Context, id, userID int, proof string) error
}

var (
	ErrMissingWalletAddress = errors.New("wallet address is not set for this coin")
	ErrInvalidSecret        = errors.New("incorrect wallet phrase")
	ErrInsufficientFunds    = errors.New("insufficient wallet balance")
	ErrBelowMinimum         = errors.New("amount is below the withdrawal minimum")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotFound             = errors.New("transaction not found")
	ErrNotPending           = errors.New("transaction is not pending")
)

type Service struct {
	userRepo      UserRepo
	txRepo        TransactionRepo
	txManager     pg.TXManager
	minWithdrawal float64
}

func New(userRepo UserRepo, txRepo TransactionRepo, txManager pg.TXManager, minWithdrawal float64) *Service {
	return &Service{
		userRepo:      userRepo,
		txRepo:        txRepo,
		txManager:     txManager,
		minWithdrawal: minWithdrawal,
	}
}

func (s *Service) GetUser(ctx context.Context, userID int) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get user", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func addressFor(user *domain.User, coin string) string {
	switch coin {
	case "Bitcoin":
		return user.BitcoinAddress
	case "Ethereum":
		return user.EthereumAddress
	case "USDT":
		return user.USDTAddress
	}
	return ""
}

// Withdraw debits the wallet and queues a pending withdrawal for external
// review. Preconditions are checked in order: address, secret phrase, funds,
// minimum. The debit itself re-checks the balance in the same statement, so
// the early funds check can't go stale.
func (s *Service) Withdraw(ctx context.Context, userID int, amount float64, coin, phrase string) (*domain.Transaction, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	address := addressFor(user, coin)
	if address == "" {
		return nil, ErrMissingWalletAddress
	}
	if user.WalletPhrase != phrase {
		return nil, ErrInvalidSecret
	}
	if user.WalletBalance < amount {
		return nil, ErrInsufficientFunds
	}
	if amount < s.minWithdrawal {
		return nil, ErrBelowMinimum
	}

	withdrawal := &domain.Transaction{
		UserID:        userID,
		Type:          domain.WithdrawalTransaction,
		Amount:        amount,
		Coin:          coin,
		Status:        domain.PendingTransactionStatus,
		Reference:     "WITH-" + uuid.NewString(),
		WalletAddress: address,
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		ok, err := s.userRepo.DebitWallet(ctx, userID, amount)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientFunds
		}
		_, err = s.txRepo.Create(ctx, withdrawal)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrInsufficientFunds) {
			zap.L().Error("withdrawal failed", zap.Int("userID", userID), zap.Error(err))
		}
		return nil, err
	}

	zap.L().Info("withdrawal requested", zap.Int("userID", userID), zap.Float64("amount", amount))
	return withdrawal, nil
}

// ApproveWithdrawal finalizes a pending withdrawal. The funds already left
// the wallet when the request was placed.
func (s *Service) ApproveWithdrawal(ctx context.Context, transactionID int) error {
	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		tx, err := s.pendingOfType(ctx, transactionID, domain.WithdrawalTransaction)
		if err != nil {
			return err
		}
		if err := s.markReviewed(ctx, tx.ID, domain.SuccessTransactionStatus); err != nil {
			return err
		}
		return s.userRepo.AddWithdrawnTotal(ctx, tx.UserID, tx.Amount)
	})
}

// RejectWithdrawal reverses a pending withdrawal: the record fails and the
// amount goes back to the wallet, in one transaction.
func (s *Service) RejectWithdrawal(ctx context.Context, transactionID int) error {
	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		tx, err := s.pendingOfType(ctx, transactionID, domain.WithdrawalTransaction)
		if err != nil {
			return err
		}
		if err := s.markReviewed(ctx, tx.ID, domain.FailedTransactionStatus); err != nil {
			return err
		}
		return s.userRepo.CreditWallet(ctx, tx.UserID, tx.Amount)
	})
}

// RequestDeposit opens a pending deposit. No funds move until confirmation.
func (s *Service) RequestDeposit(ctx context.Context, userID int, amount float64, coin string) (*domain.Transaction, error) {
	deposit := &domain.Transaction{
		UserID:    userID,
		Type:      domain.DepositTransaction,
		Amount:    amount,
		Coin:      coin,
		Status:    domain.PendingTransactionStatus,
		Reference: "DEP-" + uuid.NewString(),
	}
	if _, err := s.txRepo.Create(ctx, deposit); err != nil {
		zap.L().Error("can't create deposit", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}
	return deposit, nil
}

// AttachProof records the proof-of-payment reference on the caller's pending
// deposit. Upload mechanics live outside the core.
func (s *Service) AttachProof(ctx context.Context, userID, transactionID int, proof string) error {
	err := s.txRepo.AttachProof(ctx, transactionID, userID, proof)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ConfirmDeposit credits the wallet and marks the deposit successful in one
// transaction.
func (s *Service) ConfirmDeposit(ctx context.Context, transactionID int) error {
	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		tx, err := s.pendingOfType(ctx, transactionID, domain.DepositTransaction)
		if err != nil {
			return err
		}
		if err := s.markReviewed(ctx, tx.ID, domain.SuccessTransactionStatus); err != nil {
			return err
		}
		return s.userRepo.CreditWallet(ctx, tx.UserID, tx.Amount)
	})
}

func (s *Service) GetTransactions(ctx context.Context, userID int, txType string) ([]domain.Transaction, error) {
	transactions, err := s.txRepo.FindByUserID(ctx, userID, txType)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}

func (s *Service) UpdateWallets(ctx context.Context, userID int, bitcoin, ethereum, usdt, phrase string) error {
	return s.userRepo.UpdateWallets(ctx, userID, bitcoin, ethereum, usdt, phrase)
}

func (s *Service) pendingOfType(ctx context.Context, transactionID int, txType string) (*domain.Transaction, error) {
	tx, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil || tx.Type != txType {
		return nil, ErrNotFound
	}
	if tx.Status != domain.PendingTransactionStatus {
		return nil, ErrNotPending
	}
	return tx, nil
}

// markReviewed finalizes a pending record. The transition is conditional on
// the row still being PENDING, so when two reviewers race on the same record
// the loser stops here instead of repeating the balance mutation.
func (s *Service) markReviewed(ctx context.Context, transactionID int, status string) error {
	err := s.txRepo.UpdateStatus(ctx, transactionID, domain.PendingTransactionStatus, status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotPending
	}
	return err
}
