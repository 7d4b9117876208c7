package service

import (
	"github.com/sweeptrade/backend/internal/catalog"
	"github.com/sweeptrade/backend/internal/config"
	"github.com/sweeptrade/backend/internal/pg"
	"github.com/sweeptrade/backend/internal/repo"
	"github.com/sweeptrade/backend/internal/service/accrualservice"
	"github.com/sweeptrade/backend/internal/service/authservice"
	"github.com/sweeptrade/backend/internal/service/investmentservice"
	"github.com/sweeptrade/backend/internal/service/referralservice"
	"github.com/sweeptrade/backend/internal/service/settlementservice"
	"github.com/sweeptrade/backend/internal/service/walletservice"
	pkgauth "github.com/sweeptrade/backend/pkg/auth"
)

type Services struct {
	AuthService       *authservice.Service
	WalletService     *walletservice.Service
	InvestmentService *investmentservice.Service
	AccrualService    *accrualservice.Service
	SettlementService *settlementservice.Service
	ReferralService   *referralservice.Service
}

func New(cfg *config.Config, cat *catalog.Catalog, repos *repo.Repositories, txManager pg.TXManager) *Services {
	referralService := referralservice.New(repos.UserRepo, repos.TransactionRepo, txManager, cfg.SignupBonus, cfg.ReferralBonusRate)
	accrualService := accrualservice.New(repos.UserRepo, cfg.AccrualBatchWorkers)
	investmentService := investmentservice.New(cat, repos.UserRepo, repos.InvestmentRepo, repos.TransactionRepo, referralService, txManager)
	settlementService := settlementservice.New(repos.UserRepo, repos.InvestmentRepo, txManager)
	walletService := walletservice.New(repos.UserRepo, repos.TransactionRepo, txManager, cfg.MinWithdrawal)
	authService := authservice.New(repos.UserRepo, referralService, &pkgauth.HashService{}, &pkgauth.JWTService{})

	return &Services{
		AuthService:       authService,
		WalletService:     walletService,
		InvestmentService: investmentService,
		AccrualService:    accrualService,
		SettlementService: settlementService,
		ReferralService:   referralService,
	}
}
