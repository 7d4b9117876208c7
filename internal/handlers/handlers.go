package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/sweeptrade/backend/docs"
	authhandlers "github.com/sweeptrade/backend/internal/handlers/auth"
	investmenthandlers "github.com/sweeptrade/backend/internal/handlers/investment"
	wallethandlers "github.com/sweeptrade/backend/internal/handlers/wallet"
	"github.com/sweeptrade/backend/internal/service"
	"github.com/sweeptrade/backend/pkg/auth"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:generate mockgen -source=handlers.go -destination=handlers_mock.go -package=handlers

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type WalletHandler interface {
	Dashboard(w http.ResponseWriter, r *http.Request)
	Balance(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
	Deposit(w http.ResponseWriter, r *http.Request)
	AttachProof(w http.ResponseWriter, r *http.Request)
	Transactions(w http.ResponseWriter, r *http.Request)
	UpdateWallets(w http.ResponseWriter, r *http.Request)
	ApproveWithdrawal(w http.ResponseWriter, r *http.Request)
	RejectWithdrawal(w http.ResponseWriter, r *http.Request)
	ConfirmDeposit(w http.ResponseWriter, r *http.Request)
}

type InvestmentHandler interface {
	Open(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Transfer(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler       AuthHandler
	WalletHandler     WalletHandler
	InvestmentHandler InvestmentHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:       authhandlers.New(s.AuthService),
		WalletHandler:     wallethandlers.New(s.WalletService, s.AccrualService, s.InvestmentService),
		InvestmentHandler: investmenthandlers.New(s.InvestmentService, s.SettlementService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Get("/dashboard", h.WalletHandler.Dashboard)
			r.Get("/balance", h.WalletHandler.Balance)
			r.Post("/withdraw", h.WalletHandler.Withdraw)
			r.Route("/deposit", func(r chi.Router) {
				r.Post("/", h.WalletHandler.Deposit)
				r.Post("/{id}/proof", h.WalletHandler.AttachProof)
			})
			r.Get("/transactions", h.WalletHandler.Transactions)
			r.Put("/wallets", h.WalletHandler.UpdateWallets)
			r.Route("/investments", func(r chi.Router) {
				r.Post("/", h.InvestmentHandler.Open)
				r.Get("/", h.InvestmentHandler.List)
				r.Post("/transfer", h.InvestmentHandler.Transfer)
			})
		})
	})
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth.AuthMiddleware)
		r.Post("/withdrawals/{id}/approve", h.WalletHandler.ApproveWithdrawal)
		r.Post("/withdrawals/{id}/reject", h.WalletHandler.RejectWithdrawal)
		r.Post("/deposits/{id}/confirm", h.WalletHandler.ConfirmDeposit)
	})

	return r
}
