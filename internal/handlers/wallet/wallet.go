package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sweeptrade/backend/internal/domain"
	"github.com/sweeptrade/backend/internal/dto"
	"github.com/sweeptrade/backend/internal/service/walletservice"
	"github.com/sweeptrade/backend/pkg/auth"
	"github.com/sweeptrade/backend/pkg/utils"
	"go.uber.org/zap"
)

//go:generate mockgen -source=wallet.go -destination=wallet_mock.go -package=wallet

type WalletService interface {
	GetUser(ctx context.Context, userID int) (*domain.User, error)
	Withdraw(ctx context.Context, userID int, amount float64, coin, phrase string) (*domain.Transaction, error)
	ApproveWithdrawal(ctx context.Context, transactionID int) error
	RejectWithdrawal(ctx context.Context, transactionID int) error
	RequestDeposit(ctx context.Context, userID int, amount float64, coin string) (*domain.Transaction, error)
	AttachProof(ctx context.Context, userID, transactionID int, proof string) error
	ConfirmDeposit(ctx context.Context, transactionID int) error
	GetTransactions(ctx context.Context, userID int, txType string) ([]domain.Transaction, error)
	UpdateWallets(ctx context.Context, userID int, bitcoin, ethereum, usdt, phrase string) error
}

type AccrualService interface {
	Accrue(ctx context.Context, userID int) (float64, bool, error)
}

type InvestmentService interface {
	TotalDailyProfit(ctx context.Context, userID int) (float64, error)
}

type WalletHandler struct {
	walletService     WalletService
	accrualService    AccrualService
	investmentService InvestmentService
}

func New(walletService WalletService, accrualService AccrualService, investmentService InvestmentService) *WalletHandler {
	return &WalletHandler{
		walletService:     walletService,
		accrualService:    accrualService,
		investmentService: investmentService,
	}
}

// Dashboard godoc
//
//	@Summary		Account dashboard
//	@Description	Get balances and profit figures; loading the dashboard also applies the day's accrual if it hasn't run yet
//	@Tags			Wallet
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	dto.DashboardResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authenticated"
//	@Failure		404	{object}	utils.Response	"User not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/dashboard [get]
func (h *WalletHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.UserIDKey).(int)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	accrued, applied, err := h.accrualService.Accrue(r.Context(), userID)
	if err != nil {
		// A failed accrual degrades the dashboard, it doesn't block it.
		zap.L().Warn("dashboard accrual failed", zap.Int("userID", userID), zap.Error(err))
	}

	user, err := h.walletService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, walletservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	dailyProfit, err := h.investmentService.TotalDailyProfit(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.DashboardResponseDTO{
		Balance:         balanceDTO(user),
		DailyProfit:     dailyProfit,
		AccruedToday:    applied,
		AccruedAmount:   accrued,
		ReferralCode:    user.ReferralCode,
		LastAccrualDate: user.LastAccrualDate,
	})
}

// Balance godoc
//
//	@Summary		Account balance
//	@Description	Get the wallet, locked and total balances
//	@Tags			Wallet
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	dto.BalanceResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authenticated"
//	@Failure		404	{object}	utils.Response	"User not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/balance [get]
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.UserIDKey).(int)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	user, err := h.walletService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, walletservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, balanceDTO(user))
}

// Withdraw godoc
//
//	@Summary		Request a withdrawal
//	@Description	Debit the wallet and queue a withdrawal for review
//	@Tags			Wallet
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.WithdrawRequestDTO	true	"Withdraw request body"
//	@Success		200		{object}	dto.TransactionResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request"
//	@Failure		401		{object}	utils.Response	"User not authenticated"
//	@Failure		402		{object}	utils.Response	"Insufficient funds"
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/withdraw [post]
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.UserIDKey).(int)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	var req dto.WithdrawRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	tx, err := h.walletService.Withdraw(r.Context(), userID, req.Amount, req.Coin, req.WalletPhrase)
	if err != nil {
		switch {
		case errors.Is(err, walletservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, walletservice.ErrInsufficientFunds):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, walletservice.ErrMissingWalletAddress),
			errors.Is(err, walletservice.ErrInvalidSecret),
			errors.Is(err, walletservice.ErrBelowMinimum):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, transactionDTO(tx))
}

// Deposit godoc
//
//	@Summary		Request a deposit
//	@Description	Open a pending deposit; funds are credited when it is confirmed
//	@Tags			Wallet
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.DepositRequestDTO	true	"Deposit request body"
//	@Success		200		{object}	dto.TransactionResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request"
//	@Failure		401		{object}	utils.Response	"User not authenticated"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/deposit [post]
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.UserIDKey).(int)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	var req dto.DepositRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	tx, err := h.walletService.RequestDeposit(r.Context(), userID, req.Amount, req.Coin)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, transactionDTO(tx))
}

// AttachProof godoc
//
//	@Summary		Attach proof of payment
//	@Description	Record a proof-of-payment reference on the caller's pending deposit
//	@Tags			Wallet
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int						true	"Deposit transaction ID"
//	@Param			request	body		dto.AttachProofRequestDTO	true	"Proof request body"
//	@Success		200		{object}	utils.Response
//	@Failure		400		{object}	utils.Response	"Invalid request"
//	@Failure		401		{object}	utils.Response	"User not authenticated"
//	@Failure		404		{object}	utils.Response	"Transaction not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/deposit/{id}/proof [post]
func (h *WalletHandler) AttachProof(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.UserIDKey).(int)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	transactionID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}
	var req dto.AttachProofRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Proof == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.walletService.AttachProof(r.Context(), userID, transactionID, req.Proof)
	if err != nil {
		if errors.Is(err, walletservice.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Proof attached"})
}

// Transactions godoc
//
//	@Summary		Transaction history
//	@Description	Get the account's transactions, newest first, optionally filtered by type
//	@Tags			Wallet
//	@Produce		json
//	@Security		BearerAuth
//	@Param			type	query		string	false	"Transaction type filter"	Enums(deposit, withdrawal, investment, referral)
//	@Success		200		{array}		dto.TransactionResponseDTO
//	@Success		204		"No transactions"
//	@Failure		401		{object}	utils.Response	"User not authenticated"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/transactions [get]
func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.UserIDKey).(int)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	transactions, err := h.walletService.GetTransactions(r.Context(), userID, r.URL.Query().Get("type"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(transactions) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	response := make([]dto.TransactionResponseDTO, 0, len(transactions))
	for i := range transactions {
		response = append(response, transactionDTO(&transactions[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// UpdateWallets godoc
//
//	@Summary		Update payout addresses
//	@Description	Set the account's coin addresses and wallet phrase
//	@Tags			Wallet
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.UpdateWalletsRequestDTO	true	"Wallets request body"
//	@Success		200		{object}	utils.Response
//	@Failure		400		{object}	utils.Response	"Invalid request"
//	@Failure		401		{object}	utils.Response	"User not authenticated"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/wallets [put]
func (h *WalletHandler) UpdateWallets(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.UserIDKey).(int)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	var req dto.UpdateWalletsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	err := h.walletService.UpdateWallets(r.Context(), userID, req.BitcoinAddress, req.EthereumAddress, req.USDTAddress, req.WalletPhrase)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Wallets updated"})
}

// ApproveWithdrawal godoc
//
//	@Summary		Approve a pending withdrawal
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Withdrawal transaction ID"
//	@Success		200	{object}	utils.Response
//	@Failure		400	{object}	utils.Response	"Invalid request"
//	@Failure		404	{object}	utils.Response	"Transaction not found"
//	@Failure		409	{object}	utils.Response	"Transaction is not pending"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/withdrawals/{id}/approve [post]
func (h *WalletHandler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.reviewTransaction(w, r, h.walletService.ApproveWithdrawal, "Withdrawal approved")
}

// RejectWithdrawal godoc
//
//	@Summary		Reject a pending withdrawal and refund the wallet
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Withdrawal transaction ID"
//	@Success		200	{object}	utils.Response
//	@Failure		400	{object}	utils.Response	"Invalid request"
//	@Failure		404	{object}	utils.Response	"Transaction not found"
//	@Failure		409	{object}	utils.Response	"Transaction is not pending"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/withdrawals/{id}/reject [post]
func (h *WalletHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.reviewTransaction(w, r, h.walletService.RejectWithdrawal, "Withdrawal rejected")
}

// ConfirmDeposit godoc
//
//	@Summary		Confirm a pending deposit and credit the wallet
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Deposit transaction ID"
//	@Success		200	{object}	utils.Response
//	@Failure		400	{object}	utils.Response	"Invalid request"
//	@Failure		404	{object}	utils.Response	"Transaction not found"
//	@Failure		409	{object}	utils.Response	"Transaction is not pending"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/deposits/{id}/confirm [post]
func (h *WalletHandler) ConfirmDeposit(w http.ResponseWriter, r *http.Request) {
	h.reviewTransaction(w, r, h.walletService.ConfirmDeposit, "Deposit confirmed")
}

func (h *WalletHandler) reviewTransaction(w http.ResponseWriter, r *http.Request, review func(context.Context, int) error, message string) {
	transactionID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}
	err = review(r.Context(), transactionID)
	if err != nil {
		switch {
		case errors.Is(err, walletservice.ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, walletservice.ErrNotPending):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: message})
}

func balanceDTO(user *domain.User) dto.BalanceResponseDTO {
	return dto.BalanceResponseDTO{
		Wallet:         user.WalletBalance,
		Invested:       user.TotalInvestmentBalance,
		Total:          user.TotalBalance(),
		ReferralBonus:  user.ReferralBonus,
		WithdrawnTotal: user.WithdrawnTotal,
	}
}

func transactionDTO(tx *domain.Transaction) dto.TransactionResponseDTO {
	return dto.TransactionResponseDTO{
		ID:            tx.ID,
		Type:          tx.Type,
		Amount:        tx.Amount,
		Coin:          tx.Coin,
		Status:        tx.Status,
		Reference:     tx.Reference,
		WalletAddress: tx.WalletAddress,
		PaymentDate:   tx.PaymentDate,
	}
}
