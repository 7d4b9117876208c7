package investment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sweeptrade/backend/internal/catalog"
	"github.com/sweeptrade/backend/internal/domain"
	"github.com/sweeptrade/backend/internal/dto"
	"github.com/sweeptrade/backend/internal/service/investmentservice"
	"github.com/sweeptrade/backend/internal/service/settlementservice"
	"github.com/sweeptrade/backend/pkg/auth"
	"github.com/sweeptrade/backend/pkg/utils"
)

//go:generate mockgen -source=investment.go -destination=investment_mock.go -package=investment

type InvestmentService interface {
	Open(ctx context.Context, userID int, packageID string, amount float64) (*domain.Investment, error)
	GetInvestments(ctx context.Context, userID int) ([]domain.Investment, error)
}

type SettlementService interface {
	Settle(ctx context.Context, userID int) (float64, error)
}

type InvestmentHandler struct {
	investmentService InvestmentService
	settlementService SettlementService
}

func New(investmentService InvestmentService, settlementService SettlementService) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
		settlementService: settlementService,
	}
}

// Open godoc
//
//	@Summary		Open an investment
//	@Description	Lock wallet funds into a new position against a package tier
//	@Tags			Investment
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.OpenInvestmentRequestDTO	true	"Investment request body"
//	@Success		200		{object}	dto.InvestmentResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid package or amount"
//	@Failure		401		{object}	utils.Response	"User not authenticated"
//	@Failure		402		{object}	utils.Response	"Insufficient funds"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/investments [post]
func (h *InvestmentHandler) Open(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.UserIDKey).(int)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	var req dto.OpenInvestmentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	investment, err := h.investmentService.Open(r.Context(), userID, req.PackageID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidPackage), errors.Is(err, catalog.ErrOutOfRange):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, investmentservice.ErrInsufficientFunds):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, investmentDTO(investment))
}

// List godoc
//
//	@Summary		List investments
//	@Description	Get the account's positions, newest first
//	@Tags			Investment
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.InvestmentResponseDTO
//	@Success		204	"No investments"
//	@Failure		401	{object}	utils.Response	"User not authenticated"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/investments [get]
func (h *InvestmentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.UserIDKey).(int)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	investments, err := h.investmentService.GetInvestments(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(investments) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	response := make([]dto.InvestmentResponseDTO, 0, len(investments))
	for i := range investments {
		response = append(response, investmentDTO(&investments[i]))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Transfer godoc
//
//	@Summary		Transfer matured principal to the wallet
//	@Description	Release every eligible settlement: full principal on expired positions, half on annual-tier positions six months in
//	@Tags			Investment
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	dto.TransferResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authenticated"
//	@Failure		409	{object}	utils.Response	"Nothing eligible or balance mismatch"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/investments/transfer [post]
func (h *InvestmentHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(auth.UserIDKey).(int)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	transferred, err := h.settlementService.Settle(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, settlementservice.ErrNothingEligible),
			errors.Is(err, settlementservice.ErrBalanceMismatch):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, settlementservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.TransferResponseDTO{
		Message:     "Transfer successful",
		Transferred: transferred,
	})
}

func investmentDTO(inv *domain.Investment) dto.InvestmentResponseDTO {
	return dto.InvestmentResponseDTO{
		ID:           inv.ID,
		PackageID:    inv.PackageID,
		Amount:       inv.Amount,
		DailyProfit:  inv.DailyProfit,
		Status:       inv.Status,
		StartDate:    inv.StartDate,
		ExpiryDate:   inv.ExpiryDate,
		HalfSettled:  inv.HalfSettled,
		FullySettled: inv.FullySettled,
	}
}
