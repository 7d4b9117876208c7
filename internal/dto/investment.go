package dto

import "time"

type OpenInvestmentRequestDTO struct {
	PackageID string  `json:"package" example:"Basic"`
	Amount    float64 `json:"amount" example:"1000"`
}

type InvestmentResponseDTO struct {
	ID           int       `json:"id" example:"7"`
	PackageID    string    `json:"package" example:"Basic"`
	Amount       float64   `json:"amount" example:"1000"`
	DailyProfit  float64   `json:"daily_profit" example:"150"`
	Status       string    `json:"status" example:"ACTIVE"`
	StartDate    time.Time `json:"start_date"`
	ExpiryDate   time.Time `json:"expiry_date"`
	HalfSettled  bool      `json:"half_settled"`
	FullySettled bool      `json:"fully_settled"`
}

type TransferResponseDTO struct {
	Message     string  `json:"message"`
	Transferred float64 `json:"transferred" example:"1000"`
}
