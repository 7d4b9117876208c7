package dto

import "time"

type BalanceResponseDTO struct {
	Wallet         float64 `json:"wallet" example:"1520.5"`
	Invested       float64 `json:"invested" example:"5000"`
	Total          float64 `json:"total" example:"6520.5"`
	ReferralBonus  float64 `json:"referral_bonus" example:"60"`
	WithdrawnTotal float64 `json:"withdrawn_total" example:"2000"`
}

type DashboardResponseDTO struct {
	Balance         BalanceResponseDTO `json:"balance"`
	DailyProfit     float64            `json:"daily_profit" example:"150"`
	AccruedToday    bool               `json:"accrued_today"`
	AccruedAmount   float64            `json:"accrued_amount,omitempty" example:"150"`
	ReferralCode    string             `json:"referral_code" example:"A3B8ZQ"`
	LastAccrualDate *time.Time         `json:"last_accrual_date,omitempty"`
}

type WithdrawRequestDTO struct {
	Amount       float64 `json:"amount" example:"2500"`
	Coin         string  `json:"coin" example:"Bitcoin"`
	WalletPhrase string  `json:"wallet_phrase"`
}

type DepositRequestDTO struct {
	Amount float64 `json:"amount" example:"1000"`
	Coin   string  `json:"coin" example:"USDT"`
}

type AttachProofRequestDTO struct {
	Proof string `json:"proof" example:"/uploads/proof-17254.jpg"`
}

type UpdateWalletsRequestDTO struct {
	BitcoinAddress  string `json:"bitcoin_address"`
	EthereumAddress string `json:"ethereum_address"`
	USDTAddress     string `json:"usdt_address"`
	WalletPhrase    string `json:"wallet_phrase"`
}

type TransactionResponseDTO struct {
	ID            int       `json:"id" example:"42"`
	Type          string    `json:"type" example:"withdrawal"`
	Amount        float64   `json:"amount" example:"2500"`
	Coin          string    `json:"coin" example:"Bitcoin"`
	Status        string    `json:"status" example:"PENDING"`
	Reference     string    `json:"reference"`
	WalletAddress string    `json:"wallet_address,omitempty"`
	PaymentDate   time.Time `json:"payment_date"`
}
