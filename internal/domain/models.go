package domain

import "time"

type User struct {
	ID                     int        `db:"id"`
	FirstName              string     `db:"first_name"`
	LastName               string     `db:"last_name"`
	Email                  string     `db:"email"`
	PasswordHash           string     `db:"password_hash"`
	Country                string     `db:"country"`
	Phone                  string     `db:"phone"`
	WalletBalance          float64    `db:"wallet_balance"`
	TotalInvestmentBalance float64    `db:"total_investment_balance"`
	ReferralBonus          float64    `db:"referral_bonus"`
	WithdrawnTotal         float64    `db:"withdrawn_total"`
	LastAccrualDate        *time.Time `db:"last_accrual_date"`
	ReferralCode           string     `db:"referral_code"`
	ReferredBy             *int       `db:"referred_by"`
	BitcoinAddress         string     `db:"bitcoin_address"`
	EthereumAddress        string     `db:"ethereum_address"`
	USDTAddress            string     `db:"usdt_address"`
	WalletPhrase           string     `db:"wallet_phrase"`
	CreatedAt              time.Time  `db:"created_at"`
}

// TotalBalance is the display aggregate: spendable wallet plus principal
// locked in active positions. Derived, never stored.
func (u *User) TotalBalance() float64 {
	return u.WalletBalance + u.TotalInvestmentBalance
}

const (
	// PendingInvestmentStatus is reserved for a future approval step;
	// positions are opened ACTIVE.
	PendingInvestmentStatus string = "PENDING"
	ActiveInvestmentStatus  string = "ACTIVE"
	ExpiredInvestmentStatus string = "EXPIRED"
)

type Investment struct {
	ID          int       `db:"id"`
	UserID      int       `db:"user_id"`
	PackageID   string    `db:"package_id"`
	Amount      float64   `db:"amount"`
	DailyProfit float64   `db:"daily_profit"`
	Status      string    `db:"status"`
	StartDate   time.Time `db:"start_date"`
	ExpiryDate  time.Time `db:"expiry_date"`
	CreatedAt   time.Time `db:"created_at"`
	// Settlement view derived from investment_settlements.
	HalfSettled  bool `db:"half_settled"`
	FullySettled bool `db:"fully_settled"`
}

const (
	HalfSettlement string = "HALF"
	FullSettlement string = "FULL"
)

// SettlementEvent records a principal release that already happened for a
// position. At most one event per kind per position.
type SettlementEvent struct {
	ID           int       `db:"id"`
	InvestmentID int       `db:"investment_id"`
	Kind         string    `db:"kind"`
	Amount       float64   `db:"amount"`
	SettledAt    time.Time `db:"settled_at"`
}

const (
	DepositTransaction    string = "deposit"
	InvestmentTransaction string = "investment"
	WithdrawalTransaction string = "withdrawal"
	ReferralTransaction   string = "referral"
)

const (
	PendingTransactionStatus string = "PENDING"
	SuccessTransactionStatus string = "SUCCESS"
	FailedTransactionStatus  string = "FAILED"
)

type Transaction struct {
	ID             int       `db:"id"`
	UserID         int       `db:"user_id"`
	InvestmentID   *int      `db:"investment_id"`
	Type           string    `db:"type"`
	Amount         float64   `db:"amount"`
	Coin           string    `db:"coin"`
	Status         string    `db:"status"`
	Reference      string    `db:"reference"`
	WalletAddress  string    `db:"wallet_address"`
	ProofOfPayment string    `db:"proof_of_payment"`
	Description    string    `db:"description"`
	PaymentDate    time.Time `db:"payment_date"`
}
