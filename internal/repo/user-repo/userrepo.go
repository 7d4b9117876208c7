package userrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sweeptrade/backend/internal/domain"
	"github.com/sweeptrade/backend/internal/pg"
	"go.uber.org/zap"
)

var (
	ErrDuplicate      = errors.New("duplicate value")
	ErrDuplicateEmail = errors.New("email already registered")
)

const userColumns = `
	id, first_name, last_name, email, password_hash, country, phone,
	wallet_balance, total_investment_balance, referral_bonus, withdrawn_total,
	last_accrual_date, referral_code, referred_by,
	bitcoin_address, ethereum_address, usdt_address, wallet_phrase, created_at
`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash,
		&user.Country, &user.Phone,
		&user.WalletBalance, &user.TotalInvestmentBalance, &user.ReferralBonus, &user.WithdrawnTotal,
		&user.LastAccrualDate, &user.ReferralCode, &user.ReferredBy,
		&user.BitcoinAddress, &user.EthereumAddress, &user.USDTAddress, &user.WalletPhrase,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByID(ctx context.Context, userID int) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find user by id", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find user by email", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE referral_code = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find user by referral code", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// FindByIDForUpdate locks the user row for the rest of the surrounding
// transaction. Settlement serializes per account on this lock.
func (r *Repository) FindByIDForUpdate(ctx context.Context, userID int) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't lock user row", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (
			first_name, last_name, email, password_hash, country, phone,
			referral_code, referred_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.Country, user.Phone, user.ReferralCode, user.ReferredBy,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Two uniques on the table: the email and the referral code.
			// Callers handle them differently, so keep them apart.
			if pgErr.ConstraintName == "users_email_key" {
				return nil, ErrDuplicateEmail
			}
			return nil, ErrDuplicate
		}
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// CreditWallet adds amount to the spendable balance.
func (r *Repository) CreditWallet(ctx context.Context, userID int, amount float64) error {
	query := `
		UPDATE users
		SET wallet_balance = wallet_balance + $2
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, userID, amount)
	if err != nil {
		zap.L().Error("can't credit wallet", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DebitWallet subtracts amount from the spendable balance. The balance check
// happens inside the same statement, so two concurrent debits can never both
// succeed off a stale read. Returns false when funds are insufficient.
func (r *Repository) DebitWallet(ctx context.Context, userID int, amount float64) (bool, error) {
	query := `
		UPDATE users
		SET wallet_balance = wallet_balance - $2
		WHERE id = $1 AND wallet_balance >= $2
	`
	tag, err := r.db.Exec(ctx, query, userID, amount)
	if err != nil {
		zap.L().Error("can't debit wallet", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// LockPrincipal moves amount from the spendable wallet into the locked
// investment balance, failing when the wallet can't cover it.
func (r *Repository) LockPrincipal(ctx context.Context, userID int, amount float64) (bool, error) {
	query := `
		UPDATE users
		SET wallet_balance = wallet_balance - $2,
		    total_investment_balance = total_investment_balance + $2
		WHERE id = $1 AND wallet_balance >= $2
	`
	tag, err := r.db.Exec(ctx, query, userID, amount)
	if err != nil {
		zap.L().Error("can't lock principal", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ReleasePrincipal moves amount from the locked investment balance back into
// the spendable wallet, failing when the locked balance can't cover it.
func (r *Repository) ReleasePrincipal(ctx context.Context, userID int, amount float64) (bool, error) {
	query := `
		UPDATE users
		SET wallet_balance = wallet_balance + $2,
		    total_investment_balance = total_investment_balance - $2
		WHERE id = $1 AND total_investment_balance >= $2
	`
	tag, err := r.db.Exec(ctx, query, userID, amount)
	if err != nil {
		zap.L().Error("can't release principal", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ApplyAccrual credits the summed daily profit of the user's active positions
// and stamps last_accrual_date, in one compare-and-set statement. The date
// predicate makes the operation idempotent per calendar day: a concurrent or
// repeated call matches zero rows and reports applied=false.
func (r *Repository) ApplyAccrual(ctx context.Context, userID int, day time.Time) (float64, bool, error) {
	query := `
		UPDATE users u
		SET wallet_balance = u.wallet_balance + p.profit,
		    last_accrual_date = $2
		FROM (
			SELECT COALESCE(SUM(daily_profit), 0) AS profit
			FROM investments
			WHERE user_id = $1 AND status = 'ACTIVE'
		) p
		WHERE u.id = $1
		  AND (u.last_accrual_date IS NULL OR u.last_accrual_date < $2)
		  AND p.profit > 0
		RETURNING p.profit
	`
	var profit float64
	err := r.db.QueryRow(ctx, query, userID, day).Scan(&profit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		zap.L().Error("can't apply accrual", zap.Error(err))
		return 0, false, err
	}
	return profit, true, nil
}

// AddReferralBonus credits the bonus to the wallet and the cumulative
// referral counter in one statement.
func (r *Repository) AddReferralBonus(ctx context.Context, userID int, amount float64) error {
	query := `
		UPDATE users
		SET wallet_balance = wallet_balance + $2,
		    referral_bonus = referral_bonus + $2
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, userID, amount)
	if err != nil {
		zap.L().Error("can't add referral bonus", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) AddWithdrawnTotal(ctx context.Context, userID int, amount float64) error {
	query := `
		UPDATE users
		SET withdrawn_total = withdrawn_total + $2
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, userID, amount)
	if err != nil {
		zap.L().Error("can't update withdrawn total", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) UpdateWallets(ctx context.Context, userID int, bitcoin, ethereum, usdt, phrase string) error {
	query := `
		UPDATE users
		SET bitcoin_address = $2, ethereum_address = $3, usdt_address = $4, wallet_phrase = $5
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, userID, bitcoin, ethereum, usdt, phrase)
	if err != nil {
		zap.L().Error("can't update wallet addresses", zap.Error(err))
		return err
	}
	return nil
}

// FindIDsWithActivePositions lists the accounts the daily accrual batch has
// to visit.
func (r *Repository) FindIDsWithActivePositions(ctx context.Context) ([]int, error) {
	query := `
		SELECT DISTINCT user_id
		FROM investments
		WHERE status = 'ACTIVE'
		ORDER BY user_id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't list accounts for accrual", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			zap.L().Error("can't scan account id", zap.Error(err))
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
