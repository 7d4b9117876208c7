package investmentrepo

import (
	"context"
	"time"

	"github.com/sweeptrade/backend/internal/domain"
	"github.com/sweeptrade/backend/internal/pg"
	"go.uber.org/zap"
)

const investmentColumns = `
	i.id, i.user_id, i.package_id, i.amount, i.daily_profit, i.status,
	i.start_date, i.expiry_date, i.created_at,
	EXISTS (SELECT 1 FROM investment_settlements s WHERE s.investment_id = i.id AND s.kind = 'HALF') AS half_settled,
	EXISTS (SELECT 1 FROM investment_settlements s WHERE s.investment_id = i.id AND s.kind = 'FULL') AS fully_settled
`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, inv *domain.Investment) (*domain.Investment, error) {
	query := `
		INSERT INTO investments (user_id, package_id, amount, daily_profit, status, start_date, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		inv.UserID, inv.PackageID, inv.Amount, inv.DailyProfit, inv.Status, inv.StartDate, inv.ExpiryDate,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		zap.L().Error("can't save investment", zap.Error(err))
		return nil, err
	}
	return inv, nil
}

func (r *Repository) findByUserID(ctx context.Context, userID int, forUpdate bool) ([]domain.Investment, error) {
	query := `
		SELECT ` + investmentColumns + `
		FROM investments i
		WHERE i.user_id = $1
		ORDER BY i.start_date DESC
	`
	if forUpdate {
		query += ` FOR UPDATE OF i`
	}
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get investments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var investments []domain.Investment
	for rows.Next() {
		var inv domain.Investment
		err := rows.Scan(
			&inv.ID, &inv.UserID, &inv.PackageID, &inv.Amount, &inv.DailyProfit, &inv.Status,
			&inv.StartDate, &inv.ExpiryDate, &inv.CreatedAt,
			&inv.HalfSettled, &inv.FullySettled,
		)
		if err != nil {
			zap.L().Error("can't scan investment row", zap.Error(err))
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Investment, error) {
	return r.findByUserID(ctx, userID, false)
}

// FindByUserIDForUpdate locks the user's position rows; callers must be
// inside a transaction.
func (r *Repository) FindByUserIDForUpdate(ctx context.Context, userID int) ([]domain.Investment, error) {
	return r.findByUserID(ctx, userID, true)
}

// SweepExpired transitions every matured active position to EXPIRED. The
// selection predicate excludes already-expired rows, so re-running is a
// no-op. No money moves here.
func (r *Repository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE investments
		SET status = 'EXPIRED'
		WHERE status = 'ACTIVE' AND expiry_date <= $1
	`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		zap.L().Error("can't sweep expired investments", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RecordSettlement appends a settlement event for the position. The unique
// constraint on (investment_id, kind) is the idempotence guard: a duplicate
// insert is swallowed and reported as recorded=false.
func (r *Repository) RecordSettlement(ctx context.Context, investmentID int, kind string, amount float64) (bool, error) {
	query := `
		INSERT INTO investment_settlements (investment_id, kind, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (investment_id, kind) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, investmentID, kind, amount)
	if err != nil {
		zap.L().Error("can't record settlement", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SumActiveDailyProfit reports the profit the account accrues per day across
// its active positions. Display only; accrual itself recomputes inside its
// own statement.
func (r *Repository) SumActiveDailyProfit(ctx context.Context, userID int) (float64, error) {
	query := `
		SELECT COALESCE(SUM(daily_profit), 0)
		FROM investments
		WHERE user_id = $1 AND status = 'ACTIVE'
	`
	var sum float64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		zap.L().Error("can't sum daily profit", zap.Error(err))
		return 0, err
	}
	return sum, nil
}
