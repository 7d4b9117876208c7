package transactionrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/sweeptrade/backend/internal/domain"
	"github.com/sweeptrade/backend/internal/pg"
	"go.uber.org/zap"
)

const transactionColumns = `
	id, user_id, investment_id, type, amount, coin, status, reference,
	wallet_address, proof_of_payment, description, payment_date
`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, investment_id, type, amount, coin, status, reference, wallet_address, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, payment_date
	`
	err := r.db.QueryRow(ctx, query,
		tx.UserID, tx.InvestmentID, tx.Type, tx.Amount, tx.Coin, tx.Status,
		tx.Reference, tx.WalletAddress, tx.Description,
	).Scan(&tx.ID, &tx.PaymentDate)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return nil, err
	}
	return tx, nil
}

func scanTransaction(rows pgx.Rows) (domain.Transaction, error) {
	var tx domain.Transaction
	err := rows.Scan(
		&tx.ID, &tx.UserID, &tx.InvestmentID, &tx.Type, &tx.Amount, &tx.Coin,
		&tx.Status, &tx.Reference, &tx.WalletAddress, &tx.ProofOfPayment,
		&tx.Description, &tx.PaymentDate,
	)
	return tx, err
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	var tx domain.Transaction
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tx.ID, &tx.UserID, &tx.InvestmentID, &tx.Type, &tx.Amount, &tx.Coin,
		&tx.Status, &tx.Reference, &tx.WalletAddress, &tx.ProofOfPayment,
		&tx.Description, &tx.PaymentDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find transaction", zap.Error(err))
		return nil, err
	}
	return &tx, nil
}

// FindByUserID returns the account's history, newest first. An empty txType
// returns every type.
func (r *Repository) FindByUserID(ctx context.Context, userID int, txType string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND ($2 = '' OR type = $2)
		ORDER BY payment_date DESC
	`
	rows, err := r.db.Query(ctx, query, userID, txType)
	if err != nil {
		zap.L().Error("can't get transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			zap.L().Error("can't scan transaction row", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// UpdateStatus moves a record from one status to another. The current status
// is part of the predicate, so two reviewers racing on the same record
// finalize it exactly once; the loser gets pgx.ErrNoRows.
func (r *Repository) UpdateStatus(ctx context.Context, id int, from, to string) error {
	query := `
		UPDATE transactions
		SET status = $3
		WHERE id = $1 AND status = $2
	`
	tag, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		zap.L().Error("can't update transaction status", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AttachProof stores the proof-of-payment reference on the owner's pending
// deposit.
func (r *Repository) AttachProof(ctx context.Context, id, userID int, proof string) error {
	query := `
		UPDATE transactions
		SET proof_of_payment = $3
		WHERE id = $1 AND user_id = $2 AND type = 'deposit'
	`
	tag, err := r.db.Exec(ctx, query, id, userID, proof)
	if err != nil {
		zap.L().Error("can't attach proof of payment", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
