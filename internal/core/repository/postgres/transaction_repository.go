package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/savrly/savr/internal/core/logger"
	"github.com/savrly/savr/internal/core/models"
	"github.com/savrly/savr/internal/core/repository"
)

type postgresTransactionRepo struct {
	db  *sqlx.DB
	log logger.Logger
}

func NewPostgresTransactionRepo(db *sqlx.DB, log logger.Logger) repository.TransactionRepository {
	return &postgresTransactionRepo{
		db:  db,
		log: log,
	}
}

func (r *postgresTransactionRepo) Insert(ctx context.Context, tx *models.Transaction) error {
	const query = `INSERT INTO transactions
		(id, user_id, wallet_id, direction, amount, source, reference_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.UserID,
		tx.WalletID,
		tx.Direction,
		tx.Amount,
		tx.Source,
		tx.ReferenceID,
		tx.Status,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}

func (r *postgresTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var tx models.Transaction
	query := `SELECT id, user_id, wallet_id, direction, amount, source, reference_id, status, created_at
		FROM transactions WHERE id = $1`
	err := r.db.GetContext(ctx, &tx, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	return &tx, nil
}

// UpdateStatus only ever moves PENDING forward. The status guard makes
// terminal states sticky: re-setting the same terminal status matches zero
// changed columns but is accepted, while flipping SUCCESS to FAILED (or back)
// is rejected.
func (r *postgresTransactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus) error {
	const query = `UPDATE transactions SET status = $1
		WHERE id = $2 AND (status = 'PENDING' OR status = $1)`

	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction status: rows affected: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM transactions WHERE id = $1)`, id); err != nil {
			return fmt.Errorf("check transaction existence: %w", err)
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrStatusConflict
	}

	return nil
}
