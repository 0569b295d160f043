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

type postgresWalletRepo struct {
	db  *sqlx.DB
	log logger.Logger
}

func NewPostgresWalletRepo(db *sqlx.DB, log logger.Logger) repository.WalletRepository {
	return &postgresWalletRepo{
		db:  db,
		log: log,
	}
}

func (r *postgresWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	query := `SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1`
	err := r.db.GetContext(ctx, &wallet, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}

	return &wallet, nil
}

func (r *postgresWalletRepo) Create(ctx context.Context, wallet *models.Wallet) error {
	const query = `INSERT INTO wallets (id, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query, wallet.ID, wallet.UserID, wallet.Balance)
	if err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}

	return nil
}

// AddToBalance mutates the balance in one statement so concurrent calls for
// the same wallet cannot lose an increment. The balance guard keeps a raced
// debit from overdrawing.
func (r *postgresWalletRepo) AddToBalance(ctx context.Context, walletID uuid.UUID, delta int64) (int64, error) {
	var newBalance int64
	updateQuery := `
		UPDATE wallets
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2 AND balance + $1 >= 0
		RETURNING balance
	`
	err := r.db.GetContext(ctx, &newBalance, updateQuery, delta, walletID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, r.classifyBlockedUpdate(ctx, walletID)
		}
		return 0, fmt.Errorf("update balance: %w", err)
	}

	return newBalance, nil
}

// classifyBlockedUpdate distinguishes a missing wallet from a guarded debit.
func (r *postgresWalletRepo) classifyBlockedUpdate(ctx context.Context, walletID uuid.UUID) error {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM wallets WHERE id = $1)`, walletID)
	if err != nil {
		return fmt.Errorf("check wallet existence: %w", err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrInsufficientFunds
}
