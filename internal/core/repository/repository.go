package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/savrly/savr/internal/core/models"
)

var (
	// ErrNotFound is returned when the keyed row does not exist.
	ErrNotFound = errors.New("row not found")
	// ErrInsufficientFunds is returned by AddToBalance when a debit would
	// push the balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrStatusConflict is returned when a terminal transaction status would
	// be overwritten with a different one.
	ErrStatusConflict = errors.New("transaction status is terminal")
)

type WalletRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	Create(ctx context.Context, wallet *models.Wallet) error
	// AddToBalance applies delta (negative for debits) in a single atomic
	// statement and returns the resulting balance. A debit that would go
	// negative is rejected with ErrInsufficientFunds and leaves the row
	// untouched.
	AddToBalance(ctx context.Context, walletID uuid.UUID, delta int64) (int64, error)
}

type TransactionRepository interface {
	Insert(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	// UpdateStatus moves a PENDING row to the given terminal status.
	// Re-setting the same terminal status is a no-op; switching between
	// terminal statuses fails with ErrStatusConflict.
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus) error
}

type GoalRepository interface {
	GetByIDForUser(ctx context.Context, goalID, userID uuid.UUID) (*models.Goal, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Goal, error)
	Create(ctx context.Context, goal *models.Goal) error
	UpdateProgress(ctx context.Context, goalID uuid.UUID, currentAmount int64, status models.GoalStatus) error
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}
