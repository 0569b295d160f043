package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/savrly/savr/internal/core/logger"
	"github.com/savrly/savr/internal/core/models"
	"github.com/savrly/savr/internal/core/repository"
)

// TransactionRecorder owns the transaction status lifecycle. Every balance
// change goes through Create (PENDING) before the mutation and SetStatus
// after it, so the ledger and the balance can never silently diverge.
type TransactionRecorder interface {
	Create(ctx context.Context, userID, walletID uuid.UUID, amount int64, direction models.TransactionDirection, source models.TransactionSource, referenceID string) (*models.Transaction, error)
	SetStatus(ctx context.Context, txID uuid.UUID, status models.TransactionStatus) error
}

type transactionRecorder struct {
	repo repository.TransactionRepository
	log  logger.Logger
}

func NewTransactionRecorder(repo repository.TransactionRepository, log logger.Logger) TransactionRecorder {
	return &transactionRecorder{repo: repo, log: log}
}

func (r *transactionRecorder) Create(ctx context.Context, userID, walletID uuid.UUID, amount int64, direction models.TransactionDirection, source models.TransactionSource, referenceID string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	tx := &models.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		WalletID:    walletID,
		Direction:   direction,
		Amount:      amount,
		Source:      source,
		ReferenceID: referenceID,
		Status:      models.StatusPending,
	}

	if err := r.repo.Insert(ctx, tx); err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	return tx, nil
}

func (r *transactionRecorder) SetStatus(ctx context.Context, txID uuid.UUID, status models.TransactionStatus) error {
	if status != models.StatusSuccess && status != models.StatusFailed {
		return fmt.Errorf("status %q is not a terminal transaction status", status)
	}

	err := r.repo.UpdateStatus(ctx, txID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("set transaction status: %w", err)
	}

	return nil
}
