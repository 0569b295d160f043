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

// WalletLedger is the only component allowed to change a wallet balance.
// Each change is bracketed by a PENDING transaction row and a terminal status
// update; a crash between the steps leaves a PENDING row that points at the
// exact operation needing manual reconciliation.
type WalletLedger interface {
	AddFunds(ctx context.Context, userID uuid.UUID, amount int64, source models.TransactionSource, referenceID string) (uuid.UUID, error)
	WithdrawFunds(ctx context.Context, userID uuid.UUID, amount int64, source models.TransactionSource, referenceID string) (uuid.UUID, error)
	GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
}

type walletLedger struct {
	wallets  repository.WalletRepository
	recorder TransactionRecorder
	log      logger.Logger
}

func NewWalletLedger(wallets repository.WalletRepository, recorder TransactionRecorder, log logger.Logger) WalletLedger {
	return &walletLedger{
		wallets:  wallets,
		recorder: recorder,
		log:      log,
	}
}

func (l *walletLedger) GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	wallet, err := l.wallets.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return wallet, nil
}

// AddFunds credits the wallet. Protocol: fetch-or-provision wallet, insert
// PENDING transaction, atomic increment, mark SUCCESS. A failure after the
// PENDING insert marks the row FAILED best-effort; the original error is
// what the caller sees.
func (l *walletLedger) AddFunds(ctx context.Context, userID uuid.UUID, amount int64, source models.TransactionSource, referenceID string) (uuid.UUID, error) {
	if amount <= 0 {
		return uuid.Nil, ErrInvalidAmount
	}
	if !models.ValidSource(source) {
		return uuid.Nil, ErrInvalidSource
	}

	wallet, err := l.fetchOrProvision(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}

	tx, err := l.recorder.Create(ctx, userID, wallet.ID, amount, models.DirectionCredit, source, referenceID)
	if err != nil {
		return uuid.Nil, err
	}

	if _, err := l.wallets.AddToBalance(ctx, wallet.ID, amount); err != nil {
		l.markFailed(ctx, tx, err)
		return uuid.Nil, fmt.Errorf("credit wallet: %w", err)
	}

	if err := l.recorder.SetStatus(ctx, tx.ID, models.StatusSuccess); err != nil {
		// Balance already advanced. Record the attempt as FAILED so the
		// credited amount is attributable; the caller must treat the credit
		// as needing upstream compensation.
		l.markFailed(ctx, tx, err)
		return uuid.Nil, fmt.Errorf("finalize credit: %w", err)
	}

	l.log.Info("wallet credited",
		logger.StringField("user_id", userID.String()),
		logger.StringField("transaction_id", tx.ID.String()),
		logger.Int64Field("amount", amount),
		logger.StringField("source", string(source)),
	)

	return tx.ID, nil
}

// WithdrawFunds debits the wallet. A balance short of the amount fails fast
// before any transaction row exists. If the debit lands but the SUCCESS
// update fails, the amount is credited back and the row marked FAILED; a
// failed re-credit is the critical money-loss case and is logged as such.
func (l *walletLedger) WithdrawFunds(ctx context.Context, userID uuid.UUID, amount int64, source models.TransactionSource, referenceID string) (uuid.UUID, error) {
	if amount <= 0 {
		return uuid.Nil, ErrInvalidAmount
	}
	if !models.ValidSource(source) {
		return uuid.Nil, ErrInvalidSource
	}

	wallet, err := l.GetWallet(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	if wallet.Balance < amount {
		return uuid.Nil, ErrInsufficientBalance
	}

	tx, err := l.recorder.Create(ctx, userID, wallet.ID, amount, models.DirectionDebit, source, referenceID)
	if err != nil {
		return uuid.Nil, err
	}

	if _, err := l.wallets.AddToBalance(ctx, wallet.ID, -amount); err != nil {
		l.markFailed(ctx, tx, err)
		if errors.Is(err, repository.ErrInsufficientFunds) {
			// A concurrent debit won the balance between the check and the
			// guarded update.
			return uuid.Nil, ErrInsufficientBalance
		}
		return uuid.Nil, fmt.Errorf("debit wallet: %w", err)
	}

	if err := l.recorder.SetStatus(ctx, tx.ID, models.StatusSuccess); err != nil {
		l.compensateDebit(ctx, wallet.ID, tx, err)
		return uuid.Nil, fmt.Errorf("finalize debit: %w", err)
	}

	l.log.Info("wallet debited",
		logger.StringField("user_id", userID.String()),
		logger.StringField("transaction_id", tx.ID.String()),
		logger.Int64Field("amount", amount),
		logger.StringField("source", string(source)),
	)

	return tx.ID, nil
}

func (l *walletLedger) fetchOrProvision(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	wallet, err := l.wallets.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get wallet: %w", err)
	}

	wallet = &models.Wallet{
		ID:      uuid.New(),
		UserID:  userID,
		Balance: 0,
	}
	if err := l.wallets.Create(ctx, wallet); err != nil {
		return nil, fmt.Errorf("provision wallet: %w", err)
	}

	l.log.Info("wallet provisioned",
		logger.StringField("user_id", userID.String()),
		logger.StringField("wallet_id", wallet.ID.String()),
	)

	return wallet, nil
}

// markFailed moves the transaction to FAILED best-effort. When even that
// write fails the row stays PENDING, which is the unrecoverable case: log it
// with full context and move on, the original error still goes to the caller.
func (l *walletLedger) markFailed(ctx context.Context, tx *models.Transaction, cause error) {
	if err := l.recorder.SetStatus(ctx, tx.ID, models.StatusFailed); err != nil {
		l.log.Error("transaction stuck PENDING, manual reconciliation required",
			logger.StringField("user_id", tx.UserID.String()),
			logger.StringField("transaction_id", tx.ID.String()),
			logger.Int64Field("amount", tx.Amount),
			logger.StringField("direction", string(tx.Direction)),
			logger.ErrorField("cause", cause),
			logger.ErrorField("status_update_error", err),
		)
	}
}

// compensateDebit re-credits a debited amount after the SUCCESS update
// failed. A failed re-credit means money left the wallet with no SUCCESS
// record and no way back; that condition is never swallowed.
func (l *walletLedger) compensateDebit(ctx context.Context, walletID uuid.UUID, tx *models.Transaction, cause error) {
	if _, err := l.wallets.AddToBalance(ctx, walletID, tx.Amount); err != nil {
		l.log.Error("CRITICAL: debit applied but refund failed, money unaccounted",
			logger.StringField("user_id", tx.UserID.String()),
			logger.StringField("wallet_id", walletID.String()),
			logger.StringField("transaction_id", tx.ID.String()),
			logger.Int64Field("amount", tx.Amount),
			logger.ErrorField("cause", cause),
			logger.ErrorField("refund_error", errors.Join(ErrUnrecoverableInconsistency, err)),
		)
		return
	}

	l.markFailed(ctx, tx, cause)
	l.log.Warn("debit rolled back after failed status update",
		logger.StringField("transaction_id", tx.ID.String()),
		logger.Int64Field("amount", tx.Amount),
	)
}
