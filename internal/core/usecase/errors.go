package usecase

import "errors"

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidSource       = errors.New("invalid transaction source")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrGoalNotCompleted    = errors.New("goal is not completed yet")

	// ErrUnrecoverableInconsistency marks the cases where a balance change
	// landed but neither the matching status update nor the compensating
	// reverse operation could be applied. It is always logged with full
	// context before being returned so an operator alert can fire on it.
	ErrUnrecoverableInconsistency = errors.New("unrecoverable ledger inconsistency")
)
