package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionDirection marks whether a transaction adds to or removes from
// the wallet balance.
type TransactionDirection string

const (
	DirectionCredit TransactionDirection = "CREDIT"
	DirectionDebit  TransactionDirection = "DEBIT"
)

// TransactionSource tags where a balance change originated.
type TransactionSource string

const (
	SourceSave             TransactionSource = "SAVE"
	SourceUPI              TransactionSource = "UPI"
	SourceWithdraw         TransactionSource = "WITHDRAW"
	SourceGoalContribution TransactionSource = "GOAL_CONTRIBUTION"
)

// TransactionStatus is the transaction lifecycle state. PENDING is the only
// initial state; SUCCESS and FAILED are terminal.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusSuccess TransactionStatus = "SUCCESS"
	StatusFailed  TransactionStatus = "FAILED"
)

// Transaction is one audit row per balance change attempt. A row is inserted
// PENDING before the balance is touched and moved to SUCCESS only after the
// mutation landed, so a crash between the two leaves an attributable PENDING
// row for reconciliation.
type Transaction struct {
	ID          uuid.UUID            `json:"id" db:"id"`
	UserID      uuid.UUID            `json:"user_id" db:"user_id"`
	WalletID    uuid.UUID            `json:"wallet_id" db:"wallet_id"`
	Direction   TransactionDirection `json:"direction" db:"direction"`
	Amount      int64                `json:"amount" db:"amount"`
	Source      TransactionSource    `json:"source" db:"source"`
	ReferenceID string               `json:"reference_id,omitempty" db:"reference_id"`
	Status      TransactionStatus    `json:"status" db:"status"`
	CreatedAt   time.Time            `json:"created_at" db:"created_at"`
}

// ValidSource reports whether s is one of the known source tags.
func ValidSource(s TransactionSource) bool {
	switch s {
	case SourceSave, SourceUPI, SourceWithdraw, SourceGoalContribution:
		return true
	}
	return false
}
