package models

import (
	"time"

	"github.com/google/uuid"
)

// Wallet is the per-user balance record. Balance is stored in minor units
// (paise) and is only ever changed through the ledger protocol: a PENDING
// transaction row first, the balance mutation second, the terminal status last.
type Wallet struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Balance   int64     `json:"balance" db:"balance"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
