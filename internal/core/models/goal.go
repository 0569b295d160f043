package models

import (
	"time"

	"github.com/google/uuid"
)

// GoalStatus is the goal lifecycle state.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	// GoalStatusWithdrawn is reserved. The withdrawal path keeps a goal
	// "completed" even at zero balance.
	GoalStatusWithdrawn GoalStatus = "withdrawn"
)

// Goal is a named savings target funded from the wallet. CurrentAmount must
// reconcile with the successful SAVE credits minus WITHDRAW debits that
// reference this goal; the funding service maintains that, not the store.
type Goal struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	Name          string     `json:"name" db:"name"`
	TargetAmount  int64      `json:"target_amount" db:"target_amount"`
	CurrentAmount int64      `json:"current_amount" db:"current_amount"`
	TargetDate    time.Time  `json:"target_date" db:"target_date"`
	Category      string     `json:"category" db:"category"`
	Status        GoalStatus `json:"status" db:"status"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
