package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the read-only user profile slice consumed by the dashboard.
type Profile struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	UpiID     string    `json:"upi_id,omitempty" db:"upi_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
