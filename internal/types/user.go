package types

import (
	"time"

	"github.com/google/uuid"
)

// User is an account able to sign in and own notes. Users are immutable once created.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never exposed.
	CreatedAt    time.Time `json:"createdAt"`
}
