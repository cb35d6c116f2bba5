package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered shopper.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
