package token

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Token struct {
	Token     string
	UserID    uuid.UUID
	Kind      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, token Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
}
