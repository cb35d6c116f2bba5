package product

import (
	"context"

	"github.com/google/uuid"

	"storecart/internal/domain"
)

type Repository interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}
