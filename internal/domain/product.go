package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the default sellable entity shipped with the store.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Ref returns the cart reference for this product.
func (p Product) Ref() ProductRef {
	return ProductRef{Type: RefTypeProduct, ID: p.ID}
}
