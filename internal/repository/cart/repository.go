package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storecart/internal/domain"
)

type Repository interface {
	// Create opens a cart, anonymous when userID is nil.
	Create(ctx context.Context, userID *uuid.UUID) (*domain.Cart, error)
	// GetByID returns the cart with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	// FindOpenByUser returns the user's most recent cart that is not
	// checked out.
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	// AddItem inserts an item, or increments quantity when the cart
	// already holds the same reference. The stored unit price wins on
	// collision.
	AddItem(ctx context.Context, cartID uuid.UUID, ref domain.ProductRef, quantity int, unitPrice decimal.Decimal) error
	// UpdateItemQuantity sets an item's quantity; zero removes the item.
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	// RemoveItem deletes one item from the cart.
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error
	// Clear deletes every item, leaving the cart row in place.
	Clear(ctx context.Context, cartID uuid.UUID) error
	// SetCheckedOut marks the cart purchased.
	SetCheckedOut(ctx context.Context, cartID uuid.UUID) error
	// AssignUser hands an anonymous cart to a user.
	AssignUser(ctx context.Context, cartID, userID uuid.UUID) error
	// MergeInto moves every item of fromID into intoID, summing
	// quantities on matching references, then deletes fromID.
	MergeInto(ctx context.Context, fromID, intoID uuid.UUID) error
}
