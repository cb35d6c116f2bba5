package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storecart/internal/domain"
)

type Service struct {
	repo     cartRepo
	products productRepo
}

type cartRepo interface {
	Create(ctx context.Context, userID *uuid.UUID) (*domain.Cart, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID uuid.UUID, ref domain.ProductRef, quantity int, unitPrice decimal.Decimal) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error
	Clear(ctx context.Context, cartID uuid.UUID) error
	SetCheckedOut(ctx context.Context, cartID uuid.UUID) error
	AssignUser(ctx context.Context, cartID, userID uuid.UUID) error
	MergeInto(ctx context.Context, fromID, intoID uuid.UUID) error
}

type productRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
}

func New(repo cartRepo, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

// AddItemInput identifies a catalog product by id or sku.
type AddItemInput struct {
	ProductID string `json:"productId,omitempty"`
	SKU       string `json:"sku,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Create opens a cart, anonymous when userID is nil.
func (s *Service) Create(ctx context.Context, userID *uuid.UUID) (*domain.Cart, error) {
	return s.repo.Create(ctx, userID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	return s.repo.FindOpenByUser(ctx, userID)
}

// AddItem resolves the product, freezes its current price on the item and
// returns the refreshed cart.
func (s *Service) AddItem(ctx context.Context, cartID uuid.UUID, in AddItemInput) (*domain.Cart, error) {
	if in.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	if _, err := s.openCart(ctx, cartID); err != nil {
		return nil, err
	}

	product, err := s.resolveProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	if product.Price.IsNegative() {
		return nil, errors.New("unit price must not be negative")
	}

	if err := s.repo.AddItem(ctx, cartID, product.Ref(), in.Quantity, product.Price); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

// UpdateItemQuantity sets an item's quantity; zero removes the item.
func (s *Service) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, errors.New("quantity must not be negative")
	}
	if _, err := s.openCart(ctx, cartID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateItemQuantity(ctx, cartID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

func (s *Service) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*domain.Cart, error) {
	if _, err := s.openCart(ctx, cartID); err != nil {
		return nil, err
	}
	if err := s.repo.RemoveItem(ctx, cartID, itemID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

// Clear deletes all items from the cart.
func (s *Service) Clear(ctx context.Context, cartID uuid.UUID) error {
	if _, err := s.openCart(ctx, cartID); err != nil {
		return err
	}
	return s.repo.Clear(ctx, cartID)
}

// Checkout marks the cart purchased. Further mutations are rejected.
func (s *Service) Checkout(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	if _, err := s.openCart(ctx, cartID); err != nil {
		return nil, err
	}
	if err := s.repo.SetCheckedOut(ctx, cartID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

// MergeOnLogin binds the session's anonymous cart to a just-authenticated
// user. Without an existing user cart the anonymous cart is simply
// reassigned; otherwise its items move into the user cart, quantities
// summing on matching references, and the anonymous cart is deleted.
// Returns the cart the session should point at afterwards.
func (s *Service) MergeOnLogin(ctx context.Context, sessionCartID *uuid.UUID, userID uuid.UUID) (*domain.Cart, error) {
	var anon *domain.Cart
	if sessionCartID != nil {
		c, err := s.repo.GetByID(ctx, *sessionCartID)
		switch {
		case err == nil:
			if !c.CheckedOut && c.UserID == nil {
				anon = c
			}
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	existing, err := s.repo.FindOpenByUser(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	switch {
	case anon == nil && existing == nil:
		return s.repo.Create(ctx, &userID)
	case anon == nil:
		return existing, nil
	case existing == nil:
		if err := s.repo.AssignUser(ctx, anon.ID, userID); err != nil {
			return nil, err
		}
		return s.repo.GetByID(ctx, anon.ID)
	default:
		if err := s.repo.MergeInto(ctx, anon.ID, existing.ID); err != nil {
			return nil, err
		}
		return s.repo.GetByID(ctx, existing.ID)
	}
}

func (s *Service) openCart(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.CheckedOut {
		return nil, domain.ErrCheckedOut
	}
	return cart, nil
}

func (s *Service) resolveProduct(ctx context.Context, in AddItemInput) (*domain.Product, error) {
	if s.products == nil {
		return nil, errors.New("product repository unavailable")
	}
	if id := strings.TrimSpace(in.ProductID); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, errors.New("invalid product id")
		}
		return s.getProduct(s.products.GetByID(ctx, parsed))
	}
	if sku := strings.TrimSpace(in.SKU); sku != "" {
		return s.getProduct(s.products.GetBySKU(ctx, sku))
	}
	return nil, errors.New("productId or sku required")
}

func (s *Service) getProduct(p *domain.Product, err error) (*domain.Product, error) {
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, err
	}
	return p, nil
}
