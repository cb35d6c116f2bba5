package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storecart/internal/domain"
)

type stubRepo struct {
	createCart     *domain.Cart
	createErr      error
	createdUserID  *uuid.UUID
	getByIDResults map[uuid.UUID]*domain.Cart
	getByIDErr     error
	openCart       *domain.Cart
	openErr        error
	addItemErr     error
	updateErr      error
	removeErr      error
	clearErr       error
	checkoutErr    error
	assignErr      error
	mergeErr       error

	lastAddCartID  uuid.UUID
	lastAddRef     domain.ProductRef
	lastAddQty     int
	lastAddPrice   decimal.Decimal
	lastUpdateQty  int
	clearedCartID  uuid.UUID
	checkedOutID   uuid.UUID
	assignedCartID uuid.UUID
	assignedUserID uuid.UUID
	mergedFromID   uuid.UUID
	mergedIntoID   uuid.UUID
}

func (s *stubRepo) Create(_ context.Context, userID *uuid.UUID) (*domain.Cart, error) {
	s.createdUserID = userID
	return s.createCart, s.createErr
}

func (s *stubRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Cart, error) {
	if s.getByIDErr != nil {
		return nil, s.getByIDErr
	}
	if c, ok := s.getByIDResults[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubRepo) FindOpenByUser(_ context.Context, _ uuid.UUID) (*domain.Cart, error) {
	return s.openCart, s.openErr
}

func (s *stubRepo) AddItem(_ context.Context, cartID uuid.UUID, ref domain.ProductRef, quantity int, unitPrice decimal.Decimal) error {
	s.lastAddCartID = cartID
	s.lastAddRef = ref
	s.lastAddQty = quantity
	s.lastAddPrice = unitPrice
	return s.addItemErr
}

func (s *stubRepo) UpdateItemQuantity(_ context.Context, _, _ uuid.UUID, quantity int) error {
	s.lastUpdateQty = quantity
	return s.updateErr
}

func (s *stubRepo) RemoveItem(_ context.Context, _, _ uuid.UUID) error {
	return s.removeErr
}

func (s *stubRepo) Clear(_ context.Context, cartID uuid.UUID) error {
	s.clearedCartID = cartID
	return s.clearErr
}

func (s *stubRepo) SetCheckedOut(_ context.Context, cartID uuid.UUID) error {
	s.checkedOutID = cartID
	return s.checkoutErr
}

func (s *stubRepo) AssignUser(_ context.Context, cartID, userID uuid.UUID) error {
	s.assignedCartID = cartID
	s.assignedUserID = userID
	return s.assignErr
}

func (s *stubRepo) MergeInto(_ context.Context, fromID, intoID uuid.UUID) error {
	s.mergedFromID = fromID
	s.mergedIntoID = intoID
	return s.mergeErr
}

type stubProductRepo struct {
	product *domain.Product
	err     error
	lastSKU string
	lastID  uuid.UUID
}

func (s *stubProductRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	s.lastID = id
	return s.product, s.err
}

func (s *stubProductRepo) GetBySKU(_ context.Context, sku string) (*domain.Product, error) {
	s.lastSKU = sku
	return s.product, s.err
}

func openCartFixture() (*stubRepo, uuid.UUID) {
	id := uuid.New()
	return &stubRepo{getByIDResults: map[uuid.UUID]*domain.Cart{
		id: {ID: id},
	}}, id
}

func uuidPtr(v uuid.UUID) *uuid.UUID {
	return &v
}

func TestServiceAddItemQuantityValidation(t *testing.T) {
	repo, cartID := openCartFixture()
	svc := New(repo, &stubProductRepo{})

	_, err := svc.AddItem(context.Background(), cartID, AddItemInput{SKU: "sku", Quantity: 0})
	if err == nil || err.Error() != "quantity must be positive" {
		t.Fatalf("expected quantity error, got %v", err)
	}
	_, err = svc.AddItem(context.Background(), cartID, AddItemInput{SKU: "sku", Quantity: -2})
	if err == nil || err.Error() != "quantity must be positive" {
		t.Fatalf("expected quantity error, got %v", err)
	}
}

func TestServiceAddItemRequiresProductRef(t *testing.T) {
	repo, cartID := openCartFixture()
	svc := New(repo, &stubProductRepo{})

	_, err := svc.AddItem(context.Background(), cartID, AddItemInput{Quantity: 1})
	if err == nil || err.Error() != "productId or sku required" {
		t.Fatalf("expected missing ref error, got %v", err)
	}
}

func TestServiceAddItemProductNotFound(t *testing.T) {
	repo, cartID := openCartFixture()
	svc := New(repo, &stubProductRepo{err: domain.ErrNotFound})

	_, err := svc.AddItem(context.Background(), cartID, AddItemInput{SKU: "missing", Quantity: 1})
	if err == nil || err.Error() != "product not found" {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestServiceAddItemCheckedOutCart(t *testing.T) {
	id := uuid.New()
	repo := &stubRepo{getByIDResults: map[uuid.UUID]*domain.Cart{
		id: {ID: id, CheckedOut: true},
	}}
	svc := New(repo, &stubProductRepo{})

	_, err := svc.AddItem(context.Background(), id, AddItemInput{SKU: "sku", Quantity: 1})
	if !errors.Is(err, domain.ErrCheckedOut) {
		t.Fatalf("expected checked out error, got %v", err)
	}
}

func TestServiceAddItemFreezesPrice(t *testing.T) {
	repo, cartID := openCartFixture()
	product := &domain.Product{ID: uuid.New(), SKU: "sku", Price: decimal.RequireFromString("3.20")}
	products := &stubProductRepo{product: product}
	svc := New(repo, products)

	got, err := svc.AddItem(context.Background(), cartID, AddItemInput{SKU: "sku", Quantity: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != cartID {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if products.lastSKU != "sku" {
		t.Fatalf("product lookup not called as expected")
	}
	if repo.lastAddRef != product.Ref() || repo.lastAddQty != 4 {
		t.Fatalf("add item not called as expected: %+v qty=%d", repo.lastAddRef, repo.lastAddQty)
	}
	if !repo.lastAddPrice.Equal(product.Price) {
		t.Fatalf("expected frozen price %s, got %s", product.Price, repo.lastAddPrice)
	}
}

func TestServiceUpdateItemQuantityValidation(t *testing.T) {
	repo, cartID := openCartFixture()
	svc := New(repo, nil)

	_, err := svc.UpdateItemQuantity(context.Background(), cartID, uuid.New(), -1)
	if err == nil || err.Error() != "quantity must not be negative" {
		t.Fatalf("expected negative quantity error, got %v", err)
	}
}

func TestServiceUpdateItemQuantityZeroRemoves(t *testing.T) {
	repo, cartID := openCartFixture()
	svc := New(repo, nil)

	if _, err := svc.UpdateItemQuantity(context.Background(), cartID, uuid.New(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastUpdateQty != 0 {
		t.Fatalf("expected repo called with zero quantity")
	}
}

func TestServiceClear(t *testing.T) {
	repo, cartID := openCartFixture()
	svc := New(repo, nil)

	if err := svc.Clear(context.Background(), cartID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.clearedCartID != cartID {
		t.Fatalf("clear not called for cart")
	}
}

func TestServiceCheckout(t *testing.T) {
	repo, cartID := openCartFixture()
	svc := New(repo, nil)

	got, err := svc.Checkout(context.Background(), cartID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.checkedOutID != cartID || got.ID != cartID {
		t.Fatalf("checkout not applied to cart")
	}
}

func TestServiceMergeOnLoginCreatesWhenNothingExists(t *testing.T) {
	userID := uuid.New()
	created := &domain.Cart{ID: uuid.New(), UserID: uuidPtr(userID)}
	repo := &stubRepo{createCart: created, openErr: domain.ErrNotFound}
	svc := New(repo, nil)

	got, err := svc.MergeOnLogin(context.Background(), nil, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != created {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if repo.createdUserID == nil || *repo.createdUserID != userID {
		t.Fatalf("cart should be created for the user")
	}
}

func TestServiceMergeOnLoginReassignsAnonymousCart(t *testing.T) {
	userID := uuid.New()
	anonID := uuid.New()
	repo := &stubRepo{
		getByIDResults: map[uuid.UUID]*domain.Cart{
			anonID: {ID: anonID},
		},
		openErr: domain.ErrNotFound,
	}
	svc := New(repo, nil)

	got, err := svc.MergeOnLogin(context.Background(), &anonID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != anonID {
		t.Fatalf("expected reassigned anonymous cart, got %+v", got)
	}
	if repo.assignedCartID != anonID || repo.assignedUserID != userID {
		t.Fatalf("assign not called as expected")
	}
}

func TestServiceMergeOnLoginMergesIntoExistingCart(t *testing.T) {
	userID := uuid.New()
	anonID := uuid.New()
	existingID := uuid.New()
	existing := &domain.Cart{ID: existingID, UserID: uuidPtr(userID)}
	repo := &stubRepo{
		getByIDResults: map[uuid.UUID]*domain.Cart{
			anonID:     {ID: anonID},
			existingID: existing,
		},
		openCart: existing,
	}
	svc := New(repo, nil)

	got, err := svc.MergeOnLogin(context.Background(), &anonID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != existingID {
		t.Fatalf("expected surviving user cart, got %+v", got)
	}
	if repo.mergedFromID != anonID || repo.mergedIntoID != existingID {
		t.Fatalf("merge not called as expected")
	}
}

func TestServiceMergeOnLoginIgnoresForeignCart(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()
	sessionCartID := uuid.New()
	existing := &domain.Cart{ID: uuid.New(), UserID: uuidPtr(userID)}
	repo := &stubRepo{
		getByIDResults: map[uuid.UUID]*domain.Cart{
			sessionCartID: {ID: sessionCartID, UserID: &otherID},
			existing.ID:   existing,
		},
		openCart: existing,
	}
	svc := New(repo, nil)

	got, err := svc.MergeOnLogin(context.Background(), &sessionCartID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != existing.ID {
		t.Fatalf("expected existing cart, got %+v", got)
	}
	if repo.mergedFromID != (uuid.UUID{}) {
		t.Fatalf("another user's cart must not be merged")
	}
}
