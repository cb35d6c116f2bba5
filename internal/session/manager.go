// Package session binds carts to browser sessions. The manager resolves the
// current request's cart from a cookie-stored cart id, creating one on first
// touch, and repoints the session when carts merge at login or close at
// checkout.
package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"storecart/internal/domain"
)

const cartIDKey = "cart_id"

type cartService interface {
	Create(ctx context.Context, userID *uuid.UUID) (*domain.Cart, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	Clear(ctx context.Context, cartID uuid.UUID) error
	Checkout(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error)
	MergeOnLogin(ctx context.Context, sessionCartID *uuid.UUID, userID uuid.UUID) (*domain.Cart, error)
}

// Manager is the request-scoped cart accessor.
type Manager struct {
	store sessions.Store
	carts cartService
	name  string
}

// NewManager wires a cookie session store to the cart service. name is the
// session cookie name.
func NewManager(store sessions.Store, carts cartService, name string) *Manager {
	return &Manager{store: store, carts: carts, name: name}
}

// NewCookieStore builds the default store used in production.
func NewCookieStore(secret string) sessions.Store {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.MaxAge = 30 * 24 * 60 * 60
	return store
}

// Current returns the session's open cart, creating one when the session has
// none, the stored id no longer resolves, or the cart was checked out.
func (m *Manager) Current(w http.ResponseWriter, r *http.Request) (*domain.Cart, error) {
	// Get returns a fresh session when the cookie is stale or tampered, so
	// the decode error is deliberately dropped.
	sess, _ := m.store.Get(r, m.name)

	if id, ok := m.storedCartID(sess); ok {
		cart, err := m.carts.Get(r.Context(), id)
		switch {
		case err == nil && !cart.CheckedOut:
			return cart, nil
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	cart, err := m.carts.Create(r.Context(), nil)
	if err != nil {
		return nil, err
	}
	if err := m.save(sess, w, r, cart.ID); err != nil {
		return nil, err
	}
	return cart, nil
}

// MergeOnLogin hands the session's anonymous cart to the user and repoints
// the session at the surviving cart.
func (m *Manager) MergeOnLogin(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*domain.Cart, error) {
	sess, _ := m.store.Get(r, m.name)

	var sessionCartID *uuid.UUID
	if id, ok := m.storedCartID(sess); ok {
		sessionCartID = &id
	}

	cart, err := m.carts.MergeOnLogin(r.Context(), sessionCartID, userID)
	if err != nil {
		return nil, err
	}
	if err := m.save(sess, w, r, cart.ID); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear deletes all items from the session's cart.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) (*domain.Cart, error) {
	cart, err := m.Current(w, r)
	if err != nil {
		return nil, err
	}
	if err := m.carts.Clear(r.Context(), cart.ID); err != nil {
		return nil, err
	}
	return m.carts.Get(r.Context(), cart.ID)
}

// Checkout marks the session's cart purchased and detaches it, so the next
// touch starts a fresh cart.
func (m *Manager) Checkout(w http.ResponseWriter, r *http.Request) (*domain.Cart, error) {
	cart, err := m.Current(w, r)
	if err != nil {
		return nil, err
	}
	out, err := m.carts.Checkout(r.Context(), cart.ID)
	if err != nil {
		return nil, err
	}

	sess, _ := m.store.Get(r, m.name)
	delete(sess.Values, cartIDKey)
	if err := sess.Save(r, w); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Manager) storedCartID(sess *sessions.Session) (uuid.UUID, bool) {
	raw, ok := sess.Values[cartIDKey].(string)
	if !ok {
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

func (m *Manager) save(sess *sessions.Session, w http.ResponseWriter, r *http.Request, cartID uuid.UUID) error {
	sess.Values[cartIDKey] = cartID.String()
	return sess.Save(r, w)
}
