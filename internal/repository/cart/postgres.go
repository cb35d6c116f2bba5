package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"storecart/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, userID *uuid.UUID) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id)
VALUES ($1)
RETURNING id, user_id, checked_out, created_at
`
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CheckedOut,
		&cart.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &cart, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	const q = `
SELECT id, user_id, checked_out, created_at
FROM carts
WHERE id = $1
`
	return r.fetchCart(ctx, q, id)
}

func (r *postgresRepo) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	const q = `
SELECT id, user_id, checked_out, created_at
FROM carts
WHERE user_id = $1 AND NOT checked_out
ORDER BY created_at DESC
LIMIT 1
`
	return r.fetchCart(ctx, q, userID)
}

func (r *postgresRepo) AddItem(ctx context.Context, cartID uuid.UUID, ref domain.ProductRef, quantity int, unitPrice decimal.Decimal) error {
	const q = `
INSERT INTO cart_items (cart_id, ref_type, ref_id, quantity, unit_price)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (cart_id, ref_type, ref_id)
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
`
	if _, err := r.pool.Exec(ctx, q, cartID, ref.Type, ref.ID, quantity, unitPrice); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *postgresRepo) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return r.RemoveItem(ctx, cartID, itemID)
	}
	const q = `
UPDATE cart_items
SET quantity = $1
WHERE id = $2 AND cart_id = $3
`
	cmd, err := r.pool.Exec(ctx, q, quantity, itemID, cartID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`, itemID, cartID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return mapError(err)
}

func (r *postgresRepo) SetCheckedOut(ctx context.Context, cartID uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE carts SET checked_out = TRUE WHERE id = $1`, cartID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) AssignUser(ctx context.Context, cartID, userID uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE carts SET user_id = $1 WHERE id = $2 AND NOT checked_out`, userID, cartID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) MergeInto(ctx context.Context, fromID, intoID uuid.UUID) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Matching references in the target keep their own unit price.
	if _, err := tx.Exec(ctx, `
UPDATE cart_items AS dst
SET quantity = dst.quantity + src.quantity
FROM cart_items AS src
WHERE src.cart_id = $1
  AND dst.cart_id = $2
  AND dst.ref_type = src.ref_type
  AND dst.ref_id = src.ref_id
`, fromID, intoID); err != nil {
		return mapError(err)
	}

	if _, err := tx.Exec(ctx, `
UPDATE cart_items AS src
SET cart_id = $2
WHERE src.cart_id = $1
  AND NOT EXISTS (
    SELECT 1 FROM cart_items AS dst
    WHERE dst.cart_id = $2
      AND dst.ref_type = src.ref_type
      AND dst.ref_id = src.ref_id
  )
`, fromID, intoID); err != nil {
		return mapError(err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, fromID); err != nil {
		return mapError(err)
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CheckedOut,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
SELECT id, cart_id, ref_type, ref_id, quantity, unit_price, created_at
FROM cart_items
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.Product.Type,
			&item.Product.ID,
			&item.Quantity,
			&item.UnitPrice,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return domain.ErrAlreadyExists
		case "23514":
			return domain.ErrInvalidInput
		}
	}
	return err
}
