package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storecart/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (sku, name, description, price)
VALUES ($1, $2, NULLIF($3, ''), $4)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price
RETURNING id, sku, name, COALESCE(description, ''), price, created_at
`
	var out domain.Product
	err := r.pool.QueryRow(ctx, q, p.SKU, p.Name, p.Description, p.Price).Scan(
		&out.ID, &out.SKU, &out.Name, &out.Description, &out.Price, &out.CreatedAt,
	)
	if err != nil {
		r.logger.Printf("product repo: upsert sku=%s error=%v", p.SKU, err)
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	const q = `
SELECT id, sku, name, COALESCE(description, ''), price, created_at
FROM products
WHERE id = $1
`
	return r.fetch(ctx, q, id)
}

func (r *postgresRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	const q = `
SELECT id, sku, name, COALESCE(description, ''), price, created_at
FROM products
WHERE sku = $1
`
	return r.fetch(ctx, q, sku)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id, sku, name, COALESCE(description, ''), price, created_at
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) fetch(ctx context.Context, q string, arg interface{}) (*domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, arg).Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: fetch error=%v", err)
		return nil, err
	}
	return &p, nil
}
