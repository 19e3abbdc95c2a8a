package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const productColumns = `id, name, price, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListProducts returns the full catalog ordered by name.
func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct returns a single catalog product by ID.
func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

// CreateProductParams are the fields for a new catalog product.
type CreateProductParams struct {
	Name  string
	Price pgtype.Numeric
}

// CreateProduct inserts a product and returns the stored row.
func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, `
		INSERT INTO products (name, price)
		VALUES ($1, $2)
		RETURNING `+productColumns,
		arg.Name, arg.Price))
}

// UpdateProductParams are the fields for a product update.
type UpdateProductParams struct {
	ID    uuid.UUID
	Name  string
	Price pgtype.Numeric
}

// UpdateProduct overwrites a product and returns the stored row.
// Returns pgx.ErrNoRows if the product does not exist.
func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, `
		UPDATE products
		SET name = $2, price = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		arg.ID, arg.Name, arg.Price))
}

// DeleteProduct removes a product from the catalog. Returns pgx.ErrNoRows
// if absent. Orders keep their own price/name snapshots, so deleting a
// catalog product never touches existing orders.
func (q *Queries) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
