package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const clientColumns = `id, name, phone, email, created_at, updated_at`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListClients returns all clients ordered by name.
func (q *Queries) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := q.db.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// GetClient returns a single client by ID.
func (q *Queries) GetClient(ctx context.Context, id uuid.UUID) (Client, error) {
	return scanClient(q.db.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
}

// CreateClientParams are the fields for a new client.
type CreateClientParams struct {
	Name  string
	Phone pgtype.Text
	Email pgtype.Text
}

// CreateClient inserts a client and returns the stored row.
func (q *Queries) CreateClient(ctx context.Context, arg CreateClientParams) (Client, error) {
	return scanClient(q.db.QueryRow(ctx, `
		INSERT INTO clients (name, phone, email)
		VALUES ($1, $2, $3)
		RETURNING `+clientColumns,
		arg.Name, arg.Phone, arg.Email))
}

// UpdateClientParams are the fields for a client update.
type UpdateClientParams struct {
	ID    uuid.UUID
	Name  string
	Phone pgtype.Text
	Email pgtype.Text
}

// UpdateClient overwrites a client's fields and returns the stored row.
// Returns pgx.ErrNoRows if the client does not exist.
func (q *Queries) UpdateClient(ctx context.Context, arg UpdateClientParams) (Client, error) {
	return scanClient(q.db.QueryRow(ctx, `
		UPDATE clients
		SET name = $2, phone = $3, email = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+clientColumns,
		arg.ID, arg.Name, arg.Phone, arg.Email))
}

// DeleteClient removes a client. Returns pgx.ErrNoRows if absent.
func (q *Queries) DeleteClient(ctx context.Context, id uuid.UUID) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
