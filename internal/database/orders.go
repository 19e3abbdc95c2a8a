package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `o.id, o.client_id, o.client_name, o.event_date, o.event_time,
	o.delivery_date, o.delivery_time, o.is_delivery_enabled, o.delivery_address,
	o.products_json, o.observations, o.subtotal, o.shipping, o.total_net,
	o.deposit, o.balance, o.anticipo_pagado, o.pendiente_pagado, o.order_date`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.ClientID, &o.ClientName, &o.EventDate, &o.EventTime,
		&o.DeliveryDate, &o.DeliveryTime, &o.IsDeliveryEnabled, &o.DeliveryAddress,
		&o.ProductsJSON, &o.Observations, &o.Subtotal, &o.Shipping, &o.TotalNet,
		&o.Deposit, &o.Balance, &o.AnticipoPagado, &o.PendientePagado, &o.OrderDate,
	)
	return o, err
}

// ListOrders returns all orders joined with the client's current contact
// details, newest first.
func (q *Queries) ListOrders(ctx context.Context) ([]OrderWithClient, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+orderColumns+`, c.phone, c.email
		FROM orders o
		JOIN clients c ON c.id = o.client_id
		ORDER BY o.order_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []OrderWithClient
	for rows.Next() {
		var o OrderWithClient
		err := rows.Scan(
			&o.ID, &o.ClientID, &o.ClientName, &o.EventDate, &o.EventTime,
			&o.DeliveryDate, &o.DeliveryTime, &o.IsDeliveryEnabled, &o.DeliveryAddress,
			&o.ProductsJSON, &o.Observations, &o.Subtotal, &o.Shipping, &o.TotalNet,
			&o.Deposit, &o.Balance, &o.AnticipoPagado, &o.PendientePagado, &o.OrderDate,
			&o.ClientPhone, &o.ClientEmail,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// GetOrder returns a single order by ID.
func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id))
}

// CreateOrderParams carries a fully assembled order snapshot.
type CreateOrderParams struct {
	ClientID          uuid.UUID
	ClientName        string
	EventDate         pgtype.Text
	EventTime         pgtype.Text
	DeliveryDate      pgtype.Text
	DeliveryTime      pgtype.Text
	IsDeliveryEnabled bool
	DeliveryAddress   pgtype.Text
	ProductsJSON      []byte
	Observations      []byte
	Subtotal          pgtype.Numeric
	Shipping          pgtype.Numeric
	TotalNet          pgtype.Numeric
	Deposit           pgtype.Numeric
	Balance           pgtype.Numeric
	AnticipoPagado    bool
	PendientePagado   bool
}

// CreateOrder inserts an order and returns the stored row.
func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, `
		INSERT INTO orders AS o (
			client_id, client_name, event_date, event_time,
			delivery_date, delivery_time, is_delivery_enabled, delivery_address,
			products_json, observations, subtotal, shipping, total_net,
			deposit, balance, anticipo_pagado, pendiente_pagado
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+orderColumns,
		arg.ClientID, arg.ClientName, arg.EventDate, arg.EventTime,
		arg.DeliveryDate, arg.DeliveryTime, arg.IsDeliveryEnabled, arg.DeliveryAddress,
		arg.ProductsJSON, arg.Observations, arg.Subtotal, arg.Shipping, arg.TotalNet,
		arg.Deposit, arg.Balance, arg.AnticipoPagado, arg.PendientePagado))
}

// UpdateOrderPaymentParams sets the two independent payment flags.
type UpdateOrderPaymentParams struct {
	ID              uuid.UUID
	AnticipoPagado  bool
	PendientePagado bool
}

// UpdateOrderPayment updates only the payment flags and returns the stored
// row. Returns pgx.ErrNoRows if the order does not exist.
func (q *Queries) UpdateOrderPayment(ctx context.Context, arg UpdateOrderPaymentParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, `
		UPDATE orders o
		SET anticipo_pagado = $2, pendiente_pagado = $3
		WHERE o.id = $1
		RETURNING `+orderColumns,
		arg.ID, arg.AnticipoPagado, arg.PendientePagado))
}

// DeleteOrder removes an order. Returns pgx.ErrNoRows if absent.
func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
