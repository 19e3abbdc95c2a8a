package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Client is a row in the clients table.
type Client struct {
	ID        uuid.UUID
	Name      string
	Phone     pgtype.Text
	Email     pgtype.Text
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product is a row in the products catalog.
type Product struct {
	ID        uuid.UUID
	Name      string
	Price     pgtype.Numeric
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Order is a row in the orders table. Products and observations are stored
// as JSON snapshots taken at confirmation time; only the two payment flags
// change after creation.
type Order struct {
	ID                uuid.UUID
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
	OrderDate         time.Time
}

// OrderWithClient is an order joined with its client's contact snapshot,
// as returned by the orders listing.
type OrderWithClient struct {
	Order
	ClientPhone pgtype.Text
	ClientEmail pgtype.Text
}
