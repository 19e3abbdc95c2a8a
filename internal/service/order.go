// Package service holds order business logic: payload validation, totals
// reconciliation and persistence. Handlers stay thin and map service errors
// to HTTP statuses.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/casadulce/api/internal/database"
)

// Errors returned by the order service.
var (
	ErrClientRequired     = errors.New("client_id is required")
	ErrClientNotFound     = errors.New("client not found")
	ErrEmptyProducts      = errors.New("at least one product is required")
	ErrInvalidQuantity    = errors.New("quantity must be > 0")
	ErrNegativePrice      = errors.New("price must not be negative")
	ErrNegativeAmount     = errors.New("amounts must not be negative")
	ErrScheduleRequired   = errors.New("date and time are required")
	ErrDeliveryAddress    = errors.New("delivery_address is required when delivery is enabled")
	ErrTotalsMismatch     = errors.New("submitted totals do not reconcile with the product lines")
	ErrProductNameMissing = errors.New("product name is required")
)

// OrderStore defines the DB methods needed to create orders.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetClient(ctx context.Context, id uuid.UUID) (database.Client, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
}

// CreateOrderLine is one product snapshot in the order request.
type CreateOrderLine struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
}

// CreateOrderRequest is the validated input for creating an order.
type CreateOrderRequest struct {
	ClientID          uuid.UUID
	ClientName        string
	Date              string
	Time              string
	Lines             []CreateOrderLine
	Observations      []string
	Subtotal          decimal.Decimal
	Shipping          decimal.Decimal
	Deposit           decimal.Decimal
	TotalNet          decimal.Decimal
	Balance           decimal.Decimal
	IsDeliveryEnabled bool
	DeliveryAddress   string
	DeliveryDate      string
	DeliveryTime      string
}

// OrderService handles order creation.
type OrderService struct {
	store OrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(store OrderStore) *OrderService {
	return &OrderService{store: store}
}

// CreateOrder validates the payload, recomputes the totals from the product
// lines and rejects any payload whose submitted totals do not reconcile.
// The persisted totals are always the recomputed ones, so the live table,
// the confirmation summary and the stored order can never diverge.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (database.Order, error) {
	if req.ClientID == uuid.Nil {
		return database.Order{}, ErrClientRequired
	}
	if len(req.Lines) == 0 {
		return database.Order{}, ErrEmptyProducts
	}
	if strings.TrimSpace(req.Date) == "" || strings.TrimSpace(req.Time) == "" {
		return database.Order{}, ErrScheduleRequired
	}
	if req.IsDeliveryEnabled && strings.TrimSpace(req.DeliveryAddress) == "" {
		return database.Order{}, ErrDeliveryAddress
	}
	if req.Shipping.IsNegative() || req.Deposit.IsNegative() {
		return database.Order{}, ErrNegativeAmount
	}

	// Delivery off means no shipping, whatever the client sent.
	shipping := req.Shipping
	if !req.IsDeliveryEnabled {
		shipping = decimal.Zero
	}

	subtotal := decimal.Zero
	for i, line := range req.Lines {
		if strings.TrimSpace(line.Name) == "" {
			return database.Order{}, fmt.Errorf("products_json[%d]: %w", i, ErrProductNameMissing)
		}
		if line.Quantity <= 0 {
			return database.Order{}, fmt.Errorf("products_json[%d]: %w", i, ErrInvalidQuantity)
		}
		if line.Price.IsNegative() {
			return database.Order{}, fmt.Errorf("products_json[%d]: %w", i, ErrNegativePrice)
		}
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt32(line.Quantity)))
	}

	totalNet := subtotal.Add(shipping)
	balance := totalNet.Sub(req.Deposit)

	if !req.Subtotal.Equal(subtotal) || !req.TotalNet.Equal(totalNet) || !req.Balance.Equal(balance) {
		return database.Order{}, ErrTotalsMismatch
	}

	// Snapshot the client's name from the database, not the payload: the
	// payload copy can be stale if the client was renamed mid-session.
	client, err := s.store.GetClient(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrClientNotFound
		}
		return database.Order{}, fmt.Errorf("get client: %w", err)
	}

	productsJSON, err := json.Marshal(req.Lines)
	if err != nil {
		return database.Order{}, fmt.Errorf("marshal products: %w", err)
	}
	observations := req.Observations
	if observations == nil {
		observations = []string{}
	}
	observationsJSON, err := json.Marshal(observations)
	if err != nil {
		return database.Order{}, fmt.Errorf("marshal observations: %w", err)
	}

	params := database.CreateOrderParams{
		ClientID:          client.ID,
		ClientName:        client.Name,
		EventDate:         pgtype.Text{String: req.Date, Valid: true},
		EventTime:         pgtype.Text{String: req.Time, Valid: true},
		IsDeliveryEnabled: req.IsDeliveryEnabled,
		ProductsJSON:      productsJSON,
		Observations:      observationsJSON,
		Subtotal:          decimalToNumeric(subtotal),
		Shipping:          decimalToNumeric(shipping),
		TotalNet:          decimalToNumeric(totalNet),
		Deposit:           decimalToNumeric(req.Deposit),
		Balance:           decimalToNumeric(balance),
	}
	if req.IsDeliveryEnabled {
		params.DeliveryAddress = pgtype.Text{String: req.DeliveryAddress, Valid: true}
		if req.DeliveryDate != "" {
			params.DeliveryDate = pgtype.Text{String: req.DeliveryDate, Valid: true}
		}
		if req.DeliveryTime != "" {
			params.DeliveryTime = pgtype.Text{String: req.DeliveryTime, Valid: true}
		}
	}

	order, err := s.store.CreateOrder(ctx, params)
	if err != nil {
		return database.Order{}, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// --- Helpers ---

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

// NumericToDecimal converts a database numeric to a decimal, treating NULL
// and scan failures as zero.
func NumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}
