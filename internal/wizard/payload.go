package wizard

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayloadLine is one product snapshot in the serialized order.
type PayloadLine struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
}

// OrderPayload is the order-creation request body. Per-product observations
// are flattened into one ordered list prefixed with the product name.
type OrderPayload struct {
	ClientID          uuid.UUID       `json:"client_id"`
	ClientName        string          `json:"client_name"`
	Date              string          `json:"date"`
	Time              string          `json:"time"`
	ProductsJSON      []PayloadLine   `json:"products_json"`
	Observations      []string        `json:"observations"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Shipping          decimal.Decimal `json:"shipping"`
	Deposit           decimal.Decimal `json:"deposit"`
	TotalNet          decimal.Decimal `json:"total_net"`
	Balance           decimal.Decimal `json:"balance"`
	IsDeliveryEnabled bool            `json:"is_delivery_enabled"`
	DeliveryAddress   string          `json:"delivery_address,omitempty"`
	DeliveryDate      string          `json:"delivery_date,omitempty"`
	DeliveryTime      string          `json:"delivery_time,omitempty"`
}

// OrderSubmitter is the collaborator that persists a finished order.
// Implemented by apiclient.Client over HTTP.
type OrderSubmitter interface {
	CreateOrder(ctx context.Context, payload OrderPayload) (uuid.UUID, error)
}

// BuildPayload assembles the order shape from current session state: line
// snapshots, flattened observations, client identity, delivery fields and
// the computed totals the confirmation step displays.
func (s *Session) BuildPayload() OrderPayload {
	lines := make([]PayloadLine, len(s.lines))
	var observations []string
	for i, line := range s.lines {
		lines[i] = PayloadLine{
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
		}
		for _, obs := range line.Observations {
			observations = append(observations, line.Name+": "+obs)
		}
	}

	payload := OrderPayload{
		ClientID:          s.clientID,
		ClientName:        s.clientName,
		Date:              s.eventDate,
		Time:              s.eventTime,
		ProductsJSON:      lines,
		Observations:      observations,
		Subtotal:          s.totals.Subtotal,
		Shipping:          s.totals.Shipping,
		Deposit:           s.totals.Deposit,
		TotalNet:          s.totals.TotalNet,
		Balance:           s.totals.Balance,
		IsDeliveryEnabled: s.deliveryEnabled,
	}
	if s.deliveryEnabled {
		payload.DeliveryAddress = s.deliveryAddress
		payload.DeliveryDate = s.deliveryDate
		payload.DeliveryTime = s.deliveryTime
	}
	return payload
}

// Submit sends the assembled payload to the submission collaborator. On
// rejection the session is left untouched so the user can correct and retry;
// on success the session resets to the first step. The caller refreshes the
// orders collection from the server; there is no optimistic local insert.
func (s *Session) Submit(ctx context.Context, submitter OrderSubmitter) (uuid.UUID, error) {
	if err := s.validate(StepClient); err != nil {
		return uuid.Nil, err
	}
	if err := s.validate(StepProducts); err != nil {
		return uuid.Nil, err
	}

	id, err := submitter.CreateOrder(ctx, s.BuildPayload())
	if err != nil {
		return uuid.Nil, err
	}

	s.Reset()
	return id, nil
}
