// Package apiclient is the HTTP gateway the order form talks through. It
// implements wizard.OrderSubmitter and the catalog/orders fetches, one round
// trip per call with no retries; the caller decides how to surface failures.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/casadulce/api/internal/wizard"
)

// APIError is a non-2xx response from the server, carrying the error message
// from the response body verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Order is one row of the orders listing.
type Order struct {
	ID                uuid.UUID            `json:"id"`
	ClientID          uuid.UUID            `json:"client_id"`
	ClientName        string               `json:"client_name"`
	ClientPhone       *string              `json:"client_phone"`
	ClientEmail       *string              `json:"client_email"`
	Date              string               `json:"date"`
	Time              string               `json:"time"`
	ProductsJSON      []wizard.PayloadLine `json:"products_json"`
	Observations      []string             `json:"observations"`
	Subtotal          decimal.Decimal      `json:"subtotal"`
	Shipping          decimal.Decimal      `json:"shipping"`
	TotalNet          decimal.Decimal      `json:"total_net"`
	Deposit           decimal.Decimal      `json:"deposit"`
	Balance           decimal.Decimal      `json:"balance"`
	AnticipoPagado    bool                 `json:"anticipo_pagado"`
	PendientePagado   bool                 `json:"pendiente_pagado"`
	PaymentStatus     string               `json:"payment_status"`
	IsDeliveryEnabled bool                 `json:"is_delivery_enabled"`
	DeliveryAddress   *string              `json:"delivery_address"`
	DeliveryDate      *string              `json:"delivery_date"`
	DeliveryTime      *string              `json:"delivery_time"`
	OrderDate         time.Time            `json:"order_date"`
}

// PaymentStatusUpdate carries the flags to change. A nil flag keeps the
// server-side value.
type PaymentStatusUpdate struct {
	AnticipoPagado  *bool `json:"anticipo_pagado,omitempty"`
	PendientePagado *bool `json:"pendiente_pagado,omitempty"`
}

// Client talks to the order API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type clientJSON struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone *string   `json:"phone"`
	Email *string   `json:"email"`
}

type productJSON struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// FetchClients loads the client catalog for the wizard.
func (c *Client) FetchClients(ctx context.Context) ([]wizard.Client, error) {
	var raw []clientJSON
	if err := c.do(ctx, http.MethodGet, "/api/clients", nil, &raw); err != nil {
		return nil, err
	}
	clients := make([]wizard.Client, len(raw))
	for i, cl := range raw {
		clients[i] = wizard.Client{ID: cl.ID, Name: cl.Name}
		if cl.Phone != nil {
			clients[i].Phone = *cl.Phone
		}
		if cl.Email != nil {
			clients[i].Email = *cl.Email
		}
	}
	return clients, nil
}

// FetchProducts loads the product catalog for the wizard.
func (c *Client) FetchProducts(ctx context.Context) ([]wizard.Product, error) {
	var raw []productJSON
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &raw); err != nil {
		return nil, err
	}
	products := make([]wizard.Product, len(raw))
	for i, p := range raw {
		products[i] = wizard.Product{ID: p.ID, Name: p.Name, Price: p.Price}
	}
	return products, nil
}

// FetchOrders loads all orders, newest first.
func (c *Client) FetchOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder submits a finished order. Implements wizard.OrderSubmitter.
func (c *Client) CreateOrder(ctx context.Context, payload wizard.OrderPayload) (uuid.UUID, error) {
	var created Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", payload, &created); err != nil {
		return uuid.Nil, err
	}
	return created.ID, nil
}

// UpdatePaymentStatus flips one or both payment flags on an order.
func (c *Client) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, update PaymentStatusUpdate) (Order, error) {
	var order Order
	err := c.do(ctx, http.MethodPut, "/api/orders/"+id.String()+"/payment-status", update, &order)
	return order, err
}

// DeleteOrder removes an order.
func (c *Client) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/orders/"+id.String(), nil, nil)
}

// InvoicePDF downloads the PDF invoice for an order.
func (c *Client) InvoicePDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/orders/"+id.String()+"/pdf", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}
	return io.ReadAll(resp.Body)
}

// do performs one request. A nil body sends no payload; a nil out discards
// the response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
	}
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}
