package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/casadulce/api/internal/database"
	"github.com/casadulce/api/internal/enum"
	"github.com/casadulce/api/internal/pdf"
	"github.com/casadulce/api/internal/service"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (database.Order, error)
}

// OrderStore defines the database methods needed by order read/update
// handlers. Satisfied by *database.Queries.
type OrderStore interface {
	ListOrders(ctx context.Context) ([]database.OrderWithClient, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	UpdateOrderPayment(ctx context.Context, arg database.UpdateOrderPaymentParams) (database.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

// Broadcaster pushes order events to connected websocket clients.
// Satisfied by *ws.Hub; nil disables broadcasting.
type Broadcaster interface {
	Broadcast(eventType string, payload any)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc   OrderServicer
	store OrderStore
	hub   Broadcaster
}

// NewOrderHandler creates a new OrderHandler. hub may be nil.
func NewOrderHandler(svc OrderServicer, store OrderStore, hub Broadcaster) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, hub: hub}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Mounted at /api/orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}/payment-status", h.UpdatePaymentStatus)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/pdf", h.InvoicePDF)
}

// --- Request / Response types ---

type createOrderRequest struct {
	ClientID          string                    `json:"client_id"`
	ClientName        string                    `json:"client_name"`
	Date              string                    `json:"date"`
	Time              string                    `json:"time"`
	ProductsJSON      []service.CreateOrderLine `json:"products_json"`
	Observations      []string                  `json:"observations"`
	Subtotal          decimal.Decimal           `json:"subtotal"`
	Shipping          decimal.Decimal           `json:"shipping"`
	Deposit           decimal.Decimal           `json:"deposit"`
	TotalNet          decimal.Decimal           `json:"total_net"`
	Balance           decimal.Decimal           `json:"balance"`
	IsDeliveryEnabled bool                      `json:"is_delivery_enabled"`
	DeliveryAddress   string                    `json:"delivery_address"`
	DeliveryDate      string                    `json:"delivery_date"`
	DeliveryTime      string                    `json:"delivery_time"`
}

type updatePaymentStatusRequest struct {
	AnticipoPagado  *bool `json:"anticipo_pagado"`
	PendientePagado *bool `json:"pendiente_pagado"`
}

type orderResponse struct {
	ID                uuid.UUID       `json:"id"`
	ClientID          uuid.UUID       `json:"client_id"`
	ClientName        string          `json:"client_name"`
	ClientPhone       *string         `json:"client_phone,omitempty"`
	ClientEmail       *string         `json:"client_email,omitempty"`
	Date              string          `json:"date"`
	Time              string          `json:"time"`
	ProductsJSON      json.RawMessage `json:"products_json"`
	Observations      json.RawMessage `json:"observations"`
	Subtotal          string          `json:"subtotal"`
	Shipping          string          `json:"shipping"`
	TotalNet          string          `json:"total_net"`
	Deposit           string          `json:"deposit"`
	Balance           string          `json:"balance"`
	AnticipoPagado    bool            `json:"anticipo_pagado"`
	PendientePagado   bool            `json:"pendiente_pagado"`
	PaymentStatus     string          `json:"payment_status"`
	IsDeliveryEnabled bool            `json:"is_delivery_enabled"`
	DeliveryAddress   *string         `json:"delivery_address"`
	DeliveryDate      *string         `json:"delivery_date"`
	DeliveryTime      *string         `json:"delivery_time"`
	OrderDate         time.Time       `json:"order_date"`
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:                o.ID,
		ClientID:          o.ClientID,
		ClientName:        o.ClientName,
		Date:              o.EventDate.String,
		Time:              o.EventTime.String,
		ProductsJSON:      json.RawMessage(o.ProductsJSON),
		Observations:      json.RawMessage(o.Observations),
		Subtotal:          numericToString(o.Subtotal),
		Shipping:          numericToString(o.Shipping),
		TotalNet:          numericToString(o.TotalNet),
		Deposit:           numericToString(o.Deposit),
		Balance:           numericToString(o.Balance),
		AnticipoPagado:    o.AnticipoPagado,
		PendientePagado:   o.PendientePagado,
		PaymentStatus:     enum.PaymentLabel(o.AnticipoPagado, service.NumericToDecimal(o.Balance)),
		IsDeliveryEnabled: o.IsDeliveryEnabled,
		OrderDate:         o.OrderDate,
	}
	if o.DeliveryAddress.Valid {
		resp.DeliveryAddress = &o.DeliveryAddress.String
	}
	if o.DeliveryDate.Valid {
		resp.DeliveryDate = &o.DeliveryDate.String
	}
	if o.DeliveryTime.Valid {
		resp.DeliveryTime = &o.DeliveryTime.String
	}
	return resp
}

func toOrderWithClientResponse(o database.OrderWithClient) orderResponse {
	resp := toOrderResponse(o.Order)
	if o.ClientPhone.Valid {
		resp.ClientPhone = &o.ClientPhone.String
	}
	if o.ClientEmail.Valid {
		resp.ClientEmail = &o.ClientEmail.String
	}
	return resp
}

// --- Handlers ---

// List returns all orders with payment status labels, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context())
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderWithClientResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single order by ID.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// Create persists a confirmed order. The totals are recomputed server side
// and the request is rejected if they do not reconcile with the lines.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	clientID := uuid.Nil
	if req.ClientID != "" {
		var err error
		clientID, err = uuid.Parse(req.ClientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid client_id")
			return
		}
	}

	order, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		ClientID:          clientID,
		ClientName:        req.ClientName,
		Date:              req.Date,
		Time:              req.Time,
		Lines:             req.ProductsJSON,
		Observations:      req.Observations,
		Subtotal:          req.Subtotal,
		Shipping:          req.Shipping,
		Deposit:           req.Deposit,
		TotalNet:          req.TotalNet,
		Balance:           req.Balance,
		IsDeliveryEnabled: req.IsDeliveryEnabled,
		DeliveryAddress:   req.DeliveryAddress,
		DeliveryDate:      req.DeliveryDate,
		DeliveryTime:      req.DeliveryTime,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := toOrderResponse(order)
	if h.hub != nil {
		h.hub.Broadcast("order.created", resp)
	}
	writeJSON(w, http.StatusCreated, resp)
}

// UpdatePaymentStatus sets one or both payment flags. A flag absent from the
// body keeps its current value.
func (h *OrderHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req updatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AnticipoPagado == nil && req.PendientePagado == nil {
		writeError(w, http.StatusBadRequest, "at least one of anticipo_pagado or pendiente_pagado is required")
		return
	}

	current, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Printf("ERROR: get order for payment update: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	params := database.UpdateOrderPaymentParams{
		ID:              id,
		AnticipoPagado:  current.AnticipoPagado,
		PendientePagado: current.PendientePagado,
	}
	if req.AnticipoPagado != nil {
		params.AnticipoPagado = *req.AnticipoPagado
	}
	if req.PendientePagado != nil {
		params.PendientePagado = *req.PendientePagado
	}

	order, err := h.store.UpdateOrderPayment(r.Context(), params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Printf("ERROR: update order payment: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := toOrderResponse(order)
	if h.hub != nil {
		h.hub.Broadcast("order.payment_updated", resp)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Delete removes an order.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	if err := h.store.DeleteOrder(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Printf("ERROR: delete order: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// InvoicePDF renders the order as a downloadable PDF invoice.
func (h *OrderHandler) InvoicePDF(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Printf("ERROR: get order for pdf: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	data, err := pdf.Invoice(order)
	if err != nil {
		log.Printf("ERROR: generate invoice pdf: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "pedido-"+order.ID.String()+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeServiceError maps order service errors to HTTP statuses.
func (h *OrderHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrClientRequired),
		errors.Is(err, service.ErrEmptyProducts),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrNegativePrice),
		errors.Is(err, service.ErrNegativeAmount),
		errors.Is(err, service.ErrScheduleRequired),
		errors.Is(err, service.ErrDeliveryAddress),
		errors.Is(err, service.ErrTotalsMismatch),
		errors.Is(err, service.ErrProductNameMissing):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("ERROR: create order: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
