package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/casadulce/api/internal/database"
	"github.com/casadulce/api/internal/service"
)

// --- Mock store ---

type mockStore struct {
	clients map[uuid.UUID]database.Client
	created *database.CreateOrderParams
}

func newMockStore() *mockStore {
	return &mockStore{clients: make(map[uuid.UUID]database.Client)}
}

func (m *mockStore) GetClient(_ context.Context, id uuid.UUID) (database.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return database.Client{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *mockStore) CreateOrder(_ context.Context, arg database.CreateOrderParams) (database.Order, error) {
	m.created = &arg
	return database.Order{
		ID:                uuid.New(),
		ClientID:          arg.ClientID,
		ClientName:        arg.ClientName,
		EventDate:         arg.EventDate,
		EventTime:         arg.EventTime,
		IsDeliveryEnabled: arg.IsDeliveryEnabled,
		DeliveryAddress:   arg.DeliveryAddress,
		ProductsJSON:      arg.ProductsJSON,
		Observations:      arg.Observations,
		Subtotal:          arg.Subtotal,
		Shipping:          arg.Shipping,
		TotalNet:          arg.TotalNet,
		Deposit:           arg.Deposit,
		Balance:           arg.Balance,
		OrderDate:         time.Now(),
	}, nil
}

// --- Helpers ---

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedClient(store *mockStore, name string) database.Client {
	c := database.Client{ID: uuid.New(), Name: name}
	store.clients[c.ID] = c
	return c
}

func validRequest(clientID uuid.UUID) service.CreateOrderRequest {
	return service.CreateOrderRequest{
		ClientID:   clientID,
		ClientName: "María González",
		Date:       "2026-09-15",
		Time:       "17:00",
		Lines: []service.CreateOrderLine{
			{Name: "Torta de Chocolate", Price: dec("1000"), Quantity: 2},
		},
		Observations:      []string{"Torta de Chocolate: sin nueces"},
		Subtotal:          dec("2000"),
		Shipping:          dec("500"),
		Deposit:           dec("1250"),
		TotalNet:          dec("2500"),
		Balance:           dec("1250"),
		IsDeliveryEnabled: true,
		DeliveryAddress:   "Av. Siempre Viva 742",
	}
}

// --- Tests ---

func TestCreateOrder(t *testing.T) {
	store := newMockStore()
	svc := service.NewOrderService(store)
	client := seedClient(store, "María González")

	order, err := svc.CreateOrder(context.Background(), validRequest(client.ID))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ClientID != client.ID {
		t.Errorf("expected client ID on order")
	}
	if service.NumericToDecimal(order.TotalNet).Cmp(dec("2500")) != 0 {
		t.Errorf("expected total 2500, got %s", service.NumericToDecimal(order.TotalNet))
	}
	if service.NumericToDecimal(order.Balance).Cmp(dec("1250")) != 0 {
		t.Errorf("expected balance 1250, got %s", service.NumericToDecimal(order.Balance))
	}

	var lines []service.CreateOrderLine
	if err := json.Unmarshal(store.created.ProductsJSON, &lines); err != nil {
		t.Fatalf("stored products_json is not valid JSON: %v", err)
	}
	if len(lines) != 1 || lines[0].Name != "Torta de Chocolate" {
		t.Errorf("unexpected stored lines: %+v", lines)
	}
}

func TestCreateOrderSnapshotsStoredClientName(t *testing.T) {
	store := newMockStore()
	svc := service.NewOrderService(store)
	client := seedClient(store, "María G. Fuentes")

	req := validRequest(client.ID)
	req.ClientName = "Old Name"

	order, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ClientName != "María G. Fuentes" {
		t.Errorf("expected stored client name, got %q", order.ClientName)
	}
}

func TestCreateOrderTotalsMismatch(t *testing.T) {
	store := newMockStore()
	svc := service.NewOrderService(store)
	client := seedClient(store, "María González")

	cases := []struct {
		name   string
		mutate func(*service.CreateOrderRequest)
	}{
		{"wrong subtotal", func(r *service.CreateOrderRequest) { r.Subtotal = dec("1") }},
		{"wrong total", func(r *service.CreateOrderRequest) { r.TotalNet = dec("9999") }},
		{"wrong balance", func(r *service.CreateOrderRequest) { r.Balance = dec("0") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest(client.ID)
			tc.mutate(&req)
			if _, err := svc.CreateOrder(context.Background(), req); !errors.Is(err, service.ErrTotalsMismatch) {
				t.Errorf("expected ErrTotalsMismatch, got %v", err)
			}
		})
	}
}

func TestCreateOrderDisabledDeliveryForcesShippingZero(t *testing.T) {
	store := newMockStore()
	svc := service.NewOrderService(store)
	client := seedClient(store, "María González")

	req := validRequest(client.ID)
	req.IsDeliveryEnabled = false
	req.DeliveryAddress = ""
	// Shipping claimed by the payload is ignored; totals must reconcile
	// against the forced zero.
	req.Shipping = dec("500")
	req.TotalNet = dec("2000")
	req.Balance = dec("750")

	order, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if service.NumericToDecimal(order.Shipping).Cmp(decimal.Zero) != 0 {
		t.Errorf("expected shipping 0, got %s", service.NumericToDecimal(order.Shipping))
	}
	if order.DeliveryAddress.Valid {
		t.Errorf("expected no delivery address stored")
	}
}

func TestCreateOrderValidation(t *testing.T) {
	store := newMockStore()
	svc := service.NewOrderService(store)
	client := seedClient(store, "María González")

	cases := []struct {
		name   string
		mutate func(*service.CreateOrderRequest)
		want   error
	}{
		{"missing client", func(r *service.CreateOrderRequest) { r.ClientID = uuid.Nil }, service.ErrClientRequired},
		{"no products", func(r *service.CreateOrderRequest) { r.Lines = nil }, service.ErrEmptyProducts},
		{"missing date", func(r *service.CreateOrderRequest) { r.Date = " " }, service.ErrScheduleRequired},
		{"missing time", func(r *service.CreateOrderRequest) { r.Time = "" }, service.ErrScheduleRequired},
		{"delivery without address", func(r *service.CreateOrderRequest) { r.DeliveryAddress = "" }, service.ErrDeliveryAddress},
		{"negative deposit", func(r *service.CreateOrderRequest) { r.Deposit = dec("-1") }, service.ErrNegativeAmount},
		{"zero quantity", func(r *service.CreateOrderRequest) { r.Lines[0].Quantity = 0 }, service.ErrInvalidQuantity},
		{"negative price", func(r *service.CreateOrderRequest) { r.Lines[0].Price = dec("-1") }, service.ErrNegativePrice},
		{"unnamed product", func(r *service.CreateOrderRequest) { r.Lines[0].Name = "  " }, service.ErrProductNameMissing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest(client.ID)
			tc.mutate(&req)
			if _, err := svc.CreateOrder(context.Background(), req); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateOrderUnknownClient(t *testing.T) {
	store := newMockStore()
	svc := service.NewOrderService(store)

	if _, err := svc.CreateOrder(context.Background(), validRequest(uuid.New())); !errors.Is(err, service.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestCreateOrderNilObservationsStoredAsEmptyList(t *testing.T) {
	store := newMockStore()
	svc := service.NewOrderService(store)
	client := seedClient(store, "María González")

	req := validRequest(client.ID)
	req.Observations = nil

	if _, err := svc.CreateOrder(context.Background(), req); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if string(store.created.Observations) != "[]" {
		t.Errorf("expected empty JSON list, got %s", store.created.Observations)
	}
}
