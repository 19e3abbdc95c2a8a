package wizard_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/casadulce/api/internal/wizard"
)

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newLoadedSession(t *testing.T) (*wizard.Session, wizard.Client, wizard.Product) {
	t.Helper()
	client := wizard.Client{ID: uuid.New(), Name: "María González", Phone: "+56 9 1234 5678"}
	product := wizard.Product{ID: uuid.New(), Name: "Torta de Chocolate", Price: price("1000")}

	s := wizard.NewSession()
	s.LoadClients([]wizard.Client{client})
	s.LoadProducts([]wizard.Product{product})
	return s, client, product
}

// advance fills in the minimum state to pass each step's validation and
// walks to the target step.
func advance(t *testing.T, s *wizard.Session, client wizard.Client, product wizard.Product, target wizard.Step) {
	t.Helper()
	if target >= wizard.StepSchedule {
		if err := s.SelectClient(client.ID); err != nil {
			t.Fatalf("select client: %v", err)
		}
		if err := s.Next(); err != nil {
			t.Fatalf("next from client: %v", err)
		}
	}
	if target >= wizard.StepProducts {
		s.SetSchedule("2026-09-15", "17:00")
		if err := s.Next(); err != nil {
			t.Fatalf("next from schedule: %v", err)
		}
	}
	if target >= wizard.StepObservations {
		if _, err := s.AddLine(product.ID, 1); err != nil {
			t.Fatalf("add line: %v", err)
		}
		if err := s.Next(); err != nil {
			t.Fatalf("next from products: %v", err)
		}
	}
	if target >= wizard.StepTotals {
		if err := s.Next(); err != nil {
			t.Fatalf("next from observations: %v", err)
		}
	}
}

func TestSessionStartsOnClientStep(t *testing.T) {
	s := wizard.NewSession()
	if s.Step() != wizard.StepClient {
		t.Errorf("expected StepClient, got %v", s.Step())
	}
	if s.Ready() {
		t.Errorf("expected session not ready before catalogs load")
	}
}

func TestSelectClientBeforeCatalogLoads(t *testing.T) {
	s := wizard.NewSession()
	if err := s.SelectClient(uuid.New()); !errors.Is(err, wizard.ErrClientsNotLoaded) {
		t.Errorf("expected ErrClientsNotLoaded, got %v", err)
	}
}

func TestSelectClientUnknownID(t *testing.T) {
	s, _, _ := newLoadedSession(t)
	if err := s.SelectClient(uuid.New()); !errors.Is(err, wizard.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestNextBlockedWithoutClient(t *testing.T) {
	s, _, _ := newLoadedSession(t)

	err := s.Next()
	if !errors.Is(err, wizard.ErrNoClientSelected) {
		t.Errorf("expected ErrNoClientSelected, got %v", err)
	}
	if s.Step() != wizard.StepClient {
		t.Errorf("expected step unchanged on validation failure, got %v", s.Step())
	}
}

func TestNextBlockedWithoutSchedule(t *testing.T) {
	s, client, product := newLoadedSession(t)
	advance(t, s, client, product, wizard.StepSchedule)

	if err := s.Next(); !errors.Is(err, wizard.ErrScheduleIncomplete) {
		t.Errorf("expected ErrScheduleIncomplete, got %v", err)
	}

	s.SetSchedule("2026-09-15", "")
	if err := s.Next(); !errors.Is(err, wizard.ErrScheduleIncomplete) {
		t.Errorf("expected ErrScheduleIncomplete with missing time, got %v", err)
	}
}

func TestNextBlockedWithoutProducts(t *testing.T) {
	s, client, product := newLoadedSession(t)
	advance(t, s, client, product, wizard.StepProducts)

	if err := s.Next(); !errors.Is(err, wizard.ErrNoProducts) {
		t.Errorf("expected ErrNoProducts, got %v", err)
	}
}

func TestPrevAlwaysAllowedAndKeepsState(t *testing.T) {
	s, client, product := newLoadedSession(t)
	advance(t, s, client, product, wizard.StepProducts)

	s.Prev()
	if s.Step() != wizard.StepSchedule {
		t.Errorf("expected StepSchedule, got %v", s.Step())
	}
	s.Prev()
	if s.Step() != wizard.StepClient {
		t.Errorf("expected StepClient, got %v", s.Step())
	}
	// Prev on the first step is a no-op.
	s.Prev()
	if s.Step() != wizard.StepClient {
		t.Errorf("expected StepClient after extra Prev, got %v", s.Step())
	}

	id, name := s.SelectedClient()
	if id != client.ID || name != client.Name {
		t.Errorf("expected client selection preserved across Prev")
	}
}

func TestWalkToLastStep(t *testing.T) {
	s, client, product := newLoadedSession(t)
	advance(t, s, client, product, wizard.StepTotals)

	if !s.OnLastStep() {
		t.Errorf("expected OnLastStep on the totals step")
	}
	// Next on the last step stays put.
	if err := s.Next(); err != nil {
		t.Fatalf("next on last step: %v", err)
	}
	if s.Step() != wizard.StepTotals {
		t.Errorf("expected to stay on StepTotals, got %v", s.Step())
	}
}

func TestDisablingDeliveryForcesShippingZero(t *testing.T) {
	s, client, product := newLoadedSession(t)
	advance(t, s, client, product, wizard.StepObservations)

	s.SetDelivery(true)
	s.SetDeliveryDetails("Av. Siempre Viva 742", "2026-09-15", "16:00")
	if err := s.SetShipping(price("500")); err != nil {
		t.Fatalf("set shipping: %v", err)
	}
	if !s.Totals().Shipping.Equal(price("500")) {
		t.Fatalf("expected shipping 500, got %s", s.Totals().Shipping)
	}

	s.SetDelivery(false)
	if !s.Totals().Shipping.IsZero() {
		t.Errorf("expected shipping forced to 0 when delivery disabled, got %s", s.Totals().Shipping)
	}
}

func TestShippingPinnedWhileDeliveryDisabled(t *testing.T) {
	s, client, product := newLoadedSession(t)
	advance(t, s, client, product, wizard.StepObservations)

	if err := s.SetShipping(price("500")); err != nil {
		t.Fatalf("set shipping: %v", err)
	}
	if !s.Totals().Shipping.IsZero() {
		t.Errorf("expected shipping to stay 0 while delivery is off, got %s", s.Totals().Shipping)
	}
}

func TestNegativeAmountsRejected(t *testing.T) {
	s, client, product := newLoadedSession(t)
	advance(t, s, client, product, wizard.StepObservations)

	if err := s.SetShipping(price("-1")); !errors.Is(err, wizard.ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount for shipping, got %v", err)
	}
	if err := s.SetDeposit(price("-1")); !errors.Is(err, wizard.ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount for deposit, got %v", err)
	}
}

func TestResetKeepsCatalogs(t *testing.T) {
	s, client, product := newLoadedSession(t)
	advance(t, s, client, product, wizard.StepTotals)

	s.Reset()

	if s.Step() != wizard.StepClient {
		t.Errorf("expected StepClient after reset, got %v", s.Step())
	}
	if id, _ := s.SelectedClient(); id != uuid.Nil {
		t.Errorf("expected client cleared after reset")
	}
	if len(s.Lines()) != 0 {
		t.Errorf("expected lines cleared after reset")
	}
	if !s.Ready() {
		t.Errorf("expected catalogs kept after reset")
	}
	if err := s.SelectClient(client.ID); err != nil {
		t.Errorf("expected catalog still usable after reset: %v", err)
	}
}
