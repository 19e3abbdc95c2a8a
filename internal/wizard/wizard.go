// Package wizard implements the multi-step order form: step navigation with
// validation gating, the selected-product list with per-line observations,
// derived totals, and assembly of the final order payload. All state lives
// in a Session; nothing is kept in package-level variables.
package wizard

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Errors reported by wizard operations. All of them are user-recoverable:
// the session stays on the same step with its state unchanged.
var (
	ErrClientsNotLoaded    = errors.New("clients are still loading")
	ErrProductsNotLoaded   = errors.New("products are still loading")
	ErrNoClientSelected    = errors.New("select a client")
	ErrClientNotFound      = errors.New("client not found in catalog")
	ErrScheduleIncomplete  = errors.New("date and time are required")
	ErrNoProducts          = errors.New("add at least one product")
	ErrInvalidQuantity     = errors.New("quantity must be > 0")
	ErrProductNotFound     = errors.New("product not found in catalog")
	ErrLineNotFound        = errors.New("selected product not found")
	ErrObservationNotFound = errors.New("observation not found")
	ErrEmptyObservation    = errors.New("observation text is empty")
	ErrNoEditInProgress    = errors.New("no observation edit in progress")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrInvalidAmount       = errors.New("amount is not a number")
)

// Step is one page of the order form.
type Step int

const (
	StepClient Step = iota
	StepSchedule
	StepProducts
	StepObservations
	StepTotals
)

func (s Step) String() string {
	switch s {
	case StepClient:
		return "client"
	case StepSchedule:
		return "schedule"
	case StepProducts:
		return "products"
	case StepObservations:
		return "observations"
	case StepTotals:
		return "totals"
	}
	return "unknown"
}

// Client is a catalog entry the wizard can select from.
type Client struct {
	ID    uuid.UUID
	Name  string
	Phone string
	Email string
}

// Product is a catalog entry the wizard can add to the order.
type Product struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
}

// Line is a product added to the in-progress order. The name and price are
// snapshots taken at selection time; the instance ID is local to the session
// so the same catalog product can appear on several lines.
type Line struct {
	InstanceID   int64
	ProductID    uuid.UUID
	Name         string
	Price        decimal.Decimal
	Quantity     int32
	Observations []string
}

// obsEdit tracks a two-phase observation edit between begin and commit.
type obsEdit struct {
	instanceID int64
	index      int
	original   string
}

// Session holds all wizard state for one in-progress order.
type Session struct {
	step Step

	clients        []Client
	products       []Product
	clientsLoaded  bool
	productsLoaded bool

	clientID   uuid.UUID
	clientName string

	eventDate string
	eventTime string

	deliveryEnabled bool
	deliveryAddress string
	deliveryDate    string
	deliveryTime    string

	lines        []Line
	nextInstance int64
	activeTab    int64 // instance ID of the active observation tab, 0 = none
	edit         *obsEdit

	shipping decimal.Decimal
	deposit  decimal.Decimal

	totals Totals
}

// NewSession creates a wizard session on the first step with empty state.
// Catalogs must be loaded before client or product selection is allowed.
func NewSession() *Session {
	return &Session{
		step:     StepClient,
		shipping: decimal.Zero,
		deposit:  decimal.Zero,
	}
}

// --- Catalog loading ---

// LoadClients populates the selectable client list. Until this has been
// called, SelectClient fails: the selector stays disabled while a fetch is
// in flight.
func (s *Session) LoadClients(clients []Client) {
	s.clients = clients
	s.clientsLoaded = true
}

// LoadProducts populates the product catalog. Until this has been called,
// AddLine fails.
func (s *Session) LoadProducts(products []Product) {
	s.products = products
	s.productsLoaded = true
}

// Ready reports whether both catalogs have been loaded and the form's
// dependent controls can be enabled.
func (s *Session) Ready() bool {
	return s.clientsLoaded && s.productsLoaded
}

// Clients returns the loaded client catalog.
func (s *Session) Clients() []Client { return s.clients }

// Products returns the loaded product catalog.
func (s *Session) Products() []Product { return s.products }

// --- Step navigation ---

// Step returns the current step.
func (s *Session) Step() Step { return s.step }

// OnLastStep reports whether the confirm / PDF actions are available
// instead of next.
func (s *Session) OnLastStep() bool { return s.step == StepTotals }

// Next advances to the following step if the current step validates.
// On validation failure the step does not change and the error is returned
// for inline display.
func (s *Session) Next() error {
	if err := s.validate(s.step); err != nil {
		return err
	}
	if s.step < StepTotals {
		s.step++
	}
	return nil
}

// Prev moves back one step. Always permitted; entered values are preserved.
func (s *Session) Prev() {
	if s.step > StepClient {
		s.step--
	}
}

// validate applies the per-step gating rules.
func (s *Session) validate(step Step) error {
	switch step {
	case StepClient:
		if s.clientID == uuid.Nil {
			return ErrNoClientSelected
		}
	case StepSchedule:
		if strings.TrimSpace(s.eventDate) == "" || strings.TrimSpace(s.eventTime) == "" {
			return ErrScheduleIncomplete
		}
	case StepProducts:
		if len(s.lines) == 0 {
			return ErrNoProducts
		}
	case StepObservations:
		// No blocking validation; the observation tabs are rebuilt on entry.
	}
	return nil
}

// --- Client and schedule ---

// SelectClient records the chosen client, snapshotting its name. The ID must
// resolve in the loaded catalog; a stale ID is a validation error.
func (s *Session) SelectClient(id uuid.UUID) error {
	if !s.clientsLoaded {
		return ErrClientsNotLoaded
	}
	for _, c := range s.clients {
		if c.ID == id {
			s.clientID = c.ID
			s.clientName = c.Name
			return nil
		}
	}
	return ErrClientNotFound
}

// SelectedClient returns the chosen client ID and name snapshot.
// The ID is uuid.Nil while nothing is selected.
func (s *Session) SelectedClient() (uuid.UUID, string) {
	return s.clientID, s.clientName
}

// SetSchedule records the order date and time fields.
func (s *Session) SetSchedule(date, timeOfDay string) {
	s.eventDate = date
	s.eventTime = timeOfDay
}

// SetDelivery toggles home delivery. Disabling it forces shipping to zero
// before totals are recomputed.
func (s *Session) SetDelivery(enabled bool) {
	s.deliveryEnabled = enabled
	if !enabled {
		s.shipping = decimal.Zero
	}
	s.recompute()
}

// SetDeliveryDetails records the delivery address, date and time. Only
// meaningful while delivery is enabled.
func (s *Session) SetDeliveryDetails(address, date, timeOfDay string) {
	s.deliveryAddress = address
	s.deliveryDate = date
	s.deliveryTime = timeOfDay
}

// DeliveryEnabled reports whether home delivery is on.
func (s *Session) DeliveryEnabled() bool { return s.deliveryEnabled }

// --- Reset ---

// Reset returns the session to the first step and clears all entered data.
// Loaded catalogs are kept; they come from the server, not the form.
func (s *Session) Reset() {
	s.step = StepClient
	s.clientID = uuid.Nil
	s.clientName = ""
	s.eventDate = ""
	s.eventTime = ""
	s.deliveryEnabled = false
	s.deliveryAddress = ""
	s.deliveryDate = ""
	s.deliveryTime = ""
	s.lines = nil
	s.activeTab = 0
	s.edit = nil
	s.shipping = decimal.Zero
	s.deposit = decimal.Zero
	s.totals = Totals{}
}
