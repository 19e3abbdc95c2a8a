package wizard

import (
	"github.com/shopspring/decimal"

	"github.com/casadulce/api/internal/money"
)

// depositRate is the fraction of the net total suggested as upfront payment.
var depositRate = decimal.NewFromFloat(0.5)

// Totals are the derived amounts shown on the confirmation step. All values
// keep full precision; rounding happens only in the money package when the
// amounts are displayed.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	TotalNet decimal.Decimal
	Deposit  decimal.Decimal
	Balance  decimal.Decimal
}

// Totals returns the amounts derived from the current lines, shipping and
// deposit. They are recomputed synchronously after every mutation, so the
// value is always current.
func (s *Session) Totals() Totals { return s.totals }

// SetShipping records the shipping amount and recomputes. While delivery is
// disabled shipping is pinned to zero.
func (s *Session) SetShipping(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !s.deliveryEnabled {
		amount = decimal.Zero
	}
	s.shipping = amount
	s.recompute()
	return nil
}

// SetDeposit records a user-entered deposit and recomputes. An explicit
// zero clears the field, re-enabling the suggested pre-fill.
func (s *Session) SetDeposit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	s.deposit = amount
	s.recompute()
	return nil
}

// SetShippingInput parses a user-typed shipping amount, accepting the
// display grouping the screens render ("49.000", "49.000,50"), and records
// it. Unparseable input leaves the session untouched.
func (s *Session) SetShippingInput(raw string) error {
	amount, err := money.Parse(raw)
	if err != nil {
		return ErrInvalidAmount
	}
	return s.SetShipping(amount)
}

// SetDepositInput is the user-typed counterpart of SetDeposit. An empty
// field parses to zero, which re-enables the suggested pre-fill.
func (s *Session) SetDepositInput(raw string) error {
	amount, err := money.Parse(raw)
	if err != nil {
		return ErrInvalidAmount
	}
	return s.SetDeposit(amount)
}

// recompute rebuilds the derived totals. subtotal = Σ quantity×price with no
// intermediate rounding; total_net = subtotal + shipping; balance =
// total_net − deposit. Half of total_net is suggested as deposit, but only
// when the deposit field is empty or zero; a non-zero user value is never
// overwritten.
func (s *Session) recompute() {
	subtotal := decimal.Zero
	for _, line := range s.lines {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt32(line.Quantity)))
	}

	totalNet := subtotal.Add(s.shipping)

	if s.deposit.IsZero() && !totalNet.IsZero() {
		s.deposit = totalNet.Mul(depositRate).Round(0)
	}

	s.totals = Totals{
		Subtotal: subtotal,
		Shipping: s.shipping,
		TotalNet: totalNet,
		Deposit:  s.deposit,
		Balance:  totalNet.Sub(s.deposit),
	}
}
