package enum

import "github.com/shopspring/decimal"

// Payment status labels shown on the orders list. The label is derived on
// the read side; the two flags themselves are stored independently.
const (
	PaymentPending     = "Pendiente"
	PaymentDepositPaid = "Anticipo Pagado"
	PaymentPaidInFull  = "Pagado Completo"
)

// PaymentLabel derives the display label from the deposit-paid flag and the
// outstanding balance. The balance-paid flag does not participate: an order
// is "paid in full" when the deposit was paid and nothing remains owed.
func PaymentLabel(anticipoPagado bool, balance decimal.Decimal) string {
	switch {
	case anticipoPagado && balance.LessThanOrEqual(decimal.Zero):
		return PaymentPaidInFull
	case anticipoPagado:
		return PaymentDepositPaid
	default:
		return PaymentPending
	}
}
