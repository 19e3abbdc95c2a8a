package enum_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/casadulce/api/internal/enum"
)

func TestPaymentLabel(t *testing.T) {
	cases := []struct {
		name     string
		anticipo bool
		balance  string
		want     string
	}{
		{"nothing paid", false, "1000", enum.PaymentPending},
		{"deposit paid with balance due", true, "1000", enum.PaymentDepositPaid},
		{"deposit paid and settled", true, "0", enum.PaymentPaidInFull},
		{"deposit covers more than total", true, "-50", enum.PaymentPaidInFull},
		{"zero balance without deposit paid", false, "0", enum.PaymentPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			balance, _ := decimal.NewFromString(tc.balance)
			if got := enum.PaymentLabel(tc.anticipo, balance); got != tc.want {
				t.Errorf("PaymentLabel(%v, %s) = %q, want %q", tc.anticipo, tc.balance, got, tc.want)
			}
		})
	}
}
