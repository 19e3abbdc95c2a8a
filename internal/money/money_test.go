package money_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/casadulce/api/internal/money"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"500", "500"},
		{"1000", "1.000"},
		{"49000", "49.000"},
		{"1250000", "1.250.000"},
		{"2500.00", "2.500"},
		{"500.5", "501"},
		{"500.4", "500"},
	}
	for _, tc := range cases {
		if got := money.Format(dec(tc.in)); got != tc.want {
			t.Errorf("Format(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"49000", "49000"},
		{"49.000", "49000"},
		{"49.000,50", "49000.5"},
		{"1.250.000", "1250000"},
		{"2500.75", "2500.75"},
		{"", "0"},
		{"  500 ", "500"},
	}
	for _, tc := range cases {
		got, err := money.Parse(tc.in)
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if !got.Equal(dec(tc.want)) {
			t.Errorf("Parse(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := money.Parse("abc"); err == nil {
		t.Errorf("expected error for non-numeric input")
	}
}
