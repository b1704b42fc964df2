package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"1234.56", "R$ 1.234,56"},
		{"0", "R$ 0,00"},
		{"-500.75", "-R$ 500,75"},
		{"1000000", "R$ 1.000.000,00"},
		{"999", "R$ 999,00"},
		{"0.005", "R$ 0,01"},
		{"12.3", "R$ 12,30"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(d(tc.in)); got != tc.out {
			t.Fatalf("FormatCurrency(%s) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"R$ 1.234,56", "1234.56"},
		{"1234.56", "1234.56"},
		{"", "0"},
		{"abc", "0"},
		{"100", "100"},
		{"100,5", "100.5"},
		{"R$ 0,00", "0"},
		{"1.234", "1.234"}, // plain decimal wins over grouping
		{"-R$ 500,75", "-500.75"},
	}
	for _, tc := range cases {
		got := ParseCurrency(tc.in)
		if !got.Equal(d(tc.out)) {
			t.Fatalf("ParseCurrency(%q) = %s, want %s", tc.in, got, tc.out)
		}
	}
}

func TestCurrencyRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "0.01", "1234.56", "999999999.99", "42.1"} {
		in := d(s)
		got := ParseCurrency(FormatCurrency(in))
		if !got.Equal(in.Round(2)) {
			t.Fatalf("round trip %s -> %s", s, got)
		}
	}
}

func TestCalculateBalance(t *testing.T) {
	if got := CalculateBalance(d("5000"), d("3000")); !got.Equal(d("2000")) {
		t.Fatalf("got %s", got)
	}
	if got := CalculateBalance(d("1000"), d("1500")); !got.Equal(d("-500")) {
		t.Fatalf("got %s", got)
	}
}

func TestFormatMonth(t *testing.T) {
	if got := FormatMonth("2025-11"); got != "novembro de 2025" {
		t.Fatalf("got %q", got)
	}
	if got := FormatMonth("2025-03"); got != "março de 2025" {
		t.Fatalf("got %q", got)
	}
	if got := FormatMonth("bogus"); got != "bogus" {
		t.Fatalf("got %q", got)
	}
}
