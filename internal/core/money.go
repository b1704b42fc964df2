// Package core provides the ledger domain types and the derived
// financial metrics computed from them.
//
// This file contains currency parsing and formatting. Amounts are
// shopspring decimals end to end so repeated aggregation never drifts.
package core

import (
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// CurrencySymbol is the single ledger currency (Brazilian real).
const CurrencySymbol = "R$"

var (
	plainDecimalRe  = regexp.MustCompile(`^\d+\.?\d*$`)
	localeNoiseRe   = regexp.MustCompile(`[^\d,-]`)
	numericPrefixRe = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatCurrency renders an amount in pt-BR currency style.
//
// Examples:
//
//	FormatCurrency(1234.56) -> "R$ 1.234,56"
//	FormatCurrency(0)       -> "R$ 0,00"
//	FormatCurrency(-500.75) -> "-R$ 500,75"
func FormatCurrency(value decimal.Decimal) string {
	rounded := value.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	fixed := rounded.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	grouped := intPart
	if whole := rounded.Truncate(0); whole.LessThan(decimal.NewFromInt(1e18)) {
		grouped = strings.ReplaceAll(humanize.Comma(whole.IntPart()), ",", ".")
	}

	return sign + CurrencySymbol + " " + grouped + "," + fracPart
}

// ParseCurrency converts user text into an amount. It never fails: empty or
// unparsable input yields zero.
//
// A plain decimal ("1234.5") is read as-is. Anything else is treated as
// locale-formatted text: every character other than digits, comma and minus
// is dropped, the first comma becomes the decimal point and the longest
// numeric prefix is used ("R$ 1.234,56" -> 1234.56).
func ParseCurrency(text string) decimal.Decimal {
	if text == "" {
		return decimal.Zero
	}
	if plainDecimalRe.MatchString(text) {
		d, err := decimal.NewFromString(strings.TrimSuffix(text, "."))
		if err != nil {
			return decimal.Zero
		}
		return d
	}

	clean := localeNoiseRe.ReplaceAllString(text, "")
	clean = strings.Replace(clean, ",", ".", 1)
	prefix := numericPrefixRe.FindString(clean)
	if prefix == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(prefix, "."))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CalculateBalance returns income minus expenses.
func CalculateBalance(income, expenses decimal.Decimal) decimal.Decimal {
	return income.Sub(expenses)
}

// FormatMonth turns a YYYY-MM key into its long pt-BR label
// ("2025-11" -> "novembro de 2025"). Unparsable keys are returned unchanged.
func FormatMonth(key string) string {
	d, err := ParseMonth(key)
	if err != nil {
		return key
	}
	return monthNames[d.Month()-1] + " de " + d.Format("2006")
}

// StartOfMonth returns the first day of t's month as a Date.
func StartOfMonth(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), 1)
}
