package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// User-facing amount validation messages.
const (
	MsgInvalidAmount  = "Valor inválido"
	MsgAmountNotAbove = "Valor deve ser maior que zero"
	MsgAmountTooHigh  = "Valor muito alto"
)

// MaxTransactionAmount is the largest amount a single transaction may carry.
var MaxTransactionAmount = decimal.RequireFromString("999999999.99")

// ValidationResult reports whether an input is acceptable. Error is empty
// when Valid is true.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func valid() ValidationResult {
	return ValidationResult{Valid: true}
}

func invalid(msg string) ValidationResult {
	return ValidationResult{Valid: false, Error: msg}
}

// ValidateTransactionAmount checks, in order: not-a-number, positivity,
// upper bound. The first failing check is returned.
func ValidateTransactionAmount(amount float64) ValidationResult {
	if math.IsNaN(amount) {
		return invalid(MsgInvalidAmount)
	}
	if amount <= 0 {
		return invalid(MsgAmountNotAbove)
	}
	if amount > MaxTransactionAmount.InexactFloat64() {
		return invalid(MsgAmountTooHigh)
	}
	return valid()
}

// ValidateAmount applies the same ordered checks to an exact decimal.
func ValidateAmount(amount decimal.Decimal) ValidationResult {
	if !amount.IsPositive() {
		return invalid(MsgAmountNotAbove)
	}
	if amount.GreaterThan(MaxTransactionAmount) {
		return invalid(MsgAmountTooHigh)
	}
	return valid()
}

// ValidateAmountText parses raw form input and validates it. Text that is not
// a number ("abc", "") fails with MsgInvalidAmount; a decimal comma is accepted.
func ValidateAmountText(text string) (decimal.Decimal, ValidationResult) {
	s := strings.TrimSpace(text)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid(MsgInvalidAmount)
	}
	return amount, ValidateAmount(amount)
}
