// Package services orchestrates the store, the core calculations, ledger
// events and the report cache behind the HTTP handlers.
package services

import (
	"errors"
	"strings"

	"financas/internal/core"

	"github.com/shopspring/decimal"
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError carries a message meant for the end user.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// domainMessages maps core sentinels to the messages the UI shows.
var domainMessages = []struct {
	err error
	msg string
}{
	{core.ErrEmptyDescription, "Descrição é obrigatória"},
	{core.ErrEmptyName, "Nome é obrigatório"},
	{core.ErrInvalidType, "Tipo inválido"},
	{core.ErrMissingCategory, "Categoria é obrigatória"},
	{core.ErrMissingAccount, "Conta é obrigatória"},
	{core.ErrInvalidDate, "Data inválida"},
	{core.ErrInvalidEmail, "E-mail inválido"},
	{core.ErrZeroUser, "Sessão inválida"},
}

// fromDomain turns a constructor error into a ValidationError.
func fromDomain(err error) error {
	if err == nil {
		return nil
	}
	var amountErr *core.AmountError
	if errors.As(err, &amountErr) {
		return &ValidationError{Message: amountErr.Message, Err: err}
	}
	if errors.Is(err, core.ErrInvalidAmount) {
		return &ValidationError{Message: core.MsgInvalidAmount, Err: err}
	}
	for _, m := range domainMessages {
		if errors.Is(err, m.err) {
			return &ValidationError{Message: m.msg, Err: err}
		}
	}
	return &ValidationError{Message: err.Error(), Err: err}
}

// parseAmount applies the transaction amount rules.
func parseAmount(text string) (decimal.Decimal, error) {
	amount, res := core.ValidateAmountText(text)
	if !res.Valid {
		return amount, invalid(res.Error)
	}
	return amount, nil
}

// parseNumber accepts any decimal, including zero and negatives. An empty
// string reads as zero.
func parseNumber(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	n, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Message: core.MsgInvalidAmount, Err: err}
	}
	return n, nil
}

func parseDate(text string) (core.Date, error) {
	d, err := core.ParseDate(text)
	if err != nil {
		return core.Date{}, &ValidationError{Message: "Data inválida", Err: err}
	}
	return d, nil
}
