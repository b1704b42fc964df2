package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Bank       AccountType = "bank"
	Cash       AccountType = "cash"
	Investment AccountType = "investment"
)

type (
	TransactionType string
	AccountType     string

	// Transaction is a single income or expense entry in a user's ledger.
	Transaction struct {
		ID          int64           `json:"id"`
		UserID      uuid.UUID       `json:"user_id"`
		Type        TransactionType `json:"type"`
		Amount      decimal.Decimal `json:"amount"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		CategoryID  int64           `json:"category_id"`
		AccountID   int64           `json:"account_id"`
		CreatedAt   time.Time       `json:"created_at"`
	}

	Category struct {
		ID        int64           `json:"id"`
		UserID    uuid.UUID       `json:"user_id"`
		Name      string          `json:"name"`
		Type      TransactionType `json:"type"`
		CreatedAt time.Time       `json:"created_at"`
	}

	// Account balance is a stored snapshot edited directly by the user.
	// Transactions never adjust it.
	Account struct {
		ID        int64           `json:"id"`
		UserID    uuid.UUID       `json:"user_id"`
		Name      string          `json:"name"`
		Type      AccountType     `json:"type"`
		Balance   decimal.Decimal `json:"balance"`
		Icon      string          `json:"icon,omitempty"`
		CreatedAt time.Time       `json:"created_at"`
	}

	// Budget is keyed by (UserID, CategoryID, Month). Spent is maintained
	// outside the core and is read-only here.
	Budget struct {
		ID          int64           `json:"id"`
		UserID      uuid.UUID       `json:"user_id"`
		CategoryID  int64           `json:"category_id"`
		Month       Date            `json:"month"`
		LimitAmount decimal.Decimal `json:"limit_amount"`
		Spent       decimal.Decimal `json:"spent"`
		CreatedAt   time.Time       `json:"created_at"`
	}

	Goal struct {
		ID            int64           `json:"id"`
		UserID        uuid.UUID       `json:"user_id"`
		Name          string          `json:"name"`
		TargetAmount  decimal.Decimal `json:"target_amount"`
		CurrentAmount decimal.Decimal `json:"current_amount"`
		Deadline      Date            `json:"deadline"`
		CreatedAt     time.Time       `json:"created_at"`
	}

	Profile struct {
		ID        uuid.UUID `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid type")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
	ErrZeroUser         = errors.New("missing user id")
	ErrMissingCategory  = errors.New("missing category id")
	ErrMissingAccount   = errors.New("missing account id")
	ErrInvalidEmail     = errors.New("invalid email")
)

const maxTextLength = 200

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (t AccountType) Valid() bool {
	switch t {
	case Bank, Cash, Investment:
		return true
	}
	return false
}

// NewTransaction builds a validated transaction. The amount goes through the
// same ordered checks as ValidateAmount.
func NewTransaction(userID uuid.UUID, typ TransactionType, amount decimal.Decimal, date Date, description string, categoryID, accountID int64) (Transaction, error) {
	t := Transaction{
		UserID:      userID,
		Type:        typ,
		Amount:      amount,
		Date:        date,
		Description: strings.TrimSpace(description),
		CategoryID:  categoryID,
		AccountID:   accountID,
	}
	return t, t.Validate()
}

func (t Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrZeroUser
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if res := ValidateAmount(t.Amount); !res.Valid {
		return &AmountError{Message: res.Error}
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Description == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > maxTextLength {
		return errors.New("description too long (max 200 characters)")
	}
	if t.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if t.AccountID <= 0 {
		return ErrMissingAccount
	}
	return nil
}

func NewCategory(userID uuid.UUID, name string, typ TransactionType) (Category, error) {
	c := Category{UserID: userID, Name: strings.TrimSpace(name), Type: typ}
	return c, c.Validate()
}

func (c Category) Validate() error {
	if c.UserID == uuid.Nil {
		return ErrZeroUser
	}
	if c.Name == "" {
		return ErrEmptyName
	}
	if len(c.Name) > maxTextLength {
		return errors.New("name too long (max 200 characters)")
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func NewAccount(userID uuid.UUID, name string, typ AccountType, balance decimal.Decimal, icon string) (Account, error) {
	a := Account{UserID: userID, Name: strings.TrimSpace(name), Type: typ, Balance: balance, Icon: strings.TrimSpace(icon)}
	return a, a.Validate()
}

// Validate allows negative balances: overdrawn bank accounts are legitimate.
func (a Account) Validate() error {
	if a.UserID == uuid.Nil {
		return ErrZeroUser
	}
	if a.Name == "" {
		return ErrEmptyName
	}
	if len(a.Name) > maxTextLength {
		return errors.New("name too long (max 200 characters)")
	}
	if !a.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// NewBudget normalizes month to the first day of its month. Spent starts at zero.
func NewBudget(userID uuid.UUID, categoryID int64, month Date, limit decimal.Decimal) (Budget, error) {
	b := Budget{
		UserID:      userID,
		CategoryID:  categoryID,
		Month:       month,
		LimitAmount: limit,
		Spent:       decimal.Zero,
	}
	if !month.IsZero() {
		b.Month = month.StartOfMonth()
	}
	return b, b.Validate()
}

func (b Budget) Validate() error {
	if b.UserID == uuid.Nil {
		return ErrZeroUser
	}
	if b.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if err := b.Month.Validate(); err != nil {
		return err
	}
	if b.Month.Day() != 1 {
		return errors.New("budget month must be the first day of the month")
	}
	if b.LimitAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func NewGoal(userID uuid.UUID, name string, target, current decimal.Decimal, deadline Date) (Goal, error) {
	g := Goal{
		UserID:        userID,
		Name:          strings.TrimSpace(name),
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      deadline,
	}
	return g, g.Validate()
}

func (g Goal) Validate() error {
	if g.UserID == uuid.Nil {
		return ErrZeroUser
	}
	if g.Name == "" {
		return ErrEmptyName
	}
	if len(g.Name) > maxTextLength {
		return errors.New("name too long (max 200 characters)")
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if g.CurrentAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return g.Deadline.Validate()
}

func (p Profile) Validate() error {
	if p.ID == uuid.Nil {
		return ErrZeroUser
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	email := strings.TrimSpace(p.Email)
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return ErrInvalidEmail
	}
	return nil
}

// AmountError carries the user-facing message produced by amount validation.
type AmountError struct {
	Message string
}

func (e *AmountError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrInvalidAmount) match amount validation failures.
func (e *AmountError) Is(target error) bool {
	return target == ErrInvalidAmount
}
