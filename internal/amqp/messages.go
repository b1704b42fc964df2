package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"financas/internal/core"

	"github.com/google/uuid"
)

// EventKind names what happened to a ledger entry.
type EventKind string

const (
	TransactionCreated EventKind = "transaction.created"
	TransactionUpdated EventKind = "transaction.updated"
	TransactionDeleted EventKind = "transaction.deleted"
)

func (k EventKind) Valid() bool {
	switch k {
	case TransactionCreated, TransactionUpdated, TransactionDeleted:
		return true
	}
	return false
}

// BudgetKey identifies the budget a ledger change may touch.
type BudgetKey struct {
	CategoryID int64     `json:"category_id"`
	Month      core.Date `json:"month"`
}

// KeyOf returns the budget key an expense transaction counts against.
func KeyOf(t core.Transaction) BudgetKey {
	return BudgetKey{CategoryID: t.CategoryID, Month: t.Date.StartOfMonth()}
}

// LedgerEvent is published after every transaction write. Consumers reload
// what they need from storage; the event only says which budgets to refresh.
type LedgerEvent struct {
	Kind          EventKind   `json:"kind"`
	UserID        uuid.UUID   `json:"user_id"`
	TransactionID int64       `json:"transaction_id"`
	Affected      []BudgetKey `json:"affected"`
	Timestamp     time.Time   `json:"timestamp"`
}

// NewLedgerEvent builds an event, dropping duplicate budget keys.
func NewLedgerEvent(kind EventKind, userID uuid.UUID, transactionID int64, affected ...BudgetKey) *LedgerEvent {
	seen := map[string]struct{}{}
	keys := make([]BudgetKey, 0, len(affected))
	for _, k := range affected {
		id := fmt.Sprintf("%d|%s", k.CategoryID, k.Month.MonthKey())
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, k)
	}
	return &LedgerEvent{
		Kind:          kind,
		UserID:        userID,
		TransactionID: transactionID,
		Affected:      keys,
		Timestamp:     time.Now(),
	}
}

func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON decodes and checks an event body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Kind.Valid() {
		return nil, fmt.Errorf("unknown event kind %q", msg.Kind)
	}
	if msg.UserID == uuid.Nil {
		return nil, errors.New("event without user id")
	}
	return &msg, nil
}
