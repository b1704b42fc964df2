package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

var testUser = uuid.MustParse("5b0f0c8e-9c57-4a53-9a39-0f6d1d0e6b11")

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseMonth(t *testing.T) {
	for _, in := range []string{"2025-11", "2025-11-17"} {
		got, err := ParseMonth(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got.String() != "2025-11-01" {
			t.Fatalf("%q: got %s", in, got)
		}
	}
	if _, err := ParseMonth("november"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		D Date `json:"d"`
		Z Date `json:"z"`
	}{D: NewDate(2025, 10, 5)})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"d":"2025-10-05","z":null}` {
		t.Fatalf("got %s", b)
	}

	var out struct {
		D Date `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"d":"2025-02-28"}`), &out); err != nil {
		t.Fatal(err)
	}
	if out.D.String() != "2025-02-28" {
		t.Fatalf("got %s", out.D)
	}
}

func TestDateScan(t *testing.T) {
	var dt Date
	if err := dt.Scan("2025-10-05T00:00:00Z"); err != nil {
		t.Fatal(err)
	}
	if dt.String() != "2025-10-05" {
		t.Fatalf("got %s", dt)
	}
	if err := dt.Scan([]byte("2024-01-31")); err != nil || dt.String() != "2024-01-31" {
		t.Fatalf("got %s, %v", dt, err)
	}
	if err := dt.Scan(nil); err != nil || !dt.IsZero() {
		t.Fatalf("expected zero date, got %s, %v", dt, err)
	}
	if err := dt.Scan(42); err == nil {
		t.Fatal("expected error for int")
	}
}

func TestTransactionValidate(t *testing.T) {
	good, err := NewTransaction(testUser, Expense, d("10.50"), NewDate(2025, 1, 1), " lunch ", 1, 1)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if good.Description != "lunch" {
		t.Fatalf("description not trimmed: %q", good.Description)
	}

	bads := []Transaction{
		{Type: Expense, Amount: d("1"), Date: NewDate(2025, 1, 1), Description: "a", CategoryID: 1, AccountID: 1},
		{UserID: testUser, Type: "transfer", Amount: d("1"), Date: NewDate(2025, 1, 1), Description: "a", CategoryID: 1, AccountID: 1},
		{UserID: testUser, Type: Expense, Amount: d("0"), Date: NewDate(2025, 1, 1), Description: "a", CategoryID: 1, AccountID: 1},
		{UserID: testUser, Type: Expense, Amount: d("1"), Description: "a", CategoryID: 1, AccountID: 1},
		{UserID: testUser, Type: Expense, Amount: d("1"), Date: NewDate(2025, 1, 1), CategoryID: 1, AccountID: 1},
		{UserID: testUser, Type: Expense, Amount: d("1"), Date: NewDate(2025, 1, 1), Description: strings.Repeat("x", 201), CategoryID: 1, AccountID: 1},
		{UserID: testUser, Type: Expense, Amount: d("1"), Date: NewDate(2025, 1, 1), Description: "a", AccountID: 1},
		{UserID: testUser, Type: Expense, Amount: d("1"), Date: NewDate(2025, 1, 1), Description: "a", CategoryID: 1},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionAmountError(t *testing.T) {
	_, err := NewTransaction(testUser, Income, d("1000000000"), NewDate(2025, 1, 1), "salary", 1, 1)
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err.Error() != MsgAmountTooHigh {
		t.Fatalf("got message %q", err.Error())
	}
}

func TestNewBudgetNormalizesMonth(t *testing.T) {
	b, err := NewBudget(testUser, 3, NewDate(2025, 11, 17), d("500"))
	if err != nil {
		t.Fatal(err)
	}
	if b.Month.String() != "2025-11-01" {
		t.Fatalf("got %s", b.Month)
	}
	if !b.Spent.IsZero() {
		t.Fatalf("spent should start at zero, got %s", b.Spent)
	}
	if _, err := NewBudget(testUser, 3, NewDate(2025, 11, 1), d("-1")); err == nil {
		t.Fatal("expected error for negative limit")
	}
	if _, err := NewBudget(testUser, 0, NewDate(2025, 11, 1), d("1")); !errors.Is(err, ErrMissingCategory) {
		t.Fatalf("expected ErrMissingCategory, got %v", err)
	}
}

func TestGoalValidate(t *testing.T) {
	if _, err := NewGoal(testUser, "Trip", d("1000"), d("0"), NewDate(2026, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := NewGoal(testUser, "Trip", d("0"), d("0"), NewDate(2026, 1, 1)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := NewGoal(testUser, "Trip", d("10"), d("-1"), NewDate(2026, 1, 1)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := NewGoal(testUser, " ", d("10"), d("0"), NewDate(2026, 1, 1)); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestAccountAllowsNegativeBalance(t *testing.T) {
	if _, err := NewAccount(testUser, "Checking", Bank, d("-250"), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := NewAccount(testUser, "Checking", "crypto", d("0"), ""); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestProfileValidate(t *testing.T) {
	cases := []struct {
		p  Profile
		ok bool
	}{
		{Profile{ID: testUser, Name: "Ana", Email: "ana@example.com"}, true},
		{Profile{ID: testUser, Name: "Ana", Email: "ana"}, false},
		{Profile{ID: testUser, Name: "Ana", Email: "@example.com"}, false},
		{Profile{ID: testUser, Name: "", Email: "ana@example.com"}, false},
		{Profile{Name: "Ana", Email: "ana@example.com"}, false},
	}
	for i, tc := range cases {
		err := tc.p.Validate()
		if tc.ok != (err == nil) {
			t.Fatalf("case %d: ok=%v err=%v", i, tc.ok, err)
		}
	}
}
