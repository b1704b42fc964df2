package core

import (
	"math"
	"testing"
)

func TestValidateTransactionAmount(t *testing.T) {
	cases := []struct {
		in  float64
		ok  bool
		msg string
	}{
		{100, true, ""},
		{0.01, true, ""},
		{999999999.99, true, ""},
		{0, false, MsgAmountNotAbove},
		{-100, false, MsgAmountNotAbove},
		{1000000000, false, MsgAmountTooHigh},
		{math.NaN(), false, MsgInvalidAmount},
	}
	for i, tc := range cases {
		res := ValidateTransactionAmount(tc.in)
		if res.Valid != tc.ok || res.Error != tc.msg {
			t.Fatalf("case %d: got %+v, want ok=%v msg=%q", i, res, tc.ok, tc.msg)
		}
	}
}

func TestValidateAmountText(t *testing.T) {
	cases := []struct {
		in  string
		ok  bool
		msg string
	}{
		{"100", true, ""},
		{"10,50", true, ""},
		{"abc", false, MsgInvalidAmount},
		{"", false, MsgInvalidAmount},
		{"0", false, MsgAmountNotAbove},
		{"1000000000", false, MsgAmountTooHigh},
	}
	for _, tc := range cases {
		_, res := ValidateAmountText(tc.in)
		if res.Valid != tc.ok || res.Error != tc.msg {
			t.Fatalf("%q: got %+v", tc.in, res)
		}
	}
}
