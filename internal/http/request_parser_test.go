package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"financas/internal/core"
)

func newParser(t *testing.T, contentType, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return NewRequestBodyParser(httptest.NewRecorder(), req)
}

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		key         string
		want        string
		wantJSON    bool
	}{
		{"json string", "application/json", `{"amount":"120,50"}`, "amount", "120,50", true},
		{"json number keeps text", "application/json", `{"amount":120.10}`, "amount", "120.10", true},
		{"json big number", "application/json", `{"amount":999999999.99}`, "amount", "999999999.99", true},
		{"json bool", "application/json", `{"flag":true}`, "flag", "true", true},
		{"json missing key", "application/json", `{"a":"b"}`, "amount", "", true},
		{"json without content type", "", `{"name":"Casa"}`, "name", "Casa", true},
		{"form", "application/x-www-form-urlencoded", "name=Casa&type=expense", "type", "expense", false},
		{"control chars stripped", "application/json", `{"name":"Ca\u0000sa  "}`, "name", "Casa", true},
		{"empty body", "", "", "name", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser(t, tt.contentType, tt.body)
			if err := p.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := p.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
			if p.IsJSON() != tt.wantJSON {
				t.Errorf("IsJSON() = %v, want %v", p.IsJSON(), tt.wantJSON)
			}
		})
	}
}

func TestRequestBodyParserErrors(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"truncated json", "application/json", `{"a":`},
		{"json array", "application/json", `[1,2]`},
		{"bad form escape", "application/x-www-form-urlencoded", "name=%zz"},
		{"too large", "application/json", `{"a":"` + strings.Repeat("x", maxBodyBytes) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser(t, tt.contentType, tt.body)
			err := p.Parse()
			var reqErr *requestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("Parse() error = %v, want request error", err)
			}
			if reqErr.message != msgInvalidBody {
				t.Errorf("message = %q", reqErr.message)
			}
			if again := p.Parse(); again != err {
				t.Error("Parse() should return the cached error")
			}
		})
	}
}

func TestFirstAndHas(t *testing.T) {
	p := newParser(t, "application/json", `{"limit":"300","limit_amount":""}`)
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if !p.Has("limit_amount") || p.Has("missing") {
		t.Error("Has() mismatch")
	}
	if got := p.First("limit_amount", "limit"); got != "" {
		t.Errorf("First() = %q, want the present empty limit_amount", got)
	}
	if got := p.First("missing", "limit"); got != "300" {
		t.Errorf("First() = %q, want 300", got)
	}
}

func TestInt64(t *testing.T) {
	p := newParser(t, "application/json", `{"a":7,"b":"12","c":"x","d":1.5,"e":""}`)
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		key     string
		want    int64
		wantErr bool
	}{
		{"a", 7, false},
		{"b", 12, false},
		{"c", 0, true},
		{"d", 0, true},
		{"e", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		got, err := p.Int64(tt.key)
		if (err != nil) != tt.wantErr {
			t.Errorf("Int64(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("Int64(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.SetPathValue("id", tt.value)
		got, err := pathID(req)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("pathID(%q) = %d, %v", tt.value, got, err)
		}
	}
}

func TestParseTransactionFilter(t *testing.T) {
	f, err := ParseTransactionFilter(url.Values{
		"from":        {"2025-11-01"},
		"to":          {"2025-11-30"},
		"type":        {"expense"},
		"category_id": {"4"},
		"account_id":  {"2"},
		"limit":       {"10"},
	})
	if err != nil {
		t.Fatalf("ParseTransactionFilter() error = %v", err)
	}
	if !f.From.Equal(core.NewDate(2025, 11, 1).Time) || !f.To.Equal(core.NewDate(2025, 11, 30).Time) {
		t.Errorf("dates = %s..%s", f.From, f.To)
	}
	if f.Type != core.Expense || f.CategoryID != 4 || f.AccountID != 2 || f.Limit != 10 {
		t.Errorf("filter = %+v", f)
	}

	empty, err := ParseTransactionFilter(url.Values{})
	if err != nil || !empty.From.IsZero() || empty.Limit != 0 {
		t.Errorf("empty filter = %+v, %v", empty, err)
	}

	for _, bad := range []url.Values{
		{"from": {"2025-13-01"}},
		{"to": {"ontem"}},
		{"category_id": {"x"}},
		{"limit": {"-1"}},
	} {
		if _, err := ParseTransactionFilter(bad); err == nil {
			t.Errorf("ParseTransactionFilter(%v) should fail", bad)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  Mercado  ", "Mercado"},
		{"a\x00b\x07c", "abc"},
		{"linha\tcom\ttab", "linha\tcom\ttab"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
