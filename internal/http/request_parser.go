// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Bodies may be JSON objects or form-encoded; amounts and ids are accepted
// either as JSON numbers or as strings.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"financas/internal/core"
	"financas/internal/store"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 1 << 20

// RequestBodyParser reads the body once and serves field lookups from it.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse parses the body as a JSON object, or as form data when it does not
// look like JSON. Errors are request errors.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		p.err = badRequest(msgInvalidBody, p.err)
		return p.err
	}

	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.jsonData = nil
			p.err = badRequest(msgInvalidBody, err)
			return p.err
		}
		return nil
	}

	form, err := url.ParseQuery(string(trimmed))
	if err != nil {
		p.err = badRequest(msgInvalidBody, err)
		return p.err
	}
	p.formData = form
	return nil
}

// Get returns a sanitized string value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// First returns the value of the first key present in the body.
func (p *RequestBodyParser) First(keys ...string) string {
	for _, k := range keys {
		if p.Has(k) {
			return p.Get(k)
		}
	}
	return ""
}

// Has reports whether key is present, even with an empty value.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	if p.formData != nil {
		_, ok := p.formData[key]
		return ok
	}
	return false
}

// Int64 reads an id field. A missing or empty field reads as zero so the
// service can report it as required.
func (p *RequestBodyParser) Int64(key string) (int64, error) {
	s := p.Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, badRequest(fmt.Sprintf("Campo inválido: %s", key), err)
	}
	return n, nil
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to string. Numbers keep the text
// they were sent with.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// parseBody is the usual prologue of a write handler.
func parseBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, error) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return p, nil
}

// pathID reads the {id} wildcard.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		if err == nil {
			err = errors.New("id must be positive")
		}
		return 0, badRequest(msgInvalidID, err)
	}
	return id, nil
}

// ParseTransactionFilter reads the list filters from the query string:
// from, to (YYYY-MM-DD), type, category_id, account_id and limit.
func ParseTransactionFilter(query url.Values) (store.TransactionFilter, error) {
	var f store.TransactionFilter
	var err error

	if v := strings.TrimSpace(query.Get("from")); v != "" {
		if f.From, err = core.ParseDate(v); err != nil {
			return f, badRequest("Data inicial inválida", err)
		}
	}
	if v := strings.TrimSpace(query.Get("to")); v != "" {
		if f.To, err = core.ParseDate(v); err != nil {
			return f, badRequest("Data final inválida", err)
		}
	}
	f.Type = core.TransactionType(strings.TrimSpace(query.Get("type")))

	ints := []struct {
		key string
		dst *int64
	}{
		{"category_id", &f.CategoryID},
		{"account_id", &f.AccountID},
	}
	for _, it := range ints {
		if v := strings.TrimSpace(query.Get(it.key)); v != "" {
			if *it.dst, err = strconv.ParseInt(v, 10, 64); err != nil {
				return f, badRequest(fmt.Sprintf("Parâmetro inválido: %s", it.key), err)
			}
		}
	}

	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, badRequest("Parâmetro inválido: limit", err)
		}
		f.Limit = n
	}
	return f, nil
}
