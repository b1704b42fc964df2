package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"financas/internal/export"
	"financas/internal/services"
	"financas/internal/session"
	"financas/internal/store"
)

func TestJSONResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Test", "1").
		Body(map[string]int{"id": 7}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Header().Get("X-Test") != "1" {
		t.Error("custom header not set")
	}
	if strings.TrimSpace(w.Body.String()) != `{"id":7}` {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestJSONResponseBuilder_NoContent(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Body("ignored").Write(w)

	if w.Code != http.StatusNoContent {
		t.Errorf("Status code = %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Body = %q, want empty", w.Body.String())
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		builder    *JSONResponseBuilder
		wantStatus int
		wantHeader [2]string
	}{
		{"bad request", BadRequestError("x"), http.StatusBadRequest, [2]string{}},
		{"unauthorized", UnauthorizedError(), http.StatusUnauthorized, [2]string{"WWW-Authenticate", `Bearer realm="financas"`}},
		{"not found", NotFoundError("x"), http.StatusNotFound, [2]string{}},
		{"unprocessable", UnprocessableEntityError("x"), http.StatusUnprocessableEntity, [2]string{}},
		{"too many", TooManyRequestsError(), http.StatusTooManyRequests, [2]string{"Retry-After", "60"}},
		{"internal", InternalServerError(), http.StatusInternalServerError, [2]string{}},
		{"method", MethodNotAllowedError("GET, POST"), http.StatusMethodNotAllowed, [2]string{"Allow", "GET, POST"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.HasPrefix(w.Body.String(), `{"error":`) {
				t.Errorf("Body = %q", w.Body.String())
			}
			if tt.wantHeader[0] != "" && w.Header().Get(tt.wantHeader[0]) != tt.wantHeader[1] {
				t.Errorf("%s = %q", tt.wantHeader[0], w.Header().Get(tt.wantHeader[0]))
			}
		})
	}
}

func TestErrorResponseFor(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"request error", badRequest("Campo inválido: x", nil), http.StatusBadRequest, "Campo inválido: x"},
		{"validation", &services.ValidationError{Message: "Data inválida"}, http.StatusUnprocessableEntity, "Data inválida"},
		{"wrapped validation", fmt.Errorf("create: %w", &services.ValidationError{Message: "Tipo inválido"}), http.StatusUnprocessableEntity, "Tipo inválido"},
		{"not found", fmt.Errorf("get transaction: %w", store.ErrNotFound), http.StatusNotFound, msgNotFound},
		{"no session", session.ErrNoSession, http.StatusUnauthorized, msgUnauthorized},
		{"invalid token", fmt.Errorf("%w: expired", session.ErrInvalidToken), http.StatusUnauthorized, msgUnauthorized},
		{"unknown format", fmt.Errorf("%w: %q", export.ErrUnknownFormat, "doc"), http.StatusBadRequest, msgInvalidFormat},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, msgInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			errorResponseFor(context.Background(), tt.err).Write(w)
			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			want := fmt.Sprintf(`{"error":%q}`, tt.wantMessage)
			if got := strings.TrimSpace(w.Body.String()); got != want {
				t.Errorf("Body = %s, want %s", got, want)
			}
		})
	}
}
