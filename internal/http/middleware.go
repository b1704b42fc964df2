package http

import (
	"net/http"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	applog "financas/internal/log"
	"financas/internal/session"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// withRequestLog assigns a request id, stores a request-scoped logger in the
// context and logs the completed request.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	structured := applog.NewStructuredLogger(s.logger)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		atomic.AddInt64(&s.requestsTotal, 1)

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" || len(requestID) > 64 {
			requestID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger := s.logger.With(applog.FieldRequestID, requestID)
		ctx := applog.NewContext(r.Context(), logger)
		r = r.WithContext(ctx)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		structured.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), extractClientIP(r))
	})
}

// withSecurity sets security headers, flags probing requests and rate limits
// writes per client IP.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w.Header())
		clientIP := extractClientIP(r)

		if detectSuspiciousRequest(r, &s.security) {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request detected",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldUserAgent, r.UserAgent())
		}

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.rateLimiter.allow(clientIP, &s.security) {
				applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
					applog.FieldClientIP, clientIP,
					applog.FieldMethod, r.Method,
					applog.FieldPath, r.URL.Path)
				TooManyRequestsError().Write(w)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// withAuth resolves the bearer token into a session.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.verifier.FromRequest(r)
		if err != nil {
			atomic.AddInt64(&s.security.authFailures, 1)
			applog.FromContext(r.Context()).DebugContext(r.Context(), "Authentication failed", "error", err)
			UnauthorizedError().Write(w)
			return
		}
		logger := applog.FromContext(r.Context()).With(applog.FieldUserID, sess.UserID.String())
		ctx := session.NewContext(applog.NewContext(r.Context(), logger), sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// methods dispatches on the request method and answers anything else with a
// JSON 405.
type methods map[string]http.HandlerFunc

func (m methods) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := m[r.Method]; ok {
		h(w, r)
		return
	}
	allowed := make([]string, 0, len(m))
	for method := range m {
		allowed = append(allowed, method)
	}
	sort.Strings(allowed)
	MethodNotAllowedError(strings.Join(allowed, ", ")).Write(w)
}
