package httpapi

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"fresherjobs/marketplace-service/internal/apperr"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/metrics"
	"fresherjobs/marketplace-service/internal/ratelimit"
)

// authenticate attaches the caller to the request context when an
// Authorization header is present. Requests without one pass through
// anonymously; a malformed or rejected credential is a 401.
func authenticate(authn identity.Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := bearer(header)
		if !ok {
			jsonError(w, "authorization header must be a Bearer token", http.StatusUnauthorized)
			return
		}
		actor, err := authn.Authenticate(r.Context(), token)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(identity.WithActor(r.Context(), actor)))
	})
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument counts requests by method and status code and logs server errors.
func instrument(m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.HTTPRequest(r.Method, strconv.Itoa(rec.code))
		if rec.code >= http.StatusInternalServerError {
			slog.WarnContext(r.Context(), "request returned server error", "method", r.Method, "path", r.URL.Path, "code", rec.code)
		}
	})
}

// limited rejects the request with 429 once key exceeds the limiter's budget.
func (h *Handler) limited(w http.ResponseWriter, r *http.Request, l ratelimit.Limiter, key string) bool {
	if l == nil || l.Allow(r.Context(), key) {
		return false
	}
	writeErr(w, r, apperr.ErrRateLimited)
	return true
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
