package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	HeaderCorrelationID = "X-Correlation-Id"

	maxCorrelationIDLen = 128
)

// CorrelationID tags every request with the inbound X-Correlation-Id or a new
// uuid, echoes it on the response and stores it in the request context.
// Inbound values longer than 128 bytes or outside [A-Za-z0-9._-] are replaced.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := strings.TrimSpace(r.Header.Get(HeaderCorrelationID))
		if !usableCorrelationID(cid) {
			cid = uuid.NewString()
		}

		w.Header().Set(HeaderCorrelationID, cid)
		next.ServeHTTP(w, r.WithContext(withCorrelationID(r.Context(), cid)))
	})
}

func usableCorrelationID(cid string) bool {
	if cid == "" || len(cid) > maxCorrelationIDLen {
		return false
	}
	for _, c := range cid {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
