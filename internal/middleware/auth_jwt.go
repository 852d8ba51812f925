package middleware

import (
	"net/http"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
)

type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// RequireUser rejects requests without a valid bearer token and stores the
// token subject in the request context.
func RequireUser(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				WriteError(w, r, http.StatusUnauthorized, "missing bearer token")
				return
			}

			userID, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				WriteError(w, r, http.StatusUnauthorized, apperr.Message(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
