package delivery

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AuthMiddleware: статический админ-токен для служебных маршрутов
func AuthMiddleware(adminToken string) func(http.Handler) http.Handler {
	want := []byte(adminToken)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") ||
				subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), want) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="history"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
