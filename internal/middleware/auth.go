package middleware

import (
	"net/http"
	"strings"

	"aqsit-be/internal/user"
	"aqsit-be/internal/utils"
)

// AuthMiddleware resolves the acting user from a bearer token. Requests
// without a valid token pass through anonymously; handlers that need an
// identity check the context themselves.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role, claims.Verified)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
