package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type userIDKey struct{}

// RequireAuth rejects requests that do not carry a valid bearer token and
// stores the authenticated user id on the request context.
func RequireAuth(service Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthenticated(w)
				return
			}

			userID, err := service.VerifyToken(token)
			if err != nil {
				unauthenticated(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id set by RequireAuth, or "".
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": "Unauthenticated."})
}
