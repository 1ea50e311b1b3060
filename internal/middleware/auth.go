package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type contextKey string

const (
	OwnerKey  contextKey = "owner"
	APIKeyKey contextKey = "api_key"
)

// isPublic paths skip auth and rate limiting
func isPublic(path string) bool {
	switch path {
	case "/health", "/healthz", "/readyz", "/livez", "/metrics":
		return true
	}
	return false
}

// APIKeyAuth validates API key from Authorization header. keys maps owner -> key.
func APIKeyAuth(keys map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path) || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// Support both "Bearer <key>" and "<key>" formats
			apiKey := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if apiKey == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			// constant-time comparison
			var owner string
			for o, key := range keys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					owner = o
					break
				}
			}
			if owner == "" {
				http.Error(w, "invalid API key", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), OwnerKey, owner)
			ctx = context.WithValue(ctx, APIKeyKey, apiKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOwnerFromContext extracts the authenticated owner from context
func GetOwnerFromContext(ctx context.Context) string {
	if owner, ok := ctx.Value(OwnerKey).(string); ok {
		return owner
	}
	return ""
}

// RequireOwner rejects requests whose URL owner differs from the
// authenticated one. urlOwner reads the owner from the routed request.
// Without an authenticated owner (auth disabled) only the format is checked.
func RequireOwner(urlOwner func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := urlOwner(r)
			if err := ValidateOwnerID(owner); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if authed := GetOwnerFromContext(r.Context()); authed != "" && authed != owner {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
