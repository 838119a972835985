package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/courtsidehq/courtside/models"
)

type contextKey string

const (
	userContextKey       contextKey = "user"
	displayKeyContextKey contextKey = "display_key"
)

// Authenticate verifies the HMAC-signed Bearer token minted by the
// platform's identity service and stores its claims on the request
// context.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DisplayKeyVerifier is what DisplayAuth needs from the services layer.
type DisplayKeyVerifier interface {
	Verify(ctx context.Context, presented string) (*models.DisplayKey, error)
}

// DisplayAuth guards the public read API with a display key, presented
// via X-Api-Key or, for clients that cannot set headers (browser
// WebSocket connects), the api_key query parameter.
func DisplayAuth(verifier DisplayKeyVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("X-Api-Key")
			if presented == "" {
				presented = r.URL.Query().Get("api_key")
			}
			if presented == "" {
				http.Error(w, "display key required", http.StatusUnauthorized)
				return
			}

			key, err := verifier.Verify(r.Context(), presented)
			if err != nil {
				http.Error(w, "invalid display key", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), displayKeyContextKey, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DisplayKeyFromContext returns the verified key DisplayAuth stored.
func DisplayKeyFromContext(ctx context.Context) (*models.DisplayKey, bool) {
	key, ok := ctx.Value(displayKeyContextKey).(*models.DisplayKey)
	return key, ok
}
