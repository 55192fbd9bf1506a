package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type contextKey string

const ownerIDKey contextKey = "ownerID"

// ErrUnauthorized is returned for a missing or invalid bearer token
var ErrUnauthorized = errors.New("unauthorized")

// OwnerIDFromContext returns the authenticated owner id
func OwnerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ownerIDKey).(string)
	return id, ok && id != ""
}

// WithOwnerID stores the authenticated owner id in the context
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// ParseOwnerToken validates an HS256 access token issued by the hosted
// backend and returns its subject, which must be a UUID.
func ParseOwnerToken(tokenString string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("%w: subject is not a user id", ErrUnauthorized)
	}
	return id.String(), nil
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the token subject as owner id.
func AuthMiddleware(secret string) mux.MiddlewareFunc {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				http.Error(w, "Missing bearer token", http.StatusUnauthorized)
				return
			}
			ownerID, err := ParseOwnerToken(tokenString, key)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), ownerID)))
		})
	}
}
