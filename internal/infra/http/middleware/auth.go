package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type adminEmailKey struct{}

// AdminAuth validates the session JWT on admin routes and restricts access to
// one organizational email domain. The token comes from the auth provider the
// console signs in with; we only verify signature, expiry and domain here.
func AdminAuth(secret []byte, allowedDomain string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, err := validateToken(r, secret, allowedDomain)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "UNAUTHORIZED"})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminEmailKey{}, email)))
		})
	}
}

// AdminEmail returns the authenticated admin's email, or "" outside AdminAuth.
func AdminEmail(ctx context.Context) string {
	email, _ := ctx.Value(adminEmailKey{}).(string)
	return email
}

func validateToken(r *http.Request, secret []byte, allowedDomain string) (string, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return "", fmt.Errorf("token has no email claim")
	}
	if allowedDomain != "" && !strings.HasSuffix(strings.ToLower(email), "@"+strings.ToLower(allowedDomain)) {
		return "", fmt.Errorf("email %s outside allowed domain", email)
	}
	return email, nil
}
