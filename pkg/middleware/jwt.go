package middleware

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// NewJWTValidator returns a TokenValidator that verifies HS256-signed tokens
// with the given secret and extracts user_id, email, and role claims.
func NewJWTValidator(secret string) TokenValidator {
	key := []byte(secret)

	return func(tokenString string) (*Claims, error) {
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return key, nil
		})
		if err != nil {
			return nil, fmt.Errorf("parse token: %w", err)
		}
		if !token.Valid {
			return nil, fmt.Errorf("invalid token")
		}

		mapClaims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return nil, fmt.Errorf("unexpected claims type")
		}

		claims := &Claims{}
		if v, ok := mapClaims["user_id"].(string); ok {
			claims.UserID = v
		}
		if v, ok := mapClaims["email"].(string); ok {
			claims.Email = v
		}
		if v, ok := mapClaims["role"].(string); ok {
			claims.Role = v
		}
		if claims.UserID == "" {
			return nil, fmt.Errorf("token missing user_id claim")
		}

		return claims, nil
	}
}
