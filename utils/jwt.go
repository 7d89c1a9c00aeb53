package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

// IssueAdminToken signs an HS256 token carrying role=admin for subject.
func IssueAdminToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is not configured")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": RoleAdmin,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAdminToken verifies tokenString and requires an unexpired admin role.
func ParseAdminToken(secret, tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if role, _ := claims["role"].(string); role != RoleAdmin {
		return nil, fmt.Errorf("role %q is not allowed", role)
	}
	return claims, nil
}

// AdminAuth guards admin routes. The token comes from the Authorization
// header, or the "token" query parameter for websocket upgrades where
// browsers cannot set headers.
func AdminAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return NewUnauthorizedError("admin access is disabled")
		}

		tokenString := c.Query("token")
		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if tokenString == authHeader {
				return NewUnauthorizedError("token format is invalid")
			}
		}
		if tokenString == "" {
			return NewUnauthorizedError("no token provided")
		}

		claims, err := ParseAdminToken(secret, tokenString)
		if err != nil {
			return NewUnauthorizedError("token is invalid")
		}

		c.Locals("admin_subject", claims["sub"])
		return c.Next()
	}
}
