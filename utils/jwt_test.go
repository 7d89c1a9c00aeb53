package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signClaims(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestIssueAndParseAdminToken(t *testing.T) {
	token, err := IssueAdminToken(testSecret, "owner", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAdminToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "owner", claims["sub"])
	assert.Equal(t, RoleAdmin, claims["role"])
}

func TestIssueAdminToken_NoSecret(t *testing.T) {
	_, err := IssueAdminToken("", "owner", time.Hour)
	assert.Error(t, err)
}

func TestParseAdminToken_Rejects(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return signClaims(t, "other", jwt.MapClaims{"sub": "x", "role": RoleAdmin, "exp": future})
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				return signClaims(t, testSecret, jwt.MapClaims{"sub": "x", "role": RoleAdmin, "exp": time.Now().Add(-time.Minute).Unix()})
			},
		},
		{
			name: "no expiry",
			token: func(t *testing.T) string {
				return signClaims(t, testSecret, jwt.MapClaims{"sub": "x", "role": RoleAdmin})
			},
		},
		{
			name: "not an admin",
			token: func(t *testing.T) string {
				return signClaims(t, testSecret, jwt.MapClaims{"sub": "x", "role": "customer", "exp": future})
			},
		},
		{
			name:  "garbage",
			token: func(t *testing.T) string { return "not.a.jwt" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAdminToken(testSecret, tt.token(t))
			assert.Error(t, err)
		})
	}
}

func newAuthApp(secret string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).SendString(string(CodeOf(err)))
		},
	})
	app.Get("/admin", AdminAuth(secret), func(c *fiber.Ctx) error {
		subject, _ := c.Locals("admin_subject").(string)
		return c.SendString(subject)
	})
	return app
}

func TestAdminAuth(t *testing.T) {
	valid, err := IssueAdminToken(testSecret, "owner", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		secret     string
		target     string
		header     string
		wantStatus int
	}{
		{name: "bearer header", secret: testSecret, target: "/admin", header: "Bearer " + valid, wantStatus: fiber.StatusOK},
		{name: "query token", secret: testSecret, target: "/admin?token=" + valid, wantStatus: fiber.StatusOK},
		{name: "missing token", secret: testSecret, target: "/admin", wantStatus: fiber.StatusUnauthorized},
		{name: "not a bearer header", secret: testSecret, target: "/admin", header: valid, wantStatus: fiber.StatusUnauthorized},
		{name: "invalid token", secret: testSecret, target: "/admin", header: "Bearer nope", wantStatus: fiber.StatusUnauthorized},
		{name: "admin disabled", secret: "", target: "/admin", header: "Bearer " + valid, wantStatus: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			resp, err := newAuthApp(tt.secret).Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
