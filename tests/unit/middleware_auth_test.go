package unit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop/internal/config"
	"shop/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testJWTSecret = "unit_test_secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func invokeAuth(t *testing.T, cfg config.Config, authz string) (*httptest.ResponseRecorder, middleware.Identity, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var id middleware.Identity
	var ok bool
	next := func(c echo.Context) error {
		id, ok = middleware.IdentityFromContext(c)
		return c.NoContent(http.StatusOK)
	}

	err := middleware.AuthJWT(cfg)(next)(c)
	assert.NoError(t, err)
	return rec, id, ok
}

func TestAuthJWT_ValidToken(t *testing.T) {
	cfg := config.Config{JWTSecret: testJWTSecret}
	token := signToken(t, testJWTSecret, jwt.MapClaims{
		"sub":   "auth0|user1",
		"email": "user1@example.com",
		"name":  "User One",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	rec, id, ok := invokeAuth(t, cfg, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ok)
	assert.Equal(t, "auth0|user1", id.Subject)
	assert.Equal(t, middleware.RoleClient, id.Role)
}

func TestAuthJWT_AdminEmailGetsAdminRole(t *testing.T) {
	cfg := config.Config{JWTSecret: testJWTSecret, AdminEmail: "admin@example.com"}
	token := signToken(t, testJWTSecret, jwt.MapClaims{
		"sub":   "auth0|admin",
		"email": "admin@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	rec, id, ok := invokeAuth(t, cfg, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ok)
	assert.Equal(t, middleware.RoleAdmin, id.Role)
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	cfg := config.Config{JWTSecret: testJWTSecret}

	rec, _, ok := invokeAuth(t, cfg, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	cfg := config.Config{JWTSecret: testJWTSecret}
	token := signToken(t, "other_secret", jwt.MapClaims{
		"sub": "auth0|user1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec, _, ok := invokeAuth(t, cfg, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	cfg := config.Config{JWTSecret: testJWTSecret}
	token := signToken(t, testJWTSecret, jwt.MapClaims{
		"sub": "auth0|user1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	rec, _, ok := invokeAuth(t, cfg, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

func TestAuthJWT_MissingSubject(t *testing.T) {
	cfg := config.Config{JWTSecret: testJWTSecret}
	token := signToken(t, testJWTSecret, jwt.MapClaims{
		"email": "user1@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	rec, _, ok := invokeAuth(t, cfg, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

func TestAdminRoleGuard_BlocksClient(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", middleware.RoleClient)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := middleware.AdminRoleGuard()(next)(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoleGuard_AllowsAdmin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", middleware.RoleAdmin)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := middleware.AdminRoleGuard()(next)(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
