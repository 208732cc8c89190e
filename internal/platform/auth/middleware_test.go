package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var devSigningKey = []byte("test-signing-key")

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(devSigningKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runJWT(t *testing.T, cfg JWTConfig, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	err := JWTMiddleware(cfg)(handler)(c)
	return rec, c, err
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	_, _, err := runJWT(t, JWTConfig{SigningKey: devSigningKey}, "")
	if err == nil {
		t.Fatal("expected error for missing header")
	}
}

func TestJWTMiddleware_BadFormat(t *testing.T) {
	_, _, err := runJWT(t, JWTConfig{SigningKey: devSigningKey}, "Token abc")
	if err == nil {
		t.Fatal("expected error for non-bearer header")
	}
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TenantID: "stmarks",
		Roles:    []string{RoleNurse},
	}
	tokenStr := signToken(t, claims)

	rec, c, err := runJWT(t, JWTConfig{SigningKey: devSigningKey}, "Bearer "+tokenStr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	if got := c.Get("jwt_tenant_id"); got != "stmarks" {
		t.Errorf("expected tenant stmarks, got %v", got)
	}

	ctx := c.Request().Context()
	if uid := UserIDFromContext(ctx); uid != "user-1" {
		t.Errorf("expected user-1, got %q", uid)
	}
	roles := RolesFromContext(ctx)
	if len(roles) != 1 || roles[0] != RoleNurse {
		t.Errorf("unexpected roles: %v", roles)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	tokenStr := signToken(t, claims)

	_, _, err := runJWT(t, JWTConfig{SigningKey: devSigningKey}, "Bearer "+tokenStr)
	if err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestDevAuthMiddleware_Defaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	if err := DevAuthMiddleware()(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := c.Get("jwt_tenant_id"); got != "default" {
		t.Errorf("expected default tenant, got %v", got)
	}
	if uid := UserIDFromContext(c.Request().Context()); uid != "dev-user" {
		t.Errorf("expected dev-user, got %q", uid)
	}
}

func TestParseRSAPublicKey(t *testing.T) {
	// 65537 exponent, small modulus just for parsing
	key := JWKSKey{
		Kty: "RSA",
		Kid: "k1",
		N:   "AQAB",
		E:   "AQAB",
	}
	pub, err := parseRSAPublicKey(key)
	if err != nil {
		t.Fatalf("parseRSAPublicKey: %v", err)
	}
	if pub.E != 65537 {
		t.Errorf("expected exponent 65537, got %d", pub.E)
	}
}
