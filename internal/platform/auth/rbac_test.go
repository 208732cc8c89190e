package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func doRequireRole(t *testing.T, userRoles []string, required ...string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserRolesKey, userRoles)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	return RequireRole(required...)(handler)(c)
}

func TestRequireRole_Allowed(t *testing.T) {
	if err := doRequireRole(t, []string{RoleNurse}, RolePhysician, RoleNurse); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestRequireRole_Denied(t *testing.T) {
	err := doRequireRole(t, []string{RoleDietitian}, RolePhysician, RoleNurse)
	if err == nil {
		t.Fatal("expected error for unauthorized role")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", httpErr.Code)
	}
}

func TestRequireRole_AdminBypass(t *testing.T) {
	if err := doRequireRole(t, []string{RoleAdmin}, RoleSurgeon); err != nil {
		t.Errorf("expected admin to pass surgeon check, got %v", err)
	}
}

func TestRequireRole_NoRoles(t *testing.T) {
	if err := doRequireRole(t, nil, RolePharmacist); err == nil {
		t.Error("expected error when no roles present")
	}
}
