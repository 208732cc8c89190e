package db

import (
	"context"
	"testing"
)

func TestTenantFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TenantIDKey, "stmarks")
	if got := TenantFromContext(ctx); got != "stmarks" {
		t.Errorf("expected stmarks, got %q", got)
	}

	if got := TenantFromContext(context.Background()); got != "" {
		t.Errorf("expected empty tenant, got %q", got)
	}
}

func TestTxFromContextEmpty(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Error("expected nil transaction for bare context")
	}
}

func TestConnFromContextEmpty(t *testing.T) {
	if conn := ConnFromContext(context.Background()); conn != nil {
		t.Error("expected nil connection for bare context")
	}
}

func TestTenantIDPattern(t *testing.T) {
	valid := []string{"default", "tenant_1", "stMarks", "A1_b2"}
	for _, id := range valid {
		if !tenantIDPattern.MatchString(id) {
			t.Errorf("expected %q to be valid", id)
		}
	}

	invalid := []string{"", "a-b", "a.b", "a b", "x;DROP SCHEMA public"}
	for _, id := range invalid {
		if tenantIDPattern.MatchString(id) {
			t.Errorf("expected %q to be rejected", id)
		}
	}
}
