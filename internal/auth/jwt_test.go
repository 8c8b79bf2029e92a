package auth

import (
	"testing"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"
)

const testSecret = "test-secret-used-only-in-tests"

func TestTokenRoundTrip(t *testing.T) {
	storeID := uint(5)
	emp := &models.Employee{
		ID:      42,
		Name:    "Kim Jiwoo",
		Email:   "jiwoo@example.com",
		Role:    models.RoleStore,
		DeptID:  1,
		StoreID: &storeID,
	}

	token, err := GenerateToken(testSecret, emp)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	if claims.EmpID != emp.ID || claims.Email != emp.Email || claims.Role != emp.Role {
		t.Errorf("claims = %+v, want emp %d %s %s", claims, emp.ID, emp.Email, emp.Role)
	}
	if claims.StoreID == nil || *claims.StoreID != storeID {
		t.Errorf("claims.StoreID = %v, want %d", claims.StoreID, storeID)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	emp := &models.Employee{ID: 1, Role: models.RoleHQ, DeptID: 4}
	token, err := GenerateToken(testSecret, emp)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken("another-secret-entirely", token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken(testSecret, "not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}
