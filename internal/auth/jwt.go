package auth

import (
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	EmpID   uint                `json:"emp_id"`
	Name    string              `json:"name"`
	Email   string              `json:"email"`
	Role    models.EmployeeRole `json:"role"`
	DeptID  int                 `json:"dept_id"`
	StoreID *uint               `json:"store_id"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, emp *models.Employee) (string, error) {
	claims := &JWTCustomClaims{
		EmpID:   emp.ID,
		Name:    emp.Name,
		Email:   emp.Email,
		Role:    emp.Role,
		DeptID:  emp.DeptID,
		StoreID: emp.StoreID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenStr string) (*JWTCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
