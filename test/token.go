package test

import (
	"testing"
	"time"

	"github.com/college-budget/backend/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Secret is the HS256 signing secret test servers are configured with.
const Secret = "test-secret"

// Token signs an access token for the given role. The department ID is
// optional and only meaningful for the hod and department roles.
func Token(t *testing.T, role auth.Role, departmentID ...uuid.UUID) string {
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name: "Test " + string(role),
		Role: string(role),
	}

	if len(departmentID) > 0 {
		claims.Department = departmentID[0].String()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(Secret))
	require.NoError(t, err)

	return token
}

// BearerHeader builds the Authorization header map for a token.
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
