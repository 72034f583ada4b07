// Package auth consumes the identity tokens issued by the institution's
// authentication service. The backend never issues tokens itself, it
// only verifies them and extracts the actor making a request.
package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role is one of the seven user roles of the budget system.
type Role string

const (
	RoleAdmin         Role = "admin"
	RolePrincipal     Role = "principal"
	RoleVicePrincipal Role = "vice_principal"
	RoleOffice        Role = "office"
	RoleHOD           Role = "hod"
	RoleDepartment    Role = "department"
	RoleAuditor       Role = "auditor"
)

var (
	ErrTokenInvalid = errors.New("the bearer token is invalid or expired")
	ErrRoleUnknown  = errors.New("the token carries an unknown role")
)

// Actor is the identity attached to every ledger operation.
type Actor struct {
	UserID       uuid.UUID
	Name         string
	Role         Role
	DepartmentID uuid.UUID
}

// Claims is the token payload written by the authentication service.
type Claims struct {
	jwt.RegisteredClaims
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// Parser verifies HS256 access tokens.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

// Parse verifies the token signature and returns the Actor it describes.
func (p *Parser) Parse(token string) (Actor, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !parsed.Valid {
		return Actor{}, ErrTokenInvalid
	}

	role := Role(strings.TrimSpace(claims.Role))
	switch role {
	case RoleAdmin, RolePrincipal, RoleVicePrincipal, RoleOffice, RoleHOD, RoleDepartment, RoleAuditor:
	default:
		return Actor{}, ErrRoleUnknown
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Actor{}, ErrTokenInvalid
	}

	// The department claim is optional for roles that operate system-wide.
	var departmentID uuid.UUID
	if claims.Department != "" {
		departmentID, err = uuid.Parse(claims.Department)
		if err != nil {
			return Actor{}, ErrTokenInvalid
		}
	}

	return Actor{
		UserID:       userID,
		Name:         claims.Name,
		Role:         role,
		DepartmentID: departmentID,
	}, nil
}

// The capability predicates below gate each ledger operation. They are
// deliberately flat checks over role and department ownership instead of
// a role hierarchy.

// CanSubmitExpenditure reports whether the actor may submit expenditures
// for the given department.
func (a Actor) CanSubmitExpenditure(departmentID uuid.UUID) bool {
	if a.Role == RoleAdmin {
		return true
	}
	return a.Role == RoleDepartment && a.DepartmentID == departmentID
}

// CanVerifyExpenditure reports whether the actor may verify an
// expenditure of the given department. HODs only verify within their
// own department, office verifies system-wide.
func (a Actor) CanVerifyExpenditure(departmentID uuid.UUID) bool {
	switch a.Role {
	case RoleAdmin, RoleOffice:
		return true
	case RoleHOD:
		return a.DepartmentID == departmentID
	}
	return false
}

// CanApproveExpenditure reports whether the actor's role participates in
// the approve step. The vice principal's amount ceiling is enforced
// separately, where the amount is known.
func (a Actor) CanApproveExpenditure() bool {
	switch a.Role {
	case RoleAdmin, RoleOffice, RoleVicePrincipal, RolePrincipal:
		return true
	}
	return false
}

// CanRejectExpenditure reports whether the actor may reject an
// expenditure of the given department.
func (a Actor) CanRejectExpenditure(departmentID uuid.UUID) bool {
	switch a.Role {
	case RoleAdmin, RoleOffice, RoleVicePrincipal, RolePrincipal:
		return true
	case RoleHOD:
		return a.DepartmentID == departmentID
	}
	return false
}

// CanFinalizeExpenditure reports whether the actor may finalize approved
// expenditures.
func (a Actor) CanFinalizeExpenditure() bool {
	return a.Role == RoleAdmin || a.Role == RoleOffice
}

// CanManageAllocations reports whether the actor may create, edit and
// roll back allocations.
func (a Actor) CanManageAllocations() bool {
	return a.Role == RoleAdmin || a.Role == RoleOffice
}

// CanApproveProposal reports whether the actor may approve budget
// proposals, which promotes their line items into allocations.
func (a Actor) CanApproveProposal() bool {
	return a.Role == RoleAdmin || a.Role == RolePrincipal
}

// CanManageFinancialYears reports whether the actor may open, lock and
// close financial years.
func (a Actor) CanManageFinancialYears() bool {
	return a.Role == RoleAdmin || a.Role == RolePrincipal || a.Role == RoleOffice
}
