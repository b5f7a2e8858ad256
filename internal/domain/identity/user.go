package identity

import (
	"github.com/sfa/backend/internal/domain/shared"
)

// Role represents a user's role in the organisation
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleSalesRep Role = "Sales Rep"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSalesRep:
		return true
	}
	return false
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// User represents a back-office or field user (sales/delivery rep)
type User struct {
	shared.BaseEntity
	Name string
	Role Role
}

// NewUser creates a new user
func NewUser(name string, role Role) (*User, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "User name cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown user role")
	}
	return &User{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Role:       role,
	}, nil
}

// CanBeAssignedDeliveries reports whether load sheets may be assigned to this user
func (u *User) CanBeAssignedDeliveries() bool {
	return u.Role == RoleSalesRep || u.Role == RoleManager
}
