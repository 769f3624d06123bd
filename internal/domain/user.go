package domain

import (
	"fmt"
	"time"
)

// UserRole is the closed set of marketplace roles.
type UserRole string

const (
	RoleBuyer  UserRole = "BUYER"
	RoleSeller UserRole = "SELLER"
	RoleAdmin  UserRole = "ADMIN"
)

var validRoles = []UserRole{RoleBuyer, RoleSeller, RoleAdmin}

func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanSell reports whether the role may list and manage products.
func (r UserRole) CanSell() bool {
	switch r {
	case RoleSeller, RoleAdmin:
		return true
	case RoleBuyer:
		return false
	default:
		return false
	}
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

// User is a registered account. Password is kept in plaintext; the
// marketplace is a local simulation without real authentication.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}
