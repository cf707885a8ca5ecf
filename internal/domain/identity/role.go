package identity

import (
	"fmt"

	"github.com/localisation/backend/internal/domain/shared"
)

// Role is the organisational function of a user
type Role string

const (
	RoleBR              Role = "BR"
	RoleGR              Role = "GR"
	RoleBrigade         Role = "Brigade"
	RoleUniteSecondaire Role = "UniteSecondaire"
	RoleAdmin           Role = "Admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleBR, RoleGR, RoleBrigade, RoleUniteSecondaire, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a raw value into a Role
func ParseRole(value string) (Role, error) {
	r := Role(value)
	if !r.IsValid() {
		return "", shared.NewValidationError(fmt.Sprintf("Unknown role %q", value))
	}
	return r, nil
}
