// Package auth holds the caller identity and the declarative role and ownership gate
// every service operation runs before touching the store.
package auth

import (
	"github.com/volatiletech/null/v8"

	"github.com/pujaripavansai28/LMS/core"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

var AllRoles = []Role{RoleAdmin, RoleInstructor, RoleStudent}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Principal is the authenticated caller, as carried by the token.
type Principal struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (p Principal) IsAdmin() bool      { return p.Role == RoleAdmin }
func (p Principal) IsInstructor() bool { return p.Role == RoleInstructor }
func (p Principal) IsStudent() bool    { return p.Role == RoleStudent }

// Requirement declares who may run an operation.
// An empty Roles list admits any authenticated caller.
// Owned additionally restricts non-admins to the owner of the target resource.
type Requirement struct {
	Roles []Role
	Owned bool
}

// Require is a shortcut for a role-only Requirement.
func Require(roles ...Role) Requirement {
	return Requirement{Roles: roles}
}

// RequireOwner is a shortcut for an ownership Requirement.
func RequireOwner(roles ...Role) Requirement {
	return Requirement{Roles: roles, Owned: true}
}

// Check enforces the role set.
func (r Requirement) Check(p Principal) error {
	if len(r.Roles) == 0 {
		return nil
	}
	for _, role := range r.Roles {
		if p.Role == role {
			return nil
		}
	}
	return core.NewForbiddenError("")
}

// CheckOwner enforces the role set and, when Owned, that p is an admin or the owner.
func (r Requirement) CheckOwner(p Principal, owner null.Int64) error {
	if err := r.Check(p); err != nil {
		return err
	}
	if !r.Owned || p.IsAdmin() {
		return nil
	}
	if owner.Valid && owner.Int64 == p.ID {
		return nil
	}
	return core.NewForbiddenError("")
}
