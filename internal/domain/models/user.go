// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles, lowest to highest privilege.
const (
	RoleAgent      = "agent"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// IsValidRole reports whether r is a known role.
func IsValidRole(r string) bool {
	return r == RoleAgent || r == RoleAdmin || r == RoleSuperAdmin
}

// User represents an operator of the system: agents enter leads, admins
// manage their organization, super_admins manage everything.
//
// NOTE:
//   - PasswordHash is a bcrypt hash; it is never serialized to JSON.
//   - A super_admin may exist without an organization; admins and agents
//     are expected to have one.
type User struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name           string              `bson:"name" json:"name"`
	NameCI         string              `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email          string              `bson:"email" json:"email"`
	PasswordHash   string              `bson:"password" json:"-"`
	Role           string              `bson:"role" json:"role"` // agent | admin | super_admin
	Active         bool                `bson:"active" json:"active"`
	LastLogin      *time.Time          `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organizationId,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
