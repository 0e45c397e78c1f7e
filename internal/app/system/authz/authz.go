// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/casefront/intakehub/internal/app/system/auth"
	"github.com/casefront/intakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's role (lowercased), name, Mongo ObjectID, and a
// found flag. If no principal is present or the user ID is malformed, it
// returns "", "", NilObjectID, false. ok=true always means a valid,
// authenticated caller with a parseable ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in the credential - fail closed.
		return "", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsSuperAdmin reports whether the caller is a super_admin.
func IsSuperAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleSuperAdmin
}

// IsAdmin reports whether the caller is an admin or super_admin.
// Super_admins are admins for permission purposes.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == models.RoleAdmin || role == models.RoleSuperAdmin)
}

// UserOrgID returns the caller's organization ID, or nil if the caller has
// no organization or the credential carries a malformed one.
func UserOrgID(r *http.Request) *primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || user.OrganizationID == "" {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(user.OrganizationID)
	if err != nil {
		return nil
	}
	return &oid
}
