// Package userpolicy enforces the user-administration guard rules.
//
// The guards run in a fixed order for every user mutation, so callers get
// the same rejection for the same request regardless of which handler
// routed it:
//  1. no self-role change
//  2. only super_admins touch super_admins or hand out the role
//  3. only super_admins move a user between organizations
//  4. no self-deactivation
//  5. the last active super_admin cannot be demoted, deactivated, or deleted
//  6. no self-deletion
//
// Each guard returns a human-readable reason the handlers surface verbatim
// in the 403 body.
package userpolicy

import (
	"context"
	"net/http"

	userstore "github.com/casefront/intakehub/internal/app/store/users"
	"github.com/casefront/intakehub/internal/app/system/authz"
	"github.com/casefront/intakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Denial is a guard rejection with the reason shown to the caller. A nil
// *Denial means the mutation is allowed.
type Denial struct {
	Reason string
}

func deny(reason string) *Denial { return &Denial{Reason: reason} }

// UpdateRequest carries the parts of a user update the guards care about.
// Nil pointers mean the request does not touch that field.
type UpdateRequest struct {
	Role   *string
	Active *bool
	// OrganizationID is a requested tenant move: outer nil means the
	// request does not touch the organization, inner nil clears it.
	OrganizationID **primitive.ObjectID
}

// CanManage reports whether the caller may administer the target user at
// all: super_admins manage anyone, admins only users in their own
// organization, agents nobody.
func CanManage(r *http.Request, target *models.User) bool {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == models.RoleSuperAdmin {
		return true
	}
	if role != models.RoleAdmin {
		return false
	}
	callerOrg := authz.UserOrgID(r)
	return callerOrg != nil && target.OrganizationID != nil &&
		*callerOrg == *target.OrganizationID
}

// CheckUpdate runs the update guards in order against the target's current
// record. users is consulted only for the last-super_admin count, and only
// when a guard needs it.
func CheckUpdate(ctx context.Context, r *http.Request, users *userstore.Store, target *models.User, req UpdateRequest) (*Denial, error) {
	role, _, callerID, ok := authz.UserCtx(r)
	if !ok {
		return deny("You do not have permission to perform this action"), nil
	}

	// 1. Self-role change.
	if req.Role != nil && callerID == target.ID && *req.Role != target.Role {
		return deny("You cannot change your own role"), nil
	}

	// 2. super_admin protection.
	if role != models.RoleSuperAdmin {
		if target.Role == models.RoleSuperAdmin {
			return deny("Only super admins can modify super admin accounts"), nil
		}
		if req.Role != nil && *req.Role == models.RoleSuperAdmin {
			return deny("Only super admins can assign the super admin role"), nil
		}
	}

	// 3. Organization reassignment. Restating the current organization is
	// not a move and passes.
	if role != models.RoleSuperAdmin && req.OrganizationID != nil &&
		orgChanged(*req.OrganizationID, target.OrganizationID) {
		return deny("Only super admins can change a user's organization"), nil
	}

	// 4. Self-deactivation.
	if req.Active != nil && !*req.Active && callerID == target.ID {
		return deny("You cannot deactivate your own account"), nil
	}

	// 5. Last active super_admin.
	demoting := req.Role != nil && *req.Role != models.RoleSuperAdmin
	deactivating := req.Active != nil && !*req.Active
	if target.Role == models.RoleSuperAdmin && target.Active && (demoting || deactivating) {
		n, err := users.CountActiveSuperAdminsExcluding(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return deny("Cannot remove the last active super admin"), nil
		}
	}

	return nil, nil
}

// orgChanged reports whether the requested organization differs from the
// user's current one. Both nil means "stays without an organization".
func orgChanged(requested, current *primitive.ObjectID) bool {
	if requested == nil && current == nil {
		return false
	}
	if requested == nil || current == nil {
		return true
	}
	return *requested != *current
}

// CheckDelete runs the deletion guards against the target's current record.
func CheckDelete(ctx context.Context, r *http.Request, users *userstore.Store, target *models.User) (*Denial, error) {
	role, _, callerID, ok := authz.UserCtx(r)
	if !ok {
		return deny("You do not have permission to perform this action"), nil
	}

	if role != models.RoleSuperAdmin && target.Role == models.RoleSuperAdmin {
		return deny("Only super admins can modify super admin accounts"), nil
	}

	if target.Role == models.RoleSuperAdmin && target.Active {
		n, err := users.CountActiveSuperAdminsExcluding(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return deny("Cannot remove the last active super admin"), nil
		}
	}

	// 6. Self-deletion.
	if callerID == target.ID {
		return deny("You cannot delete your own account"), nil
	}

	return nil, nil
}

// CheckCreate guards new-user creation: admins may only create agents and
// admins inside their own organization.
func CheckCreate(r *http.Request, newRole string, newOrg *primitive.ObjectID) *Denial {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		return deny("You do not have permission to perform this action")
	}
	if role == models.RoleSuperAdmin {
		return nil
	}
	if role != models.RoleAdmin {
		return deny("You do not have permission to perform this action")
	}
	if newRole == models.RoleSuperAdmin {
		return deny("Only super admins can assign the super admin role")
	}
	callerOrg := authz.UserOrgID(r)
	if callerOrg == nil || newOrg == nil || *callerOrg != *newOrg {
		return deny("You can only create users in your own organization")
	}
	return nil
}
