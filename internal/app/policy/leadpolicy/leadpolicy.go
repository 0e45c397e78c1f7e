// Package leadpolicy provides authorization policies for lead access.
//
// Authorization rules:
//   - Super_admins can view and modify any lead
//   - Admins can view and modify leads within their own organization
//   - Agents can view and modify only leads they created, within their
//     own organization
//   - The dedicated status endpoint is admin/super_admin only; creators
//     change status through the general lead update
package leadpolicy

import (
	"net/http"

	"github.com/casefront/intakehub/internal/app/system/authz"
	"github.com/casefront/intakehub/internal/domain/models"
)

// inOrg reports whether the caller's organization matches the lead's.
// A lead with no organization is reachable only by super_admins, who never
// get here.
func inOrg(r *http.Request, lead *models.Lead) bool {
	if lead.OrganizationID == nil {
		return false
	}
	callerOrg := authz.UserOrgID(r)
	return callerOrg != nil && *callerOrg == *lead.OrganizationID
}

// CanView reports whether the caller may read the given lead.
func CanView(r *http.Request, lead *models.Lead) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == models.RoleSuperAdmin {
		return true
	}
	if !inOrg(r, lead) {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	return lead.CreatedBy == uid
}

// CanUpdate reports whether the caller may modify the given lead through
// the general update endpoint. Same rule as CanView: creators may edit
// their own leads, admins anything in their organization.
func CanUpdate(r *http.Request, lead *models.Lead) bool {
	return CanView(r, lead)
}

// CanChangeStatus reports whether the caller may use the dedicated
// status-transition endpoint for the given lead.
func CanChangeStatus(r *http.Request, lead *models.Lead) bool {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == models.RoleSuperAdmin {
		return true
	}
	return role == models.RoleAdmin && inOrg(r, lead)
}
