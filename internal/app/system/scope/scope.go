// Package scope computes tenant-isolation query filters.
//
// The policy is strict: super_admins see everything, everyone else sees only
// their own organization, and a non-super_admin with no organization is
// rejected rather than silently shown unfiltered data. This applies
// uniformly to lead listing, lead stats, duplicate detection, and user
// listing.
package scope

import (
	"errors"

	"github.com/casefront/intakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNoOrganization is returned when a non-super_admin caller has no
// organization. Handlers map it to 403.
var ErrNoOrganization = errors.New("you do not have an associated organization")

// OrgFilter returns the query filter restricting a collection to the
// caller's visibility. The filter is empty for super_admins.
func OrgFilter(role string, orgID *primitive.ObjectID) (bson.M, error) {
	if role == models.RoleSuperAdmin {
		return bson.M{}, nil
	}
	if orgID == nil {
		return nil, ErrNoOrganization
	}
	return bson.M{"organization_id": *orgID}, nil
}

// CanAccessOrg reports whether the caller may read the given organization.
// Super_admins may read any; everyone else only their own.
func CanAccessOrg(role string, callerOrg *primitive.ObjectID, target primitive.ObjectID) bool {
	if role == models.RoleSuperAdmin {
		return true
	}
	return callerOrg != nil && *callerOrg == target
}
