// internal/app/features/organizations/types.go
package organizations

import "github.com/casefront/intakehub/internal/domain/models"

type createOrgRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateOrgRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

type listOrgsResponse struct {
	Organizations []models.Organization `json:"organizations"`
}

// orgDetail is the single-organization view, with membership counts for
// the admin dashboard.
type orgDetail struct {
	Organization models.Organization `json:"organization"`
	UserCount    int64               `json:"userCount"`
	LeadCount    int64               `json:"leadCount"`
}
