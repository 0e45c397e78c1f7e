// internal/app/features/users/types.go
package users

import (
	"github.com/casefront/intakehub/internal/app/system/paging"
	"github.com/casefront/intakehub/internal/domain/models"
)

type createUserRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	OrganizationID string `json:"organizationId"`
}

// updateUserRequest carries a partial user update. Nil means "leave as is";
// for organizationId, an empty string clears the assignment.
type updateUserRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Role           *string `json:"role"`
	Active         *bool   `json:"active"`
	OrganizationID *string `json:"organizationId"`
	Password       *string `json:"password"`
}

type listUsersResponse struct {
	Users []models.User `json:"users"`
	Meta  paging.Meta   `json:"meta"`
}
