// internal/app/features/login/types.go
package login

import "github.com/casefront/intakehub/internal/domain/models"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	OrganizationID string `json:"organizationId,omitempty"`
}

// userPayload is the principal block returned to clients after
// authentication. PasswordHash never appears here.
type userPayload struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	OrganizationID string `json:"organizationId,omitempty"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

func payloadFor(u *models.User) userPayload {
	p := userPayload{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
	if u.OrganizationID != nil {
		p.OrganizationID = u.OrganizationID.Hex()
	}
	return p
}
