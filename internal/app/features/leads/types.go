// internal/app/features/leads/types.go
package leads

import (
	"sort"
	"time"

	leadstore "github.com/casefront/intakehub/internal/app/store/leads"
	"github.com/casefront/intakehub/internal/app/system/paging"
	"github.com/casefront/intakehub/internal/domain/models"
)

type createLeadRequest struct {
	FirstName       string            `json:"firstName"`
	LastName        string            `json:"lastName"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	DateOfBirth     *time.Time        `json:"dateOfBirth"`
	Address         string            `json:"address"`
	ApplicationType string            `json:"applicationType"`
	Lawsuit         string            `json:"lawsuit"`
	Notes           string            `json:"notes"`
	Status          string            `json:"status"`
	Fields          map[string]string `json:"fields"`
}

// duplicateInfo summarizes the existing lead a new submission collided
// with. It is returned to the caller, not merely logged, so intake staff
// can see what they hit.
type duplicateInfo struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	CreatedByName string    `json:"createdByName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type createLeadResponse struct {
	Lead          models.Lead    `json:"lead"`
	IsDuplicate   bool           `json:"isDuplicate"`
	DuplicateInfo *duplicateInfo `json:"duplicateInfo,omitempty"`
}

type listLeadsResponse struct {
	Leads []models.Lead `json:"leads"`
	Meta  paging.Meta   `json:"meta"`
}

type updateLeadRequest struct {
	FirstName       *string            `json:"firstName"`
	LastName        *string            `json:"lastName"`
	Email           *string            `json:"email"`
	Phone           *string            `json:"phone"`
	DateOfBirth     *time.Time         `json:"dateOfBirth"`
	Address         *string            `json:"address"`
	ApplicationType *string            `json:"applicationType"`
	Lawsuit         *string            `json:"lawsuit"`
	Notes           *string            `json:"notes"`
	Status          *string            `json:"status"`
	StatusNotes     string             `json:"statusNotes"`
	Fields          *map[string]string `json:"fields"`
}

type updateLeadResponse struct {
	Lead          models.Lead `json:"lead"`
	StatusChanged bool        `json:"statusChanged"`
}

type statusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type statusResponse struct {
	Lead    models.Lead `json:"lead"`
	Changed bool        `json:"changed"`
	Message string      `json:"message,omitempty"`
}

type statsResponse struct {
	Total          int64                     `json:"total"`
	ByStatus       []leadstore.StatusCount   `json:"byStatus"`
	RecentActivity []leadstore.ActivityEntry `json:"recentActivity"`
}

// fieldList converts the request's fields map into the stored ordered list.
// Keys are sorted so the stored order is deterministic; empty values are
// dropped rather than stored as blanks.
func fieldList(m map[string]string) []models.LeadField {
	if len(m) == 0 {
		return []models.LeadField{}
	}
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]models.LeadField, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.LeadField{Key: k, Value: m[k]})
	}
	return out
}
