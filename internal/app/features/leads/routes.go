// internal/app/features/leads/routes.go
package leads

import (
	"github.com/casefront/intakehub/internal/app/system/auth"
	"github.com/casefront/intakehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is the general lead surface available to every signed-in user.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)
	r.Get("/stats", h.HandleStats)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	return r
}

// AdminRoutes carries the admin-only lead surface: the filtered list and
// the dedicated status-transition endpoint.
func AdminRoutes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Use(sessionMgr.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
	r.Get("/", h.HandleList)
	r.Put("/{id}/status", h.HandleUpdateStatus)
	return r
}

// CatalogRoutes serves the application-type field catalog.
func CatalogRoutes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Get("/application-types", h.HandleApplicationTypes)
	return r
}
