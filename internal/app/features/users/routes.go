// internal/app/features/users/routes.go
package users

import (
	"github.com/casefront/intakehub/internal/app/system/auth"
	"github.com/casefront/intakehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is admin-only: agents have no user-administration surface.
// Per-target organization checks happen inside the handlers.
func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Use(sessionMgr.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
