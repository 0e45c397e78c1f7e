// internal/app/features/profile/routes.go
package profile

import (
	"github.com/casefront/intakehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sessionMgr *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Get("/", h.HandleMe)
	r.Put("/password", h.HandleUpdatePassword)
	return r
}
