// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/casefront/intakehub/internal/app/system/auditlog"
	"github.com/casefront/intakehub/internal/app/system/auth"
	"github.com/casefront/intakehub/internal/app/system/respond"
	"go.uber.org/zap"
)

type Handler struct {
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{SessionMgr: sessionMgr, AuditLog: auditLog, Log: logger}
}

// HandleLogout handles POST /api/logout. Clears the session cookie.
// Bearer tokens are stateless; clients discard them.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Logout(r.Context(), r, u.ID)
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("sign out failed", zap.Error(err))
	}
	respond.Message(w, http.StatusOK, "Logged out")
}
