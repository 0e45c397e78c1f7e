// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"encoding/json"
	"net/http"

	userstore "github.com/casefront/intakehub/internal/app/store/users"
	"github.com/casefront/intakehub/internal/app/system/auditlog"
	"github.com/casefront/intakehub/internal/app/system/authz"
	"github.com/casefront/intakehub/internal/app/system/passwords"
	"github.com/casefront/intakehub/internal/app/system/respond"
	"github.com/casefront/intakehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userstore.Store
	ErrLog   *respond.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *respond.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		ErrLog:   errLog,
		AuditLog: auditLog,
		Log:      logger,
	}
}

// HandleMe handles GET /api/profile. The record is loaded fresh from the
// database so role or organization changes take effect without re-login.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	switch err {
	case nil:
	case mongo.ErrNoDocuments:
		respond.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find user", err)
		return
	}

	respond.JSON(w, http.StatusOK, u)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// HandleUpdatePassword handles PUT /api/profile/password. The caller
// must prove the current password before the new one is hashed and stored.
func (h *Handler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode password request", err, "Invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		respond.Error(w, http.StatusBadRequest, "Current and new password are required")
		return
	}
	if err := passwords.Validate(req.NewPassword); err != nil {
		respond.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	switch err {
	case nil:
	case mongo.ErrNoDocuments:
		respond.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find user", err)
		return
	}

	if !passwords.Compare(u.PasswordHash, req.CurrentPassword) {
		respond.Message(w, http.StatusForbidden, "Current password is incorrect")
		return
	}

	hash, err := passwords.Hash(req.NewPassword)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password", err)
		return
	}
	if err := h.Users.UpdatePassword(ctx, userID, hash); err != nil {
		h.ErrLog.LogServerError(w, r, "update password", err)
		return
	}

	h.AuditLog.PasswordChanged(ctx, r, userID)
	respond.Message(w, http.StatusOK, "Password updated")
}
