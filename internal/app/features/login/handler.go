// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/casefront/intakehub/internal/app/store/audit"
	userstore "github.com/casefront/intakehub/internal/app/store/users"
	"github.com/casefront/intakehub/internal/app/system/auditlog"
	"github.com/casefront/intakehub/internal/app/system/auth"
	"github.com/casefront/intakehub/internal/app/system/normalize"
	"github.com/casefront/intakehub/internal/app/system/passwords"
	"github.com/casefront/intakehub/internal/app/system/respond"
	"github.com/casefront/intakehub/internal/app/system/timeouts"
	"github.com/casefront/intakehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *respond.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *respond.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   auditLog,
		Log:        logger,
	}
}

// HandleLogin handles POST /api/auth/login.
//
// Verifies email and password, rejects deactivated accounts, then sets the
// session cookie and returns a bearer token with the same claims. Failed
// attempts never reveal whether the email exists.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login request", err, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	switch err {
	case nil:
	case mongo.ErrNoDocuments:
		h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedUserNotFound, "user not found", normalize.Email(req.Email))
		respond.Message(w, http.StatusUnauthorized, "Invalid email or password")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find user", err)
		return
	}

	if !passwords.Compare(u.PasswordHash, req.Password) {
		h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedWrongPass, "wrong password", u.Email)
		respond.Message(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !u.Active {
		h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedInactive, "user inactive", u.Email)
		respond.Message(w, http.StatusForbidden, "Your account has been deactivated. Please contact an administrator.")
		return
	}

	h.signIn(w, r, u, http.StatusOK)
}

// signIn sets the session cookie, issues the bearer token, stamps
// last_login, and writes the auth response.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u *models.User, status int) {
	principal := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
	if u.OrganizationID != nil {
		principal.OrganizationID = u.OrganizationID.Hex()
	}

	if err := h.SessionMgr.SignIn(w, r, principal); err != nil {
		h.ErrLog.LogServerError(w, r, "save session", err)
		return
	}
	token, err := h.SessionMgr.IssueToken(principal)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue token", err)
		return
	}

	// Bookkeeping write; login succeeds even if it fails.
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.Users.SetLastLogin(ctx, u.ID, time.Now().UTC()); err != nil {
		h.Log.Warn("set last_login failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}

	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.OrganizationID, u.Email)

	respond.JSON(w, status, authResponse{Token: token, User: payloadFor(u)})
}

// HandleRegister handles POST /api/auth/register.
//
// Self-service signup always creates an active agent; roles are granted
// later by an administrator. An organization may be supplied so agents
// land in the right tenant immediately.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode register request", err, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	if err := passwords.Validate(req.Password); err != nil {
		respond.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	var orgID *primitive.ObjectID
	if req.OrganizationID != "" {
		oid, err := primitive.ObjectIDFromHex(req.OrganizationID)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid organization id")
			return
		}
		orgID = &oid
	}

	hash, err := passwords.Hash(req.Password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		Role:           models.RoleAgent,
		Active:         true,
		OrganizationID: orgID,
	})
	switch err {
	case nil:
	case userstore.ErrDuplicateEmail:
		respond.Message(w, http.StatusConflict, "A user with this email already exists")
		return
	default:
		h.ErrLog.LogServerError(w, r, "create user", err)
		return
	}

	h.AuditLog.UserRegistered(ctx, r, created.ID, created.Email)
	h.Log.Info("user registered", zap.String("user_id", created.ID.Hex()))

	h.signIn(w, r, &created, http.StatusCreated)
}
