// internal/app/features/users/handler.go
package users

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/casefront/intakehub/internal/app/policy/userpolicy"
	"github.com/casefront/intakehub/internal/app/store/audit"
	userstore "github.com/casefront/intakehub/internal/app/store/users"
	"github.com/casefront/intakehub/internal/app/system/auditlog"
	"github.com/casefront/intakehub/internal/app/system/authz"
	"github.com/casefront/intakehub/internal/app/system/normalize"
	"github.com/casefront/intakehub/internal/app/system/paging"
	"github.com/casefront/intakehub/internal/app/system/passwords"
	"github.com/casefront/intakehub/internal/app/system/respond"
	"github.com/casefront/intakehub/internal/app/system/scope"
	"github.com/casefront/intakehub/internal/app/system/timeouts"
	"github.com/casefront/intakehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
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

func userIDParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

// HandleList handles GET /api/users. Admins see only their own
// organization's users; super_admins see everyone.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	filter, err := scope.OrgFilter(role, authz.UserOrgID(r))
	if err != nil {
		respond.Message(w, http.StatusForbidden, "You do not have an associated organization")
		return
	}

	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	total, err := h.Users.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count users", err)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))
	found, err := h.Users.Find(ctx, filter, opts)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find users", err)
		return
	}
	if found == nil {
		found = []models.User{}
	}

	respond.JSON(w, http.StatusOK, listUsersResponse{Users: found, Meta: paging.NewMeta(p, total)})
}

// HandleCreate handles POST /api/users.
//
// Super_admins may create any user anywhere; admins only agents and admins
// inside their own organization.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode create user", err, "Invalid request body")
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

	role := models.RoleAgent
	if req.Role != "" {
		role = normalize.Role(req.Role)
		if !models.IsValidRole(role) {
			respond.Error(w, http.StatusBadRequest, "Invalid role")
			return
		}
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

	if d := userpolicy.CheckCreate(r, role, orgID); d != nil {
		respond.Message(w, http.StatusForbidden, d.Reason)
		return
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
		Role:           role,
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

	h.AuditLog.AdminAction(ctx, r, audit.EventUserCreated, actorID, &created.ID, map[string]string{
		"email": created.Email,
		"role":  created.Role,
	})

	respond.JSON(w, http.StatusCreated, created)
}

// HandleGet handles GET /api/users/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	target, err := h.Users.GetByID(ctx, id)
	switch err {
	case nil:
	case mongo.ErrNoDocuments:
		respond.Message(w, http.StatusNotFound, "User not found")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find user", err)
		return
	}

	if !userpolicy.CanManage(r, target) {
		respond.Message(w, http.StatusForbidden, "You do not have permission to manage this user")
		return
	}

	respond.JSON(w, http.StatusOK, target)
}

// HandleUpdate handles PUT /api/users/{id}.
//
// The guards run against the target's stored record before anything is
// written, so a rejected request leaves the record untouched.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	id, ok := userIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode update user", err, "Invalid request body")
		return
	}

	var newRole *string
	if req.Role != nil {
		nr := normalize.Role(*req.Role)
		if !models.IsValidRole(nr) {
			respond.Error(w, http.StatusBadRequest, "Invalid role")
			return
		}
		newRole = &nr
	}
	if req.Password != nil {
		if err := passwords.Validate(*req.Password); err != nil {
			respond.Message(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	// Outer nil: organization untouched. Inner nil: clear it.
	var orgChange **primitive.ObjectID
	if req.OrganizationID != nil {
		if *req.OrganizationID == "" {
			var none *primitive.ObjectID
			orgChange = &none
		} else {
			oid, err := primitive.ObjectIDFromHex(*req.OrganizationID)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, "Invalid organization id")
				return
			}
			p := &oid
			orgChange = &p
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	target, err := h.Users.GetByID(ctx, id)
	switch err {
	case nil:
	case mongo.ErrNoDocuments:
		respond.Message(w, http.StatusNotFound, "User not found")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find user", err)
		return
	}

	if !userpolicy.CanManage(r, target) {
		respond.Message(w, http.StatusForbidden, "You do not have permission to manage this user")
		return
	}

	denial, err := userpolicy.CheckUpdate(ctx, r, h.Users, target, userpolicy.UpdateRequest{
		Role:           newRole,
		Active:         req.Active,
		OrganizationID: orgChange,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "user update guard", err)
		return
	}
	if denial != nil {
		respond.Message(w, http.StatusForbidden, denial.Reason)
		return
	}

	upd := userstore.Update{
		Name:           req.Name,
		Email:          req.Email,
		Role:           newRole,
		Active:         req.Active,
		OrganizationID: orgChange,
	}

	switch err := h.Users.Update(ctx, id, upd); err {
	case nil:
	case userstore.ErrDuplicateEmail:
		respond.Message(w, http.StatusConflict, "A user with this email already exists")
		return
	case mongo.ErrNoDocuments:
		respond.Message(w, http.StatusNotFound, "User not found")
		return
	default:
		h.ErrLog.LogServerError(w, r, "update user", err)
		return
	}

	if req.Password != nil {
		hash, err := passwords.Hash(*req.Password)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "hash password", err)
			return
		}
		if err := h.Users.UpdatePassword(ctx, id, hash); err != nil {
			h.ErrLog.LogServerError(w, r, "update password", err)
			return
		}
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventUserUpdated, actorID, &id, nil)

	updated, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB reload user", err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /api/users/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	id, ok := userIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	target, err := h.Users.GetByID(ctx, id)
	switch err {
	case nil:
	case mongo.ErrNoDocuments:
		respond.Message(w, http.StatusNotFound, "User not found")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find user", err)
		return
	}

	if !userpolicy.CanManage(r, target) {
		respond.Message(w, http.StatusForbidden, "You do not have permission to manage this user")
		return
	}

	denial, err := userpolicy.CheckDelete(ctx, r, h.Users, target)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "user delete guard", err)
		return
	}
	if denial != nil {
		respond.Message(w, http.StatusForbidden, denial.Reason)
		return
	}

	if _, err := h.Users.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete user", err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventUserDeleted, actorID, &id, map[string]string{
		"email": target.Email,
	})
	h.Log.Info("user deleted", zap.String("user_id", id.Hex()))

	respond.Message(w, http.StatusOK, "User deleted")
}
