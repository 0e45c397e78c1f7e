// internal/app/features/organizations/handler.go
package organizations

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/casefront/intakehub/internal/app/store/audit"
	leadstore "github.com/casefront/intakehub/internal/app/store/leads"
	organizationstore "github.com/casefront/intakehub/internal/app/store/organizations"
	userstore "github.com/casefront/intakehub/internal/app/store/users"
	"github.com/casefront/intakehub/internal/app/system/auditlog"
	"github.com/casefront/intakehub/internal/app/system/authz"
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
	Orgs     *organizationstore.Store
	Users    *userstore.Store
	Leads    *leadstore.Store
	ErrLog   *respond.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *respond.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Orgs:     organizationstore.New(db),
		Users:    userstore.New(db),
		Leads:    leadstore.New(db),
		ErrLog:   errLog,
		AuditLog: auditLog,
		Log:      logger,
	}
}

func orgIDParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

// HandleList handles GET /api/organizations. Super_admins see every
// organization; everyone else gets at most their own.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := bson.M{}
	if !authz.IsSuperAdmin(r) {
		orgID := authz.UserOrgID(r)
		if orgID == nil {
			respond.JSON(w, http.StatusOK, listOrgsResponse{Organizations: []models.Organization{}})
			return
		}
		filter["_id"] = *orgID
	}

	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	orgs, err := h.Orgs.Find(ctx, filter, opts)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find organizations", err)
		return
	}
	if orgs == nil {
		orgs = []models.Organization{}
	}

	respond.JSON(w, http.StatusOK, listOrgsResponse{Organizations: orgs})
}

// HandleCreate handles POST /api/organizations. Super_admin only.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	if !authz.IsSuperAdmin(r) {
		respond.Message(w, http.StatusForbidden, "Only super admins can create organizations")
		return
	}

	var req createOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode create organization", err, "Invalid request body")
		return
	}
	if req.Name == "" {
		respond.Error(w, http.StatusBadRequest, "Name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Orgs.Create(ctx, models.Organization{
		Name:        req.Name,
		Description: req.Description,
	})
	switch err {
	case nil:
	case organizationstore.ErrDuplicateOrganization:
		respond.Message(w, http.StatusConflict, "An organization with this name already exists")
		return
	default:
		h.ErrLog.LogServerError(w, r, "create organization", err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventOrgCreated, actorID, &created.ID, map[string]string{
		"name": created.Name,
	})

	respond.JSON(w, http.StatusCreated, created)
}

// HandleGet handles GET /api/organizations/{id}, with user and lead counts.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	id, ok := orgIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid organization id")
		return
	}

	if !scope.CanAccessOrg(role, authz.UserOrgID(r), id) {
		respond.Message(w, http.StatusForbidden, "You do not have permission to view this organization")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	org, err := h.Orgs.GetByID(ctx, id)
	switch err {
	case nil:
	case mongo.ErrNoDocuments:
		respond.Message(w, http.StatusNotFound, "Organization not found")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find organization", err)
		return
	}

	memberFilter := bson.M{"organization_id": id}
	userCount, err := h.Users.Count(ctx, memberFilter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count organization users", err)
		return
	}
	leadCount, err := h.Leads.Count(ctx, memberFilter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count organization leads", err)
		return
	}

	respond.JSON(w, http.StatusOK, orgDetail{
		Organization: org,
		UserCount:    userCount,
		LeadCount:    leadCount,
	})
}

// HandleUpdate handles PUT /api/organizations/{id}. Super_admin only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	if !authz.IsSuperAdmin(r) {
		respond.Message(w, http.StatusForbidden, "Only super admins can modify organizations")
		return
	}
	id, ok := orgIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid organization id")
		return
	}

	var req updateOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode update organization", err, "Invalid request body")
		return
	}
	if req.Name != nil && *req.Name == "" {
		respond.Error(w, http.StatusBadRequest, "Name cannot be empty")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	switch err := h.Orgs.Update(ctx, id, organizationstore.Update{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	}); err {
	case nil:
	case organizationstore.ErrDuplicateOrganization:
		respond.Message(w, http.StatusConflict, "An organization with this name already exists")
		return
	case mongo.ErrNoDocuments:
		respond.Message(w, http.StatusNotFound, "Organization not found")
		return
	default:
		h.ErrLog.LogServerError(w, r, "update organization", err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventOrgUpdated, actorID, &id, nil)

	updated, err := h.Orgs.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB reload organization", err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}
