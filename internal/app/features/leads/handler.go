// internal/app/features/leads/handler.go
package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/casefront/intakehub/internal/app/catalog"
	"github.com/casefront/intakehub/internal/app/policy/leadpolicy"
	leadstore "github.com/casefront/intakehub/internal/app/store/leads"
	userstore "github.com/casefront/intakehub/internal/app/store/users"
	"github.com/casefront/intakehub/internal/app/system/auditlog"
	"github.com/casefront/intakehub/internal/app/system/authz"
	"github.com/casefront/intakehub/internal/app/system/normalize"
	"github.com/casefront/intakehub/internal/app/system/paging"
	"github.com/casefront/intakehub/internal/app/system/respond"
	"github.com/casefront/intakehub/internal/app/system/sanitize"
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
	Leads    *leadstore.Store
	Users    *userstore.Store
	ErrLog   *respond.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *respond.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Leads:    leadstore.New(db),
		Users:    userstore.New(db),
		ErrLog:   errLog,
		AuditLog: auditLog,
		Log:      logger,
	}
}

func leadIDParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

// HandleCreate handles POST /api/leads.
//
// Any signed-in user may submit a lead. The new record lands in the
// caller's organization. Before insert, the submission is checked against
// existing in-scope leads by exact email, then exact phone; a match forces
// status DUPLICATE and the response tells the caller what they collided
// with.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req createLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode create lead", err, "Invalid request body")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		respond.Error(w, http.StatusBadRequest, "First and last name are required")
		return
	}

	status := ""
	if req.Status != "" {
		status = normalize.LeadStatus(req.Status)
		if !models.IsValidLeadStatus(status) {
			respond.Error(w, http.StatusBadRequest, "Invalid status")
			return
		}
	}

	orgID := authz.UserOrgID(r)
	dupScope, err := scope.OrgFilter(role, orgID)
	if err != nil {
		respond.Message(w, http.StatusForbidden, "You do not have an associated organization")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	dup, err := h.Leads.FindDuplicate(ctx, dupScope, req.Email, req.Phone)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "duplicate check", err)
		return
	}

	notes := sanitize.Text(req.Notes)
	creationNote := ""
	var dupInfo *duplicateInfo
	if dup != nil {
		reason := "phone number"
		if req.Email != "" && dup.Email == req.Email {
			reason = "email"
		}
		status = models.StatusDuplicate
		dupName := strings.TrimSpace(dup.FirstName + " " + dup.LastName)

		sysNote := fmt.Sprintf("[SYSTEM] Duplicate of existing lead: %s (matching %s)", dupName, reason)
		if notes != "" {
			notes += "\n\n"
		}
		notes += sysNote
		creationNote = fmt.Sprintf("Lead created and automatically marked as DUPLICATE (matching %s)", reason)

		dupInfo = &duplicateInfo{
			ID:        dup.ID.Hex(),
			Name:      dupName,
			Status:    dup.Status,
			CreatedAt: dup.CreatedAt,
		}
		if creator, err := h.Users.GetByID(ctx, dup.CreatedBy); err == nil {
			dupInfo.CreatedByName = creator.Name
		}
	}

	created, err := h.Leads.Create(ctx, models.Lead{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		DateOfBirth:     req.DateOfBirth,
		Address:         req.Address,
		ApplicationType: req.ApplicationType,
		Lawsuit:         req.Lawsuit,
		Notes:           notes,
		Fields:          fieldList(req.Fields),
		Status:          status,
		OrganizationID:  orgID,
		CreatedBy:       uid,
	}, creationNote)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create lead", err)
		return
	}

	h.Log.Info("lead created",
		zap.String("lead_id", created.ID.Hex()),
		zap.String("status", created.Status),
		zap.Bool("duplicate", dup != nil))

	h.AuditLog.LeadCreated(ctx, r, uid, created.ID, created.Status)

	respond.JSON(w, http.StatusCreated, createLeadResponse{
		Lead:          created,
		IsDuplicate:   dup != nil,
		DuplicateInfo: dupInfo,
	})
}

// HandleList handles GET /api/leads and GET /api/admin/leads.
//
// Results are always limited to the caller's organization unless the
// caller is a super_admin; optional status and search query parameters
// narrow the list further.
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

	if st := r.URL.Query().Get("status"); st != "" {
		filter["status"] = normalize.LeadStatus(st)
	}
	if q := r.URL.Query().Get("search"); q != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter["$or"] = []bson.M{
			{"first_name": re},
			{"last_name": re},
			{"email": re},
			{"phone": re},
		}
	}

	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	total, err := h.Leads.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count leads", err)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))
	found, err := h.Leads.Find(ctx, filter, opts)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find leads", err)
		return
	}
	if found == nil {
		found = []models.Lead{}
	}

	respond.JSON(w, http.StatusOK, listLeadsResponse{Leads: found, Meta: paging.NewMeta(p, total)})
}

// HandleStats handles GET /api/leads/stats: org-scoped totals, per-status
// counts, and the ten most recent status transitions.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	total, err := h.Leads.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count leads", err)
		return
	}
	counts, err := h.Leads.StatusCounts(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "lead status counts", err)
		return
	}
	if counts == nil {
		counts = []leadstore.StatusCount{}
	}
	activity, err := h.Leads.RecentActivity(ctx, filter, 10)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "lead recent activity", err)
		return
	}
	if activity == nil {
		activity = []leadstore.ActivityEntry{}
	}

	respond.JSON(w, http.StatusOK, statsResponse{
		Total:          total,
		ByStatus:       counts,
		RecentActivity: activity,
	})
}

// HandleGet handles GET /api/leads/{id}. Admins see anything in their
// organization; agents only leads they created.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := leadIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid lead id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	lead, err := h.Leads.GetByID(ctx, id)
	switch err {
	case nil:
	case mongo.ErrNoDocuments:
		respond.Message(w, http.StatusNotFound, "Lead not found")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find lead", err)
		return
	}

	if !leadpolicy.CanView(r, &lead) {
		respond.Message(w, http.StatusForbidden, "You do not have permission to view this lead")
		return
	}

	respond.JSON(w, http.StatusOK, lead)
}

// HandleUpdate handles PUT /api/leads/{id}, the general-purpose update.
//
// Creators may edit their own leads here, including the status; admins
// anything in their organization. A supplied fields map replaces the whole
// stored list. A supplied status equal to the current one changes nothing
// and is not an error.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	id, ok := leadIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid lead id")
		return
	}

	var req updateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode update lead", err, "Invalid request body")
		return
	}

	var target string
	if req.Status != nil {
		target = normalize.LeadStatus(*req.Status)
		if !models.IsValidLeadStatus(target) {
			respond.Error(w, http.StatusBadRequest, "Invalid status")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	lead, err := h.Leads.GetByID(ctx, id)
	switch err {
	case nil:
	case mongo.ErrNoDocuments:
		respond.Message(w, http.StatusNotFound, "Lead not found")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find lead", err)
		return
	}

	if !leadpolicy.CanUpdate(r, &lead) {
		respond.Message(w, http.StatusForbidden, "You do not have permission to modify this lead")
		return
	}

	upd := leadstore.ContactUpdate{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		DateOfBirth:     req.DateOfBirth,
		Address:         req.Address,
		ApplicationType: req.ApplicationType,
		Lawsuit:         req.Lawsuit,
	}
	if req.Notes != nil {
		n := sanitize.Text(*req.Notes)
		upd.Notes = &n
	}
	if err := h.Leads.UpdateContact(ctx, id, upd); err != nil {
		if err == mongo.ErrNoDocuments {
			respond.Message(w, http.StatusNotFound, "Lead not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "update lead", err)
		return
	}

	if req.Fields != nil {
		if err := h.Leads.ReplaceFields(ctx, id, fieldList(*req.Fields)); err != nil {
			h.ErrLog.LogServerError(w, r, "replace lead fields", err)
			return
		}
	}

	statusChanged := false
	if req.Status != nil && target != lead.Status {
		notes := sanitize.Text(req.StatusNotes)
		switch err := h.Leads.AppendStatus(ctx, id, lead.Status, target, notes, uid); err {
		case nil:
		case leadstore.ErrStatusConflict:
			respond.Message(w, http.StatusConflict, "Lead status was changed by someone else. Reload and try again.")
			return
		case mongo.ErrNoDocuments:
			respond.Message(w, http.StatusNotFound, "Lead not found")
			return
		default:
			h.ErrLog.LogServerError(w, r, "append lead status", err)
			return
		}
		h.AuditLog.LeadStatusChanged(ctx, r, uid, id, lead.Status, target)
		statusChanged = true
	}

	updated, err := h.Leads.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB reload lead", err)
		return
	}

	respond.JSON(w, http.StatusOK, updateLeadResponse{Lead: updated, StatusChanged: statusChanged})
}

// HandleUpdateStatus handles PUT /api/admin/leads/{id}/status, the
// dedicated transition endpoint for admins.
//
// Setting the current status again is reported as unchanged, not an error,
// and appends nothing to the history. A real transition is a conditional
// write keyed on the expected current status; losing that race returns 409.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	id, ok := leadIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid lead id")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode status request", err, "Invalid request body")
		return
	}
	if req.Status == "" {
		respond.Error(w, http.StatusBadRequest, "Status is required")
		return
	}
	target := normalize.LeadStatus(req.Status)
	if !models.IsValidLeadStatus(target) {
		respond.Error(w, http.StatusBadRequest, "Invalid status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	lead, err := h.Leads.GetByID(ctx, id)
	switch err {
	case nil:
	case mongo.ErrNoDocuments:
		respond.Message(w, http.StatusNotFound, "Lead not found")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find lead", err)
		return
	}

	if !leadpolicy.CanChangeStatus(r, &lead) {
		respond.Message(w, http.StatusForbidden, "You do not have permission to change this lead's status")
		return
	}

	if target == lead.Status {
		respond.JSON(w, http.StatusOK, statusResponse{
			Lead:    lead,
			Changed: false,
			Message: "Status unchanged",
		})
		return
	}

	switch err := h.Leads.AppendStatus(ctx, id, lead.Status, target, sanitize.Text(req.Notes), uid); err {
	case nil:
	case leadstore.ErrStatusConflict:
		respond.Message(w, http.StatusConflict, "Lead status was changed by someone else. Reload and try again.")
		return
	case mongo.ErrNoDocuments:
		respond.Message(w, http.StatusNotFound, "Lead not found")
		return
	default:
		h.ErrLog.LogServerError(w, r, "append lead status", err)
		return
	}

	h.AuditLog.LeadStatusChanged(ctx, r, uid, id, lead.Status, target)

	updated, err := h.Leads.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB reload lead", err)
		return
	}

	respond.JSON(w, http.StatusOK, statusResponse{Lead: updated, Changed: true})
}

type applicationTypeDef struct {
	Name   string             `json:"name"`
	Fields []catalog.FieldDef `json:"fields"`
}

// HandleApplicationTypes handles GET /api/catalog/application-types: the
// declarative intake-field catalog clients render forms from.
func (h *Handler) HandleApplicationTypes(w http.ResponseWriter, r *http.Request) {
	names := catalog.ApplicationTypes()
	out := make([]applicationTypeDef, 0, len(names))
	for _, n := range names {
		out = append(out, applicationTypeDef{Name: n, Fields: catalog.Fields(n)})
	}
	respond.JSON(w, http.StatusOK, out)
}
