package leads_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casefront/intakehub/internal/app/features/leads"
	"github.com/casefront/intakehub/internal/app/store/audit"
	"github.com/casefront/intakehub/internal/app/system/auditlog"
	"github.com/casefront/intakehub/internal/app/system/paging"
	"github.com/casefront/intakehub/internal/app/system/respond"
	"github.com/casefront/intakehub/internal/domain/models"
	"github.com/casefront/intakehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*leads.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	handler := leads.NewHandler(db, respond.NewErrorLogger(logger), nil, logger)
	return handler, testutil.NewFixtures(t, db)
}

type createResponse struct {
	Lead          models.Lead `json:"lead"`
	IsDuplicate   bool        `json:"isDuplicate"`
	DuplicateInfo *struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
	} `json:"duplicateInfo"`
}

func createLead(t *testing.T, h *leads.Handler, user testutil.TestUser, body map[string]any) (int, createResponse) {
	t.Helper()
	req := testutil.NewJSONRequest(t, "POST", "/api/leads", body, user)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	var resp createResponse
	if rec.Code == http.StatusCreated {
		testutil.DecodeJSON(t, rec, &resp)
	}
	return rec.Code, resp
}

func TestHandleCreate_DefaultsToPending(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	agent := fixtures.CreateAgent(ctx, "Agent", "agent@test.com", org.ID)

	code, resp := createLead(t, handler, testutil.FromUser(agent), map[string]any{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@example.com",
	})
	if code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", code)
	}
	if resp.Lead.Status != models.StatusPending {
		t.Errorf("status: got %q, want PENDING", resp.Lead.Status)
	}
	if resp.IsDuplicate {
		t.Error("isDuplicate: got true, want false")
	}
	if len(resp.Lead.StatusHistory) != 1 {
		t.Fatalf("history length: got %d, want 1", len(resp.Lead.StatusHistory))
	}
	if resp.Lead.StatusHistory[0].FromStatus != "" {
		t.Errorf("first history from_status: got %q, want empty", resp.Lead.StatusHistory[0].FromStatus)
	}
	if resp.Lead.OrganizationID == nil || *resp.Lead.OrganizationID != org.ID {
		t.Error("lead did not inherit the creator's organization")
	}
}

func TestHandleCreate_MissingName(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	agent := fixtures.CreateAgent(ctx, "Agent", "agent@test.com", org.ID)

	code, _ := createLead(t, handler, testutil.FromUser(agent), map[string]any{
		"firstName": "OnlyFirst",
	})
	if code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", code)
	}
}

func TestHandleCreate_DuplicateEmailSameOrg(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	agent := fixtures.CreateAgent(ctx, "Agent", "agent@test.com", org.ID)
	user := testutil.FromUser(agent)

	code, first := createLead(t, handler, user, map[string]any{
		"firstName": "Alice",
		"lastName":  "Smith",
		"email":     "x@test.com",
	})
	if code != http.StatusCreated {
		t.Fatalf("first create: got %d, want 201", code)
	}

	code, second := createLead(t, handler, user, map[string]any{
		"firstName": "Bob",
		"lastName":  "Jones",
		"email":     "x@test.com",
	})
	if code != http.StatusCreated {
		t.Fatalf("second create: got %d, want 201", code)
	}
	if second.Lead.Status != models.StatusDuplicate {
		t.Errorf("status: got %q, want DUPLICATE", second.Lead.Status)
	}
	if !second.IsDuplicate {
		t.Error("isDuplicate: got false, want true")
	}
	if second.DuplicateInfo == nil {
		t.Fatal("duplicateInfo missing")
	}
	if second.DuplicateInfo.ID != first.Lead.ID.Hex() {
		t.Errorf("duplicateInfo.id: got %q, want %q", second.DuplicateInfo.ID, first.Lead.ID.Hex())
	}
}

func TestHandleCreate_SameEmailDifferentOrg(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org1 := fixtures.CreateOrganization(ctx, "Org One")
	org2 := fixtures.CreateOrganization(ctx, "Org Two")
	admin1 := fixtures.CreateAdmin(ctx, "Admin One", "a1@test.com", org1.ID)
	admin2 := fixtures.CreateAdmin(ctx, "Admin Two", "a2@test.com", org2.ID)

	code, _ := createLead(t, handler, testutil.FromUser(admin1), map[string]any{
		"firstName": "Alice",
		"lastName":  "Smith",
		"email":     "x@test.com",
	})
	if code != http.StatusCreated {
		t.Fatalf("org1 create: got %d, want 201", code)
	}

	code, resp := createLead(t, handler, testutil.FromUser(admin2), map[string]any{
		"firstName": "Carol",
		"lastName":  "White",
		"email":     "x@test.com",
	})
	if code != http.StatusCreated {
		t.Fatalf("org2 create: got %d, want 201", code)
	}
	if resp.IsDuplicate {
		t.Error("isDuplicate across tenants: got true, want false")
	}
	if resp.Lead.Status != models.StatusPending {
		t.Errorf("status: got %q, want PENDING", resp.Lead.Status)
	}
}

func TestHandleCreate_DuplicateByPhone(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	agent := fixtures.CreateAgent(ctx, "Agent", "agent@test.com", org.ID)
	user := testutil.FromUser(agent)

	code, _ := createLead(t, handler, user, map[string]any{
		"firstName": "Alice",
		"lastName":  "Smith",
		"phone":     "555-0100",
	})
	if code != http.StatusCreated {
		t.Fatalf("first create: got %d, want 201", code)
	}

	code, resp := createLead(t, handler, user, map[string]any{
		"firstName": "Bob",
		"lastName":  "Jones",
		"phone":     "555-0100",
	})
	if code != http.StatusCreated {
		t.Fatalf("second create: got %d, want 201", code)
	}
	if !resp.IsDuplicate || resp.Lead.Status != models.StatusDuplicate {
		t.Errorf("phone duplicate not detected: isDuplicate=%v status=%q",
			resp.IsDuplicate, resp.Lead.Status)
	}
}

func TestHandleCreate_FieldsMapStoredSorted(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	agent := fixtures.CreateAgent(ctx, "Agent", "agent@test.com", org.ID)

	code, resp := createLead(t, handler, testutil.FromUser(agent), map[string]any{
		"firstName":       "Jane",
		"lastName":        "Doe",
		"applicationType": "Roundup",
		"fields": map[string]string{
			"yearsUsed": "5",
			"illness":   "NHL",
			"empty":     "",
		},
	})
	if code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", code)
	}
	if len(resp.Lead.Fields) != 2 {
		t.Fatalf("fields: got %d entries, want 2 (empty value dropped)", len(resp.Lead.Fields))
	}
	if resp.Lead.Fields[0].Key != "illness" || resp.Lead.Fields[1].Key != "yearsUsed" {
		t.Errorf("field order: got %q, %q", resp.Lead.Fields[0].Key, resp.Lead.Fields[1].Key)
	}
}

func TestHandleList_ScopedToOrganization(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org1 := fixtures.CreateOrganization(ctx, "Org One")
	org2 := fixtures.CreateOrganization(ctx, "Org Two")
	agent1 := fixtures.CreateAgent(ctx, "Agent One", "a1@test.com", org1.ID)
	agent2 := fixtures.CreateAgent(ctx, "Agent Two", "a2@test.com", org2.ID)
	fixtures.CreateLead(ctx, "In", "Scope", &org1.ID, agent1.ID)
	fixtures.CreateLead(ctx, "Also", "InScope", &org1.ID, agent1.ID)
	fixtures.CreateLead(ctx, "Out", "OfScope", &org2.ID, agent2.ID)

	req := testutil.NewAuthenticatedRequest("GET", "/api/leads", testutil.FromUser(agent1))
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var resp struct {
		Leads []models.Lead `json:"leads"`
		Meta  paging.Meta   `json:"meta"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	if resp.Meta.Total != 2 || len(resp.Leads) != 2 {
		t.Fatalf("got %d leads (total %d), want 2", len(resp.Leads), resp.Meta.Total)
	}
	for _, l := range resp.Leads {
		if l.OrganizationID == nil || *l.OrganizationID != org1.ID {
			t.Errorf("lead %s leaked from another organization", l.ID.Hex())
		}
	}
}

func TestHandleList_NoOrganizationForbidden(t *testing.T) {
	handler, _ := newTestHandler(t)

	orphan := testutil.TestUser{
		ID:   primitive.NewObjectID().Hex(),
		Name: "No Org",
		Role: models.RoleAgent,
	}
	req := testutil.NewAuthenticatedRequest("GET", "/api/leads", orphan)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
}

func TestHandleGet_CreatorAndAdminOnly(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	creator := fixtures.CreateAgent(ctx, "Creator", "creator@test.com", org.ID)
	other := fixtures.CreateAgent(ctx, "Other", "other@test.com", org.ID)
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com", org.ID)
	lead := fixtures.CreateLead(ctx, "Jane", "Doe", &org.ID, creator.ID)

	get := func(as testutil.TestUser) int {
		req := testutil.NewAuthenticatedRequest("GET", "/api/leads/"+lead.ID.Hex(), as)
		req = testutil.WithChiURLParam(req, "id", lead.ID.Hex())
		rec := httptest.NewRecorder()
		handler.HandleGet(rec, req)
		return rec.Code
	}

	if code := get(testutil.FromUser(creator)); code != http.StatusOK {
		t.Errorf("creator: got %d, want 200", code)
	}
	if code := get(testutil.FromUser(admin)); code != http.StatusOK {
		t.Errorf("admin: got %d, want 200", code)
	}
	if code := get(testutil.FromUser(other)); code != http.StatusForbidden {
		t.Errorf("other agent: got %d, want 403", code)
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com", org.ID)

	missing := primitive.NewObjectID().Hex()
	req := testutil.NewAuthenticatedRequest("GET", "/api/leads/"+missing, testutil.FromUser(admin))
	req = testutil.WithChiURLParam(req, "id", missing)
	rec := httptest.NewRecorder()
	handler.HandleGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestHandleUpdate_StatusTransitionAppendsHistory(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com", org.ID)
	lead := fixtures.CreateLead(ctx, "Jane", "Doe", &org.ID, admin.ID)

	req := testutil.NewJSONRequest(t, "PUT", "/api/leads/"+lead.ID.Hex(), map[string]any{
		"status":      "VERIFIED",
		"statusNotes": "docs checked",
	}, testutil.FromUser(admin))
	req = testutil.WithChiURLParam(req, "id", lead.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Lead          models.Lead `json:"lead"`
		StatusChanged bool        `json:"statusChanged"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	if !resp.StatusChanged {
		t.Error("statusChanged: got false, want true")
	}
	if resp.Lead.Status != "VERIFIED" {
		t.Errorf("status: got %q, want VERIFIED", resp.Lead.Status)
	}
	if len(resp.Lead.StatusHistory) != 2 {
		t.Fatalf("history length: got %d, want 2", len(resp.Lead.StatusHistory))
	}
	entry := resp.Lead.StatusHistory[1]
	if entry.FromStatus != models.StatusPending || entry.ToStatus != "VERIFIED" || entry.Notes != "docs checked" {
		t.Errorf("history entry: got %+v", entry)
	}
}

func TestHandleUpdate_ContactFieldsOnly(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	creator := fixtures.CreateAgent(ctx, "Creator", "creator@test.com", org.ID)
	lead := fixtures.CreateLead(ctx, "Jane", "Doe", &org.ID, creator.ID)

	req := testutil.NewJSONRequest(t, "PUT", "/api/leads/"+lead.ID.Hex(), map[string]any{
		"phone": "555-0199",
		"notes": "called back",
	}, testutil.FromUser(creator))
	req = testutil.WithChiURLParam(req, "id", lead.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Lead          models.Lead `json:"lead"`
		StatusChanged bool        `json:"statusChanged"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	if resp.StatusChanged {
		t.Error("statusChanged: got true, want false")
	}
	if resp.Lead.Phone != "555-0199" || resp.Lead.Notes != "called back" {
		t.Errorf("contact update not applied: %+v", resp.Lead)
	}
	if len(resp.Lead.StatusHistory) != 1 {
		t.Errorf("history length: got %d, want 1", len(resp.Lead.StatusHistory))
	}
}

func TestHandleUpdateStatus_Unchanged(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com", org.ID)
	lead := fixtures.CreateLead(ctx, "Jane", "Doe", &org.ID, admin.ID)

	req := testutil.NewJSONRequest(t, "PUT", "/api/admin/leads/"+lead.ID.Hex()+"/status", map[string]any{
		"status": "PENDING",
	}, testutil.FromUser(admin))
	req = testutil.WithChiURLParam(req, "id", lead.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleUpdateStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Lead    models.Lead `json:"lead"`
		Changed bool        `json:"changed"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	if resp.Changed {
		t.Error("changed: got true, want false")
	}
	if len(resp.Lead.StatusHistory) != 1 {
		t.Errorf("history length: got %d, want 1 (no entry on same-status update)", len(resp.Lead.StatusHistory))
	}
}

func TestHandleUpdateStatus_AgentForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	agent := fixtures.CreateAgent(ctx, "Agent", "agent@test.com", org.ID)
	lead := fixtures.CreateLead(ctx, "Jane", "Doe", &org.ID, agent.ID)

	req := testutil.NewJSONRequest(t, "PUT", "/api/admin/leads/"+lead.ID.Hex()+"/status", map[string]any{
		"status": "VERIFIED",
	}, testutil.FromUser(agent))
	req = testutil.WithChiURLParam(req, "id", lead.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleUpdateStatus(rec, req)

	// Even the creator may not use the dedicated status endpoint.
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
}

func TestHandleUpdateStatus_Transition(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com", org.ID)
	lead := fixtures.CreateLead(ctx, "Jane", "Doe", &org.ID, admin.ID)

	req := testutil.NewJSONRequest(t, "PUT", "/api/admin/leads/"+lead.ID.Hex()+"/status", map[string]any{
		"status": "working",
		"notes":  "assigned",
	}, testutil.FromUser(admin))
	req = testutil.WithChiURLParam(req, "id", lead.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleUpdateStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Lead    models.Lead `json:"lead"`
		Changed bool        `json:"changed"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	if !resp.Changed {
		t.Error("changed: got false, want true")
	}
	// Status labels are normalized to canonical uppercase.
	if resp.Lead.Status != "WORKING" {
		t.Errorf("status: got %q, want WORKING", resp.Lead.Status)
	}
	if len(resp.Lead.StatusHistory) != 2 {
		t.Errorf("history length: got %d, want 2", len(resp.Lead.StatusHistory))
	}
}

func TestHandleStats_Scoped(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org1 := fixtures.CreateOrganization(ctx, "Org One")
	org2 := fixtures.CreateOrganization(ctx, "Org Two")
	admin1 := fixtures.CreateAdmin(ctx, "Admin One", "a1@test.com", org1.ID)
	agent2 := fixtures.CreateAgent(ctx, "Agent Two", "a2@test.com", org2.ID)
	fixtures.CreateLead(ctx, "One", "A", &org1.ID, admin1.ID)
	fixtures.CreateLead(ctx, "Two", "B", &org1.ID, admin1.ID)
	fixtures.CreateLead(ctx, "Other", "C", &org2.ID, agent2.ID)

	req := testutil.NewAuthenticatedRequest("GET", "/api/leads/stats", testutil.FromUser(admin1))
	rec := httptest.NewRecorder()
	handler.HandleStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var resp struct {
		Total    int64 `json:"total"`
		ByStatus []struct {
			Status string `json:"status"`
			Count  int64  `json:"count"`
		} `json:"byStatus"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	if resp.Total != 2 {
		t.Errorf("total: got %d, want 2", resp.Total)
	}
	if len(resp.ByStatus) != 1 || resp.ByStatus[0].Status != models.StatusPending || resp.ByStatus[0].Count != 2 {
		t.Errorf("byStatus: got %+v", resp.ByStatus)
	}
}

func TestHandleApplicationTypes(t *testing.T) {
	handler, _ := newTestHandler(t)

	org := primitive.NewObjectID()
	req := testutil.NewAuthenticatedRequest("GET", "/api/catalog/application-types", testutil.AgentUser(org))
	rec := httptest.NewRecorder()
	handler.HandleApplicationTypes(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var resp []struct {
		Name   string `json:"name"`
		Fields []struct {
			Key  string `json:"key"`
			Type string `json:"type"`
		} `json:"fields"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	if len(resp) == 0 {
		t.Fatal("catalog is empty")
	}
	found := false
	for _, at := range resp {
		if at.Name == "Roundup" && len(at.Fields) > 0 {
			found = true
		}
	}
	if !found {
		t.Error("catalog is missing the Roundup field set")
	}
}

func TestHandleCreate_WritesAuditEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	auditStore := audit.New(db)
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{Auth: "db", Admin: "db"})
	handler := leads.NewHandler(db, respond.NewErrorLogger(logger), auditLog, logger)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	agent := fixtures.CreateAgent(ctx, "Agent", "agent@test.com", org.ID)

	req := testutil.NewJSONRequest(t, "POST", "/api/leads", map[string]any{
		"firstName": "Jane",
		"lastName":  "Doe",
	}, testutil.FromUser(agent))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var resp createResponse
	testutil.DecodeJSON(t, rec, &resp)

	events, err := auditStore.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("audit events: got %d, want 1", len(events))
	}
	ev := events[0]
	if ev.EventType != audit.EventLeadCreated {
		t.Errorf("event type: got %q, want %q", ev.EventType, audit.EventLeadCreated)
	}
	if ev.LeadID == nil || ev.LeadID.Hex() != resp.Lead.ID.Hex() {
		t.Errorf("event lead id: got %v, want %s", ev.LeadID, resp.Lead.ID.Hex())
	}
	if ev.ActorID == nil || *ev.ActorID != agent.ID {
		t.Errorf("event actor id: got %v, want %s", ev.ActorID, agent.ID.Hex())
	}
	if ev.Details["status"] != models.StatusPending {
		t.Errorf("event status detail: got %q, want %q", ev.Details["status"], models.StatusPending)
	}
}
