package users_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casefront/intakehub/internal/app/features/users"
	userstore "github.com/casefront/intakehub/internal/app/store/users"
	"github.com/casefront/intakehub/internal/app/system/paging"
	"github.com/casefront/intakehub/internal/app/system/respond"
	"github.com/casefront/intakehub/internal/domain/models"
	"github.com/casefront/intakehub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*users.Handler, *testutil.Fixtures, *userstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	handler := users.NewHandler(db, respond.NewErrorLogger(logger), nil, logger)
	return handler, testutil.NewFixtures(t, db), userstore.New(db)
}

func TestHandleCreate_AdminCreatesAgentInOwnOrg(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com", org.ID)

	req := testutil.NewJSONRequest(t, "POST", "/api/users", map[string]any{
		"name":           "New Agent",
		"email":          "new@test.com",
		"password":       "secret123",
		"role":           "agent",
		"organizationId": org.ID.Hex(),
	}, testutil.FromUser(admin))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created models.User
	testutil.DecodeJSON(t, rec, &created)
	if created.Role != models.RoleAgent || !created.Active {
		t.Errorf("created user: got role=%q active=%v", created.Role, created.Active)
	}
}

func TestHandleCreate_AdminCannotCreateSuperAdmin(t *testing.T) {
	handler, fixtures, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com", org.ID)

	req := testutil.NewJSONRequest(t, "POST", "/api/users", map[string]any{
		"name":           "Sneaky",
		"email":          "sneaky@test.com",
		"password":       "secret123",
		"role":           "super_admin",
		"organizationId": org.ID.Hex(),
	}, testutil.FromUser(admin))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
	if _, err := store.GetByEmail(ctx, "sneaky@test.com"); err == nil {
		t.Error("rejected user was persisted")
	}
}

func TestHandleCreate_AdminOutsideOwnOrg(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org1 := fixtures.CreateOrganization(ctx, "Org One")
	org2 := fixtures.CreateOrganization(ctx, "Org Two")
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com", org1.ID)

	req := testutil.NewJSONRequest(t, "POST", "/api/users", map[string]any{
		"name":           "Elsewhere",
		"email":          "elsewhere@test.com",
		"password":       "secret123",
		"organizationId": org2.ID.Hex(),
	}, testutil.FromUser(admin))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
}

func TestHandleCreate_DuplicateEmail(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	fixtures.CreateAgent(ctx, "Existing", "taken@test.com", org.ID)
	super := fixtures.CreateSuperAdmin(ctx, "Root", "root@test.com")

	req := testutil.NewJSONRequest(t, "POST", "/api/users", map[string]any{
		"name":     "Copycat",
		"email":    "taken@test.com",
		"password": "secret123",
	}, testutil.FromUser(super))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d, want 409", rec.Code)
	}
}

func TestHandleUpdate_SelfRoleChangeRejected(t *testing.T) {
	handler, fixtures, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com", org.ID)

	req := testutil.NewJSONRequest(t, "PUT", "/api/users/"+admin.ID.Hex(), map[string]any{
		"role": "super_admin",
	}, testutil.FromUser(admin))
	req = testutil.WithChiURLParam(req, "id", admin.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403: %s", rec.Code, rec.Body.String())
	}

	// The record must be untouched.
	reloaded, err := store.GetByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.Role != models.RoleAdmin {
		t.Errorf("role: got %q, want admin", reloaded.Role)
	}
}

func TestHandleUpdate_LastActiveSuperAdminProtected(t *testing.T) {
	handler, fixtures, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The only active super_admin in the database; the caller acts as a
	// super_admin that exists only in the session.
	target := fixtures.CreateSuperAdmin(ctx, "Root", "root@test.com")
	caller := testutil.SuperAdminUser()

	req := testutil.NewJSONRequest(t, "PUT", "/api/users/"+target.ID.Hex(), map[string]any{
		"active": false,
	}, caller)
	req = testutil.WithChiURLParam(req, "id", target.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403: %s", rec.Code, rec.Body.String())
	}
	reloaded, err := store.GetByID(ctx, target.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !reloaded.Active {
		t.Error("target was deactivated despite the guard")
	}
}

func TestHandleUpdate_DeactivateSuperAdminWithAnother(t *testing.T) {
	handler, fixtures, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	target := fixtures.CreateSuperAdmin(ctx, "Root One", "root1@test.com")
	fixtures.CreateSuperAdmin(ctx, "Root Two", "root2@test.com")
	caller := testutil.SuperAdminUser()

	req := testutil.NewJSONRequest(t, "PUT", "/api/users/"+target.ID.Hex(), map[string]any{
		"active": false,
	}, caller)
	req = testutil.WithChiURLParam(req, "id", target.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	reloaded, err := store.GetByID(ctx, target.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.Active {
		t.Error("target is still active")
	}
}

func TestHandleUpdate_AdminCannotTouchSuperAdmin(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com", org.ID)
	target := fixtures.CreateUser(ctx, "Root", "root@test.com", models.RoleSuperAdmin, &org.ID)

	req := testutil.NewJSONRequest(t, "PUT", "/api/users/"+target.ID.Hex(), map[string]any{
		"name": "Renamed",
	}, testutil.FromUser(admin))
	req = testutil.WithChiURLParam(req, "id", target.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
}

func TestHandleDelete_SelfDeleteRejected(t *testing.T) {
	handler, fixtures, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com", org.ID)

	req := testutil.NewAuthenticatedRequest("DELETE", "/api/users/"+admin.ID.Hex(), testutil.FromUser(admin))
	req = testutil.WithChiURLParam(req, "id", admin.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
	if _, err := store.GetByID(ctx, admin.ID); err != nil {
		t.Error("user was deleted despite the guard")
	}
}

func TestHandleDelete_LastActiveSuperAdminProtected(t *testing.T) {
	handler, fixtures, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	target := fixtures.CreateSuperAdmin(ctx, "Root", "root@test.com")
	caller := testutil.SuperAdminUser()

	req := testutil.NewAuthenticatedRequest("DELETE", "/api/users/"+target.ID.Hex(), caller)
	req = testutil.WithChiURLParam(req, "id", target.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
	if _, err := store.GetByID(ctx, target.ID); err != nil {
		t.Error("last super_admin was deleted despite the guard")
	}
}

func TestHandleDelete_AgentByAdmin(t *testing.T) {
	handler, fixtures, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Org One")
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com", org.ID)
	target := fixtures.CreateAgent(ctx, "Agent", "agent@test.com", org.ID)

	req := testutil.NewAuthenticatedRequest("DELETE", "/api/users/"+target.ID.Hex(), testutil.FromUser(admin))
	req = testutil.WithChiURLParam(req, "id", target.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if _, err := store.GetByID(ctx, target.ID); err == nil {
		t.Error("user still exists after delete")
	}
}

func TestHandleList_ScopedToOrganization(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org1 := fixtures.CreateOrganization(ctx, "Org One")
	org2 := fixtures.CreateOrganization(ctx, "Org Two")
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com", org1.ID)
	fixtures.CreateAgent(ctx, "Agent One", "a1@test.com", org1.ID)
	fixtures.CreateAgent(ctx, "Agent Two", "a2@test.com", org2.ID)

	req := testutil.NewAuthenticatedRequest("GET", "/api/users", testutil.FromUser(admin))
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var resp struct {
		Users []models.User `json:"users"`
		Meta  paging.Meta   `json:"meta"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	if resp.Meta.Total != 2 {
		t.Fatalf("total: got %d, want 2 (admin and one agent)", resp.Meta.Total)
	}
	for _, u := range resp.Users {
		if u.OrganizationID == nil || *u.OrganizationID != org1.ID {
			t.Errorf("user %s leaked from another organization", u.Email)
		}
	}
}

func TestHandleUpdate_AdminCannotMoveUserAcrossOrgs(t *testing.T) {
	handler, fixtures, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org1 := fixtures.CreateOrganization(ctx, "Org One")
	org2 := fixtures.CreateOrganization(ctx, "Org Two")
	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com", org1.ID)
	agent := fixtures.CreateAgent(ctx, "Agent", "agent@test.com", org1.ID)

	req := testutil.NewJSONRequest(t, "PUT", "/api/users/"+agent.ID.Hex(), map[string]any{
		"organizationId": org2.ID.Hex(),
	}, testutil.FromUser(admin))
	req = testutil.WithChiURLParam(req, "id", agent.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403: %s", rec.Code, rec.Body.String())
	}
	reloaded, err := store.GetByID(ctx, agent.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.OrganizationID == nil || *reloaded.OrganizationID != org1.ID {
		t.Error("agent was moved out of their organization")
	}
}

func TestHandleUpdate_SuperAdminMovesUserAcrossOrgs(t *testing.T) {
	handler, fixtures, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org1 := fixtures.CreateOrganization(ctx, "Org One")
	org2 := fixtures.CreateOrganization(ctx, "Org Two")
	agent := fixtures.CreateAgent(ctx, "Agent", "agent@test.com", org1.ID)

	req := testutil.NewJSONRequest(t, "PUT", "/api/users/"+agent.ID.Hex(), map[string]any{
		"organizationId": org2.ID.Hex(),
	}, testutil.SuperAdminUser())
	req = testutil.WithChiURLParam(req, "id", agent.ID.Hex())
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	reloaded, err := store.GetByID(ctx, agent.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.OrganizationID == nil || *reloaded.OrganizationID != org2.ID {
		t.Error("super admin move did not take effect")
	}
}
