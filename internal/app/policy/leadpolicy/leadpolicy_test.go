package leadpolicy_test

import (
	"net/http"
	"testing"

	"github.com/casefront/intakehub/internal/app/policy/leadpolicy"
	"github.com/casefront/intakehub/internal/domain/models"
	"github.com/casefront/intakehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func leadIn(orgID *primitive.ObjectID, createdBy primitive.ObjectID) *models.Lead {
	return &models.Lead{
		ID:             primitive.NewObjectID(),
		FirstName:      "Test",
		LastName:       "Lead",
		OrganizationID: orgID,
		CreatedBy:      createdBy,
	}
}

func TestCanView(t *testing.T) {
	orgA := primitive.NewObjectID()
	orgB := primitive.NewObjectID()

	agent := testutil.AgentUser(orgA)
	agentID, _ := primitive.ObjectIDFromHex(agent.ID)

	tests := []struct {
		name string
		user testutil.TestUser
		lead *models.Lead
		want bool
	}{
		{"super admin sees any lead", testutil.SuperAdminUser(), leadIn(&orgB, primitive.NewObjectID()), true},
		{"super admin sees orgless lead", testutil.SuperAdminUser(), leadIn(nil, primitive.NewObjectID()), true},
		{"admin sees own-org lead", testutil.AdminUser(orgA), leadIn(&orgA, primitive.NewObjectID()), true},
		{"admin blocked from other org", testutil.AdminUser(orgA), leadIn(&orgB, primitive.NewObjectID()), false},
		{"agent sees own lead", agent, leadIn(&orgA, agentID), true},
		{"agent blocked from colleague's lead", agent, leadIn(&orgA, primitive.NewObjectID()), false},
		{"agent blocked from own lead in other org", agent, leadIn(&orgB, agentID), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/leads/x", tt.user)
			if got := leadpolicy.CanView(req, tt.lead); got != tt.want {
				t.Errorf("CanView: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanView_Unauthenticated(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/api/leads/x", nil)
	if leadpolicy.CanView(req, leadIn(nil, primitive.NewObjectID())) {
		t.Error("expected unauthenticated caller to be denied")
	}
}

func TestCanChangeStatus(t *testing.T) {
	orgA := primitive.NewObjectID()

	agent := testutil.AgentUser(orgA)
	agentID, _ := primitive.ObjectIDFromHex(agent.ID)
	ownLead := leadIn(&orgA, agentID)

	// Creator may edit through the general update path...
	req := testutil.NewAuthenticatedRequest(http.MethodPut, "/api/leads/x", agent)
	if !leadpolicy.CanUpdate(req, ownLead) {
		t.Error("expected creator to pass CanUpdate")
	}
	// ...but not the dedicated status endpoint.
	if leadpolicy.CanChangeStatus(req, ownLead) {
		t.Error("expected agent to fail CanChangeStatus")
	}

	adminReq := testutil.NewAuthenticatedRequest(http.MethodPut, "/api/leads/x", testutil.AdminUser(orgA))
	if !leadpolicy.CanChangeStatus(adminReq, ownLead) {
		t.Error("expected same-org admin to pass CanChangeStatus")
	}

	saReq := testutil.NewAuthenticatedRequest(http.MethodPut, "/api/leads/x", testutil.SuperAdminUser())
	if !leadpolicy.CanChangeStatus(saReq, leadIn(nil, primitive.NewObjectID())) {
		t.Error("expected super admin to pass CanChangeStatus")
	}
}
