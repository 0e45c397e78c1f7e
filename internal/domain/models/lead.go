// internal/domain/models/lead.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead lifecycle statuses. There is no restricted transition graph: any
// status may move to any other status; the audit trail lives in
// StatusHistory.
const (
	StatusPending   = "PENDING"
	StatusDuplicate = "DUPLICATE"
)

// LeadStatuses is the full set of intake workflow labels, in the order the
// UI presents them.
var LeadStatuses = []string{
	"PENDING", "REJECTED", "VERIFIED", "REJECTED_BY_CLIENT", "PAID",
	"DUPLICATE", "NOT_RESPONDING", "FELONY", "DEAD_LEAD", "WORKING",
	"CALL_BACK", "ATTEMPT_1", "ATTEMPT_2", "ATTEMPT_3", "ATTEMPT_4",
	"CHARGEBACK", "WAITING_ID", "SENT_CLIENT", "QC", "ID_VERIFIED",
	"BILLABLE", "CAMPAIGN_PAUSED", "SENT_TO_LAW_FIRM",
}

// IsValidLeadStatus reports whether s is one of the known workflow labels.
func IsValidLeadStatus(s string) bool {
	for _, v := range LeadStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// LeadField is one entry of a lead's dynamic field bag. The set of expected
// keys for a given application type comes from the catalog package; the
// server stores whatever keys the client sends.
type LeadField struct {
	Key   string `bson:"key" json:"key"`
	Value string `bson:"value" json:"value"`
}

// StatusTransition is one entry of a lead's append-only status history.
// The first entry of every lead has FromStatus == "" (creation).
type StatusTransition struct {
	FromStatus string             `bson:"from_status" json:"fromStatus"`
	ToStatus   string             `bson:"to_status" json:"toStatus"`
	Notes      string             `bson:"notes" json:"notes"`
	ChangedBy  primitive.ObjectID `bson:"changed_by" json:"changedBy"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}

// Lead is a client intake record tracked through the status workflow.
type Lead struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FirstName       string              `bson:"first_name" json:"firstName"`
	LastName        string              `bson:"last_name" json:"lastName"`
	Email           string              `bson:"email,omitempty" json:"email,omitempty"`
	Phone           string              `bson:"phone,omitempty" json:"phone,omitempty"`
	DateOfBirth     *time.Time          `bson:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`
	Address         string              `bson:"address,omitempty" json:"address,omitempty"`
	ApplicationType string              `bson:"application_type,omitempty" json:"applicationType,omitempty"`
	Lawsuit         string              `bson:"lawsuit,omitempty" json:"lawsuit,omitempty"`
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Fields          []LeadField         `bson:"fields" json:"fields"`
	Status          string              `bson:"status" json:"status"`
	StatusHistory   []StatusTransition  `bson:"status_history" json:"statusHistory"`
	OrganizationID  *primitive.ObjectID `bson:"organization_id,omitempty" json:"organizationId,omitempty"`
	CreatedBy       primitive.ObjectID  `bson:"created_by" json:"createdBy"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
