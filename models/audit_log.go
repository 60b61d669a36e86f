package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/upb/rol-control-plane/permissions"
)

// AuditAction represents the type of staff change being audited
type AuditAction string

const (
	AuditActionStaffCreated     AuditAction = "staff_created"
	AuditActionStaffRoleUpdated AuditAction = "staff_role_updated"
	AuditActionStaffDeleted     AuditAction = "staff_deleted"
)

// AuditLog records one change to staff_members made by an acting staff member
type AuditLog struct {
	ID             uuid.UUID              `json:"id" db:"id"`
	ActorID        uuid.UUID              `json:"actor_id" db:"actor_id"`
	Action         AuditAction            `json:"action" db:"action"`
	StaffID        uuid.UUID              `json:"staff_id" db:"staff_id"`
	TargetUserID   uuid.UUID              `json:"target_user_id" db:"target_user_id"`
	FromRole       *permissions.StaffRole `json:"from_role,omitempty" db:"from_role"`
	ToRole         *permissions.StaffRole `json:"to_role,omitempty" db:"to_role"`
	OrganizationID *uuid.UUID             `json:"organization_id,omitempty" db:"organization_id"`
	RequestID      string                 `json:"request_id,omitempty" db:"request_id"`
	Timestamp      time.Time              `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "rol_audit_log"
}

// NewAuditLog creates an audit entry for a change by actor to member
func NewAuditLog(actorID uuid.UUID, action AuditAction, member *StaffMember) *AuditLog {
	return &AuditLog{
		ID:             uuid.New(),
		ActorID:        actorID,
		Action:         action,
		StaffID:        member.ID,
		TargetUserID:   member.UserID,
		OrganizationID: member.OrganizationID,
		Timestamp:      time.Now(),
	}
}

// WithRoles sets the role before and after the change. Either may be empty.
func (a *AuditLog) WithRoles(from, to permissions.StaffRole) *AuditLog {
	if from != "" {
		a.FromRole = &from
	}
	if to != "" {
		a.ToRole = &to
	}
	return a
}

// WithRequest sets the request id the change came from
func (a *AuditLog) WithRequest(requestID string) *AuditLog {
	a.RequestID = requestID
	return a
}
