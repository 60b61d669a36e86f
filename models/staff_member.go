package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/upb/rol-control-plane/permissions"
)

// StaffMember links an auth user to a platform staff role.
// OrganizationID is set for staff scoped to a single organization.
type StaffMember struct {
	ID             uuid.UUID             `json:"id" db:"id"`
	UserID         uuid.UUID             `json:"user_id" db:"user_id"`
	Role           permissions.StaffRole `json:"role" db:"role"`
	OrganizationID *uuid.UUID            `json:"organization_id,omitempty" db:"organization_id"`
	CreatedAt      time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the StaffMember model
func (StaffMember) TableName() string {
	return "staff_members"
}

// NewStaffMember creates a new StaffMember instance
func NewStaffMember(userID uuid.UUID, role permissions.StaffRole, orgID *uuid.UUID) *StaffMember {
	now := time.Now()
	return &StaffMember{
		ID:             uuid.New(),
		UserID:         userID,
		Role:           role,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// BelongsTo reports whether the member is scoped to the organization with the given id.
// The id is compared case-insensitively against the canonical uuid form.
func (s *StaffMember) BelongsTo(orgID string) bool {
	if s.OrganizationID == nil {
		return false
	}
	parsed, err := uuid.Parse(orgID)
	if err != nil {
		return false
	}
	return parsed == *s.OrganizationID
}
