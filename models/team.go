package models

import (
	"time"

	"github.com/google/uuid"
)

// Team is a competitive roster, optionally owned by an organization
type Team struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Tag            string     `json:"tag" db:"tag"`
	LogoURL        *string    `json:"logo_url,omitempty" db:"logo_url"`
	CaptainID      uuid.UUID  `json:"captain_id" db:"captain_id"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty" db:"organization_id"`
	Region         Region     `json:"region" db:"region"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Team model
func (Team) TableName() string {
	return "teams"
}
