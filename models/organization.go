package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is an esports organization owning teams
type Organization struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Website      *string   `json:"website,omitempty" db:"website"`
	ContactEmail *string   `json:"contact_email,omitempty" db:"contact_email"`
	LogoURL      *string   `json:"logo_url,omitempty" db:"logo_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Organization model
func (Organization) TableName() string {
	return "organizations"
}
