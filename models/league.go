package models

import (
	"time"

	"github.com/google/uuid"
)

// League is a season-long competition
type League struct {
	ID           uuid.UUID         `json:"id" db:"id"`
	Name         string            `json:"name" db:"name"`
	Description  *string           `json:"description,omitempty" db:"description"`
	StartDate    time.Time         `json:"start_date" db:"start_date"`
	EndDate      time.Time         `json:"end_date" db:"end_date"`
	MaxTeams     int               `json:"max_teams" db:"max_teams"`
	CurrentTeams int               `json:"current_teams" db:"current_teams"`
	OrganizerID  uuid.UUID         `json:"organizer_id" db:"organizer_id"`
	Region       Region            `json:"region" db:"region"`
	Status       CompetitionStatus `json:"status" db:"status"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the League model
func (League) TableName() string {
	return "leagues"
}
