package models

import (
	"time"

	"github.com/google/uuid"
)

// Tournament is a bracket competition with a team cap
type Tournament struct {
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

// TableName returns the table name for the Tournament model
func (Tournament) TableName() string {
	return "tournaments"
}

// IsFull returns true when no more teams can register
func (t *Tournament) IsFull() bool {
	return t.CurrentTeams >= t.MaxTeams
}

// TournamentTeam is a team's registration in a tournament
type TournamentTeam struct {
	TournamentID     uuid.UUID `json:"tournament_id" db:"tournament_id"`
	TeamID           uuid.UUID `json:"team_id" db:"team_id"`
	RegistrationDate time.Time `json:"registration_date" db:"registration_date"`
}

// TableName returns the table name for the TournamentTeam model
func (TournamentTeam) TableName() string {
	return "tournament_teams"
}
