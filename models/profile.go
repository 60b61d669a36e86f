package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public profile of an auth user; ID equals the auth user id
type Profile struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	FullName     *string   `json:"full_name,omitempty" db:"full_name"`
	AvatarURL    *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	SummonerName *string   `json:"summoner_name,omitempty" db:"summoner_name"`
	Region       *Region   `json:"region,omitempty" db:"region"`
	PUUID        *string   `json:"puuid,omitempty" db:"puuid"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}

// DisplayName returns the full name when present, otherwise the username
func (p *Profile) DisplayName() string {
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	return p.Username
}
