package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/repositories"
	"go.uber.org/zap"
)

// ProfileRepository implements the repositories.ProfileRepository interface
type ProfileRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *DB, logger *zap.Logger) repositories.ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves the profile of an auth user
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT id, username, full_name, avatar_url, summoner_name, region, puuid, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	p := &models.Profile{}
	var region sql.NullString
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Username,
		&p.FullName,
		&p.AvatarURL,
		&p.SummonerName,
		&region,
		&p.PUUID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if region.Valid {
		reg := models.Region(region.String)
		p.Region = &reg
	}
	return p, nil
}
