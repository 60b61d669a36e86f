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

const teamColumns = `id, name, tag, logo_url, captain_id, organization_id, region, created_at, updated_at`

// TeamRepository implements the repositories.TeamRepository interface
type TeamRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *DB, logger *zap.Logger) repositories.TeamRepository {
	return &TeamRepository{
		db:     db,
		logger: logger,
	}
}

func scanTeam(row scanner) (*models.Team, error) {
	team := &models.Team{}
	var region string
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.Tag,
		&team.LogoURL,
		&team.CaptainID,
		&team.OrganizationID,
		&region,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	team.Region = models.Region(region)
	return team, nil
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE id = $1
	`

	team, err := scanTeam(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("team %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// GetByOrganizationID retrieves all teams owned by an organization
func (r *TeamRepository) GetByOrganizationID(ctx context.Context, orgID uuid.UUID) ([]*models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE organization_id = $1
		ORDER BY name
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := []*models.Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}

	return teams, nil
}

// Update writes name, tag and logo of a team
func (r *TeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams
		SET name = $2,
		    tag = $3,
		    logo_url = $4,
		    updated_at = $5
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		team.ID,
		team.Name,
		team.Tag,
		team.LogoURL,
		team.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}

	if err := requireAffected(result, "team", team.ID); err != nil {
		return err
	}

	r.logger.Debug("team updated", zap.String("id", team.ID.String()))
	return nil
}
