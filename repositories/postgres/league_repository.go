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

// LeagueRepository implements the repositories.LeagueRepository interface
type LeagueRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewLeagueRepository creates a new league repository
func NewLeagueRepository(db *DB, logger *zap.Logger) repositories.LeagueRepository {
	return &LeagueRepository{
		db:     db,
		logger: logger,
	}
}

func scanLeague(row scanner) (*models.League, error) {
	l := &models.League{}
	var region, status string
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Description,
		&l.StartDate,
		&l.EndDate,
		&l.MaxTeams,
		&l.CurrentTeams,
		&l.OrganizerID,
		&region,
		&status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Region = models.Region(region)
	l.Status = models.CompetitionStatus(status)
	return l, nil
}

// GetByID retrieves a league by ID
func (r *LeagueRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.League, error) {
	query := `
		SELECT ` + competitionColumns + `
		FROM leagues
		WHERE id = $1
	`

	l, err := scanLeague(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("league %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return l, nil
}

// List retrieves leagues by start date, optionally filtered by region
func (r *LeagueRepository) List(ctx context.Context, region *models.Region) ([]*models.League, error) {
	query := `SELECT ` + competitionColumns + ` FROM leagues`
	var args []interface{}
	if region != nil {
		query += ` WHERE region = $1`
		args = append(args, string(*region))
	}
	query += ` ORDER BY start_date`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	defer rows.Close()

	leagues := []*models.League{}
	for rows.Next() {
		l, err := scanLeague(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan league: %w", err)
		}
		leagues = append(leagues, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating league rows: %w", err)
	}

	return leagues, nil
}
