package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/repositories"
	"go.uber.org/zap"
)

const competitionColumns = `id, name, description, start_date, end_date, max_teams, current_teams, organizer_id, region, status, created_at, updated_at`

// TournamentRepository implements the repositories.TournamentRepository interface
type TournamentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTournamentRepository creates a new tournament repository
func NewTournamentRepository(db *DB, logger *zap.Logger) repositories.TournamentRepository {
	return &TournamentRepository{
		db:     db,
		logger: logger,
	}
}

func scanTournament(row scanner) (*models.Tournament, error) {
	t := &models.Tournament{}
	var region, status string
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.StartDate,
		&t.EndDate,
		&t.MaxTeams,
		&t.CurrentTeams,
		&t.OrganizerID,
		&region,
		&status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Region = models.Region(region)
	t.Status = models.CompetitionStatus(status)
	return t, nil
}

// GetByID retrieves a tournament by ID
func (r *TournamentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	query := `
		SELECT ` + competitionColumns + `
		FROM tournaments
		WHERE id = $1
	`

	t, err := scanTournament(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tournament %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	return t, nil
}

// List retrieves tournaments by start date, optionally filtered by region
func (r *TournamentRepository) List(ctx context.Context, region *models.Region) ([]*models.Tournament, error) {
	query := `SELECT ` + competitionColumns + ` FROM tournaments`
	var args []interface{}
	if region != nil {
		query += ` WHERE region = $1`
		args = append(args, string(*region))
	}
	query += ` ORDER BY start_date`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := []*models.Tournament{}
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		tournaments = append(tournaments, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament rows: %w", err)
	}

	return tournaments, nil
}

// RegisterTeam records the registration and bumps current_teams.
// The counter update is conditional so that the cap holds under concurrent registrations.
func (r *TournamentRepository) RegisterTeam(ctx context.Context, tournamentID, teamID uuid.UUID) (*models.TournamentTeam, error) {
	if !inTransaction(ctx) {
		return nil, repositories.ErrTransactionRequired
	}
	executor := GetExecutor(ctx, r.db)

	bump := `
		UPDATE tournaments
		SET current_teams = current_teams + 1,
		    updated_at = $2
		WHERE id = $1 AND current_teams < max_teams
	`
	now := time.Now()
	result, err := executor.ExecContext(ctx, bump, tournamentID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to update team count: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("tournament %s: %w", tournamentID, repositories.ErrTournamentFull)
	}

	insert := `
		INSERT INTO tournament_teams (tournament_id, team_id, registration_date)
		VALUES ($1, $2, $3)
	`
	if _, err := executor.ExecContext(ctx, insert, tournamentID, teamID, now); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, fmt.Errorf("team %s in tournament %s: %w", teamID, tournamentID, repositories.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to register team: %w", err)
	}

	r.logger.Debug("team registered",
		zap.String("tournament_id", tournamentID.String()),
		zap.String("team_id", teamID.String()),
	)

	return &models.TournamentTeam{
		TournamentID:     tournamentID,
		TeamID:           teamID,
		RegistrationDate: now,
	}, nil
}
